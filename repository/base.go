/*
 * Copyright 2026 quarryio.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"sort"

	"github.com/quarryio/quarry/types"
	"github.com/quarryio/quarry/validation"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db        *bun.DB
	table     *schema.Table
	pk        *schema.Field
	scopes    []ScopeFunc
	hooks     Hooks[T]
	validator *validation.Service
	rules     validation.Rules
	messages  map[string]string
}

// Option configures a repository at construction time.
type Option[T any] func(*baseRepositoryImpl[T])

// WithHooks attaches lifecycle hooks to the repository.
func WithHooks[T any](hooks Hooks[T]) Option[T] {
	return func(r *baseRepositoryImpl[T]) { r.hooks = hooks }
}

// WithValidation sets the rules (and optional message overrides) applied to
// every Create/Update. When unset, rules are resolved from the entity's
// RulesProvider implementation, if any.
func WithValidation[T any](rules validation.Rules, messages map[string]string) Option[T] {
	return func(r *baseRepositoryImpl[T]) {
		r.rules = rules
		r.messages = messages
	}
}

// WithValidator replaces the default validation service, allowing custom
// rule tags registered on a shared engine.
func WithValidator[T any](service *validation.Service) Option[T] {
	return func(r *baseRepositoryImpl[T]) {
		if service != nil {
			r.validator = service
		}
	}
}

// NewRepository returns a generic repository for T backed by the provided
// Bun DB. It fails fast, before any query executes, when T cannot serve as
// an entity type: non-struct types and models without a primary key are
// rejected.
func NewRepository[T any](db *bun.DB, opts ...Option[T]) (Repository[T], error) {
	if db == nil {
		return nil, fmt.Errorf("repository: database handle must not be nil")
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("repository: entity type %s is not a struct", typ)
	}
	table := db.Table(typ)
	if len(table.PKs) == 0 {
		return nil, fmt.Errorf("repository: entity %s declares no primary key", typ)
	}
	r := &baseRepositoryImpl[T]{
		db:        db,
		table:     table,
		pk:        table.PKs[0],
		validator: validation.NewService(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNewRepository is NewRepository panicking on misconfiguration.
func MustNewRepository[T any](db *bun.DB, opts ...Option[T]) Repository[T] {
	r, err := NewRepository[T](db, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

// ScopeQuery appends a deferred query transformation and returns the
// repository for chaining.
func (r *baseRepositoryImpl[T]) ScopeQuery(fn ScopeFunc) Repository[T] {
	r.scopes = append(r.scopes, fn)
	return r
}

// ResetScope clears the pending scope queue. Every terminal operation calls
// it on completion, so queued scopes never leak into the next operation.
func (r *baseRepositoryImpl[T]) ResetScope() Repository[T] {
	r.scopes = nil
	return r
}

func (r *baseRepositoryImpl[T]) WithTrashed() Repository[T] {
	return r.ScopeQuery(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereAllWithDeleted()
	})
}

func (r *baseRepositoryImpl[T]) OnlyTrashed() Repository[T] {
	return r.ScopeQuery(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereDeleted()
	})
}

// applyScope folds the queued scopes over q in insertion order. Nil entries
// are skipped silently.
func (r *baseRepositoryImpl[T]) applyScope(q *bun.SelectQuery) *bun.SelectQuery {
	for _, scope := range r.scopes {
		if scope == nil {
			continue
		}
		q = scope(q)
	}
	return q
}

func (r *baseRepositoryImpl[T]) All(ctx context.Context) ([]*T, error) {
	defer r.ResetScope()
	var entities []*T
	err := r.applyScope(r.db.NewSelect().Model(&entities)).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Find(ctx context.Context, id any) (*T, error) {
	defer r.ResetScope()
	return r.findScoped(ctx, id, false)
}

func (r *baseRepositoryImpl[T]) First(ctx context.Context) (*T, error) {
	defer r.ResetScope()
	entity := new(T)
	err := r.applyScope(r.db.NewSelect().Model(entity)).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context) (int, error) {
	defer r.ResetScope()
	return r.applyScope(r.db.NewSelect().Model((*T)(nil))).Count(ctx)
}

func (r *baseRepositoryImpl[T]) FindByField(ctx context.Context, field string, value any) ([]*T, error) {
	defer r.ResetScope()
	var entities []*T
	err := r.applyScope(r.db.NewSelect().Model(&entities)).
		Where("? = ?", bun.Ident(field), value).
		Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) FindWhere(ctx context.Context, conditions Conditions) ([]*T, error) {
	defer r.ResetScope()
	var entities []*T
	q := r.applyScope(r.db.NewSelect().Model(&entities))
	q, err := applyConditions(q, conditions)
	if err != nil {
		return nil, err
	}
	err = q.Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) FindWhereIn(ctx context.Context, field string, values ...any) ([]*T, error) {
	defer r.ResetScope()
	var entities []*T
	err := r.applyScope(r.db.NewSelect().Model(&entities)).
		Where("? IN (?)", bun.Ident(field), bun.In(values)).
		Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) FindWhereNotIn(ctx context.Context, field string, values ...any) ([]*T, error) {
	defer r.ResetScope()
	var entities []*T
	err := r.applyScope(r.db.NewSelect().Model(&entities)).
		Where("? NOT IN (?)", bun.Ident(field), bun.In(values)).
		Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Paginate(ctx context.Context, page, perPage int, query url.Values) (*types.Pagination[T], error) {
	defer r.ResetScope()
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	var entities []*T
	q := r.applyScope(r.db.NewSelect().Model(&entities))
	pagination := types.NewDefaultPagination[T](page, perPage)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}
	pagination.SetTotal(total)
	if total > 0 {
		if err := q.Offset((page - 1) * perPage).Limit(perPage).Scan(ctx); err != nil {
			return nil, err
		}
		pagination.Items = entities
	}
	pagination.BuildLinks(query)
	return pagination, nil
}

// Page returns one page of entities described by the request, applying its
// filter and orderings on top of any queued scopes.
func (r *baseRepositoryImpl[T]) Page(ctx context.Context, req *types.PageRequest) (*types.Pagination[T], error) {
	defer r.ResetScope()
	if req == nil {
		req = types.NewDefaultPageRequest(1, 10)
	}
	var entities []*T
	q := r.applyScope(r.db.NewSelect().Model(&entities))
	if filter := req.GetFilter(); filter != nil {
		q = q.Where(filter.Schema, filter.Args...)
	}
	pagination := types.NewDefaultPagination[T](req.GetPage(), req.GetPageSize())
	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}
	pagination.SetTotal(total)
	if total > 0 {
		for _, order := range req.GetOrders() {
			q = q.Order(order)
		}
		if err := q.Offset(req.GetOffset()).Limit(req.GetPageSize()).Scan(ctx); err != nil {
			return nil, err
		}
		pagination.Items = entities
	}
	pagination.BuildLinks(nil)
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, attrs Attributes) (*T, error) {
	defer r.ResetScope()
	if hook := r.hooks.BeforeCreate; hook != nil {
		if err := hook(ctx, attrs); err != nil {
			return nil, err
		}
	}
	entity, err := castAttributes[T](attrs)
	if err != nil {
		return nil, err
	}
	if err := r.validate(ctx, entity, attrs); err != nil {
		return nil, err
	}
	if _, err := r.db.NewInsert().Model(entity).Exec(ctx); err != nil {
		return nil, err
	}
	if hook := r.hooks.AfterCreate; hook != nil {
		if err := hook(ctx, entity, attrs); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, attrs Attributes, id any) (*T, error) {
	defer r.ResetScope()
	entity, err := r.findScoped(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if hook := r.hooks.BeforeUpdate; hook != nil {
		if err := hook(ctx, entity, attrs); err != nil {
			return nil, err
		}
	}
	if err := castInto(entity, attrs); err != nil {
		return nil, err
	}
	if err := r.validate(ctx, entity, attrs); err != nil {
		return nil, err
	}
	if _, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	if hook := r.hooks.AfterUpdate; hook != nil {
		if err := hook(ctx, entity, attrs); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	return r.remove(ctx, id, false)
}

func (r *baseRepositoryImpl[T]) ForceDelete(ctx context.Context, id any) error {
	return r.remove(ctx, id, true)
}

func (r *baseRepositoryImpl[T]) remove(ctx context.Context, id any, force bool) error {
	defer r.ResetScope()
	entity, err := r.findScoped(ctx, id, force)
	if err != nil {
		return err
	}
	if hook := r.hooks.BeforeDelete; hook != nil {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	q := r.db.NewDelete().Model(entity).WherePK()
	if force && r.table.SoftDeleteField != nil {
		q = q.ForceDelete().WhereAllWithDeleted()
	}
	if _, err := q.Exec(ctx); err != nil {
		return err
	}
	if hook := r.hooks.AfterDelete; hook != nil {
		if err := hook(ctx, entity, force); err != nil {
			return err
		}
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Restore(ctx context.Context, id any) (*T, error) {
	defer r.ResetScope()
	if r.table.SoftDeleteField == nil {
		return nil, ErrNotSoftDeletable
	}
	entity, err := r.findScoped(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if hook := r.hooks.BeforeRestore; hook != nil {
		if err := hook(ctx, entity); err != nil {
			return nil, err
		}
	}
	_, err = r.db.NewUpdate().
		Model(entity).
		Set("? = NULL", bun.Ident(r.table.SoftDeleteField.Name)).
		WherePK().
		WhereAllWithDeleted().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	restored := new(T)
	err = r.db.NewSelect().Model(restored).
		Where("? = ?", bun.Ident(r.pk.Name), id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if hook := r.hooks.AfterRestore; hook != nil {
		if err := hook(ctx, restored); err != nil {
			return nil, err
		}
	}
	return restored, nil
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx *bun.Tx, entities ...*T) error {
	_, err := tx.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error {
	_, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	var entity T
	_, err := tx.NewDelete().Model(&entity).
		Where("? = ?", bun.Ident(r.pk.Name), id).
		Exec(ctx)
	return err
}

// findScoped resolves one entity by primary key under the current scopes
// without clearing them. withTrashed widens the lookup to soft-deleted rows.
func (r *baseRepositoryImpl[T]) findScoped(ctx context.Context, id any, withTrashed bool) (*T, error) {
	entity := new(T)
	q := r.applyScope(r.db.NewSelect().Model(entity))
	if withTrashed && r.table.SoftDeleteField != nil {
		q = q.WhereAllWithDeleted()
	}
	if err := q.Where("? = ?", bun.Ident(r.pk.Name), id).Scan(ctx); err != nil {
		return nil, err
	}
	return entity, nil
}

// validate runs the resolved rules against the cast attribute values. It
// returns *validation.Errors when any rule fails; persistence must not run
// in that case.
func (r *baseRepositoryImpl[T]) validate(ctx context.Context, entity *T, attrs Attributes) error {
	rules := r.rules
	if len(rules) == 0 {
		if provider, ok := any(new(T)).(validation.RulesProvider); ok {
			rules = provider.ValidationRules()
		}
	}
	if len(rules) == 0 {
		return nil
	}
	messages := r.messages
	if messages == nil {
		if provider, ok := any(new(T)).(validation.MessagesProvider); ok {
			messages = provider.ValidationMessages()
		}
	}
	cast, err := castValues(entity, attrs)
	if err != nil {
		return err
	}
	if result := r.validator.MakeCtx(ctx, cast, rules, messages); result.Fails() {
		return result.Errors()
	}
	return nil
}

// applyConditions translates the condition mapping into WHERE clauses,
// preserving the {field: value} equality form and the
// {field: [field, operator, value]} explicit-operator form. Fields are
// visited in sorted order so generated SQL is deterministic.
func applyConditions(q *bun.SelectQuery, conditions Conditions) (*bun.SelectQuery, error) {
	fields := make([]string, 0, len(conditions))
	for field := range conditions {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		switch value := conditions[field].(type) {
		case []any:
			if len(value) != 3 {
				return nil, fmt.Errorf("repository: condition for %q must be [field, operator, value], got %d elements", field, len(value))
			}
			column, ok := value[0].(string)
			if !ok {
				return nil, fmt.Errorf("repository: condition field for %q must be a string", field)
			}
			rawOp, ok := value[1].(string)
			if !ok {
				return nil, fmt.Errorf("repository: condition operator for %q must be a string", field)
			}
			op, err := validOperator(rawOp)
			if err != nil {
				return nil, err
			}
			q = q.Where(fmt.Sprintf("? %s ?", op), bun.Ident(column), value[2])
		default:
			q = q.Where("? = ?", bun.Ident(field), value)
		}
	}
	return q, nil
}
