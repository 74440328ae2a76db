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

// Package quarry exposes a generic service facade bound to the process-wide
// database connection. Applications that manage their own *bun.DB should use
// the repository package directly.
package quarry

import (
	"context"
	"net/url"
	"sync"

	"github.com/quarryio/quarry/database"
	"github.com/quarryio/quarry/repository"
	"github.com/quarryio/quarry/types"
	"github.com/uptrace/bun"
)

// Service is a thin forwarding facade over the generic repository, lazily
// bound to the global database connection on first use.
type Service[T any] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// First returns the first entity visible to the current scopes.
	First(ctx context.Context) (*T, error)

	// Count returns the number of entities visible to the current scopes.
	Count(ctx context.Context) (int, error)

	// FindByField returns entities whose field equals value.
	FindByField(ctx context.Context, field string, value any) ([]*T, error)

	// FindWhere returns entities matching every condition.
	FindWhere(ctx context.Context, conditions repository.Conditions) ([]*T, error)

	// FindWhereIn returns entities whose field is one of values.
	FindWhereIn(ctx context.Context, field string, values ...any) ([]*T, error)

	// FindWhereNotIn returns entities whose field is none of values.
	FindWhereNotIn(ctx context.Context, field string, values ...any) ([]*T, error)

	// Paginate returns one page of entities plus navigation links.
	Paginate(ctx context.Context, page, perPage int, query url.Values) (*types.Pagination[T], error)

	// Page returns one page of entities described by a request object.
	Page(ctx context.Context, req *types.PageRequest) (*types.Pagination[T], error)

	// Create casts, validates, and persists a new entity.
	Create(ctx context.Context, attrs repository.Attributes) (*T, error)

	// Update casts, validates, and persists changes to an existing entity.
	Update(ctx context.Context, attrs repository.Attributes, id any) (*T, error)

	// Delete removes an entity, soft-deleting when supported.
	Delete(ctx context.Context, id any) error

	// ForceDelete removes an entity permanently.
	ForceDelete(ctx context.Context, id any) error

	// Restore reverses a soft delete.
	Restore(ctx context.Context, id any) (*T, error)

	// Upsert inserts entities, updating fields on conflict.
	Upsert(ctx context.Context, fields []string, conflictKeys []string, entities ...*T) error

	// Sync replaces a pivot-table association set.
	Sync(ctx context.Context, ownerID any, rel repository.Relation, relatedIDs ...any) error

	// SyncWithoutDetaching attaches associations without removing existing ones.
	SyncWithoutDetaching(ctx context.Context, ownerID any, rel repository.Relation, relatedIDs ...any) error

	// ScopeQuery queues a deferred query transformation for the next
	// operation.
	ScopeQuery(fn repository.ScopeFunc) Service[T]

	// ResetScope clears queued scopes.
	ResetScope() Service[T]

	// WithTrashed includes soft-deleted rows in the next operation.
	WithTrashed() Service[T]

	// OnlyTrashed restricts the next operation to soft-deleted rows.
	OnlyTrashed() Service[T]

	// SaveWithTx inserts entities within an existing transaction.
	SaveWithTx(ctx context.Context, tx *bun.Tx, entities ...*T) error

	// UpdateWithTx updates an entity within a transaction.
	UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error

	// DeleteWithTx removes an entity within a transaction.
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error

	// SelectBuilder returns a Bun select query builder.
	SelectBuilder() *bun.SelectQuery

	// InsertBuilder returns a Bun insert query builder.
	InsertBuilder() *bun.InsertQuery

	// UpdateBuilder returns a Bun update query builder.
	UpdateBuilder() *bun.UpdateQuery

	// DeleteBuilder returns a Bun delete query builder.
	DeleteBuilder() *bun.DeleteQuery

	// Repository returns the underlying generic repository.
	Repository() repository.Repository[T]
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
	opts []repository.Option[T]
	once sync.Once
}

// NewService returns a Service bound lazily to the global database
// connection. Options are forwarded to the underlying repository.
func NewService[T any](opts ...repository.Option[T]) Service[T] {
	return &baseServiceImpl[T]{opts: opts}
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() {
		s.repo = repository.MustNewRepository[T](database.GetDB(), s.opts...)
	})
	return s.repo
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().Find(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	return s.baseRepo().All(ctx)
}

func (s *baseServiceImpl[T]) First(ctx context.Context) (*T, error) {
	return s.baseRepo().First(ctx)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context) (int, error) {
	return s.baseRepo().Count(ctx)
}

func (s *baseServiceImpl[T]) FindByField(ctx context.Context, field string, value any) ([]*T, error) {
	return s.baseRepo().FindByField(ctx, field, value)
}

func (s *baseServiceImpl[T]) FindWhere(ctx context.Context, conditions repository.Conditions) ([]*T, error) {
	return s.baseRepo().FindWhere(ctx, conditions)
}

func (s *baseServiceImpl[T]) FindWhereIn(ctx context.Context, field string, values ...any) ([]*T, error) {
	return s.baseRepo().FindWhereIn(ctx, field, values...)
}

func (s *baseServiceImpl[T]) FindWhereNotIn(ctx context.Context, field string, values ...any) ([]*T, error) {
	return s.baseRepo().FindWhereNotIn(ctx, field, values...)
}

func (s *baseServiceImpl[T]) Paginate(ctx context.Context, page, perPage int, query url.Values) (*types.Pagination[T], error) {
	return s.baseRepo().Paginate(ctx, page, perPage, query)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, req *types.PageRequest) (*types.Pagination[T], error) {
	return s.baseRepo().Page(ctx, req)
}

func (s *baseServiceImpl[T]) Create(ctx context.Context, attrs repository.Attributes) (*T, error) {
	return s.baseRepo().Create(ctx, attrs)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, attrs repository.Attributes, id any) (*T, error) {
	return s.baseRepo().Update(ctx, attrs, id)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) error {
	return s.baseRepo().Delete(ctx, id)
}

func (s *baseServiceImpl[T]) ForceDelete(ctx context.Context, id any) error {
	return s.baseRepo().ForceDelete(ctx, id)
}

func (s *baseServiceImpl[T]) Restore(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().Restore(ctx, id)
}

func (s *baseServiceImpl[T]) Upsert(ctx context.Context, fields []string, conflictKeys []string, entities ...*T) error {
	return s.baseRepo().Upsert(ctx, fields, conflictKeys, entities...)
}

func (s *baseServiceImpl[T]) Sync(ctx context.Context, ownerID any, rel repository.Relation, relatedIDs ...any) error {
	return s.baseRepo().Sync(ctx, ownerID, rel, relatedIDs...)
}

func (s *baseServiceImpl[T]) SyncWithoutDetaching(ctx context.Context, ownerID any, rel repository.Relation, relatedIDs ...any) error {
	return s.baseRepo().SyncWithoutDetaching(ctx, ownerID, rel, relatedIDs...)
}

func (s *baseServiceImpl[T]) ScopeQuery(fn repository.ScopeFunc) Service[T] {
	s.baseRepo().ScopeQuery(fn)
	return s
}

func (s *baseServiceImpl[T]) ResetScope() Service[T] {
	s.baseRepo().ResetScope()
	return s
}

func (s *baseServiceImpl[T]) WithTrashed() Service[T] {
	s.baseRepo().WithTrashed()
	return s
}

func (s *baseServiceImpl[T]) OnlyTrashed() Service[T] {
	s.baseRepo().OnlyTrashed()
	return s
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx *bun.Tx, entities ...*T) error {
	return s.baseRepo().CreateWithTx(ctx, tx, entities...)
}

func (s *baseServiceImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error {
	return s.baseRepo().UpdateWithTx(ctx, tx, entity)
}

func (s *baseServiceImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	return s.baseRepo().DeleteWithTx(ctx, tx, id)
}

func (s *baseServiceImpl[T]) SelectBuilder() *bun.SelectQuery {
	return s.baseRepo().NewSelect()
}

func (s *baseServiceImpl[T]) InsertBuilder() *bun.InsertQuery {
	return s.baseRepo().NewInsert()
}

func (s *baseServiceImpl[T]) UpdateBuilder() *bun.UpdateQuery {
	return s.baseRepo().NewUpdate()
}

func (s *baseServiceImpl[T]) DeleteBuilder() *bun.DeleteQuery {
	return s.baseRepo().NewDelete()
}

func (s *baseServiceImpl[T]) Repository() repository.Repository[T] {
	return s.baseRepo()
}
