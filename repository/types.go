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
	"net/url"

	"github.com/quarryio/quarry/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Attributes is an untyped key-value mapping of entity fields pending
// creation or update. Keys follow the entity's json tags.
type Attributes map[string]any

// Conditions maps a field to either a plain value (equality) or a
// three-element []any{field, operator, value} with an explicit operator.
type Conditions map[string]any

// ScopeFunc is a deferred, composable query transformation applied to the
// select query built for the next terminal operation.
type ScopeFunc func(*bun.SelectQuery) *bun.SelectQuery

// Relation identifies a pivot table linking an owner entity to related rows,
// used by Sync to replace an association set.
type Relation struct {
	Table         string
	OwnerColumn   string
	RelatedColumn string
}

// Reader defines the query side of a repository.
type Reader[T any] interface {
	// All returns every entity visible to the current scopes.
	All(ctx context.Context) ([]*T, error)

	// Find resolves one entity by primary key; a missing row surfaces the
	// driver's not-found error untouched.
	Find(ctx context.Context, id any) (*T, error)

	// First returns the first entity visible to the current scopes.
	First(ctx context.Context) (*T, error)

	// Count returns the number of entities visible to the current scopes.
	Count(ctx context.Context) (int, error)

	// FindByField returns entities whose field equals value.
	FindByField(ctx context.Context, field string, value any) ([]*T, error)

	// FindWhere returns entities matching every condition.
	FindWhere(ctx context.Context, conditions Conditions) ([]*T, error)

	// FindWhereIn returns entities whose field is one of values.
	FindWhereIn(ctx context.Context, field string, values ...any) ([]*T, error)

	// FindWhereNotIn returns entities whose field is none of values.
	FindWhereNotIn(ctx context.Context, field string, values ...any) ([]*T, error)

	// Paginate returns one page of entities plus metadata and navigation
	// links carrying the supplied query values.
	Paginate(ctx context.Context, page, perPage int, query url.Values) (*types.Pagination[T], error)

	// Page returns one page of entities described by a request object
	// carrying page, size, an optional filter, and orderings.
	Page(ctx context.Context, req *types.PageRequest) (*types.Pagination[T], error)
}

// Writer defines the mutating side of a repository. Create and Update run
// attributes through cast, validation, and persistence in that order.
type Writer[T any] interface {
	Create(ctx context.Context, attrs Attributes) (*T, error)

	Update(ctx context.Context, attrs Attributes, id any) (*T, error)

	// Delete soft-deletes when the entity declares a soft-delete column and
	// removes permanently otherwise.
	Delete(ctx context.Context, id any) error

	// ForceDelete removes the row permanently regardless of soft delete.
	ForceDelete(ctx context.Context, id any) error

	// Upsert inserts entities, updating fields on conflictKeys collisions.
	Upsert(ctx context.Context, fields []string, conflictKeys []string, entities ...*T) error

	// Sync replaces the owner's pivot-table association set in one
	// transaction: stale rows are detached, missing rows attached.
	Sync(ctx context.Context, ownerID any, rel Relation, relatedIDs ...any) error

	// SyncWithoutDetaching attaches missing rows but keeps existing ones.
	SyncWithoutDetaching(ctx context.Context, ownerID any, rel Relation, relatedIDs ...any) error
}

// Scoper queues deferred query transformations. Queued scopes apply to the
// next terminal operation only and are cleared once it completes.
type Scoper[T any] interface {
	ScopeQuery(fn ScopeFunc) Repository[T]
	ResetScope() Repository[T]

	// WithTrashed queues a scope that includes soft-deleted rows.
	WithTrashed() Repository[T]

	// OnlyTrashed queues a scope that selects soft-deleted rows only.
	OnlyTrashed() Repository[T]
}

// TrashRepository reverses soft deletes.
type TrashRepository[T any] interface {
	// Restore nulls the soft-delete column and returns the live entity.
	// Entities without a soft-delete column yield ErrNotSoftDeletable.
	Restore(ctx context.Context, id any) (*T, error)
}

// TransactionRepository defines raw persistence operations executed within a
// caller-managed transaction. These forward directly to the query builder
// and bypass cast, validation, and hooks.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx *bun.Tx, entities ...*T) error
	UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error
}

// Repository combines reads, writes, scoping, soft-delete recovery, and
// transactional forwarding, and exposes Bun query builders for anything the
// forwarding surface does not cover.
type Repository[T any] interface {
	Reader[T]
	Writer[T]
	Scoper[T]
	TrashRepository[T]
	TransactionRepository[T]

	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
