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

	"github.com/uptrace/bun"
)

func (rel Relation) validate() error {
	if rel.Table == "" || rel.OwnerColumn == "" || rel.RelatedColumn == "" {
		return fmt.Errorf("repository: relation requires table, owner column, and related column")
	}
	return nil
}

// Sync replaces the association set stored in the relation's pivot table:
// rows pointing at related ids not in relatedIDs are detached, missing rows
// are attached. Both steps run in one transaction. An empty relatedIDs
// detaches everything.
func (r *baseRepositoryImpl[T]) Sync(ctx context.Context, ownerID any, rel Relation, relatedIDs ...any) error {
	defer r.ResetScope()
	if err := rel.validate(); err != nil {
		return err
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		detach := tx.NewDelete().
			Table(rel.Table).
			Where("? = ?", bun.Ident(rel.OwnerColumn), ownerID)
		if len(relatedIDs) > 0 {
			detach = detach.Where("? NOT IN (?)", bun.Ident(rel.RelatedColumn), bun.In(relatedIDs))
		}
		if _, err := detach.Exec(ctx); err != nil {
			return err
		}
		return attach(ctx, tx, ownerID, rel, relatedIDs)
	})
}

// SyncWithoutDetaching attaches missing pivot rows while keeping existing
// associations untouched.
func (r *baseRepositoryImpl[T]) SyncWithoutDetaching(ctx context.Context, ownerID any, rel Relation, relatedIDs ...any) error {
	defer r.ResetScope()
	if err := rel.validate(); err != nil {
		return err
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return attach(ctx, tx, ownerID, rel, relatedIDs)
	})
}

func attach(ctx context.Context, tx bun.Tx, ownerID any, rel Relation, relatedIDs []any) error {
	for _, relatedID := range relatedIDs {
		exists, err := tx.NewSelect().
			ColumnExpr("1").
			Table(rel.Table).
			Where("? = ?", bun.Ident(rel.OwnerColumn), ownerID).
			Where("? = ?", bun.Ident(rel.RelatedColumn), relatedID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		row := map[string]interface{}{
			rel.OwnerColumn:   ownerID,
			rel.RelatedColumn: relatedID,
		}
		if _, err := tx.NewInsert().Model(&row).TableExpr("?", bun.Ident(rel.Table)).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
