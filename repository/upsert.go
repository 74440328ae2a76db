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
	"strings"

	"github.com/quarryio/quarry/database"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
)

// Upsert inserts entities, updating the named fields when a row with the
// same conflict keys already exists. The conflict clause depends on the
// dialect: ON CONFLICT for PostgreSQL/SQLite, ON DUPLICATE KEY for MySQL,
// and an insert-then-update fallback elsewhere.
func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, conflictKeys []string, entities ...*T) error {
	defer r.ResetScope()
	if len(fields) == 0 {
		return fmt.Errorf("repository: upsert fields cannot be empty")
	}
	models := make([]*T, len(entities))
	copy(models, entities)

	switch {
	case r.db.HasFeature(feature.InsertOnConflict):
		return r.upsertOnConflict(ctx, fields, conflictKeys, models)
	case r.db.HasFeature(feature.InsertOnDuplicateKey):
		return r.upsertOnDuplicateKey(ctx, fields, models)
	default:
		return r.upsertFallback(ctx, models)
	}
}

func (r *baseRepositoryImpl[T]) upsertOnConflict(ctx context.Context, fields []string, conflictKeys []string, entities []*T) error {
	if len(conflictKeys) == 0 {
		conflictKeys = []string{r.pk.Name}
	}
	placeholders := make([]string, len(conflictKeys))
	args := make([]interface{}, len(conflictKeys))
	for i, key := range conflictKeys {
		placeholders[i] = "?"
		args[i] = bun.Ident(key)
	}
	q := r.db.NewInsert().
		Model(&entities).
		On("CONFLICT ("+strings.Join(placeholders, ", ")+") DO UPDATE", args...)
	for _, field := range fields {
		q = q.Set("? = EXCLUDED.?", bun.Ident(field), bun.Ident(field))
	}
	_, err := q.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertOnDuplicateKey(ctx context.Context, fields []string, entities []*T) error {
	q := r.db.NewInsert().
		Model(&entities).
		On("DUPLICATE KEY UPDATE")
	for _, field := range fields {
		q = q.Set("? = VALUES(?)", bun.Ident(field), bun.Ident(field))
	}
	_, err := q.Exec(ctx)
	return err
}

// upsertFallback inserts each entity individually and retries as an update
// only when the insert failed on a duplicate key.
func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, entities []*T) error {
	for _, entity := range entities {
		_, err := r.db.NewInsert().Model(entity).Exec(ctx)
		if err == nil {
			continue
		}
		if class, ok := database.Classify(err); !ok || class != database.ErrorDuplicateKey {
			return err
		}
		if _, updateErr := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
			return fmt.Errorf("repository: upsert failed: insert: %v, update: %w", err, updateErr)
		}
	}
	return nil
}
