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

package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateTables creates a table for every registered model, lowest priority
// first so referenced tables exist before referencing ones.
func CreateTables(ctx context.Context, db *bun.DB) error {
	return CreateTablesFor(ctx, db, RegisteredModelInstances()...)
}

// CreateTablesFor creates tables for the given model instances in order.
func CreateTablesFor(ctx context.Context, db *bun.DB, models ...interface{}) error {
	if db == nil {
		return fmt.Errorf("database instance not initialized")
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// DropTables drops the registered models' tables in reverse priority order.
func DropTables(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("database instance not initialized")
	}
	instances := RegisteredModelInstances()
	for i := len(instances) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(instances[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", instances[i], err)
		}
	}
	return nil
}
