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

var globalFactory *Factory

// InitDB initializes the process-wide database from the configuration,
// registering models with Bun and creating tables for registered models when
// the schema config asks for it.
func InitDB(cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	factory := NewFactory()
	manager, err := factory.CreateFromConfig(&cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("create database manager: %w", err)
	}
	if err := factory.Initialize(context.Background(), cfg.Schema.CreateOnStartup); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	db := manager.DB()
	db.RegisterModel(RegisteredModelInstances()...)
	globalFactory = factory
	return db, nil
}

// GetDB returns the process-wide Bun database, or nil before InitDB.
func GetDB() *bun.DB {
	if globalFactory == nil {
		return nil
	}
	return globalFactory.DB()
}

// GetManager returns the process-wide connection manager, or nil before
// InitDB.
func GetManager() Manager {
	if globalFactory == nil {
		return nil
	}
	return globalFactory.Manager()
}

// CloseDB closes the process-wide database connection.
func CloseDB() error {
	if globalFactory == nil {
		return nil
	}
	return globalFactory.Close()
}

// GetHealthStatus reports the process-wide connection's health.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	if globalFactory == nil {
		return &HealthStatus{LastError: "database not initialized"}
	}
	return globalFactory.HealthStatus(ctx)
}

// GetDatabaseStats reports the process-wide connection's pool statistics.
func GetDatabaseStats() *DBStats {
	if globalFactory == nil {
		return &DBStats{}
	}
	return globalFactory.Stats()
}
