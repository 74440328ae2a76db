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

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/quarryio/quarry/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreateFromConfig(t *testing.T) {
	factory := database.NewFactory()

	_, err := factory.CreateFromConfig(nil)
	assert.ErrorContains(t, err, "cannot be empty")

	_, err = factory.CreateFromConfig(&database.ConnectionConfig{Type: "mongodb"})
	assert.ErrorContains(t, err, "unsupported database type")

	manager, err := factory.CreateFromConfig(sqliteConfig())
	require.NoError(t, err)
	assert.Same(t, manager, factory.Manager())
}

func TestFactoryEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_ENABLE_QUERY_LOG", "yes")

	cfg := &database.ConnectionConfig{Type: "postgres", Host: "db.internal", Port: 5432}
	_, err := database.NewFactory().CreateFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.override", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 7, cfg.MaxOpenConns)
	assert.Equal(t, 90*time.Second, cfg.ConnMaxLifetime)
	assert.True(t, cfg.EnableQueryLog)
}

func TestFactoryEnvQueryLogForms(t *testing.T) {
	t.Setenv("DB_ENABLE_QUERY_LOG", "0")
	cfg := &database.ConnectionConfig{Type: "sqlite", EnableQueryLog: true}
	_, err := database.NewFactory().CreateFromConfig(cfg)
	require.NoError(t, err)
	assert.False(t, cfg.EnableQueryLog)

	t.Setenv("DB_ENABLE_QUERY_LOG", "on")
	_, err = database.NewFactory().CreateFromConfig(cfg)
	require.NoError(t, err)
	assert.True(t, cfg.EnableQueryLog)
}

func TestFactoryInitializeAndClose(t *testing.T) {
	factory := database.NewFactory()
	ctx := context.Background()

	err := factory.Initialize(ctx, false)
	assert.ErrorContains(t, err, "manager not created")

	_, err = factory.CreateFromConfig(sqliteConfig())
	require.NoError(t, err)
	require.NoError(t, factory.Initialize(ctx, false))

	status := factory.HealthStatus(ctx)
	require.NotNil(t, status)
	assert.True(t, status.Healthy)
	assert.NotNil(t, factory.DB())
	assert.NotNil(t, factory.Stats())

	require.NoError(t, factory.Close())
}
