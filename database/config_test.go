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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quarryio/quarry/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := database.DefaultConnectionConfig()
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 100, cfg.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 2*time.Second, cfg.SlowQueryTime)
}

func TestLoadConfig(t *testing.T) {
	content := `
connection:
  type: postgres
  host: db.internal
  port: 5432
  username: quarry
  password: secret
  dbname: quarry
  sslmode: require
  max_open_conns: 50
schema:
  create_on_startup: true
`
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := database.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Connection.Type)
	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, 5432, cfg.Connection.Port)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.True(t, cfg.Schema.CreateOnStartup)

	// Explicit values survive, unset pool settings pick up defaults.
	assert.Equal(t, 50, cfg.Connection.MaxOpenConns)
	assert.Equal(t, 10, cfg.Connection.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.Connection.ConnMaxLifetime)
	assert.Equal(t, 2*time.Second, cfg.Connection.SlowQueryTime)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := database.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connection: [not a mapping"), 0o600))

	_, err := database.LoadConfig(path)
	assert.ErrorContains(t, err, "parse config file")
}
