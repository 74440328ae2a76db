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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/quarryio/quarry/database"
	"github.com/stretchr/testify/assert"
)

func TestClassifyMySQLErrorNumbers(t *testing.T) {
	cases := []struct {
		number uint16
		want   database.ErrorClass
	}{
		{1062, database.ErrorDuplicateKey},
		{1048, database.ErrorNotNullViolation},
		{1451, database.ErrorForeignKeyViolation},
		{1452, database.ErrorForeignKeyViolation},
		{3819, database.ErrorCheckViolation},
		{1146, database.ErrorNoTable},
		{1050, database.ErrorTableExists},
		{1054, database.ErrorNoColumn},
		{1061, database.ErrorIndexExists},
		{1091, database.ErrorNoIndex},
		{1265, database.ErrorDataTruncated},
	}
	for _, tc := range cases {
		class, ok := database.Classify(&mysql.MySQLError{Number: tc.number})
		assert.True(t, ok, "number %d", tc.number)
		assert.Equal(t, tc.want, class, "number %d", tc.number)
	}

	// A recognized driver error with an unmapped number is still a SQL failure.
	class, ok := database.Classify(&mysql.MySQLError{Number: 9999})
	assert.True(t, ok)
	assert.Equal(t, database.ErrorUnknown, class)
}

func TestClassifyByMessage(t *testing.T) {
	cases := []struct {
		text string
		want database.ErrorClass
	}{
		{`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`, database.ErrorDuplicateKey},
		{"UNIQUE constraint failed: users.email", database.ErrorDuplicateKey},
		{"NOT NULL constraint failed: users.name", database.ErrorNotNullViolation},
		{"FOREIGN KEY constraint failed", database.ErrorForeignKeyViolation},
		{"no such table: users", database.ErrorNoTable},
		{`ERROR: relation "users" already exists (SQLSTATE 42P07)`, database.ErrorTableExists},
		{"no such column: users.nickname", database.ErrorNoColumn},
		{`index "users_email_idx" already exists`, database.ErrorIndexExists},
		{"datatype mismatch", database.ErrorTypeMismatch},
	}
	for _, tc := range cases {
		class, ok := database.Classify(errors.New(tc.text))
		assert.True(t, ok, "text %q", tc.text)
		assert.Equal(t, tc.want, class, "text %q", tc.text)
	}
}

func TestClassifyUnrecognized(t *testing.T) {
	_, ok := database.Classify(nil)
	assert.False(t, ok)

	_, ok = database.Classify(errors.New("connection reset by peer"))
	assert.False(t, ok)
}

func TestClassifyUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("exec insert: %w", &mysql.MySQLError{Number: 1062})
	class, ok := database.Classify(wrapped)
	assert.True(t, ok)
	assert.Equal(t, database.ErrorDuplicateKey, class)
	assert.True(t, database.IsDuplicateKey(wrapped))
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "duplicate key", database.ErrorDuplicateKey.String())
	assert.Equal(t, "no such table", database.ErrorNoTable.String())
	assert.Equal(t, "unknown", database.ErrorUnknown.String())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, database.IsNotFound(sql.ErrNoRows))
	assert.True(t, database.IsNotFound(fmt.Errorf("lookup user: %w", sql.ErrNoRows)))
	assert.False(t, database.IsNotFound(errors.New("no such table: users")))
}
