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
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrorClass groups driver-specific SQL failures across mysql, postgres,
// and sqlite into comparable categories.
type ErrorClass int

const (
	ErrorUnknown ErrorClass = iota
	ErrorDuplicateKey
	ErrorNotNullViolation
	ErrorForeignKeyViolation
	ErrorCheckViolation
	ErrorNoTable
	ErrorTableExists
	ErrorNoColumn
	ErrorNoIndex
	ErrorIndexExists
	ErrorDataTruncated
	ErrorTypeMismatch
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorDuplicateKey:
		return "duplicate key"
	case ErrorNotNullViolation:
		return "not-null violation"
	case ErrorForeignKeyViolation:
		return "foreign key violation"
	case ErrorCheckViolation:
		return "check constraint violation"
	case ErrorNoTable:
		return "no such table"
	case ErrorTableExists:
		return "table exists"
	case ErrorNoColumn:
		return "no such column"
	case ErrorNoIndex:
		return "no such index"
	case ErrorIndexExists:
		return "index exists"
	case ErrorDataTruncated:
		return "data truncated"
	case ErrorTypeMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

// messagePatterns maps error classes to substring conjunctions checked
// against the lowercased error text; a class matches when all substrings of
// any one conjunction appear. Covers postgres SQLSTATE-bearing messages and
// sqlite's plain-text errors.
var messagePatterns = []struct {
	class ErrorClass
	match [][]string
}{
	{ErrorDuplicateKey, [][]string{
		{"sqlstate 23505"}, {"duplicate key value"}, {"unique constraint failed"}, {"duplicate entry"},
	}},
	{ErrorNotNullViolation, [][]string{
		{"sqlstate 23502"}, {"not-null constraint"}, {"not null constraint failed"},
	}},
	{ErrorForeignKeyViolation, [][]string{
		{"sqlstate 23503"}, {"foreign key constraint"}, {"foreign key violation"},
	}},
	{ErrorCheckViolation, [][]string{
		{"sqlstate 23514"}, {"check constraint"},
	}},
	{ErrorNoTable, [][]string{
		{"sqlstate 42p01"}, {"undefined table"}, {"no such table"},
	}},
	{ErrorTableExists, [][]string{
		{"table", "already exists"}, {"relation", "already exists"},
	}},
	{ErrorNoColumn, [][]string{
		{"sqlstate 42703"}, {"undefined column"}, {"no such column"},
	}},
	{ErrorIndexExists, [][]string{
		{"index", "already exists"},
	}},
	{ErrorNoIndex, [][]string{
		{"sqlstate 42704"}, {"no such index"}, {"index", "does not exist"},
	}},
	{ErrorDataTruncated, [][]string{
		{"sqlstate 22001"}, {"string data right truncation"}, {"data truncated"},
	}},
	{ErrorTypeMismatch, [][]string{
		{"sqlstate 42804"}, {"datatype mismatch"},
	}},
}

// mysqlErrorClasses maps MySQL server error numbers to classes.
var mysqlErrorClasses = map[uint16]ErrorClass{
	1062: ErrorDuplicateKey,
	1048: ErrorNotNullViolation,
	1216: ErrorForeignKeyViolation,
	1217: ErrorForeignKeyViolation,
	1451: ErrorForeignKeyViolation,
	1452: ErrorForeignKeyViolation,
	3819: ErrorCheckViolation,
	1146: ErrorNoTable,
	1050: ErrorTableExists,
	1054: ErrorNoColumn,
	1061: ErrorIndexExists,
	1091: ErrorNoIndex,
	1265: ErrorDataTruncated,
}

// Classify reports whether err is a recognizable SQL failure and, if so,
// which class it belongs to.
func Classify(err error) (ErrorClass, bool) {
	if err == nil {
		return ErrorUnknown, false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if class, ok := mysqlErrorClasses[mysqlErr.Number]; ok {
			return class, true
		}
		return ErrorUnknown, true
	}

	text := strings.ToLower(err.Error())
	for _, pattern := range messagePatterns {
		for _, needles := range pattern.match {
			if containsAll(text, needles) {
				return pattern.class, true
			}
		}
	}
	return ErrorUnknown, false
}

func containsAll(text string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(text, needle) {
			return false
		}
	}
	return true
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	class, ok := Classify(err)
	return ok && class == ErrorDuplicateKey
}

// IsNotFound reports whether err is the driver's row-not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
