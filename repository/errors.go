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
	"errors"
	"fmt"
	"strings"
)

// ErrNotSoftDeletable is returned when a soft-delete operation is requested
// for an entity type that declares no soft-delete column.
var ErrNotSoftDeletable = errors.New("repository: entity does not support soft delete")

// supported operators for the explicit-operator condition form.
var allowedOperators = map[string]struct{}{
	"=": {}, "!=": {}, "<>": {},
	"<": {}, "<=": {}, ">": {}, ">=": {},
	"LIKE": {}, "NOT LIKE": {}, "ILIKE": {},
	"IS": {}, "IS NOT": {},
}

func validOperator(op string) (string, error) {
	normalized := strings.Join(strings.Fields(strings.ToUpper(op)), " ")
	if _, ok := allowedOperators[normalized]; !ok {
		return "", fmt.Errorf("repository: unsupported condition operator %q", op)
	}
	return normalized, nil
}
