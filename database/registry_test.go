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
	"testing"

	"github.com/quarryio/quarry/database"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

type regAccount struct {
	bun.BaseModel `bun:"table:reg_accounts"`
	ID            int64 `bun:"id,pk,autoincrement"`
}

type regMembership struct {
	bun.BaseModel `bun:"table:reg_memberships"`
	ID            int64 `bun:"id,pk,autoincrement"`
	AccountID     int64 `bun:"account_id"`
}

func TestRegisterModelOrdersByPriority(t *testing.T) {
	// Referencing table registered first but with a higher priority value;
	// the referenced table must come out ahead of it.
	database.RegisterModel((*regMembership)(nil), 20)
	database.RegisterModel((*regAccount)(nil), 10)

	instances := database.RegisteredModelInstances()
	accountIdx, membershipIdx := -1, -1
	for i, instance := range instances {
		switch instance.(type) {
		case *regAccount:
			accountIdx = i
		case *regMembership:
			membershipIdx = i
		}
	}
	assert.GreaterOrEqual(t, accountIdx, 0)
	assert.GreaterOrEqual(t, membershipIdx, 0)
	assert.Less(t, accountIdx, membershipIdx)

	models := database.RegisteredModels()
	assert.Len(t, models, len(instances))
}
