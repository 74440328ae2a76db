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

import "context"

// Hooks holds optional lifecycle callbacks invoked around mutating
// operations. A nil field is skipped silently; a set field is invoked
// exactly once at the documented point. A hook returning an error aborts
// the remaining steps of the operation, so a failing BeforeCreate prevents
// the insert from running.
type Hooks[T any] struct {
	// BeforeCreate runs before cast/validation and may mutate attrs in place.
	BeforeCreate func(ctx context.Context, attrs Attributes) error

	// AfterCreate runs once the insert has succeeded.
	AfterCreate func(ctx context.Context, entity *T, attrs Attributes) error

	// BeforeUpdate runs after the target entity was resolved and may mutate
	// attrs in place. It is never invoked when the entity does not exist.
	BeforeUpdate func(ctx context.Context, entity *T, attrs Attributes) error

	// AfterUpdate runs once the update has succeeded.
	AfterUpdate func(ctx context.Context, entity *T, attrs Attributes) error

	// BeforeDelete runs after the target entity was resolved.
	BeforeDelete func(ctx context.Context, entity *T) error

	// AfterDelete runs once the delete has succeeded; forced reports whether
	// the row was removed permanently.
	AfterDelete func(ctx context.Context, entity *T, forced bool) error

	// BeforeRestore runs after the soft-deleted entity was resolved.
	BeforeRestore func(ctx context.Context, entity *T) error

	// AfterRestore runs once the restore has succeeded.
	AfterRestore func(ctx context.Context, entity *T) error
}
