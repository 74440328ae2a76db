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
	"encoding/json"
	"fmt"
)

// castAttributes fills a zero entity from the attribute map, coercing values
// through the entity's declared field types via its json tags.
func castAttributes[T any](attrs Attributes) (*T, error) {
	entity := new(T)
	if err := castInto(entity, attrs); err != nil {
		return nil, err
	}
	return entity, nil
}

// castInto merges the attribute map onto an existing entity value. Fields
// absent from attrs keep their current value.
func castInto(target any, attrs Attributes) error {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("cast attributes: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("cast attributes: %w", err)
	}
	return nil
}

// castValues projects the coerced entity back into a map restricted to the
// keys the caller supplied, so validation sees typed values rather than raw
// input.
func castValues(entity any, attrs Attributes) (map[string]any, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("cast attributes: %w", err)
	}
	var all map[string]any
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("cast attributes: %w", err)
	}
	out := make(map[string]any, len(attrs))
	for key, value := range attrs {
		if coerced, ok := all[key]; ok {
			out[key] = coerced
		} else {
			out[key] = value
		}
	}
	return out, nil
}
