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
	"sort"
	"sync"
)

var defaultRegistry = newModelRegistry()

// Model is a registered entity definition. Instance returns a struct pointer
// usable as a Bun model; Priority controls schema-creation order (lower
// first), so referenced tables can be created before referencing ones.
type Model interface {
	Instance() interface{}
	Priority() int
}

// ModelRegistry stores models and exposes them in deterministic order.
type ModelRegistry interface {
	Register(model Model)
	Models() []Model
}

type modelRegistry struct {
	models []Model
	mutex  sync.RWMutex
}

func newModelRegistry() ModelRegistry {
	return &modelRegistry{models: make([]Model, 0)}
}

func (r *modelRegistry) Register(model Model) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models = append(r.models, model)
}

func (r *modelRegistry) Models() []Model {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	result := make([]Model, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type modelEntry struct {
	instance interface{}
	priority int
}

func (e *modelEntry) Instance() interface{} { return e.instance }

func (e *modelEntry) Priority() int { return e.priority }

// RegisterModel adds a model instance to the default registry.
func RegisterModel(instance interface{}, priority int) {
	defaultRegistry.Register(&modelEntry{instance: instance, priority: priority})
}

// RegisteredModels returns the default registry's models sorted by priority.
func RegisteredModels() []Model {
	return defaultRegistry.Models()
}

// RegisteredModelInstances returns the registered struct instances in
// priority order, ready to hand to Bun.
func RegisteredModelInstances() []interface{} {
	models := RegisteredModels()
	instances := make([]interface{}, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}
