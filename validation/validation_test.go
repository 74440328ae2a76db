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

package validation_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/quarryio/quarry/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakePasses(t *testing.T) {
	s := validation.NewService()
	result := s.Make(map[string]interface{}{
		"name": "dora",
		"age":  30,
	}, validation.Rules{
		"name": "required,min=3",
		"age":  "gte=18",
	}, nil)

	assert.True(t, result.Passes())
	assert.False(t, result.Fails())
	assert.True(t, result.Errors().Empty())
}

func TestMakeFailures(t *testing.T) {
	s := validation.NewService()
	result := s.Make(map[string]interface{}{
		"name": "al",
		"age":  10,
	}, validation.Rules{
		"name": "required,min=3",
		"age":  "gte=18",
	}, nil)

	require.True(t, result.Fails())
	errs := result.Errors()
	assert.True(t, errs.Has("name"))
	assert.True(t, errs.Has("age"))
	assert.False(t, errs.Has("email"))
	assert.Contains(t, errs.Get("name")[0], "min=3")
}

func TestMakeRequiredFailsForMissingField(t *testing.T) {
	s := validation.NewService()
	result := s.Make(map[string]interface{}{}, validation.Rules{
		"name": "required",
		"age":  "gte=18", // non-presence rule, skipped when absent
	}, nil)

	require.True(t, result.Fails())
	assert.True(t, result.Errors().Has("name"))
	assert.False(t, result.Errors().Has("age"))
}

func TestMakeIgnoresFieldsWithoutRules(t *testing.T) {
	s := validation.NewService()
	result := s.Make(map[string]interface{}{
		"name":  "dora",
		"extra": "anything goes",
	}, validation.Rules{
		"name": "required",
	}, nil)

	assert.True(t, result.Passes())
}

func TestMessageOverrides(t *testing.T) {
	s := validation.NewService()
	messages := map[string]string{
		"name.min": "pick a longer name",
		"age":      "age is unacceptable",
	}
	result := s.Make(map[string]interface{}{
		"name": "al",
		"age":  10,
	}, validation.Rules{
		"name": "required,min=3",
		"age":  "gte=18",
	}, messages)

	require.True(t, result.Fails())
	assert.Contains(t, result.Errors().Get("name"), "pick a longer name")
	assert.Contains(t, result.Errors().Get("age"), "age is unacceptable")
}

func TestEmptyRulesAlwaysPass(t *testing.T) {
	s := validation.NewService()
	assert.True(t, s.Make(map[string]interface{}{"name": ""}, nil, nil).Passes())
	assert.True(t, s.Make(nil, validation.Rules{}, nil).Passes())
}

func TestErrorsError(t *testing.T) {
	errs := validation.NewErrors()
	assert.True(t, errs.Empty())
	assert.Equal(t, "validation passed", errs.Error())

	errs.Add("name", "name is required")
	errs.Add("age", "age must be at least 18")
	errs.Add("age", "age must be a number")

	assert.False(t, errs.Empty())
	assert.Len(t, errs.Fields(), 2)
	// Fields render in sorted order.
	assert.Equal(t,
		"validation failed: age must be at least 18; age must be a number; name is required",
		errs.Error())

	var err error = errs
	assert.NotEmpty(t, err.Error())
}

func TestEngineCustomTag(t *testing.T) {
	s := validation.NewService()
	err := s.Engine().RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	})
	require.NoError(t, err)

	assert.True(t, s.Make(map[string]interface{}{"count": 4}, validation.Rules{"count": "even"}, nil).Passes())
	assert.True(t, s.Make(map[string]interface{}{"count": 3}, validation.Rules{"count": "even"}, nil).Fails())
}
