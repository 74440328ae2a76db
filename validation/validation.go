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

// Package validation evaluates attribute maps against declared field rules.
// Rule evaluation itself is delegated to go-playground/validator; this
// package only shapes the make/passes/errors workflow around it and owns the
// Errors type that repositories surface on failed writes.
package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rules maps a field name to its rule tag string (for example
// "required,min=3") or to a nested Rules map for map-valued fields.
type Rules map[string]interface{}

// RulesProvider is implemented by entities that declare their own rules.
// Rules are resolved on every call, never cached.
type RulesProvider interface {
	ValidationRules() Rules
}

// MessagesProvider is implemented by entities that override failure messages.
// Keys are either "field.rule" or "field"; the more specific key wins.
type MessagesProvider interface {
	ValidationMessages() map[string]string
}

// Service wraps a validator instance and produces Validation results.
type Service struct {
	validate *validator.Validate
}

// NewService returns a validation service with a fresh validator instance.
func NewService() *Service {
	return &Service{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Engine exposes the underlying validator for tag registration and other
// advanced configuration.
func (s *Service) Engine() *validator.Validate {
	return s.validate
}

// Make evaluates attrs against rules and returns the result. Fields without
// a rule are ignored; rules for absent fields are skipped unless the rule
// contains "required", which still fails for missing input.
func (s *Service) Make(attrs map[string]interface{}, rules Rules, messages map[string]string) *Validation {
	return s.MakeCtx(context.Background(), attrs, rules, messages)
}

// MakeCtx is Make with an explicit context.
func (s *Service) MakeCtx(ctx context.Context, attrs map[string]interface{}, rules Rules, messages map[string]string) *Validation {
	result := &Validation{errors: &Errors{fields: map[string][]string{}}}
	if len(rules) == 0 {
		return result
	}

	// Rules for absent fields are dropped unless they assert presence, so a
	// partial attribute set only fails on "required".
	applicable := make(map[string]interface{}, len(rules))
	for field, rule := range rules {
		if _, ok := attrs[field]; ok {
			applicable[field] = rule
			continue
		}
		if tag, ok := rule.(string); ok && strings.Contains(tag, "required") {
			applicable[field] = rule
		}
	}
	if len(applicable) == 0 {
		return result
	}

	for field, failure := range s.validate.ValidateMapCtx(ctx, attrs, applicable) {
		switch fieldErr := failure.(type) {
		case validator.ValidationErrors:
			for _, fe := range fieldErr {
				result.errors.Add(field, failureMessage(field, fe.Tag(), fe.Param(), messages))
			}
		case error:
			result.errors.Add(field, fieldErr.Error())
		default:
			result.errors.Add(field, fmt.Sprintf("field %s failed validation", field))
		}
	}
	return result
}

func failureMessage(field, rule, param string, messages map[string]string) string {
	if messages != nil {
		if msg, ok := messages[field+"."+rule]; ok {
			return msg
		}
		if msg, ok := messages[field]; ok {
			return msg
		}
	}
	if param != "" {
		return fmt.Sprintf("field %s failed on the %s=%s rule", field, rule, param)
	}
	return fmt.Sprintf("field %s failed on the %s rule", field, rule)
}

// Validation is the outcome of a Make call.
type Validation struct {
	errors *Errors
}

// Passes reports whether no rule failed.
func (v *Validation) Passes() bool {
	return v.errors.Empty()
}

// Fails is the negation of Passes.
func (v *Validation) Fails() bool {
	return !v.Passes()
}

// Errors returns the collected failure detail. It is non-nil even on success.
func (v *Validation) Errors() *Errors {
	return v.errors
}

// Errors carries per-field failure messages and implements error. It is the
// only error type originated by the repository layer itself.
type Errors struct {
	fields map[string][]string
}

// NewErrors returns an empty failure collection.
func NewErrors() *Errors {
	return &Errors{fields: map[string][]string{}}
}

// Add appends a failure message for a field.
func (e *Errors) Add(field, message string) {
	e.fields[field] = append(e.fields[field], message)
}

// Empty reports whether no failure was recorded.
func (e *Errors) Empty() bool {
	return len(e.fields) == 0
}

// Get returns the messages recorded for a field.
func (e *Errors) Get(field string) []string {
	return e.fields[field]
}

// Has reports whether the field has at least one failure.
func (e *Errors) Has(field string) bool {
	return len(e.fields[field]) > 0
}

// Fields returns all failures keyed by field.
func (e *Errors) Fields() map[string][]string {
	return e.fields
}

// Error renders every failure, fields in sorted order.
func (e *Errors) Error() string {
	if e.Empty() {
		return "validation passed"
	}
	fields := make([]string, 0, len(e.fields))
	for field := range e.fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(strings.Join(e.fields[field], "; "))
	}
	return b.String()
}
