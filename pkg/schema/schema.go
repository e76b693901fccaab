/*
Copyright 2025-2026 the Apivet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package schema models the subset of JSON Schema consumed by the contract
// engine as an explicit tagged representation, parsed once from the OpenAPI
// document, together with value validation over that representation.
package schema

import (
	"math"

	"github.com/getkin/kin-openapi/openapi3"
)

// Type is a JSON Schema type tag.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
	TypeNull    Type = "null"
)

// Fragment is one parsed schema node. Fragments are immutable once parsed
// and owned by the caller for the duration of one run.
type Fragment struct {
	// Types holds the declared type list. A single entry is the common
	// case; "null" may appear alongside at most one concrete type, and
	// anything beyond that is resolved by trying each candidate in turn.
	// Empty means the type was omitted or unrecognized.
	Types []Type

	// Nullable is the OpenAPI 3.0 dialect flag; 3.1 documents express the
	// same thing with a "null" entry in Types.
	Nullable bool

	Enum    []any
	Format  string
	Pattern string

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	MinLength uint64
	MaxLength *uint64

	MinItems uint64
	MaxItems *uint64

	Items      *Fragment
	Properties map[string]*Fragment
	Required   []string
}

// FromOpenAPI converts a kin-openapi schema reference into a Fragment.
// A nil or empty reference yields a Fragment with no type, which the
// synthesizer and validator treat as unconstrained.
func FromOpenAPI(ref *openapi3.SchemaRef) *Fragment {
	if ref == nil || ref.Value == nil {
		return &Fragment{}
	}

	s := ref.Value

	f := &Fragment{
		Nullable:  s.Nullable,
		Enum:      s.Enum,
		Format:    s.Format,
		Pattern:   s.Pattern,
		MinLength: s.MinLength,
		MaxLength: s.MaxLength,
		MinItems:  s.MinItems,
		MaxItems:  s.MaxItems,
		Required:  s.Required,
	}

	if s.Type != nil {
		for _, t := range s.Type.Slice() {
			f.Types = append(f.Types, Type(t))
		}
	}

	// kin-openapi models exclusive bounds as booleans qualifying the bound
	// value, the OpenAPI 3.0 dialect. Fold them into the numeric
	// exclusive-bound representation the generator works with.
	if s.Min != nil {
		if s.ExclusiveMin {
			f.ExclusiveMinimum = s.Min
		} else {
			f.Minimum = s.Min
		}
	}

	if s.Max != nil {
		if s.ExclusiveMax {
			f.ExclusiveMaximum = s.Max
		} else {
			f.Maximum = s.Max
		}
	}

	f.MultipleOf = s.MultipleOf

	if s.Items != nil {
		f.Items = FromOpenAPI(s.Items)
	}

	if len(s.Properties) > 0 {
		f.Properties = make(map[string]*Fragment, len(s.Properties))

		for name, prop := range s.Properties {
			f.Properties[name] = FromOpenAPI(prop)
		}
	}

	return f
}

// ResolvedType returns the single concrete type of the fragment, ignoring a
// "null" entry. ok is false when the type is absent or ambiguous.
func (f *Fragment) ResolvedType() (Type, bool) {
	concrete := f.ConcreteTypes()
	if len(concrete) != 1 {
		return "", false
	}

	return concrete[0], true
}

// ConcreteTypes returns the declared types with "null" stripped.
func (f *Fragment) ConcreteTypes() []Type {
	var out []Type

	for _, t := range f.Types {
		if t != TypeNull {
			out = append(out, t)
		}
	}

	return out
}

// allowsNull reports whether null is an acceptable value under either the
// 3.0 nullable flag or a 3.1 type-list entry.
func (f *Fragment) allowsNull() bool {
	if f.Nullable {
		return true
	}

	for _, t := range f.Types {
		if t == TypeNull {
			return true
		}
	}

	return false
}

// withType returns a shallow copy of the fragment pinned to one type, used
// when validating multi-type unions candidate by candidate.
func (f *Fragment) withType(t Type) *Fragment {
	clone := *f
	clone.Types = []Type{t}
	clone.Nullable = false

	return &clone
}

// typeNameOf names the JSON type of a decoded value for diagnostics.
func typeNameOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// AsNumber normalizes the numeric representations a value may arrive in,
// either from encoding/json (float64) or from in-process test fixtures.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// isIntegral reports whether the value is an integer-valued number.
// Booleans are never integral even though Go will not confuse them; JSON
// decoders in other runtimes do, so the check is explicit.
func isIntegral(v any) bool {
	if _, ok := v.(bool); ok {
		return false
	}

	n, ok := AsNumber(v)
	if !ok {
		return false
	}

	return n == math.Trunc(n)
}

// ValueEqual compares two decoded JSON values, normalizing numeric
// representations so that fixture-built ints and decoded float64s agree.
func ValueEqual(a, b any) bool {
	if an, ok := AsNumber(a); ok {
		bn, ok := AsNumber(b)
		return ok && an == bn
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}

		for i := range av {
			if !ValueEqual(av[i], bv[i]) {
				return false
			}
		}

		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}

		for k, v := range av {
			other, present := bv[k]
			if !present || !ValueEqual(v, other) {
				return false
			}
		}

		return true
	default:
		return false
	}
}
