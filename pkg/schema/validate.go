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

package schema

import (
	"fmt"
	"maps"
	"slices"
)

// Validate checks a decoded JSON value against a fragment. It returns false
// with a single-line diagnostic embedding the dotted/bracketed field path on
// the first violation found.
func Validate(f *Fragment, value any, path string) (bool, string) {
	if f == nil {
		return true, ""
	}

	// Nullable resolution spans both dialects: a "null" entry in a 3.1
	// type list and the 3.0 nullable flag accept a null value outright.
	if value == nil && f.allowsNull() {
		return true, ""
	}

	concrete := f.ConcreteTypes()

	if len(concrete) > 1 {
		// Multi-type union beyond nullable: try each candidate as a
		// full alternate schema and accept the first that validates.
		for _, t := range concrete {
			if ok, _ := Validate(f.withType(t), value, path); ok {
				return true, ""
			}
		}

		return false, fmt.Sprintf("%s: value does not match any of the allowed types: %v", path, concrete)
	}

	// Enum membership precedes type-shape checking.
	if len(f.Enum) > 0 && !enumContains(f.Enum, value) {
		return false, fmt.Sprintf("%s: value '%v' is not one of the allowed enum values: %v", path, value, f.Enum)
	}

	var resolved Type
	if len(concrete) == 1 {
		resolved = concrete[0]
	}

	switch resolved {
	case TypeObject:
		return validateObject(f, value, path)
	case TypeArray:
		return validateArray(f, value, path)
	case TypeString:
		if _, ok := value.(string); !ok {
			return false, fmt.Sprintf("%s: expected string, got %s", path, typeNameOf(value))
		}
	case TypeNumber:
		if _, ok := AsNumber(value); !ok {
			return false, fmt.Sprintf("%s: expected number, got %s", path, typeNameOf(value))
		}
	case TypeInteger:
		if !isIntegral(value) {
			return false, fmt.Sprintf("%s: expected integer, got %s", path, typeNameOf(value))
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return false, fmt.Sprintf("%s: expected boolean, got %s", path, typeNameOf(value))
		}
	}

	return true, ""
}

func validateObject(f *Fragment, value any, path string) (bool, string) {
	obj, ok := value.(map[string]any)
	if !ok {
		return false, fmt.Sprintf("%s: expected object, got %s", path, typeNameOf(value))
	}

	for _, name := range f.Required {
		if _, present := obj[name]; !present {
			return false, fmt.Sprintf("%s: missing required property '%s'", path, name)
		}
	}

	// Declared properties present in the value are validated in sorted name
	// order so the surfaced diagnostic is stable; undeclared properties pass
	// through untouched, matching JSON Schema defaults.
	for _, name := range slices.Sorted(maps.Keys(f.Properties)) {
		v, present := obj[name]
		if !present {
			continue
		}

		if ok, diag := Validate(f.Properties[name], v, childPath(path, name)); !ok {
			return false, diag
		}
	}

	return true, ""
}

func validateArray(f *Fragment, value any, path string) (bool, string) {
	seq, ok := value.([]any)
	if !ok {
		return false, fmt.Sprintf("%s: expected array, got %s", path, typeNameOf(value))
	}

	for i, item := range seq {
		if ok, diag := Validate(f.Items, item, fmt.Sprintf("%s[%d]", path, i)); !ok {
			return false, diag
		}
	}

	return true, ""
}

func enumContains(enum []any, value any) bool {
	for _, candidate := range enum {
		if ValueEqual(candidate, value) {
			return true
		}
	}

	return false
}

func childPath(path, name string) string {
	if path == "" {
		return name
	}

	return path + "." + name
}
