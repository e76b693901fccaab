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
	"maps"
	"slices"
)

// ContainsInvalidEnum reports whether the value carries, anywhere in its
// structure, a scalar that violates an enum declared for its position in
// the schema. It mirrors the object/array descent of Validate but checks
// enum membership only, never full typing: it exists to classify a request
// body as a negative test case before it is sent.
func ContainsInvalidEnum(f *Fragment, value any) bool {
	if f == nil {
		return false
	}

	if len(f.Enum) > 0 {
		switch value.(type) {
		case map[string]any, []any:
			// Enums on composites are not scanned; only scalar
			// positions drive negative testing.
		default:
			if !enumContains(f.Enum, value) {
				return true
			}
		}
	}

	resolved, ok := f.ResolvedType()
	if !ok {
		return false
	}

	switch resolved {
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return false
		}

		for _, name := range slices.Sorted(maps.Keys(f.Properties)) {
			v, present := obj[name]
			if !present {
				continue
			}

			if ContainsInvalidEnum(f.Properties[name], v) {
				return true
			}
		}
	case TypeArray:
		seq, ok := value.([]any)
		if !ok {
			return false
		}

		for _, item := range seq {
			if ContainsInvalidEnum(f.Items, item) {
				return true
			}
		}
	}

	return false
}
