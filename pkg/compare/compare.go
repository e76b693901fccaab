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

// Package compare implements expected-versus-actual comparison of decoded
// JSON values under two policies: strict structural and value equality with
// precise diagnostics, and lenient type/shape-only comparison that tolerates
// value and array-length drift in generated or paginated data.
package compare

import (
	"fmt"
	"maps"
	"slices"

	"github.com/apivet/apivet/pkg/schema"
)

// Compare checks an actual response value against the expected one. In
// strict mode objects must agree on key sets and member types, and arrays on
// length and element values; in lenient mode only the shape is checked.
func Compare(expected, actual any, strict bool) (bool, string) {
	if schema.ValueEqual(expected, actual) {
		return true, ""
	}

	if !strict {
		return compareStructure(expected, actual)
	}

	if expectedObj, ok := expected.(map[string]any); ok {
		if actualObj, ok := actual.(map[string]any); ok {
			return compareObjects(expectedObj, actualObj)
		}
	}

	if expectedSeq, ok := expected.([]any); ok {
		if actualSeq, ok := actual.([]any); ok {
			return compareSequences(expectedSeq, actualSeq)
		}
	}

	return false, fmt.Sprintf("response mismatch: expected %v, actual %v", expected, actual)
}

func compareObjects(expected, actual map[string]any) (bool, string) {
	// Sorted walks keep the surfaced diagnostic stable when several keys
	// are faulty at once.
	for _, key := range slices.Sorted(maps.Keys(expected)) {
		if _, present := actual[key]; !present {
			return false, fmt.Sprintf("missing key in actual response: '%s'. Expected: %v, Actual: %v", key, expected, actual)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(actual)) {
		if _, present := expected[key]; !present {
			return false, fmt.Sprintf("extra key in actual response: '%s'. Expected: %v, Actual: %v", key, expected, actual)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(expected)) {
		expectedValue := expected[key]
		actualValue := actual[key]

		expectedType := typeName(expectedValue)

		actualType := typeName(actualValue)
		if expectedType != actualType {
			return false, fmt.Sprintf("type mismatch for key '%s': expected %s, got %s. Expected value: %v, Actual value: %v",
				key, expectedType, actualType, expectedValue, actualValue)
		}

		// Nested containers are compared recursively; scalars whose type
		// already matched are accepted as-is. Type matching is the
		// contract for object members, which permits intentionally
		// divergent data values such as generated IDs.
		switch expectedValue.(type) {
		case map[string]any, []any:
			if ok, diag := Compare(expectedValue, actualValue, true); !ok {
				return false, diag
			}
		}
	}

	return true, ""
}

func compareSequences(expected, actual []any) (bool, string) {
	if len(expected) != len(actual) {
		return false, fmt.Sprintf("list length mismatch: expected %d, got %d. Expected: %v, Actual: %v",
			len(expected), len(actual), expected, actual)
	}

	for i := range expected {
		if ok, diag := Compare(expected[i], actual[i], true); !ok {
			return false, diag
		}
	}

	return true, ""
}

// compareStructure is the lenient policy: runtime types must agree, every
// expected object key must exist, and only the first array element's shape
// is checked.
func compareStructure(expected, actual any) (bool, string) {
	if typeName(expected) != typeName(actual) {
		return false, fmt.Sprintf("type mismatch: expected %s, got %s", typeName(expected), typeName(actual))
	}

	if expectedObj, ok := expected.(map[string]any); ok {
		actualObj := actual.(map[string]any)

		for _, key := range slices.Sorted(maps.Keys(expectedObj)) {
			if _, present := actualObj[key]; !present {
				return false, fmt.Sprintf("missing key in actual response: '%s'", key)
			}
		}

		for _, key := range slices.Sorted(maps.Keys(expectedObj)) {
			if ok, diag := compareStructure(expectedObj[key], actualObj[key]); !ok {
				return false, diag
			}
		}

		return true, ""
	}

	if expectedSeq, ok := expected.([]any); ok {
		actualSeq := actual.([]any)

		// Length and trailing-element mismatches are tolerated: generated
		// and paginated data commonly varies in count.
		if len(expectedSeq) > 0 && len(actualSeq) > 0 {
			if ok, diag := compareStructure(expectedSeq[0], actualSeq[0]); !ok {
				return false, fmt.Sprintf("array element structure mismatch: %s", diag)
			}
		}

		return true, ""
	}

	return true, ""
}

func typeName(v any) string {
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
