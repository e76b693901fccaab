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

package compare_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apivet/apivet/pkg/compare"
)

func TestStrictIdentical(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare(
		map[string]any{"id": 1.0, "name": "x"},
		map[string]any{"id": 1.0, "name": "x"},
		true,
	)

	require.True(t, ok)
	require.Empty(t, diag)
}

func TestStrictMissingKey(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare(
		map[string]any{"a": 1.0, "b": 2.0},
		map[string]any{"a": 1.0},
		true,
	)

	require.False(t, ok)
	require.Contains(t, diag, "missing key in actual response: 'b'")
}

func TestStrictExtraKey(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare(
		map[string]any{"a": 1.0},
		map[string]any{"a": 1.0, "b": 2.0},
		true,
	)

	require.False(t, ok)
	require.Contains(t, diag, "extra key in actual response: 'b'")
}

func TestStrictTypeMismatch(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare(
		map[string]any{"id": 1.0},
		map[string]any{"id": "1"},
		true,
	)

	require.False(t, ok)
	require.Contains(t, diag, "type mismatch for key 'id': expected number, got string")
}

func TestStrictScalarDriftOnMatchingTypePasses(t *testing.T) {
	t.Parallel()

	// Key sets and member types agree; differing scalar values are
	// accepted, which permits generated identifiers and timestamps.
	ok, _ := compare.Compare(
		map[string]any{"id": 1.0, "name": "alpha"},
		map[string]any{"id": 2.0, "name": "beta"},
		true,
	)

	require.True(t, ok)
}

func TestStrictNestedRecursion(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare(
		map[string]any{"outer": map[string]any{"inner": 1.0}},
		map[string]any{"outer": map[string]any{"other": 1.0}},
		true,
	)

	require.False(t, ok)
	require.Contains(t, diag, "missing key in actual response: 'inner'")
}

func TestStrictListLength(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare(
		[]any{1.0, 2.0},
		[]any{1.0, 2.0, 3.0},
		true,
	)

	require.False(t, ok)
	require.Contains(t, diag, "list length mismatch: expected 2, got 3")
}

func TestStrictScalarMismatch(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare("expected", "actual", true)

	require.False(t, ok)
	require.Contains(t, diag, "response mismatch")
}

func TestLenientValueDrift(t *testing.T) {
	t.Parallel()

	ok, _ := compare.Compare(
		map[string]any{"id": 1.0, "name": "x"},
		map[string]any{"id": 99.0, "name": "y"},
		false,
	)

	require.True(t, ok)
}

func TestLenientArrayLengthDrift(t *testing.T) {
	t.Parallel()

	expected := []any{map[string]any{"id": 1.0}}
	actual := []any{
		map[string]any{"id": 1.0},
		map[string]any{"id": 2.0},
		map[string]any{"id": 3.0},
	}

	ok, _ := compare.Compare(expected, actual, false)
	require.True(t, ok)
}

func TestLenientMissingKeyStillFails(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare(
		map[string]any{"id": 1.0, "name": "x"},
		map[string]any{"id": 1.0},
		false,
	)

	require.False(t, ok)
	require.Contains(t, diag, "missing key in actual response: 'name'")
}

func TestLenientTypeStillFails(t *testing.T) {
	t.Parallel()

	ok, diag := compare.Compare(map[string]any{"id": 1.0}, []any{}, false)

	require.False(t, ok)
	require.Contains(t, diag, "type mismatch: expected object, got array")
}

func TestLenientFirstArrayElementShape(t *testing.T) {
	t.Parallel()

	expected := []any{map[string]any{"id": 1.0}}
	actual := []any{map[string]any{"name": "x"}}

	ok, diag := compare.Compare(expected, actual, false)

	require.False(t, ok)
	require.Contains(t, diag, "array element structure mismatch")
}

func TestLenientEmptyArraysAccepted(t *testing.T) {
	t.Parallel()

	ok, _ := compare.Compare([]any{map[string]any{"id": 1.0}}, []any{}, false)
	require.True(t, ok)
}

func TestStrictMultipleFaultsReportFirstKey(t *testing.T) {
	t.Parallel()

	// With several keys faulty at once the diagnostic always names the
	// alphabetically first one.
	ok, diag := compare.Compare(
		map[string]any{"beta": 1.0, "delta": 2.0, "gamma": 3.0},
		map[string]any{"gamma": 3.0},
		true,
	)

	require.False(t, ok)
	require.Contains(t, diag, "missing key in actual response: 'beta'")

	ok, diag = compare.Compare(
		map[string]any{"id": 1.0},
		map[string]any{"id": 1.0, "extra": true, "another": true},
		true,
	)

	require.False(t, ok)
	require.Contains(t, diag, "extra key in actual response: 'another'")
}
