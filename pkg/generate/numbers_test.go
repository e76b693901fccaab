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

package generate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apivet/apivet/pkg/generate"
	"github.com/apivet/apivet/pkg/schema"
)

func intCases(t *testing.T, f *schema.Fragment) ([]int64, []string) {
	t.Helper()

	cases, warnings := generate.New().Cases(f, "field")

	out := make([]int64, 0, len(cases))

	for _, c := range cases {
		v, ok := c.(int64)
		require.True(t, ok, "expected int64, got %T", c)

		out = append(out, v)
	}

	return out, warnings
}

func floatCases(t *testing.T, f *schema.Fragment) ([]float64, []string) {
	t.Helper()

	cases, warnings := generate.New().Cases(f, "field")

	out := make([]float64, 0, len(cases))

	for _, c := range cases {
		v, ok := c.(float64)
		require.True(t, ok, "expected float64, got %T", c)

		out = append(out, v)
	}

	return out, warnings
}

func TestIntegerBoundedRange(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{
		Types:   []schema.Type{schema.TypeInteger},
		Minimum: ptr(10.0),
		Maximum: ptr(20.0),
	}

	values, warnings := intCases(t, f)
	require.Empty(t, warnings)

	// Both boundaries, plus something strictly between them.
	require.Contains(t, values, int64(10))
	require.Contains(t, values, int64(20))

	between := false

	for _, v := range values {
		require.GreaterOrEqual(t, v, int64(10))
		require.LessOrEqual(t, v, int64(20))

		if v > 10 && v < 20 {
			between = true
		}
	}

	require.True(t, between)
}

func TestIntegerExclusiveBounds(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{
		Types:            []schema.Type{schema.TypeInteger},
		ExclusiveMinimum: ptr(0.0),
		ExclusiveMaximum: ptr(10.0),
	}

	values, _ := intCases(t, f)

	for _, v := range values {
		require.Greater(t, v, int64(0))
		require.Less(t, v, int64(10))
	}
}

func TestIntegerMultipleOf(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{
		Types:      []schema.Type{schema.TypeInteger},
		Minimum:    ptr(0.0),
		Maximum:    ptr(100.0),
		MultipleOf: ptr(7.0),
	}

	values, _ := intCases(t, f)
	require.NotEmpty(t, values)

	for _, v := range values {
		require.Zero(t, v%7)
		require.GreaterOrEqual(t, v, int64(0))
		require.LessOrEqual(t, v, int64(100))
	}
}

func TestIntegerMissingBoundsWarn(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{Types: []schema.Type{schema.TypeInteger}}

	values, warnings := intCases(t, f)

	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "no minimum specified")
	require.Contains(t, warnings[0], "add 'minimum' to the schema to restrict")

	require.Contains(t, values, int64(-1000000))
	require.Contains(t, values, int64(1000000))
	require.Contains(t, values, int64(0))
}

func TestIntegerFormatDefaultBounds(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{Types: []schema.Type{schema.TypeInteger}, Format: "int32"}

	values, warnings := intCases(t, f)

	// Declared formats carry implied bounds, so no warning.
	require.Empty(t, warnings)
	require.Contains(t, values, int64(math.MinInt32))
	require.Contains(t, values, int64(math.MaxInt32))
}

func TestIntegerSortedAscending(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{
		Types:   []schema.Type{schema.TypeInteger},
		Minimum: ptr(-50.0),
		Maximum: ptr(50.0),
	}

	values, _ := intCases(t, f)

	for i := 1; i < len(values); i++ {
		require.Less(t, values[i-1], values[i])
	}
}

func TestNumberBoundedRange(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{
		Types:   []schema.Type{schema.TypeNumber},
		Minimum: ptr(0.0),
		Maximum: ptr(10.0),
	}

	values, warnings := floatCases(t, f)
	require.Empty(t, warnings)

	require.Contains(t, values, 0.0)
	require.Contains(t, values, 10.0)
	require.Contains(t, values, 5.0)

	// High-precision fractional literals inside (minimum, maximum).
	require.Contains(t, values, 0.123456789)

	for _, v := range values {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 10.0)
	}
}

func TestNumberMultipleOfFilter(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{
		Types:      []schema.Type{schema.TypeNumber},
		Minimum:    ptr(0.0),
		Maximum:    ptr(1.0),
		MultipleOf: ptr(0.3),
	}

	values, _ := floatCases(t, f)
	require.NotEmpty(t, values)

	for _, v := range values {
		ratio := v / 0.3
		require.InDelta(t, math.Round(ratio), ratio, 1e-4)
	}
}

func TestNumberZeroSurvivesMultipleOf(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{
		Types:      []schema.Type{schema.TypeNumber},
		Minimum:    ptr(-1.0),
		Maximum:    ptr(1.0),
		MultipleOf: ptr(0.3),
	}

	values, _ := floatCases(t, f)
	require.Contains(t, values, 0.0)
}

func TestNumberMissingBoundsWarn(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{Types: []schema.Type{schema.TypeNumber}, Maximum: ptr(100.0)}

	values, warnings := floatCases(t, f)

	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "no minimum specified")
	require.Contains(t, values, -1000000.0)
}

func TestNumberEnumVerbatim(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{
		Types: []schema.Type{schema.TypeNumber},
		Enum:  []any{0.5, 1.5},
	}

	cases, warnings := generate.New().Cases(f, "field")
	require.Empty(t, warnings)
	require.Equal(t, []any{0.5, 1.5, 3.0}, cases)
}
