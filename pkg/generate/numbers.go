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

package generate

import (
	"fmt"
	"math"
	"sort"

	"github.com/apivet/apivet/pkg/schema"
)

// Default bounds substituted when a numeric field declares none. Substituting
// them produces a warning recommending an explicit bound in the schema.
const (
	defaultIntegerBound = 1000000
	defaultNumberBound  = 1000000.0

	// numberEpsilon nudges float bounds inward for exclusive limits.
	numberEpsilon = 0.01

	// multipleTolerance is the relative error accepted when checking float
	// candidates against multipleOf.
	multipleTolerance = 1e-4
)

func missingMinimumWarning(fieldPath string) string {
	return fmt.Sprintf("field '%s': no minimum specified, testing with very large negative numbers; add 'minimum' to the schema to restrict", fieldPath)
}

func missingMaximumWarning(fieldPath string) string {
	return fmt.Sprintf("field '%s': no maximum specified, testing with very large positive numbers; add 'maximum' to the schema to restrict", fieldPath)
}

// integerCases generates boundary, midpoint, zero and representative
// negative candidates for an integer fragment, honoring multipleOf and the
// effective bounds. The warning, if any, reports the first missing bound
// (minimum takes precedence).
func integerCases(f *schema.Fragment, fieldPath string) ([]any, string) {
	if len(f.Enum) > 0 {
		return append([]any{}, f.Enum...), ""
	}

	multiple := int64(1)
	if f.MultipleOf != nil && *f.MultipleOf != 0 {
		multiple = int64(*f.MultipleOf)
	}

	var warning string

	var minVal int64

	switch {
	case f.ExclusiveMinimum != nil:
		minVal = int64(*f.ExclusiveMinimum) + multiple
	case f.Minimum != nil:
		minVal = int64(*f.Minimum)
	case f.Format == "int32":
		minVal = math.MinInt32
	case f.Format == "int64":
		minVal = math.MinInt64
	default:
		minVal = -defaultIntegerBound
		warning = missingMinimumWarning(fieldPath)
	}

	var maxVal int64

	switch {
	case f.ExclusiveMaximum != nil:
		maxVal = int64(*f.ExclusiveMaximum) - multiple
	case f.Maximum != nil:
		maxVal = int64(*f.Maximum)
	case f.Format == "int32":
		maxVal = math.MaxInt32
	case f.Format == "int64":
		maxVal = math.MaxInt64
	default:
		maxVal = defaultIntegerBound

		if warning == "" {
			warning = missingMaximumWarning(fieldPath)
		}
	}

	candidates := []int64{
		roundToMultiple(minVal, multiple),
		roundToMultiple(maxVal, multiple),
	}

	// Overflow-safe midpoint; the full int64 range is a legal bound pair.
	mid := roundToMultiple(minVal/2+maxVal/2, multiple)
	candidates = appendDistinct(candidates, mid)

	if minVal <= 0 && 0 <= maxVal {
		candidates = appendDistinct(candidates, 0)
	}

	if minVal < 0 && maxVal > 0 {
		neg := roundToMultiple(-100, multiple)
		if minVal > -1000 {
			neg = roundToMultiple(minVal/2, multiple)
		}

		if neg >= minVal && neg <= maxVal {
			candidates = appendDistinct(candidates, neg)
		}
	}

	var kept []int64

	for _, c := range candidates {
		if c%multiple != 0 {
			continue
		}

		if c < minVal || c > maxVal {
			continue
		}

		kept = appendDistinct(kept, c)
	}

	// Pathological constraint combinations (say, a multiple that rounds
	// every boundary out of range) still must yield a candidate.
	if len(kept) == 0 {
		c := ceilToMultiple(minVal, multiple)
		if c <= maxVal {
			kept = append(kept, c)
		} else {
			kept = append(kept, minVal)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })

	out := make([]any, 0, len(kept))
	for _, c := range kept {
		out = append(out, c)
	}

	return out, warning
}

// numberCases is the float analogue of integerCases, adding high-precision
// fractional literals and multipleOf snapping within tolerance.
func numberCases(f *schema.Fragment, fieldPath string) ([]any, string) {
	if len(f.Enum) > 0 {
		return append([]any{}, f.Enum...), ""
	}

	var warning string

	var minVal float64

	switch {
	case f.ExclusiveMinimum != nil:
		minVal = *f.ExclusiveMinimum + numberEpsilon
	case f.Minimum != nil:
		minVal = *f.Minimum
	default:
		minVal = -defaultNumberBound
		warning = missingMinimumWarning(fieldPath)
	}

	var maxVal float64

	switch {
	case f.ExclusiveMaximum != nil:
		maxVal = *f.ExclusiveMaximum - numberEpsilon
	case f.Maximum != nil:
		maxVal = *f.Maximum
	default:
		maxVal = defaultNumberBound

		if warning == "" {
			warning = missingMaximumWarning(fieldPath)
		}
	}

	candidates := []float64{minVal, maxVal, (minVal + maxVal) / 2}

	if minVal <= 0 && 0 <= maxVal {
		// Zero is a multiple of any non-zero multipleOf, so it always
		// survives the snapping filter below.
		candidates = append(candidates, 0.0)
	}

	if minVal < 1 && 1 < maxVal {
		candidates = append(candidates, 0.123456789, 0.999999999, 1.111111111)
	}

	if minVal < 0 && 0 < maxVal {
		candidates = append(candidates, -0.123456789)
	}

	if f.MultipleOf != nil && *f.MultipleOf != 0 {
		multiple := *f.MultipleOf

		var valid []float64

		for _, c := range candidates {
			ratio := c / multiple
			if math.Abs(ratio-math.Round(ratio)) < multipleTolerance {
				valid = append(valid, c)
			}
		}

		if len(valid) > 0 {
			candidates = valid
		} else {
			candidates = spanMultiples(minVal, maxVal, multiple, 5)
		}
	}

	var kept []float64

	for _, c := range candidates {
		if c < minVal || c > maxVal {
			continue
		}

		kept = appendDistinctFloat(kept, c)
	}

	if len(kept) == 0 {
		kept = append(kept, minVal)
	}

	sort.Float64s(kept)

	out := make([]any, 0, len(kept))
	for _, c := range kept {
		out = append(out, c)
	}

	return out, warning
}

// spanMultiples synthesizes up to limit valid multiples across the range,
// used when no boundary candidate survives the multipleOf filter.
func spanMultiples(minVal, maxVal, multiple float64, limit int) []float64 {
	var out []float64

	for i := int64(minVal / multiple); i <= int64(maxVal/multiple); i++ {
		v := multiple * float64(i)
		if v < minVal || v > maxVal {
			continue
		}

		out = append(out, v)
		if len(out) == limit {
			break
		}
	}

	return out
}

// roundToMultiple rounds to the nearest multiple of m.
func roundToMultiple(v, m int64) int64 {
	if m == 1 || m == 0 {
		return v
	}

	r := v % m
	if r == 0 {
		return v
	}

	down := v - r // toward zero

	if r > 0 {
		if r*2 >= m {
			return down + m
		}

		return down
	}

	if -r*2 >= m {
		return down - m
	}

	return down
}

// ceilToMultiple rounds up to the nearest multiple of m.
func ceilToMultiple(v, m int64) int64 {
	if m == 1 || m == 0 {
		return v
	}

	r := v % m
	if r == 0 {
		return v
	}

	if v > 0 {
		return v - r + m
	}

	return v - r
}

func appendDistinct(values []int64, v int64) []int64 {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}

	return append(values, v)
}

func appendDistinctFloat(values []float64, v float64) []float64 {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}

	return append(values, v)
}
