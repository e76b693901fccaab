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

// Package generate synthesizes deterministic test values from schema
// fragments: boundary values, midpoints, format-specific literals and
// edge-case strings, all subject to the declared constraints. Synthesis
// never fails; missing constraints fall back to documented defaults and a
// warning string instead of an error.
package generate

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/apivet/apivet/pkg/schema"
)

// fallbackValue is returned for fragments with an absent or unrecognized
// type tag.
const fallbackValue = "test-value"

// fallbackString is the last-resort string candidate.
const fallbackString = "test-string"

// edgeCaseStrings is the battery used for unconstrained string fields.
var edgeCaseStrings = []string{
	"Lorem ipsum dolor sit amet",
	"Test with 'single' quotes",
	`Test with "double" quotes`,
	"Test:with:colons",
	`Test\with\backslashes`,
	"Test\nwith\nnewlines",
	"Test\r\nwith\r\nCRLF",
	"Test with UTF-8: café, naïve, 中文, 日本語",
	"Test!@#$%^&*()_+-=[]{}|;:<>?,./`~",
	"",
}

// formatLiterals holds realistic values for the string formats the
// synthesizer recognizes. Unknown formats get a "test-<format>" placeholder.
var formatLiterals = map[string][]string{
	"email":        {"test@example.com", "user+tag@subdomain.example.co.uk", "test.user@example.com"},
	"ipv4":         {"192.168.1.1", "10.0.0.1", "127.0.0.1"},
	"ip":           {"192.168.1.1", "10.0.0.1", "127.0.0.1"},
	"ipv6":         {"2001:0db8:85a3:0000:0000:8a2e:0370:7334", "::1", "fe80::1"},
	"hostname":     {"example.com", "subdomain.example.com", "test-server.local"},
	"idn-hostname": {"example.com", "subdomain.example.com", "test-server.local"},
	"uri":          {"https://example.com/path", "http://localhost:8080/api/v1/resource"},
	"url":          {"https://example.com/path", "http://localhost:8080/api/v1/resource"},
	"date":         {"2025-12-23", "2024-01-01"},
	"date-time":    {"2025-12-23T10:30:00Z", "2024-01-01T00:00:00+00:00"},
	"time":         {"10:30:00", "23:59:59"},
	"uuid":         {"550e8400-e29b-41d4-a716-446655440000", "123e4567-e89b-12d3-a456-426614174000"},
}

// Synthesizer generates test cases from schema fragments. The zero value is
// usable but cannot sample regex patterns; use New for the full behavior.
type Synthesizer struct {
	sampler PatternSampler
}

// New returns a synthesizer with the default pattern sampler.
func New() *Synthesizer {
	return &Synthesizer{sampler: NewRegexSampler(patternSampleSeed)}
}

// WithSampler returns a synthesizer using the given pattern sampler, which
// may be nil to disable pattern sampling entirely.
func WithSampler(sampler PatternSampler) *Synthesizer {
	return &Synthesizer{sampler: sampler}
}

// Cases produces the ordered, deterministic, non-empty candidate sequence
// for a fragment. fieldPath is the human-readable location used in warnings,
// extended with ".name" for object properties and "[]" for array items.
//
// Enum-bearing scalar fragments yield the declared values plus exactly one
// synthesized out-of-set value, which downstream classification turns into a
// negative test case. Objects yield one representative plus one variant per
// enum-bearing property carrying that property's out-of-set value.
func (s *Synthesizer) Cases(f *schema.Fragment, fieldPath string) ([]any, []string) {
	if f == nil {
		return []any{fallbackValue}, nil
	}

	concrete := f.ConcreteTypes()
	if len(concrete) == 0 {
		return []any{fallbackValue}, nil
	}

	// Multi-type unions beyond nullable are rare; generate for the first
	// declared candidate type.
	resolved := concrete[0]

	var cases []any

	var warnings []string

	switch resolved {
	case schema.TypeString:
		cases, warnings = s.stringCases(f, fieldPath)
	case schema.TypeInteger:
		var warning string
		cases, warning = integerCases(f, fieldPath)
		warnings = appendWarning(warnings, warning)
	case schema.TypeNumber:
		var warning string
		cases, warning = numberCases(f, fieldPath)
		warnings = appendWarning(warnings, warning)
	case schema.TypeBoolean:
		cases = []any{true, false}
	case schema.TypeArray:
		cases, warnings = s.arrayCases(f, fieldPath)
	case schema.TypeObject:
		cases, warnings = s.objectCases(f, fieldPath)
	default:
		cases = []any{fallbackValue}
	}

	if len(f.Enum) > 0 {
		if invalid, ok := invalidEnumValue(resolved, f.Enum); ok {
			cases = append(cases, invalid)
		}
	}

	if len(cases) == 0 {
		cases = []any{fallbackValue}
	}

	return cases, warnings
}

// stringCases implements the string priority order: pattern, enum, format,
// then the generic edge-case battery, followed by length filtering.
func (s *Synthesizer) stringCases(f *schema.Fragment, fieldPath string) ([]any, []string) {
	var cases []any

	var warnings []string

	switch {
	case f.Pattern != "":
		samples, err := s.samplePattern(f.Pattern)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("field '%s': could not generate from pattern '%s': %v", fieldPath, f.Pattern, err))
			cases = append(cases, fallbackString)
		} else {
			for _, sample := range samples {
				cases = append(cases, sample)
			}
		}
	case len(f.Enum) > 0:
		cases = append(cases, f.Enum...)
	case f.Format != "":
		if literals, ok := formatLiterals[f.Format]; ok {
			for _, lit := range literals {
				cases = append(cases, lit)
			}
		} else {
			cases = append(cases, "test-"+f.Format)
		}
	default:
		for _, edge := range edgeCaseStrings {
			cases = append(cases, edge)
		}
	}

	filtered := filterByLength(cases, f.MinLength, f.MaxLength)

	// A declared length constraint that rejected every candidate still has
	// to produce something satisfiable.
	if len(filtered) == 0 && (f.MinLength > 0 || f.MaxLength != nil) {
		target := f.MinLength + 5
		if f.MaxLength != nil && *f.MaxLength < target {
			target = *f.MaxLength
		}

		filtered = append(filtered, strings.Repeat("a", int(target)))
	}

	if len(filtered) == 0 {
		filtered = append(filtered, fallbackString)
	}

	return filtered, warnings
}

func (s *Synthesizer) samplePattern(pattern string) ([]string, error) {
	if s.sampler == nil {
		return nil, errNoSampler
	}

	return s.sampler.Sample(pattern, patternSampleCount)
}

// arrayCases builds array variants from the head of the item candidate
// sequence: empty when allowed, single-item, exactly minItems and exactly
// maxItems.
func (s *Synthesizer) arrayCases(f *schema.Fragment, fieldPath string) ([]any, []string) {
	itemCases, warnings := s.Cases(f.Items, fieldPath+"[]")

	minItems := int(f.MinItems)

	maxItems := 3
	if f.MaxItems != nil {
		maxItems = int(*f.MaxItems)
	}

	var arrays []any

	if minItems == 0 {
		arrays = append(arrays, []any{})
	}

	if minItems <= 1 && 1 <= maxItems && len(itemCases) > 0 {
		arrays = append(arrays, []any{itemCases[0]})
	}

	if minItems > 0 && len(itemCases) > 0 {
		arrays = append(arrays, prefix(itemCases, minItems))
	}

	if len(itemCases) > 0 {
		arrays = append(arrays, prefix(itemCases, maxItems))
	}

	return arrays, warnings
}

// objectCases assembles one representative object holding the first
// candidate for every declared property, then one negative variant per
// enum-bearing scalar property with that property swapped for a value
// outside its declared set. Property warnings are collected and propagated
// together.
func (s *Synthesizer) objectCases(f *schema.Fragment, fieldPath string) ([]any, []string) {
	representative := map[string]any{}

	var warnings []string

	names := sortedPropertyNames(f)

	for _, name := range names {
		propCases, propWarnings := s.Cases(f.Properties[name], fieldPath+"."+name)
		warnings = append(warnings, propWarnings...)

		if len(propCases) > 0 {
			representative[name] = propCases[0]
		}
	}

	cases := []any{representative}

	for _, name := range names {
		prop := f.Properties[name]
		if prop == nil || len(prop.Enum) == 0 {
			continue
		}

		concrete := prop.ConcreteTypes()
		if len(concrete) == 0 {
			continue
		}

		invalid, ok := invalidEnumValue(concrete[0], prop.Enum)
		if !ok {
			continue
		}

		variant := maps.Clone(representative)
		variant[name] = invalid

		cases = append(cases, variant)
	}

	return cases, warnings
}

// invalidEnumValue picks a deterministic value provably absent from the
// declared enum, used to drive negative testing. Only scalar types
// participate.
func invalidEnumValue(t schema.Type, enum []any) (any, bool) {
	switch t {
	case schema.TypeString:
		candidate := "not-a-valid-value"
		for enumHas(enum, candidate) {
			candidate += "-x"
		}

		return candidate, true
	case schema.TypeInteger:
		return int64(maxEnumNumber(enum)) + 1, true
	case schema.TypeNumber:
		return maxEnumNumber(enum) + 1.5, true
	default:
		return nil, false
	}
}

func enumHas(enum []any, value any) bool {
	for _, member := range enum {
		if schema.ValueEqual(member, value) {
			return true
		}
	}

	return false
}

// maxEnumNumber returns the largest numeric member, or zero for an enum
// with no numeric members; adding to it guarantees a value outside the set.
func maxEnumNumber(enum []any) float64 {
	max := 0.0

	for _, member := range enum {
		if n, ok := schema.AsNumber(member); ok && n > max {
			max = n
		}
	}

	return max
}

func filterByLength(cases []any, minLength uint64, maxLength *uint64) []any {
	var out []any

	for _, c := range cases {
		s, ok := c.(string)
		if !ok {
			out = append(out, c)
			continue
		}

		length := uint64(utf8.RuneCountInString(s))
		if length < minLength {
			continue
		}

		if maxLength != nil && length > *maxLength {
			continue
		}

		out = append(out, c)
	}

	return out
}

func prefix(cases []any, n int) []any {
	if n > len(cases) {
		n = len(cases)
	}

	return append([]any{}, cases[:n]...)
}

func sortedPropertyNames(f *schema.Fragment) []string {
	names := make([]string, 0, len(f.Properties))
	for name := range f.Properties {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func appendWarning(warnings []string, warning string) []string {
	if warning == "" {
		return warnings
	}

	return append(warnings, warning)
}
