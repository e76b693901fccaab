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

// Package report renders verification results as plain text for terminals
// and as Markdown for artifacts. Both renderings show every recorded
// exchange; the Markdown summary counts are computed from the same records
// so they can never disagree with the detail.
package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/apivet/apivet/pkg/contract"
)

const separatorWidth = 80

const emptyMessage = "No tests have been run yet."

// Text renders the human-readable terminal report.
func Text(results []contract.Result) string {
	if len(results) == 0 {
		return emptyMessage
	}

	var b strings.Builder

	rule := strings.Repeat("=", separatorWidth)

	fmt.Fprintf(&b, "%s\nOpenAPI Contract Test Report\n%s\n\n", rule, rule)

	for i, result := range results {
		fmt.Fprintf(&b, "Test #%d %s\n", i+1, statusGlyph(result.Success))

		switch result.Origin {
		case contract.OriginExample:
			b.WriteString("📋 Test case from OpenAPI example\n")
		case contract.OriginGenerated:
			b.WriteString("🔧 Test case generated from schema\n")
		}

		fmt.Fprintf(&b, "%s %s\n", result.Method, result.Path)

		if result.RequestBody != nil {
			b.WriteString("Requested:\n")

			for _, line := range strings.Split(renderJSON(result.RequestBody), "\n") {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}

		b.WriteString("\n")

		fmt.Fprintf(&b, "Expected %s\n", expectedStatusDisplay(result))
		fmt.Fprintf(&b, "  %s\n", indentContinuation(renderBody(result.ExpectedBody)))
		b.WriteString("\n")

		fmt.Fprintf(&b, "Actual %s\n", actualStatusDisplay(result))
		fmt.Fprintf(&b, "  %s\n", indentContinuation(renderBody(result.ActualBody)))

		if !result.Success && result.Error != "" {
			fmt.Fprintf(&b, "\nError: %s\n", result.Error)
		}

		fmt.Fprintf(&b, "\n%s\n\n", strings.Repeat("-", separatorWidth))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Markdown renders the report as a Markdown document with a summary section.
func Markdown(results []contract.Result) string {
	if len(results) == 0 {
		return emptyMessage
	}

	var b strings.Builder

	passed := 0

	for _, result := range results {
		if result.Success {
			passed++
		}
	}

	b.WriteString("# OpenAPI Contract Test Report\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total Tests:** %d\n", len(results))
	fmt.Fprintf(&b, "- **Passed:** ✅ %d\n", passed)
	fmt.Fprintf(&b, "- **Failed:** ❌ %d\n", len(results)-passed)
	b.WriteString("\n---\n\n")

	for i, result := range results {
		fmt.Fprintf(&b, "## Test #%d %s\n\n", i+1, statusGlyph(result.Success))

		switch result.Origin {
		case contract.OriginExample:
			b.WriteString("📋 *Test case from OpenAPI example*\n\n")
		case contract.OriginGenerated:
			b.WriteString("🔧 *Test case generated from schema*\n\n")
		}

		fmt.Fprintf(&b, "**Endpoint:** `%s %s`\n\n", result.Method, result.Path)

		if result.RequestBody != nil {
			b.WriteString("### Request Body\n\n")
			fmt.Fprintf(&b, "```json\n%s\n```\n\n", renderJSON(result.RequestBody))
		}

		b.WriteString("### Expected Response\n\n")
		fmt.Fprintf(&b, "**Status:** `%s`\n\n", expectedStatusDisplay(result))
		writeMarkdownBody(&b, result.ExpectedBody)

		b.WriteString("### Actual Response\n\n")
		fmt.Fprintf(&b, "**Status:** `%s`\n\n", actualStatusDisplay(result))
		writeMarkdownBody(&b, result.ActualBody)

		if !result.Success && result.Error != "" {
			b.WriteString("### ❌ Error\n\n")
			fmt.Fprintf(&b, "```\n%s\n```\n\n", result.Error)
		}

		b.WriteString("---\n\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func writeMarkdownBody(b *strings.Builder, body any) {
	if isEmptyBody(body) {
		b.WriteString("*(empty)*\n\n")
		return
	}

	fmt.Fprintf(b, "```json\n%s\n```\n\n", renderJSON(body))
}

func statusGlyph(success bool) string {
	if success {
		return "✅"
	}

	return "❌"
}

// expectedStatusDisplay shows the primary expected status plus any other
// documented status that would also have been accepted, e.g. "200 or 501".
func expectedStatusDisplay(result contract.Result) string {
	parts := []string{strconv.Itoa(result.ExpectedStatus)}

	for _, status := range result.DocumentedStatuses {
		if status != result.ExpectedStatus {
			parts = append(parts, strconv.Itoa(status))
		}
	}

	return strings.Join(parts, " or ")
}

func actualStatusDisplay(result contract.Result) string {
	// Zero means the exchange never completed.
	if result.ActualStatus == 0 {
		return "none"
	}

	return strconv.Itoa(result.ActualStatus)
}

func isEmptyBody(body any) bool {
	return body == nil || body == ""
}

func renderBody(body any) string {
	if isEmptyBody(body) {
		return "(empty)"
	}

	return renderJSON(body)
}

func renderJSON(value any) string {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(encoded)
}

// indentContinuation indents every line after the first by two spaces, so a
// multi-line JSON body lines up under its "Expected"/"Actual" header.
func indentContinuation(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
