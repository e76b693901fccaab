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

// Package lint checks an OpenAPI document for the completeness a
// verification run depends on: request body examples, response definitions,
// response examples, and field descriptions. Lint failures abort the run
// before any request is issued, an incomplete document cannot be verified
// meaningfully.
package lint

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/apivet/apivet/pkg/document"
)

// Check lints the whole document and returns one message per finding, in
// path order then GET/POST/PUT/DELETE order within each path.
func Check(doc *document.Document) []string {
	var findings []string

	pathItems := doc.PathItems()

	for _, path := range slices.Sorted(maps.Keys(pathItems)) {
		item := pathItems[path]

		for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
			op := operationFor(item, method)
			if op == nil {
				continue
			}

			findings = append(findings, checkOperation(method, path, op)...)
		}
	}

	return findings
}

func operationFor(item *openapi3.PathItem, method string) *openapi3.Operation {
	switch method {
	case "GET":
		return item.Get
	case "POST":
		return item.Post
	case "PUT":
		return item.Put
	case "DELETE":
		return item.Delete
	}

	return nil
}

func checkOperation(method, path string, op *openapi3.Operation) []string {
	var findings []string

	if method != "GET" {
		if finding := checkRequestBodyExample(method, path, op); finding != "" {
			findings = append(findings, finding)
		}
	}

	if op.Responses == nil || op.Responses.Len() == 0 {
		findings = append(findings, fmt.Sprintf("%s %s: missing response definitions", method, path))

		// Nothing more to check without responses.
		return findings
	}

	responses := op.Responses.Map()

	for _, code := range sortedStatusCodes(responses) {
		if finding := checkResponseExample(method, path, code, responses[code]); finding != "" {
			findings = append(findings, finding)
		}
	}

	findings = append(findings, checkDescriptions(method, path, op, responses)...)

	return findings
}

// checkRequestBodyExample requires an example on any request body that
// declares content. Bodies without content have nothing to exemplify.
func checkRequestBodyExample(method, path string, op *openapi3.Operation) string {
	if op.RequestBody == nil || op.RequestBody.Value == nil || len(op.RequestBody.Value.Content) == 0 {
		return ""
	}

	for _, mt := range op.RequestBody.Value.Content {
		if mt.Example != nil || len(mt.Examples) > 0 {
			return ""
		}
	}

	return fmt.Sprintf("%s %s: missing request body example", method, path)
}

func checkResponseExample(method, path, code string, ref *openapi3.ResponseRef) string {
	if ref == nil || ref.Value == nil || len(ref.Value.Content) == 0 {
		return ""
	}

	for _, mt := range ref.Value.Content {
		if mt.Example != nil || len(mt.Examples) > 0 {
			return ""
		}
	}

	return fmt.Sprintf("%s %s: missing response example for status %s", method, path, code)
}

// checkDescriptions requires a description on every schema property, in
// request bodies and every response, recursing through nested objects and
// array items.
func checkDescriptions(method, path string, op *openapi3.Operation, responses map[string]*openapi3.ResponseRef) []string {
	var findings []string

	if method != "GET" && op.RequestBody != nil && op.RequestBody.Value != nil {
		for _, name := range sortedContentTypes(op.RequestBody.Value.Content) {
			schema := op.RequestBody.Value.Content[name].Schema
			for _, finding := range schemaDescriptionFindings(schema, "") {
				findings = append(findings, fmt.Sprintf("%s %s request body: %s", method, path, finding))
			}
		}
	}

	for _, code := range sortedStatusCodes(responses) {
		ref := responses[code]
		if ref == nil || ref.Value == nil {
			continue
		}

		for _, name := range sortedContentTypes(ref.Value.Content) {
			schema := ref.Value.Content[name].Schema
			for _, finding := range schemaDescriptionFindings(schema, "") {
				findings = append(findings, fmt.Sprintf("%s %s response %s: %s", method, path, code, finding))
			}
		}
	}

	return findings
}

func schemaDescriptionFindings(ref *openapi3.SchemaRef, prefix string) []string {
	if ref == nil || ref.Value == nil {
		return nil
	}

	var findings []string

	for _, name := range slices.Sorted(maps.Keys(ref.Value.Properties)) {
		prop := ref.Value.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}

		propPath := name
		if prefix != "" {
			propPath = prefix + "." + name
		}

		if prop.Value.Description == "" {
			findings = append(findings, fmt.Sprintf("field '%s' is missing a description", propPath))
		}

		if isType(prop.Value, openapi3.TypeObject) {
			findings = append(findings, schemaDescriptionFindings(prop, propPath)...)
		}

		if isType(prop.Value, openapi3.TypeArray) && prop.Value.Items != nil &&
			prop.Value.Items.Value != nil && isType(prop.Value.Items.Value, openapi3.TypeObject) {
			findings = append(findings, schemaDescriptionFindings(prop.Value.Items, propPath+"[]")...)
		}
	}

	return findings
}

func isType(schema *openapi3.Schema, t string) bool {
	return schema.Type != nil && schema.Type.Is(t)
}

func sortedContentTypes(content openapi3.Content) []string {
	return slices.Sorted(maps.Keys(content))
}

// sortedStatusCodes orders response codes numerically, with non-numeric
// codes such as "default" last.
func sortedStatusCodes(responses map[string]*openapi3.ResponseRef) []string {
	codes := slices.Sorted(maps.Keys(responses))

	slices.SortStableFunc(codes, func(a, b string) int {
		na, erra := strconv.Atoi(a)
		nb, errb := strconv.Atoi(b)

		switch {
		case erra == nil && errb == nil:
			return na - nb
		case erra == nil:
			return -1
		case errb == nil:
			return 1
		default:
			return 0
		}
	})

	return codes
}
