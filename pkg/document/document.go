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

// Package document wraps a parsed OpenAPI description and exposes the
// traversal order and lookups the contract runner needs: operations grouped
// by method phase, request/response media selection, canonical examples and
// the set of documented response statuses.
package document

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spjmurray/go-util/pkg/set"
)

// jsonContentType is preferred whenever an operation documents multiple
// request or response media types.
const jsonContentType = "application/json"

var (
	// ErrMalformed is returned when the document cannot be parsed or is
	// missing the parts a contract run depends on. It is fatal: no
	// requests are issued against the implementation.
	ErrMalformed = errors.New("malformed OpenAPI document")
)

// Operation is a single path/method pair ready to be exercised.
type Operation struct {
	// Method is the uppercase HTTP method.
	Method string

	// Path is the raw path template, parameter placeholders included.
	Path string

	// Op is the underlying OpenAPI operation object.
	Op *openapi3.Operation
}

// Document is a parsed and minimally sanity-checked OpenAPI description.
type Document struct {
	doc *openapi3.T
}

// Load parses raw JSON or YAML document data. A document without any paths
// is rejected, there is nothing to verify against.
func Load(data []byte) (*Document, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, fmt.Errorf("%w: document defines no paths", ErrMalformed)
	}

	return &Document{doc: doc}, nil
}

// PathItems exposes the raw path map for callers that need to walk the
// document themselves, such as the linter.
func (d *Document) PathItems() map[string]*openapi3.PathItem {
	return d.doc.Paths.Map()
}

// Operations returns every documented operation in execution order: all GETs
// first, then POSTs, then PUTs, then DELETEs, with paths sorted within each
// phase. Reads are exercised before any state is created or destroyed.
func (d *Document) Operations() []Operation {
	pathItems := d.doc.Paths.Map()

	paths := slices.Sorted(maps.Keys(pathItems))

	var operations []Operation

	for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
		for _, path := range paths {
			if op := operationFor(pathItems[path], method); op != nil {
				operations = append(operations, Operation{Method: method, Path: path, Op: op})
			}
		}
	}

	return operations
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

// RequestMedia selects the request body media type for an operation,
// preferring application/json, falling back to the lexicographically first
// content type. Returns nil when the operation has no request body.
func RequestMedia(op *openapi3.Operation) *openapi3.MediaType {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}

	return selectMedia(op.RequestBody.Value.Content)
}

// ResponseMedia selects the media type documented for a status code,
// preferring application/json. Returns nil when the status or its content is
// not documented.
func ResponseMedia(op *openapi3.Operation, status int) *openapi3.MediaType {
	if op.Responses == nil {
		return nil
	}

	response := op.Responses.Status(status)
	if response == nil || response.Value == nil {
		return nil
	}

	return selectMedia(response.Value.Content)
}

func selectMedia(content openapi3.Content) *openapi3.MediaType {
	if len(content) == 0 {
		return nil
	}

	if mt, ok := content[jsonContentType]; ok {
		return mt
	}

	// Deterministic fallback for documents that only declare other
	// content types.
	names := slices.Sorted(maps.Keys(content))

	return content[names[0]]
}

// FirstExample extracts the canonical example from a media type: the inline
// example if present, otherwise the first named example in sorted name
// order. The boolean reports whether any example was documented.
func FirstExample(mt *openapi3.MediaType) (any, bool) {
	if mt == nil {
		return nil, false
	}

	if mt.Example != nil {
		return mt.Example, true
	}

	if len(mt.Examples) == 0 {
		return nil, false
	}

	names := slices.Sorted(maps.Keys(mt.Examples))

	for _, name := range names {
		ref := mt.Examples[name]
		if ref == nil || ref.Value == nil {
			continue
		}

		return ref.Value.Value, true
	}

	return nil, false
}

// DocumentedStatuses collects every numeric status code an operation
// documents. Catch-all "default" responses carry no concrete code and are
// skipped.
func DocumentedStatuses(op *openapi3.Operation) set.Set[int] {
	statuses := set.New[int]()

	if op.Responses == nil {
		return statuses
	}

	for code := range op.Responses.Map() {
		status, err := strconv.Atoi(code)
		if err != nil {
			continue
		}

		statuses.Add(status)
	}

	return statuses
}

// SortedStatuses returns the documented statuses in ascending order, for
// deterministic iteration and reporting.
func SortedStatuses(statuses set.Set[int]) []int {
	return slices.Sorted(statuses.All())
}
