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

// Package contract drives verification runs: it walks the documented
// operations in phase order, issues one exchange at a time through the
// Transport, and records a Result per exchange.
package contract

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/apivet/apivet/pkg/compare"
	"github.com/apivet/apivet/pkg/document"
	"github.com/apivet/apivet/pkg/generate"
	"github.com/apivet/apivet/pkg/schema"
	"github.com/apivet/apivet/pkg/transport"
)

// maxCombinedErrors bounds how many per-case diagnostics are folded into an
// operation's combined failure message.
const maxCombinedErrors = 3

// resetPath is the conventional state-reset hook on implementations that
// support being returned to a known baseline between runs.
const resetPath = "/reset"

// Runner executes a verification run. It is single use: create one per run
// so results and warnings always describe exactly one document against one
// implementation.
type Runner struct {
	transport transport.Transport
	synth     *generate.Synthesizer
	strict    bool
	log       *zap.Logger

	results  []Result
	failures []string
	warnings []string
}

// New creates a runner. strict selects exact example matching; lenient runs
// validate structure only and accept any documented status.
func New(t transport.Transport, strict bool, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{
		transport: t,
		synth:     generate.New(),
		strict:    strict,
		log:       log,
	}
}

// Results returns the per-exchange records in execution order.
func (r *Runner) Results() []Result {
	return r.results
}

// Failures returns one formatted line per failed operation.
func (r *Runner) Failures() []string {
	return r.failures
}

// Warnings returns the schema synthesis warnings gathered during the run.
func (r *Runner) Warnings() []string {
	return r.warnings
}

// ResetState asks the implementation to return to a known baseline. Not
// every implementation exposes the hook, so any failure is ignored.
func (r *Runner) ResetState(ctx context.Context) {
	if _, err := r.transport.Send(ctx, http.MethodPost, resetPath, nil); err != nil {
		r.log.Debug("reset hook unavailable", zap.Error(err))
	}
}

// Run verifies every documented operation, sequentially. All GETs run before
// any POST, all POSTs before any PUT, and all PUTs before any DELETE, so
// reads are never invalidated by writes and nothing is destroyed until the
// rest of the contract has been exercised.
func (r *Runner) Run(ctx context.Context, doc *document.Document) {
	for _, op := range doc.Operations() {
		var (
			ok     bool
			errMsg string
		)

		switch op.Method {
		case http.MethodGet:
			ok, errMsg = r.runGet(ctx, op)
		case http.MethodPost:
			ok, errMsg = r.runPost(ctx, op)
		case http.MethodPut:
			ok, errMsg = r.runPut(ctx, op)
		case http.MethodDelete:
			ok, errMsg = r.runDelete(ctx, op)
		}

		if !ok {
			r.failures = append(r.failures, fmt.Sprintf("%s %s: %s", op.Method, op.Path, errMsg))
		}
	}
}

func (r *Runner) record(result Result) {
	r.results = append(r.results, result)
}

// expectation is what the document promises for a response: a canonical
// example, a schema, or both.
type expectation struct {
	body         any
	frag         *schema.Fragment
	exampleBased bool
}

func expectationFor(op *openapi3.Operation, status int) expectation {
	var e expectation

	media := document.ResponseMedia(op, status)
	if media == nil {
		return e
	}

	if media.Schema != nil {
		e.frag = schema.FromOpenAPI(media.Schema)
	}

	if body, ok := document.FirstExample(media); ok {
		e.body = body
		e.exampleBased = true
	}

	return e
}

// matchExpected applies the response matching policy: example-origin cases
// against example-based expectations honour the strictness flag, generated
// cases fall back to schema validation, and everything else gets a strict
// comparison.
func (r *Runner) matchExpected(e expectation, origin Origin, actual any) (bool, string) {
	if origin == OriginExample && e.exampleBased {
		return compare.Compare(e.body, actual, r.strict)
	}

	if e.frag != nil {
		return schema.Validate(e.frag, actual, "")
	}

	return compare.Compare(e.body, actual, true)
}

// lenientMatch validates a response against whatever the document says about
// the status actually received: schema validation when a schema is
// documented, structural example comparison when only an example is, and
// outright acceptance when the status carries no content at all.
func (r *Runner) lenientMatch(op *openapi3.Operation, status int, resp *transport.Response) (bool, string) {
	body := decodeBody(resp)

	e := expectationFor(op, status)

	if e.frag != nil {
		return schema.Validate(e.frag, body, "")
	}

	if e.exampleBased {
		return compare.Compare(e.body, body, false)
	}

	return true, ""
}

// testCase pairs a request body with its provenance.
type testCase struct {
	value  any
	origin Origin
}

// requestCases collects request bodies for an operation: the inline example,
// every named example in sorted name order, then (optionally) cases
// generated from the request schema. The schema is returned for negative
// enum detection.
func (r *Runner) requestCases(op *openapi3.Operation, includeGenerated bool) ([]testCase, *schema.Fragment) {
	media := document.RequestMedia(op)
	if media == nil {
		return nil, nil
	}

	var cases []testCase

	if media.Example != nil {
		cases = append(cases, testCase{value: media.Example, origin: OriginExample})
	}

	names := make([]string, 0, len(media.Examples))
	for name := range media.Examples {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		ref := media.Examples[name]
		if ref == nil || ref.Value == nil || ref.Value.Value == nil {
			continue
		}

		cases = append(cases, testCase{value: ref.Value.Value, origin: OriginExample})
	}

	var frag *schema.Fragment

	if media.Schema != nil {
		frag = schema.FromOpenAPI(media.Schema)

		if includeGenerated {
			generated, warnings := r.synth.Cases(frag, "request_body")
			r.warnings = append(r.warnings, warnings...)

			for _, value := range generated {
				cases = append(cases, testCase{value: value, origin: OriginGenerated})
			}
		}
	}

	return cases, frag
}

func (r *Runner) runGet(ctx context.Context, op document.Operation) (bool, string) {
	statuses := document.DocumentedStatuses(op.Op)
	sorted := document.SortedStatuses(statuses)

	expected := expectationFor(op.Op, http.StatusOK)
	if !expected.exampleBased {
		return false, "No example found for 200 response. Examples are required."
	}

	resp, err := r.transport.Send(ctx, http.MethodGet, op.Path, nil)
	if err != nil {
		msg := fmt.Sprintf("Request failed: %v", err)

		r.record(Result{
			Method:             http.MethodGet,
			Path:               op.Path,
			ExpectedStatus:     http.StatusOK,
			ExpectedBody:       expected.body,
			Error:              msg,
			Origin:             OriginExample,
			DocumentedStatuses: sorted,
		})

		return false, msg
	}

	result := Result{
		Method:             http.MethodGet,
		Path:               op.Path,
		ExpectedStatus:     http.StatusOK,
		ExpectedBody:       expected.body,
		ActualStatus:       resp.StatusCode,
		ActualBody:         bodyForStatus(resp, http.StatusOK),
		Origin:             OriginExample,
		DocumentedStatuses: sorted,
	}

	if !r.strict && statuses.Contains(resp.StatusCode) {
		ok, errMsg := r.lenientMatch(op.Op, resp.StatusCode, resp)

		result.ActualBody = decodeBody(resp)
		result.Success = ok
		result.Error = errMsg
		r.record(result)

		return ok, errMsg
	}

	if resp.StatusCode == http.StatusNotImplemented && statuses.Contains(http.StatusNotImplemented) {
		result.Success = true
		r.record(result)

		return true, ""
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("Expected status 200, got %d. Response: %s", resp.StatusCode, resp.Text())

		result.Error = msg
		r.record(result)

		return false, msg
	}

	ok, errMsg := r.matchExpected(expected, OriginExample, result.ActualBody)

	result.Success = ok
	result.Error = errMsg
	r.record(result)

	return ok, errMsg
}

func (r *Runner) runPost(ctx context.Context, op document.Operation) (bool, string) {
	cases, requestSchema := r.requestCases(op.Op, true)
	if len(cases) == 0 {
		return false, "No request body examples or schema found"
	}

	expectedStatus := http.StatusOK
	if op.Op.Responses != nil && op.Op.Responses.Status(http.StatusCreated) != nil {
		expectedStatus = http.StatusCreated
	}

	expected := expectationFor(op.Op, http.StatusOK)
	if !expected.exampleBased && expected.frag == nil {
		expected = expectationFor(op.Op, http.StatusCreated)
	}

	if !expected.exampleBased {
		return false, "No example found for 200/201 response. Examples are required."
	}

	return r.runMutation(ctx, mutation{
		method:          http.MethodPost,
		path:            op.Path,
		op:              op.Op,
		cases:           cases,
		requestSchema:   requestSchema,
		expected:        expected,
		expectedStatus:  expectedStatus,
		successStatuses: []int{http.StatusOK, http.StatusCreated},
	})
}

func (r *Runner) runPut(ctx context.Context, op document.Operation) (bool, string) {
	// Only example-based cases: path parameters are resolved from the
	// response example, and generated bodies would target resources that
	// do not exist.
	cases, requestSchema := r.requestCases(op.Op, false)
	if len(cases) == 0 {
		return false, "No request body examples or schema found"
	}

	expected := expectationFor(op.Op, http.StatusOK)
	if !expected.exampleBased {
		return false, "No example found for 200 response. Examples are required."
	}

	return r.runMutation(ctx, mutation{
		method:          http.MethodPut,
		path:            resolvePath(op.Path, expected.body),
		op:              op.Op,
		cases:           cases,
		requestSchema:   requestSchema,
		expected:        expected,
		expectedStatus:  http.StatusOK,
		successStatuses: []int{http.StatusOK},
	})
}

// mutation is the shared shape of a body-carrying verification: POST and PUT
// differ only in path resolution and accepted success statuses.
type mutation struct {
	method          string
	path            string
	op              *openapi3.Operation
	cases           []testCase
	requestSchema   *schema.Fragment
	expected        expectation
	expectedStatus  int
	successStatuses []int
}

func (r *Runner) runMutation(ctx context.Context, m mutation) (bool, string) {
	statuses := document.DocumentedStatuses(m.op)
	sorted := document.SortedStatuses(statuses)

	var errors []string

	for _, tc := range m.cases {
		negative := m.requestSchema != nil && schema.ContainsInvalidEnum(m.requestSchema, tc.value)

		resp, err := r.transport.Send(ctx, m.method, m.path, tc.value)
		if err != nil {
			msg := fmt.Sprintf("Request failed: %v", err)

			r.record(Result{
				Method:             m.method,
				Path:               m.path,
				RequestBody:        tc.value,
				ExpectedStatus:     m.expectedStatus,
				ExpectedBody:       m.expected.body,
				Error:              msg,
				Origin:             tc.origin,
				DocumentedStatuses: sorted,
			})

			errors = append(errors, msg)

			continue
		}

		if negative {
			if ok, msg := r.checkEnumRejection(m, tc, resp, sorted); !ok {
				errors = append(errors, msg)
			}

			continue
		}

		result := Result{
			Method:             m.method,
			Path:               m.path,
			RequestBody:        tc.value,
			ExpectedStatus:     m.expectedStatus,
			ExpectedBody:       m.expected.body,
			ActualStatus:       resp.StatusCode,
			ActualBody:         bodyForStatus(resp, m.successStatuses...),
			Origin:             tc.origin,
			DocumentedStatuses: sorted,
		}

		if !r.strict && statuses.Contains(resp.StatusCode) {
			ok, errMsg := r.lenientMatch(m.op, resp.StatusCode, resp)

			result.ActualBody = decodeBody(resp)
			result.Success = ok
			result.Error = errMsg
			r.record(result)

			if !ok {
				errors = append(errors, errMsg)
			}

			continue
		}

		if resp.StatusCode == http.StatusNotImplemented && statuses.Contains(http.StatusNotImplemented) {
			result.Success = true
			r.record(result)

			continue
		}

		if !slices.Contains(m.successStatuses, resp.StatusCode) {
			msg := fmt.Sprintf("Expected status %s, got %d. Response: %s",
				statusList(m.successStatuses), resp.StatusCode, resp.Text())

			result.Error = msg
			r.record(result)

			errors = append(errors, msg)

			continue
		}

		ok, errMsg := r.matchExpected(m.expected, tc.origin, result.ActualBody)

		result.Success = ok
		result.Error = errMsg
		r.record(result)

		if !ok {
			errors = append(errors, errMsg)
		}
	}

	if len(errors) > 0 {
		return false, strings.Join(errors[:min(maxCombinedErrors, len(errors))], "; ")
	}

	return true, ""
}

// checkEnumRejection evaluates a negative test: the request carried an
// out-of-set enum value, so the only contract-honouring answer is 400. A 5xx
// is called out as its own failure class, the implementation crashed on
// input it should have rejected.
func (r *Runner) checkEnumRejection(m mutation, tc testCase, resp *transport.Response, sorted []int) (bool, string) {
	result := Result{
		Method:             m.method,
		Path:               m.path,
		RequestBody:        tc.value,
		ExpectedStatus:     http.StatusBadRequest,
		ExpectedBody:       "400 Bad Request (invalid enum value)",
		ActualStatus:       resp.StatusCode,
		ActualBody:         decodeBody(resp),
		Origin:             tc.origin,
		DocumentedStatuses: sorted,
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		result.Success = true
	case resp.StatusCode >= http.StatusInternalServerError:
		result.Error = fmt.Sprintf("Expected 400 for invalid enum value, got %d (server error). Server should validate enum values and return 400, not 5xx.", resp.StatusCode)
	default:
		result.Error = fmt.Sprintf("Expected 400 for invalid enum value, got %d. Server should validate enum values and return 400 Bad Request.", resp.StatusCode)
	}

	r.record(result)

	return result.Success, result.Error
}

func (r *Runner) runDelete(ctx context.Context, op document.Operation) (bool, string) {
	statuses := document.DocumentedStatuses(op.Op)
	sorted := document.SortedStatuses(statuses)

	// Hunt for an example that can supply path parameter values: success
	// responses first, then 404 which often documents the resource shape.
	// A schema-generated representative is the last resort.
	expectedStatus := http.StatusNoContent

	var (
		example      any
		expectedBody any = ""
	)

	for _, status := range []int{http.StatusOK, http.StatusNoContent, http.StatusNotFound} {
		if status != http.StatusNotFound {
			expectedStatus = status
		}

		media := document.ResponseMedia(op.Op, status)
		if media == nil {
			continue
		}

		if value, ok := document.FirstExample(media); ok {
			example = value
			expectedBody = value

			break
		}

		if media.Schema != nil {
			cases, warnings := r.synth.Cases(schema.FromOpenAPI(media.Schema), "field")
			r.warnings = append(r.warnings, warnings...)

			if len(cases) > 0 {
				example = cases[0]
				expectedBody = cases[0]

				break
			}
		}
	}

	resolved := resolvePath(op.Path, example)

	resp, err := r.transport.Send(ctx, http.MethodDelete, resolved, nil)
	if err != nil {
		msg := fmt.Sprintf("Request failed: %v", err)

		r.record(Result{
			Method:             http.MethodDelete,
			Path:               resolved,
			ExpectedStatus:     expectedStatus,
			ExpectedBody:       expectedBody,
			Error:              msg,
			Origin:             OriginExample,
			DocumentedStatuses: sorted,
		})

		return false, msg
	}

	result := Result{
		Method:             http.MethodDelete,
		Path:               resolved,
		ExpectedStatus:     expectedStatus,
		ExpectedBody:       expectedBody,
		ActualStatus:       resp.StatusCode,
		Origin:             OriginExample,
		DocumentedStatuses: sorted,
	}

	result.ActualBody = ""
	if resp.StatusCode == http.StatusOK && len(resp.Body) > 0 {
		result.ActualBody = decodeBody(resp)
	}

	if !r.strict && statuses.Contains(resp.StatusCode) {
		ok, errMsg := r.lenientMatch(op.Op, resp.StatusCode, resp)

		result.ActualBody = decodeBody(resp)
		result.Success = ok
		result.Error = errMsg
		r.record(result)

		return ok, errMsg
	}

	if resp.StatusCode == http.StatusNotImplemented && statuses.Contains(http.StatusNotImplemented) {
		result.Success = true
		r.record(result)

		return true, ""
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg := fmt.Sprintf("Expected status 200/204, got %d. Response: %s", resp.StatusCode, resp.Text())

		result.Error = msg
		r.record(result)

		return false, msg
	}

	result.Success = true
	r.record(result)

	return true, ""
}

// decodeBody decodes a response as JSON, falling back to the raw text when
// the body is not JSON. An empty body decodes to the empty string.
func decodeBody(resp *transport.Response) any {
	if len(resp.Body) == 0 {
		return ""
	}

	if value, err := resp.JSON(); err == nil {
		return value
	}

	return resp.Text()
}

// bodyForStatus decodes the body for success statuses and keeps the raw text
// otherwise, so failure diagnostics show exactly what came over the wire.
func bodyForStatus(resp *transport.Response, successStatuses ...int) any {
	if slices.Contains(successStatuses, resp.StatusCode) {
		return decodeBody(resp)
	}

	return resp.Text()
}

func statusList(statuses []int) string {
	parts := make([]string, len(statuses))
	for i, status := range statuses {
		parts[i] = strconv.Itoa(status)
	}

	return strings.Join(parts, "/")
}

var pathParamPattern = regexp.MustCompile(`\{(\w+)\}`)

// resolvePath substitutes path parameter placeholders using the canonical
// response example: the parameter's own name first, then the example's
// generic "id" field (which also covers suffixed names like "item_id"), and
// a literal 1 when the example offers nothing.
func resolvePath(path string, example any) string {
	if !strings.Contains(path, "{") {
		return path
	}

	fields, _ := example.(map[string]any)

	return pathParamPattern.ReplaceAllStringFunc(path, func(match string) string {
		name := match[1 : len(match)-1]

		if fields != nil {
			if value, ok := fields[name]; ok {
				return formatPathValue(value)
			}

			if value, ok := fields["id"]; ok {
				return formatPathValue(value)
			}
		}

		return "1"
	})
}

func formatPathValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		// JSON numbers decode as float64; identifiers are almost always
		// integral and must not render as "1.000000".
		if value == math.Trunc(value) {
			return strconv.FormatInt(int64(value), 10)
		}

		return strconv.FormatFloat(value, 'g', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return fmt.Sprintf("%v", value)
	}
}
