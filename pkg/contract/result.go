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

package contract

// Origin says where a test case came from.
type Origin string

const (
	// OriginExample marks test cases lifted from documented examples.
	OriginExample Origin = "example"

	// OriginGenerated marks test cases synthesized from a schema.
	OriginGenerated Origin = "generated"
)

// Result is the record of one verification exchange.
type Result struct {
	// Method is the HTTP method exercised.
	Method string

	// Path is the path as requested, parameters already substituted.
	Path string

	// RequestBody is the JSON body sent, nil when the method takes none.
	RequestBody any

	// ExpectedStatus is the primary status the document led us to expect.
	ExpectedStatus int

	// ExpectedBody is the documented example the response was held against.
	ExpectedBody any

	// ActualStatus is the status received. Zero means the exchange never
	// completed.
	ActualStatus int

	// ActualBody is the decoded response body.
	ActualBody any

	// Success reports whether the implementation honoured the contract for
	// this exchange.
	Success bool

	// Error carries the violation diagnostic when Success is false.
	Error string

	// Origin says whether the case came from a documented example or was
	// generated from the schema.
	Origin Origin

	// DocumentedStatuses lists every status the operation documents, in
	// ascending order. Reports use it to show alternate accepted statuses.
	DocumentedStatuses []int
}
