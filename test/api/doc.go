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

// Package api provides the in-process fixture server the end to end suites
// verify against.
//
// The fixture is deliberately small: a widget CRUD API that publishes its own
// OpenAPI document on /openapi.json, exactly the shape of implementation the
// verifier is pointed at in the field. Options toggle the contract breaches
// the suites need to observe, such as skipping enum validation or answering
// 501 on an operation, so each suite can run the whole pipeline against a
// known-good or known-broken implementation without any external process.
package api
