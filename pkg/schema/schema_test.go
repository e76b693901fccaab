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

package schema_test

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"

	"github.com/apivet/apivet/pkg/schema"
)

func loadSchema(t *testing.T, data string) *openapi3.SchemaRef {
	t.Helper()

	s := openapi3.NewSchema()
	require.NoError(t, s.UnmarshalJSON([]byte(data)))

	return openapi3.NewSchemaRef("", s)
}

func TestFromOpenAPINil(t *testing.T) {
	t.Parallel()

	f := schema.FromOpenAPI(nil)
	require.NotNil(t, f)
	require.Empty(t, f.Types)
}

func TestFromOpenAPIScalar(t *testing.T) {
	t.Parallel()

	f := schema.FromOpenAPI(loadSchema(t, `{
		"type": "string",
		"format": "email",
		"minLength": 3,
		"maxLength": 64,
		"nullable": true
	}`))

	resolved, ok := f.ResolvedType()
	require.True(t, ok)
	require.Equal(t, schema.TypeString, resolved)
	require.Equal(t, "email", f.Format)
	require.True(t, f.Nullable)
	require.Equal(t, uint64(3), f.MinLength)
	require.NotNil(t, f.MaxLength)
	require.Equal(t, uint64(64), *f.MaxLength)
}

func TestFromOpenAPIExclusiveBoundFolding(t *testing.T) {
	t.Parallel()

	f := schema.FromOpenAPI(loadSchema(t, `{
		"type": "integer",
		"minimum": 0,
		"exclusiveMinimum": true,
		"maximum": 100
	}`))

	require.Nil(t, f.Minimum)
	require.NotNil(t, f.ExclusiveMinimum)
	require.Equal(t, 0.0, *f.ExclusiveMinimum)

	require.Nil(t, f.ExclusiveMaximum)
	require.NotNil(t, f.Maximum)
	require.Equal(t, 100.0, *f.Maximum)
}

func TestFromOpenAPINested(t *testing.T) {
	t.Parallel()

	f := schema.FromOpenAPI(loadSchema(t, `{
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"},
			"tags": {
				"type": "array",
				"items": {"type": "string", "enum": ["a", "b"]}
			}
		}
	}`))

	require.Len(t, f.Properties, 2)
	require.Equal(t, []string{"name"}, f.Required)
	require.NotNil(t, f.Properties["tags"].Items)
	require.Len(t, f.Properties["tags"].Items.Enum, 2)
}

func TestConcreteTypesStripsNull(t *testing.T) {
	t.Parallel()

	f := &schema.Fragment{Types: []schema.Type{schema.TypeString, schema.TypeNull}}

	require.Equal(t, []schema.Type{schema.TypeString}, f.ConcreteTypes())

	resolved, ok := f.ResolvedType()
	require.True(t, ok)
	require.Equal(t, schema.TypeString, resolved)
}

func TestValueEqualNumericNormalization(t *testing.T) {
	t.Parallel()

	// Fixture-built ints must compare equal to decoded float64s.
	require.True(t, schema.ValueEqual(int64(42), 42.0))
	require.True(t, schema.ValueEqual(42, 42.0))
	require.False(t, schema.ValueEqual(42.5, int64(42)))

	require.True(t, schema.ValueEqual(
		map[string]any{"id": 1, "tags": []any{"a"}},
		map[string]any{"id": 1.0, "tags": []any{"a"}},
	))

	require.False(t, schema.ValueEqual(
		map[string]any{"id": 1},
		map[string]any{"id": 1, "extra": true},
	))
}

func TestValueEqualBoolNotNumber(t *testing.T) {
	t.Parallel()

	require.False(t, schema.ValueEqual(true, 1.0))
	require.False(t, schema.ValueEqual(1.0, true))
}
