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

package api

// Canonical bodies, shared by the handlers and the published document so the
// examples always describe exactly what the fixture serves.

func healthExample() map[string]any {
	return map[string]any{"status": "ok"}
}

func listedWidget() map[string]any {
	return map[string]any{"id": 1, "name": "alpha", "status": "active"}
}

func createdWidget() map[string]any {
	return map[string]any{"id": 2, "name": "beta", "status": "active"}
}

func updatedWidget() map[string]any {
	return map[string]any{"id": 1, "name": "alpha-two", "status": "inactive"}
}

func createRequestExample() map[string]any {
	return map[string]any{"name": "beta", "status": "active"}
}

// invalidCreateRequestExample carries an out-of-set status, documenting the
// request a compliant implementation must reject with 400.
func invalidCreateRequestExample() map[string]any {
	return map[string]any{"name": "broken", "status": "retired"}
}

func updateRequestExample() map[string]any {
	return map[string]any{"name": "alpha-two", "status": "inactive"}
}

func widgetBodySchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "status"},
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Display name of the widget.",
			},
			"status": map[string]any{
				"type":        "string",
				"enum":        []string{"active", "inactive"},
				"description": "Lifecycle status of the widget.",
			},
		},
	}
}

func jsonContent(body map[string]any) map[string]any {
	return map[string]any{"application/json": body}
}

// Document returns the OpenAPI document the fixture publishes. The 501
// variant documents the not-implemented update so a verifier can accept it.
func (s *Server) Document() map[string]any {
	putResponses := map[string]any{
		"200": map[string]any{
			"description": "Widget updated.",
			"content": jsonContent(map[string]any{
				"example": updatedWidget(),
			}),
		},
	}

	if s.opts.NotImplementedPut {
		putResponses["501"] = map[string]any{"description": "Not implemented."}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Widget Service",
			"version": "1.0.0",
		},
		"paths": map[string]any{
			"/health": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Service health.",
							"content": jsonContent(map[string]any{
								"example": healthExample(),
							}),
						},
					},
				},
			},
			"/widgets": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": map[string]any{
							"description": "All widgets.",
							"content": jsonContent(map[string]any{
								"example": []any{listedWidget()},
							}),
						},
					},
				},
				"post": map[string]any{
					"requestBody": map[string]any{
						"content": jsonContent(map[string]any{
							"schema": widgetBodySchema(),
							"examples": map[string]any{
								"create": map[string]any{"value": createRequestExample()},
								"reject": map[string]any{"value": invalidCreateRequestExample()},
							},
						}),
					},
					"responses": map[string]any{
						"201": map[string]any{
							"description": "Widget created.",
							"content": jsonContent(map[string]any{
								"example": createdWidget(),
							}),
						},
					},
				},
			},
			"/widgets/{widget_id}": map[string]any{
				"put": map[string]any{
					"requestBody": map[string]any{
						"content": jsonContent(map[string]any{
							"schema":  widgetBodySchema(),
							"example": updateRequestExample(),
						}),
					},
					"responses": putResponses,
				},
				"delete": map[string]any{
					"responses": map[string]any{
						"204": map[string]any{
							"description": "Widget deleted.",
						},
					},
				},
			},
		},
	}
}
