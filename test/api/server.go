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

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Widget statuses accepted by the fixture.
var validStatuses = []string{"active", "inactive"}

// Options select which contract breaches the fixture exhibits. The zero
// value is a fully compliant implementation.
type Options struct {
	// SkipEnumValidation accepts any status value on create, the classic
	// missing-validation breach.
	SkipEnumValidation bool

	// NotImplementedPut answers 501 on update. The published document
	// declares the 501 so a verifier should accept it.
	NotImplementedPut bool

	// ExtraListField adds an undocumented field to every listed widget.
	ExtraListField bool
}

// Server is the fixture implementation.
type Server struct {
	opts   Options
	router chi.Router
}

// New builds a fixture server with the given behaviour.
func New(opts Options) *Server {
	s := &Server{opts: opts}

	router := chi.NewRouter()

	router.Get("/openapi.json", s.openapiDocument)
	router.Get("/health", s.health)
	router.Get("/widgets", s.listWidgets)
	router.Post("/widgets", s.createWidget)
	router.Put("/widgets/{widgetID}", s.updateWidget)
	router.Delete("/widgets/{widgetID}", s.deleteWidget)
	router.Post("/reset", s.reset)

	s.router = router

	return s
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // fixture, nothing useful to do on write failure
	json.NewEncoder(w).Encode(body)
}

func (s *Server) openapiDocument(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Document())
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthExample())
}

func (s *Server) listWidgets(w http.ResponseWriter, _ *http.Request) {
	widgets := []map[string]any{listedWidget()}

	if s.opts.ExtraListField {
		widgets[0]["revision"] = 3
	}

	writeJSON(w, http.StatusOK, widgets)
}

func (s *Server) createWidget(w http.ResponseWriter, r *http.Request) {
	var body map[string]any

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "malformed JSON body"})
		return
	}

	if !s.opts.SkipEnumValidation {
		status, _ := body["status"].(string)

		valid := false

		for _, candidate := range validStatuses {
			if status == candidate {
				valid = true
				break
			}
		}

		if !valid {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "status must be one of active, inactive"})
			return
		}
	}

	writeJSON(w, http.StatusCreated, createdWidget())
}

func (s *Server) updateWidget(w http.ResponseWriter, r *http.Request) {
	if s.opts.NotImplementedPut {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "widgetID"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "no such widget"})
		return
	}

	updated := updatedWidget()
	updated["id"] = id

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteWidget(w http.ResponseWriter, r *http.Request) {
	if _, err := strconv.Atoi(chi.URLParam(r, "widgetID")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "no such widget"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reset(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
