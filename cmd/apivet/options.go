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

package main

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/apivet/apivet/pkg/transport"
)

var errNoBaseURL = errors.New("no base URL given, use --base-url or APIVET_BASE_URL")

// Options is the full CLI configuration. Flags take precedence over
// environment variables, which take precedence over a .env file in the
// working directory.
type Options struct {
	// BaseURL is the root of the implementation under verification.
	BaseURL string

	// DocumentPath is where the OpenAPI document is served, relative to
	// BaseURL.
	DocumentPath string

	// Lenient switches response matching from exact example comparison to
	// structure-only validation, and accepts any documented status.
	Lenient bool

	// Timeout bounds each individual request.
	Timeout time.Duration

	// MarkdownOutput, when set, is a file path the Markdown report is
	// written to.
	MarkdownOutput string

	// Quiet suppresses the text report on stdout.
	Quiet bool

	// Reset issues a POST /reset before the run so the implementation
	// starts from a known baseline.
	Reset bool

	// LintOnly validates document completeness and exits without issuing
	// any verification exchanges.
	LintOnly bool

	// Debug enables debug logging, including one line per exchange.
	Debug bool
}

// AddFlags registers the CLI flags, with defaults layered from the
// environment.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	// Best effort: absent .env files are the normal case in CI.
	_ = godotenv.Load()

	flags.StringVar(&o.BaseURL, "base-url", os.Getenv("APIVET_BASE_URL"), "base URL of the API under verification")
	flags.StringVar(&o.DocumentPath, "document", envStringWithDefault("APIVET_DOCUMENT", "/openapi.json"), "path of the OpenAPI document, relative to the base URL")
	flags.BoolVar(&o.Lenient, "lenient", envBoolWithDefault("APIVET_LENIENT", false), "validate response structure only instead of exact example matching")
	flags.DurationVar(&o.Timeout, "timeout", envDurationWithDefault("APIVET_TIMEOUT", transport.DefaultTimeout), "per-request timeout")
	flags.StringVar(&o.MarkdownOutput, "markdown-output", os.Getenv("APIVET_MARKDOWN_OUTPUT"), "write the Markdown report to this file")
	flags.BoolVar(&o.Quiet, "quiet", false, "suppress the text report on stdout")
	flags.BoolVar(&o.Reset, "reset", envBoolWithDefault("APIVET_RESET", true), "POST /reset before the run")
	flags.BoolVar(&o.LintOnly, "lint-only", false, "lint the document and exit without running verification")
	flags.BoolVar(&o.Debug, "debug", envBoolWithDefault("APIVET_DEBUG", false), "enable debug logging")
}

// Validate checks the options are usable.
func (o *Options) Validate() error {
	if o.BaseURL == "" {
		return errNoBaseURL
	}

	return nil
}

func envStringWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func envBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func envDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
