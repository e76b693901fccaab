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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/apivet/apivet/pkg/contract"
	"github.com/apivet/apivet/pkg/document"
	"github.com/apivet/apivet/pkg/lint"
	"github.com/apivet/apivet/pkg/report"
	"github.com/apivet/apivet/pkg/transport"
)

func main() {
	var options Options

	options.AddFlags(pflag.CommandLine)

	pflag.Parse()

	if err := options.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := setupLogging(options.Debug)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, &options, logger))
}

func setupLogging(debug bool) *zap.Logger {
	config := zap.NewDevelopmentConfig()

	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

func run(ctx context.Context, options *Options, logger *zap.Logger) int {
	client := transport.NewClient(options.BaseURL, options.Timeout, logger)

	doc, err := fetchDocument(ctx, client, options.DocumentPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to fetch OpenAPI document: %v\n", err)
		return 1
	}

	if findings := lint.Check(doc); len(findings) > 0 {
		fmt.Fprintln(os.Stderr, "❌ ERROR: OpenAPI document validation failed")
		fmt.Fprintln(os.Stderr, "\nThe following endpoints are missing required examples:")

		for _, finding := range findings {
			fmt.Fprintf(os.Stderr, "  - %s\n", finding)
		}

		fmt.Fprintln(os.Stderr, "\nExamples are required for all endpoints to generate tests.")

		return 1
	}

	fmt.Printf("✅ OpenAPI document validated successfully from %s%s\n", options.BaseURL, options.DocumentPath)
	fmt.Printf("   Found %d path(s)\n", len(doc.PathItems()))

	if options.LintOnly {
		return 0
	}

	runner := contract.New(client, !options.Lenient, logger)

	if options.Reset {
		runner.ResetState(ctx)
	}

	runner.Run(ctx, doc)

	for _, warning := range runner.Warnings() {
		logger.Warn(warning)
	}

	results := runner.Results()

	if !options.Quiet {
		fmt.Println()
		fmt.Println(report.Text(results))
	}

	if options.MarkdownOutput != "" {
		if err := os.WriteFile(options.MarkdownOutput, []byte(report.Markdown(results)), 0o644); err != nil {
			logger.Error("writing markdown report", zap.Error(err))
			return 1
		}

		logger.Info("markdown report written", zap.String("path", options.MarkdownOutput))
	}

	if failures := runner.Failures(); len(failures) > 0 {
		fmt.Println("\n❌ Contract tests failed:")

		for _, failure := range failures {
			fmt.Printf("  %s\n", failure)
		}

		return 1
	}

	fmt.Println("\n✅ All contract tests passed!")

	return 0
}

func fetchDocument(ctx context.Context, client *transport.Client, path string) (*document.Document, error) {
	resp, err := client.Send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, path)
	}

	return document.Load(resp.Body)
}
