package cli

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/wrapper"
)

func newTestReporter(verbose bool) (*DiagnosticReporter, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	reporter := NewDiagnosticReporter(verbose)
	reporter.SetOutput(&buf)
	return reporter, &buf
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	reporter, buf := newTestReporter(false)

	reporter.ReportWarning("options struct %s reused", "FetchTradesOptions")

	assert.Equal(t, "! options struct FetchTradesOptions reused\n", buf.String())
}

func TestDiagnosticReporter_ReportError(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		err      error
		contains []string
		absent   []string
	}{
		{
			name: "configuration error with context and suggestion",
			err: errors.WrapConfigurationError("config", "validate", stderrors.New("output_dir is empty")).
				WithContext("config_key", "output_dir").
				WithSuggestion("set output_dir or pass --out"),
			contains: []string{
				"ERROR: Generation Failed",
				"Type: Configuration Error",
				"Config Key: output_dir",
				"1. set output_dir or pass --out",
			},
			absent: []string{"Error Chain:"},
		},
		{
			name: "generator error shows its scope",
			err: &models.GeneratorError{
				Type:     models.ErrorTypeGeneration,
				Exchange: "binance",
				Backend:  "go",
				File:     "binance.ts",
				Message:  "template failed",
			},
			contains: []string{
				"Type: Generation Error",
				"Exchange: binance",
				"Backend: go",
				"File: binance.ts",
			},
		},
		{
			name:    "verbose prints the chain",
			verbose: true,
			err:     errors.WrapFileSystemError("write", "out/go/a.go", stderrors.New("disk full")),
			contains: []string{
				"Type: FileSystem Error",
				"Error Chain:",
				"2. disk full",
			},
		},
		{
			name:     "plain error",
			err:      stderrors.New("boom"),
			contains: []string{"Type: Unknown Error", "Message: boom"},
			absent:   []string{"Context:", "Suggestions:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter, buf := newTestReporter(tt.verbose)
			reporter.ReportError(tt.err)

			output := buf.String()
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, output, unwanted)
			}
		})
	}
}

func TestDiagnosticReporter_ReportFailures(t *testing.T) {
	reporter, buf := newTestReporter(false)

	reporter.ReportFailures(nil)
	assert.Empty(t, buf.String())

	cause := errors.New(errors.SyntaxErrorCode, "no class declaration found").
		WithSuggestion("each exchange source must declare one class")
	reporter.ReportFailures([]*models.GeneratorError{{
		Type:     models.ErrorTypeParse,
		Exchange: "kraken",
		File:     "ts/src/kraken.ts",
		Message:  cause.Error(),
		Cause:    cause,
	}})

	output := buf.String()
	assert.Contains(t, output, "1 file(s) failed:")
	assert.Contains(t, output, "[parse] kraken: ts/src/kraken.ts:")
	assert.Contains(t, output, "hint: each exchange source must declare one class")
	assert.NotContains(t, output, "cause:")
}

func TestDiagnosticReporter_ReportMismatchesAndStale(t *testing.T) {
	reporter, buf := newTestReporter(false)

	reporter.ReportMismatches([]wrapper.Mismatch{{
		Backend:      "csharp",
		Exchange:     "okx",
		Method:       "fetchTrades",
		BaseType:     "async Task<List<Trade>>",
		ExchangeType: "async Task<Trade>",
	}})
	reporter.ReportStale([]string{"out/java/Okx.java"})

	assert.Equal(t,
		"! csharp okx.fetchTrades returns async Task<Trade>, base declares async Task<List<Trade>>\n"+
			"! out of date: out/java/Okx.java\n",
		buf.String())
}

func TestFormatContextKey(t *testing.T) {
	tests := map[string]string{
		"config_key":      "Config Key",
		"FileSystem":      "FileSystem",
		"run_id":          "Run Id",
		"__odd__spacing_": "Odd Spacing",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, formatContextKey(input), input)
	}
}
