package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/wrapper"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
	}
}

// SetOutput redirects the reporter
func (r *DiagnosticReporter) SetOutput(out io.Writer) {
	r.out = out
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(format string, args ...interface{}) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, format+"\n", args...)
}

// ReportError reports a fatal error with its context and suggestions
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Generation Failed\n")
	fmt.Fprintf(r.out, "========================\n\n")

	var genErr *models.GeneratorError
	if errors.As(err, &genErr) {
		r.printErrorHeader(genErr.Type.String())
		r.printScope(genErr)
	} else {
		r.printErrorHeader(strings.TrimSuffix(errors.CodeOf(err).String(), "Error"))
	}

	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	context, suggestions := collectDetails(err)
	if len(context) > 0 {
		r.printContext(context)
	}
	if len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose {
		r.printErrorChain(err)
	}
	fmt.Fprintf(r.out, "For more help run with --verbose or --json-logs.\n\n")
}

// ReportFailures lists the per-file failures of a run
func (r *DiagnosticReporter) ReportFailures(failures []*models.GeneratorError) {
	if len(failures) == 0 {
		return
	}

	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(r.out, "\n%d file(s) failed:\n", len(failures))
	for _, failure := range failures {
		fmt.Fprintf(r.out, "  - [%s] %s\n", failure.Type, failure.Error())
		if r.verbose && failure.Cause != nil {
			fmt.Fprintf(r.out, "      cause: %v\n", failure.Cause)
		}
		_, suggestions := collectDetails(failure.Cause)
		for _, suggestion := range suggestions {
			fmt.Fprintf(r.out, "      hint: %s\n", suggestion)
		}
	}
	fmt.Fprintln(r.out)
}

// ReportMismatches lists return types that drifted from the base type
func (r *DiagnosticReporter) ReportMismatches(mismatches []wrapper.Mismatch) {
	for _, m := range mismatches {
		r.ReportWarning("%s %s.%s returns %s, base declares %s",
			m.Backend, m.Exchange, m.Method, m.ExchangeType, m.BaseType)
	}
}

// ReportStale lists generated files that differ from disk
func (r *DiagnosticReporter) ReportStale(paths []string) {
	for _, path := range paths {
		r.ReportWarning("out of date: %s", path)
	}
}

// printErrorHeader prints a formatted error header
func (r *DiagnosticReporter) printErrorHeader(kind string) {
	title := formatContextKey(kind) + " Error"
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))
}

func (r *DiagnosticReporter) printScope(genErr *models.GeneratorError) {
	if genErr.Exchange != "" {
		fmt.Fprintf(r.out, "Exchange: %s\n", genErr.Exchange)
	}
	if genErr.Backend != "" {
		fmt.Fprintf(r.out, "Backend: %s\n", genErr.Backend)
	}
	if genErr.File != "" {
		fmt.Fprintf(r.out, "File: %s\n", genErr.File)
	}
	fmt.Fprintln(r.out)
}

// printContext prints context information in a readable format, keys sorted
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "    %d. %s\n", level, err.Error())
		err = errors.Unwrap(err)
	}
	fmt.Fprintf(r.out, "\n")
}

// collectDetails merges context and suggestions from every BaseError in the chain
func collectDetails(err error) (map[string]interface{}, []string) {
	context := make(map[string]interface{})
	var suggestions []string
	for err != nil {
		if base, ok := err.(*errors.BaseError); ok {
			for key, value := range base.Context() {
				if _, exists := context[key]; !exists {
					context[key] = value
				}
			}
			suggestions = append(suggestions, base.Suggestions()...)
		}
		err = errors.Unwrap(err)
	}
	return context, suggestions
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == ' ' })
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
