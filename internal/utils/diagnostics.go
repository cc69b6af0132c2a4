package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel controls how much the CLI prints
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

type messageKind struct {
	level  DiagnosticLevel
	label  string
	attr   color.Attribute
	stderr bool
}

var (
	kindError   = messageKind{DiagnosticError, "ERROR", color.FgRed, true}
	kindWarn    = messageKind{DiagnosticWarn, "WARN", color.FgYellow, false}
	kindInfo    = messageKind{DiagnosticInfo, "INFO", color.FgBlue, false}
	kindSuccess = messageKind{DiagnosticInfo, "SUCCESS", color.FgGreen, false}
	kindVerbose = messageKind{DiagnosticVerbose, "VERBOSE", color.FgHiBlack, false}
	kindDebug   = messageKind{DiagnosticDebug, "DEBUG", color.FgMagenta, false}
)

// DiagnosticSystem is the human-facing progress output of the CLI. Structured
// logs go through the logging package instead.
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
}

func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics only prints errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// SetOutput redirects both streams and turns off colors and timestamps so
// captured output is stable.
func (d *DiagnosticSystem) SetOutput(output, errorOut io.Writer) {
	d.output = output
	d.errorOut = errorOut
	d.useColors = false
	d.showTime = false
}

func (d *DiagnosticSystem) enabled(level DiagnosticLevel) bool {
	return d.level >= level
}

func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	d.message(kindError, format, args...)
}

func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	d.message(kindWarn, format, args...)
}

func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	d.message(kindInfo, format, args...)
}

func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	d.message(kindSuccess, format, args...)
}

func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	d.message(kindVerbose, format, args...)
}

func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	d.message(kindDebug, format, args...)
}

// List prints a bullet at the current indentation
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.enabled(DiagnosticInfo) {
		fmt.Fprintf(d.output, "%s- %s\n", d.prefix(), fmt.Sprintf(format, args...))
	}
}

func (d *DiagnosticSystem) Indent() {
	d.indent++
}

func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary prints title followed by stats in key order
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if !d.enabled(DiagnosticInfo) {
		return
	}

	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", title)
	for _, key := range keys {
		fmt.Fprintf(&b, "   %s: %v\n", key, stats[key])
	}
	b.WriteString("\n")
	io.WriteString(d.output, b.String())
}

// Category opens a per-backend block, e.g. [csharp]
func (d *DiagnosticSystem) Category(title string) {
	if d.enabled(DiagnosticInfo) {
		fmt.Fprintf(d.output, "\n[%s]\n", title)
	}
}

func (d *DiagnosticSystem) ToolHeader(message string) {
	if d.enabled(DiagnosticInfo) {
		d.paint(color.FgCyan).Fprintf(d.output, "wrapgen: %s\n", message)
	}
}

func (d *DiagnosticSystem) SourcePath(path string) {
	if d.enabled(DiagnosticInfo) {
		fmt.Fprintf(d.output, "Source Path: %s\n\n", path)
	}
}

func (d *DiagnosticSystem) PhaseHeader(phase string) {
	if d.enabled(DiagnosticInfo) {
		d.paint(color.FgBlue).Fprintf(d.output, "%s:\n", phase)
	}
}

// PhaseItem marks a finished step
func (d *DiagnosticSystem) PhaseItem(message string) {
	if d.enabled(DiagnosticInfo) {
		d.paint(color.FgGreen).Fprint(d.output, "✓ ")
		fmt.Fprintln(d.output, message)
	}
}

// PhaseProgress marks a step in flight. File writes get a pencil.
func (d *DiagnosticSystem) PhaseProgress(message string) {
	if !d.enabled(DiagnosticInfo) {
		return
	}
	if strings.HasPrefix(message, "Writing") {
		d.paint(color.FgMagenta).Fprint(d.output, "✏ ")
		fmt.Fprintln(d.output, message)
		return
	}
	fmt.Fprintf(d.output, "- %s\n", message)
}

func (d *DiagnosticSystem) GenerationComplete() {
	if d.enabled(DiagnosticInfo) {
		fmt.Fprintln(d.output)
		d.paint(color.FgGreen).Fprintln(d.output, "wrapgen: Generation complete!")
	}
}

func (d *DiagnosticSystem) message(kind messageKind, format string, args ...interface{}) {
	if !d.enabled(kind.level) {
		return
	}
	w := d.output
	if kind.stderr {
		w = d.errorOut
	}

	var b strings.Builder
	b.WriteString(d.prefix())
	if d.showTime {
		b.WriteString(time.Now().Format("15:04:05 "))
	}
	b.WriteString(d.paint(kind.attr).Sprintf("[%s]", kind.label))
	b.WriteString(" ")
	fmt.Fprintf(&b, format, args...)
	b.WriteString("\n")
	io.WriteString(w, b.String())
}

func (d *DiagnosticSystem) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if d.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (d *DiagnosticSystem) prefix() string {
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors honours NO_COLOR and FORCE_COLOR before looking at TERM
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
