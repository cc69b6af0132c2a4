// Package logging holds the process-wide structured logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for per-file events
const (
	FieldRunID    = "run_id"
	FieldExchange = "exchange"
	FieldBackend  = "backend"
	FieldFile     = "file"
	FieldMethod   = "method"
	FieldCount    = "count"
	FieldError    = "error"
)

var (
	// Logger is the global logger instance
	Logger *zap.SugaredLogger
	// JSONOutput records whether the JSON encoder is active
	JSONOutput bool
)

func init() {
	// nop until Initialize so packages can log unconditionally
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. JSON output uses the zap production
// config; otherwise a console encoder writes to stderr so generated output on
// stdout stays clean.
func Initialize(jsonOutput, verbose bool) error {
	JSONOutput = jsonOutput

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		zapLogger, err := config.Build()
		if err != nil {
			return err
		}
		Logger = zapLogger.Sugar()
		return nil
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	Logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)).Sugar()
	return nil
}

// WithRun returns a child logger tagged with the run identifier
func WithRun(runID string) *zap.SugaredLogger {
	return Logger.With(FieldRunID, runID)
}

// Sync flushes buffered entries, ignoring the error stderr returns on some platforms
func Sync() {
	_ = Logger.Sync()
}
