package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/logging"
	"github.com/toyz/wrapgen/internal/utils"
)

// reportedError marks an error whose details were already printed
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configFile string
	verbose    bool
	quiet      bool
	jsonLogs   bool
}

func (o *globalOptions) diagnostics(cmd *cobra.Command) *utils.DiagnosticSystem {
	var diagnostics *utils.DiagnosticSystem
	switch {
	case o.quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case o.verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if cmd.OutOrStdout() != os.Stdout || cmd.ErrOrStderr() != os.Stderr {
		diagnostics.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return diagnostics
}

// loadConfig loads the configuration of cmd. A log section asking for
// structured logs starts the logger the flags left off.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*Config, error) {
	cfg, err := LoadConfig(o.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.Log.JSON || cfg.Log.Verbose {
		if err := o.initLogging(cfg.Log); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// initLogging merges the flags with log and starts the global logger. The
// console logger would duplicate diagnostics output, so it stays off unless
// asked for.
func (o *globalOptions) initLogging(log LogConfig) error {
	jsonLogs := o.jsonLogs || log.JSON
	verbose := o.verbose || log.Verbose
	if !jsonLogs && !verbose {
		return nil
	}
	if err := logging.Initialize(jsonLogs, verbose); err != nil {
		return errors.Wrap(errors.ConfigurationErrorCode, "failed to initialize logger", err)
	}
	return nil
}

func (o *globalOptions) reporter(cmd *cobra.Command) *DiagnosticReporter {
	reporter := NewDiagnosticReporter(o.verbose)
	reporter.SetOutput(cmd.ErrOrStderr())
	return reporter
}

// NewRootCommand builds the wrapgen command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "wrapgen",
		Short: "Generate typed exchange wrappers for C#, Go and Java",
		Long: `wrapgen reads the unified exchange API from its TypeScript sources and
emits a typed wrapper file per exchange and target language.

Each wrapper method delegates to the dynamically typed core and converts the
result into a concrete domain type.

Examples:
  wrapgen generate                              # Use wrapgen.yaml and defaults
  wrapgen generate --backends go --out build    # Only the Go wrappers
  wrapgen generate --exchanges binance,okx      # Restrict to two exchanges
  wrapgen check --strict                        # Fail when wrappers drifted
  wrapgen clean --dry-run                       # List generated files`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initLogging(LogConfig{})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Config file (default ./wrapgen.yaml when present)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output and debug logs")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only show errors and final results")
	flags.BoolVar(&opts.jsonLogs, "json-logs", false, "Emit structured JSON logs on stderr")

	root.AddCommand(
		newGenerateCommand(opts),
		newCheckCommand(opts),
		newCleanCommand(opts),
	)
	return root
}

// addSourceFlags registers the flags that shape a synthesis pass
func addSourceFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("source", "s", "", "Directory holding one TypeScript source per exchange")
	flags.String("base-file", "", "Base type source, relative to --source")
	flags.String("base-class", "", "Class declared in the base source")
	flags.String("catalog", "", "YAML descriptor catalog used instead of TypeScript sources")
	flags.StringP("out", "o", "", "Output root; each backend writes to <out>/<backend>")
	flags.StringSliceP("backends", "b", nil, "Backends to generate: csharp, go, java")
	flags.StringSliceP("exchanges", "e", nil, "Exchange identifiers to generate (default all)")
	flags.Int("concurrency", 0, "Parallel extraction workers (default NumCPU)")
	flags.String("go-package", "", "Go package clause (default derived from go.mod)")
}

func newGenerateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate wrapper files for every configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			diagnostics := opts.diagnostics(cmd)
			diagnostics.ToolHeader("wrapgen")
			diagnostics.SourcePath(sourceLabel(cfg))

			generator := NewGenerator(cfg, diagnostics)
			genErr := generator.Generate(cmd.Context())
			summary := generator.GetSummary()

			if summary.RunID != "" {
				diagnostics.Summary("Generation Complete", map[string]interface{}{
					"Run":             summary.RunID,
					"Sources parsed":  summary.SourcesParsed,
					"Methods emitted": summary.MethodsEmitted,
					"Option structs":  summary.OptionStructs,
					"Files written":   len(summary.GeneratedFiles),
					"Files unchanged": len(summary.Unchanged),
				})
			}
			if opts.verbose && len(summary.GeneratedFiles) > 0 {
				diagnostics.PhaseHeader("Written")
				diagnostics.Indent()
				for _, file := range summary.GeneratedFiles {
					diagnostics.List("%s", file)
				}
				diagnostics.Unindent()
			}

			if summary.Failed() {
				opts.reporter(cmd).ReportFailures(summary.Failures)
				return reportedError{genErr}
			}
			if genErr != nil {
				return genErr
			}
			diagnostics.GenerationComplete()
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report stale wrapper files and return types that drifted from the base",
		Long: `Synthesize every wrapper in memory and compare it with the files on disk
and with the base type. Nothing is written.

Exit codes:
  0 - no failures (and, with --strict, nothing stale or drifted)
  1 - failures, or findings under --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			diagnostics := opts.diagnostics(cmd)
			diagnostics.ToolHeader("wrapgen check")

			report, err := NewGenerator(cfg, diagnostics).Check(cmd.Context())
			if err != nil {
				return err
			}

			reporter := opts.reporter(cmd)
			reporter.ReportMismatches(report.Mismatches)
			reporter.ReportStale(report.Stale)
			reporter.ReportFailures(report.Failures)

			switch {
			case len(report.Failures) > 0:
				return reportedError{fmt.Errorf("%d file(s) failed", len(report.Failures))}
			case strict && !report.Clean():
				return reportedError{fmt.Errorf("%d stale file(s), %d return type mismatch(es)",
					len(report.Stale), len(report.Mismatches))}
			case report.Clean():
				diagnostics.Success("Wrappers are up to date")
			}
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when files are stale or return types drifted")
	return cmd
}

func newCleanCommand(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated wrapper files",
		Long: `Delete every .cs, .go and .java file carrying the generated header.
Directories default to the configured output root and accept the ./... suffix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				cfg, err := opts.loadConfig(cmd)
				if err != nil {
					return err
				}
				dirs = []string{cfg.OutputDir}
			}

			diagnostics := opts.diagnostics(cmd)
			removed, err := NewCleaner(dryRun).CleanGeneratedFiles(dirs)
			if err != nil {
				return err
			}

			if len(removed) == 0 {
				diagnostics.Info("No generated files under %s", strings.Join(dirs, ", "))
				return nil
			}

			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			diagnostics.Indent()
			for _, path := range removed {
				diagnostics.List("%s", path)
			}
			diagnostics.Unindent()
			diagnostics.Success("%s %s", verb, pluralize(len(removed), "generated file"))
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Output root to clean when no directories are given")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List files without deleting them")
	return cmd
}

func sourceLabel(cfg *Config) string {
	if cfg.Catalog != "" {
		return cfg.Catalog
	}
	return cfg.SourceDir
}

// Execute runs the root command and reports any error that was not already
// printed. The returned error only signals a non-zero exit.
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err == nil {
		return nil
	}

	if _, ok := err.(reportedError); !ok {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		reporter := NewDiagnosticReporter(verbose)
		reporter.ReportError(err)
	}
	return err
}
