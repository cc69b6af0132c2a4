package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/wrapgen/internal/backend/csharp"
	"github.com/toyz/wrapgen/internal/backend/golang"
	"github.com/toyz/wrapgen/internal/backend/java"
	"github.com/toyz/wrapgen/internal/catalog"
	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/logging"
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/registry"
	"github.com/toyz/wrapgen/internal/utils"
	"github.com/toyz/wrapgen/internal/wrapper"
)

// Generator coordinates one batch run: extraction, synthesis and writing
type Generator struct {
	config         *Config
	extractor      *catalog.TypeScriptExtractor
	moduleResolver *ModuleResolver
	diagnostics    *utils.DiagnosticSystem
	log            *zap.SugaredLogger
	summary        models.GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(config *Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Generator{
		config:         config,
		extractor:      catalog.NewTypeScriptExtractor(),
		moduleResolver: NewModuleResolver(),
		diagnostics:    diagnostics,
		log:            logging.Logger,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() models.GenerationSummary {
	return g.summary
}

// CheckReport is the outcome of an advisory check
type CheckReport struct {
	Mismatches []wrapper.Mismatch
	Stale      []string // generated files missing on disk or differing from it
	Failures   []*models.GeneratorError
}

// Clean reports whether the check found nothing to act on
func (r CheckReport) Clean() bool {
	return len(r.Mismatches) == 0 && len(r.Stale) == 0 && len(r.Failures) == 0
}

// batch is everything one synthesis pass produced
type batch struct {
	base      *models.SourceFile
	exchanges []*models.SourceFile
	synths    []*wrapper.Synthesizer
	files     []*models.GeneratedFile
	options   *registry.OptionsRegistry
}

// Generate runs extraction and synthesis, then writes every file whose
// content changed. Failures are scoped to one file; the returned error is
// non-nil only when the run could not start or at least one file failed.
func (g *Generator) Generate(ctx context.Context) error {
	startTime := time.Now()

	b, err := g.synthesize(ctx)
	if err != nil {
		return err
	}

	g.diagnostics.PhaseHeader("Writing")
	for _, file := range b.files {
		log := g.log.With(
			logging.FieldExchange, file.Exchange,
			logging.FieldBackend, file.Backend,
			logging.FieldFile, file.FilePath,
		)

		changed, err := utils.WriteIfChanged(file.FilePath, []byte(file.Content))
		if err != nil {
			log.Errorw("write failed", logging.FieldError, err)
			g.fail(models.ErrorTypeFileSystem, file.Exchange, file.Backend, file.FilePath,
				errors.WrapFileSystemError("write", file.FilePath, err))
			continue
		}

		if !changed {
			log.Debugw("unchanged")
			g.summary.Unchanged = append(g.summary.Unchanged, file.FilePath)
			continue
		}
		log.Infow("written", logging.FieldCount, file.Methods)
		g.diagnostics.PhaseProgress("Writing " + file.FilePath)
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	}

	g.diagnostics.Verbose("Generation took %s", time.Since(startTime).Round(time.Millisecond))

	if g.summary.Failed() {
		return errors.Newf(errors.GenerationErrorCode, "%d file(s) failed", len(g.summary.Failures)).
			WithContext("run_id", g.summary.RunID)
	}
	return nil
}

// Check synthesizes in memory and compares the result with the base type and
// with the files on disk. Nothing is written.
func (g *Generator) Check(ctx context.Context) (CheckReport, error) {
	b, err := g.synthesize(ctx)
	if err != nil {
		return CheckReport{}, err
	}

	var report CheckReport
	for _, s := range b.synths {
		report.Mismatches = append(report.Mismatches, s.CrossCheck(b.base, b.exchanges)...)
	}

	for _, file := range b.files {
		existing, err := os.ReadFile(file.FilePath)
		if err != nil || string(existing) != file.Content {
			report.Stale = append(report.Stale, file.FilePath)
		}
	}

	report.Failures = g.summary.Failures
	return report, nil
}

// synthesize loads every descriptor source and renders all files in memory
func (g *Generator) synthesize(ctx context.Context) (*batch, error) {
	g.summary = models.GenerationSummary{RunID: uuid.NewString()}
	g.log = logging.WithRun(g.summary.RunID)
	g.log.Infow("run started", "backends", g.config.Backends)

	g.diagnostics.PhaseHeader("Extracting")
	base, exchanges, err := g.loadSources(ctx)
	if err != nil {
		return nil, err
	}
	g.summary.SourcesParsed = len(exchanges) + 1
	g.diagnostics.PhaseItem("Extracted " + pluralize(g.summary.SourcesParsed, "source"))

	docs := registry.NewDocRegistry()
	wrapper.RememberDocs(docs, append([]*models.SourceFile{base}, exchanges...))

	b := &batch{base: base, exchanges: exchanges}
	targets, options, err := g.targets()
	if err != nil {
		return nil, err
	}
	b.options = options

	g.diagnostics.PhaseHeader("Synthesizing")
	for _, target := range targets {
		target.BaseClass = base.ClassName
		s := wrapper.New(target, docs).WithLogger(g.log)
		b.synths = append(b.synths, s)
		b.files = append(b.files, g.renderTarget(s, base, exchanges)...)
	}

	// every Go file is rendered, so the options registry is complete
	options.Seal()
	for _, s := range b.synths {
		file, err := s.RenderOptions()
		if err != nil {
			g.fail(models.ErrorTypeGeneration, "", golang.Name, wrapper.OptionsFileName, err)
			continue
		}
		if file != nil {
			b.files = append(b.files, file)
		}
	}

	for _, conflict := range options.Conflicts() {
		unreachable := options.Unreachable(conflict)
		g.log.Warnw("options struct reused for a different signature",
			logging.FieldMethod, conflict,
			"unreachable", unreachable)
		if len(unreachable) == 0 {
			g.diagnostics.Warn("%s: options struct reused for a different signature", conflict)
			continue
		}
		g.diagnostics.Warn("%s: options struct reused for a different signature; %s cannot be set and stay nil",
			conflict, strings.Join(unreachable, ", "))
	}
	g.summary.OptionStructs = options.Len()

	return b, nil
}

// renderTarget renders every wrapper file plus the subclasses file of one backend
func (g *Generator) renderTarget(s *wrapper.Synthesizer, base *models.SourceFile, exchanges []*models.SourceFile) []*models.GeneratedFile {
	name := s.Target().Backend.Name()
	g.diagnostics.Category(name)

	var files []*models.GeneratedFile
	for _, src := range append([]*models.SourceFile{base}, exchanges...) {
		file, err := s.RenderFile(src)
		if err != nil {
			g.log.Errorw("render failed",
				logging.FieldExchange, src.Exchange,
				logging.FieldBackend, name,
				logging.FieldError, err)
			g.fail(models.ErrorTypeGeneration, src.Exchange, name, src.Path, err)
			continue
		}
		for _, skipped := range file.Skipped {
			g.diagnostics.Warn("%s/%s: skipped %s", src.Exchange, name, skipped)
		}
		g.summary.MethodsEmitted += file.Methods
		g.diagnostics.PhaseItem(src.Exchange + ": " + pluralize(file.Methods, "method"))
		files = append(files, file)
	}

	subclasses, err := s.RenderSubclasses(base, exchanges)
	if err != nil {
		g.fail(models.ErrorTypeGeneration, base.Exchange, name, "", err)
		return files
	}
	return append(files, subclasses)
}

// targets builds one synthesizer target per configured backend. Go backends
// share one options registry.
func (g *Generator) targets() ([]wrapper.Target, *registry.OptionsRegistry, error) {
	patches, err := g.config.Patches()
	if err != nil {
		return nil, nil, err
	}
	options := registry.NewOptionsRegistry()

	var targets []wrapper.Target
	for _, name := range g.config.Backends {
		dir := filepath.Join(g.config.OutputDir, name)
		target := wrapper.Target{Dir: dir, Patches: patches}

		switch name {
		case csharp.Name:
			target.Backend = csharp.New()
			target.Namespace = g.config.CSharp.Namespace
		case golang.Name:
			pkg, err := g.moduleResolver.ResolveGoPackage(dir, g.config.Go.Package)
			if err != nil {
				return nil, nil, err
			}
			target.Backend = golang.New(options)
			target.Namespace = pkg
		case java.Name:
			target.Backend = java.New()
			target.Namespace = g.config.Java.Package
		default:
			return nil, nil, errors.ConfigurationError("backends", "unknown backend "+name)
		}

		g.diagnostics.Debug("%s -> %s (%s)", name, dir, target.Namespace)
		targets = append(targets, target)
	}
	return targets, options, nil
}

// loadSources returns the base source and the exchange sources in identifier order
func (g *Generator) loadSources(ctx context.Context) (*models.SourceFile, []*models.SourceFile, error) {
	if g.config.Catalog != "" {
		return g.loadCatalog()
	}

	sources, err := catalog.Discover(catalog.DiscoverOptions{
		SourceDir: g.config.SourceDir,
		BaseFile:  g.config.BaseFile,
		BaseClass: g.config.BaseClass,
		Exchanges: g.config.Exchanges,
	})
	if err != nil {
		return nil, nil, err
	}

	parsed := make([]*models.SourceFile, len(sources))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.config.Concurrency)
	for i, src := range sources {
		i, src := i, src
		group.Go(func() error {
			file, err := g.extractor.ExtractFile(groupCtx, src.Path, src.ClassName)
			if err != nil {
				if src.IsBase {
					return err
				}
				g.log.Errorw("extraction failed",
					logging.FieldExchange, src.Exchange,
					logging.FieldFile, src.Path,
					logging.FieldError, err)
				mu.Lock()
				g.fail(models.ErrorTypeParse, src.Exchange, "", src.Path, err)
				mu.Unlock()
				return nil
			}
			file.IsBase = src.IsBase
			file.Exchange = src.Exchange
			parsed[i] = file
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	// extraction order is nondeterministic
	sort.SliceStable(g.summary.Failures, func(i, j int) bool {
		return g.summary.Failures[i].Exchange < g.summary.Failures[j].Exchange
	})

	var exchanges []*models.SourceFile
	for _, file := range parsed[1:] {
		if file != nil {
			exchanges = append(exchanges, file)
		}
	}
	return parsed[0], exchanges, nil
}

func (g *Generator) loadCatalog() (*models.SourceFile, []*models.SourceFile, error) {
	sources, err := catalog.LoadYAML(g.config.Catalog)
	if err != nil {
		return nil, nil, err
	}

	wanted := make(map[string]bool, len(g.config.Exchanges))
	for _, id := range g.config.Exchanges {
		wanted[id] = true
	}

	var base *models.SourceFile
	var exchanges []*models.SourceFile
	for _, src := range sources {
		switch {
		case src.IsBase:
			base = src
		case len(wanted) == 0 || wanted[src.Exchange]:
			exchanges = append(exchanges, src)
		}
	}
	sort.SliceStable(exchanges, func(i, j int) bool { return exchanges[i].Exchange < exchanges[j].Exchange })
	return base, exchanges, nil
}

// fail records a failure scoped to one file
func (g *Generator) fail(kind models.ErrorType, exchange, backendName, file string, cause error) {
	g.summary.Failures = append(g.summary.Failures, &models.GeneratorError{
		Type:     kind,
		Exchange: exchange,
		Backend:  backendName,
		File:     file,
		Message:  cause.Error(),
		Cause:    cause,
	})
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
