// Package wrapper turns method descriptors into typed wrapper methods and
// assembles them into one source file per exchange and backend.
package wrapper

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/wrapgen/internal/backend"
	"github.com/toyz/wrapgen/internal/backend/csharp"
	"github.com/toyz/wrapgen/internal/backend/golang"
	"github.com/toyz/wrapgen/internal/backend/java"
	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/logging"
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/registry"
	"github.com/toyz/wrapgen/internal/templates"
	"github.com/toyz/wrapgen/internal/typecat"
	"github.com/toyz/wrapgen/internal/utils"
)

// DefaultBaseClass is the shared base class when a target names none
const DefaultBaseClass = "Exchange"

// Target binds a backend to its output location
type Target struct {
	Backend   backend.Backend
	Namespace string // C# namespace, Go package or Java package
	Dir       string // output directory
	BaseClass string // core class of the shared base type
	Patches   []Patch
}

// Method is one wrapper method, fully synthesized
type Method struct {
	Source  models.MethodDescriptor
	Name    string
	IsAsync bool
	Result  backend.TargetType
	Params  backend.ParameterSet
	Body    []string
}

// Synthesizer renders wrappers for a single target
type Synthesizer struct {
	target    Target
	docs      *registry.DocRegistry
	templates *templates.TemplateRegistry
	log       *zap.SugaredLogger
}

// New creates a synthesizer. docs may be shared between targets.
func New(target Target, docs *registry.DocRegistry) *Synthesizer {
	if docs == nil {
		docs = registry.NewDocRegistry()
	}
	if target.BaseClass == "" {
		target.BaseClass = DefaultBaseClass
	}
	return &Synthesizer{
		target:    target,
		docs:      docs,
		templates: templates.DefaultTemplateRegistry,
		log:       logging.Logger,
	}
}

// WithLogger replaces the logger used for per-method events
func (s *Synthesizer) WithLogger(log *zap.SugaredLogger) *Synthesizer {
	s.log = log
	return s
}

// Target returns the synthesizer's target
func (s *Synthesizer) Target() Target {
	return s.target
}

// ResultType maps m's declared return type, async shape included. It never
// touches the options registry.
func (s *Synthesizer) ResultType(m models.MethodDescriptor) (backend.TargetType, bool) {
	raw, promised := typecat.UnwrapPromise(m.ReturnType)
	isAsync := m.IsAsync || promised

	b := s.target.Backend
	inner := b.MapType(m.Name, typecat.Classify(raw), true)
	return b.MapAsync(isAsync, inner), isAsync
}

// Plan synthesizes the signature and body of m's wrapper
func (s *Synthesizer) Plan(m models.MethodDescriptor) (*Method, error) {
	result, isAsync := s.ResultType(m)

	params, err := s.target.Backend.SynthesizeParameters(m.Name, m.Parameters)
	if err != nil {
		return nil, errors.WrapGenerateError("parameters", m.Name, err)
	}

	body := s.target.Backend.SynthesizeBody(backend.Call{
		Method:  m.Name,
		IsAsync: isAsync,
		Params:  params,
		Result:  result,
	})

	return &Method{
		Source:  m,
		Name:    backend.Capitalize(m.Name),
		IsAsync: isAsync,
		Result:  result,
		Params:  params,
		Body:    body,
	}, nil
}

// RenderMethod renders a planned method as a member of typeName
func (s *Synthesizer) RenderMethod(typeName string, m *Method) (string, error) {
	b := s.target.Backend
	return s.templates.Render(b.Name(), templates.KindMethod, templates.MethodData{
		Doc:      templates.DocLines(s.docs.Resolve(m.Source.Name, m.Source.Doc)),
		Name:     m.Name,
		Result:   b.ResultSignature(m.Result),
		Params:   strings.Join(m.Params.Declarations, ", "),
		Receiver: typeName,
		Body:     m.Body,
	})
}

// RenderFile renders the wrapper file of one source. Eligible methods are
// emitted in source order; a method that cannot be synthesized is skipped
// and reported on the returned file.
func (s *Synthesizer) RenderFile(src *models.SourceFile) (*models.GeneratedFile, error) {
	b := s.target.Backend
	typeName := b.TypeName(src.ClassName, src.IsBase)
	path := filepath.Join(s.target.Dir, b.FileName(typeName))

	file := &models.GeneratedFile{
		Backend:  b.Name(),
		Exchange: src.Exchange,
		FilePath: path,
	}

	var methods []string
	seen := make(map[string]bool)
	for _, m := range src.Methods {
		if !Eligible(m.Name) || seen[m.Name] {
			continue
		}
		seen[m.Name] = true

		plan, err := s.Plan(m)
		if err != nil {
			s.log.Warnw("skipping method",
				logging.FieldExchange, src.Exchange,
				logging.FieldBackend, b.Name(),
				logging.FieldMethod, m.Name,
				logging.FieldError, err)
			file.Skipped = append(file.Skipped, m.Name)
			continue
		}

		rendered, err := s.RenderMethod(typeName, plan)
		if err != nil {
			return nil, errors.WrapGenerateError(b.Name()+" method", m.Name, err)
		}
		methods = append(methods, rendered)
	}

	// exchange wrappers extend the typed base, so inherited methods stay typed
	parent, baseType := "", ""
	if !src.IsBase {
		parent = src.Parent
		baseType = b.TypeName(s.target.BaseClass, true)
	}
	content, err := s.templates.Render(b.Name(), templates.KindFile, templates.FileData{
		Header:    templates.GeneratedHeader,
		Namespace: s.target.Namespace,
		TypeName:  typeName,
		CoreName:  src.ClassName,
		Parent:    parent,
		BaseType:  baseType,
		IsBase:    src.IsBase,
		Methods:   methods,
	})
	if err != nil {
		return nil, errors.WrapGenerateError(b.Name()+" file", src.Exchange, err)
	}

	if file.Content, err = s.finalize(path, content); err != nil {
		return nil, err
	}
	file.Methods = len(methods)
	return file, nil
}

var subclassesFiles = map[string]string{
	csharp.Name: "Exchanges.cs",
	golang.Name: "exchanges.go",
	java.Name:   "Exchanges.java",
}

// RenderSubclasses renders the file holding one thin typed subclass or
// constructor per exchange identifier.
func (s *Synthesizer) RenderSubclasses(base *models.SourceFile, exchanges []*models.SourceFile) (*models.GeneratedFile, error) {
	b := s.target.Backend

	data := templates.SubclassesData{
		Header:    templates.GeneratedHeader,
		Namespace: s.target.Namespace,
		BaseCore:  base.ClassName,
		BaseType:  b.TypeName(base.ClassName, true),
	}
	for _, ex := range exchanges {
		typeName := backend.Capitalize(ex.ClassName)
		// a C# subclass cannot share the partial class's name
		if b.Name() == csharp.Name && typeName == ex.ClassName {
			continue
		}
		data.Exchanges = append(data.Exchanges, templates.SubclassData{
			ID:       ex.Exchange,
			TypeName: typeName,
			CoreName: ex.ClassName,
		})
	}

	name, ok := subclassesFiles[b.Name()]
	if !ok {
		name = "exchanges." + b.Name()
	}
	path := filepath.Join(s.target.Dir, name)

	content, err := s.templates.Render(b.Name(), templates.KindSubclasses, data)
	if err != nil {
		return nil, errors.WrapGenerateError(b.Name()+" subclasses", base.Exchange, err)
	}
	if content, err = s.finalize(path, content); err != nil {
		return nil, err
	}

	return &models.GeneratedFile{Backend: b.Name(), FilePath: path, Content: content}, nil
}

// OptionsFileName is the Go file holding every options struct
const OptionsFileName = "wrapper_options.go"

// RenderOptions renders the Go options file from the backend's registry. It
// returns nil for other backends and when no method needed options.
func (s *Synthesizer) RenderOptions() (*models.GeneratedFile, error) {
	gb, ok := s.target.Backend.(*golang.Backend)
	if !ok || gb.Options() == nil || gb.Options().Len() == 0 {
		return nil, nil
	}

	path := filepath.Join(s.target.Dir, OptionsFileName)
	content, err := golang.RenderOptionsFile(s.target.Namespace, templates.GeneratedHeader, gb.Options().All())
	if err != nil {
		return nil, err
	}
	if content, err = s.finalize(path, content); err != nil {
		return nil, err
	}

	return &models.GeneratedFile{
		Backend:  golang.Name,
		FilePath: path,
		Content:  content,
		Methods:  gb.Options().Len(),
	}, nil
}

// finalize applies configured patches, then formats Go sources
func (s *Synthesizer) finalize(path, content string) (string, error) {
	name := s.target.Backend.Name()
	content = ApplyPatches(name, content, s.target.Patches)

	if name != golang.Name {
		return content, nil
	}
	formatted, err := utils.FormatGoCodeString(filepath.Base(path), content)
	if err != nil {
		return "", errors.WrapGenerateError("go formatting", path, err)
	}
	return formatted, nil
}
