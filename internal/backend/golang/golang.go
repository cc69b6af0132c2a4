// Package golang renders wrapper methods for the Go library. Methods with two
// or more optional parameters collapse them into functional options.
package golang

import (
	"fmt"
	"strings"

	"github.com/toyz/wrapgen/internal/backend"
	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/registry"
	"github.com/toyz/wrapgen/internal/typecat"
)

// Name is the backend identifier
const Name = "go"

var reservedWords = map[string]string{
	"type":      "typeVar",
	"func":      "funcVar",
	"range":     "rangeVar",
	"default":   "defaultVar",
	"package":   "packageVar",
	"chan":      "chanVar",
	"go":        "goVar",
	"select":    "selectVar",
	"map":       "mapVar",
	"var":       "varVar",
	"interface": "interfaceVar",
	"switch":    "switchVar",
	"case":      "caseVar",
	"const":     "constVar",
	"import":    "importVar",
	"struct":    "structVar",
	"defer":     "deferVar",
	"return":    "returnVar",
	// locals used by the options prologue
	"options": "optionsArg",
	"opts":    "optsArg",
	"res":     "resArg",
}

// Backend is the Go emitter. Options structs are memoized in the shared
// registry, keyed by source method name.
type Backend struct {
	options *registry.OptionsRegistry
}

// New creates a Go backend writing options structs into options
func New(options *registry.OptionsRegistry) *Backend {
	return &Backend{options: options}
}

func (b *Backend) Name() string {
	return Name
}

// TypeName capitalizes exchange classes. The base wrapper cannot share the
// core type's name, so it gets a Typed suffix.
func (b *Backend) TypeName(className string, isBase bool) string {
	if isBase {
		return backend.Capitalize(className) + "Typed"
	}
	return backend.Capitalize(className)
}

// FileName returns lower-case file names, e.g. binance_wrapper.go
func (b *Backend) FileName(typeName string) string {
	return fmt.Sprintf("%s_wrapper.go", strings.ToLower(typeName))
}

// Options returns the registry this backend memoizes into
func (b *Backend) Options() *registry.OptionsRegistry {
	return b.options
}

func (b *Backend) MapType(method string, c typecat.Category, returnPosition bool) backend.TargetType {
	if returnPosition {
		switch backend.LookupReturnOverride(method) {
		case backend.TimestampOverride:
			return mapCategory(typecat.Integer{})
		case backend.OrderBookOverride:
			return backend.TargetType{Text: "OrderBook", Category: typecat.DomainAlias{Name: "OrderBook"}, Constructible: true}
		}
	}
	return mapCategory(c)
}

func mapCategory(c typecat.Category) backend.TargetType {
	t := backend.TargetType{Category: c}
	switch v := c.(type) {
	case typecat.Dynamic:
		t.Text = "interface{}"
		t.IsNullable = true
	case typecat.Dictionary:
		t.Text = "map[string]interface{}"
		t.IsDictionary = true
		t.IsNullable = true
	case typecat.PlainString:
		t.Text = "string"
	case typecat.Integer:
		t.Text = "int64"
		t.IsScalar = true
	case typecat.Float:
		t.Text = "float64"
		t.IsScalar = true
	case typecat.Boolean:
		t.Text = "bool"
		t.IsScalar = true
	case typecat.Void:
		t.IsVoid = true
	case typecat.List:
		elem := mapCategory(v.Inner)
		t.Text = "[]" + elem.Text
		t.IsList = true
		t.IsNullable = true
		t.Elem = &elem
	case typecat.NestedDictionary:
		elem := mapCategory(v.Value)
		t.Text = "map[string]" + elem.Text
		t.IsMap = true
		t.IsNullable = true
		t.Elem = &elem
	case typecat.DomainAlias:
		t.Text = backend.DomainName(v.Name)
		t.Constructible = true
	case typecat.Unknown:
		t.Text = v.Raw
	default:
		t.Text = "interface{}"
		t.IsNullable = true
	}
	return t
}

// MapAsync renders async results as receive-only channels. Async void
// methods deliver their failure, if any, on a channel of error.
func (b *Backend) MapAsync(isAsync bool, inner backend.TargetType) backend.TargetType {
	if !isAsync {
		return inner
	}
	wrapped := inner
	text := "<-chan " + inner.Text
	if inner.IsVoid {
		text = "<-chan error"
	}
	return backend.TargetType{
		Text:         text,
		Category:     inner.Category,
		Inner:        &wrapped,
		AsyncWrapped: true,
		IsVoid:       inner.IsVoid,
	}
}

// ResultSignature renders the wrapper's results. Wrappers receive from the
// core channel themselves, so async methods return (T, error).
func (b *Backend) ResultSignature(t backend.TargetType) string {
	inner := t.Unwrapped()
	switch {
	case t.AsyncWrapped && inner.IsVoid:
		return "error"
	case t.AsyncWrapped:
		return fmt.Sprintf("(%s, error)", inner.Text)
	}
	return inner.Text
}

// ZeroValue returns the literal returned alongside an error for t
func ZeroValue(t backend.TargetType) string {
	t = t.Unwrapped()
	switch {
	case t.IsNullable:
		return "nil"
	case t.Constructible:
		return t.Text + "{}"
	}
	switch t.Category.(type) {
	case typecat.Integer, typecat.Float:
		return "0"
	case typecat.Boolean:
		return "false"
	case typecat.PlainString:
		return `""`
	}
	return fmt.Sprintf("*new(%s)", t.Text)
}

func (b *Backend) SynthesizeParameters(method string, params []models.ParameterDescriptor) (backend.ParameterSet, error) {
	var set backend.ParameterSet
	planned := backend.PlanParameters(params, reservedWords)

	var optional []backend.Parameter
	for _, p := range planned {
		if p.Optional {
			optional = append(optional, p)
			continue
		}
		t := b.MapType(method, p.Category, false)
		set.Declarations = append(set.Declarations, fmt.Sprintf("%s %s", p.Name, t.Text))
	}

	switch {
	case len(optional) == 1:
		p := optional[0]
		t := b.MapType(method, p.Category, false)
		set.Declarations = append(set.Declarations, fmt.Sprintf("%s ...%s", p.Name, t.Text))
		set.Prologue = append(set.Prologue,
			fmt.Sprintf("var %sArg interface{} = %s", p.Name, defaultOrNil(p)),
			fmt.Sprintf("if len(%s) > 0 {", p.Name),
			fmt.Sprintf("\t%sArg = %s[0]", p.Name, p.Name),
			"}",
		)
	case len(optional) > 1:
		opts, err := b.ensureOptions(method, optional)
		if err != nil {
			return set, err
		}
		set.Options = opts
		set.Declarations = append(set.Declarations, fmt.Sprintf("options ...%s", opts.FuncType))
		set.Prologue = append(set.Prologue,
			fmt.Sprintf("opts := %s{}", opts.Name),
			"for _, opt := range options {",
			"\topt(&opts)",
			"}",
		)
		for _, p := range optional {
			set.Prologue = append(set.Prologue, fmt.Sprintf("var %s interface{} = %s", p.Name, defaultOrNil(p)))
			field, ok := opts.Field(p.Source)
			if !ok {
				continue
			}
			set.Prologue = append(set.Prologue,
				fmt.Sprintf("if opts.%s != nil {", field.Name),
				fmt.Sprintf("\t%s = *opts.%s", p.Name, field.Name),
				"}",
			)
		}
	}

	// call arguments keep source order
	for _, p := range planned {
		switch {
		case !p.Optional:
			set.CallArgs = append(set.CallArgs, p.Name)
		case len(optional) == 1:
			set.CallArgs = append(set.CallArgs, p.Name+"Arg")
		default:
			set.CallArgs = append(set.CallArgs, p.Name)
		}
	}
	return set, nil
}

// ensureOptions returns the memoized options struct for method, synthesizing
// it on first sight. When another signature already claimed the method name
// the registered struct is reused and the conflict is recorded.
func (b *Backend) ensureOptions(method string, optional []backend.Parameter) (*models.OptionsStruct, error) {
	if b.options == nil {
		return nil, errors.New(errors.GenerationErrorCode, "go backend has no options registry")
	}
	registered, _, err := b.options.Ensure(buildOptions(b, method, optional))
	if err != nil {
		return nil, errors.WrapGenerateError("options struct", method, err)
	}
	return registered, nil
}

func buildOptions(b *Backend, method string, optional []backend.Parameter) *models.OptionsStruct {
	prefix := backend.Capitalize(method)
	s := &models.OptionsStruct{
		Method:   method,
		Name:     prefix + "OptionsStruct",
		FuncType: prefix + "Options",
	}
	for _, p := range optional {
		field := backend.Capitalize(p.Source)
		s.Fields = append(s.Fields, models.OptionsField{
			Name:    field,
			Param:   p.Source,
			Type:    b.MapType(method, p.Category, false).Text,
			Builder: fmt.Sprintf("With%s%s", prefix, field),
		})
	}
	return s
}

func defaultOrNil(p backend.Parameter) string {
	if p.HasDefault {
		return p.Default
	}
	return "nil"
}

func (b *Backend) SynthesizeBody(call backend.Call) []string {
	lines := append([]string{}, call.Params.Prologue...)
	invocation := fmt.Sprintf("this.Core.%s(%s)", call.Method, backend.JoinArgs(call.Params.CallArgs))
	void := call.Result.Unwrapped().IsVoid

	if !call.IsAsync {
		if void {
			return append(lines, invocation)
		}
		lines = append(lines, fmt.Sprintf("res := %s", invocation))
		return append(lines, b.SynthesizeCoercion(call.Result, "res")...)
	}

	lines = append(lines, fmt.Sprintf("res := <-%s", invocation), "if IsError(res) {")
	if void {
		return append(lines, "\treturn CreateReturnError(res)", "}", "return nil")
	}
	lines = append(lines, fmt.Sprintf("\treturn %s, CreateReturnError(res)", ZeroValue(call.Result)), "}")
	return append(lines, b.SynthesizeCoercion(call.Result, "res")...)
}

func (b *Backend) SynthesizeCoercion(t backend.TargetType, src string) []string {
	strategy := backend.CoercionFor(t)
	suffix := ""
	if t.AsyncWrapped {
		suffix = ", nil"
	}
	t = t.Unwrapped()

	switch strategy {
	case backend.CoerceNone:
		return nil
	case backend.CoercePassthrough:
		return []string{fmt.Sprintf("return %s%s", src, suffix)}
	case backend.CoerceListConstruct, backend.CoerceListDictionary, backend.CoerceListCast:
		return []string{
			fmt.Sprintf("items := %s.([]interface{})", src),
			fmt.Sprintf("result := make(%s, 0, len(items))", t.Text),
			"for _, item := range items {",
			fmt.Sprintf("\tresult = append(result, %s)", elementExpr(*t.Elem, "item", 1)),
			"}",
			fmt.Sprintf("return result%s", suffix),
		}
	case backend.CoerceMapConstruct:
		return []string{
			fmt.Sprintf("dict := %s.(map[string]interface{})", src),
			fmt.Sprintf("result := make(%s, len(dict))", t.Text),
			"for key, value := range dict {",
			fmt.Sprintf("\tresult[key] = %s", elementExpr(*t.Elem, "value", 1)),
			"}",
			fmt.Sprintf("return result%s", suffix),
		}
	case backend.CoerceConstruct:
		return []string{fmt.Sprintf("return New%s(%s)%s", t.Text, src, suffix)}
	}
	if t.IsMap && t.Elem != nil {
		return []string{fmt.Sprintf("return %s%s", elementExpr(t, src, 1), suffix)}
	}
	return []string{fmt.Sprintf("return %s.(%s)%s", src, t.Text, suffix)}
}

// elementExpr converts one untyped element into elem. Nested lists and typed
// maps become an immediately invoked conversion literal, since the core hands
// back []interface{} and map[string]interface{} at every level.
func elementExpr(elem backend.TargetType, src string, depth int) string {
	switch {
	case elem.Constructible:
		return fmt.Sprintf("New%s(%s)", elem.Text, src)
	case elem.IsList && elem.Elem != nil:
		v := fmt.Sprintf("v%d", depth)
		return fmt.Sprintf("func(items []interface{}) %s { out := make(%s, 0, len(items)); for _, %s := range items { out = append(out, %s) }; return out }(%s.([]interface{}))",
			elem.Text, elem.Text, v, elementExpr(*elem.Elem, v, depth+1), src)
	case elem.IsMap && elem.Elem != nil:
		v := fmt.Sprintf("v%d", depth)
		return fmt.Sprintf("func(dict map[string]interface{}) %s { out := make(%s, len(dict)); for k, %s := range dict { out[k] = %s }; return out }(%s.(map[string]interface{}))",
			elem.Text, elem.Text, v, elementExpr(*elem.Elem, v, depth+1), src)
	}
	if _, ok := elem.Category.(typecat.Dynamic); ok {
		return src
	}
	return fmt.Sprintf("%s.(%s)", src, elem.Text)
}
