// Package csharp renders wrapper methods for the C# library.
package csharp

import (
	"fmt"

	"github.com/toyz/wrapgen/internal/backend"
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/typecat"
)

// Name is the backend identifier
const Name = "csharp"

var reservedWords = map[string]string{
	"params":    "parameters",
	"base":      "baseArg",
	"object":    "obj",
	"string":    "str",
	"event":     "eventArg",
	"lock":      "lockArg",
	"internal":  "internalArg",
	"fixed":     "fixedArg",
	"checked":   "checkedArg",
	"out":       "outArg",
	"ref":       "refArg",
	"in":        "inArg",
	"operator":  "operatorArg",
	"decimal":   "decimalArg",
	"namespace": "namespaceArg",
	"class":     "classArg",
}

// Backend is the C# emitter
type Backend struct{}

// New creates a C# backend
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string {
	return Name
}

// TypeName keeps the source class name; wrappers are partial classes of the core
func (b *Backend) TypeName(className string, isBase bool) string {
	return className
}

func (b *Backend) FileName(typeName string) string {
	return typeName + ".cs"
}

func (b *Backend) MapType(method string, c typecat.Category, returnPosition bool) backend.TargetType {
	if returnPosition {
		switch backend.LookupReturnOverride(method) {
		case backend.TimestampOverride:
			return mapCategory(typecat.Integer{})
		case backend.OrderBookOverride:
			return backend.TargetType{Text: "IOrderBook", Category: typecat.DomainAlias{Name: "OrderBook"}, IsNullable: true}
		}
	}
	return mapCategory(c)
}

func mapCategory(c typecat.Category) backend.TargetType {
	t := backend.TargetType{Category: c, IsNullable: true}
	switch v := c.(type) {
	case typecat.Dynamic:
		t.Text = "object"
	case typecat.Dictionary:
		t.Text = "Dictionary<string, object>"
		t.IsDictionary = true
	case typecat.PlainString:
		t.Text = "string"
	case typecat.Integer:
		t = scalar(c, "Int64")
	case typecat.Float:
		t = scalar(c, "double")
	case typecat.Boolean:
		t = scalar(c, "bool")
	case typecat.Void:
		t = backend.TargetType{Text: "void", Category: c, IsVoid: true}
	case typecat.List:
		elem := mapCategory(v.Inner)
		t.Text = fmt.Sprintf("List<%s>", elem.Text)
		t.IsList = true
		t.Elem = &elem
	case typecat.NestedDictionary:
		elem := mapCategory(v.Value)
		t.Text = fmt.Sprintf("Dictionary<string, %s>", elem.Text)
		t.IsMap = true
		t.Elem = &elem
	case typecat.DomainAlias:
		t.Text = backend.DomainName(v.Name)
		t.Constructible = true
	case typecat.Unknown:
		t.Text = v.Raw
	default:
		t.Text = "object"
	}
	return t
}

func scalar(c typecat.Category, text string) backend.TargetType {
	return backend.TargetType{Text: text, Category: c, IsScalar: true}
}

func (b *Backend) MapAsync(isAsync bool, inner backend.TargetType) backend.TargetType {
	if !isAsync {
		return inner
	}
	wrapped := inner
	if inner.IsVoid {
		return backend.TargetType{Text: "Task", Category: inner.Category, Inner: &wrapped, AsyncWrapped: true, IsVoid: true}
	}
	return backend.TargetType{
		Text:         fmt.Sprintf("Task<%s>", inner.Text),
		Category:     inner.Category,
		Inner:        &wrapped,
		AsyncWrapped: true,
	}
}

func (b *Backend) ResultSignature(t backend.TargetType) string {
	if t.AsyncWrapped {
		return "async " + t.Text
	}
	return t.Text
}

// SynthesizeParameters renders C# optional parameters. Value-typed numeric
// optionals without a usable default get a zero sentinel, and the prologue
// turns an untouched sentinel back into null before forwarding.
func (b *Backend) SynthesizeParameters(method string, params []models.ParameterDescriptor) (backend.ParameterSet, error) {
	var set backend.ParameterSet
	for _, p := range backend.PlanParameters(params, reservedWords) {
		t := b.MapType(method, p.Category, false)
		if !p.Optional {
			set.Declarations = append(set.Declarations, fmt.Sprintf("%s %s", t.Text, p.Name))
			set.CallArgs = append(set.CallArgs, p.Name)
			continue
		}

		switch {
		case t.IsScalar && p.HasDefault:
			set.Declarations = append(set.Declarations, fmt.Sprintf("%s? %s = %s", t.Text, p.Name, p.Default))
		case t.IsScalar && !isBoolean(t):
			sentinel := p.Name + "2"
			set.Declarations = append(set.Declarations, fmt.Sprintf("%s? %s = 0", t.Text, sentinel))
			set.Prologue = append(set.Prologue, fmt.Sprintf("var %s = %s == 0 ? null : (object)%s;", p.Name, sentinel, sentinel))
		case t.IsScalar:
			set.Declarations = append(set.Declarations, fmt.Sprintf("%s? %s = null", t.Text, p.Name))
		case p.HasDefault && t.Text == "string":
			set.Declarations = append(set.Declarations, fmt.Sprintf("string %s = %s", p.Name, p.Default))
		case p.HasDefault:
			// reference types other than string only accept a null default
			set.Declarations = append(set.Declarations, fmt.Sprintf("%s %s = null", t.Text, p.Name))
			set.Prologue = append(set.Prologue, fmt.Sprintf("%s ??= %s;", p.Name, p.Default))
		default:
			set.Declarations = append(set.Declarations, fmt.Sprintf("%s %s = null", t.Text, p.Name))
		}
		set.CallArgs = append(set.CallArgs, p.Name)
	}
	return set, nil
}

func isBoolean(t backend.TargetType) bool {
	_, ok := t.Category.(typecat.Boolean)
	return ok
}

func (b *Backend) SynthesizeBody(call backend.Call) []string {
	lines := append([]string{}, call.Params.Prologue...)
	invocation := fmt.Sprintf("this.%s(%s)", call.Method, backend.JoinArgs(call.Params.CallArgs))
	if call.IsAsync {
		invocation = "await " + invocation
	}

	if call.Result.Unwrapped().IsVoid {
		return append(lines, invocation+";")
	}
	lines = append(lines, fmt.Sprintf("var res = %s;", invocation))
	return append(lines, b.SynthesizeCoercion(call.Result, "res")...)
}

func (b *Backend) SynthesizeCoercion(t backend.TargetType, src string) []string {
	strategy := backend.CoercionFor(t)
	t = t.Unwrapped()

	switch strategy {
	case backend.CoerceNone:
		return nil
	case backend.CoercePassthrough:
		return []string{fmt.Sprintf("return %s;", src)}
	case backend.CoerceListConstruct:
		return []string{fmt.Sprintf("return ((IList<object>)%s).Select(item => new %s(item)).ToList<%s>();", src, t.Elem.Text, t.Elem.Text)}
	case backend.CoerceListDictionary:
		return []string{fmt.Sprintf("return ((IList<object>)%s).Select(item => (item as %s)).ToList();", src, t.Elem.Text)}
	case backend.CoerceListCast:
		if t.Elem.IsList || t.Elem.IsMap {
			return []string{fmt.Sprintf("return ((IList<object>)%s).Select(item => %s).ToList<%s>();", src, elementExpr(*t.Elem, "item", 1), t.Elem.Text)}
		}
		if t.Elem.IsScalar {
			return []string{fmt.Sprintf("return ((IList<object>)%s).Select(item => (%s)item).ToList<%s>();", src, t.Elem.Text, t.Elem.Text)}
		}
		return []string{fmt.Sprintf("return ((IList<object>)%s).Select(item => (item as %s)).ToList<%s>();", src, t.Elem.Text, t.Elem.Text)}
	case backend.CoerceMapConstruct:
		return []string{
			fmt.Sprintf("var dict = (Dictionary<string, object>)%s;", src),
			fmt.Sprintf("var result = new %s();", t.Text),
			"foreach (var key in dict.Keys)",
			"{",
			fmt.Sprintf("    result[key] = new %s(dict[key]);", t.Elem.Text),
			"}",
			"return result;",
		}
	case backend.CoerceConstruct:
		return []string{fmt.Sprintf("return new %s(%s);", t.Text, src)}
	}
	if t.IsMap && t.Elem != nil {
		return []string{fmt.Sprintf("return %s;", elementExpr(t, src, 1))}
	}
	return []string{fmt.Sprintf("return (%s)%s;", t.Text, src)}
}

// elementExpr converts one untyped element into elem. The core returns
// IList<object> and Dictionary<string, object> at every nesting level, so
// nested shapes are rebuilt rather than cast.
func elementExpr(elem backend.TargetType, src string, depth int) string {
	v := fmt.Sprintf("x%d", depth)
	switch {
	case elem.Constructible:
		return fmt.Sprintf("new %s(%s)", elem.Text, src)
	case elem.IsList && elem.Elem != nil:
		return fmt.Sprintf("((IList<object>)%s).Select(%s => %s).ToList<%s>()", src, v, elementExpr(*elem.Elem, v, depth+1), elem.Elem.Text)
	case elem.IsMap && elem.Elem != nil:
		return fmt.Sprintf("((Dictionary<string, object>)%s).ToDictionary(%s => %s.Key, %s => %s)", src, v, v, v, elementExpr(*elem.Elem, v+".Value", depth+1))
	case elem.IsScalar:
		return fmt.Sprintf("(%s)%s", elem.Text, src)
	}
	if _, ok := elem.Category.(typecat.Dynamic); ok {
		return src
	}
	return fmt.Sprintf("(%s as %s)", src, elem.Text)
}
