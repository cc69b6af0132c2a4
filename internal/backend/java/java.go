// Package java renders wrapper methods for the Java library.
package java

import (
	"fmt"

	"github.com/toyz/wrapgen/internal/backend"
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/typecat"
)

// Name is the backend identifier
const Name = "java"

var keywords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char", "class", "const",
	"continue", "default", "do", "double", "else", "enum", "extends", "final", "finally", "float",
	"for", "goto", "if", "implements", "import", "instanceof", "int", "interface", "long", "native",
	"new", "package", "private", "protected", "public", "return", "short", "static", "strictfp",
	"super", "switch", "synchronized", "this", "throw", "throws", "transient", "try", "void",
	"volatile", "while",
}

var reservedWords = func() map[string]string {
	renames := make(map[string]string, len(keywords))
	for _, kw := range keywords {
		renames[kw] = kw + "Value"
	}
	return renames
}()

// boxed and primitive spellings of the scalar categories
var scalarTypes = map[string][2]string{
	"Integer": {"Long", "long"},
	"Float":   {"Double", "double"},
	"Boolean": {"Boolean", "boolean"},
}

// Backend is the Java emitter
type Backend struct{}

// New creates a Java backend
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string {
	return Name
}

func (b *Backend) TypeName(className string, isBase bool) string {
	return backend.Capitalize(className)
}

func (b *Backend) FileName(typeName string) string {
	return typeName + ".java"
}

// MapType renders c. Scalars are boxed in return position and inside
// generics, and primitive for required parameters.
func (b *Backend) MapType(method string, c typecat.Category, returnPosition bool) backend.TargetType {
	if returnPosition {
		switch backend.LookupReturnOverride(method) {
		case backend.TimestampOverride:
			return mapCategory(typecat.Integer{}, true)
		case backend.OrderBookOverride:
			return backend.TargetType{Text: "IOrderBook", Category: typecat.DomainAlias{Name: "OrderBook"}, IsNullable: true}
		}
	}
	return mapCategory(c, returnPosition)
}

func mapCategory(c typecat.Category, boxed bool) backend.TargetType {
	t := backend.TargetType{Category: c, IsNullable: true}
	switch v := c.(type) {
	case typecat.Dynamic:
		t.Text = "Object"
	case typecat.Dictionary:
		t.Text = "Map<String, Object>"
		t.IsDictionary = true
	case typecat.PlainString:
		t.Text = "String"
	case typecat.Integer, typecat.Float, typecat.Boolean:
		spellings := scalarTypes[c.String()]
		t.IsScalar = true
		t.Text = spellings[0]
		if !boxed {
			t.Text = spellings[1]
			t.IsNullable = false
		}
	case typecat.Void:
		t.Text = "Void"
		t.IsVoid = true
	case typecat.List:
		elem := mapCategory(v.Inner, true)
		t.Text = fmt.Sprintf("List<%s>", elem.Text)
		t.IsList = true
		t.Elem = &elem
	case typecat.NestedDictionary:
		elem := mapCategory(v.Value, true)
		t.Text = fmt.Sprintf("Map<String, %s>", elem.Text)
		t.IsMap = true
		t.Elem = &elem
	case typecat.DomainAlias:
		t.Text = backend.DomainName(v.Name)
		t.Constructible = true
	case typecat.Unknown:
		t.Text = v.Raw
	default:
		t.Text = "Object"
	}
	return t
}

func (b *Backend) MapAsync(isAsync bool, inner backend.TargetType) backend.TargetType {
	if !isAsync {
		if inner.IsVoid {
			inner.Text = "void"
		}
		return inner
	}
	wrapped := inner
	return backend.TargetType{
		Text:         fmt.Sprintf("CompletableFuture<%s>", inner.Text),
		Category:     inner.Category,
		Inner:        &wrapped,
		AsyncWrapped: true,
		IsVoid:       inner.IsVoid,
	}
}

func (b *Backend) ResultSignature(t backend.TargetType) string {
	return t.Text
}

// SynthesizeParameters renders Java parameters. Optionals are boxed and null
// means absent; a translatable default is applied in the prologue.
func (b *Backend) SynthesizeParameters(method string, params []models.ParameterDescriptor) (backend.ParameterSet, error) {
	var set backend.ParameterSet
	for _, p := range backend.PlanParameters(params, reservedWords) {
		if !p.Optional {
			t := b.MapType(method, p.Category, false)
			set.Declarations = append(set.Declarations, fmt.Sprintf("%s %s", t.Text, p.Name))
			set.CallArgs = append(set.CallArgs, p.Name)
			continue
		}

		t := mapCategory(p.Category, true)
		if !p.HasDefault {
			set.Declarations = append(set.Declarations, fmt.Sprintf("%s %s", t.Text, p.Name))
			set.CallArgs = append(set.CallArgs, p.Name)
			continue
		}
		supplied := p.Name + "2"
		set.Declarations = append(set.Declarations, fmt.Sprintf("%s %s", t.Text, supplied))
		set.Prologue = append(set.Prologue, fmt.Sprintf("Object %s = %s == null ? %s : %s;", p.Name, supplied, p.Default, supplied))
		set.CallArgs = append(set.CallArgs, p.Name)
	}
	return set, nil
}

func (b *Backend) SynthesizeBody(call backend.Call) []string {
	lines := append([]string{}, call.Params.Prologue...)
	invocation := fmt.Sprintf("this.core.%s(%s)", call.Method, backend.JoinArgs(call.Params.CallArgs))
	void := call.Result.Unwrapped().IsVoid

	if !call.IsAsync {
		if void {
			return append(lines, invocation+";")
		}
		lines = append(lines, fmt.Sprintf("Object res = %s;", invocation))
		return append(lines, b.SynthesizeCoercion(call.Result, "res")...)
	}

	if void {
		return append(lines, fmt.Sprintf("return %s.thenAccept(res -> {});", invocation))
	}
	lines = append(lines, fmt.Sprintf("return %s.thenApply(res -> {", invocation))
	for _, line := range b.SynthesizeCoercion(call.Result, "res") {
		lines = append(lines, "    "+line)
	}
	return append(lines, "});")
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
		return []string{fmt.Sprintf("return ((List<Object>) %s).stream().map(item -> new %s(item)).collect(Collectors.toList());", src, t.Elem.Text)}
	case backend.CoerceListDictionary, backend.CoerceListCast:
		if t.Elem.IsList || t.Elem.IsMap {
			return []string{fmt.Sprintf("return ((List<Object>) %s).stream().map(item -> %s).collect(Collectors.toList());", src, elementExpr(*t.Elem, "item", 1))}
		}
		return []string{fmt.Sprintf("return ((List<Object>) %s).stream().map(item -> (%s) item).collect(Collectors.toList());", src, t.Elem.Text)}
	case backend.CoerceMapConstruct:
		return []string{
			fmt.Sprintf("Map<String, Object> dict = (Map<String, Object>) %s;", src),
			fmt.Sprintf("%s result = new HashMap<>();", t.Text),
			"for (String key : dict.keySet()) {",
			fmt.Sprintf("    result.put(key, new %s(dict.get(key)));", t.Elem.Text),
			"}",
			"return result;",
		}
	case backend.CoerceConstruct:
		return []string{fmt.Sprintf("return new %s(%s);", t.Text, src)}
	}
	if t.IsMap && t.Elem != nil {
		return []string{fmt.Sprintf("return %s;", elementExpr(t, src, 1))}
	}
	return []string{fmt.Sprintf("return (%s) %s;", t.Text, src)}
}

// elementExpr converts one untyped element into elem. Erased generic casts
// would leave nested constructible values as raw maps, so nested shapes are
// rebuilt.
func elementExpr(elem backend.TargetType, src string, depth int) string {
	v := fmt.Sprintf("x%d", depth)
	switch {
	case elem.Constructible:
		return fmt.Sprintf("new %s(%s)", elem.Text, src)
	case elem.IsList && elem.Elem != nil:
		return fmt.Sprintf("((List<Object>) %s).stream().map(%s -> %s).collect(Collectors.toList())", src, v, elementExpr(*elem.Elem, v, depth+1))
	case elem.IsMap && elem.Elem != nil:
		return fmt.Sprintf("((Map<String, Object>) %s).entrySet().stream().collect(Collectors.toMap(%s -> %s.getKey(), %s -> %s))", src, v, v, v, elementExpr(*elem.Elem, v+".getValue()", depth+1))
	}
	return fmt.Sprintf("(%s) %s", elem.Text, src)
}
