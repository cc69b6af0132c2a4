package typecat

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// typeExpr is a (possibly single-member) union of array types
type typeExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Members []*arrayType `parser:"'|'? @@ ( '|' @@ )*"`
}

// arrayType is a base type followed by zero or more [] dimensions
type arrayType struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Base *baseType `parser:"@@"`
	Dims []string  `parser:"( @'[' ']' )*"`
}

type baseType struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Paren   *typeExpr   `parser:"  '(' @@ ')'"`
	Object  *objectType `parser:"| @@"`
	Literal *string     `parser:"| @String"`
	Number  *string     `parser:"| @Number"`
	Named   *namedType  `parser:"| @@"`
}

// objectType is an object-literal type; its body is never inspected
type objectType struct {
	Body []string `parser:"'{' @~'}'* '}'"`
}

type namedType struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name string      `parser:"@Ident ( @'.' @Ident )*"`
	Args []*typeExpr `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Punct", Pattern: `[\[\]<>{}(),.|:;?=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var annotationParser = participle.MustBuild[typeExpr](
	participle.Lexer(annotationLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// dictionaryAliases classify as an untyped dictionary
var dictionaryAliases = map[string]bool{
	"any":        true,
	"unknown":    true,
	"object":     true,
	"Object":     true,
	"Dict":       true,
	"Dictionary": true,
}

// scalarAliases map source scalar spellings to their category
var scalarAliases = map[string]Category{
	"string":  PlainString{},
	"Str":     PlainString{},
	"number":  Float{},
	"Num":     Float{},
	"Int":     Integer{},
	"bigint":  Integer{},
	"boolean": Boolean{},
	"Bool":    Boolean{},
	"void":    Void{},
	"Strings": List{Inner: PlainString{}},
}

// stringEnums are domain enums not yet modelled as real enums in the targets
var stringEnums = map[string]bool{
	"OrderSide":   true,
	"OrderType":   true,
	"MarketType":  true,
	"SubType":     true,
	"IndexType":   true,
	"MarginModes": true,
}

// Classify maps a raw annotation to its Category. It never fails: anything it
// cannot recognise comes back as Unknown carrying the text of the smallest
// unrecognised sub-expression, so Foo.Bar[] is a List of Unknown(Foo.Bar).
func Classify(raw string) Category {
	s := strings.TrimSpace(raw)
	if s == "" || s == "undefined" {
		return Dynamic{}
	}
	// object literals may nest braces the grammar does not balance
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return Dictionary{}
	}
	expr, err := annotationParser.ParseString("", s)
	if err != nil {
		return Unknown{Raw: s}
	}
	return classifyUnion(expr, s)
}

// span returns the trimmed source text between two node positions. A node
// that runs to the end of input may carry an end offset past it.
func span(src string, pos, end lexer.Position) string {
	from, to := pos.Offset, end.Offset
	if to <= from || to > len(src) {
		to = len(src)
	}
	if from < 0 || from > to {
		return strings.TrimSpace(src)
	}
	return strings.TrimSpace(src[from:to])
}

// UnwrapPromise strips one Promise<...> layer from raw. The boolean reports
// whether a layer was removed.
func UnwrapPromise(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "Promise") {
		return s, false
	}
	expr, err := annotationParser.ParseString("", s)
	if err != nil || len(expr.Members) != 1 {
		return s, false
	}
	member := expr.Members[0]
	if len(member.Dims) > 0 || member.Base.Named == nil {
		return s, false
	}
	if member.Base.Named.Name != "Promise" || len(member.Base.Named.Args) != 1 {
		return s, false
	}
	open := strings.Index(s, "<")
	end := strings.LastIndex(s, ">")
	return strings.TrimSpace(s[open+1 : end]), true
}

func classifyUnion(expr *typeExpr, src string) Category {
	var kept []*arrayType
	literals := 0
	for _, m := range expr.Members {
		if isNullish(m) {
			continue
		}
		if len(m.Dims) == 0 && m.Base.Literal != nil {
			literals++
		}
		kept = append(kept, m)
	}
	switch {
	case len(kept) == 0:
		return Dynamic{}
	case len(kept) == 1:
		return classifyArray(kept[0], src)
	case literals == len(kept):
		return PlainString{}
	}
	return Unknown{Raw: span(src, expr.Pos, expr.EndPos)}
}

func classifyArray(a *arrayType, src string) Category {
	c := classifyBase(a.Base, src)
	for range a.Dims {
		c = List{Inner: c}
	}
	return c
}

func classifyBase(b *baseType, src string) Category {
	switch {
	case b.Paren != nil:
		return classifyUnion(b.Paren, src)
	case b.Object != nil:
		return Dictionary{}
	case b.Literal != nil:
		return PlainString{}
	case b.Number != nil:
		if strings.Contains(*b.Number, ".") {
			return Float{}
		}
		return Integer{}
	case b.Named != nil:
		return classifyNamed(b.Named, src)
	}
	return Unknown{Raw: span(src, b.Pos, b.EndPos)}
}

func classifyNamed(n *namedType, src string) Category {
	unknown := Unknown{Raw: span(src, n.Pos, n.EndPos)}
	if len(n.Args) == 0 {
		if dictionaryAliases[n.Name] {
			return Dictionary{}
		}
		if c, ok := scalarAliases[n.Name]; ok {
			return c
		}
		if n.Name == "true" || n.Name == "false" {
			return Boolean{}
		}
		if stringEnums[n.Name] {
			return PlainString{}
		}
		if isDomainName(n.Name) {
			return DomainAlias{Name: n.Name}
		}
		return unknown
	}

	switch n.Name {
	case "Dictionary", "Record":
		value := n.Args[len(n.Args)-1]
		if len(n.Args) > 2 {
			return unknown
		}
		if len(n.Args) == 2 && !isStringKey(n.Args[0], src) {
			return unknown
		}
		if isUntyped(value) {
			return Dictionary{}
		}
		return NestedDictionary{Value: classifyUnion(value, src)}
	case "Array":
		if len(n.Args) == 1 {
			return List{Inner: classifyUnion(n.Args[0], src)}
		}
	}
	return unknown
}

func isNullish(a *arrayType) bool {
	if len(a.Dims) > 0 || a.Base.Named == nil || len(a.Base.Named.Args) > 0 {
		return false
	}
	return a.Base.Named.Name == "undefined" || a.Base.Named.Name == "null"
}

func isStringKey(e *typeExpr, src string) bool {
	_, ok := classifyUnion(e, src).(PlainString)
	return ok
}

// isUntyped reports whether a dictionary value type is any/unknown/object,
// in which case the dictionary itself is untyped.
func isUntyped(e *typeExpr) bool {
	if len(e.Members) != 1 {
		return false
	}
	m := e.Members[0]
	if len(m.Dims) > 0 || m.Base.Named == nil || len(m.Base.Named.Args) > 0 {
		return false
	}
	switch m.Base.Named.Name {
	case "any", "unknown", "object", "Object":
		return true
	}
	return false
}

// isDomainName accepts capitalised, undotted identifiers such as Ticker
func isDomainName(name string) bool {
	if name == "" || strings.Contains(name, ".") {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}
