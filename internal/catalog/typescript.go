// Package catalog produces method descriptors: from TypeScript sources via
// tree-sitter, or from YAML catalogs.
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/models"
)

// DefaultMaxFileSize bounds the sources the extractor accepts
const DefaultMaxFileSize = 8 * 1024 * 1024

// TypeScriptExtractor extracts class method descriptors from TypeScript
// sources. It is safe for concurrent use; every call builds its own
// tree-sitter parser.
type TypeScriptExtractor struct {
	maxFileSize int64
}

// ExtractorOption configures a TypeScriptExtractor
type ExtractorOption func(*TypeScriptExtractor)

// WithMaxFileSize sets the largest source the extractor will parse
func WithMaxFileSize(bytes int64) ExtractorOption {
	return func(e *TypeScriptExtractor) {
		if bytes > 0 {
			e.maxFileSize = bytes
		}
	}
}

// NewTypeScriptExtractor creates an extractor
func NewTypeScriptExtractor(opts ...ExtractorOption) *TypeScriptExtractor {
	e := &TypeScriptExtractor{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile reads and extracts the source at path
func (e *TypeScriptExtractor) ExtractFile(ctx context.Context, path, className string) (*models.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return e.Extract(ctx, content, path, className)
}

// Extract parses content and returns the descriptors of the class named
// className, or of the first class declared when className is empty.
// Private, protected and static methods and constructors are skipped.
func (e *TypeScriptExtractor) Extract(ctx context.Context, content []byte, path, className string) (*models.SourceFile, error) {
	if int64(len(content)) > e.maxFileSize {
		return nil, errors.Newf(errors.ValidationErrorCode, "%s: size %d exceeds limit %d", path, len(content), e.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, errors.Newf(errors.ValidationErrorCode, "%s: content is not valid UTF-8", path)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.WrapParseError(path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	class := findClass(root, content, className)
	if class == nil {
		loc := errors.SourceLocation{File: path}
		if className == "" {
			return nil, errors.New(errors.SyntaxErrorCode, "no class declaration found").
				WithLocation(loc).
				WithSuggestion("each exchange source must declare one class")
		}
		return nil, errors.Newf(errors.SyntaxErrorCode, "class %s not found", className).WithLocation(loc)
	}

	file := &models.SourceFile{
		Path:     path,
		Exchange: ExchangeID(path),
	}
	var body *sitter.Node
	for i := 0; i < int(class.ChildCount()); i++ {
		child := class.Child(i)
		switch child.Type() {
		case "type_identifier":
			file.ClassName = text(child, content)
		case "class_heritage":
			file.Parent = extractParent(child, content)
		case "class_body":
			body = child
		}
	}

	if body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			child := body.Child(i)
			if child.Type() != "method_definition" {
				continue
			}
			if method, ok := extractMethod(child, content); ok {
				file.Methods = append(file.Methods, method)
			}
		}
	}

	return file, nil
}

// ExchangeID derives the exchange identifier from a source path
func ExchangeID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func findClass(root *sitter.Node, content []byte, className string) *sitter.Node {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() == "export_statement" {
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				node = decl
			} else if value := node.ChildByFieldName("value"); value != nil {
				node = value
			}
		}
		switch node.Type() {
		case "class_declaration", "abstract_class_declaration", "class":
		default:
			continue
		}
		if className == "" {
			return node
		}
		if name := node.ChildByFieldName("name"); name != nil && text(name, content) == className {
			return node
		}
	}
	return nil
}

func extractParent(heritage *sitter.Node, content []byte) string {
	for i := 0; i < int(heritage.ChildCount()); i++ {
		clause := heritage.Child(i)
		if clause.Type() != "extends_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			gc := clause.NamedChild(j)
			switch gc.Type() {
			case "identifier", "type_identifier", "member_expression":
				return text(gc, content)
			}
		}
	}
	return ""
}

func extractMethod(node *sitter.Node, content []byte) (models.MethodDescriptor, bool) {
	method := models.MethodDescriptor{
		Line: int(node.StartPoint().Row + 1),
		Doc:  precedingDoc(node, content),
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "accessibility_modifier":
			if modifier := text(child, content); modifier == "private" || modifier == "protected" {
				return method, false
			}
		case "static":
			return method, false
		case "async":
			method.IsAsync = true
		case "property_identifier":
			method.Name = text(child, content)
		case "formal_parameters":
			method.Parameters = extractParameters(child, content)
		case "type_annotation":
			method.ReturnType = typeAnnotation(child, content)
		}
	}

	if method.Name == "" || method.Name == "constructor" {
		return method, false
	}
	return method, true
}

func extractParameters(params *sitter.Node, content []byte) []models.ParameterDescriptor {
	var out []models.ParameterDescriptor
	for i := 0; i < int(params.NamedChildCount()); i++ {
		node := params.NamedChild(i)
		kind := node.Type()
		if kind != "required_parameter" && kind != "optional_parameter" {
			continue
		}

		p := models.ParameterDescriptor{Optional: kind == "optional_parameter"}
		if pattern := node.ChildByFieldName("pattern"); pattern != nil {
			p.Name = strings.TrimPrefix(text(pattern, content), "...")
		}
		if annotation := node.ChildByFieldName("type"); annotation != nil {
			p.Type = typeAnnotation(annotation, content)
		}
		if value := node.ChildByFieldName("value"); value != nil {
			p.Default = text(value, content)
		}
		if p.Name != "" {
			out = append(out, p)
		}
	}
	return out
}

// typeAnnotation returns the type text of a type_annotation node, without the colon
func typeAnnotation(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != ":" {
			return text(child, content)
		}
	}
	return ""
}

// precedingDoc returns the JSDoc block directly above node, without markers
func precedingDoc(node *sitter.Node, content []byte) string {
	prev := node.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	comment := text(prev, content)
	if !strings.HasPrefix(comment, "/**") {
		return ""
	}
	return cleanJSDoc(comment)
}

func cleanJSDoc(comment string) string {
	comment = strings.TrimSuffix(strings.TrimPrefix(comment, "/**"), "*/")
	var lines []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func text(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}
