// Package templates holds the per-backend text/template skeletons for wrapper
// files, wrapper methods and the exchange subclasses file.
package templates

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/toyz/wrapgen/internal/errors"
)

// GeneratedHeader marks every file this tool writes. The cleaner relies on it.
const GeneratedHeader = "Code generated by wrapgen. DO NOT EDIT."

// MethodData is the input of a method template
type MethodData struct {
	Doc      []string // doc comment lines, may be empty
	Name     string   // wrapper method name
	Result   string   // rendered result signature
	Params   string   // rendered parameter list
	Receiver string   // receiver type, Go only
	Body     []string // body statements, relative indentation included
}

// FileData is the input of a file template
type FileData struct {
	Header    string
	Namespace string // C# namespace, Go or Java package
	TypeName  string // wrapper type name
	CoreName  string // dynamically-typed core class the wrapper forwards to
	Parent    string // parent class of the core, empty for the base type
	BaseType  string // typed base wrapper an exchange wrapper extends, empty for the base type
	IsBase    bool
	Methods   []string // rendered methods in source order
}

// SubclassData is one exchange in the subclasses file
type SubclassData struct {
	ID       string // exchange identifier
	TypeName string // typed class name
	CoreName string // core class name
}

// SubclassesData is the input of a subclasses template
type SubclassesData struct {
	Header    string
	Namespace string
	BaseCore  string // core name of the shared base type
	BaseType  string // typed wrapper name of the shared base type
	Exchanges []SubclassData
}

var funcMap = template.FuncMap{
	"join": func(items []string, sep string) string {
		return strings.Join(items, sep)
	},
	"indent": func(levels int, line string) string {
		return indentLine(strings.Repeat("    ", levels), line)
	},
	"tab": func(levels int, line string) string {
		return indentLine(strings.Repeat("\t", levels), line)
	},
}

func indentLine(prefix, line string) string {
	if line == "" {
		return ""
	}
	return prefix + line
}

// Render executes the backend's template of the given kind
func (tr *TemplateRegistry) Render(backendName, kind string, data interface{}) (string, error) {
	name := Key(backendName, kind)
	templateStr, ok := tr.Get(name)
	if !ok {
		return "", errors.Newf(errors.TemplateErrorCode, "no %s template for backend %s", kind, backendName)
	}
	return executeTemplate(name, templateStr, data)
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}

// DocLines splits a doc comment into trimmed, non-empty lines
func DocLines(doc string) []string {
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
