package templates

// Template kinds registered per backend
const (
	KindFile       = "file"
	KindMethod     = "method"
	KindSubclasses = "subclasses"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerCSharpTemplates()
	registry.registerGoTemplates()
	registry.registerJavaTemplates()

	return registry
}

// Key returns the registry key of a backend's template kind
func Key(backendName, kind string) string {
	return backendName + "/" + kind
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

func (tr *TemplateRegistry) registerCSharpTemplates() {
	tr.templates[Key("csharp", KindFile)] = `// {{.Header}}

namespace {{.Namespace}};

using System.Collections.Generic;
using System.Linq;
using System.Threading.Tasks;

public partial class {{.TypeName}}{{if .Parent}} : {{.Parent}}{{end}}
{
{{join .Methods "\n\n"}}
}
`

	tr.templates[Key("csharp", KindMethod)] = `{{if .Doc}}    /// <summary>
{{range .Doc}}    /// {{.}}
{{end}}    /// </summary>
{{end}}    public {{.Result}} {{.Name}}({{.Params}})
    {
{{range .Body}}{{indent 2 .}}
{{end}}    }`

	tr.templates[Key("csharp", KindSubclasses)] = `// {{.Header}}

namespace {{.Namespace}};
{{range .Exchanges}}
public class {{.TypeName}} : {{.CoreName}}
{
    public {{.TypeName}}(object args = null) : base(args) { }
}
{{end}}`
}

func (tr *TemplateRegistry) registerGoTemplates() {
	tr.templates[Key("go", KindFile)] = `// {{.Header}}

package {{.Namespace}}

type {{.TypeName}} struct {
	*{{if .BaseType}}{{.BaseType}}{{else}}{{.CoreName}}{{end}}
	Core *{{.CoreName}}
}

{{join .Methods "\n\n"}}
`

	tr.templates[Key("go", KindMethod)] = `{{range .Doc}}// {{.}}
{{end}}func (this *{{.Receiver}}) {{.Name}}({{.Params}}){{if .Result}} {{.Result}}{{end}} {
{{range .Body}}{{tab 1 .}}
{{end}}}`

	tr.templates[Key("go", KindSubclasses)] = `// {{.Header}}

package {{.Namespace}}

// Exchanges lists every exchange with a typed wrapper
var Exchanges = []string{
{{range .Exchanges}}	"{{.ID}}",
{{end}}}
{{range .Exchanges}}
// New{{.TypeName}} creates a typed {{.ID}} client
func New{{.TypeName}}(userConfig map[string]interface{}) *{{.TypeName}} {
	core := &{{.CoreName}}{}
	core.Init(userConfig)
	return &{{.TypeName}}{
		{{$.BaseType}}: &{{$.BaseType}}{ {{$.BaseCore}}: &core.{{$.BaseCore}}, Core: &core.{{$.BaseCore}} },
		Core: core,
	}
}
{{end}}`
}

func (tr *TemplateRegistry) registerJavaTemplates() {
	tr.templates[Key("java", KindFile)] = `// {{.Header}}

package {{.Namespace}};

import java.util.HashMap;
import java.util.List;
import java.util.Map;
import java.util.concurrent.CompletableFuture;
import java.util.stream.Collectors;

public class {{.TypeName}}{{if .BaseType}} extends {{.BaseType}}{{end}} {

    {{if .BaseType}}private{{else}}protected{{end}} final {{.Namespace}}.core.{{.CoreName}} core;

    public {{.TypeName}}(Object options) {
        this(new {{.Namespace}}.core.{{.CoreName}}(options));
    }

    protected {{.TypeName}}({{.Namespace}}.core.{{.CoreName}} core) {
{{if .BaseType}}        super(core);
{{end}}        this.core = core;
    }
{{if not .BaseType}}
    public {{.Namespace}}.core.{{.CoreName}} getCore() {
        return core;
    }
{{end}}
{{join .Methods "\n\n"}}
}
`

	tr.templates[Key("java", KindMethod)] = `{{if .Doc}}    /**
{{range .Doc}}     * {{.}}
{{end}}     */
{{end}}    public {{.Result}} {{.Name}}({{.Params}}) {
{{range .Body}}{{indent 2 .}}
{{end}}    }`

	tr.templates[Key("java", KindSubclasses)] = `// {{.Header}}

package {{.Namespace}};

import java.util.List;

public final class Exchanges {

    public static final List<String> IDS = List.of({{range $i, $e := .Exchanges}}{{if $i}}, {{end}}"{{$e.ID}}"{{end}});

    private Exchanges() {
    }

    public static {{.BaseType}} create(String id, Object options) {
        switch (id) {
{{range .Exchanges}}            case "{{.ID}}":
                return new {{.TypeName}}(options);
{{end}}            default:
                throw new IllegalArgumentException("unknown exchange: " + id);
        }
    }
}
`
}

// DefaultTemplateRegistry is the global template registry instance
var DefaultTemplateRegistry = NewTemplateRegistry()
