package models

// MethodDescriptor is one API method extracted from the canonical source
// interface. Descriptors are immutable for the duration of an emission pass.
type MethodDescriptor struct {
	Name       string                `yaml:"name" json:"name"`
	IsAsync    bool                  `yaml:"async" json:"async"`
	ReturnType string                `yaml:"returns" json:"returns"` // raw annotation, possibly Promise<T>
	Parameters []ParameterDescriptor `yaml:"params" json:"params"`
	Doc        string                `yaml:"doc,omitempty" json:"doc,omitempty"`
	Line       int                   `yaml:"-" json:"-"`
}

// ParameterDescriptor is one declared parameter in source order.
type ParameterDescriptor struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
	Default  string `yaml:"default,omitempty" json:"default,omitempty"` // raw literal, empty when absent
}

// HasDefault reports whether the source declared a default value
func (p ParameterDescriptor) HasDefault() bool {
	return p.Default != ""
}

// IsOptional reports whether callers may omit the parameter. Optionality is
// taken only from the source's own optional marker or default value.
func (p ParameterDescriptor) IsOptional() bool {
	return p.Optional || p.HasDefault()
}

// OptionalCount returns how many parameters of m may be omitted
func (m MethodDescriptor) OptionalCount() int {
	count := 0
	for _, p := range m.Parameters {
		if p.IsOptional() {
			count++
		}
	}
	return count
}

// SourceFile holds every descriptor extracted from one source file
type SourceFile struct {
	Path      string             `yaml:"-" json:"path"`                            // file system path of the source
	Exchange  string             `yaml:"exchange" json:"exchange"`                 // exchange identifier, e.g. "binance"
	ClassName string             `yaml:"class" json:"class"`                       // declared class name in the source
	Parent    string             `yaml:"parent,omitempty" json:"parent,omitempty"` // declared parent class, empty for the base type
	IsBase    bool               `yaml:"base,omitempty" json:"base,omitempty"`     // whether this file declares the shared base type
	Methods   []MethodDescriptor `yaml:"methods" json:"methods"`                   // in declaration order
}
