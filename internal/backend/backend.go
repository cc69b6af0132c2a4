// Package backend defines the contract shared by the statically-typed target
// emitters, plus the immutable tables every emitter consults.
package backend

import (
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/typecat"
)

// Backend maps classified types into one target language and synthesizes the
// pieces of a wrapper method in that language.
type Backend interface {
	// Name is the backend identifier used in config and output paths
	Name() string
	// TypeName returns the wrapper type name for a source class
	TypeName(className string, isBase bool) string
	// FileName returns the output file name for a wrapper type
	FileName(typeName string) string
	// MapType renders c for method. Return-position overrides apply only when
	// returnPosition is set.
	MapType(method string, c typecat.Category, returnPosition bool) TargetType
	// MapAsync wraps inner in the backend's asynchronous result shape
	MapAsync(isAsync bool, inner TargetType) TargetType
	// SynthesizeParameters renders declarations, prologue and call arguments
	SynthesizeParameters(method string, params []models.ParameterDescriptor) (ParameterSet, error)
	// SynthesizeCoercion converts the untyped value named src into t
	SynthesizeCoercion(t TargetType, src string) []string
	// SynthesizeBody renders the full method body for call
	SynthesizeBody(call Call) []string
	// ResultSignature renders the declared result of a wrapper returning t
	ResultSignature(t TargetType) string
}

// TargetType is a rendered type expression plus the shape metadata the
// coercion logic needs.
type TargetType struct {
	Text          string
	Category      typecat.Category
	Elem          *TargetType // list element or nested dictionary value
	Inner         *TargetType // type wrapped by the async shape
	IsList        bool
	IsMap         bool // string-keyed map with typed values
	IsDictionary  bool // string-keyed map of untyped values
	IsNullable    bool
	IsVoid        bool
	IsScalar      bool
	Constructible bool // built from the untyped value with a one-argument constructor
	AsyncWrapped  bool
}

// Unwrapped returns the type inside the async shape, or t itself
func (t TargetType) Unwrapped() TargetType {
	if t.AsyncWrapped && t.Inner != nil {
		return *t.Inner
	}
	return t
}

// Parameter is one source parameter after renaming and classification
type Parameter struct {
	Source     string // name in the source declaration
	Name       string // name after reserved-word renaming
	Category   typecat.Category
	Optional   bool
	Default    string // default literal in target syntax
	HasDefault bool   // whether Default holds a translatable literal
}

// ParameterSet is the output of parameter synthesis
type ParameterSet struct {
	Declarations []string
	Prologue     []string
	CallArgs     []string
	Options      *models.OptionsStruct // Go functional options, nil elsewhere
}

// Call is everything a backend needs to render a wrapper body
type Call struct {
	Method  string // core method name, forwarded unchanged
	IsAsync bool
	Params  ParameterSet
	Result  TargetType // async-adapted result type
}

// Coercion is the result-conversion strategy for a mapped type. It depends
// only on the type's shape, never on a runtime value.
type Coercion int

const (
	CoerceNone          Coercion = iota // void result
	CoercePassthrough                   // dynamic result returned as-is
	CoerceListConstruct                 // list of constructible elements
	CoerceListDictionary                // list of untyped dictionaries
	CoerceListCast                      // list of other elements
	CoerceMapConstruct                  // string-keyed map of constructible values
	CoerceConstruct                     // single constructible value
	CoerceCast                          // direct cast
)

// CoercionFor picks the coercion strategy for t, looking through the async shape
func CoercionFor(t TargetType) Coercion {
	t = t.Unwrapped()
	switch {
	case t.IsVoid:
		return CoerceNone
	case t.IsList && t.Elem != nil:
		if t.Elem.IsDictionary {
			return CoerceListDictionary
		}
		if t.Elem.Constructible {
			return CoerceListConstruct
		}
		return CoerceListCast
	case t.IsMap && t.Elem != nil && t.Elem.Constructible:
		return CoerceMapConstruct
	case t.Constructible:
		return CoerceConstruct
	}
	if _, ok := t.Category.(typecat.Dynamic); ok {
		return CoercePassthrough
	}
	return CoerceCast
}

// PlanParameters classifies and renames params in declaration order
func PlanParameters(params []models.ParameterDescriptor, reserved map[string]string) []Parameter {
	planned := make([]Parameter, 0, len(params))
	for _, p := range params {
		lit, ok := TranslateLiteral(p.Default)
		planned = append(planned, Parameter{
			Source:     p.Name,
			Name:       Rename(p.Name, reserved),
			Category:   typecat.Classify(p.Type),
			Optional:   p.IsOptional(),
			Default:    lit,
			HasDefault: ok,
		})
	}
	return planned
}
