// Package typecat classifies raw source type annotations into a closed set of
// categories shared by every backend.
package typecat

import "fmt"

// Category is the closed set of type shapes a raw annotation can classify to.
// The unexported marker method keeps the set closed to this package.
type Category interface {
	fmt.Stringer
	category()
}

// Dynamic is an absent or undefined annotation
type Dynamic struct{}

// Dictionary is a string-keyed bag of untyped values
type Dictionary struct{}

// PlainString is a string, or a domain enum that is still modelled as a string
type PlainString struct{}

// Integer is a whole number
type Integer struct{}

// Float is a floating point number
type Float struct{}

// Boolean is true/false
type Boolean struct{}

// Void is the absence of a result (`void`)
type Void struct{}

// List is an ordered collection of Inner
type List struct {
	Inner Category
}

// NestedDictionary is a string-keyed map whose values are Value
type NestedDictionary struct {
	Value Category
}

// DomainAlias names a domain object type such as Ticker or Order
type DomainAlias struct {
	Name string
}

// Unknown is any annotation the classifier does not recognise. Raw is passed
// through to the target language verbatim.
type Unknown struct {
	Raw string
}

func (Dynamic) category()          {}
func (Dictionary) category()       {}
func (PlainString) category()      {}
func (Integer) category()          {}
func (Float) category()            {}
func (Boolean) category()          {}
func (Void) category()             {}
func (List) category()             {}
func (NestedDictionary) category() {}
func (DomainAlias) category()      {}
func (Unknown) category()          {}

func (Dynamic) String() string     { return "Dynamic" }
func (Dictionary) String() string  { return "Dictionary" }
func (PlainString) String() string { return "PlainString" }
func (Integer) String() string     { return "Integer" }
func (Float) String() string       { return "Float" }
func (Boolean) String() string     { return "Boolean" }
func (Void) String() string        { return "Void" }

func (l List) String() string {
	return fmt.Sprintf("List(%s)", l.Inner)
}

func (n NestedDictionary) String() string {
	return fmt.Sprintf("NestedDictionary(%s)", n.Value)
}

func (d DomainAlias) String() string {
	return fmt.Sprintf("DomainAlias(%s)", d.Name)
}

func (u Unknown) String() string {
	return fmt.Sprintf("Unknown(%s)", u.Raw)
}

// IsScalar reports whether c is one of the value-typed scalars that static
// targets cannot leave unset without boxing.
func IsScalar(c Category) bool {
	switch c.(type) {
	case Integer, Float, Boolean:
		return true
	}
	return false
}
