package models

// OptionsStruct describes the Go functional-options artifact synthesized for
// one method with two or more optional parameters.
type OptionsStruct struct {
	Method   string         // source method name the struct belongs to
	Name     string         // struct type name, e.g. FetchTradesOptionsStruct
	FuncType string         // option function type, e.g. FetchTradesOptions
	Fields   []OptionsField // one per optional parameter, in declaration order
}

// OptionsField is one nullable field of an OptionsStruct
type OptionsField struct {
	Name    string // exported field name
	Param   string // source parameter name
	Type    string // mapped Go type of the field, without the pointer
	Builder string // builder function name, e.g. WithFetchTradesSince
}

// Field returns the field synthesized for the given source parameter name
func (s *OptionsStruct) Field(param string) (OptionsField, bool) {
	for _, f := range s.Fields {
		if f.Param == param {
			return f, true
		}
	}
	return OptionsField{}, false
}

// SameShape reports whether two structs carry the same fields in the same order
func (s *OptionsStruct) SameShape(other *OptionsStruct) bool {
	if len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}
