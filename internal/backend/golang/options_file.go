package golang

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/models"
)

// RenderOptionsFile renders every memoized options struct, its option
// function type and one builder per field. Structs appear in registration
// order so the output is stable across runs.
func RenderOptionsFile(pkg, header string, structs []*models.OptionsStruct) (string, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment(header)

	for _, s := range structs {
		renderOptions(f, s)
	}

	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return "", errors.WrapGenerateError("go options file", pkg, err)
	}
	return buf.String(), nil
}

func renderOptions(f *jen.File, s *models.OptionsStruct) {
	fields := make([]jen.Code, 0, len(s.Fields))
	for _, field := range s.Fields {
		fields = append(fields, jen.Id(field.Name).Op("*").Id(field.Type))
	}

	f.Commentf("%s holds the optional arguments of %s", s.Name, s.Method)
	f.Type().Id(s.Name).Struct(fields...)
	f.Line()

	f.Commentf("%s configures a %s", s.FuncType, s.Name)
	f.Type().Id(s.FuncType).Func().Params(jen.Id("opts").Op("*").Id(s.Name))
	f.Line()

	for _, field := range s.Fields {
		f.Comment(fmt.Sprintf("%s sets the %s argument", field.Builder, field.Param))
		f.Func().Id(field.Builder).Params(jen.Id("value").Id(field.Type)).Id(s.FuncType).Block(
			jen.Return(jen.Func().Params(jen.Id("opts").Op("*").Id(s.Name)).Block(
				jen.Id("opts").Dot(field.Name).Op("=").Op("&").Id("value"),
			)),
		)
		f.Line()
	}
}
