package cli

import (
	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/utils"
)

// DefaultGoPackage is used when no go.mod encloses the Go output directory
const DefaultGoPackage = "ccxt"

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	parser *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{parser: utils.NewGoModParser()}
}

// ResolveGoPackage returns the package clause for files written to outputDir.
// A configured name wins; otherwise it is derived from the nearest go.mod.
func (r *ModuleResolver) ResolveGoPackage(outputDir, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	name, err := r.parser.ResolvePackageName(outputDir, DefaultGoPackage)
	if err != nil {
		return "", errors.WrapConfigurationError("go package", "resolve", err).
			WithSuggestion("set go.package explicitly").
			WithContext("output_dir", outputDir)
	}
	return name, nil
}
