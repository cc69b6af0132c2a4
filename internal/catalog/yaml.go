package catalog

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/models"
)

// yamlCatalog is the on-disk shape of a descriptor catalog
type yamlCatalog struct {
	Sources []*models.SourceFile `yaml:"sources"`
}

// LoadYAML reads a descriptor catalog. A catalog holds one or more YAML
// documents, each with a sources list, and must declare exactly one base
// source across all documents.
func LoadYAML(path string) ([]*models.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return ParseYAML(content, path)
}

// ParseYAML decodes catalog content; path is used for error context only
func ParseYAML(content []byte, path string) ([]*models.SourceFile, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var sources []*models.SourceFile
	for {
		var doc yamlCatalog
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParseError(path, err)
		}
		for _, src := range doc.Sources {
			src.Path = path
			sources = append(sources, src)
		}
	}

	if err := validateSources(sources); err != nil {
		return nil, errors.WrapValidationError(path, err)
	}
	return sources, nil
}

func validateSources(sources []*models.SourceFile) error {
	seen := make(map[string]bool, len(sources))
	bases := 0
	for i, src := range sources {
		if src.Exchange == "" {
			return errors.Newf(errors.ValidationErrorCode, "source %d has no exchange identifier", i)
		}
		if src.ClassName == "" {
			src.ClassName = src.Exchange
		}
		if seen[src.Exchange] {
			return errors.Newf(errors.ValidationErrorCode, "exchange %s declared twice", src.Exchange)
		}
		seen[src.Exchange] = true
		if src.IsBase {
			bases++
		}
		for _, m := range src.Methods {
			if m.Name == "" {
				return errors.Newf(errors.ValidationErrorCode, "exchange %s has a method without a name", src.Exchange)
			}
		}
	}
	if bases != 1 {
		return errors.Newf(errors.ValidationErrorCode, "expected exactly one base source, found %d", bases).
			WithSuggestion("mark the shared base type with base: true")
	}
	return nil
}
