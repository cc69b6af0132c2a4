package wrapper

import (
	"regexp"

	"github.com/toyz/wrapgen/internal/errors"
)

// Patch is a regex rewrite applied to one backend's rendered files
type Patch struct {
	Backend string
	Pattern *regexp.Regexp
	Replace string
}

// CompilePatch builds a Patch, failing on an invalid pattern
func CompilePatch(backendName, pattern, replace string) (Patch, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Patch{}, errors.WrapConfigurationError("patches", "compile", err).
			WithContext("backend", backendName).
			WithContext("pattern", pattern)
	}
	return Patch{Backend: backendName, Pattern: re, Replace: replace}, nil
}

// ApplyPatches rewrites content with every patch targeting backendName, in order
func ApplyPatches(backendName, content string, patches []Patch) string {
	for _, p := range patches {
		if p.Backend != backendName {
			continue
		}
		content = p.Pattern.ReplaceAllString(content, p.Replace)
	}
	return content
}
