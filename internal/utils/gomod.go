package utils

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct{}

// NewGoModParser creates a new go.mod parser
func NewGoModParser() *GoModParser {
	return &GoModParser{}
}

// ParseModuleName extracts the module name from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.Parse(cleanPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}

	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in go.mod")
	}

	return modFile.Module.Mod.Path, nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir := filepath.Clean(startDir)

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}

// ResolvePackageName derives the package name of dir from the nearest go.mod:
// the last element of the module path (major version suffix removed) plus the
// directory's path below the module root. fallback is returned when no
// go.mod is found.
func (p *GoModParser) ResolvePackageName(dir, fallback string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	goModPath, err := p.FindGoModFile(absDir)
	if err != nil {
		return fallback, nil
	}

	modulePath, err := p.ParseModuleName(goModPath)
	if err != nil {
		return "", err
	}

	name := modulePath
	if rel, err := filepath.Rel(filepath.Dir(goModPath), absDir); err == nil && rel != "." {
		name = filepath.Base(rel)
	} else {
		prefix, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			name = prefix
		}
		name = name[strings.LastIndex(name, "/")+1:]
	}

	return sanitizePackageName(name, fallback), nil
}

// sanitizePackageName lower-cases name and drops characters a package clause
// cannot hold. Keywords fall back.
func sanitizePackageName(name, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) || token.IsKeyword(out) {
		return fallback
	}
	return out
}
