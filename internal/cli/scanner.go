package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/templates"
	"github.com/toyz/wrapgen/internal/utils"
)

// generatedExtensions are the file types any backend writes
var generatedExtensions = []string{".cs", ".go", ".java"}

// DirectoryScanner finds files previously written by the generator
type DirectoryScanner struct {
	walkOptions utils.FileWalkOptions
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		walkOptions: utils.FileWalkOptions{
			FileFilter:      utils.ExtensionFilter(generatedExtensions...),
			DirectoryFilter: utils.DefaultDirectoryFilter(),
		},
	}
}

// ScanGenerated walks the given directories and returns every file carrying
// the generated-file header. Go-style "/..." suffixes are accepted; scanning
// is always recursive. Missing directories are skipped.
func (s *DirectoryScanner) ScanGenerated(rootDirs []string) ([]string, error) {
	var generated []string

	for _, rootDir := range rootDirs {
		baseDir := strings.TrimSuffix(rootDir, "/...")
		if baseDir == "" {
			baseDir = "."
		}

		cleanPath, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, errors.WrapWithOperation("resolve", baseDir, err)
		}
		if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
			continue
		}

		files, err := utils.WalkFiles(cleanPath, s.walkOptions)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", cleanPath, err)
		}

		for _, file := range files {
			ok, err := utils.HasHeader(file, templates.GeneratedHeader)
			if err != nil {
				return nil, errors.WrapFileSystemError("read", file, err)
			}
			if ok {
				generated = append(generated, file)
			}
		}
	}

	return generated, nil
}
