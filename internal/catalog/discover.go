package catalog

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/utils"
)

// Source is one TypeScript file to extract
type Source struct {
	Path      string
	Exchange  string
	ClassName string // class to extract, empty for the file's first class
	IsBase    bool
}

// DiscoverOptions controls which sources Discover returns
type DiscoverOptions struct {
	SourceDir string   // directory holding one .ts file per exchange
	BaseFile  string   // base type source, relative to SourceDir
	BaseClass string   // class declared in BaseFile
	Exchanges []string // restrict to these identifiers, all when empty
}

// Discover lists the base source followed by every exchange source directly
// inside SourceDir, sorted by identifier. The exchange identifiers found here
// are the fixed registry the subclasses files are built from.
func Discover(opts DiscoverOptions) ([]Source, error) {
	basePath := filepath.Join(opts.SourceDir, opts.BaseFile)
	if _, err := os.Stat(basePath); err != nil {
		return nil, errors.WrapFileSystemError("stat base source", basePath, err).
			WithSuggestion("set base_file relative to source_dir")
	}

	files, err := utils.WalkFiles(opts.SourceDir, utils.FileWalkOptions{
		FileFilter: utils.TypeScriptSourceFilter(),
		// exchanges live directly in the source directory
		DirectoryFilter: func(string, os.DirEntry) bool { return false },
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("scan", opts.SourceDir, err)
	}

	wanted := make(map[string]bool, len(opts.Exchanges))
	for _, id := range opts.Exchanges {
		wanted[id] = true
	}

	sources := []Source{{Path: basePath, Exchange: ExchangeID(basePath), ClassName: opts.BaseClass, IsBase: true}}
	var exchanges []Source
	for _, path := range files {
		if filepath.Clean(path) == filepath.Clean(basePath) {
			continue
		}
		id := ExchangeID(path)
		if len(wanted) > 0 && !wanted[id] {
			continue
		}
		exchanges = append(exchanges, Source{Path: path, Exchange: id})
	}
	sort.Slice(exchanges, func(i, j int) bool { return exchanges[i].Exchange < exchanges[j].Exchange })

	for _, id := range opts.Exchanges {
		if !containsExchange(exchanges, id) {
			return nil, errors.Newf(errors.ConfigurationErrorCode, "exchange %s has no source in %s", id, opts.SourceDir)
		}
	}

	return append(sources, exchanges...), nil
}

func containsExchange(sources []Source, id string) bool {
	for _, s := range sources {
		if s.Exchange == id {
			return true
		}
	}
	return false
}
