package cli

import (
	"os"

	"github.com/toyz/wrapgen/internal/errors"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
	dryRun  bool
}

// NewCleaner creates a new cleaner. A dry-run cleaner only reports.
func NewCleaner(dryRun bool) *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(),
		dryRun:  dryRun,
	}
}

// CleanGeneratedFiles removes every generated wrapper file below the given
// directories and returns the removed paths. A file that cannot be removed
// does not stop the others. Hand-written files are never touched.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	files, err := c.scanner.ScanGenerated(directories)
	if err != nil {
		return nil, err
	}
	if c.dryRun {
		return files, nil
	}

	removed := make([]string, 0, len(files))
	failures := errors.NewMultipleErrors()
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			failures.Add(errors.WrapFileSystemError("remove", file, err))
			continue
		}
		removed = append(removed, file)
	}
	return removed, failures.ErrOrNil()
}
