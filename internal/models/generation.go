package models

// GeneratedFile represents one rendered output file
type GeneratedFile struct {
	Backend  string   // backend name, e.g. "csharp"
	Exchange string   // exchange identifier, empty for shared artifacts
	FilePath string   // path where the file should be written
	Content  string   // rendered source
	Methods  int      // number of wrapper methods rendered into the file
	Skipped  []string // eligible methods that could not be synthesized
}

// GenerationSummary is the outcome of one generation run
type GenerationSummary struct {
	RunID          string
	SourcesParsed  int
	MethodsEmitted int
	OptionStructs  int
	GeneratedFiles []string
	Unchanged      []string
	Failures       []*GeneratorError
}

// Failed reports whether any file failed during the run
func (s GenerationSummary) Failed() bool {
	return len(s.Failures) > 0
}
