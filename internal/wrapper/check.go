package wrapper

import (
	"sort"

	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/registry"
)

// RememberDocs feeds every documented method into docs, base type first so
// its wording wins over exchange overrides.
func RememberDocs(docs *registry.DocRegistry, sources []*models.SourceFile) {
	ordered := make([]*models.SourceFile, 0, len(sources))
	for _, src := range sources {
		if src.IsBase {
			ordered = append([]*models.SourceFile{src}, ordered...)
			continue
		}
		ordered = append(ordered, src)
	}
	for _, src := range ordered {
		for _, m := range src.Methods {
			docs.Remember(m.Name, m.Doc)
		}
	}
}

// Mismatch is an eligible method whose mapped return type in an exchange
// differs from the one the base type declares.
type Mismatch struct {
	Backend      string
	Exchange     string
	Method       string
	BaseType     string
	ExchangeType string
}

// CrossCheck compares every eligible exchange method against the base
// declaration of the same name. It is advisory and never fails.
func (s *Synthesizer) CrossCheck(base *models.SourceFile, exchanges []*models.SourceFile) []Mismatch {
	b := s.target.Backend

	declared := make(map[string]string)
	for _, m := range base.Methods {
		if !Eligible(m.Name) {
			continue
		}
		if _, ok := declared[m.Name]; ok {
			continue
		}
		t, _ := s.ResultType(m)
		declared[m.Name] = b.ResultSignature(t)
	}

	var mismatches []Mismatch
	for _, ex := range exchanges {
		for _, m := range ex.Methods {
			baseType, ok := declared[m.Name]
			if !ok || !Eligible(m.Name) {
				continue
			}
			t, _ := s.ResultType(m)
			if got := b.ResultSignature(t); got != baseType {
				mismatches = append(mismatches, Mismatch{
					Backend:      b.Name(),
					Exchange:     ex.Exchange,
					Method:       m.Name,
					BaseType:     baseType,
					ExchangeType: got,
				})
			}
		}
	}

	sort.SliceStable(mismatches, func(i, j int) bool {
		if mismatches[i].Exchange != mismatches[j].Exchange {
			return mismatches[i].Exchange < mismatches[j].Exchange
		}
		return mismatches[i].Method < mismatches[j].Method
	})
	return mismatches
}
