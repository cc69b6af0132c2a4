package registry

import (
	"sort"
	"sync"

	"github.com/toyz/wrapgen/internal/models"
)

// OptionsRegistry memoizes Go options structs by source method name. Many
// exchanges share a base-method signature, so each struct is emitted once.
type OptionsRegistry struct {
	structs   *Ordered[string, *models.OptionsStruct]
	conflicts *Ordered[string, struct{}]

	mu          sync.Mutex
	unreachable map[string]map[string]bool // method -> params the registered struct lacks
}

// NewOptionsRegistry creates an empty options registry
func NewOptionsRegistry() *OptionsRegistry {
	structs := NewOrdered[string, *models.OptionsStruct]("options", "method name")
	structs.SetValidator(ChainValidators(
		NotEmptyKeyValidator[*models.OptionsStruct]("method name"),
		NotNilValueValidator[string, models.OptionsStruct]("options struct"),
	))
	return &OptionsRegistry{
		structs:   structs,
		conflicts:   NewOrdered[string, struct{}]("options conflict", "method name"),
		unreachable: make(map[string]map[string]bool),
	}
}

// Ensure returns the struct registered for s.Method, registering s when the
// method has not been seen. conflict is true when a struct already exists
// with a different field list; the existing struct always wins.
func (r *OptionsRegistry) Ensure(s *models.OptionsStruct) (registered *models.OptionsStruct, conflict bool, err error) {
	registered, created, err := r.structs.GetOrRegister(s.Method, func() *models.OptionsStruct { return s })
	if err != nil {
		return nil, false, err
	}
	if created {
		return registered, false, nil
	}
	if registered.SameShape(s) {
		return registered, false, nil
	}
	_, _, _ = r.conflicts.GetOrRegister(s.Method, func() struct{} { return struct{}{} })
	r.recordUnreachable(registered, s)
	return registered, true, nil
}

// recordUnreachable remembers the optional parameters of s that registered
// has no field for. Callers cannot set them through the options.
func (r *OptionsRegistry) recordUnreachable(registered, s *models.OptionsStruct) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range s.Fields {
		if _, ok := registered.Field(f.Param); ok {
			continue
		}
		params := r.unreachable[s.Method]
		if params == nil {
			params = make(map[string]bool)
			r.unreachable[s.Method] = params
		}
		params[f.Param] = true
	}
}

// Conflicts returns the methods that were seen with more than one field list
func (r *OptionsRegistry) Conflicts() []string {
	return r.conflicts.Keys()
}

// Unreachable returns, sorted, the optional parameters of method that some
// signature declared but the registered struct cannot set
func (r *OptionsRegistry) Unreachable(method string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	params := make([]string, 0, len(r.unreachable[method]))
	for param := range r.unreachable[method] {
		params = append(params, param)
	}
	sort.Strings(params)
	return params
}

// Get returns the struct registered for method
func (r *OptionsRegistry) Get(method string) (*models.OptionsStruct, bool) {
	return r.structs.Get(method)
}

// All returns every registered struct in first-seen order
func (r *OptionsRegistry) All() []*models.OptionsStruct {
	return r.structs.Values()
}

// Len returns the number of registered structs
func (r *OptionsRegistry) Len() int {
	return r.structs.Len()
}

// Merge folds other into r in other's insertion order. Keys already present
// are skipped; the method names whose field lists disagree are returned.
func (r *OptionsRegistry) Merge(other *OptionsRegistry) ([]string, error) {
	var conflicts []string
	for _, s := range other.All() {
		_, conflict, err := r.Ensure(s)
		if err != nil {
			return conflicts, err
		}
		if conflict {
			conflicts = append(conflicts, s.Method)
		}
	}
	return conflicts, nil
}

// Seal freezes the registry before the options file is rendered
func (r *OptionsRegistry) Seal() {
	r.structs.Seal()
}
