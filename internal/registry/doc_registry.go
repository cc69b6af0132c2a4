package registry

import "strings"

// DocRegistry remembers the first non-empty doc comment seen per method name
// so exchanges overriding a method without documenting it can reuse it.
type DocRegistry struct {
	docs *Ordered[string, string]
}

// NewDocRegistry creates an empty doc registry
func NewDocRegistry() *DocRegistry {
	docs := NewOrdered[string, string]("doc", "method name")
	docs.SetValidator(NotEmptyKeyValidator[string]("method name"))
	return &DocRegistry{docs: docs}
}

// Remember records doc for method unless one is already known
func (r *DocRegistry) Remember(method, doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" || r.docs.Sealed() {
		return
	}
	_, _, _ = r.docs.GetOrRegister(method, func() string { return doc })
}

// Resolve returns doc when non-empty, else the registered doc for method
func (r *DocRegistry) Resolve(method, doc string) string {
	if doc = strings.TrimSpace(doc); doc != "" {
		return doc
	}
	registered, _ := r.docs.Get(method)
	return registered
}

// Len returns the number of documented methods
func (r *DocRegistry) Len() int {
	return r.docs.Len()
}
