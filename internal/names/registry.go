// Package names issues unique human-readable labels for graph nodes.
//
// Labels are purely diagnostic; nothing in the differentiation contract
// depends on them.
package names

import "fmt"

// Registry hands out "kind:N" labels with an independent counter per kind.
// The zero value is ready to use. A Registry is not safe for concurrent use.
type Registry struct {
	counts map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{counts: make(map[string]int)}
}

// Next returns the next label for kind, e.g. "add:0", "add:1", ...
func (r *Registry) Next(kind string) string {
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	n := r.counts[kind]
	r.counts[kind] = n + 1
	return fmt.Sprintf("%s:%d", kind, n)
}

// Count returns how many labels have been issued for kind.
func (r *Registry) Count(kind string) int {
	return r.counts[kind]
}

// Reset clears every counter, so labels restart at 0.
func (r *Registry) Reset() {
	clear(r.counts)
}
