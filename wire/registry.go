package wire

// Registry maps block ids to dense indices in first-seen order. An index,
// once assigned, is never reassigned. A Registry is not safe for concurrent
// use.
type Registry struct {
	indices map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{indices: make(map[string]int)}
}

// IndexFor returns the index of id, assigning the next free index when id
// has not been seen.
func (r *Registry) IndexFor(id string) int {
	if i, ok := r.indices[id]; ok {
		return i
	}
	i := len(r.indices)
	r.indices[id] = i
	return i
}

// Len returns the number of ids seen.
func (r *Registry) Len() int {
	return len(r.indices)
}
