package network

// Registry maps external record identifiers to vertex handles of one graph.
//
// Resolve is idempotent: the first call for an identifier creates a vertex
// with the registry's constructor, every later call returns the same handle.
// Distinct identifiers always resolve to distinct handles. The empty string
// is a valid identifier here; builders filter it out before resolving.
//
// A Registry owns vertex creation for its graph. Adding vertices to the same
// graph behind the registry's back breaks reverse lookup for them.
//
// Registry is not safe for concurrent use.
type Registry[V Vertex[V]] struct {
	graph     *Graph[V]
	newVertex func(id string) V
	handles   map[string]Handle
	ids       map[Handle]string
}

// NewRegistry creates a registry that resolves identifiers into g, creating
// vertices with newVertex.
func NewRegistry[V Vertex[V]](g *Graph[V], newVertex func(id string) V) *Registry[V] {
	return &Registry[V]{
		graph:     g,
		newVertex: newVertex,
		handles:   make(map[string]Handle),
		ids:       make(map[Handle]string),
	}
}

// Graph returns the graph the registry resolves into.
func (r *Registry[V]) Graph() *Graph[V] { return r.graph }

// Resolve returns the handle registered for id, creating a new vertex first
// if id has not been seen.
func (r *Registry[V]) Resolve(id string) Handle {
	if h, ok := r.handles[id]; ok {
		return h
	}
	h := r.graph.AddVertex(r.newVertex(id))
	r.handles[id] = h
	r.ids[h] = id
	return h
}

// Lookup returns the handle for id without creating a vertex.
func (r *Registry[V]) Lookup(id string) (Handle, bool) {
	h, ok := r.handles[id]
	return h, ok
}

// ID returns the identifier h was registered under.
func (r *Registry[V]) ID(h Handle) (string, bool) {
	id, ok := r.ids[h]
	return id, ok
}

// Len returns the number of registered identifiers.
func (r *Registry[V]) Len() int { return len(r.handles) }
