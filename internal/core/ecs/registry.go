package ecs

// Registry tracks all typed stores and supports removal of an identity from
// whichever store holds it.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 8),
	}
}

// Register adds a store to the registry.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given identity from every registered store and reports
// whether any store held it.
func (r *Registry) RemoveAll(id Identity) bool {
	removed := false
	for _, s := range r.stores {
		if s.Remove(id) {
			removed = true
		}
	}
	return removed
}
