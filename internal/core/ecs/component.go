package ecs

// Removable is implemented by all typed stores so the Registry can remove an
// identity from every store without knowing which one holds it.
type Removable interface {
	Remove(id Identity) bool
}

// Store is a typed map store that remembers insertion order. Iteration always
// follows insertion order so scans over it are deterministic.
type Store[T any] struct {
	data  map[Identity]*T
	order []Identity
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data:  make(map[Identity]*T, 64),
		order: make([]Identity, 0, 64),
	}
}

// Insert stores c under id. It never overwrites: false if id is already present.
func (s *Store[T]) Insert(id Identity, c *T) bool {
	if _, ok := s.data[id]; ok {
		return false
	}
	s.data[id] = c
	s.order = append(s.order, id)
	return true
}

func (s *Store[T]) Get(id Identity) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// Remove deletes id and reports whether it was present.
func (s *Store[T]) Remove(id Identity) bool {
	if _, ok := s.data[id]; !ok {
		return false
	}
	delete(s.data, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store[T]) Has(id Identity) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits entries in insertion order. fn must not mutate the store.
func (s *Store[T]) Each(fn func(Identity, *T)) {
	for _, id := range s.order {
		fn(id, s.data[id])
	}
}
