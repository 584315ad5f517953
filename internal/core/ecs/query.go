package ecs

// Collect returns, in insertion order, the identities whose entries satisfy
// match. Callers that mutate the store collect first and mutate afterwards.
func Collect[T any](s *Store[T], match func(Identity, *T) bool) []Identity {
	var out []Identity
	for _, id := range s.order {
		if match(id, s.data[id]) {
			out = append(out, id)
		}
	}
	return out
}

// First returns the first identity in insertion order whose entry satisfies
// match, or Invalid.
func First[T any](s *Store[T], match func(Identity, *T) bool) Identity {
	for _, id := range s.order {
		if match(id, s.data[id]) {
			return id
		}
	}
	return Invalid
}

// Count returns how many entries satisfy match.
func Count[T any](s *Store[T], match func(Identity, *T) bool) int {
	n := 0
	for _, id := range s.order {
		if match(id, s.data[id]) {
			n++
		}
	}
	return n
}
