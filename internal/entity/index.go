package entity

import "github.com/simcore/server/internal/core/ecs"

// Indices are positions among live siblings of one kind under one owner, in
// insertion order. They are recomputed from the mappings on every call, so
// they cannot drift from store membership. Owners: worlds have none, models
// are indexed within their world, links and collisions within their model,
// joints within the model of their child link.

// IndexOf returns the position of id within its owner's enumeration.
func (s *Store) IndexOf(id ecs.Identity) (int, bool) {
	kind := s.Kind(id)
	if kind == KindNone {
		return -1, false
	}
	for i, sibling := range s.Children(s.indexOwner(id, kind), kind) {
		if sibling == id {
			return i, true
		}
	}
	return -1, false
}

// IdentityAt returns the entity of the given kind at index under owner, or
// ecs.Invalid when the owner is absent or the index is out of range. owner is
// ignored for KindWorld.
func (s *Store) IdentityAt(owner ecs.Identity, kind Kind, index int) ecs.Identity {
	if index < 0 {
		return ecs.Invalid
	}
	children := s.Children(owner, kind)
	if index >= len(children) {
		return ecs.Invalid
	}
	return children[index]
}

// Children enumerates the entities of kind under owner in insertion order.
func (s *Store) Children(owner ecs.Identity, kind Kind) []ecs.Identity {
	switch kind {
	case KindWorld:
		return ecs.Collect(s.worlds, func(ecs.Identity, *World) bool { return true })
	case KindModel:
		if !s.worlds.Has(owner) {
			return nil
		}
		return ecs.Collect(s.models, func(_ ecs.Identity, m *Model) bool { return m.World == owner })
	case KindLink:
		if !s.models.Has(owner) {
			return nil
		}
		return ecs.Collect(s.links, func(_ ecs.Identity, l *Link) bool { return l.Model == owner })
	case KindCollision:
		if !s.models.Has(owner) {
			return nil
		}
		return ecs.Collect(s.collisions, func(_ ecs.Identity, c *Collision) bool { return c.Model == owner })
	case KindJoint:
		if !s.models.Has(owner) {
			return nil
		}
		return ecs.Collect(s.joints, func(_ ecs.Identity, j *Joint) bool { return s.jointModel(j) == owner })
	}
	return nil
}

func (s *Store) indexOwner(id ecs.Identity, kind Kind) ecs.Identity {
	switch kind {
	case KindJoint:
		j, _ := s.joints.Get(id)
		return s.jointModel(j)
	case KindWorld:
		return ecs.Invalid
	}
	return s.parents[id]
}

func (s *Store) jointModel(j *Joint) ecs.Identity {
	if j == nil {
		return ecs.Invalid
	}
	if child, ok := s.links.Get(j.Child); ok {
		return child.Model
	}
	return ecs.Invalid
}
