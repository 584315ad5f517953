package entity

import (
	"errors"
	"fmt"

	"github.com/simcore/server/internal/core/ecs"
)

var (
	ErrNilRecord         = errors.New("nil record")
	ErrOwnerNotFound     = errors.New("owner not found")
	ErrCrossWorldJoint   = errors.New("joint links are in different worlds")
	ErrLinkModelMismatch = errors.New("collision link belongs to another model")
)

// Store holds one typed mapping per entity kind plus the child to parent
// index. The owner fields on records are authoritative; parents is kept in
// lockstep on every insert and erase. The Store never touches native worlds.
type Store struct {
	pool     *ecs.IdentityPool
	registry *ecs.Registry

	worlds     *ecs.Store[World]
	models     *ecs.Store[Model]
	links      *ecs.Store[Link]
	collisions *ecs.Store[Collision]
	joints     *ecs.Store[Joint]

	parents map[ecs.Identity]ecs.Identity
}

func NewStore() *Store {
	s := &Store{
		pool:       ecs.NewIdentityPool(),
		registry:   ecs.NewRegistry(),
		worlds:     ecs.NewStore[World](),
		models:     ecs.NewStore[Model](),
		links:      ecs.NewStore[Link](),
		collisions: ecs.NewStore[Collision](),
		joints:     ecs.NewStore[Joint](),
		parents:    make(map[ecs.Identity]ecs.Identity, 256),
	}
	s.registry.Register(s.worlds)
	s.registry.Register(s.models)
	s.registry.Register(s.links)
	s.registry.Register(s.collisions)
	s.registry.Register(s.joints)
	return s
}

func (s *Store) InsertWorld(w *World) (ecs.Identity, error) {
	if w == nil {
		return ecs.Invalid, ErrNilRecord
	}
	id := s.pool.Create()
	s.worlds.Insert(id, w)
	return id, nil
}

func (s *Store) InsertModel(m *Model) (ecs.Identity, error) {
	if m == nil {
		return ecs.Invalid, ErrNilRecord
	}
	if !s.worlds.Has(m.World) {
		return ecs.Invalid, fmt.Errorf("model %q: world %s: %w", m.Name, m.World, ErrOwnerNotFound)
	}
	return insertInto(s, s.models, m, m.World), nil
}

func (s *Store) InsertLink(l *Link) (ecs.Identity, error) {
	if l == nil {
		return ecs.Invalid, ErrNilRecord
	}
	if !s.models.Has(l.Model) {
		return ecs.Invalid, fmt.Errorf("link %q: model %s: %w", l.Name, l.Model, ErrOwnerNotFound)
	}
	return insertInto(s, s.links, l, l.Model), nil
}

func (s *Store) InsertCollision(c *Collision) (ecs.Identity, error) {
	if c == nil {
		return ecs.Invalid, ErrNilRecord
	}
	if !s.models.Has(c.Model) {
		return ecs.Invalid, fmt.Errorf("collision %q: model %s: %w", c.Name, c.Model, ErrOwnerNotFound)
	}
	if c.Link.Valid() {
		link, ok := s.links.Get(c.Link)
		if !ok {
			return ecs.Invalid, fmt.Errorf("collision %q: link %s: %w", c.Name, c.Link, ErrOwnerNotFound)
		}
		if link.Model != c.Model {
			return ecs.Invalid, fmt.Errorf("collision %q: link %s: %w", c.Name, c.Link, ErrLinkModelMismatch)
		}
	}
	return insertInto(s, s.collisions, c, c.Model), nil
}

func (s *Store) InsertJoint(j *Joint) (ecs.Identity, error) {
	if j == nil {
		return ecs.Invalid, ErrNilRecord
	}
	if !s.links.Has(j.Child) {
		return ecs.Invalid, fmt.Errorf("joint %q: child link %s: %w", j.Name, j.Child, ErrOwnerNotFound)
	}
	if j.Parent.Valid() {
		if !s.links.Has(j.Parent) {
			return ecs.Invalid, fmt.Errorf("joint %q: parent link %s: %w", j.Name, j.Parent, ErrOwnerNotFound)
		}
		if s.WorldOf(j.Parent) != s.WorldOf(j.Child) {
			return ecs.Invalid, fmt.Errorf("joint %q: %w", j.Name, ErrCrossWorldJoint)
		}
	}
	return insertInto(s, s.joints, j, j.Child), nil
}

func insertInto[T any](s *Store, store *ecs.Store[T], rec *T, parent ecs.Identity) ecs.Identity {
	id := s.pool.Create()
	store.Insert(id, rec)
	s.parents[id] = parent
	return id
}

// Erase removes id from whichever mapping holds it together with its parent
// entry. Erasing an absent identity is a no-op.
func (s *Store) Erase(id ecs.Identity) {
	if !s.registry.RemoveAll(id) {
		return
	}
	delete(s.parents, id)
	s.pool.Release(id)
}

func (s *Store) World(id ecs.Identity) (*World, bool)         { return s.worlds.Get(id) }
func (s *Store) Model(id ecs.Identity) (*Model, bool)         { return s.models.Get(id) }
func (s *Store) Link(id ecs.Identity) (*Link, bool)           { return s.links.Get(id) }
func (s *Store) Collision(id ecs.Identity) (*Collision, bool) { return s.collisions.Get(id) }
func (s *Store) Joint(id ecs.Identity) (*Joint, bool)         { return s.joints.Get(id) }

func (s *Store) Worlds() *ecs.Store[World]         { return s.worlds }
func (s *Store) Models() *ecs.Store[Model]         { return s.models }
func (s *Store) Links() *ecs.Store[Link]           { return s.links }
func (s *Store) Collisions() *ecs.Store[Collision] { return s.collisions }
func (s *Store) Joints() *ecs.Store[Joint]         { return s.joints }

// Parent returns the immediate owner of a model, link, collision or joint,
// or ecs.Invalid.
func (s *Store) Parent(id ecs.Identity) ecs.Identity {
	return s.parents[id]
}

// Kind reports which mapping holds id.
func (s *Store) Kind(id ecs.Identity) Kind {
	switch {
	case s.worlds.Has(id):
		return KindWorld
	case s.models.Has(id):
		return KindModel
	case s.links.Has(id):
		return KindLink
	case s.collisions.Has(id):
		return KindCollision
	case s.joints.Has(id):
		return KindJoint
	}
	return KindNone
}

// WorldOf walks the parent chain of id up to its world.
func (s *Store) WorldOf(id ecs.Identity) ecs.Identity {
	for id.Valid() {
		if s.worlds.Has(id) {
			return id
		}
		id = s.parents[id]
	}
	return ecs.Invalid
}

// ModelOf returns the model owning a link, collision or joint, or the model
// itself.
func (s *Store) ModelOf(id ecs.Identity) ecs.Identity {
	for id.Valid() {
		if s.models.Has(id) {
			return id
		}
		if s.worlds.Has(id) {
			return ecs.Invalid
		}
		id = s.parents[id]
	}
	return ecs.Invalid
}

// Len returns the number of live records of every kind.
func (s *Store) Len() int {
	return s.worlds.Len() + s.models.Len() + s.links.Len() + s.collisions.Len() + s.joints.Len()
}
