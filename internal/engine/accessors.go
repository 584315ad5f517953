package engine

import (
	"github.com/simcore/server/internal/core/ecs"
	"github.com/simcore/server/internal/entity"
	"github.com/simcore/server/internal/physics"
)

// Read-only queries. Lookups that miss return ecs.Invalid, "" or -1.

func (e *Engine) Name() string { return e.name }

func (e *Engine) WorldCount() int { return e.store.Worlds().Len() }

func (e *Engine) WorldAt(index int) ecs.Identity {
	return e.store.IdentityAt(ecs.Invalid, entity.KindWorld, index)
}

func (e *Engine) WorldByName(name string) ecs.Identity {
	name = canonical(name)
	return ecs.First(e.store.Worlds(), func(_ ecs.Identity, w *entity.World) bool {
		return w.Name == name
	})
}

func (e *Engine) WorldName(world ecs.Identity) string {
	if w, ok := e.store.World(world); ok {
		return w.Name
	}
	return ""
}

// NativeWorld returns the native world of world, or nil.
func (e *Engine) NativeWorld(world ecs.Identity) *physics.World {
	if w, ok := e.store.World(world); ok {
		return w.Native
	}
	return nil
}

func (e *Engine) ModelCount(world ecs.Identity) int {
	return len(e.store.Children(world, entity.KindModel))
}

func (e *Engine) ModelAt(world ecs.Identity, index int) ecs.Identity {
	return e.store.IdentityAt(world, entity.KindModel, index)
}

// ModelByName returns the first model of world named name, or ecs.Invalid.
func (e *Engine) ModelByName(world ecs.Identity, name string) ecs.Identity {
	name = canonical(name)
	return ecs.First(e.store.Models(), func(_ ecs.Identity, m *entity.Model) bool {
		return m.World == world && m.Name == name
	})
}

func (e *Engine) ModelName(model ecs.Identity) string {
	if m, ok := e.store.Model(model); ok {
		return m.Name
	}
	return ""
}

func (e *Engine) ModelWorld(model ecs.Identity) ecs.Identity {
	if m, ok := e.store.Model(model); ok {
		return m.World
	}
	return ecs.Invalid
}

// IndexOf returns the index of any entity within its owner, or -1.
func (e *Engine) IndexOf(id ecs.Identity) int {
	if i, ok := e.store.IndexOf(id); ok {
		return i
	}
	return -1
}

func (e *Engine) LinkCount(model ecs.Identity) int {
	return len(e.store.Children(model, entity.KindLink))
}

func (e *Engine) LinkAt(model ecs.Identity, index int) ecs.Identity {
	return e.store.IdentityAt(model, entity.KindLink, index)
}

func (e *Engine) LinkByName(model ecs.Identity, name string) ecs.Identity {
	name = canonical(name)
	return ecs.First(e.store.Links(), func(_ ecs.Identity, l *entity.Link) bool {
		return l.Model == model && l.Name == name
	})
}

func (e *Engine) LinkName(link ecs.Identity) string {
	if l, ok := e.store.Link(link); ok {
		return l.Name
	}
	return ""
}

func (e *Engine) LinkModel(link ecs.Identity) ecs.Identity {
	if l, ok := e.store.Link(link); ok {
		return l.Model
	}
	return ecs.Invalid
}

func (e *Engine) CollisionCount(model ecs.Identity) int {
	return len(e.store.Children(model, entity.KindCollision))
}

func (e *Engine) CollisionAt(model ecs.Identity, index int) ecs.Identity {
	return e.store.IdentityAt(model, entity.KindCollision, index)
}

// CollisionByName returns the first collision of model named name, or
// ecs.Invalid.
func (e *Engine) CollisionByName(model ecs.Identity, name string) ecs.Identity {
	name = canonical(name)
	return ecs.First(e.store.Collisions(), func(_ ecs.Identity, c *entity.Collision) bool {
		return c.Model == model && c.Name == name
	})
}

func (e *Engine) CollisionName(collision ecs.Identity) string {
	if c, ok := e.store.Collision(collision); ok {
		return c.Name
	}
	return ""
}

func (e *Engine) CollisionLink(collision ecs.Identity) ecs.Identity {
	if c, ok := e.store.Collision(collision); ok {
		return c.Link
	}
	return ecs.Invalid
}

func (e *Engine) CollisionModel(collision ecs.Identity) ecs.Identity {
	if c, ok := e.store.Collision(collision); ok {
		return c.Model
	}
	return ecs.Invalid
}

func (e *Engine) JointCount(model ecs.Identity) int {
	return len(e.store.Children(model, entity.KindJoint))
}

func (e *Engine) JointAt(model ecs.Identity, index int) ecs.Identity {
	return e.store.IdentityAt(model, entity.KindJoint, index)
}

func (e *Engine) JointByName(model ecs.Identity, name string) ecs.Identity {
	name = canonical(name)
	for _, id := range e.store.Children(model, entity.KindJoint) {
		if j, _ := e.store.Joint(id); j.Name == name {
			return id
		}
	}
	return ecs.Invalid
}

func (e *Engine) JointName(joint ecs.Identity) string {
	if j, ok := e.store.Joint(joint); ok {
		return j.Name
	}
	return ""
}

func (e *Engine) JointParentLink(joint ecs.Identity) ecs.Identity {
	if j, ok := e.store.Joint(joint); ok {
		return j.Parent
	}
	return ecs.Invalid
}

func (e *Engine) JointChildLink(joint ecs.Identity) ecs.Identity {
	if j, ok := e.store.Joint(joint); ok {
		return j.Child
	}
	return ecs.Invalid
}

// JointModel returns the model a joint belongs to: the model of its child
// link.
func (e *Engine) JointModel(joint ecs.Identity) ecs.Identity {
	if _, ok := e.store.Joint(joint); !ok {
		return ecs.Invalid
	}
	return e.store.ModelOf(joint)
}
