package physics

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/simcore/server/internal/core/ecs"
)

// World bundles the native space with the configuration objects it was built
// from. The configuration objects are shared: anything holding the World keeps
// them alive for as long as the space.
type World struct {
	space *cp.Space

	Collision  *CollisionConfiguration
	Dispatcher *Dispatcher
	Broadphase *Broadphase
	Solver     *ConstraintSolver

	bodies      int
	shapes      int
	constraints int

	// cp.Constraint has no exported user data slot.
	tags map[*cp.Constraint]ecs.Identity
}

// NewWorld builds collision configuration, dispatcher, broadphase and solver,
// then assembles the native space from them. The solver's CFM is set to zero
// regardless of defaults so constraints are never softened.
func NewWorld(s Settings) *World {
	collision := &CollisionConfiguration{Friction: s.Friction, Elasticity: s.Elasticity}
	dispatcher := &Dispatcher{}
	broadphase := &Broadphase{Kind: s.Broadphase, CellSize: s.CellSize, CellCount: s.CellCount}
	solver := &ConstraintSolver{Iterations: s.Iterations}

	space := cp.NewSpace()
	space.SetGravity(s.Gravity)
	dispatcher.register(space)
	broadphase.apply(space)
	solver.apply(space)
	solver.SetCFM(0)

	return &World{
		space:      space,
		Collision:  collision,
		Dispatcher: dispatcher,
		Broadphase: broadphase,
		Solver:     solver,
		tags:       make(map[*cp.Constraint]ecs.Identity),
	}
}

// Space exposes the native space for construction code.
func (w *World) Space() *cp.Space { return w.space }

// Ground returns the space's static body, used to anchor joints to the world.
func (w *World) Ground() *cp.Body { return w.space.StaticBody }

func (w *World) SetContactListener(fn ContactListener) {
	w.Dispatcher.listener = fn
}

// AddRigidBody attaches body. False if it is nil or already attached.
func (w *World) AddRigidBody(body *cp.Body) bool {
	if body == nil || w.space.ContainsBody(body) {
		return false
	}
	w.space.AddBody(body)
	w.bodies++
	return true
}

// AddShape attaches shape. Its body must already be attached.
func (w *World) AddShape(shape *cp.Shape) bool {
	if shape == nil || w.space.ContainsShape(shape) {
		return false
	}
	if body := shape.Body(); body == nil || !w.space.ContainsBody(body) {
		return false
	}
	w.space.AddShape(shape)
	w.shapes++
	return true
}

// RemoveRigidBody detaches body together with the shapes attached through it.
// False, with nothing changed, if the body was never attached.
func (w *World) RemoveRigidBody(body *cp.Body) bool {
	if body == nil || !w.space.ContainsBody(body) {
		return false
	}
	var shapes []*cp.Shape
	body.EachShape(func(s *cp.Shape) {
		shapes = append(shapes, s)
	})
	for _, s := range shapes {
		if w.space.ContainsShape(s) {
			w.space.RemoveShape(s)
			w.shapes--
		}
	}
	w.space.RemoveBody(body)
	w.bodies--
	return true
}

// AddConstraint attaches c after applying the solver's mixing term.
func (w *World) AddConstraint(c *cp.Constraint) bool {
	if c == nil || w.space.ContainsConstraint(c) {
		return false
	}
	w.Solver.prepare(c)
	w.space.AddConstraint(c)
	w.constraints++
	return true
}

// RemoveConstraint detaches c. False if it was never attached.
func (w *World) RemoveConstraint(c *cp.Constraint) bool {
	if c == nil || !w.space.ContainsConstraint(c) {
		return false
	}
	w.space.RemoveConstraint(c)
	w.constraints--
	delete(w.tags, c)
	return true
}

// TagConstraint records the identity owning an attached constraint. False if
// c is not attached.
func (w *World) TagConstraint(c *cp.Constraint, id ecs.Identity) bool {
	if !w.HasConstraint(c) {
		return false
	}
	w.tags[c] = id
	return true
}

// ConstraintTag returns the identity recorded for c, or ecs.Invalid.
func (w *World) ConstraintTag(c *cp.Constraint) ecs.Identity {
	return w.tags[c]
}

// Connects reports whether the attached constraint c joins bodies a and b.
// The bodies are read back from their constraint lists, which the space
// fills on attach.
func (w *World) Connects(c *cp.Constraint, a, b *cp.Body) bool {
	if !w.HasConstraint(c) || a == nil || b == nil || a == b {
		return false
	}
	return carries(a, c) && carries(b, c)
}

func carries(body *cp.Body, c *cp.Constraint) bool {
	found := false
	body.EachConstraint(func(x *cp.Constraint) {
		if x == c {
			found = true
		}
	})
	return found
}

func (w *World) HasBody(body *cp.Body) bool {
	return body != nil && w.space.ContainsBody(body)
}

func (w *World) HasShape(shape *cp.Shape) bool {
	return shape != nil && w.space.ContainsShape(shape)
}

func (w *World) HasConstraint(c *cp.Constraint) bool {
	return c != nil && w.space.ContainsConstraint(c)
}

func (w *World) BodyCount() int       { return w.bodies }
func (w *World) ShapeCount() int      { return w.shapes }
func (w *World) ConstraintCount() int { return w.constraints }

// Step advances the native simulation by dt.
func (w *World) Step(dt time.Duration) {
	w.space.Step(dt.Seconds())
}
