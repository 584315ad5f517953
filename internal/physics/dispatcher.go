package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/simcore/server/internal/core/ecs"
)

// ContactListener receives the identities tagged on two touching shapes.
type ContactListener func(a, b ecs.Identity)

// Dispatcher owns the collision handlers registered on the native space.
type Dispatcher struct {
	mesh     *cp.CollisionHandler
	listener ContactListener
	contacts uint64
}

// register installs the mesh-vs-mesh handler on space.
func (d *Dispatcher) register(space *cp.Space) {
	d.mesh = space.NewCollisionHandler(CollisionTypeMesh, CollisionTypeMesh)
	d.mesh.BeginFunc = d.meshBegin
}

func (d *Dispatcher) meshBegin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arb.Shapes()
	d.contacts++
	if d.listener != nil {
		d.listener(Tag(a.UserData), Tag(b.UserData))
	}
	return true
}

// Contacts returns how many mesh-vs-mesh contacts began so far.
func (d *Dispatcher) Contacts() uint64 { return d.contacts }

// Tag extracts the entity identity stored in a native UserData slot.
func Tag(userData interface{}) ecs.Identity {
	if id, ok := userData.(ecs.Identity); ok {
		return id
	}
	return ecs.Invalid
}
