package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/simcore/server/internal/core/ecs"
	"github.com/simcore/server/internal/core/event"
	"github.com/simcore/server/internal/entity"
	"github.com/simcore/server/internal/physics"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrNilHandle      = errors.New("nil native handle")
	ErrAlreadyInWorld = errors.New("native handle already attached")
	ErrJointBodies    = errors.New("constraint does not connect the joint's links")
)

// Engine is the capability surface handed to the plugin host: world
// construction, entity registration, cascading removal and read-only queries.
// It is not safe for concurrent use; the host calls it between steps.
type Engine struct {
	name     string
	settings physics.Settings
	store    *entity.Store
	bus      *event.Bus
	log      *zap.Logger
}

func New(name string, settings physics.Settings, bus *event.Bus, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		name:     name,
		settings: settings,
		store:    entity.NewStore(),
		bus:      bus,
		log:      log,
	}
}

// Store exposes the entity store for read-only inspection.
func (e *Engine) Store() *entity.Store { return e.store }

func canonical(name string) string {
	return norm.NFC.String(name)
}

// ConstructEmptyWorld builds a native world from the engine settings and
// registers it.
func (e *Engine) ConstructEmptyWorld(name string) ecs.Identity {
	native := physics.NewWorld(e.settings)
	id, err := e.store.InsertWorld(&entity.World{Name: canonical(name), Native: native})
	if err != nil {
		e.log.Error("construct world", zap.String("world", name), zap.Error(err))
		return ecs.Invalid
	}
	native.SetContactListener(func(a, b ecs.Identity) {
		if e.bus != nil {
			event.Emit(e.bus, event.ContactBegan{World: id, A: a, B: b})
		}
	})
	e.log.Info("world constructed", zap.String("world", name), zap.Stringer("id", id))
	return id
}

// AddModel registers an empty model in world.
func (e *Engine) AddModel(world ecs.Identity, name string) (ecs.Identity, error) {
	return e.store.InsertModel(&entity.Model{Name: canonical(name), World: world})
}

// AddLink registers body as a link of model and attaches it to the model's
// native world.
func (e *Engine) AddLink(model ecs.Identity, name string, body *cp.Body) (ecs.Identity, error) {
	if body == nil {
		return ecs.Invalid, fmt.Errorf("link %q: %w", name, ErrNilHandle)
	}
	native, err := e.nativeFor(model)
	if err != nil {
		return ecs.Invalid, fmt.Errorf("link %q: %w", name, err)
	}
	if e.attached(func(w *physics.World) bool { return w.HasBody(body) }) {
		return ecs.Invalid, fmt.Errorf("link %q: %w", name, ErrAlreadyInWorld)
	}
	id, err := e.store.InsertLink(&entity.Link{Name: canonical(name), Model: model, Body: body})
	if err != nil {
		return ecs.Invalid, err
	}
	body.UserData = id
	native.AddRigidBody(body)
	return id, nil
}

// AddCollision registers shape as a collision carried by link. The shape's
// body must be the link's body.
func (e *Engine) AddCollision(link ecs.Identity, name string, shape *cp.Shape) (ecs.Identity, error) {
	if shape == nil {
		return ecs.Invalid, fmt.Errorf("collision %q: %w", name, ErrNilHandle)
	}
	l, ok := e.store.Link(link)
	if !ok {
		return ecs.Invalid, fmt.Errorf("collision %q: link %s: %w", name, link, entity.ErrOwnerNotFound)
	}
	native, err := e.nativeFor(l.Model)
	if err != nil {
		return ecs.Invalid, fmt.Errorf("collision %q: %w", name, err)
	}
	if e.attached(func(w *physics.World) bool { return w.HasShape(shape) }) {
		return ecs.Invalid, fmt.Errorf("collision %q: %w", name, ErrAlreadyInWorld)
	}
	if shape.Body() != l.Body {
		return ecs.Invalid, fmt.Errorf("collision %q: shape is not carried by link %q", name, l.Name)
	}
	id, err := e.store.InsertCollision(&entity.Collision{Name: canonical(name), Model: l.Model, Link: link, Shape: shape})
	if err != nil {
		return ecs.Invalid, err
	}
	shape.UserData = id
	native.AddShape(shape)
	return id, nil
}

// AddJoint registers a constraint between parent and child links. parent may
// be ecs.Invalid when the constraint is anchored to the world, in which case
// c must join the world's ground body to the child's body.
func (e *Engine) AddJoint(parent, child ecs.Identity, name string, c *cp.Constraint) (ecs.Identity, error) {
	if c == nil {
		return ecs.Invalid, fmt.Errorf("joint %q: %w", name, ErrNilHandle)
	}
	childLink, ok := e.store.Link(child)
	if !ok {
		return ecs.Invalid, fmt.Errorf("joint %q: child %s: %w", name, child, entity.ErrOwnerNotFound)
	}
	native, err := e.nativeFor(child)
	if err != nil {
		return ecs.Invalid, fmt.Errorf("joint %q: %w", name, err)
	}
	parentBody := native.Ground()
	if parent.Valid() {
		parentLink, ok := e.store.Link(parent)
		if !ok {
			return ecs.Invalid, fmt.Errorf("joint %q: parent %s: %w", name, parent, entity.ErrOwnerNotFound)
		}
		parentBody = parentLink.Body
	}
	if e.attached(func(w *physics.World) bool { return w.HasConstraint(c) }) {
		return ecs.Invalid, fmt.Errorf("joint %q: %w", name, ErrAlreadyInWorld)
	}

	native.AddConstraint(c)
	if !native.Connects(c, parentBody, childLink.Body) {
		native.RemoveConstraint(c)
		return ecs.Invalid, fmt.Errorf("joint %q: %w", name, ErrJointBodies)
	}
	id, err := e.store.InsertJoint(&entity.Joint{Name: canonical(name), Parent: parent, Child: child, Constraint: c})
	if err != nil {
		native.RemoveConstraint(c)
		return ecs.Invalid, err
	}
	native.TagConstraint(c, id)
	return id, nil
}

// attached reports whether any registered world satisfies has.
func (e *Engine) attached(has func(*physics.World) bool) bool {
	found := false
	e.store.Worlds().Each(func(_ ecs.Identity, w *entity.World) {
		if has(w.Native) {
			found = true
		}
	})
	return found
}

// nativeFor resolves the native world of any registered entity.
func (e *Engine) nativeFor(id ecs.Identity) (*physics.World, error) {
	w, ok := e.store.World(e.store.WorldOf(id))
	if !ok {
		return nil, fmt.Errorf("owner %s: %w", id, entity.ErrOwnerNotFound)
	}
	return w.Native, nil
}

// Step advances every native world by dt.
func (e *Engine) Step(dt time.Duration) {
	e.store.Worlds().Each(func(_ ecs.Identity, w *entity.World) {
		w.Native.Step(dt)
	})
}
