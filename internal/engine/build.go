package engine

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/simcore/server/internal/core/ecs"
	"github.com/simcore/server/internal/data"
	"github.com/simcore/server/internal/physics"
)

// Build constructs every world of sc and registers its models, links,
// collisions and joints. Joints are built after all links of a world so a
// joint may reference a link of a later model.
func (e *Engine) Build(sc *data.Scene) ([]ecs.Identity, error) {
	worlds := make([]ecs.Identity, 0, len(sc.Worlds))
	for _, we := range sc.Worlds {
		world := e.ConstructEmptyWorld(we.Name)
		if !world.Valid() {
			return worlds, fmt.Errorf("construct world %q", we.Name)
		}
		worlds = append(worlds, world)
		native := e.NativeWorld(world)

		models := make([]ecs.Identity, len(we.Models))
		for i, me := range we.Models {
			model, err := e.AddModel(world, me.Name)
			if err != nil {
				return worlds, fmt.Errorf("world %q: %w", we.Name, err)
			}
			models[i] = model
			for _, le := range me.Links {
				if err := e.buildLink(native, model, le); err != nil {
					return worlds, fmt.Errorf("world %q: model %q: %w", we.Name, me.Name, err)
				}
			}
		}
		for i, me := range we.Models {
			for _, je := range me.Joints {
				if err := e.buildJoint(native, world, models[i], je); err != nil {
					return worlds, fmt.Errorf("world %q: model %q: %w", we.Name, me.Name, err)
				}
			}
		}
	}
	return worlds, nil
}

func (e *Engine) buildLink(native *physics.World, model ecs.Identity, le data.LinkEntry) error {
	var body *cp.Body
	if le.Mass == 0 {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(le.Mass, moment(le))
	}
	x, y := data.Vec(le.Position)
	body.SetPosition(cp.Vector{X: x, Y: y})

	link, err := e.AddLink(model, le.Name, body)
	if err != nil {
		return err
	}
	for _, ce := range le.Collisions {
		var shape *cp.Shape
		switch ce.Geometry {
		case data.GeometryCircle:
			shape = native.Collision.Circle(body, ce.Radius, ce.Mesh)
		default:
			w, h := data.Vec(ce.Size)
			shape = native.Collision.Box(body, w, h, ce.Mesh)
		}
		if _, err := e.AddCollision(link, ce.Name, shape); err != nil {
			return fmt.Errorf("link %q: %w", le.Name, err)
		}
	}
	return nil
}

// moment derives the moment of inertia from the first collision geometry,
// falling back to a unit box.
func moment(le data.LinkEntry) float64 {
	if len(le.Collisions) > 0 {
		c := le.Collisions[0]
		if c.Geometry == data.GeometryCircle {
			return cp.MomentForCircle(le.Mass, 0, c.Radius, cp.Vector{})
		}
		w, h := data.Vec(c.Size)
		return cp.MomentForBox(le.Mass, w, h)
	}
	return cp.MomentForBox(le.Mass, 1, 1)
}

// buildJoint resolves the child and an unscoped parent within model. A scoped
// parent names the first model of world with that name.
func (e *Engine) buildJoint(native *physics.World, world, model ecs.Identity, je data.JointEntry) error {
	child := e.LinkByName(model, je.Child)
	childLink, ok := e.store.Link(child)
	if !ok {
		return fmt.Errorf("joint %q: child link %q not built", je.Name, je.Child)
	}

	parent := ecs.Invalid
	parentBody := native.Ground()
	if je.Parent != "" {
		owner, name := data.SplitScoped(je.Parent)
		parentModel := model
		if owner != "" {
			parentModel = e.ModelByName(world, owner)
		}
		parent = e.LinkByName(parentModel, name)
		parentLink, ok := e.store.Link(parent)
		if !ok {
			return fmt.Errorf("joint %q: parent link %q not built", je.Name, je.Parent)
		}
		parentBody = parentLink.Body
	}

	var c *cp.Constraint
	switch je.Type {
	case data.JointPin:
		c = cp.NewPinJoint(parentBody, childLink.Body, cp.Vector{}, cp.Vector{})
	default:
		x, y := data.Vec(je.Anchor)
		c = cp.NewPivotJoint(parentBody, childLink.Body, cp.Vector{X: x, Y: y})
	}
	_, err := e.AddJoint(parent, child, je.Name, c)
	return err
}
