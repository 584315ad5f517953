package entity

import (
	"github.com/jakecoffman/cp"
	"github.com/simcore/server/internal/core/ecs"
	"github.com/simcore/server/internal/physics"
)

// Kind names the entity kinds held by the Store.
type Kind int

const (
	KindNone Kind = iota
	KindWorld
	KindModel
	KindLink
	KindCollision
	KindJoint
)

func (k Kind) String() string {
	switch k {
	case KindWorld:
		return "world"
	case KindModel:
		return "model"
	case KindLink:
		return "link"
	case KindCollision:
		return "collision"
	case KindJoint:
		return "joint"
	}
	return "none"
}

// World is the top-level record. It owns the native world and, through it,
// the native configuration objects.
type World struct {
	Name   string
	Native *physics.World
}

type Model struct {
	Name  string
	World ecs.Identity
}

// Link is a rigid body owned by a model.
type Link struct {
	Name  string
	Model ecs.Identity
	Body  *cp.Body
}

// Collision is a piece of geometry owned by a model and carried by one of its
// links. Its native shape leaves the world together with the link's body.
type Collision struct {
	Name  string
	Model ecs.Identity
	Link  ecs.Identity
	Shape *cp.Shape
}

// Joint connects Parent to Child. Parent may be ecs.Invalid for a joint
// anchored to the world. A joint belongs to the model of its child link.
type Joint struct {
	Name       string
	Parent     ecs.Identity
	Child      ecs.Identity
	Constraint *cp.Constraint
}
