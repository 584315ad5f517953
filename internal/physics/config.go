package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Collision types understood by the dispatcher.
const (
	CollisionTypeDefault cp.CollisionType = iota
	CollisionTypeMesh
)

// Broadphase kinds.
const (
	BroadphaseTree        = "bbtree"
	BroadphaseSpatialHash = "spatial_hash"
)

// Settings carries everything NewWorld needs to build a native world.
type Settings struct {
	Gravity    cp.Vector
	Friction   float64
	Elasticity float64

	Broadphase string
	CellSize   float64
	CellCount  int

	Iterations uint
}

// DefaultSettings returns settings for an earth-gravity world with the
// bounding box tree broadphase.
func DefaultSettings() Settings {
	return Settings{
		Gravity:    cp.Vector{X: 0, Y: -9.81},
		Friction:   0.7,
		Elasticity: 0.1,
		Broadphase: BroadphaseTree,
		CellSize:   2.0,
		CellCount:  1000,
		Iterations: 10,
	}
}

// CollisionConfiguration holds the contact defaults applied to every shape
// built through it.
type CollisionConfiguration struct {
	Friction   float64
	Elasticity float64
}

// Box builds a box shape on body. mesh marks it for the mesh-vs-mesh handler.
func (c *CollisionConfiguration) Box(body *cp.Body, width, height float64, mesh bool) *cp.Shape {
	return c.prepare(cp.NewBox(body, width, height, 0), mesh)
}

// Circle builds a circle shape centred on body.
func (c *CollisionConfiguration) Circle(body *cp.Body, radius float64, mesh bool) *cp.Shape {
	return c.prepare(cp.NewCircle(body, radius, cp.Vector{}), mesh)
}

func (c *CollisionConfiguration) prepare(shape *cp.Shape, mesh bool) *cp.Shape {
	shape.SetFriction(c.Friction)
	shape.SetElasticity(c.Elasticity)
	if mesh {
		shape.SetCollisionType(CollisionTypeMesh)
	} else {
		shape.SetCollisionType(CollisionTypeDefault)
	}
	return shape
}

// Broadphase selects the spatial index of the native space.
type Broadphase struct {
	Kind      string
	CellSize  float64
	CellCount int
}

func (b *Broadphase) apply(space *cp.Space) {
	if b.Kind == BroadphaseSpatialHash {
		space.UseSpatialHash(b.CellSize, b.CellCount)
	}
}

// ConstraintSolver configures the sequential impulse solver. CFM is the
// constraint force mixing term: 0 keeps constraints rigid, a positive value
// caps the force a constraint may apply at 1/CFM.
type ConstraintSolver struct {
	Iterations uint
	cfm        float64
}

func (s *ConstraintSolver) CFM() float64 { return s.cfm }

// SetCFM changes the mixing term for constraints added afterwards.
func (s *ConstraintSolver) SetCFM(cfm float64) {
	if cfm < 0 {
		cfm = 0
	}
	s.cfm = cfm
}

func (s *ConstraintSolver) apply(space *cp.Space) {
	if s.Iterations == 0 {
		s.Iterations = 1
	}
	space.Iterations = s.Iterations
}

func (s *ConstraintSolver) prepare(c *cp.Constraint) {
	if s.cfm == 0 {
		c.SetMaxForce(math.Inf(1))
		return
	}
	c.SetMaxForce(1 / s.cfm)
}
