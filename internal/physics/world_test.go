package physics

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/simcore/server/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dynamicBox(t *testing.T, w *World, x, y float64, mesh bool) (*cp.Body, *cp.Shape) {
	t.Helper()
	body := cp.NewBody(1, cp.MomentForBox(1, 1, 1))
	body.SetPosition(cp.Vector{X: x, Y: y})
	require.True(t, w.AddRigidBody(body))
	shape := w.Collision.Box(body, 1, 1, mesh)
	return body, shape
}

func TestNewWorldBuildsConfigurationObjects(t *testing.T) {
	s := DefaultSettings()
	s.Iterations = 25
	w := NewWorld(s)

	require.NotNil(t, w.Collision)
	require.NotNil(t, w.Dispatcher)
	require.NotNil(t, w.Broadphase)
	require.NotNil(t, w.Solver)
	assert.Equal(t, uint(25), w.Space().Iterations)
	assert.Equal(t, 0.0, w.Solver.CFM())
	assert.Equal(t, BroadphaseTree, w.Broadphase.Kind)
}

func TestNewWorldSpatialHash(t *testing.T) {
	s := DefaultSettings()
	s.Broadphase = BroadphaseSpatialHash
	w := NewWorld(s)
	assert.Equal(t, BroadphaseSpatialHash, w.Broadphase.Kind)

	body, shape := dynamicBox(t, w, 0, 0, false)
	assert.True(t, w.AddShape(shape))
	w.Step(time.Second / 60)
	assert.True(t, w.HasBody(body))
}

func TestRemoveRigidBodyDetachesShapes(t *testing.T) {
	w := NewWorld(DefaultSettings())
	body, shape := dynamicBox(t, w, 0, 0, false)
	require.True(t, w.AddShape(shape))
	require.Equal(t, 1, w.BodyCount())
	require.Equal(t, 1, w.ShapeCount())

	assert.True(t, w.RemoveRigidBody(body))
	assert.False(t, w.HasBody(body))
	assert.False(t, w.HasShape(shape))
	assert.Equal(t, 0, w.BodyCount())
	assert.Equal(t, 0, w.ShapeCount())

	// second removal reports failure and changes nothing
	assert.False(t, w.RemoveRigidBody(body))
	assert.Equal(t, 0, w.BodyCount())
}

func TestRemoveRigidBodyNeverAttached(t *testing.T) {
	w := NewWorld(DefaultSettings())
	body := cp.NewBody(1, cp.MomentForBox(1, 1, 1))
	assert.False(t, w.RemoveRigidBody(body))
	assert.False(t, w.RemoveRigidBody(nil))
}

func TestAddShapeRequiresAttachedBody(t *testing.T) {
	w := NewWorld(DefaultSettings())
	body := cp.NewBody(1, cp.MomentForBox(1, 1, 1))
	shape := w.Collision.Box(body, 1, 1, false)
	assert.False(t, w.AddShape(shape))
	assert.Equal(t, 0, w.ShapeCount())
}

func TestConstraintLifecycle(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a, _ := dynamicBox(t, w, 0, 0, false)
	b, _ := dynamicBox(t, w, 2, 0, false)
	joint := cp.NewPivotJoint(a, b, cp.Vector{X: 1, Y: 0})

	require.True(t, w.AddConstraint(joint))
	assert.False(t, w.AddConstraint(joint))
	assert.True(t, w.HasConstraint(joint))
	assert.True(t, math.IsInf(joint.MaxForce(), 1))

	assert.True(t, w.RemoveConstraint(joint))
	assert.False(t, w.RemoveConstraint(joint))
	assert.Equal(t, 0, w.ConstraintCount())
}

func TestSolverCFMSoftensLaterConstraints(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.Solver.SetCFM(0.01)
	a, _ := dynamicBox(t, w, 0, 0, false)
	b, _ := dynamicBox(t, w, 2, 0, false)
	joint := cp.NewPinJoint(a, b, cp.Vector{}, cp.Vector{})

	require.True(t, w.AddConstraint(joint))
	assert.InDelta(t, 100.0, joint.MaxForce(), 1e-9)

	w.Solver.SetCFM(-1)
	assert.Equal(t, 0.0, w.Solver.CFM())
}

func TestMeshContactsReportIdentities(t *testing.T) {
	s := DefaultSettings()
	s.Gravity = cp.Vector{}
	w := NewWorld(s)

	var pairs [][2]ecs.Identity
	w.SetContactListener(func(a, b ecs.Identity) {
		pairs = append(pairs, [2]ecs.Identity{a, b})
	})

	_, sa := dynamicBox(t, w, 0, 0, true)
	_, sb := dynamicBox(t, w, 0.5, 0, true)
	sa.UserData = ecs.NewIdentity(1, 0)
	sb.UserData = ecs.NewIdentity(2, 0)
	require.True(t, w.AddShape(sa))
	require.True(t, w.AddShape(sb))

	w.Step(time.Second / 60)

	require.NotEmpty(t, pairs)
	assert.ElementsMatch(t, []ecs.Identity{ecs.NewIdentity(1, 0), ecs.NewIdentity(2, 0)}, pairs[0][:])
	assert.Equal(t, uint64(len(pairs)), w.Dispatcher.Contacts())
}

func TestTagIgnoresForeignUserData(t *testing.T) {
	assert.Equal(t, ecs.Invalid, Tag("chassis"))
	assert.Equal(t, ecs.Invalid, Tag(nil))
	assert.Equal(t, ecs.NewIdentity(4, 2), Tag(ecs.NewIdentity(4, 2)))
}

func TestConstraintTagsFollowAttachment(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a, _ := dynamicBox(t, w, 0, 0, false)
	b, _ := dynamicBox(t, w, 1, 0, false)
	c := cp.NewPivotJoint(a, b, cp.Vector{X: 0.5})
	id := ecs.NewIdentity(3, 1)

	assert.False(t, w.TagConstraint(c, id), "detached constraints are not tagged")
	require.True(t, w.AddConstraint(c))
	require.True(t, w.TagConstraint(c, id))
	assert.Equal(t, id, w.ConstraintTag(c))

	require.True(t, w.RemoveConstraint(c))
	assert.Equal(t, ecs.Invalid, w.ConstraintTag(c))
}

func TestConnectsReadsBodiesOfAttachedConstraint(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a, _ := dynamicBox(t, w, 0, 0, false)
	b, _ := dynamicBox(t, w, 1, 0, false)
	other, _ := dynamicBox(t, w, 2, 0, false)
	c := cp.NewPivotJoint(a, b, cp.Vector{X: 0.5})

	assert.False(t, w.Connects(c, a, b), "not attached yet")
	require.True(t, w.AddConstraint(c))
	assert.True(t, w.Connects(c, a, b))
	assert.True(t, w.Connects(c, b, a))
	assert.False(t, w.Connects(c, a, other))
	assert.False(t, w.Connects(c, a, a))
	assert.False(t, w.Connects(c, w.Ground(), b))

	grounded := cp.NewPivotJoint(w.Ground(), other, cp.Vector{X: 2})
	require.True(t, w.AddConstraint(grounded))
	assert.True(t, w.Connects(grounded, w.Ground(), other))
}
