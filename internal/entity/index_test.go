package entity

import (
	"testing"

	"github.com/simcore/server/internal/core/ecs"
	"github.com/stretchr/testify/assert"
)

func TestIndexOfFollowsInsertionOrder(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		id   ecs.Identity
		want int
	}{
		{f.w, 0},
		{f.m1, 0},
		{f.m2, 1},
		{f.l1, 0},
		{f.l2, 1},
		{f.l3, 0},
		{f.c1, 0},
		{f.j1, 0},
	}
	for _, c := range cases {
		got, ok := f.s.IndexOf(c.id)
		assert.True(t, ok, "identity %s", c.id)
		assert.Equal(t, c.want, got, "identity %s", c.id)
	}

	_, ok := f.s.IndexOf(ecs.NewIdentity(404, 0))
	assert.False(t, ok)
}

func TestIdentityAtInvertsIndexOf(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, f.w, f.s.IdentityAt(ecs.Invalid, KindWorld, 0))
	assert.Equal(t, f.m2, f.s.IdentityAt(f.w, KindModel, 1))
	assert.Equal(t, f.l2, f.s.IdentityAt(f.m1, KindLink, 1))
	assert.Equal(t, f.c1, f.s.IdentityAt(f.m1, KindCollision, 0))
	assert.Equal(t, f.j1, f.s.IdentityAt(f.m1, KindJoint, 0))

	assert.Equal(t, ecs.Invalid, f.s.IdentityAt(f.w, KindModel, 2))
	assert.Equal(t, ecs.Invalid, f.s.IdentityAt(f.w, KindModel, -1))
	assert.Equal(t, ecs.Invalid, f.s.IdentityAt(f.m2, KindJoint, 0))
	assert.Equal(t, ecs.Invalid, f.s.IdentityAt(ecs.NewIdentity(404, 0), KindLink, 0))
}

func TestIndicesTrackErase(t *testing.T) {
	f := newFixture(t)
	f.s.Erase(f.j1)
	f.s.Erase(f.c1)
	f.s.Erase(f.l1)

	got, ok := f.s.IndexOf(f.l2)
	assert.True(t, ok)
	assert.Equal(t, 0, got)
	assert.Len(t, f.s.Children(f.m1, KindLink), 1)
	assert.Empty(t, f.s.Children(f.m1, KindJoint))
}
