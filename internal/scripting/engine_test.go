package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/simcore/server/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeHost struct {
	worlds    map[string]ecs.Identity
	models    map[string]ecs.Identity
	requested []ecs.Identity
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		worlds: map[string]ecs.Identity{"default": ecs.NewIdentity(1, 0)},
		models: map[string]ecs.Identity{
			"cart":   ecs.NewIdentity(2, 0),
			"ground": ecs.NewIdentity(3, 0),
		},
	}
}

func (h *fakeHost) WorldByName(name string) ecs.Identity { return h.worlds[name] }

func (h *fakeHost) ModelCount(world ecs.Identity) int {
	if world != h.worlds["default"] {
		return 0
	}
	return len(h.models)
}

func (h *fakeHost) ModelByName(world ecs.Identity, name string) ecs.Identity {
	if world != h.worlds["default"] {
		return ecs.Invalid
	}
	return h.models[name]
}

func (h *fakeHost) RequestRemoval(model ecs.Identity) bool {
	h.requested = append(h.requested, model)
	return true
}

func TestScriptsQueueRemovals(t *testing.T) {
	host := newFakeHost()
	e, err := NewEngine(filepath.Join(t.TempDir(), "missing"), host, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.LoadString(`
ok_cart = remove_model("default", "cart")
ok_ghost = remove_model("default", "ghost")
ok_world = remove_model("elsewhere", "cart")
count = model_count("default")
exists = model_exists("default", "ground")
`))

	assert.Equal(t, []ecs.Identity{host.models["cart"]}, host.requested)
	assert.Equal(t, "true", e.vm.GetGlobal("ok_cart").String())
	assert.Equal(t, "false", e.vm.GetGlobal("ok_ghost").String())
	assert.Equal(t, "false", e.vm.GetGlobal("ok_world").String())
	assert.Equal(t, "2", e.vm.GetGlobal("count").String())
	assert.Equal(t, "true", e.vm.GetGlobal("exists").String())
}

func TestOnTickFromScriptDir(t *testing.T) {
	dir := t.TempDir()
	script := `
function on_tick(n)
  if n == 3 then
    remove_model("default", "ground")
  end
end
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cleanup.lua"), []byte(script), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	host := newFakeHost()
	e, err := NewEngine(dir, host, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	for n := uint64(1); n <= 4; n++ {
		e.Tick(n)
	}
	assert.Equal(t, []ecs.Identity{host.models["ground"]}, host.requested)
}

func TestTickWithoutHookOrWithErrors(t *testing.T) {
	host := newFakeHost()
	e, err := NewEngine(t.TempDir(), host, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	e.Tick(1)
	require.NoError(t, e.LoadString(`function on_tick(n) error("boom") end`))
	e.Tick(2)
	assert.Empty(t, host.requested)
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644))
	_, err := NewEngine(dir, newFakeHost(), zap.NewNop())
	assert.Error(t, err)
}
