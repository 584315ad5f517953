package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	doc := `
[engine]
name = "bench"

[broadphase]
kind = "spatial_hash"
cell_size = 4.0
cell_count = 256

[solver]
iterations = 30

[loop]
tick_rate = "5ms"
max_ticks = 100

[journal]
driver = "sqlite"
dsn = "journal.db"
`
	path := filepath.Join(t.TempDir(), "simcore.toml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bench", cfg.Engine.Name)
	assert.Equal(t, "spatial_hash", cfg.Broadphase.Kind)
	assert.Equal(t, 256, cfg.Broadphase.CellCount)
	assert.Equal(t, uint(30), cfg.Solver.Iterations)
	assert.Equal(t, 5*time.Millisecond, cfg.Loop.TickRate)
	assert.Equal(t, time.Second/60, cfg.Loop.Step)
	assert.Equal(t, uint64(100), cfg.Loop.MaxTicks)
	assert.Equal(t, "sqlite", cfg.Journal.Driver)
	assert.Equal(t, -9.81, cfg.World.GravityY)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown broadphase": "[broadphase]\nkind = \"octree\"",
		"zero iterations":    "[solver]\niterations = 0",
		"unknown driver":     "[journal]\ndriver = \"mongo\"\ndsn = \"x\"",
		"driver without dsn": "[journal]\ndriver = \"postgres\"",
		"bad hash":           "[broadphase]\nkind = \"spatial_hash\"\ncell_count = 0",
		"not toml":           "[engine",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(doc)
			assert.Error(t, err)
		})
	}
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, "bbtree", cfg.Broadphase.Kind)
	assert.Empty(t, cfg.Journal.Driver)
}
