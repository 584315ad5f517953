package system

import (
	"time"

	"github.com/simcore/server/internal/core/ecs"
	coresys "github.com/simcore/server/internal/core/system"
	"github.com/simcore/server/internal/engine"
	"github.com/simcore/server/internal/scripting"
)

// ScriptHost exposes engine queries to scripts and routes their removal
// requests through the removal queue.
type ScriptHost struct {
	*engine.Engine
	Removals *RemovalSystem
}

func (h ScriptHost) RequestRemoval(model ecs.Identity) bool {
	return h.Removals.Request(model)
}

// ScriptSystem calls the scripts' on_tick hook. Phase 0 (Input).
type ScriptSystem struct {
	scripts *scripting.Engine
	tick    uint64
}

func NewScriptSystem(scripts *scripting.Engine) *ScriptSystem {
	return &ScriptSystem{scripts: scripts}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ScriptSystem) Update(_ time.Duration) {
	s.tick++
	s.scripts.Tick(s.tick)
}
