package system

import (
	"time"

	coresys "github.com/simcore/server/internal/core/system"
	"github.com/simcore/server/internal/engine"
)

// StepSystem advances every native world by a fixed simulated step,
// independent of wall-clock tick spacing. Phase 2 (Step).
type StepSystem struct {
	engine *engine.Engine
	step   time.Duration
}

func NewStepSystem(e *engine.Engine, step time.Duration) *StepSystem {
	return &StepSystem{engine: e, step: step}
}

func (s *StepSystem) Phase() coresys.Phase { return coresys.PhaseStep }

func (s *StepSystem) Update(_ time.Duration) {
	s.engine.Step(s.step)
}
