package system

import (
	"time"

	"github.com/simcore/server/internal/core/ecs"
	coresys "github.com/simcore/server/internal/core/system"
	"github.com/simcore/server/internal/engine"
	"go.uber.org/zap"
)

// RemovalSystem holds model removals requested during a tick and runs them
// at tick end, after the native worlds have stepped. Phase 5 (Cleanup).
type RemovalSystem struct {
	engine *engine.Engine
	queue  []ecs.Identity
	log    *zap.Logger
}

func NewRemovalSystem(e *engine.Engine, log *zap.Logger) *RemovalSystem {
	return &RemovalSystem{
		engine: e,
		queue:  make([]ecs.Identity, 0, 16),
		log:    log,
	}
}

func (s *RemovalSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

// Request queues model for removal. False if the model is not registered or
// already queued.
func (s *RemovalSystem) Request(model ecs.Identity) bool {
	if s.engine.ModelRemoved(model) {
		return false
	}
	for _, q := range s.queue {
		if q == model {
			return false
		}
	}
	s.queue = append(s.queue, model)
	return true
}

// Pending returns the number of queued removals.
func (s *RemovalSystem) Pending() int { return len(s.queue) }

func (s *RemovalSystem) Update(_ time.Duration) {
	for _, model := range s.queue {
		if !s.engine.RemoveModel(model) {
			s.log.Warn("queued model already gone", zap.Stringer("model", model))
		}
	}
	s.queue = s.queue[:0]
}
