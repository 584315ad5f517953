package system

import (
	"time"

	"github.com/simcore/server/internal/core/ecs"
	"github.com/simcore/server/internal/core/event"
	coresys "github.com/simcore/server/internal/core/system"
	"github.com/simcore/server/internal/engine"
	"go.uber.org/zap"
)

// ContactSystem collects mesh contacts dispatched in PreUpdate and reports
// them once per tick. Phase 3 (PostUpdate).
type ContactSystem struct {
	engine  *engine.Engine
	pending []event.ContactBegan
	total   map[ecs.Identity]uint64
	log     *zap.Logger
}

func NewContactSystem(bus *event.Bus, e *engine.Engine, log *zap.Logger) *ContactSystem {
	s := &ContactSystem{
		engine: e,
		total:  make(map[ecs.Identity]uint64),
		log:    log,
	}
	event.Subscribe(bus, func(ev event.ContactBegan) {
		s.pending = append(s.pending, ev)
	})
	return s
}

func (s *ContactSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ContactSystem) Update(_ time.Duration) {
	for _, ev := range s.pending {
		s.total[ev.World]++
		if ce := s.log.Check(zap.DebugLevel, "contact began"); ce != nil {
			ce.Write(
				zap.String("world", s.engine.WorldName(ev.World)),
				zap.String("a", s.describe(ev.A)),
				zap.String("b", s.describe(ev.B)),
			)
		}
	}
	s.pending = s.pending[:0]
}

// describe renders a collision as "model/collision". Collisions removed
// since the contact render as "?".
func (s *ContactSystem) describe(collision ecs.Identity) string {
	name := s.engine.CollisionName(collision)
	if name == "" {
		return "?"
	}
	return s.engine.ModelName(s.engine.CollisionModel(collision)) + "/" + name
}

// Total returns how many contacts began in world so far.
func (s *ContactSystem) Total(world ecs.Identity) uint64 { return s.total[world] }
