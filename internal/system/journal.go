package system

import (
	"context"
	"time"

	"github.com/simcore/server/internal/core/event"
	coresys "github.com/simcore/server/internal/core/system"
	"github.com/simcore/server/internal/persist"
	"go.uber.org/zap"
)

// JournalWriter stores removal entries.
type JournalWriter interface {
	Write(ctx context.Context, entries []persist.RemovalEntry) error
}

// JournalSystem buffers ModelRemoved events and writes them in one batch per
// tick. Failed batches stay buffered for the next tick. Phase 4 (Persist).
type JournalSystem struct {
	repo    JournalWriter
	pending []persist.RemovalEntry
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger
}

func NewJournalSystem(bus *event.Bus, repo JournalWriter, log *zap.Logger) *JournalSystem {
	s := &JournalSystem{
		repo:    repo,
		timeout: 5 * time.Second,
		now:     time.Now,
		log:     log,
	}
	event.Subscribe(bus, s.onModelRemoved)
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) onModelRemoved(ev event.ModelRemoved) {
	s.pending = append(s.pending, persist.RemovalEntry{
		World:      ev.WorldName,
		Model:      ev.ModelName,
		ModelID:    uint64(ev.Model),
		Joints:     ev.Joints,
		Collisions: ev.Collisions,
		Links:      ev.Links,
		RemovedAt:  s.now(),
	})
}

// Pending returns the number of entries not yet written.
func (s *JournalSystem) Pending() int { return len(s.pending) }

func (s *JournalSystem) Update(_ time.Duration) {
	s.Flush()
}

// Flush writes all buffered entries.
func (s *JournalSystem) Flush() {
	if len(s.pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.repo.Write(ctx, s.pending); err != nil {
		s.log.Error("journal write failed", zap.Int("entries", len(s.pending)), zap.Error(err))
		return
	}
	s.pending = s.pending[:0]
}
