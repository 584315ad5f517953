package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: script hooks, external requests
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseStep                    // 2: step every native world
	PhasePostUpdate              // 3: bookkeeping that reads the stepped world
	PhasePersist                 // 4: journal flush
	PhaseCleanup                 // 5: queued model removals, between steps
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseStep:
		return "step"
	case PhasePostUpdate:
		return "post-update"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick participant implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
