package system

import "time"

// Phase orders systems within one tick.
type Phase int

const (
	PhaseInput      Phase = iota // drain the session queue
	PhasePreUpdate               // deliver last tick's events
	PhaseUpdate                  // controllers and physics
	PhaseOutput                  // telemetry frames, flush outbound packets
	PhasePersist                 // snapshots
	PhaseCleanup                 // destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
