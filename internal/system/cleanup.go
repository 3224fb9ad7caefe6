package system

import (
	"time"

	coresys "github.com/journeygo/client/internal/core/system"
	"github.com/journeygo/client/internal/world"
)

// CleanupSystem flushes the stage's deferred destruction queue at tick end.
// Phase 5 (Cleanup).
type CleanupSystem struct {
	stage *world.Stage
}

func NewCleanupSystem(stage *world.Stage) *CleanupSystem {
	return &CleanupSystem{stage: stage}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.stage.Flush()
}
