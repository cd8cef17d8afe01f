package orchestrator

import (
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
)

// runState tracks the lifecycle of one run and logs every transition.
type runState struct {
	current   domain.RunState
	logger    ports.Logger
	logStream string
}

func newRunState(logger ports.Logger, logStream string) *runState {
	return &runState{current: domain.StateIdle, logger: logger, logStream: logStream}
}

// advance moves to next. Transitions the state machine does not allow are logged and ignored.
func (s *runState) advance(next domain.RunState, args ...any) {
	if !s.current.CanTransition(next) {
		s.logger.Warn("ignoring run state transition",
			"from", string(s.current),
			"to", string(next),
			domain.MetaLogStream, s.logStream,
		)
		return
	}
	s.current = next
	attrs := append([]any{"state", string(next), domain.MetaLogStream, s.logStream}, args...)
	s.logger.Info("run state", attrs...)
}
