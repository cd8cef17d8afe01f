package domain

// RunState is the lifecycle state of one orchestrated test run.
type RunState string

const (
	// StateIdle is the state before anything was started.
	StateIdle RunState = "Idle"
	// StateLaunching covers the browser launch and the manifest lookup.
	StateLaunching RunState = "Launching"
	// StateTabOpen means the tab is open and no test has started yet.
	StateTabOpen RunState = "TabOpen"
	// StateRunning means a test is executing.
	StateRunning RunState = "Running"
	// StateDone means every test produced a result.
	StateDone RunState = "Done"
	// StateFailed means the run was aborted.
	StateFailed RunState = "Failed"
	// StateTornDown is terminal: the browser was released.
	StateTornDown RunState = "TornDown"
)

var runTransitions = map[RunState][]RunState{
	StateIdle:      {StateLaunching},
	StateLaunching: {StateTabOpen, StateFailed, StateTornDown},
	StateTabOpen:   {StateRunning, StateDone, StateFailed, StateTornDown},
	StateRunning:   {StateRunning, StateDone, StateFailed, StateTornDown},
	StateDone:      {StateTornDown},
	StateFailed:    {StateTornDown},
}

// CanTransition reports whether a run may move from s to next.
func (s RunState) CanTransition(next RunState) bool {
	for _, allowed := range runTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
