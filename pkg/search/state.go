package search

import "fmt"

// State is the position of one Execute call in the workflow.
type State int

const (
	Idle State = iota
	Starting
	Searching
	Verifying
	Capturing
	Done
	Failed
	Released
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Starting:
		return "Starting"
	case Searching:
		return "Searching"
	case Verifying:
		return "Verifying"
	case Capturing:
		return "Capturing"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	case Released:
		return "Released"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// failureStage maps the state a fault happened in to the stage it is
// reported under.
func failureStage(s State) Stage {
	switch s {
	case Starting:
		return StartupFailure
	case Searching:
		return SearchFailure
	case Verifying:
		return ResultVerificationFailure
	case Capturing:
		return CaptureFailure
	case Released:
		return CleanupFailure
	}
	return StartupFailure
}
