package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a load.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchStart Phase = iota
	FetchEndpoint
	FetchFailed
	BuildSnapshot
	LoadComplete
)

func (p Phase) String() string {
	switch p {
	case FetchStart:
		return "fetch_start"
	case FetchEndpoint:
		return "fetch_endpoint"
	case FetchFailed:
		return "fetch_failed"
	case BuildSnapshot:
		return "build_snapshot"
	case LoadComplete:
		return "load_complete"
	default:
		return ""
	}
}

func fetchStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Requesting %d endpoints...", total),
	}
}

func endpointUpdate(step, total int, spec RequestSpec) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEndpoint,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, spec.Name),
		Data:    spec,
	}
}

func endpointFailedUpdate(step, total int, spec RequestSpec, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, spec.Name, err),
		Data:    spec,
	}
}

func buildSnapshotUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildSnapshot,
		Step:    total,
		Total:   total,
		Message: "Building dashboard snapshot...",
	}
}

func loadCompleteUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadComplete,
		Step:    total,
		Total:   total,
		Message: "Dashboard loaded",
	}
}
