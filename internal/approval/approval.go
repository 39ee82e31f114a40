// Package approval holds the pure transition logic for a link's lifecycle.
// State is the link's status; events come from human decisions in the
// moderation channel and from the download orchestrator. The package does
// no I/O: callers persist the transition and carry out the side effects.
package approval

import "vidgate/internal/models"

// Event is an incoming lifecycle event for a link.
type Event int

const (
	// EventSubmit is the submission of a new URL.
	EventSubmit Event = iota
	// EventApprove is a human approve decision.
	EventApprove
	// EventReject is a human reject decision.
	EventReject
	// EventReinstate moves a rejected link back into review.
	EventReinstate
	// EventFetchSucceeded is reported by the orchestrator after a download.
	EventFetchSucceeded
	// EventFetchFailed is reported by the orchestrator after a failed download.
	EventFetchFailed
)

// Effect is a side effect the caller must carry out after persisting a
// transition. Effects never gate the status write itself.
type Effect int

const (
	EffectPostForReview Effect = iota
	EffectNotifyRejected
	EffectRetractPostings
	EffectRefreshLibrary
	EffectNotifyDownloaded
)

// Outcome describes the result of applying an event to a status.
type Outcome struct {
	// Next is the status after the transition. Equal to the current status
	// when the event does not apply.
	Next string
	// Applied is false for idempotent no-ops: the event arrived for a link
	// that already left the state the event acts on. Callers report these
	// distinctly from fresh decisions, never as errors.
	Applied bool
	// Effects are the side effects to perform, in order.
	Effects []Effect
}

// Apply maps (current status, event) to (next status, side-effect set).
func Apply(current string, ev Event) Outcome {
	switch ev {
	case EventSubmit:
		// Submission of a URL with no existing row.
		return Outcome{
			Next:    models.StatusPendingApproval,
			Applied: true,
			Effects: []Effect{EffectPostForReview},
		}

	case EventApprove:
		if current != models.StatusPendingApproval {
			return noop(current)
		}
		return Outcome{Next: models.StatusApproved, Applied: true}

	case EventReject:
		if current != models.StatusPendingApproval {
			return noop(current)
		}
		return Outcome{
			Next:    models.StatusRejected,
			Applied: true,
			Effects: []Effect{EffectNotifyRejected, EffectRetractPostings},
		}

	case EventReinstate:
		if current != models.StatusRejected {
			return noop(current)
		}
		return Outcome{
			Next:    models.StatusPendingApproval,
			Applied: true,
			Effects: []Effect{EffectPostForReview},
		}

	case EventFetchSucceeded:
		if current != models.StatusApproved {
			return noop(current)
		}
		return Outcome{
			Next:    models.StatusDownloaded,
			Applied: true,
			Effects: []Effect{EffectRetractPostings, EffectRefreshLibrary, EffectNotifyDownloaded},
		}

	case EventFetchFailed:
		// The row stays approved and is retried on the next poll cycle.
		return noop(current)
	}

	return noop(current)
}

func noop(current string) Outcome {
	return Outcome{Next: current, Applied: false}
}
