package runs

// Status is the raw run status string as reported by the provider.
type Status string

// Provider run-lifecycle vocabulary, as consumed.
const (
	StatusQueued         Status = "queued"
	StatusInProgress     Status = "in_progress"
	StatusCancelling     Status = "cancelling"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusFailed         Status = "failed"
	StatusExpired        Status = "expired"
	StatusRequiresAction Status = "requires_action"
)

// Class is the poller's classification of a remote status. Every status maps
// to exactly one class; strings outside the known vocabulary map to
// ClassUnknown and are treated as terminal failures by the poller.
type Class int

const (
	ClassPending Class = iota
	ClassSucceeded
	ClassFailed
	ClassActionRequired
	ClassUnknown
)

func (c Class) String() string {
	switch c {
	case ClassPending:
		return "pending"
	case ClassSucceeded:
		return "succeeded"
	case ClassFailed:
		return "failed"
	case ClassActionRequired:
		return "action_required"
	default:
		return "unknown"
	}
}

// Classify maps a remote status onto its class.
//
//	queued, in_progress, cancelling -> ClassPending
//	completed                       -> ClassSucceeded
//	cancelled, failed, expired      -> ClassFailed
//	requires_action                 -> ClassActionRequired
func Classify(s Status) Class {
	switch s {
	case StatusQueued, StatusInProgress, StatusCancelling:
		return ClassPending
	case StatusCompleted:
		return ClassSucceeded
	case StatusCancelled, StatusFailed, StatusExpired:
		return ClassFailed
	case StatusRequiresAction:
		return ClassActionRequired
	default:
		return ClassUnknown
	}
}

// Terminal reports whether a status ends the poll loop.
func (s Status) Terminal() bool {
	return Classify(s) != ClassPending
}
