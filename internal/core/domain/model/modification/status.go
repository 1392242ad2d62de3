package modification

import (
	"fmt"

	"orderpolicy/internal/pkg/errs"
)

// Status represents the approval lifecycle of a modification:
//
//	Pending ──┬──> Approved ──> Applied
//	          └──> Rejected
//
// Auto-eligible modifications are created directly in Applied.
// Applied and Rejected are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending means the modification awaits a reviewer's decision.
	StatusPending

	// StatusApproved means a reviewer accepted the modification; its
	// application to the order runs as an asynchronous job.
	StatusApproved

	// StatusRejected means a reviewer declined the modification. Terminal.
	StatusRejected

	// StatusApplied means the modification's changes reached the order.
	// Terminal.
	StatusApplied
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "unknown",
		StatusPending:  "pending",
		StatusApproved: "approved",
		StatusRejected: "rejected",
		StatusApplied:  "applied",
	}
}

// Validate checks that the Status value is one of the defined states.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("modification status",
			fmt.Errorf("%d is not a valid modification status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("modification status",
			fmt.Errorf("%d is not a valid modification status", s))
	}
	return nil
}

// String returns the lowercase name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusApplied
}

// Approve transitions Pending to Approved.
func (s Status) Approve() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewStateConflictError("modification", s.String())
	}
	return StatusApproved, nil
}

// Reject transitions Pending to Rejected.
func (s Status) Reject() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewStateConflictError("modification", s.String())
	}
	return StatusRejected, nil
}

// Apply transitions Approved to Applied.
func (s Status) Apply() (Status, error) {
	if s != StatusApproved {
		return 0, errs.NewStateConflictError("modification", s.String())
	}
	return StatusApplied, nil
}
