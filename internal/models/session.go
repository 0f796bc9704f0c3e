package models

// AvailabilityState tracks the verification of a reservation time slot.
// A reservation submission is only allowed from AvailabilityAvailable.
type AvailabilityState string

const (
	AvailabilityUnchecked   AvailabilityState = "unchecked"
	AvailabilityChecking    AvailabilityState = "checking"
	AvailabilityAvailable   AvailabilityState = "available"
	AvailabilityUnavailable AvailabilityState = "unavailable"
)

// SubmissionState is the lifecycle of one checkout attempt.
type SubmissionState string

const (
	SubmissionIdle           SubmissionState = "idle"
	SubmissionSubmitting     SubmissionState = "submitting"
	SubmissionAwaitingOnline SubmissionState = "awaiting_online_payment"
	SubmissionSettled        SubmissionState = "settled"
	SubmissionFailed         SubmissionState = "failed"
)

// IsTerminal reports whether the checkout reached its success state.
// Failed is deliberately not terminal: the session stays open for retry.
func (s SubmissionState) IsTerminal() bool {
	return s == SubmissionSettled
}
