package checkout

import "errors"

var (
	ErrSessionNotFound      = errors.New("checkout session not found")
	ErrSessionClosed        = errors.New("checkout session is closed")
	ErrCheckoutLocked       = errors.New("checkout is being processed")
	ErrPackageNotFound      = errors.New("package not found for this game")
	ErrPurchaseLimitReached = errors.New("purchase limit reached for this package")
	ErrNoPackageSelected    = errors.New("no package selected")
	ErrNotReservable        = errors.New("this game does not accept reservations")
	ErrReservationOff       = errors.New("reservation mode is not enabled")
	ErrPastStart            = errors.New("scheduled start must be in the future")
	ErrNoScheduledStart     = errors.New("reservation requires a scheduled start time")
	ErrUnknownPaymentMethod = errors.New("payment method not offered for this checkout")
	ErrNotReady             = errors.New("checkout is not ready to submit")
	ErrNoPendingPayment     = errors.New("no online payment is pending")
	ErrAvailabilityCheck    = errors.New("availability check failed")
)

// RejectionError carries the shop backend's decline message verbatim, e.g.
// when a slot was taken between the availability check and submission.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return "purchase rejected"
	}
	return e.Reason
}
