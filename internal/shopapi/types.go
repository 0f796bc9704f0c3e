package shopapi

import (
	"time"

	"github.com/Jeho05/gamezone-checkout/internal/models"
)

// PurchaseRequest is the body of the create-purchase call. ScheduledStart is
// set only for reservations.
type PurchaseRequest struct {
	GameID          uint
	PackageID       uint
	PaymentMethodID uint
	ScheduledStart  *time.Time
}

type OutcomeKind string

const (
	// OutcomeCompleted means the transaction finished with no further
	// payment step (on-site payment methods).
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomePendingOnlinePayment means the backend issued a payment
	// session that must be completed through the payment widget.
	OutcomePendingOnlinePayment OutcomeKind = "pending_online_payment"
	// OutcomeRejected means the backend declined the purchase. Reason holds
	// the server's message verbatim.
	OutcomeRejected OutcomeKind = "rejected"
)

// Outcome is the interpreted result of one create-purchase call.
type Outcome struct {
	Kind          OutcomeKind
	IsReservation bool
	PaymentData   *models.PaymentData
	Reason        string
}
