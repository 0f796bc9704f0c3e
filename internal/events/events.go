// Package events defines the messages this service publishes when a
// checkout settles or an online payment fails. Downstream consumers
// (loyalty, receipts) bind to the checkout exchange by routing key.
package events

import "time"

const (
	RoutingPurchaseSettled    = "checkout.purchase.settled"
	RoutingReservationSettled = "checkout.reservation.settled"
	RoutingPaymentFailed      = "checkout.payment.failed"
)

type Settlement struct {
	SessionID       string     `json:"session_id"`
	GameID          uint       `json:"game_id"`
	PackageID       uint       `json:"package_id"`
	PaymentMethodID uint       `json:"payment_method_id"`
	Amount          float64    `json:"amount"`
	IsReservation   bool       `json:"is_reservation"`
	ScheduledStart  *time.Time `json:"scheduled_start,omitempty"`
	OnlinePayment   bool       `json:"online_payment"`
	SettledAt       time.Time  `json:"settled_at"`
}

type PaymentFailure struct {
	SessionID string    `json:"session_id"`
	Reference string    `json:"reference"`
	Detail    string    `json:"detail,omitempty"`
	FailedAt  time.Time `json:"failed_at"`
}
