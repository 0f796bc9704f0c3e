package dto

import (
	"encoding/json"
	"time"
)

type OpenCheckoutRequest struct {
	GameID        uint   `json:"game_id"`
	PackageID     uint   `json:"package_id"`
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type SelectPackageRequest struct {
	PackageID uint `json:"package_id"`
}

type ToggleReservationRequest struct {
	Enabled bool `json:"enabled"`
}

type ScheduleRequest struct {
	ScheduledStart time.Time `json:"scheduled_start"`
}

type SelectPaymentMethodRequest struct {
	PaymentMethodID uint `json:"payment_method_id"`
}

// PaymentEventRequest is the provider's success/failure notification posted
// to the payment-events webhook.
type PaymentEventRequest struct {
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Detail    json.RawMessage `json:"detail"`
}
