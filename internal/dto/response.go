package dto

import (
	"time"

	"github.com/Jeho05/gamezone-checkout/internal/checkout"
	"github.com/Jeho05/gamezone-checkout/internal/models"
)

type CheckoutResponse struct {
	ID              string                   `json:"id"`
	GameID          uint                     `json:"game_id"`
	PackageID       uint                     `json:"package_id,omitempty"`
	ReservationMode bool                     `json:"reservation_mode"`
	ScheduledStart  *time.Time               `json:"scheduled_start,omitempty"`
	Availability    models.AvailabilityState `json:"availability"`
	PaymentMethodID uint                     `json:"payment_method_id,omitempty"`
	State           models.SubmissionState   `json:"state"`
	Total           float64                  `json:"total"`
	ReservationFee  float64                  `json:"reservation_fee,omitempty"`
	PaymentData     *models.PaymentData      `json:"payment_data,omitempty"`
	Error           string                   `json:"error,omitempty"`
	RedirectTo      string                   `json:"redirect_to,omitempty"`
	RedirectDelayMS int                      `json:"redirect_delay_ms,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToCheckoutResponse(s checkout.Snapshot) CheckoutResponse {
	return CheckoutResponse{
		ID:              s.ID,
		GameID:          s.GameID,
		PackageID:       s.PackageID,
		ReservationMode: s.ReservationMode,
		ScheduledStart:  s.ScheduledStart,
		Availability:    s.Availability,
		PaymentMethodID: s.PaymentMethodID,
		State:           s.State,
		Total:           s.Total,
		ReservationFee:  s.ReservationFee,
		PaymentData:     s.PaymentData,
		Error:           s.LastError,
		RedirectTo:      s.RedirectTo,
		RedirectDelayMS: s.RedirectDelayMS,
	}
}
