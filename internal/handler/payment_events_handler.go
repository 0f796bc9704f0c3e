package handler

import (
	"net/http"

	"github.com/Jeho05/gamezone-checkout/internal/dto"
	"github.com/Jeho05/gamezone-checkout/internal/widget"
	"github.com/labstack/echo/v4"
)

// PaymentEventsHandler receives the payment provider's success/failure
// notifications and feeds them into the process-wide widget bus. No
// verification happens here; settlement truth stays with the shop backend.
type PaymentEventsHandler struct {
	bus *widget.Bus
}

func NewPaymentEventsHandler(bus *widget.Bus) *PaymentEventsHandler {
	return &PaymentEventsHandler{bus: bus}
}

func (h *PaymentEventsHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/payment-events", h.Receive)
}

func (h *PaymentEventsHandler) Receive(c echo.Context) error {
	var req dto.PaymentEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var success bool
	switch req.Status {
	case "success":
		success = true
	case "failure":
		success = false
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "status must be success or failure")
	}

	h.bus.Publish(widget.Event{
		Success:   success,
		Reference: req.Reference,
		Detail:    req.Detail,
	})
	return c.NoContent(http.StatusAccepted)
}
