package handler

import (
	"errors"
	"net/http"

	"github.com/Jeho05/gamezone-checkout/internal/checkout"
	"github.com/Jeho05/gamezone-checkout/internal/dto"
	"github.com/Jeho05/gamezone-checkout/internal/models"
	"github.com/Jeho05/gamezone-checkout/internal/widget"
	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	svc checkout.Service
}

func NewCheckoutHandler(svc checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/checkouts")
	g.POST("", h.Open)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Dismiss)
	g.PUT("/:id/package", h.SelectPackage)
	g.PUT("/:id/reservation", h.ToggleReservation)
	g.PUT("/:id/schedule", h.Schedule)
	g.POST("/:id/availability", h.CheckAvailability)
	g.PUT("/:id/payment-method", h.SelectPaymentMethod)
	g.POST("/:id/submit", h.Submit)
}

func (h *CheckoutHandler) Open(c echo.Context) error {
	var req dto.OpenCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.GameID == 0 || req.PackageID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "game_id and package_id are required")
	}

	snap, err := h.svc.Open(c.Request().Context(), checkout.OpenParams{
		GameID:    req.GameID,
		PackageID: req.PackageID,
		Customer: models.Customer{
			Phone: req.CustomerPhone,
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
		},
	})
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToCheckoutResponse(snap))
}

func (h *CheckoutHandler) Get(c echo.Context) error {
	snap, err := h.svc.Snapshot(c.Param("id"))
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCheckoutResponse(snap))
}

func (h *CheckoutHandler) Dismiss(c echo.Context) error {
	if err := h.svc.Dismiss(c.Param("id")); err != nil {
		return checkoutError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CheckoutHandler) SelectPackage(c echo.Context) error {
	var req dto.SelectPackageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	snap, err := h.svc.SelectPackage(c.Param("id"), req.PackageID)
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCheckoutResponse(snap))
}

func (h *CheckoutHandler) ToggleReservation(c echo.Context) error {
	var req dto.ToggleReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	snap, err := h.svc.ToggleReservation(c.Param("id"), req.Enabled)
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCheckoutResponse(snap))
}

func (h *CheckoutHandler) Schedule(c echo.Context) error {
	var req dto.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ScheduledStart.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "scheduled_start is required")
	}

	snap, err := h.svc.Schedule(c.Param("id"), req.ScheduledStart)
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCheckoutResponse(snap))
}

func (h *CheckoutHandler) CheckAvailability(c echo.Context) error {
	snap, err := h.svc.CheckAvailability(c.Request().Context(), c.Param("id"))
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCheckoutResponse(snap))
}

func (h *CheckoutHandler) SelectPaymentMethod(c echo.Context) error {
	var req dto.SelectPaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	snap, err := h.svc.SelectPaymentMethod(c.Param("id"), req.PaymentMethodID)
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCheckoutResponse(snap))
}

func (h *CheckoutHandler) Submit(c echo.Context) error {
	snap, err := h.svc.Submit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCheckoutResponse(snap))
}

// checkoutError maps checkout errors to HTTP status codes. Local guard
// failures are 400s and never reached the network; a backend decline keeps
// its message verbatim.
func checkoutError(err error) error {
	var rejection *checkout.RejectionError
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrPurchaseLimitReached):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrCheckoutLocked),
		errors.Is(err, checkout.ErrSessionClosed):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrPackageNotFound),
		errors.Is(err, checkout.ErrNoPackageSelected),
		errors.Is(err, checkout.ErrNotReservable),
		errors.Is(err, checkout.ErrReservationOff),
		errors.Is(err, checkout.ErrPastStart),
		errors.Is(err, checkout.ErrNoScheduledStart),
		errors.Is(err, checkout.ErrUnknownPaymentMethod),
		errors.Is(err, checkout.ErrNotReady):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrAvailabilityCheck):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case errors.Is(err, widget.ErrNotLoaded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, widget.ErrNotLoaded.Error())
	case errors.As(err, &rejection):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, rejection.Reason)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
