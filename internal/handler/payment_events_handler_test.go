package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/Jeho05/gamezone-checkout/internal/widget"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestPaymentEvents_SuccessForwardedToBus(t *testing.T) {
	bus := widget.NewBus()
	sub := bus.Subscribe()
	defer sub.Cancel()

	body := `{"status":"success","reference":"ref-123","detail":{"tx":"1"}}`
	c, rec := newContext(t, http.MethodPost, "/api/v1/payment-events", body, "")

	h := NewPaymentEventsHandler(bus)
	assert.NoError(t, h.Receive(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case ev := <-sub.C:
		assert.True(t, ev.Success)
		assert.Equal(t, "ref-123", ev.Reference)
		assert.JSONEq(t, `{"tx":"1"}`, string(ev.Detail))
	case <-time.After(time.Second):
		t.Fatal("event never reached the bus")
	}
}

func TestPaymentEvents_FailureForwardedToBus(t *testing.T) {
	bus := widget.NewBus()
	sub := bus.Subscribe()
	defer sub.Cancel()

	body := `{"status":"failure","detail":{"code":"declined"}}`
	c, rec := newContext(t, http.MethodPost, "/api/v1/payment-events", body, "")

	h := NewPaymentEventsHandler(bus)
	assert.NoError(t, h.Receive(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case ev := <-sub.C:
		assert.False(t, ev.Success)
	case <-time.After(time.Second):
		t.Fatal("event never reached the bus")
	}
}

func TestPaymentEvents_UnknownStatus(t *testing.T) {
	c, _ := newContext(t, http.MethodPost, "/api/v1/payment-events", `{"status":"maybe"}`, "")

	h := NewPaymentEventsHandler(widget.NewBus())
	err := h.Receive(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
