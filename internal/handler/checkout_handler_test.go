package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jeho05/gamezone-checkout/internal/checkout"
	"github.com/Jeho05/gamezone-checkout/internal/dto"
	"github.com/Jeho05/gamezone-checkout/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// --- Mock checkout.Service ---

type mockCheckoutService struct {
	openFn    func(ctx context.Context, p checkout.OpenParams) (checkout.Snapshot, error)
	snapFn    func(id string) (checkout.Snapshot, error)
	dismissFn func(id string) error
	pkgFn     func(id string, packageID uint) (checkout.Snapshot, error)
	toggleFn  func(id string, on bool) (checkout.Snapshot, error)
	schedFn   func(id string, start time.Time) (checkout.Snapshot, error)
	checkFn   func(ctx context.Context, id string) (checkout.Snapshot, error)
	methodFn  func(id string, methodID uint) (checkout.Snapshot, error)
	submitFn  func(ctx context.Context, id string) (checkout.Snapshot, error)
}

func (m *mockCheckoutService) Open(ctx context.Context, p checkout.OpenParams) (checkout.Snapshot, error) {
	return m.openFn(ctx, p)
}
func (m *mockCheckoutService) Snapshot(id string) (checkout.Snapshot, error) {
	return m.snapFn(id)
}
func (m *mockCheckoutService) Dismiss(id string) error {
	return m.dismissFn(id)
}
func (m *mockCheckoutService) SelectPackage(id string, packageID uint) (checkout.Snapshot, error) {
	return m.pkgFn(id, packageID)
}
func (m *mockCheckoutService) ToggleReservation(id string, on bool) (checkout.Snapshot, error) {
	return m.toggleFn(id, on)
}
func (m *mockCheckoutService) Schedule(id string, start time.Time) (checkout.Snapshot, error) {
	return m.schedFn(id, start)
}
func (m *mockCheckoutService) CheckAvailability(ctx context.Context, id string) (checkout.Snapshot, error) {
	return m.checkFn(ctx, id)
}
func (m *mockCheckoutService) SelectPaymentMethod(id string, methodID uint) (checkout.Snapshot, error) {
	return m.methodFn(id, methodID)
}
func (m *mockCheckoutService) Submit(ctx context.Context, id string) (checkout.Snapshot, error) {
	return m.submitFn(ctx, id)
}

func newContext(t *testing.T, method, path, body string, sessionID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sessionID != "" {
		c.SetParamNames("id")
		c.SetParamValues(sessionID)
	}
	return c, rec
}

// --- Tests ---

func TestOpenCheckout_Success(t *testing.T) {
	svc := &mockCheckoutService{
		openFn: func(ctx context.Context, p checkout.OpenParams) (checkout.Snapshot, error) {
			assert.Equal(t, uint(7), p.GameID)
			assert.Equal(t, uint(1), p.PackageID)
			assert.Equal(t, "0700000001", p.Customer.Phone)
			return checkout.Snapshot{
				ID:           "sess-1",
				GameID:       p.GameID,
				PackageID:    p.PackageID,
				Availability: models.AvailabilityUnchecked,
				State:        models.SubmissionIdle,
				Total:        5000,
			}, nil
		},
	}

	body := `{"game_id":7,"package_id":1,"customer_phone":"0700000001","customer_name":"Test User"}`
	c, rec := newContext(t, http.MethodPost, "/api/v1/checkouts", body, "")

	h := NewCheckoutHandler(svc)
	assert.NoError(t, h.Open(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CheckoutResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.ID)
	assert.Equal(t, float64(5000), resp.Total)
	assert.Equal(t, models.SubmissionIdle, resp.State)
}

func TestOpenCheckout_MissingIDs(t *testing.T) {
	c, _ := newContext(t, http.MethodPost, "/api/v1/checkouts", `{"game_id":7}`, "")

	h := NewCheckoutHandler(nil)
	err := h.Open(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestOpenCheckout_PurchaseLimitReached(t *testing.T) {
	svc := &mockCheckoutService{
		openFn: func(ctx context.Context, p checkout.OpenParams) (checkout.Snapshot, error) {
			return checkout.Snapshot{}, checkout.ErrPurchaseLimitReached
		},
	}

	c, _ := newContext(t, http.MethodPost, "/api/v1/checkouts", `{"game_id":7,"package_id":2}`, "")

	h := NewCheckoutHandler(svc)
	err := h.Open(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestGetCheckout_NotFound(t *testing.T) {
	svc := &mockCheckoutService{
		snapFn: func(id string) (checkout.Snapshot, error) {
			return checkout.Snapshot{}, checkout.ErrSessionNotFound
		},
	}

	c, _ := newContext(t, http.MethodGet, "/api/v1/checkouts/nope", "", "nope")

	h := NewCheckoutHandler(svc)
	err := h.Get(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestToggleReservation_NotReservable(t *testing.T) {
	svc := &mockCheckoutService{
		toggleFn: func(id string, on bool) (checkout.Snapshot, error) {
			return checkout.Snapshot{}, checkout.ErrNotReservable
		},
	}

	c, _ := newContext(t, http.MethodPut, "/api/v1/checkouts/sess-1/reservation", `{"enabled":true}`, "sess-1")

	h := NewCheckoutHandler(svc)
	err := h.ToggleReservation(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSchedule_PastStart(t *testing.T) {
	svc := &mockCheckoutService{
		schedFn: func(id string, start time.Time) (checkout.Snapshot, error) {
			return checkout.Snapshot{}, checkout.ErrPastStart
		},
	}

	body := fmt.Sprintf(`{"scheduled_start":%q}`, time.Now().Add(-time.Hour).Format(time.RFC3339))
	c, _ := newContext(t, http.MethodPut, "/api/v1/checkouts/sess-1/schedule", body, "sess-1")

	h := NewCheckoutHandler(svc)
	err := h.Schedule(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCheckAvailability_UpstreamFailure(t *testing.T) {
	svc := &mockCheckoutService{
		checkFn: func(ctx context.Context, id string) (checkout.Snapshot, error) {
			return checkout.Snapshot{}, fmt.Errorf("%w: connection refused", checkout.ErrAvailabilityCheck)
		},
	}

	c, _ := newContext(t, http.MethodPost, "/api/v1/checkouts/sess-1/availability", "", "sess-1")

	h := NewCheckoutHandler(svc)
	err := h.CheckAvailability(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Code)
}

func TestSubmit_NotReady(t *testing.T) {
	svc := &mockCheckoutService{
		submitFn: func(ctx context.Context, id string) (checkout.Snapshot, error) {
			return checkout.Snapshot{}, checkout.ErrNotReady
		},
	}

	c, _ := newContext(t, http.MethodPost, "/api/v1/checkouts/sess-1/submit", "", "sess-1")

	h := NewCheckoutHandler(svc)
	err := h.Submit(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSubmit_RejectionKeepsMessageVerbatim(t *testing.T) {
	svc := &mockCheckoutService{
		submitFn: func(ctx context.Context, id string) (checkout.Snapshot, error) {
			return checkout.Snapshot{}, &checkout.RejectionError{Reason: "Ce créneau vient d'être réservé"}
		},
	}

	c, _ := newContext(t, http.MethodPost, "/api/v1/checkouts/sess-1/submit", "", "sess-1")

	h := NewCheckoutHandler(svc)
	err := h.Submit(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
	assert.Equal(t, "Ce créneau vient d'être réservé", he.Message)
}

func TestSubmit_Settled(t *testing.T) {
	svc := &mockCheckoutService{
		submitFn: func(ctx context.Context, id string) (checkout.Snapshot, error) {
			return checkout.Snapshot{
				ID:         id,
				State:      models.SubmissionSettled,
				Total:      5000,
				RedirectTo: "/shop/purchases",
			}, nil
		},
	}

	c, rec := newContext(t, http.MethodPost, "/api/v1/checkouts/sess-1/submit", "", "sess-1")

	h := NewCheckoutHandler(svc)
	assert.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.CheckoutResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.SubmissionSettled, resp.State)
	assert.Equal(t, "/shop/purchases", resp.RedirectTo)
}

func TestDismiss_Success(t *testing.T) {
	var dismissed string
	svc := &mockCheckoutService{
		dismissFn: func(id string) error {
			dismissed = id
			return nil
		},
	}

	c, rec := newContext(t, http.MethodDelete, "/api/v1/checkouts/sess-1", "", "sess-1")

	h := NewCheckoutHandler(svc)
	assert.NoError(t, h.Dismiss(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "sess-1", dismissed)
}
