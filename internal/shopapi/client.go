// Package shopapi is the HTTP client for the remote GameZone shop API. The
// shop backend owns the catalog, purchase and reservation records; this
// service only drives the checkout flow against it.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Jeho05/gamezone-checkout/internal/models"
)

// timeLayout matches the shop backend's datetime format.
const timeLayout = "2006-01-02 15:04:05"

type Client interface {
	GetGame(ctx context.Context, id uint) (*models.Game, error)
	ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	// CheckAvailability asks whether the slot is free. A transport or decode
	// failure is returned as an error, never as an availability verdict.
	CheckAvailability(ctx context.Context, gameID, packageID uint, start time.Time) (bool, error)
	// CreatePurchase performs exactly one HTTP call and interprets the
	// response into a tagged Outcome. Callers are responsible for never
	// having two calls in flight for the same checkout.
	CreatePurchase(ctx context.Context, req PurchaseRequest) (Outcome, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

func (c *httpClient) do(ctx context.Context, method, endpoint string, query url.Values, payload any, out any) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		bodyReader = bytes.NewBuffer(data)
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("shop api status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *httpClient) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	q := url.Values{"id": {strconv.FormatUint(uint64(id), 10)}}

	var out struct {
		Game *models.Game `json:"game"`
	}
	if err := c.do(ctx, http.MethodGet, "/shop/games.php", q, nil, &out); err != nil {
		return nil, err
	}
	if out.Game == nil {
		return nil, fmt.Errorf("shop api returned no game for id %d", id)
	}
	return out.Game, nil
}

func (c *httpClient) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var out struct {
		PaymentMethods []models.PaymentMethod `json:"payment_methods"`
	}
	if err := c.do(ctx, http.MethodGet, "/shop/payment_methods.php", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.PaymentMethods, nil
}

func (c *httpClient) CheckAvailability(ctx context.Context, gameID, packageID uint, start time.Time) (bool, error) {
	q := url.Values{
		"game_id":         {strconv.FormatUint(uint64(gameID), 10)},
		"package_id":      {strconv.FormatUint(uint64(packageID), 10)},
		"scheduled_start": {start.Format(timeLayout)},
	}

	var out struct {
		Available bool `json:"available"`
	}
	if err := c.do(ctx, http.MethodGet, "/shop/check_availability.php", q, nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (c *httpClient) CreatePurchase(ctx context.Context, req PurchaseRequest) (Outcome, error) {
	body := map[string]any{
		"game_id":           req.GameID,
		"package_id":        req.PackageID,
		"payment_method_id": req.PaymentMethodID,
	}
	if req.ScheduledStart != nil {
		body["scheduled_start"] = req.ScheduledStart.Format(timeLayout)
	}

	var out struct {
		Success     bool                `json:"success"`
		Reservation bool                `json:"reservation"`
		NextStep    string              `json:"next_step"`
		PaymentData *models.PaymentData `json:"payment_data"`
		Error       string              `json:"error"`
	}
	if err := c.do(ctx, http.MethodPost, "/shop/create_purchase.php", nil, body, &out); err != nil {
		return Outcome{}, err
	}

	if !out.Success {
		return Outcome{Kind: OutcomeRejected, Reason: out.Error}, nil
	}
	if out.NextStep == "complete_payment" && out.PaymentData != nil {
		return Outcome{
			Kind:          OutcomePendingOnlinePayment,
			IsReservation: out.Reservation,
			PaymentData:   out.PaymentData,
		}, nil
	}
	return Outcome{Kind: OutcomeCompleted, IsReservation: out.Reservation}, nil
}
