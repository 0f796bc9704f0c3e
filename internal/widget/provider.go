package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider probes and invokes the hosted payment widget over HTTP.
type HTTPProvider struct {
	statusURL string
	invokeURL string
	apiKey    string
	client    *http.Client
}

func NewHTTPProvider(statusURL, invokeURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		statusURL: statusURL,
		invokeURL: invokeURL,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *HTTPProvider) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.statusURL, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (p *HTTPProvider) Invoke(ctx context.Context, payload InvokePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.invokeURL, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-Api-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("widget provider status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
