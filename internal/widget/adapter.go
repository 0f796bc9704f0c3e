package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Jeho05/gamezone-checkout/internal/models"
)

// ErrPaymentInFlight rejects a second Open before the first resolved, so two
// competing payment sheets can never exist.
var ErrPaymentInFlight = errors.New("a payment is already in progress")

// InvokePayload is the invocation contract of the external payment widget.
type InvokePayload struct {
	Amount  float64 `json:"amount"`
	APIKey  string  `json:"api_key"`
	Sandbox bool    `json:"sandbox"`
	Phone   string  `json:"phone"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Data    string  `json:"data"`
	URL     string  `json:"url"`
	Theme   string  `json:"theme"`
}

// Invoker delivers the invocation payload to the provider.
type Invoker interface {
	Invoke(ctx context.Context, payload InvokePayload) error
}

// Config carries the merchant-level widget settings.
type Config struct {
	APIKey  string
	Sandbox bool
	Theme   string
}

// Adapter bridges the provider's load lifecycle and its unscoped event
// channel into per-payment callbacks. Listeners are armed only while a
// payment is in flight and torn down on resolution, so a stale listener from
// an earlier checkout can never consume an event meant for a new one.
type Adapter struct {
	loader  *Loader
	bus     *Bus
	invoker Invoker
	cfg     Config

	mu   sync.Mutex
	busy bool
	sub  *Subscription
}

func NewAdapter(loader *Loader, bus *Bus, invoker Invoker, cfg Config) *Adapter {
	return &Adapter{loader: loader, bus: bus, invoker: invoker, cfg: cfg}
}

// Open invokes the payment widget for one payment session. The first event
// published after arming is authoritative and is forwarded verbatim to
// onResolved; the listener is removed and the busy flag cleared regardless
// of outcome.
func (a *Adapter) Open(ctx context.Context, data models.PaymentData, customer models.Customer, onResolved func(success bool, detail json.RawMessage)) error {
	if a.loader.State() != StateReady {
		return ErrNotLoaded
	}

	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return ErrPaymentInFlight
	}
	a.busy = true
	sub := a.bus.Subscribe()
	a.sub = sub
	a.mu.Unlock()

	payload := InvokePayload{
		Amount:  data.Amount,
		APIKey:  a.cfg.APIKey,
		Sandbox: a.cfg.Sandbox,
		Phone:   customer.Phone,
		Name:    customer.Name,
		Email:   customer.Email,
		Data:    data.Reference,
		URL:     data.CallbackURL,
		Theme:   a.cfg.Theme,
	}
	if err := a.invoker.Invoke(ctx, payload); err != nil {
		a.disarm(sub)
		return fmt.Errorf("invoke payment widget: %w", err)
	}

	go func() {
		ev, ok := <-sub.C
		if !ok {
			// Aborted before the provider answered.
			return
		}
		if !a.disarm(sub) {
			// Aborted after the event was buffered; a newer payment may own
			// the widget by now and must not be resolved or disarmed here.
			return
		}
		if ev.Reference != "" && ev.Reference != data.Reference {
			log.Printf("[Widget] event reference %q does not match armed payment %q", ev.Reference, data.Reference)
		}
		onResolved(ev.Success, ev.Detail)
	}()

	return nil
}

// Abort tears down the armed listener without resolving the payment. Used
// when the checkout is dismissed while a payment sheet is open.
func (a *Adapter) Abort() {
	a.mu.Lock()
	sub := a.sub
	a.sub = nil
	a.busy = false
	a.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}

// disarm tears down sub and reports whether it was still the armed listener.
// The busy flag belongs to the armed payment; a stale teardown must not
// touch it.
func (a *Adapter) disarm(sub *Subscription) bool {
	a.mu.Lock()
	armed := a.sub == sub
	if armed {
		a.sub = nil
		a.busy = false
	}
	a.mu.Unlock()
	sub.Cancel()
	return armed
}
