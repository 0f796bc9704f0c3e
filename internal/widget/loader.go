package widget

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// State of the payment module readiness probe.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// ErrNotLoaded is surfaced whenever a payment is attempted before the
// payment module became ready. StateFailed is terminal for the process
// lifetime; the only remedy offered to the user is a reload.
var ErrNotLoaded = errors.New("payment module not loaded, reload the page")

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultPollAttempts = 20
)

// Prober answers whether the payment provider is reachable and ready.
type Prober interface {
	Probe(ctx context.Context) bool
}

type ProberFunc func(ctx context.Context) bool

func (f ProberFunc) Probe(ctx context.Context) bool { return f(ctx) }

// Loader polls the provider at a fixed interval for a bounded number of
// attempts and exposes the outcome as an observable state plus a one-shot
// ready notification.
type Loader struct {
	mu       sync.Mutex
	state    State
	ready    chan struct{}
	prober   Prober
	interval time.Duration
	attempts int
}

func NewLoader(p Prober, interval time.Duration, attempts int) *Loader {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if attempts <= 0 {
		attempts = DefaultPollAttempts
	}
	return &Loader{
		state:    StateLoading,
		ready:    make(chan struct{}),
		prober:   p,
		interval: interval,
		attempts: attempts,
	}
}

// Start launches the polling goroutine. Cancelling ctx stops polling and
// leaves the loader in StateLoading or StateFailed.
func (l *Loader) Start(ctx context.Context) {
	go func() {
		for i := 0; i < l.attempts; i++ {
			if l.prober.Probe(ctx) {
				l.mu.Lock()
				l.state = StateReady
				l.mu.Unlock()
				close(l.ready)
				log.Printf("[Widget] payment module ready after %d probe(s)", i+1)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.interval):
			}
		}
		l.mu.Lock()
		l.state = StateFailed
		l.mu.Unlock()
		log.Printf("[Widget] payment module failed to load after %d attempts", l.attempts)
	}()
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Ready is closed once the loader reaches StateReady.
func (l *Loader) Ready() <-chan struct{} {
	return l.ready
}
