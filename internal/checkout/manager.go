package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/Jeho05/gamezone-checkout/internal/models"
)

// Catalog serves the immutable inputs of a checkout: the game with its
// packages, and the payment methods on offer.
type Catalog interface {
	GetGame(ctx context.Context, id uint) (*models.Game, error)
	ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
}

type OpenParams struct {
	GameID    uint
	PackageID uint
	Customer  models.Customer
}

// Service is the operation surface the transport layer drives, one method
// per checkout operation. Every method returns the post-operation snapshot.
type Service interface {
	Open(ctx context.Context, p OpenParams) (Snapshot, error)
	Snapshot(id string) (Snapshot, error)
	Dismiss(id string) error
	SelectPackage(id string, packageID uint) (Snapshot, error)
	ToggleReservation(id string, on bool) (Snapshot, error)
	Schedule(id string, start time.Time) (Snapshot, error)
	CheckAvailability(ctx context.Context, id string) (Snapshot, error)
	SelectPaymentMethod(id string, methodID uint) (Snapshot, error)
	Submit(ctx context.Context, id string) (Snapshot, error)
}

// Manager is the in-memory registry of live sessions. Sessions exist only
// here: dismissal discards them and a new checkout always starts fresh.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	catalog   Catalog
	shop      ShopGateway
	opener    PaymentOpener
	publisher Publisher
}

func NewManager(catalog Catalog, shop ShopGateway, opener PaymentOpener, publisher Publisher) *Manager {
	return &Manager{
		sessions:  map[string]*Session{},
		catalog:   catalog,
		shop:      shop,
		opener:    opener,
		publisher: publisher,
	}
}

func (m *Manager) Open(ctx context.Context, p OpenParams) (Snapshot, error) {
	game, err := m.catalog.GetGame(ctx, p.GameID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load game: %w", err)
	}
	methods, err := m.catalog.ListPaymentMethods(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load payment methods: %w", err)
	}

	sess := NewSession(newSessionID(), game, methods, p.Customer, m.shop, m.opener, m.publisher)
	if err := sess.SelectPackage(p.PackageID); err != nil {
		return Snapshot{}, err
	}

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()
	return sess.Snapshot(), nil
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (m *Manager) Snapshot(id string) (Snapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (m *Manager) Dismiss(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.Close()
	return nil
}

func (m *Manager) SelectPackage(id string, packageID uint) (Snapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	opErr := sess.SelectPackage(packageID)
	return sess.Snapshot(), opErr
}

func (m *Manager) ToggleReservation(id string, on bool) (Snapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	opErr := sess.ToggleReservation(on)
	return sess.Snapshot(), opErr
}

func (m *Manager) Schedule(id string, start time.Time) (Snapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	opErr := sess.SetScheduledStart(start)
	return sess.Snapshot(), opErr
}

func (m *Manager) CheckAvailability(ctx context.Context, id string) (Snapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	opErr := sess.CheckAvailability(ctx)
	return sess.Snapshot(), opErr
}

func (m *Manager) SelectPaymentMethod(id string, methodID uint) (Snapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	opErr := sess.SelectPaymentMethod(methodID)
	return sess.Snapshot(), opErr
}

func (m *Manager) Submit(ctx context.Context, id string) (Snapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	opErr := sess.Submit(ctx)
	return sess.Snapshot(), opErr
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
