// Package checkout owns the state machine for one purchase or reservation
// attempt. A session lives in memory from the moment a package is selected
// until it settles or is dismissed; it is never persisted.
package checkout

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Jeho05/gamezone-checkout/internal/events"
	"github.com/Jeho05/gamezone-checkout/internal/models"
	"github.com/Jeho05/gamezone-checkout/internal/shopapi"
)

const (
	redirectPurchases    = "/shop/purchases"
	redirectReservations = "/shop/reservations"

	// Delay before the front end navigates away after an online payment
	// settles, so the success notice gets a chance to render.
	paymentRedirectDelayMS = 1500
)

// ShopGateway is the slice of the shop API a session drives directly.
type ShopGateway interface {
	CheckAvailability(ctx context.Context, gameID, packageID uint, start time.Time) (bool, error)
	CreatePurchase(ctx context.Context, req shopapi.PurchaseRequest) (shopapi.Outcome, error)
}

// PaymentOpener hands a payment session descriptor to the payment widget.
type PaymentOpener interface {
	Open(ctx context.Context, data models.PaymentData, customer models.Customer, onResolved func(success bool, detail json.RawMessage)) error
	Abort()
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Session is the only mutable entity of the checkout flow. Every transition
// is guarded here, not in the transport layer, so an ineligible request can
// never reach the network. Availability checks and submissions are
// single-flight: a duplicate call while one is outstanding is dropped.
type Session struct {
	mu       sync.Mutex
	id       string
	game     *models.Game
	methods  []models.PaymentMethod
	customer models.Customer

	pkg            *models.Package
	reservation    bool
	scheduledStart *time.Time
	availability   models.AvailabilityState
	methodID       uint
	state          models.SubmissionState
	payment        *models.PaymentData

	pendingReservation bool
	settledReservation bool
	settledOnline      bool
	lastError          string

	closed   bool
	checking bool

	shop      ShopGateway
	opener    PaymentOpener
	publisher Publisher
}

func NewSession(id string, game *models.Game, methods []models.PaymentMethod, customer models.Customer, shop ShopGateway, opener PaymentOpener, publisher Publisher) *Session {
	return &Session{
		id:           id,
		game:         game,
		methods:      methods,
		customer:     customer,
		availability: models.AvailabilityUnchecked,
		state:        models.SubmissionIdle,
		shop:         shop,
		opener:       opener,
		publisher:    publisher,
	}
}

func (s *Session) ID() string { return s.id }

// locked reports whether selection changes are refused in the current
// submission state. Failed is not locked: the user may adjust and retry.
func (s *Session) locked() bool {
	return s.state == models.SubmissionSubmitting ||
		s.state == models.SubmissionAwaitingOnline ||
		s.state == models.SubmissionSettled
}

// SelectPackage picks a package of the session's game and resets all
// downstream selections. Refused without any state change when the per-user
// purchase cap for the package is reached.
func (s *Session) SelectPackage(packageID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.locked() {
		return ErrCheckoutLocked
	}

	pkg := s.game.PackageByID(packageID)
	if pkg == nil {
		return ErrPackageNotFound
	}
	if !pkg.CanPurchase {
		return ErrPurchaseLimitReached
	}

	s.pkg = pkg
	s.reservation = false
	s.scheduledStart = nil
	s.availability = models.AvailabilityUnchecked
	s.methodID = 0
	s.state = models.SubmissionIdle
	s.lastError = ""
	return nil
}

// ToggleReservation switches between an immediate session and a scheduled
// slot. Turning it on is refused unless the game is flagged reservable,
// regardless of what the caller asks for.
func (s *Session) ToggleReservation(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.locked() {
		return ErrCheckoutLocked
	}
	if s.pkg == nil {
		return ErrNoPackageSelected
	}
	if on && !s.game.IsReservable {
		return ErrNotReservable
	}
	if on == s.reservation {
		return nil
	}

	s.reservation = on
	s.scheduledStart = nil
	s.availability = models.AvailabilityUnchecked
	return nil
}

// SetScheduledStart records the candidate slot time. It always resets
// availability to unchecked: a verdict for a different time must not
// survive the change.
func (s *Session) SetScheduledStart(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.locked() {
		return ErrCheckoutLocked
	}
	if s.pkg == nil {
		return ErrNoPackageSelected
	}
	if !s.reservation {
		return ErrReservationOff
	}
	if !t.After(time.Now()) {
		return ErrPastStart
	}

	s.scheduledStart = &t
	s.availability = models.AvailabilityUnchecked
	return nil
}

// CheckAvailability issues one availability request for the scheduled slot.
// A call while a check is already in flight is dropped. A transport failure
// re-presents availability as unchecked so the user can retry; it is never
// coerced into a verdict.
func (s *Session) CheckAvailability(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.locked() {
		s.mu.Unlock()
		return ErrCheckoutLocked
	}
	if !s.reservation {
		s.mu.Unlock()
		return ErrReservationOff
	}
	if s.scheduledStart == nil {
		s.mu.Unlock()
		return ErrNoScheduledStart
	}
	if s.checking {
		s.mu.Unlock()
		return nil
	}

	s.checking = true
	s.availability = models.AvailabilityChecking
	gameID, packageID, start := s.game.ID, s.pkg.ID, *s.scheduledStart
	s.mu.Unlock()

	available, err := s.shop.CheckAvailability(ctx, gameID, packageID, start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checking = false
	if s.closed {
		return nil
	}
	// The slot time may have changed while the request was in flight; a
	// verdict for the old time must not be applied.
	if s.scheduledStart == nil || !s.scheduledStart.Equal(start) {
		return nil
	}
	if err != nil {
		s.availability = models.AvailabilityUnchecked
		return &availabilityError{cause: err}
	}
	if available {
		s.availability = models.AvailabilityAvailable
	} else {
		s.availability = models.AvailabilityUnavailable
	}
	return nil
}

type availabilityError struct{ cause error }

func (e *availabilityError) Error() string { return ErrAvailabilityCheck.Error() + ": " + e.cause.Error() }
func (e *availabilityError) Unwrap() error { return ErrAvailabilityCheck }

// SelectPaymentMethod records the chosen method, which must be one of the
// methods loaded for this checkout.
func (s *Session) SelectPaymentMethod(methodID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.locked() {
		return ErrCheckoutLocked
	}
	if s.pkg == nil {
		return ErrNoPackageSelected
	}
	for _, m := range s.methods {
		if m.ID == methodID {
			s.methodID = methodID
			return nil
		}
	}
	return ErrUnknownPaymentMethod
}

// Submit performs the create-purchase call. It refuses locally unless a
// payment method is selected and, in reservation mode, the slot was verified
// available. A submit while one is outstanding or while an online payment is
// pending is dropped, guaranteeing at most one create call per attempt.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	switch s.state {
	case models.SubmissionSubmitting, models.SubmissionAwaitingOnline, models.SubmissionSettled:
		s.mu.Unlock()
		return nil
	}
	if s.pkg == nil || s.methodID == 0 {
		s.mu.Unlock()
		return ErrNotReady
	}
	if s.reservation && (s.scheduledStart == nil || s.availability != models.AvailabilityAvailable) {
		s.mu.Unlock()
		return ErrNotReady
	}

	s.state = models.SubmissionSubmitting
	s.lastError = ""
	req := shopapi.PurchaseRequest{
		GameID:          s.game.ID,
		PackageID:       s.pkg.ID,
		PaymentMethodID: s.methodID,
	}
	if s.reservation {
		start := *s.scheduledStart
		req.ScheduledStart = &start
	}
	s.mu.Unlock()

	outcome, err := s.shop.CreatePurchase(ctx, req)

	s.mu.Lock()
	if s.closed {
		// Dismissed while the request was in flight: the request itself
		// cannot be recalled, but no further transitions are applied.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.state = models.SubmissionFailed
		s.lastError = err.Error()
		s.mu.Unlock()
		return err
	}

	switch outcome.Kind {
	case shopapi.OutcomeRejected:
		s.state = models.SubmissionFailed
		s.lastError = outcome.Reason
		s.mu.Unlock()
		return &RejectionError{Reason: outcome.Reason}

	case shopapi.OutcomePendingOnlinePayment:
		s.state = models.SubmissionAwaitingOnline
		s.payment = outcome.PaymentData
		s.pendingReservation = outcome.IsReservation
		data := *outcome.PaymentData
		customer := s.customer
		s.mu.Unlock()

		if err := s.opener.Open(ctx, data, customer, func(success bool, detail json.RawMessage) {
			_ = s.ResolvePayment(success, detail)
		}); err != nil {
			s.mu.Lock()
			if !s.closed {
				s.state = models.SubmissionFailed
				s.payment = nil
				s.lastError = err.Error()
			}
			s.mu.Unlock()
			return err
		}
		return nil

	default:
		s.state = models.SubmissionSettled
		s.settledReservation = outcome.IsReservation
		s.settledOnline = false
		settlement := s.settlementLocked()
		s.mu.Unlock()
		s.publishSettled(settlement)
		return nil
	}
}

// ResolvePayment applies the payment widget's verdict. Only valid while an
// online payment is pending; a late or duplicate event is ignored. Failure
// clears the payment descriptor so submit can be retried, possibly with a
// different payment method.
func (s *Session) ResolvePayment(success bool, detail json.RawMessage) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.state != models.SubmissionAwaitingOnline {
		s.mu.Unlock()
		return ErrNoPendingPayment
	}

	if success {
		s.state = models.SubmissionSettled
		s.settledReservation = s.pendingReservation
		s.settledOnline = true
		s.payment = nil
		settlement := s.settlementLocked()
		s.mu.Unlock()
		s.publishSettled(settlement)
		return nil
	}

	s.state = models.SubmissionFailed
	s.lastError = "online payment failed"
	failure := events.PaymentFailure{
		SessionID: s.id,
		Detail:    string(detail),
		FailedAt:  time.Now(),
	}
	if s.payment != nil {
		failure.Reference = s.payment.Reference
	}
	s.payment = nil
	s.mu.Unlock()

	if s.publisher != nil {
		_ = s.publisher.Publish(context.Background(), events.RoutingPaymentFailed, failure)
	}
	return nil
}

// Close abandons the session. An in-flight request keeps running but its
// result is discarded; an armed payment listener is torn down.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	awaiting := s.state == models.SubmissionAwaitingOnline
	s.mu.Unlock()

	if awaiting && s.opener != nil {
		s.opener.Abort()
	}
}

// Total is the amount due: package price plus the game's reservation fee
// when booking a slot.
func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

func (s *Session) totalLocked() float64 {
	if s.pkg == nil {
		return 0
	}
	total := s.pkg.Price
	if s.reservation {
		total += s.game.ReservationFee
	}
	return total
}

func (s *Session) settlementLocked() events.Settlement {
	settlement := events.Settlement{
		SessionID:       s.id,
		GameID:          s.game.ID,
		PackageID:       s.pkg.ID,
		PaymentMethodID: s.methodID,
		Amount:          s.totalLocked(),
		IsReservation:   s.settledReservation,
		OnlinePayment:   s.settledOnline,
		SettledAt:       time.Now(),
	}
	if s.scheduledStart != nil {
		start := *s.scheduledStart
		settlement.ScheduledStart = &start
	}
	return settlement
}

func (s *Session) publishSettled(settlement events.Settlement) {
	if s.publisher == nil {
		return
	}
	key := events.RoutingPurchaseSettled
	if settlement.IsReservation {
		key = events.RoutingReservationSettled
	}
	_ = s.publisher.Publish(context.Background(), key, settlement)
}

// Snapshot is the session state rendered for the front end.
type Snapshot struct {
	ID              string
	GameID          uint
	PackageID       uint
	ReservationMode bool
	ScheduledStart  *time.Time
	Availability    models.AvailabilityState
	PaymentMethodID uint
	State           models.SubmissionState
	Total           float64
	ReservationFee  float64
	PaymentData     *models.PaymentData
	LastError       string
	RedirectTo      string
	RedirectDelayMS int
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:              s.id,
		GameID:          s.game.ID,
		ReservationMode: s.reservation,
		Availability:    s.availability,
		PaymentMethodID: s.methodID,
		State:           s.state,
		Total:           s.totalLocked(),
		LastError:       s.lastError,
	}
	if s.pkg != nil {
		snap.PackageID = s.pkg.ID
	}
	if s.scheduledStart != nil {
		start := *s.scheduledStart
		snap.ScheduledStart = &start
	}
	if s.reservation {
		snap.ReservationFee = s.game.ReservationFee
	}
	if s.payment != nil {
		data := *s.payment
		snap.PaymentData = &data
	}
	if s.state == models.SubmissionSettled {
		if s.settledReservation {
			snap.RedirectTo = redirectReservations
		} else {
			snap.RedirectTo = redirectPurchases
		}
		if s.settledOnline {
			snap.RedirectDelayMS = paymentRedirectDelayMS
		}
	}
	return snap
}
