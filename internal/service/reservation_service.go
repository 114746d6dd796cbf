// Package service composes the settings registry, the reservation ledger
// and the availability engine into the reservation lifecycle: booking
// with table assignment, cancellation with refund, and admin status
// changes.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/table-reservation/internal/availability"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// ErrPaymentNotConfirmed is returned when a booking arrives without the
// payment collaborator's confirmation.
var ErrPaymentNotConfirmed = errors.New("payment not confirmed")

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyCancelled    = errors.New("reservation already cancelled")
)

// AssignmentPolicy selects how a table is chosen for a new booking.
type AssignmentPolicy string

const (
	// AssignFirstFit takes the first table, in registry order, that
	// seats the party, whether or not it is already booked at that time.
	AssignFirstFit AssignmentPolicy = "first_fit"
	// AssignFirstFree takes the first table that seats the party and is
	// free at the requested date and time.
	AssignFirstFree AssignmentPolicy = "first_free"
)

// ParseAssignmentPolicy maps a config value to a policy.  Unknown
// values yield AssignFirstFit.
func ParseAssignmentPolicy(s string) AssignmentPolicy {
	if AssignmentPolicy(s) == AssignFirstFree {
		return AssignFirstFree
	}
	return AssignFirstFit
}

// ReservationService is the orchestrator over one Store.
type ReservationService struct {
	store        *repository.Store
	settings     *repository.SettingsRepo
	reservations *repository.ReservationRepo
	notifier     queue.Notifier
	policy       AssignmentPolicy
	loc          *time.Location
	now          func() time.Time
}

// Option customises a ReservationService.
type Option func(*ReservationService)

// WithAssignmentPolicy overrides the default AssignFirstFit policy.
func WithAssignmentPolicy(p AssignmentPolicy) Option {
	return func(s *ReservationService) { s.policy = p }
}

// WithLocation sets the restaurant's time zone, used to decide whether
// a reservation is past or upcoming.  Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *ReservationService) { s.loc = loc }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *ReservationService) { s.now = now }
}

// NewReservationService wires the service to store.  A nil notifier
// logs messages through the standard logger.
func NewReservationService(store *repository.Store, notifier queue.Notifier, opts ...Option) *ReservationService {
	if store == nil {
		panic("nil store passed to NewReservationService")
	}
	if notifier == nil {
		notifier = queue.NewLogNotifier(nil)
	}
	s := &ReservationService{
		store:        store,
		settings:     repository.NewSettingsRepo(store),
		reservations: repository.NewReservationRepo(store),
		notifier:     notifier,
		policy:       AssignFirstFit,
		loc:          time.Local,
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe registers a change listener on the underlying store.
func (s *ReservationService) Subscribe(fn repository.Listener) (unsubscribe func()) {
	return s.store.Subscribe(fn)
}

// AvailableSlots returns the bookable start times for a party of
// guests on date, computed from one consistent snapshot.
func (s *ReservationService) AvailableSlots(_ context.Context, date string, guests int) []string {
	var slots []string
	_ = s.store.View(func(tx *repository.Tx) error {
		slots = availability.AvailableSlots(date, guests, tx.Settings(), tx.ActiveOnDate(date))
		return nil
	})
	return slots
}

// CreateReservation books a table and returns the stored reservation.
// A missing user ID is recorded as the guest identity.  The price is
// frozen from the current settings.  When no table fits, the booking
// still succeeds with no table number.  A failing confirmation
// notification is logged and does not undo the booking.
func (s *ReservationService) CreateReservation(ctx context.Context, in model.NewReservation) (model.Reservation, error) {
	if !in.PaymentConfirmed {
		return model.Reservation{}, ErrPaymentNotConfirmed
	}
	userID := in.UserID
	if userID == "" {
		userID = model.GuestUserID
	}

	var created model.Reservation
	_ = s.store.Update(func(tx *repository.Tx) error {
		settings := tx.Settings()
		created = tx.InsertReservation(model.Reservation{
			UserID:          userID,
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			CustomerPhone:   in.CustomerPhone,
			Date:            in.Date,
			Time:            in.Time,
			Guests:          in.Guests,
			TableNumber:     s.pickTable(tx, settings, in),
			Status:          model.StatusConfirmed,
			SpecialRequests: in.SpecialRequests,
			PaymentStatus:   model.PaymentPaid,
			AmountCents:     settings.ReservationPriceCents,
			PaymentRef:      paymentRef(in.PaymentRef),
		})
		return nil
	})

	if err := s.notifier.ReservationConfirmed(ctx, created); err != nil {
		log.Printf("reservation: confirmation for %s not delivered: %v", created.ID, err)
	}
	return created, nil
}

func paymentRef(ref string) *string {
	if ref == "" {
		return nil
	}
	return &ref
}

// pickTable returns the number of the table to assign, or nil.
func (s *ReservationService) pickTable(tx *repository.Tx, settings model.Settings, in model.NewReservation) *int {
	switch s.policy {
	case AssignFirstFree:
		free := availability.FreeTables(in.Date, in.Time, in.Guests, settings, tx.ActiveOnDate(in.Date))
		if len(free) == 0 {
			return nil
		}
		n := free[0].Number
		return &n
	default:
		for _, t := range settings.Tables {
			if t.Capacity >= in.Guests {
				n := t.Number
				return &n
			}
		}
		return nil
	}
}

// CancelReservation cancels and refunds a reservation.  It reports
// false when the ID is unknown.  Availability needs no restoring since
// it is always recomputed from the ledger.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) bool {
	status, payment := model.StatusCancelled, model.PaymentRefunded
	r, ok := s.reservations.Update(id, model.ReservationPatch{Status: &status, PaymentStatus: &payment})
	if !ok {
		return false
	}
	if err := s.notifier.ReservationRefunded(ctx, r); err != nil {
		log.Printf("reservation: refund notice for %s not delivered: %v", r.ID, err)
	}
	return true
}

// CancelActive cancels and refunds a reservation that is still active.
// The status check and the update happen under one write lock, so of
// several concurrent calls exactly one succeeds and sends the refund
// notice; the rest get ErrAlreadyCancelled.
func (s *ReservationService) CancelActive(ctx context.Context, id string) (model.Reservation, error) {
	var cancelled model.Reservation
	err := s.store.Update(func(tx *repository.Tx) error {
		r, ok := tx.Reservation(id)
		if !ok {
			return ErrReservationNotFound
		}
		if r.Status == model.StatusCancelled {
			return ErrAlreadyCancelled
		}
		status, payment := model.StatusCancelled, model.PaymentRefunded
		cancelled, _ = tx.UpdateReservation(id, model.ReservationPatch{Status: &status, PaymentStatus: &payment})
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if err := s.notifier.ReservationRefunded(ctx, cancelled); err != nil {
		log.Printf("reservation: refund notice for %s not delivered: %v", cancelled.ID, err)
	}
	return cancelled, nil
}

// UpdateReservationStatus sets the status directly.  The payment status
// is left as is, so a reactivated reservation keeps "refunded".
func (s *ReservationService) UpdateReservationStatus(_ context.Context, id string, status model.ReservationStatus) (model.Reservation, bool) {
	return s.reservations.Update(id, model.ReservationPatch{Status: &status})
}

// Reservation returns a single reservation.
func (s *ReservationService) Reservation(id string) (model.Reservation, bool) {
	return s.reservations.ByID(id)
}

// Reservations returns the whole ledger in insertion order.
func (s *ReservationService) Reservations() []model.Reservation { return s.reservations.All() }

// UserReservations returns the reservations made by userID.
func (s *ReservationService) UserReservations(userID string) []model.Reservation {
	return s.reservations.ByUser(userID)
}

func (s *ReservationService) Settings() model.Settings { return s.settings.Get() }

func (s *ReservationService) UpdateSettings(p model.SettingsPatch) model.Settings {
	return s.settings.Update(p)
}

func (s *ReservationService) AddTable(nt model.NewTable) model.Table { return s.settings.AddTable(nt) }

func (s *ReservationService) UpdateTable(id string, p model.TablePatch) (model.Table, bool) {
	return s.settings.UpdateTable(id, p)
}

func (s *ReservationService) RemoveTable(id string) bool { return s.settings.RemoveTable(id) }
