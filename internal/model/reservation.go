package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	// StatusPending is declared for completeness; the booking path never
	// produces it.  It is only reachable through a direct status update.
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Valid reports whether s is one of the declared statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks the money side of a reservation.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// GuestUserID is recorded on reservations made without an identity.
const GuestUserID = "guest"

// Reservation records a customer's booking of a table for a single
// start time on a given date.  AmountCents is frozen at creation time;
// later price changes do not affect it.
//
// Fields:
//  ID              – time-ordered unique identifier.
//  UserID          – identity of the booker, "guest" when anonymous.
//  CustomerName    – contact name.
//  CustomerEmail   – recipient of confirmation/refund messages.
//  CustomerPhone   – contact phone.
//  Date            – calendar date, YYYY-MM-DD.
//  Time            – slot start, HH:MM.
//  Guests          – party size.
//  TableNumber     – Table.Number assigned at booking (nil when none fit).
//  Status          – pending, confirmed or cancelled.
//  SpecialRequests – free text from the customer.
//  CreatedAt       – creation timestamp (UTC).
//  PaymentStatus   – pending, paid or refunded.
//  AmountCents     – price charged in cents.
//  PaymentRef      – payment transaction reference, when one was given.
type Reservation struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	Guests          int               `json:"guests"`
	TableNumber     *int              `json:"table_number,omitempty"`
	Status          ReservationStatus `json:"status"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	PaymentStatus   PaymentStatus     `json:"payment_status"`
	AmountCents     int64             `json:"amount_cents"`
	PaymentRef      *string           `json:"payment_ref,omitempty"`
}

// Active reports whether the reservation still holds its table.
func (r Reservation) Active() bool { return r.Status != StatusCancelled }

// StartsAt combines Date and Time in loc.  ok is false when either
// field does not parse.
func (r Reservation) StartsAt(loc *time.Location) (t time.Time, ok bool) {
	t, err := time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NewReservation is the booking request accepted by the reservation
// service.  PaymentConfirmed is the payment collaborator's signal and
// must be true; PaymentRef optionally carries its transaction reference.
type NewReservation struct {
	UserID           string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	Date             string
	Time             string
	Guests           int
	SpecialRequests  string
	PaymentConfirmed bool
	PaymentRef       string
}

// ReservationPatch is a partial update of a Reservation.  Nil fields
// keep their previous value.
type ReservationPatch struct {
	Status          *ReservationStatus
	PaymentStatus   *PaymentStatus
	TableNumber     *int
	SpecialRequests *string
}

// Apply merges the non-nil fields of p into r.
func (p ReservationPatch) Apply(r *Reservation) {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		r.PaymentStatus = *p.PaymentStatus
	}
	if p.TableNumber != nil {
		n := *p.TableNumber
		r.TableNumber = &n
	}
	if p.SpecialRequests != nil {
		r.SpecialRequests = *p.SpecialRequests
	}
}
