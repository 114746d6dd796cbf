// Package queue defines the notification sink of the reservation service
// and the message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Queue names, one per event type.  Both are durable.
const (
	ConfirmedQueue = "reservation.confirmed"
	RefundedQueue  = "reservation.refunded"
)

// ReservationEvent is published when a reservation is confirmed or
// refunded.  It carries everything a downstream mailer needs to build
// the customer message without querying the service.
type ReservationEvent struct {
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	TableNumber   *int   `json:"table_number,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Guests        int    `json:"guests"`
	AmountCents   int64  `json:"amount_cents"`
	OccurredAt    string `json:"occurred_at"`
}

// EventFrom builds the payload for r, stamped with the current time.
func EventFrom(r model.Reservation) ReservationEvent {
	return ReservationEvent{
		ReservationID: r.ID,
		UserID:        r.UserID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		TableNumber:   r.TableNumber,
		Date:          r.Date,
		Time:          r.Time,
		Guests:        r.Guests,
		AmountCents:   r.AmountCents,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
