package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Notifier is the notification sink.  Delivery is fire-and-forget: the
// reservation service logs a returned error and carries on.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, r model.Reservation) error
	ReservationRefunded(ctx context.Context, r model.Reservation) error
}

// CurrencySymbol prefixes amounts in customer-facing messages.
const CurrencySymbol = "R$"

// FormatAmount renders cents as "R$ 12.50".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", CurrencySymbol, sign, cents/100, cents%100)
}

func tableLabel(n *int) string {
	if n == nil {
		return "unassigned"
	}
	return strconv.Itoa(*n)
}

// ConfirmationMessage is the text sent to the customer after booking.
func ConfirmationMessage(ev ReservationEvent) []string {
	return []string{
		fmt.Sprintf("Confirmation email sent to %s", ev.CustomerEmail),
		fmt.Sprintf("Reservation confirmed for %s - Table %s - %s at %s",
			ev.CustomerName, tableLabel(ev.TableNumber), ev.Date, ev.Time),
		fmt.Sprintf("Amount paid: %s", FormatAmount(ev.AmountCents)),
	}
}

// RefundMessage is the text sent to the customer after cancellation.
func RefundMessage(ev ReservationEvent) string {
	return fmt.Sprintf("Reservation cancelled - refund of %s processed for %s",
		FormatAmount(ev.AmountCents), ev.CustomerEmail)
}

// LogNotifier writes the customer messages to a logger.
type LogNotifier struct {
	Logger *log.Logger
}

// NewLogNotifier returns a LogNotifier writing to l, or to the standard
// logger when l is nil.
func NewLogNotifier(l *log.Logger) *LogNotifier {
	if l == nil {
		l = log.Default()
	}
	return &LogNotifier{Logger: l}
}

func (n *LogNotifier) ReservationConfirmed(_ context.Context, r model.Reservation) error {
	for _, line := range ConfirmationMessage(EventFrom(r)) {
		n.Logger.Printf("notify: %s", line)
	}
	return nil
}

func (n *LogNotifier) ReservationRefunded(_ context.Context, r model.Reservation) error {
	n.Logger.Printf("notify: %s", RefundMessage(EventFrom(r)))
	return nil
}

// MultiNotifier fans a notification out to every sink.  All sinks are
// tried; their errors are joined.
type MultiNotifier []Notifier

func (m MultiNotifier) ReservationConfirmed(ctx context.Context, r model.Reservation) error {
	var errs []error
	for _, n := range m {
		if err := n.ReservationConfirmed(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiNotifier) ReservationRefunded(ctx context.Context, r model.Reservation) error {
	var errs []error
	for _, n := range m {
		if err := n.ReservationRefunded(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
