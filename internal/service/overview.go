package service

import (
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Overview partitions one customer's reservations the way their
// dashboard shows them.
type Overview struct {
	Active    []model.Reservation `json:"active"`
	Past      []model.Reservation `json:"past"`
	Cancelled []model.Reservation `json:"cancelled"`
}

// Stats summarises the ledger for the admin dashboard.
type Stats struct {
	Today             []model.Reservation `json:"today"`
	Upcoming          []model.Reservation `json:"upcoming"`
	TotalRevenueCents int64               `json:"total_revenue_cents"`
	TableCount        int                 `json:"table_count"`
}

// UserOverview splits userID's reservations into active (confirmed, not
// yet started), past (confirmed, started) and cancelled.  Pending ones
// and confirmed ones with an unparsable date or time are left out.
func (s *ReservationService) UserOverview(userID string) Overview {
	now := s.now()
	ov := Overview{
		Active:    []model.Reservation{},
		Past:      []model.Reservation{},
		Cancelled: []model.Reservation{},
	}
	for _, r := range s.reservations.ByUser(userID) {
		switch r.Status {
		case model.StatusCancelled:
			ov.Cancelled = append(ov.Cancelled, r)
		case model.StatusConfirmed:
			start, ok := r.StartsAt(s.loc)
			if !ok {
				continue
			}
			if start.Before(now) {
				ov.Past = append(ov.Past, r)
			} else {
				ov.Active = append(ov.Active, r)
			}
		}
	}
	return ov
}

// Stats returns today's confirmed reservations, every confirmed
// reservation that has not started yet and the revenue of all paid
// reservations.
func (s *ReservationService) Stats() Stats {
	now := s.now()
	today := now.In(s.loc).Format(time.DateOnly)
	st := Stats{
		Today:      []model.Reservation{},
		Upcoming:   []model.Reservation{},
		TableCount: len(s.settings.Get().Tables),
	}
	for _, r := range s.reservations.All() {
		if r.PaymentStatus == model.PaymentPaid {
			st.TotalRevenueCents += r.AmountCents
		}
		if r.Status != model.StatusConfirmed {
			continue
		}
		if r.Date == today {
			st.Today = append(st.Today, r)
		}
		if start, ok := r.StartsAt(s.loc); ok && !start.Before(now) {
			st.Upcoming = append(st.Upcoming, r)
		}
	}
	return st
}
