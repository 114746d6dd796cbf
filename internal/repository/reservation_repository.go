package repository

import "github.com/iliyamo/table-reservation/internal/model"

// ReservationRepo is the reservation ledger.  Records are kept in
// insertion order and are never deleted; cancellation is a status.
type ReservationRepo struct {
	store *Store
}

// NewReservationRepo returns a ReservationRepo bound to store.
func NewReservationRepo(store *Store) *ReservationRepo { return &ReservationRepo{store: store} }

// All returns every reservation in insertion order.
func (r *ReservationRepo) All() []model.Reservation {
	var out []model.Reservation
	_ = r.store.View(func(tx *Tx) error {
		out = tx.Reservations()
		return nil
	})
	return out
}

// ByUser returns the reservations whose UserID equals userID.
func (r *ReservationRepo) ByUser(userID string) []model.Reservation {
	out := make([]model.Reservation, 0)
	_ = r.store.View(func(tx *Tx) error {
		for _, res := range tx.Reservations() {
			if res.UserID == userID {
				out = append(out, res)
			}
		}
		return nil
	})
	return out
}

// ByID returns a single reservation.
func (r *ReservationRepo) ByID(id string) (res model.Reservation, ok bool) {
	_ = r.store.View(func(tx *Tx) error {
		res, ok = tx.Reservation(id)
		return nil
	})
	return res, ok
}

// ActiveOnDate returns the non-cancelled reservations for date.
func (r *ReservationRepo) ActiveOnDate(date string) []model.Reservation {
	var out []model.Reservation
	_ = r.store.View(func(tx *Tx) error {
		out = tx.ActiveOnDate(date)
		return nil
	})
	return out
}

// Insert appends res, generating its ID and CreatedAt when empty.
func (r *ReservationRepo) Insert(res model.Reservation) model.Reservation {
	var stored model.Reservation
	_ = r.store.Update(func(tx *Tx) error {
		stored = tx.InsertReservation(res)
		return nil
	})
	return stored
}

// Update merges p into the reservation with the given ID.  ok is false
// when the reservation does not exist.
func (r *ReservationRepo) Update(id string, p model.ReservationPatch) (res model.Reservation, ok bool) {
	_ = r.store.Update(func(tx *Tx) error {
		res, ok = tx.UpdateReservation(id, p)
		return nil
	})
	return res, ok
}
