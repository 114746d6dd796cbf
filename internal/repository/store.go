package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Listener is called synchronously after every successful mutation.
type Listener func(model.Change)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Store owns the restaurant settings, the table inventory and the
// reservation ledger of one process.  A single RWMutex guards all of
// them so that reads see a consistent snapshot and multi-step writes
// (pick a table, then insert a reservation) cannot interleave.
type Store struct {
	mu           sync.RWMutex
	settings     model.Settings
	reservations []model.Reservation

	lmu       sync.Mutex
	listeners []listenerEntry
	nextID    uint64

	newID func() string
	now   func() time.Time
}

// NewStore builds a Store from initial settings and reservations.  Both
// are copied.
func NewStore(settings model.Settings, reservations []model.Reservation) *Store {
	res := make([]model.Reservation, len(reservations))
	copy(res, reservations)
	return &Store{
		settings:     settings.Clone(),
		reservations: res,
		newID:        newTimeOrderedID,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// newTimeOrderedID returns a UUIDv7 string: unique and sortable by
// creation time.
func newTimeOrderedID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Subscribe registers fn and returns a function that removes it.
// Listeners run in registration order.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.lmu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			defer s.lmu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Update runs fn with exclusive access to the store.  Changes recorded
// by fn are delivered to listeners after the lock is released and
// before Update returns, even when fn returns an error: mutations are
// never rolled back.
func (s *Store) Update(fn func(tx *Tx) error) error {
	tx := &Tx{store: s, writable: true}
	listeners, err := s.runLocked(tx, fn)
	for _, ch := range tx.changes {
		for _, l := range listeners {
			l.fn(ch)
		}
	}
	return err
}

// View runs fn with shared access to the store.  Calling a mutating
// Tx method inside View panics.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{store: s})
}

func (s *Store) runLocked(tx *Tx, fn func(tx *Tx) error) ([]listenerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(tx)
	if len(tx.changes) == 0 {
		return nil, err
	}
	// listeners registered at mutation time
	s.lmu.Lock()
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.lmu.Unlock()
	return listeners, err
}

// Tx is the view of the store handed to Update and View callbacks.  It
// must not be retained after the callback returns.
type Tx struct {
	store    *Store
	writable bool
	changes  []model.Change
}

func (tx *Tx) mustWrite() {
	if !tx.writable {
		panic("repository: mutation inside read-only transaction")
	}
}

func (tx *Tx) record(kind model.ChangeKind, id string) {
	tx.changes = append(tx.changes, model.Change{Kind: kind, ID: id})
}

// Settings returns a snapshot of the current settings.
func (tx *Tx) Settings() model.Settings { return tx.store.settings.Clone() }

// Reservations returns a copy of the ledger in insertion order.
func (tx *Tx) Reservations() []model.Reservation {
	out := make([]model.Reservation, len(tx.store.reservations))
	copy(out, tx.store.reservations)
	return out
}

// Reservation looks up a reservation by ID.
func (tx *Tx) Reservation(id string) (model.Reservation, bool) {
	if i := tx.indexOfReservation(id); i >= 0 {
		return tx.store.reservations[i], true
	}
	return model.Reservation{}, false
}

// ActiveOnDate returns the non-cancelled reservations for date.
func (tx *Tx) ActiveOnDate(date string) []model.Reservation {
	var out []model.Reservation
	for _, r := range tx.store.reservations {
		if r.Date == date && r.Active() {
			out = append(out, r)
		}
	}
	return out
}

func (tx *Tx) indexOfReservation(id string) int {
	for i := range tx.store.reservations {
		if tx.store.reservations[i].ID == id {
			return i
		}
	}
	return -1
}

// ApplySettings merges p into the settings.
func (tx *Tx) ApplySettings(p model.SettingsPatch) {
	tx.mustWrite()
	p.Apply(&tx.store.settings)
	tx.record(model.ChangeSettings, "")
}

// AddTable appends a table with a fresh ID.  Duplicate numbers are
// accepted.
func (tx *Tx) AddTable(nt model.NewTable) model.Table {
	tx.mustWrite()
	t := model.Table{
		ID:          tx.store.newID(),
		Number:      nt.Number,
		Capacity:    nt.Capacity,
		IsAvailable: nt.IsAvailable,
	}
	tx.store.settings.Tables = append(tx.store.settings.Tables, t)
	tx.record(model.ChangeTables, t.ID)
	return t
}

// UpdateTable merges p into the table with the given ID.  It reports
// false, without recording a change, when no such table exists.
func (tx *Tx) UpdateTable(id string, p model.TablePatch) (model.Table, bool) {
	tx.mustWrite()
	for i := range tx.store.settings.Tables {
		if tx.store.settings.Tables[i].ID == id {
			p.Apply(&tx.store.settings.Tables[i])
			tx.record(model.ChangeTables, id)
			return tx.store.settings.Tables[i], true
		}
	}
	return model.Table{}, false
}

// RemoveTable drops the table with the given ID and reports whether one
// was removed.  A change is recorded either way.
func (tx *Tx) RemoveTable(id string) bool {
	tx.mustWrite()
	removed := false
	kept := tx.store.settings.Tables[:0]
	for _, t := range tx.store.settings.Tables {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	tx.store.settings.Tables = kept
	tx.record(model.ChangeTables, id)
	return removed
}

// InsertReservation appends r to the ledger, filling in ID and
// CreatedAt when they are empty, and returns the stored record.
func (tx *Tx) InsertReservation(r model.Reservation) model.Reservation {
	tx.mustWrite()
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = tx.store.now()
	}
	tx.store.reservations = append(tx.store.reservations, r)
	tx.record(model.ChangeReservations, r.ID)
	return r
}

// UpdateReservation merges p into the reservation with the given ID.
func (tx *Tx) UpdateReservation(id string, p model.ReservationPatch) (model.Reservation, bool) {
	tx.mustWrite()
	i := tx.indexOfReservation(id)
	if i < 0 {
		return model.Reservation{}, false
	}
	p.Apply(&tx.store.reservations[i])
	tx.record(model.ChangeReservations, id)
	return tx.store.reservations[i], true
}
