package repository

import "github.com/iliyamo/table-reservation/internal/model"

// SettingsRepo is the settings/table registry.  Every mutation goes
// through the shared Store so it is serialised with ledger writes and
// triggers a change notification.
type SettingsRepo struct {
	store *Store
}

// NewSettingsRepo returns a SettingsRepo bound to store.
func NewSettingsRepo(store *Store) *SettingsRepo { return &SettingsRepo{store: store} }

// Get returns a snapshot of the current settings.
func (r *SettingsRepo) Get() model.Settings {
	var s model.Settings
	_ = r.store.View(func(tx *Tx) error {
		s = tx.Settings()
		return nil
	})
	return s
}

// Update merges the given fields into the settings.  Omitted fields
// keep their value; nothing is validated.
func (r *SettingsRepo) Update(p model.SettingsPatch) model.Settings {
	var s model.Settings
	_ = r.store.Update(func(tx *Tx) error {
		tx.ApplySettings(p)
		s = tx.Settings()
		return nil
	})
	return s
}

// AddTable appends a new table with a generated ID.
func (r *SettingsRepo) AddTable(nt model.NewTable) model.Table {
	var t model.Table
	_ = r.store.Update(func(tx *Tx) error {
		t = tx.AddTable(nt)
		return nil
	})
	return t
}

// UpdateTable merges p into the table with the given ID.  ok is false
// when the table does not exist.
func (r *SettingsRepo) UpdateTable(id string, p model.TablePatch) (t model.Table, ok bool) {
	_ = r.store.Update(func(tx *Tx) error {
		t, ok = tx.UpdateTable(id, p)
		return nil
	})
	return t, ok
}

// RemoveTable deletes the table with the given ID.  Reservations that
// reference its number are left untouched.
func (r *SettingsRepo) RemoveTable(id string) bool {
	var removed bool
	_ = r.store.Update(func(tx *Tx) error {
		removed = tx.RemoveTable(id)
		return nil
	})
	return removed
}
