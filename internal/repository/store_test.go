package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func TestSettingsRepoMergeAndSnapshot(t *testing.T) {
	store := NewStore(DefaultSettings(), nil)
	repo := NewSettingsRepo(store)

	closing, price := "22:00", int64(2500)
	got := repo.Update(model.SettingsPatch{ClosingTime: &closing, ReservationPriceCents: &price})
	assert.Equal(t, "18:00", got.OpeningTime)
	assert.Equal(t, "22:00", got.ClosingTime)
	assert.Equal(t, 30, got.SlotDuration)
	assert.Equal(t, int64(2500), got.ReservationPriceCents)
	assert.Len(t, got.Tables, 6)

	// snapshots are detached from the store
	got.Tables[0].Capacity = 99
	assert.Equal(t, 4, repo.Get().Tables[0].Capacity)
}

func TestSettingsRepoTables(t *testing.T) {
	store := NewStore(DefaultSettings(), nil)
	repo := NewSettingsRepo(store)

	tbl := repo.AddTable(model.NewTable{Number: 1, Capacity: 10, IsAvailable: true})
	assert.NotEmpty(t, tbl.ID)
	assert.Len(t, repo.Get().Tables, 7, "duplicate numbers are accepted")

	capacity := 12
	updated, ok := repo.UpdateTable(tbl.ID, model.TablePatch{Capacity: &capacity})
	require.True(t, ok)
	assert.Equal(t, 12, updated.Capacity)
	assert.Equal(t, 1, updated.Number)

	_, ok = repo.UpdateTable("missing", model.TablePatch{Capacity: &capacity})
	assert.False(t, ok)

	assert.True(t, repo.RemoveTable(tbl.ID))
	assert.False(t, repo.RemoveTable(tbl.ID))
	assert.Len(t, repo.Get().Tables, 6)
}

func TestRemoveTableKeepsReservations(t *testing.T) {
	store := NewStore(DefaultSettings(), DemoReservations())
	NewSettingsRepo(store).RemoveTable("1")

	r, ok := NewReservationRepo(store).ByID("1")
	require.True(t, ok)
	require.NotNil(t, r.TableNumber)
	assert.Equal(t, 1, *r.TableNumber)
}

func TestListenersFireAfterMutation(t *testing.T) {
	store := NewStore(DefaultSettings(), nil)
	settings := NewSettingsRepo(store)
	ledger := NewReservationRepo(store)

	var got []model.Change
	unsubscribe := store.Subscribe(func(ch model.Change) {
		// the lock is released before listeners run
		_ = settings.Get()
		got = append(got, ch)
	})

	step := 60
	settings.Update(model.SettingsPatch{SlotDuration: &step})
	r := ledger.Insert(model.Reservation{Date: "2024-06-01", Time: "18:00", Status: model.StatusConfirmed})
	capacity := 3
	settings.UpdateTable("missing", model.TablePatch{Capacity: &capacity})
	settings.RemoveTable("missing")

	require.Len(t, got, 3)
	assert.Equal(t, model.ChangeSettings, got[0].Kind)
	assert.Equal(t, model.Change{Kind: model.ChangeReservations, ID: r.ID}, got[1])
	assert.Equal(t, model.Change{Kind: model.ChangeTables, ID: "missing"}, got[2])

	unsubscribe()
	unsubscribe()
	settings.Update(model.SettingsPatch{SlotDuration: &step})
	assert.Len(t, got, 3)
}

func TestListenersRunInRegistrationOrder(t *testing.T) {
	store := NewStore(DefaultSettings(), nil)
	var order []int
	store.Subscribe(func(model.Change) { order = append(order, 1) })
	store.Subscribe(func(model.Change) { order = append(order, 2) })

	NewReservationRepo(store).Insert(model.Reservation{})
	assert.Equal(t, []int{1, 2}, order)
}

func TestReservationRepo(t *testing.T) {
	store := NewStore(DefaultSettings(), DemoReservations())
	ledger := NewReservationRepo(store)

	r := ledger.Insert(model.Reservation{UserID: "7", Date: "2024-05-27", Time: "19:30", Status: model.StatusConfirmed})
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	all := ledger.All()
	require.Len(t, all, 3)
	assert.Equal(t, r.ID, all[2].ID, "insertion order")

	assert.Len(t, ledger.ByUser("2"), 2)
	assert.NotNil(t, ledger.ByUser("nobody"))
	assert.Empty(t, ledger.ByUser("nobody"))

	cancelled := model.StatusCancelled
	_, ok := ledger.Update("1", model.ReservationPatch{Status: &cancelled})
	require.True(t, ok)
	onDate := ledger.ActiveOnDate("2024-05-27")
	require.Len(t, onDate, 1)
	assert.Equal(t, r.ID, onDate[0].ID)

	_, ok = ledger.Update("missing", model.ReservationPatch{Status: &cancelled})
	assert.False(t, ok)
}

func TestStoreSerializesWriters(t *testing.T) {
	store := NewStore(DefaultSettings(), nil)
	ledger := NewReservationRepo(store)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.Insert(model.Reservation{Status: model.StatusConfirmed})
		}()
	}
	wg.Wait()

	ids := map[string]bool{}
	for _, r := range ledger.All() {
		ids[r.ID] = true
	}
	assert.Len(t, ids, 50)
}

func TestViewRejectsMutation(t *testing.T) {
	store := NewStore(DefaultSettings(), nil)
	assert.Panics(t, func() {
		_ = store.View(func(tx *Tx) error {
			tx.AddTable(model.NewTable{Number: 9, Capacity: 2})
			return nil
		})
	})
}
