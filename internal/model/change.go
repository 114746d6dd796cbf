package model

// ChangeKind names the collection a mutation touched.
type ChangeKind string

const (
	ChangeSettings     ChangeKind = "settings"
	ChangeTables       ChangeKind = "tables"
	ChangeReservations ChangeKind = "reservations"
)

// Change is delivered to store listeners after every successful
// mutation.  ID is the affected record when there is a single one.
type Change struct {
	Kind ChangeKind
	ID   string
}
