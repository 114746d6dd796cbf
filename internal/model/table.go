package model

// Table is a physical table in the dining room.  Tables are created,
// edited and removed by the administrator.  Reservations refer to a
// table by its Number (the small integer printed on the table), never
// by its ID, so removing a table does not touch existing reservations.
//
// Fields:
//  ID          – generated identifier used for admin CRUD.
//  Number      – user-facing table number used for clash detection.
//  Capacity    – maximum number of guests seated at the table.
//  IsAvailable – admin flag; informational only, availability is
//                derived from the reservation ledger.
type Table struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Capacity    int    `json:"capacity"`
	IsAvailable bool   `json:"is_available"`
}

// NewTable carries the fields an administrator supplies when adding a
// table.  The ID is generated by the registry.
type NewTable struct {
	Number      int  `json:"number"`
	Capacity    int  `json:"capacity"`
	IsAvailable bool `json:"is_available"`
}

// TablePatch is a partial update of a Table.  Nil fields keep their
// previous value.
type TablePatch struct {
	Number      *int  `json:"number,omitempty"`
	Capacity    *int  `json:"capacity,omitempty"`
	IsAvailable *bool `json:"is_available,omitempty"`
}

// Apply merges the non-nil fields of p into t.
func (p TablePatch) Apply(t *Table) {
	if p.Number != nil {
		t.Number = *p.Number
	}
	if p.Capacity != nil {
		t.Capacity = *p.Capacity
	}
	if p.IsAvailable != nil {
		t.IsAvailable = *p.IsAvailable
	}
}
