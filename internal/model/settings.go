package model

// Settings holds the restaurant-wide configuration the availability
// engine and the reservation service depend on.  There is exactly one
// Settings value per process; it is owned by the repository Store.
//
// OpeningTime and ClosingTime are local wall-clock times in HH:MM
// (24h).  SlotDuration is the step between bookable start times in
// minutes.  ReservationPriceCents is the fee charged per booking.
// None of these are validated against each other.
type Settings struct {
	OpeningTime           string  `json:"opening_time"`
	ClosingTime           string  `json:"closing_time"`
	SlotDuration          int     `json:"slot_duration"`
	ReservationPriceCents int64   `json:"reservation_price_cents"`
	Tables                []Table `json:"tables"`
}

// Clone returns a deep copy so callers can hold a snapshot without
// sharing the tables slice with the store.
func (s Settings) Clone() Settings {
	out := s
	out.Tables = make([]Table, len(s.Tables))
	copy(out.Tables, s.Tables)
	return out
}

// SettingsPatch is a shallow partial update of Settings.  Tables, when
// non-nil, replaces the whole table list.
type SettingsPatch struct {
	OpeningTime           *string  `json:"opening_time,omitempty"`
	ClosingTime           *string  `json:"closing_time,omitempty"`
	SlotDuration          *int     `json:"slot_duration,omitempty"`
	ReservationPriceCents *int64   `json:"reservation_price_cents,omitempty"`
	Tables                *[]Table `json:"tables,omitempty"`
}

// Apply merges the non-nil fields of p into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.OpeningTime != nil {
		s.OpeningTime = *p.OpeningTime
	}
	if p.ClosingTime != nil {
		s.ClosingTime = *p.ClosingTime
	}
	if p.SlotDuration != nil {
		s.SlotDuration = *p.SlotDuration
	}
	if p.ReservationPriceCents != nil {
		s.ReservationPriceCents = *p.ReservationPriceCents
	}
	if p.Tables != nil {
		tables := make([]Table, len(*p.Tables))
		copy(tables, *p.Tables)
		s.Tables = tables
	}
}
