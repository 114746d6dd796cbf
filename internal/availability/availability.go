// Package availability derives bookable start times from the restaurant
// settings and the reservations already taken for a date.
//
// A slot is a single start time, not an interval: a reservation at
// 19:00 blocks its table at 19:00 only.  Slots are generated from the
// opening time in SlotDuration steps while the start is strictly before
// the closing time.
package availability

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ParseClock converts "HH:MM" into minutes after midnight.  "24:00" is
// accepted as end of day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: missing ':'", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("clock %q: bad hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q: bad minute", s)
	}
	if h == 24 && m != 0 {
		return 0, fmt.Errorf("clock %q: past end of day", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateSlots lists every candidate start time in [opening, closing).
// It returns nil when either clock is unparsable or the step is not
// positive.
func GenerateSlots(s model.Settings) []string {
	open, err := ParseClock(s.OpeningTime)
	if err != nil {
		return nil
	}
	closing, err := ParseClock(s.ClosingTime)
	if err != nil {
		return nil
	}
	if s.SlotDuration <= 0 {
		return nil
	}
	var slots []string
	for cur := open; cur < closing; cur += s.SlotDuration {
		slots = append(slots, FormatClock(cur))
	}
	return slots
}

// FreeTables returns, in registry order, the tables that seat partySize
// and are not taken at slot on date.  Cancelled reservations and
// reservations for other dates never block a table.  The table's
// IsAvailable flag is not consulted.
func FreeTables(date, slot string, partySize int, s model.Settings, reservations []model.Reservation) []model.Table {
	taken := takenAt(date, slot, reservations)
	var out []model.Table
	for _, t := range s.Tables {
		if t.Capacity < partySize {
			continue
		}
		if taken[t.Number] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// AvailableSlots returns the slots for which at least one table seating
// partySize is free, in ascending order.
func AvailableSlots(date string, partySize int, s model.Settings, reservations []model.Reservation) []string {
	out := make([]string, 0)
	for _, slot := range GenerateSlots(s) {
		if len(FreeTables(date, slot, partySize, s, reservations)) > 0 {
			out = append(out, slot)
		}
	}
	return out
}

// takenAt collects the table numbers held at (date, slot).
func takenAt(date, slot string, reservations []model.Reservation) map[int]bool {
	taken := make(map[int]bool)
	for _, r := range reservations {
		if r.Date != date || r.Time != slot || !r.Active() || r.TableNumber == nil {
			continue
		}
		taken[*r.TableNumber] = true
	}
	return taken
}
