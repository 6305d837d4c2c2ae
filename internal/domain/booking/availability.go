package booking

import "courtside/internal/domain/shared/timeslot"

// FirstConflict returns the first active booking whose slot overlaps the
// candidate, or nil when the slot is free. Pure over its inputs: repeating
// the call without intervening writes yields the same answer.
func FirstConflict(candidate timeslot.Slot, existing []*Booking) *Booking {
	for _, b := range existing {
		if !b.IsActive() {
			continue
		}
		if b.Slot.Overlaps(candidate) {
			return b
		}
	}
	return nil
}
