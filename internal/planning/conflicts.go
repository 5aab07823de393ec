package planning

import (
	"time"

	"github.com/Luckywi/admin-balzac/pkg/model"
)

// ConflictIndex holds the rdvs already booked for one staff member on one
// calendar date, projected onto clock-time ranges for overlap tests.
type ConflictIndex struct {
	booked []Range
}

// NewConflictIndex filters rdvs down to those starting on date for the
// given staff member. The input may safely contain the whole collection.
func NewConflictIndex(staffID string, date time.Time, rdvs []*model.Rdv) *ConflictIndex {
	idx := &ConflictIndex{}
	for _, rdv := range rdvs {
		if rdv == nil || rdv.StaffID != staffID {
			continue
		}
		if !SameDay(rdv.Start, date) {
			continue
		}
		r := Range{Start: ClockOf(rdv.Start), End: ClockOf(rdv.End)}
		if !r.WellFormed() {
			continue
		}
		idx.booked = append(idx.booked, r)
	}
	return idx
}

// Conflicts reports whether the candidate overlaps any existing rdv.
// Half-open semantics: starting exactly when a prior booking ends is fine.
func (idx *ConflictIndex) Conflicts(candidate Range) bool {
	for _, b := range idx.booked {
		if b.Overlaps(candidate) {
			return true
		}
	}
	return false
}
