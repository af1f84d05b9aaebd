package scheduling

import (
	"time"

	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

// SlotRange is the projection of a slot exposed to callers of the
// availability query.
type SlotRange struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Covers reports whether instant t falls inside the slot's [start, end)
// interval.
func Covers(s *models.Slot, t time.Time) bool {
	return !t.Before(s.StartTime) && t.Before(s.EndTime)
}

// Overlaps reports whether two half-open ranges intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidateRange rejects empty or inverted ranges.
func ValidateRange(start, end time.Time) error {
	if !end.After(start) {
		return httperr.ErrBusiness("invalid_date_or_time")
	}
	return nil
}

// OpenRanges projects the unbooked slots. Filtering is purely by the booked
// flag; there is no expiry sweep for ranges already in the past.
func OpenRanges(slots []models.Slot) []SlotRange {
	ranges := make([]SlotRange, 0, len(slots))
	for i := range slots {
		if slots[i].Booked {
			continue
		}
		ranges = append(ranges, SlotRange{
			ID:    slots[i].ID,
			Start: slots[i].StartTime,
			End:   slots[i].EndTime,
		})
	}
	return ranges
}
