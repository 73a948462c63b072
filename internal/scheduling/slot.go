package scheduling

import "fmt"

// The working day is divided into 16 half-hour slots from 09:00 to
// 17:00, partitioned into urgency bands: high urgency (>= 8) gets the
// morning (slots 0-5, 09:00-12:00), medium (4-7) the early afternoon
// (slots 6-11, 12:00-15:00), low (< 4) the late afternoon (slots
// 12-15, 15:00-17:00, four slots only).
const (
	baseHour = 9

	highBandStart   = 0
	highBandSize    = 6
	mediumBandStart = 6
	mediumBandSize  = 6
	lowBandStart    = 12
	lowBandSize     = 4
)

// TimeOfDay is a half-hour slot within business hours.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String renders the slot as "HH:MM" for storage and display.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// GenerateSlot deterministically picks a time-of-day slot for a new
// appointment. Within a band the slot cycles with the doctor's
// existing same-day appointment count, so repeated bookings spread
// through the band instead of stacking on one offset. Collisions after
// the count wraps past the band size are accepted; this is not a
// real-time conflict check.
func GenerateSlot(urgencyLevel, existingCount int) TimeOfDay {
	var index int
	switch {
	case urgencyLevel >= 8:
		index = highBandStart + existingCount%highBandSize
	case urgencyLevel >= 4:
		index = mediumBandStart + existingCount%mediumBandSize
	default:
		index = lowBandStart + existingCount%lowBandSize
	}

	return TimeOfDay{
		Hour:   baseHour + index/2,
		Minute: 30 * (index % 2),
	}
}
