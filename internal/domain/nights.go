package domain

import "time"

// NightKey identifies one room type's inventory counter for one calendar night.
type NightKey struct {
	TypeID string
	Date   time.Time // midnight UTC
}

// Night maps an instant to its night key date: midnight UTC of the same
// calendar date. Check-in/check-out arrive as arbitrary date-times; inventory
// is tracked per calendar night, so every comparison goes through this.
func Night(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightsBetween counts the calendar nights a [checkin, checkout) stay
// occupies. Zero or negative means the stay is not bookable.
func NightsBetween(checkin, checkout time.Time) int {
	return int(Night(checkout).Sub(Night(checkin)) / (24 * time.Hour))
}

// StayNights expands a stay into one key per occupied night, checkout
// exclusive. A non-positive span yields nil.
func StayNights(typeID string, checkin, checkout time.Time) []NightKey {
	n := NightsBetween(checkin, checkout)
	if n <= 0 {
		return nil
	}
	keys := make([]NightKey, 0, n)
	first := Night(checkin)
	for i := 0; i < n; i++ {
		keys = append(keys, NightKey{TypeID: typeID, Date: first.AddDate(0, 0, i)})
	}
	return keys
}
