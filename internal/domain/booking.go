package domain

import "time"

// StayItem is one requested stay within a confirm request.
type StayItem struct {
	TypeID   string
	Checkin  time.Time
	Checkout time.Time
	Guests   int
}

type Booking struct {
	ID        int64
	UserID    int64
	TypeID    string
	Checkin   time.Time
	Checkout  time.Time
	Guests    int
	CreatedAt time.Time
}
