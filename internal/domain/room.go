package domain

import "time"

type RoomType struct {
	ID          string
	Name        string
	Description *string
	Capacity    int // max guests per room, not room count
}

// LedgerEntry is the remaining-room counter for one room type on one night.
// At most one entry exists per (TypeID, Night) pair.
type LedgerEntry struct {
	TypeID    string
	Night     time.Time // midnight UTC
	Remaining int
}

// RoomOption is one row of an availability search result. Remaining is the
// minimum across every night of the requested range (the scarcest night binds).
type RoomOption struct {
	TypeID      string
	Name        string
	Description *string
	Remaining   int
}
