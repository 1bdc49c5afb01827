package domain

import (
	"context"
	"time"
)

type Store interface {
	// Users
	CreateUser(ctx context.Context, u User) (int64, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)

	// Catalog & ledger seeding
	UpsertRoomType(ctx context.Context, rt RoomType) error
	SeedNights(ctx context.Context, typeID string, nights []time.Time, total int) error

	// Read paths
	SearchAvailability(ctx context.Context, checkin, checkout time.Time, guests int) ([]RoomOption, error)
	ListBookings(ctx context.Context, userID int64) ([]Booking, error)
	GetRemaining(ctx context.Context, key NightKey) (int, bool, error)

	// InTx runs fn inside one transaction; fn returning an error rolls
	// everything back. The reservation engine's unit of work.
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the transaction-scoped slice of the store the reservation engine
// mutates through. Decrements must be serialized per night key by the
// implementation so two racing confirms cannot both pass the capacity check.
type Tx interface {
	// DecrementNight takes one room for the night. Absent entry or
	// remaining < 1 returns *CapacityError without mutating.
	DecrementNight(ctx context.Context, key NightKey) error
	// RestoreNight gives one room back. A missing entry is a no-op, never
	// an error; the engine only restores what a prior decrement consumed.
	RestoreNight(ctx context.Context, key NightKey) error

	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	// BookingOwnedBy returns ErrNotFound for a missing booking and for one
	// owned by someone else, indistinguishably.
	BookingOwnedBy(ctx context.Context, id, userID int64) (Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}

// Tokens turns users into bearer tokens and back. The reservation engine only
// ever sees the resolved user id.
type Tokens interface {
	Issue(u User) (string, time.Time, error)
	Verify(raw string) (int64, error)
}

type Credentials interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}
