package app

import (
	"context"
	"fmt"

	"staybook/internal/domain"
)

type ReservationService struct {
	store domain.Store
	cache domain.Cache
}

func NewReservationService(s domain.Store, c domain.Cache) *ReservationService {
	return &ReservationService{store: s, cache: c}
}

// Confirm books every item of the request or none of them. Each item's nights
// are decremented one by one inside a single transaction; the first night
// without capacity aborts the whole request, and the store rolls back every
// decrement and booking staged so far.
func (s *ReservationService) Confirm(ctx context.Context, userID int64, items []domain.StayItem) ([]domain.Booking, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Reason: "no stay items in request"}
	}
	// Validate everything before touching the ledger.
	for _, it := range items {
		if it.TypeID == "" {
			return nil, &domain.ValidationError{Reason: "stay item is missing a room type"}
		}
		if it.Guests < 1 {
			return nil, &domain.ValidationError{Reason: fmt.Sprintf("stay for %s needs at least one guest", it.TypeID)}
		}
		if domain.NightsBetween(it.Checkin, it.Checkout) < 1 {
			return nil, &domain.ValidationError{Reason: fmt.Sprintf("stay for %s spans no nights", it.TypeID)}
		}
	}

	var created []domain.Booking
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		for _, it := range items {
			for _, nk := range domain.StayNights(it.TypeID, it.Checkin, it.Checkout) {
				if err := tx.DecrementNight(ctx, nk); err != nil {
					return err
				}
			}
			b, err := tx.InsertBooking(ctx, domain.Booking{
				UserID:   userID,
				TypeID:   it.TypeID,
				Checkin:  it.Checkin,
				Checkout: it.Checkout,
				Guests:   it.Guests,
			})
			if err != nil {
				return err
			}
			created = append(created, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.DelPrefix(ctx, availPrefix)
	return created, nil
}

// Cancel removes the caller's booking and gives back exactly the capacity it
// consumed, night for night. Nights outside the seeded range restore as
// no-ops, mirroring how they were consumed.
func (s *ReservationService) Cancel(ctx context.Context, userID, bookingID int64) error {
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		b, err := tx.BookingOwnedBy(ctx, bookingID, userID)
		if err != nil {
			return err
		}
		for _, nk := range domain.StayNights(b.TypeID, b.Checkin, b.Checkout) {
			if err := tx.RestoreNight(ctx, nk); err != nil {
				return err
			}
		}
		return tx.DeleteBooking(ctx, b.ID)
	})
	if err != nil {
		return err
	}

	_ = s.cache.DelPrefix(ctx, availPrefix)
	return nil
}

func (s *ReservationService) List(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.store.ListBookings(ctx, userID)
}
