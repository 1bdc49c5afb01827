package app

import (
	"context"
	"fmt"
	"time"

	"staybook/internal/domain"
)

// availPrefix namespaces every cached availability response; confirm/cancel
// invalidate the whole prefix since any write can shift any cached range.
const availPrefix = "avail:"

type AvailabilityService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewAvailabilityService(s domain.Store, c domain.Cache, ttl time.Duration) *AvailabilityService {
	return &AvailabilityService{store: s, cache: c, cacheTTL: ttl}
}

// Search answers "which room types can host `guests` on every night of
// [checkin, checkout)?". A type qualifies only when a ledger entry exists for
// every single night; the reported remaining is the minimum across them.
func (s *AvailabilityService) Search(ctx context.Context, checkin, checkout time.Time, guests int) ([]domain.RoomOption, error) {
	if domain.NightsBetween(checkin, checkout) <= 0 {
		return []domain.RoomOption{}, nil
	}

	key := availabilityKey(checkin, checkout, guests)
	var out []domain.RoomOption
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	out, err := s.store.SearchAvailability(ctx, checkin, checkout, guests)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.RoomOption{}
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func availabilityKey(checkin, checkout time.Time, guests int) string {
	return fmt.Sprintf("%s%s:%s:%d",
		availPrefix,
		domain.Night(checkin).Format("2006-01-02"),
		domain.Night(checkout).Format("2006-01-02"),
		guests,
	)
}
