package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"staybook/internal/domain"
)

// ---- in-memory store ----
//
// memStore implements domain.Store with real transaction semantics: InTx
// works on a copy and swaps it in only when fn succeeds, and a mutex
// serializes transactions the way row locks would.

type memStore struct {
	mu       sync.Mutex
	rooms    map[string]domain.RoomType
	nights   map[domain.NightKey]int
	users    map[int64]domain.User
	bookings map[int64]domain.Booking
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    map[string]domain.RoomType{},
		nights:   map[domain.NightKey]int{},
		users:    map[int64]domain.User{},
		bookings: map[int64]domain.Booking{},
	}
}

func (m *memStore) seedRoom(rt domain.RoomType, from, to string, total int) {
	m.rooms[rt.ID] = rt
	start, _ := time.Parse("2006-01-02", from)
	end, _ := time.Parse("2006-01-02", to)
	for d := domain.Night(start); !d.After(domain.Night(end)); d = d.AddDate(0, 0, 1) {
		m.nights[domain.NightKey{TypeID: rt.ID, Date: d}] = total
	}
}

func (m *memStore) snapshotNights() map[domain.NightKey]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.NightKey]int, len(m.nights))
	for k, v := range m.nights {
		out[k] = v
	}
	return out
}

func (m *memStore) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) GetUser(ctx context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memStore) UpsertRoomType(ctx context.Context, rt domain.RoomType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[rt.ID] = rt
	return nil
}

func (m *memStore) SeedNights(ctx context.Context, typeID string, nights []time.Time, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range nights {
		key := domain.NightKey{TypeID: typeID, Date: domain.Night(n)}
		if _, ok := m.nights[key]; !ok {
			m.nights[key] = total
		}
	}
	return nil
}

func (m *memStore) SearchAvailability(ctx context.Context, checkin, checkout time.Time, guests int) ([]domain.RoomOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nights := domain.NightsBetween(checkin, checkout)
	var out []domain.RoomOption
	for _, rt := range m.rooms {
		if rt.Capacity < guests {
			continue
		}
		count, min := 0, int(^uint(0)>>1)
		for _, nk := range domain.StayNights(rt.ID, checkin, checkout) {
			rem, ok := m.nights[nk]
			if !ok {
				continue
			}
			count++
			if rem < min {
				min = rem
			}
		}
		if count != nights {
			continue
		}
		out = append(out, domain.RoomOption{TypeID: rt.ID, Name: rt.Name, Description: rt.Description, Remaining: min})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeID < out[j].TypeID })
	return out, nil
}

func (m *memStore) ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetRemaining(ctx context.Context, key domain.NightKey) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rem, ok := m.nights[key]
	return rem, ok, nil
}

func (m *memStore) InTx(ctx context.Context, fn func(domain.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		nights:   make(map[domain.NightKey]int, len(m.nights)),
		bookings: make(map[int64]domain.Booking, len(m.bookings)),
		nextID:   m.nextID,
	}
	for k, v := range m.nights {
		tx.nights[k] = v
	}
	for k, v := range m.bookings {
		tx.bookings[k] = v
	}

	if err := fn(tx); err != nil {
		return err // rollback: the copies are discarded
	}
	m.nights = tx.nights
	m.bookings = tx.bookings
	m.nextID = tx.nextID
	return nil
}

type memTx struct {
	nights   map[domain.NightKey]int
	bookings map[int64]domain.Booking
	nextID   int64
}

func (t *memTx) DecrementNight(ctx context.Context, key domain.NightKey) error {
	rem, ok := t.nights[key]
	if !ok || rem < 1 {
		return &domain.CapacityError{TypeID: key.TypeID, Night: key.Date}
	}
	t.nights[key] = rem - 1
	return nil
}

func (t *memTx) RestoreNight(ctx context.Context, key domain.NightKey) error {
	if _, ok := t.nights[key]; ok {
		t.nights[key]++
	}
	return nil
}

func (t *memTx) InsertBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	t.nextID++
	b.ID = t.nextID
	b.CreatedAt = time.Now().UTC()
	t.bookings[b.ID] = b
	return b, nil
}

func (t *memTx) BookingOwnedBy(ctx context.Context, id, userID int64) (domain.Booking, error) {
	b, ok := t.bookings[id]
	if !ok || b.UserID != userID {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (t *memTx) DeleteBooking(ctx context.Context, id int64) error {
	delete(t.bookings, id)
	return nil
}

// ---- fake cache ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DelPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.store {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.store, k)
		}
	}
	return nil
}

func (c *fakeCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// ---- fake credentials & tokens ----

type fakeCreds struct{}

func (fakeCreds) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (fakeCreds) Verify(hash, plain string) bool    { return hash == "hashed:"+plain }

type fakeTokens struct{}

func (fakeTokens) Issue(u domain.User) (string, time.Time, error) {
	return fmt.Sprintf("token-%d", u.ID), time.Now().Add(time.Hour), nil
}

func (fakeTokens) Verify(raw string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(raw, "token-%d", &id); err != nil {
		return 0, domain.ErrUnauthorized
	}
	return id, nil
}
