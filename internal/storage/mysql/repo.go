package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"staybook/internal/domain"
)

const (
	nightFmt = "2006-01-02"
	dtFmt    = "2006-01-02 15:04:05"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.FullName, u.Email, u.PasswordHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserByUsernameSQL, username))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// ---- catalog & seeding ----

func (r *Repo) UpsertRoomType(ctx context.Context, rt domain.RoomType) error {
	_, err := r.db.ExecContext(ctx, upsertRoomTypeSQL,
		rt.ID, rt.Name, valStr(rt.Description), rt.Capacity)
	return err
}

func (r *Repo) SeedNights(ctx context.Context, typeID string, nights []time.Time, total int) error {
	if len(nights) == 0 {
		return nil
	}
	values := make([]string, 0, len(nights))
	args := make([]any, 0, len(nights)*3)
	for _, n := range nights {
		values = append(values, "(?,?,?)")
		args = append(args, typeID, domain.Night(n).Format(nightFmt), total)
	}
	sqlStr := seedNightsPrefix + strings.Join(values, ",") + seedNightsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ---- read paths ----

func (r *Repo) SearchAvailability(ctx context.Context, checkin, checkout time.Time, guests int) ([]domain.RoomOption, error) {
	nights := domain.NightsBetween(checkin, checkout)
	if nights <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, searchAvailabilitySQL,
		domain.Night(checkin).Format(nightFmt),
		domain.Night(checkout).Format(nightFmt),
		guests,
		nights,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomOption
	for rows.Next() {
		var opt domain.RoomOption
		var desc sql.NullString
		if err := rows.Scan(&opt.TypeID, &opt.Name, &desc, &opt.Remaining); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			opt.Description = &d
		}
		out = append(out, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetRemaining(ctx context.Context, key domain.NightKey) (int, bool, error) {
	var remaining int
	err := r.db.QueryRowContext(ctx, getRemainingSQL,
		key.TypeID, key.Date.Format(nightFmt)).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return remaining, true, nil
}

// ---- reservation engine unit of work ----

func (r *Repo) InTx(ctx context.Context, fn func(domain.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&Tx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type Tx struct{ tx *sql.Tx }

func (t *Tx) DecrementNight(ctx context.Context, key domain.NightKey) error {
	res, err := t.tx.ExecContext(ctx, decrementNightSQL, key.TypeID, key.Date.Format(nightFmt))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.CapacityError{TypeID: key.TypeID, Night: key.Date}
	}
	return nil
}

func (t *Tx) RestoreNight(ctx context.Context, key domain.NightKey) error {
	// rows affected deliberately ignored: unseeded nights restore as no-ops
	_, err := t.tx.ExecContext(ctx, restoreNightSQL, key.TypeID, key.Date.Format(nightFmt))
	return err
}

func (t *Tx) InsertBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	res, err := t.tx.ExecContext(ctx, insertBookingSQL,
		b.UserID,
		b.TypeID,
		b.Checkin.UTC().Format(dtFmt),
		b.Checkout.UTC().Format(dtFmt),
		b.Guests,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, err
	}
	// query back for created_at and stored timestamps
	out, err := scanBooking(t.tx.QueryRowContext(ctx, getBookingSQL, id).Scan)
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	return out, err
}

func (t *Tx) BookingOwnedBy(ctx context.Context, id, userID int64) (domain.Booking, error) {
	b, err := scanBooking(t.tx.QueryRowContext(ctx, getBookingOwnedSQL, id, userID).Scan)
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (t *Tx) DeleteBooking(ctx context.Context, id int64) error {
	_, err := t.tx.ExecContext(ctx, deleteBookingSQL, id)
	return err
}

// ---- helpers ----

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func scanBooking(scan func(dest ...any) error) (domain.Booking, error) {
	var b domain.Booking
	err := scan(&b.ID, &b.UserID, &b.TypeID, &b.Checkin, &b.Checkout, &b.Guests, &b.CreatedAt)
	if err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}
