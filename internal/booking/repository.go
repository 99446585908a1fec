package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Query selects a slice of a user's bookings: the State dimension plus the
// "skip offset, return limit" pagination window. Now anchors the time-based
// states so one snapshot drives the whole query.
type Query struct {
	State  State
	Now    time.Time
	Offset int
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)

	// ListByBooker and ListByOwner return bookings ordered by start descending.
	ListByBooker(ctx context.Context, bookerID int64, q Query) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, q Query) ([]*Booking, error)

	// ExistsOverlapping reports whether an APPROVED booking for the item has a
	// window intersecting [start, end], boundaries included.
	ExistsOverlapping(ctx context.Context, itemID int64, start, end time.Time) (bool, error)

	// LastForItem and NextForItem resolve the most recently started and the
	// next upcoming APPROVED booking around now. They return nil when none exists.
	LastForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	NextForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_ts", "end_ts", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		// The schema excludes overlapping approved windows per item, so a
		// concurrent conflicting insert surfaces here instead of racing past
		// the ExistsOverlapping check.
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ExclusionViolation {
			return ErrAlreadyBooked
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		// Approving a booking whose window collides with an already-approved
		// one trips the same exclusion constraint.
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ExclusionViolation {
			return ErrAlreadyBooked
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var b Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) ListByBooker(ctx context.Context, bookerID int64, q Query) ([]*Booking, error) {
	return r.list(ctx, squirrel.Eq{"b.booker_id": bookerID}, q)
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, q Query) ([]*Booking, error) {
	return r.list(ctx, squirrel.Eq{"i.owner_id": ownerID}, q)
}

func (r *pgxRepository) list(ctx context.Context, role squirrel.Sqlizer, q Query) ([]*Booking, error) {
	builder := selectBookings().
		Where(role).
		OrderBy("b.start_ts DESC").
		Offset(uint64(q.Offset)).
		Limit(uint64(q.Limit))

	if pred := statePredicate(q); pred != nil {
		builder = builder.Where(pred)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

// statePredicate maps a State to its WHERE clause. ALL has no predicate.
func statePredicate(q Query) squirrel.Sqlizer {
	switch q.State {
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_ts": q.Now},
			squirrel.GtOrEq{"b.end_ts": q.Now},
		}
	case StatePast:
		return squirrel.Lt{"b.end_ts": q.Now}
	case StateFuture:
		return squirrel.Gt{"b.start_ts": q.Now}
	case StateWaiting:
		return squirrel.Eq{"b.status": StatusWaiting}
	case StateRejected:
		return squirrel.Eq{"b.status": StatusRejected}
	default:
		return nil
	}
}

func (r *pgxRepository) ExistsOverlapping(ctx context.Context, itemID int64, start, end time.Time) (bool, error) {
	// Inclusive overlap: an existing window conflicts when its start or end
	// falls inside [start, end], or when it fully covers the requested window.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"status": StatusApproved}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.GtOrEq{"start_ts": start},
				squirrel.LtOrEq{"start_ts": end},
			},
			squirrel.And{
				squirrel.GtOrEq{"end_ts": start},
				squirrel.LtOrEq{"end_ts": end},
			},
			squirrel.And{
				squirrel.LtOrEq{"start_ts": start},
				squirrel.GtOrEq{"end_ts": end},
			},
		})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) LastForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.neighbour(ctx, itemID, squirrel.Lt{"b.start_ts": now}, "b.start_ts DESC")
}

func (r *pgxRepository) NextForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.neighbour(ctx, itemID, squirrel.Gt{"b.start_ts": now}, "b.start_ts ASC")
}

func (r *pgxRepository) neighbour(ctx context.Context, itemID int64, timePred squirrel.Sqlizer, order string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.Eq{"b.status": StatusApproved}).
		Where(timePred).
		OrderBy(order).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build neighbour booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var b Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("neighbour booking query failed: %w", err)
	}
	return &b, nil
}

func selectBookings() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id",
		"b.booker_id", "u.name",
		"b.start_ts", "b.end_ts", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row, b *Booking) error {
	return row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID,
		&b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt,
	)
}
