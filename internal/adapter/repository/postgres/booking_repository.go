package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports"
)

const (
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
)

var activeStatuses = []string{
	string(domain.BookingPending),
	string(domain.BookingConfirmed),
	string(domain.BookingCompleted),
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type BookingRepository struct {
	db *sql.DB
	q  querier
	tx bool
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db, q: db}
}

const bookingColumns = `b.id, b.property_id, b.requester_id, b.scheduled_at, b.type, b.status, b.notes, b.version,
	b.created_at, b.updated_at, b.confirmed_at, b.completed_at, b.cancelled_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var notes sql.NullString
	var confirmedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.PropertyID,
		&b.RequesterID,
		&b.ScheduledAt,
		&b.Type,
		&b.Status,
		&notes,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
		&confirmedAt,
		&completedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		b.Notes = &notes.String
	}
	if confirmedAt.Valid {
		b.ConfirmedAt = &confirmedAt.Time
	}
	if completedAt.Valid {
		b.CompletedAt = &completedAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}

	return &b, nil
}

// WithPropertyLock runs fn inside one transaction holding a transaction-scoped advisory
// lock on the property, so concurrent check-then-commit sequences for it run one at a time.
func (r *BookingRepository) WithPropertyLock(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context, repo ports.BookingRepository) error) error {
	if r.tx {
		return fn(ctx, r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, propertyID.String()); err != nil {
		return fmt.Errorf("failed to lock property %s: %w", propertyID, err)
	}

	if err := fn(ctx, &BookingRepository{db: r.db, q: tx, tx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapWriteError(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	b, err := scanBooking(r.q.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("booking", bookingID)
		}
		return nil, err
	}

	return b, nil
}

func (r *BookingRepository) ListActiveByProperty(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
	FROM bookings b
	WHERE b.property_id = $1 AND b.status = ANY($2) AND b.scheduled_at >= $3 AND b.scheduled_at < $4
	ORDER BY b.scheduled_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, propertyID, pq.Array(activeStatuses), from, to)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (id, property_id, requester_id, scheduled_at, reserved_from, reserved_until, type, status, notes, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.PropertyID,
		booking.RequesterID,
		booking.ScheduledAt,
		booking.ScheduledAt.Add(-domain.ConflictBuffer),
		booking.ScheduledAt.Add(domain.ConflictBuffer),
		booking.Type,
		booking.Status,
		booking.Notes,
		booking.Version,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(fmt.Errorf("failed to insert booking: %w", err))
	}

	return nil
}

// Update uses the version column as an optimistic lock.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
	UPDATE bookings
	SET scheduled_at = $1,
		reserved_from = $2,
		reserved_until = $3,
		status = $4,
		notes = $5,
		updated_at = $6,
		confirmed_at = $7,
		completed_at = $8,
		cancelled_at = $9,
		version = version + 1
	WHERE id = $10 AND version = $11
	`

	result, err := r.q.ExecContext(ctx, query,
		booking.ScheduledAt,
		booking.ScheduledAt.Add(-domain.ConflictBuffer),
		booking.ScheduledAt.Add(domain.ConflictBuffer),
		booking.Status,
		booking.Notes,
		booking.UpdatedAt,
		booking.ConfirmedAt,
		booking.CompletedAt,
		booking.CancelledAt,
		booking.ID,
		booking.Version,
	)
	if err != nil {
		return mapWriteError(fmt.Errorf("failed to update booking %s: %w", booking.ID, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ports.ErrCommitConflict
	}

	booking.Version++
	return nil
}

const visibleTo = `(b.requester_id = $1 OR p.owner_id = $1)`

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) (*domain.BookingPage, error) {
	filter.Normalize()

	where := []string{visibleTo}
	args := []any{filter.ViewerID}

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.PropertyID != nil {
		add("b.property_id = $%d", *filter.PropertyID)
	}
	if filter.Status != nil {
		add("b.status = $%d", *filter.Status)
	}
	if filter.Type != nil {
		add("b.type = $%d", *filter.Type)
	}
	if filter.From != nil {
		add("b.scheduled_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("b.scheduled_at < $%d", *filter.To)
	}

	from := ` FROM bookings b LEFT JOIN properties p ON p.id = b.property_id WHERE ` + strings.Join(where, " AND ")

	page := &domain.BookingPage{Page: filter.Page, PageSize: filter.PageSize}
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*)`+from, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	order := "ASC"
	if filter.Descending {
		order = "DESC"
	}
	// SortBy is one of two known columns after Normalize.
	query := `SELECT ` + bookingColumns + from +
		fmt.Sprintf(" ORDER BY b.%s %s LIMIT $%d OFFSET $%d", filter.SortBy, order, len(args)+1, len(args)+2)

	rows, err := r.q.QueryContext(ctx, query, append(args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	page.Bookings, err = collect(rows)
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (r *BookingRepository) Stats(ctx context.Context, viewerID uuid.UUID, now, weekStart, weekEnd time.Time) (domain.BookingStats, error) {
	query := `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE b.status = 'pending'),
		COUNT(*) FILTER (WHERE b.status = 'confirmed'),
		COUNT(*) FILTER (WHERE b.status = 'completed'),
		COUNT(*) FILTER (WHERE b.status = 'cancelled'),
		COUNT(*) FILTER (WHERE b.scheduled_at > $2),
		COUNT(*) FILTER (WHERE b.scheduled_at >= $3 AND b.scheduled_at < $4)
	FROM bookings b
	LEFT JOIN properties p ON p.id = b.property_id
	WHERE ` + visibleTo

	var s domain.BookingStats
	err := r.q.QueryRowContext(ctx, query, viewerID, now, weekStart, weekEnd).Scan(
		&s.Total,
		&s.Pending,
		&s.Confirmed,
		&s.Completed,
		&s.Cancelled,
		&s.Upcoming,
		&s.ThisWeek,
	)
	if err != nil {
		return domain.BookingStats{}, err
	}

	return s, nil
}

// mapWriteError turns a lost race reported by Postgres into ports.ErrCommitConflict.
// An exclusion violation is the narrower ports.ErrReservationOverlap.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeExclusionViolation:
			return fmt.Errorf("%w: %s", ports.ErrReservationOverlap, pqErr.Message)
		case codeSerializationFailure:
			return fmt.Errorf("%w: %s", ports.ErrCommitConflict, pqErr.Message)
		}
	}
	return err
}
