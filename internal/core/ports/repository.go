package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
)

// ErrCommitConflict is returned when a write lost a race against another writer:
// an exclusion-constraint violation or a stale booking version.
var ErrCommitConflict = errors.New("commit conflict: booking was modified concurrently")

// ErrReservationOverlap is the ErrCommitConflict raised when the write would
// overlap another active reservation of the same property.
var ErrReservationOverlap = fmt.Errorf("%w: reservation overlaps an active booking", ErrCommitConflict)

type BookingRepository interface {
	// GetByID returns domain.ErrNotFound when the booking does not exist.
	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	// ListActiveByProperty returns non-cancelled bookings with from <= scheduled_at < to, ordered by time.
	ListActiveByProperty(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) (*domain.BookingPage, error)
	Stats(ctx context.Context, viewerID uuid.UUID, now, weekStart, weekEnd time.Time) (domain.BookingStats, error)
	Create(ctx context.Context, booking *domain.Booking) error
	// Update persists booking if its stored version still equals booking.Version,
	// then bumps booking.Version. A mismatch returns ErrCommitConflict.
	Update(ctx context.Context, booking *domain.Booking) error
	// WithPropertyLock runs fn while holding the serialization point for propertyID.
	// fn must use the repository it is handed.
	WithPropertyLock(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context, repo BookingRepository) error) error
}

type PropertyDirectory interface {
	// LookupProperty returns domain.ErrNotFound when the property does not exist.
	LookupProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error)
}

type UserDirectory interface {
	LookupUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// ReservationCache holds the reserved start times of one property-day for the slot picker.
//
// Entries are scoped to a per-property generation. Get reports the generation it
// looked under, even on a miss, and Set must be given that same generation so a
// fill computed before an Invalidate is never served after it.
type ReservationCache interface {
	Get(ctx context.Context, propertyID uuid.UUID, day time.Time) ([]domain.Reservation, int64, bool, error)
	Set(ctx context.Context, propertyID uuid.UUID, day time.Time, generation int64, reservations []domain.Reservation) error
	Invalidate(ctx context.Context, propertyID uuid.UUID) error
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
