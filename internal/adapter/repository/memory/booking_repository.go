package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports"
)

// BookingRepository keeps bookings in process. Each property has its own mutex,
// which is the serialization point for check-then-commit.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]domain.Booking

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	properties *PropertyDirectory
}

func NewBookingRepository(properties *PropertyDirectory) *BookingRepository {
	return &BookingRepository{
		bookings:   make(map[uuid.UUID]domain.Booking),
		locks:      make(map[uuid.UUID]*sync.Mutex),
		properties: properties,
	}
}

func (r *BookingRepository) propertyLock(propertyID uuid.UUID) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	l, ok := r.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[propertyID] = l
	}
	return l
}

func (r *BookingRepository) WithPropertyLock(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context, repo ports.BookingRepository) error) error {
	l := r.propertyLock(propertyID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, r)
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.NotFound("booking", bookingID)
	}
	return &b, nil
}

func (r *BookingRepository) ListActiveByProperty(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Booking
	for _, b := range r.bookings {
		if b.PropertyID != propertyID || !b.IsActive() {
			continue
		}
		if b.ScheduledAt.Before(from) || !b.ScheduledAt.Before(to) {
			continue
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.violatesExclusion(booking) {
		return ports.ErrReservationOverlap
	}

	r.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[booking.ID]
	if !ok {
		return domain.NotFound("booking", booking.ID)
	}
	if stored.Version != booking.Version {
		return ports.ErrCommitConflict
	}
	if r.violatesExclusion(booking) {
		return ports.ErrReservationOverlap
	}

	booking.Version++
	r.bookings[booking.ID] = *booking
	return nil
}

// violatesExclusion mirrors the database exclusion constraint. Caller holds r.mu.
func (r *BookingRepository) violatesExclusion(booking *domain.Booking) bool {
	if !booking.IsActive() {
		return false
	}
	for id, other := range r.bookings {
		if id == booking.ID || other.PropertyID != booking.PropertyID || !other.IsActive() {
			continue
		}
		if domain.Overlaps(other.ScheduledAt, booking.ScheduledAt) {
			return true
		}
	}
	return false
}

func (r *BookingRepository) visibleTo(b domain.Booking, viewerID uuid.UUID) bool {
	if b.RequesterID == viewerID {
		return true
	}
	return r.properties != nil && r.properties.ownerOf(b.PropertyID) == viewerID
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) (*domain.BookingPage, error) {
	filter.Normalize()

	r.mu.RLock()
	var matched []domain.Booking
	for _, b := range r.bookings {
		if !r.visibleTo(b, filter.ViewerID) || !matches(b, filter) {
			continue
		}
		matched = append(matched, b)
	}
	r.mu.RUnlock()

	key := func(b domain.Booking) time.Time {
		if filter.SortBy == domain.SortCreatedAt {
			return b.CreatedAt
		}
		return b.ScheduledAt
	}
	sort.Slice(matched, func(i, j int) bool {
		if filter.Descending {
			return key(matched[i]).After(key(matched[j]))
		}
		return key(matched[i]).Before(key(matched[j]))
	})

	page := &domain.BookingPage{Total: len(matched), Page: filter.Page, PageSize: filter.PageSize}
	start := filter.Offset()
	if start < len(matched) {
		end := start + filter.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		page.Bookings = matched[start:end]
	}

	return page, nil
}

func matches(b domain.Booking, f domain.BookingFilter) bool {
	if f.PropertyID != nil && b.PropertyID != *f.PropertyID {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.Type != nil && b.Type != *f.Type {
		return false
	}
	if f.From != nil && b.ScheduledAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !b.ScheduledAt.Before(*f.To) {
		return false
	}
	return true
}

func (r *BookingRepository) Stats(ctx context.Context, viewerID uuid.UUID, now, weekStart, weekEnd time.Time) (domain.BookingStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.BookingStats
	for _, b := range r.bookings {
		if !r.visibleTo(b, viewerID) {
			continue
		}

		stats.Total++
		switch b.Status {
		case domain.BookingPending:
			stats.Pending++
		case domain.BookingConfirmed:
			stats.Confirmed++
		case domain.BookingCompleted:
			stats.Completed++
		case domain.BookingCancelled:
			stats.Cancelled++
		}

		if b.ScheduledAt.After(now) {
			stats.Upcoming++
		}
		if !b.ScheduledAt.Before(weekStart) && b.ScheduledAt.Before(weekEnd) {
			stats.ThisWeek++
		}
	}

	return stats, nil
}
