package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
)

type cachedDay struct {
	generation   int64
	reservations []domain.Reservation
}

// ReservationCache is the in-process counterpart of the Redis reservation cache.
// Entries never expire on their own; Invalidate retires every day of a property.
type ReservationCache struct {
	mu          sync.Mutex
	loc         *time.Location
	generations map[uuid.UUID]int64
	days        map[uuid.UUID]map[string]cachedDay
}

func NewReservationCache(loc *time.Location) *ReservationCache {
	return &ReservationCache{
		loc:         loc,
		generations: make(map[uuid.UUID]int64),
		days:        make(map[uuid.UUID]map[string]cachedDay),
	}
}

func (c *ReservationCache) Get(ctx context.Context, propertyID uuid.UUID, day time.Time) ([]domain.Reservation, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.generations[propertyID]
	entry, ok := c.days[propertyID][day.In(c.loc).Format(time.DateOnly)]
	if !ok || entry.generation != gen {
		return nil, gen, false, nil
	}
	return append([]domain.Reservation(nil), entry.reservations...), gen, true, nil
}

func (c *ReservationCache) Set(ctx context.Context, propertyID uuid.UUID, day time.Time, generation int64, reservations []domain.Reservation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generations[propertyID] {
		return nil
	}
	if c.days[propertyID] == nil {
		c.days[propertyID] = make(map[string]cachedDay)
	}
	c.days[propertyID][day.In(c.loc).Format(time.DateOnly)] = cachedDay{
		generation:   generation,
		reservations: append([]domain.Reservation(nil), reservations...),
	}
	return nil
}

func (c *ReservationCache) Invalidate(ctx context.Context, propertyID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generations[propertyID]++
	delete(c.days, propertyID)
	return nil
}
