package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
)

// ReservationCache stores the reserved start times of a property-day in Redis.
// It only feeds the slot picker; booking commits always read the database.
//
// Each property has a generation counter. Day entries are keyed under the current
// generation and Invalidate bumps it, so entries written under an older generation
// are never read again and simply expire.
type ReservationCache struct {
	client *redis.Client
	ttl    time.Duration
	loc    *time.Location
}

func NewReservationCache(client *redis.Client, ttl time.Duration, loc *time.Location) *ReservationCache {
	return &ReservationCache{client: client, ttl: ttl, loc: loc}
}

func (c *ReservationCache) generationKey(propertyID uuid.UUID) string {
	return fmt.Sprintf("reservations:%s:gen", propertyID.String())
}

func (c *ReservationCache) key(propertyID uuid.UUID, generation int64, day time.Time) string {
	return fmt.Sprintf("reservations:%s:%d:%s", propertyID.String(), generation, day.In(c.loc).Format(time.DateOnly))
}

func (c *ReservationCache) generation(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(propertyID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *ReservationCache) Get(ctx context.Context, propertyID uuid.UUID, day time.Time) ([]domain.Reservation, int64, bool, error) {
	gen, err := c.generation(ctx, propertyID)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, c.key(propertyID, gen, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}

	var reservations []domain.Reservation
	if err := json.Unmarshal(raw, &reservations); err != nil {
		return nil, gen, false, fmt.Errorf("failed to decode cached reservations: %w", err)
	}

	return reservations, gen, true, nil
}

func (c *ReservationCache) Set(ctx context.Context, propertyID uuid.UUID, day time.Time, generation int64, reservations []domain.Reservation) error {
	raw, err := json.Marshal(reservations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(propertyID, generation, day), raw, c.ttl).Err()
}

func (c *ReservationCache) Invalidate(ctx context.Context, propertyID uuid.UUID) error {
	return c.client.Incr(ctx, c.generationKey(propertyID)).Err()
}
