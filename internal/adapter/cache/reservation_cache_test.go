package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/adapter/cache"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestReservationCache_GetHit(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewReservationCache(db, 10*time.Minute, time.UTC)

	ctx := context.Background()
	propertyID := uuid.New()
	day := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	stored := []domain.Reservation{{BookingID: uuid.New(), ScheduledAt: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)}}
	raw, _ := json.Marshal(stored)

	mockRedis.ExpectGet("reservations:" + propertyID.String() + ":gen").SetVal("3")
	mockRedis.ExpectGet("reservations:" + propertyID.String() + ":3:2024-01-02").SetVal(string(raw))

	got, gen, ok, err := c.Get(ctx, propertyID, day)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), gen)
	if assert.Len(t, got, 1) {
		assert.Equal(t, stored[0].BookingID, got[0].BookingID)
		assert.True(t, stored[0].ScheduledAt.Equal(got[0].ScheduledAt))
	}

	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestReservationCache_GetMissWithoutGeneration(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewReservationCache(db, 10*time.Minute, time.UTC)

	propertyID := uuid.New()
	mockRedis.ExpectGet("reservations:" + propertyID.String() + ":gen").RedisNil()
	mockRedis.ExpectGet("reservations:" + propertyID.String() + ":0:2024-01-02").RedisNil()

	got, gen, ok, err := c.Get(context.Background(), propertyID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, gen)
	assert.Nil(t, got)
}

func TestReservationCache_GetError(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewReservationCache(db, 10*time.Minute, time.UTC)

	propertyID := uuid.New()
	mockRedis.ExpectGet("reservations:" + propertyID.String() + ":gen").SetErr(errors.New("connection refused"))

	_, _, ok, err := c.Get(context.Background(), propertyID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestReservationCache_SetUsesGivenGeneration(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewReservationCache(db, 10*time.Minute, time.UTC)

	propertyID := uuid.New()
	reservations := []domain.Reservation{{BookingID: uuid.New(), ScheduledAt: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)}}
	raw, _ := json.Marshal(reservations)

	mockRedis.ExpectSet("reservations:"+propertyID.String()+":7:2024-01-02", raw, 10*time.Minute).SetVal("OK")

	err := c.Set(context.Background(), propertyID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 7, reservations)

	assert.NoError(t, err)
	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestReservationCache_KeysUseBusinessDay(t *testing.T) {
	amsterdam, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skip("tzdata not available")
	}

	db, mockRedis := redismock.NewClientMock()
	c := cache.NewReservationCache(db, time.Minute, amsterdam)

	propertyID := uuid.New()
	// 23:30 UTC on the 1st is already the 2nd in Amsterdam
	mockRedis.ExpectGet("reservations:" + propertyID.String() + ":gen").SetVal("1")
	mockRedis.ExpectGet("reservations:" + propertyID.String() + ":1:2024-01-02").RedisNil()

	_, _, _, err = c.Get(context.Background(), propertyID, time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC))
	assert.NoError(t, err)
	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestReservationCache_InvalidateBumpsGeneration(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewReservationCache(db, 10*time.Minute, time.UTC)

	propertyID := uuid.New()
	mockRedis.ExpectIncr("reservations:" + propertyID.String() + ":gen").SetVal(1)

	assert.NoError(t, c.Invalidate(context.Background(), propertyID))
	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestReservationCache_FillAfterInvalidateIsNeverRead(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewReservationCache(db, 10*time.Minute, time.UTC)

	ctx := context.Background()
	propertyID := uuid.New()
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prefix := "reservations:" + propertyID.String() + ":"
	stale, _ := json.Marshal([]domain.Reservation{})

	// the picker misses under generation 0
	mockRedis.ExpectGet(prefix + "gen").RedisNil()
	mockRedis.ExpectGet(prefix + "0:2024-01-02").RedisNil()
	// a booking commits and invalidates before the picker fills
	mockRedis.ExpectIncr(prefix + "gen").SetVal(1)
	mockRedis.ExpectSet(prefix+"0:2024-01-02", stale, 10*time.Minute).SetVal("OK")
	// the next reader looks under generation 1
	mockRedis.ExpectGet(prefix + "gen").SetVal("1")
	mockRedis.ExpectGet(prefix + "1:2024-01-02").RedisNil()

	_, gen, ok, err := c.Get(ctx, propertyID, day)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Invalidate(ctx, propertyID))
	assert.NoError(t, c.Set(ctx, propertyID, day, gen, []domain.Reservation{}))

	_, next, ok, err := c.Get(ctx, propertyID, day)
	assert.NoError(t, err)
	assert.False(t, ok, "a fill from before the invalidation must not be served")
	assert.Equal(t, int64(1), next)

	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
