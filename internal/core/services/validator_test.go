package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestConflictValidator_CheckTime(t *testing.T) {
	v := services.NewConflictValidator(time.UTC)

	tests := []struct {
		name      string
		candidate time.Time
		want      *domain.Error
	}{
		{"on grid and in window", at(2, 11, 0), nil},
		{"half hour", at(2, 11, 30), nil},
		{"first slot", at(2, 9, 0), nil},
		{"last slot", at(2, 19, 30), nil},
		{"quarter past", at(2, 11, 15), domain.ErrNotOnGrid},
		{"before opening", at(2, 8, 30), domain.ErrNotOnGrid},
		{"closing hour", at(2, 20, 0), domain.ErrNotOnGrid},
		{"stray seconds", at(2, 11, 0).Add(time.Second), nil},
		{"off grid and too soon", at(1, 9, 15), domain.ErrNotOnGrid},
		{"too soon", at(1, 9, 30), domain.ErrOutsideLeadWindow},
		{"exactly lead time", at(1, 10, 0), nil},
		{"past horizon", time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), domain.ErrOutsideHorizon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CheckTime(tt.candidate, monday8am)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConflictValidator_OneSecondPastHorizon(t *testing.T) {
	v := services.NewConflictValidator(time.UTC)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	err := v.CheckTime(now.AddDate(0, 3, 0).Add(time.Second), now)
	assert.ErrorIs(t, err, domain.ErrOutsideHorizon)
	assert.NoError(t, v.CheckTime(now.AddDate(0, 3, 0), now))
}

func TestConflictValidator_CheckTimeUsesBusinessLocation(t *testing.T) {
	amsterdam, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skip("tzdata not available")
	}
	v := services.NewConflictValidator(amsterdam)

	// 08:00 UTC is 09:00 in Amsterdam during winter
	assert.NoError(t, v.CheckTime(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), monday8am))
	assert.ErrorIs(t, v.CheckTime(time.Date(2024, 1, 2, 19, 0, 0, 0, time.UTC), monday8am), domain.ErrNotOnGrid)
}

func TestConflictValidator_CheckConflicts(t *testing.T) {
	v := services.NewConflictValidator(time.UTC)
	existingID := uuid.New()
	existing := []domain.Reservation{{BookingID: existingID, ScheduledAt: at(2, 11, 0)}}

	assert.ErrorIs(t, v.CheckConflicts(at(2, 11, 0), existing, nil), domain.ErrSlotConflict)
	assert.ErrorIs(t, v.CheckConflicts(at(2, 11, 0).Add(domain.OverlapWindow-time.Minute), existing, nil), domain.ErrSlotConflict)
	assert.NoError(t, v.CheckConflicts(at(2, 11, 0).Add(domain.OverlapWindow), existing, nil))
	assert.NoError(t, v.CheckConflicts(at(2, 11, 0).Add(-domain.OverlapWindow), existing, nil))
	assert.NoError(t, v.CheckConflicts(at(2, 11, 0), existing, &existingID), "a booking never conflicts with itself")
	assert.NoError(t, v.CheckConflicts(at(2, 11, 0), nil, nil))
}

func TestConflictValidator_ValidateSeesOnlyActiveBookings(t *testing.T) {
	f := newFixture(t, monday8am)

	created, err := f.book(f.requester, at(2, 11, 0))
	if !assert.NoError(t, err) {
		return
	}

	err = f.validator.Validate(testCtx, f.repo, f.propertyID, at(2, 12, 0), monday8am, nil)
	assert.ErrorIs(t, err, domain.ErrSlotConflict)

	_, err = f.svc.Cancel(testCtx, f.requester, created.ID)
	assert.NoError(t, err)

	err = f.validator.Validate(testCtx, f.repo, f.propertyID, at(2, 12, 0), monday8am, nil)
	assert.NoError(t, err)
}
