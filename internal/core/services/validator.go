package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports"
)

// ConflictValidator decides whether a start time may be booked on a property.
// Booking commits and the slot picker both go through it.
type ConflictValidator struct {
	loc *time.Location
}

func NewConflictValidator(loc *time.Location) *ConflictValidator {
	if loc == nil {
		loc = time.UTC
	}
	return &ConflictValidator{loc: loc}
}

func (v *ConflictValidator) Location() *time.Location {
	return v.loc
}

// CheckTime runs the grid, lead-time and horizon checks in that order.
func (v *ConflictValidator) CheckTime(candidate, now time.Time) error {
	candidate = candidate.In(v.loc)

	if !domain.RoundOK(candidate) {
		return domain.NotOnGrid(candidate)
	}
	if !domain.LeadTimeOK(candidate, now) {
		return domain.OutsideLeadWindow(candidate, now)
	}
	if !domain.HorizonOK(candidate, now) {
		return domain.OutsideHorizon(candidate, now)
	}

	return nil
}

// CheckConflicts rejects candidate when it overlaps any reservation other than exclude.
func (v *ConflictValidator) CheckConflicts(candidate time.Time, existing []domain.Reservation, exclude *uuid.UUID) error {
	for _, r := range existing {
		if exclude != nil && r.BookingID == *exclude {
			continue
		}
		if domain.Overlaps(candidate, r.ScheduledAt) {
			return domain.SlotConflict(candidate.In(v.loc), r)
		}
	}
	return nil
}

// Validate returns nil when candidate is bookable on propertyID, or the first rejection.
// repo should be the lock-scoped repository when the result guards a commit.
func (v *ConflictValidator) Validate(ctx context.Context, repo ports.BookingRepository, propertyID uuid.UUID, candidate, now time.Time, exclude *uuid.UUID) error {
	if err := v.CheckTime(candidate, now); err != nil {
		return err
	}

	existing, err := repo.ListActiveByProperty(ctx, propertyID, candidate.Add(-domain.OverlapWindow), candidate.Add(domain.OverlapWindow))
	if err != nil {
		return fmt.Errorf("failed to load bookings for conflict check: %w", err)
	}

	return v.CheckConflicts(candidate, domain.ReservationsOf(existing), exclude)
}
