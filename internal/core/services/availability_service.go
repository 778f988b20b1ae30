package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports"
	"go.opentelemetry.io/otel/attribute"
)

type AvailabilityService struct {
	bookingRepo ports.BookingRepository
	properties  ports.PropertyDirectory
	cache       ports.ReservationCache
	validator   *ConflictValidator
	clock       ports.Clock
}

func NewAvailabilityService(
	bookingRepo ports.BookingRepository,
	properties ports.PropertyDirectory,
	cache ports.ReservationCache,
	validator *ConflictValidator,
	clock ports.Clock,
) *AvailabilityService {
	return &AvailabilityService{
		bookingRepo: bookingRepo,
		properties:  properties,
		cache:       cache,
		validator:   validator,
		clock:       clock,
	}
}

// AvailableSlots lists the bookable start times of a property on date (YYYY-MM-DD).
// It returns an empty slice, not an error, when nothing is left that day.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, rawPropertyID, rawDate string) ([]domain.Slot, error) {
	ctx, span := tracer.Start(ctx, "AvailabilityService.AvailableSlots")
	defer span.End()

	propertyID, err := parseID("property_id", rawPropertyID)
	if err != nil {
		return nil, err
	}

	loc := s.validator.Location()
	date, err := time.ParseInLocation(time.DateOnly, rawDate, loc)
	if err != nil {
		return nil, domain.InvalidInput("date", "date must be YYYY-MM-DD")
	}

	span.SetAttributes(attribute.String("property.id", propertyID.String()), attribute.String("date", rawDate))

	if _, err := s.properties.LookupProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	reservations, err := s.reservationsForDay(ctx, propertyID, date)
	if err != nil {
		return nil, err
	}

	earliest := s.clock.Now().Add(domain.LeadTime)
	slots := []domain.Slot{}

	for _, candidate := range domain.DaySlots(date, loc) {
		if !candidate.After(earliest) {
			continue
		}
		if err := s.validator.CheckConflicts(candidate, reservations, nil); err != nil {
			continue
		}
		slots = append(slots, domain.NewSlot(candidate))
	}

	return slots, nil
}

// reservationsForDay reads the cache generation before the repository, so a fill
// that races a commit lands under a generation the commit has already retired.
func (s *AvailabilityService) reservationsForDay(ctx context.Context, propertyID uuid.UUID, date time.Time) ([]domain.Reservation, error) {
	var (
		generation int64
		fill       bool
	)
	if s.cache != nil {
		cached, gen, ok, err := s.cache.Get(ctx, propertyID, date)
		switch {
		case err != nil:
			log.Printf("[availability] cache read failed for property %s: %v", propertyID, err)
		case ok:
			return cached, nil
		default:
			generation, fill = gen, true
		}
	}

	dayStart, dayEnd := domain.DayBounds(date, s.validator.Location())
	bookings, err := s.bookingRepo.ListActiveByProperty(ctx, propertyID, dayStart.Add(-domain.OverlapWindow), dayEnd.Add(domain.OverlapWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	reservations := domain.ReservationsOf(bookings)

	if fill {
		if err := s.cache.Set(ctx, propertyID, date, generation, reservations); err != nil {
			log.Printf("[availability] cache write failed for property %s: %v", propertyID, err)
		}
	}

	return reservations, nil
}
