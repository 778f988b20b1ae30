package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports"
)

// CalendarService projects committed bookings into calendar events. It never writes.
type CalendarService struct {
	bookingRepo ports.BookingRepository
	properties  ports.PropertyDirectory
	users       ports.UserDirectory
	validator   *ConflictValidator
}

func NewCalendarService(bookingRepo ports.BookingRepository, properties ports.PropertyDirectory, users ports.UserDirectory, validator *ConflictValidator) *CalendarService {
	return &CalendarService{
		bookingRepo: bookingRepo,
		properties:  properties,
		users:       users,
		validator:   validator,
	}
}

func (s *CalendarService) ProjectEvents(ctx context.Context, rawPropertyID, rawStart, rawEnd string) ([]domain.CalendarEvent, error) {
	ctx, span := tracer.Start(ctx, "CalendarService.ProjectEvents")
	defer span.End()

	loc := s.validator.Location()

	propertyID, err := parseID("property_id", rawPropertyID)
	if err != nil {
		return nil, err
	}

	start, err := parseDateOrTimestamp("start", rawStart, loc)
	if err != nil {
		return nil, err
	}

	end, err := parseDateOrTimestamp("end", rawEnd, loc)
	if err != nil {
		return nil, err
	}

	if !end.After(start) {
		return nil, domain.InvalidInput("end", "end must be after start")
	}

	if _, err := s.properties.LookupProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListActiveByProperty(ctx, propertyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	requesters := make(map[uuid.UUID]domain.User)
	events := make([]domain.CalendarEvent, 0, len(bookings))

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}

		requester, seen := requesters[b.RequesterID]
		if !seen {
			requester, err = s.lookupRequester(ctx, b.RequesterID)
			if err != nil {
				return nil, err
			}
			requesters[b.RequesterID] = requester
		}

		b.ScheduledAt = b.ScheduledAt.In(loc)
		events = append(events, domain.NewCalendarEvent(b, requester))
	}

	return events, nil
}

// lookupRequester tolerates users the directory no longer knows.
func (s *CalendarService) lookupRequester(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.users.LookupUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{ID: id}, nil
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to look up requester %s: %w", id, err)
	}
	return *u, nil
}
