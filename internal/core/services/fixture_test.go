package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/adapter/repository/memory"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports/mocks"
	"github.com/srgjo27/viewing_scheduler/internal/core/services"
	"github.com/stretchr/testify/mock"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testCtx = context.Background()

var monday8am = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	svc       *services.BookingService
	slots     *services.AvailabilityService
	repo      *memory.BookingRepository
	props     *memory.PropertyDirectory
	validator *services.ConflictValidator

	propertyID uuid.UUID
	owner      domain.Actor
	requester  domain.Actor

	mu     sync.Mutex
	events []domain.BookingEvent
}

func newFixture(t *testing.T, now time.Time) *fixture {
	f := &fixture{
		propertyID: uuid.New(),
		owner:      domain.Actor{ID: uuid.New(), Role: domain.RoleOwner},
		requester:  domain.Actor{ID: uuid.New(), Role: domain.RoleRequester},
	}

	f.props = memory.NewPropertyDirectory()
	f.props.Add(domain.Property{ID: f.propertyID, OwnerID: f.owner.ID})
	f.repo = memory.NewBookingRepository(f.props)
	f.validator = services.NewConflictValidator(time.UTC)

	publisher := mocks.NewEventPublisher(t)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("domain.BookingEvent")).
		Run(func(args mock.Arguments) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, args.Get(1).(domain.BookingEvent))
		}).
		Return(nil).
		Maybe()

	clock := fixedClock{t: now}
	f.svc = services.NewBookingService(f.repo, f.props, publisher, nil, f.validator, clock)
	f.slots = services.NewAvailabilityService(f.repo, f.props, nil, f.validator, clock)
	return f
}

func (f *fixture) newRequester() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleRequester}
}

func (f *fixture) book(actor domain.Actor, when time.Time) (*services.BookingResponse, error) {
	return f.svc.CreateBooking(testCtx, actor, services.CreateBookingRequest{
		PropertyID:  f.propertyID.String(),
		ScheduledAt: when.Format(time.RFC3339),
		Type:        string(domain.BookingInPerson),
	})
}

func (f *fixture) eventNames() []domain.EventName {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]domain.EventName, 0, len(f.events))
	for _, e := range f.events {
		names = append(names, e.Name)
	}
	return names
}

func (f *fixture) lastEvent() domain.BookingEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}
