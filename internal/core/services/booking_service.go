package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/srgjo27/viewing_scheduler/internal/core/services")

type BookingService struct {
	bookingRepo ports.BookingRepository
	properties  ports.PropertyDirectory
	publisher   ports.EventPublisher
	cache       ports.ReservationCache
	validator   *ConflictValidator
	clock       ports.Clock
}

// NewBookingService wires the lifecycle manager. cache may be nil.
func NewBookingService(
	bookingRepo ports.BookingRepository,
	properties ports.PropertyDirectory,
	publisher ports.EventPublisher,
	cache ports.ReservationCache,
	validator *ConflictValidator,
	clock ports.Clock,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		properties:  properties,
		publisher:   publisher,
		cache:       cache,
		validator:   validator,
		clock:       clock,
	}
}

func (s *BookingService) now() time.Time {
	return s.clock.Now().In(s.validator.Location())
}

func (s *BookingService) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*BookingResponse, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	if actor.Role != domain.RoleRequester {
		return nil, domain.NotAuthorized("only requesters can book a viewing")
	}

	propertyID, err := parseID("property_id", req.PropertyID)
	if err != nil {
		return nil, err
	}

	scheduledAt, err := parseTimestamp("scheduled_at", req.ScheduledAt, s.validator.Location())
	if err != nil {
		return nil, err
	}

	bookingType, ok := domain.ParseBookingType(req.Type)
	if !ok {
		return nil, domain.InvalidInput("type", "please select either virtual or in-person viewing")
	}

	notes, err := normalizeNotes(req.Notes)
	if err != nil {
		return nil, err
	}

	property, err := s.properties.LookupProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if property.OwnerID == actor.ID {
		return nil, domain.NotAuthorized("owners cannot book a viewing of their own property")
	}

	span.SetAttributes(attribute.String("property.id", propertyID.String()))

	now := s.now()
	booking := &domain.Booking{
		ID:          uuid.New(),
		PropertyID:  propertyID,
		RequesterID: actor.ID,
		ScheduledAt: scheduledAt,
		Type:        bookingType,
		Status:      domain.BookingPending,
		Notes:       notes,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = retryOnCommitConflict("create", func() error {
		return s.bookingRepo.WithPropertyLock(ctx, propertyID, func(ctx context.Context, repo ports.BookingRepository) error {
			if err := s.validator.Validate(ctx, repo, propertyID, scheduledAt, now, nil); err != nil {
				return err
			}
			return repo.Create(ctx, booking)
		})
	})
	if err != nil {
		return nil, slotTakenOr(err, scheduledAt)
	}

	s.invalidate(ctx, propertyID)
	s.publish(ctx, domain.NewBookingEvent(domain.EventBookingCreated, booking, property.OwnerID, actor.ID, now))

	return NewBookingResponse(booking, s.validator.Location()), nil
}

func (s *BookingService) Confirm(ctx context.Context, actor domain.Actor, bookingID string) (*BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, domain.BookingConfirmed)
}

func (s *BookingService) Complete(ctx context.Context, actor domain.Actor, bookingID string) (*BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, domain.BookingCompleted)
}

func (s *BookingService) Cancel(ctx context.Context, actor domain.Actor, bookingID string) (*BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, domain.BookingCancelled)
}

func (s *BookingService) transition(ctx context.Context, actor domain.Actor, rawID string, target domain.BookingStatus) (*BookingResponse, error) {
	ctx, span := tracer.Start(ctx, "BookingService.Transition", trace.WithAttributes(attribute.String("booking.target_status", string(target))))
	defer span.End()

	bookingID, err := parseID("booking_id", rawID)
	if err != nil {
		return nil, err
	}

	var booking *domain.Booking
	var property *domain.Property
	now := s.now()

	err = retryOnCommitConflict(string(target), func() error {
		b, p, err := s.load(ctx, bookingID)
		if err != nil {
			return err
		}

		if b.Status.IsTerminal() {
			return domain.InvalidTransition(b.ID, b.Status, target)
		}

		if target == domain.BookingCancelled {
			err = authorizeParty(actor, b, p)
		} else {
			err = authorizeOwner(actor, p)
		}
		if err != nil {
			return err
		}

		if err := b.Transition(target, now); err != nil {
			return err
		}

		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return err
		}

		booking, property = b, p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if target == domain.BookingCancelled {
		s.invalidate(ctx, booking.PropertyID)
	}
	s.publish(ctx, domain.NewBookingEvent(domain.EventForStatus(target), booking, property.OwnerID, actor.ID, now))

	return NewBookingResponse(booking, s.validator.Location()), nil
}

// Reschedule moves a non-terminal booking to a new start time. Status is left unchanged.
func (s *BookingService) Reschedule(ctx context.Context, actor domain.Actor, rawID string, req RescheduleRequest) (*BookingResponse, error) {
	ctx, span := tracer.Start(ctx, "BookingService.Reschedule")
	defer span.End()

	bookingID, err := parseID("booking_id", rawID)
	if err != nil {
		return nil, err
	}

	scheduledAt, err := parseTimestamp("scheduled_at", req.ScheduledAt, s.validator.Location())
	if err != nil {
		return nil, err
	}

	notes, err := normalizeNotes(req.Notes)
	if err != nil {
		return nil, err
	}

	current, property, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if current.Status.IsTerminal() {
		return nil, terminalBooking(current, "reschedule")
	}

	if err := authorizeParty(actor, current, property); err != nil {
		return nil, err
	}

	now := s.now()
	var booking *domain.Booking
	var previous time.Time

	err = retryOnCommitConflict("reschedule", func() error {
		return s.bookingRepo.WithPropertyLock(ctx, current.PropertyID, func(ctx context.Context, repo ports.BookingRepository) error {
			b, err := repo.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}

			if b.Status.IsTerminal() {
				return terminalBooking(b, "reschedule")
			}

			if err := s.validator.Validate(ctx, repo, b.PropertyID, scheduledAt, now, &b.ID); err != nil {
				return err
			}

			previous = b.ScheduledAt
			b.ScheduledAt = scheduledAt
			if req.Notes != nil {
				b.Notes = notes
			}
			b.UpdatedAt = now

			if err := repo.Update(ctx, b); err != nil {
				return err
			}

			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, slotTakenOr(err, scheduledAt)
	}

	s.invalidate(ctx, booking.PropertyID)

	event := domain.NewBookingEvent(domain.EventBookingRescheduled, booking, property.OwnerID, actor.ID, now)
	event.PreviousStart = &previous
	s.publish(ctx, event)

	return NewBookingResponse(booking, s.validator.Location()), nil
}

// UpdateNotes changes the free-text notes. Requesters may only edit pending bookings.
func (s *BookingService) UpdateNotes(ctx context.Context, actor domain.Actor, rawID string, req UpdateNotesRequest) (*BookingResponse, error) {
	ctx, span := tracer.Start(ctx, "BookingService.UpdateNotes")
	defer span.End()

	bookingID, err := parseID("booking_id", rawID)
	if err != nil {
		return nil, err
	}

	notes, err := normalizeNotes(req.Notes)
	if err != nil {
		return nil, err
	}

	var booking *domain.Booking
	err = retryOnCommitConflict("notes", func() error {
		b, p, err := s.load(ctx, bookingID)
		if err != nil {
			return err
		}

		if b.Status.IsTerminal() {
			return terminalBooking(b, "edit")
		}

		if err := authorizeParty(actor, b, p); err != nil {
			return err
		}

		if actor.Role == domain.RoleRequester && b.Status != domain.BookingPending {
			return domain.NotAuthorized("requesters can only edit pending bookings")
		}

		b.Notes = notes
		b.UpdatedAt = s.now()

		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return NewBookingResponse(booking, s.validator.Location()), nil
}

func (s *BookingService) GetBooking(ctx context.Context, actor domain.Actor, rawID string) (*BookingResponse, error) {
	ctx, span := tracer.Start(ctx, "BookingService.GetBooking")
	defer span.End()

	bookingID, err := parseID("booking_id", rawID)
	if err != nil {
		return nil, err
	}

	b, p, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor.ID != b.RequesterID && actor.ID != p.OwnerID {
		return nil, domain.NotAuthorized("booking belongs to another user")
	}

	return NewBookingResponse(b, s.validator.Location()), nil
}

// ListBookings returns bookings the actor requested or that concern properties they own.
func (s *BookingService) ListBookings(ctx context.Context, actor domain.Actor, q ListBookingsQuery) (*BookingListResponse, error) {
	ctx, span := tracer.Start(ctx, "BookingService.ListBookings")
	defer span.End()

	filter, err := s.buildFilter(actor, q)
	if err != nil {
		return nil, err
	}

	page, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	resp := &BookingListResponse{
		Bookings: make([]*BookingResponse, 0, len(page.Bookings)),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	for i := range page.Bookings {
		resp.Bookings = append(resp.Bookings, NewBookingResponse(&page.Bookings[i], s.validator.Location()))
	}

	return resp, nil
}

func (s *BookingService) buildFilter(actor domain.Actor, q ListBookingsQuery) (domain.BookingFilter, error) {
	loc := s.validator.Location()
	filter := domain.BookingFilter{
		ViewerID:   actor.ID,
		SortBy:     domain.SortField(q.Sort),
		Descending: q.Order != "asc",
		Page:       q.Page,
		PageSize:   q.PageSize,
	}

	if q.PropertyID != "" {
		id, err := parseID("property_id", q.PropertyID)
		if err != nil {
			return filter, err
		}
		filter.PropertyID = &id
	}

	if q.Status != "" {
		st, ok := domain.ParseBookingStatus(q.Status)
		if !ok {
			return filter, domain.InvalidInput("status", "invalid booking status")
		}
		filter.Status = &st
	}

	if q.Type != "" {
		t, ok := domain.ParseBookingType(q.Type)
		if !ok {
			return filter, domain.InvalidInput("type", "invalid booking type")
		}
		filter.Type = &t
	}

	if q.FromDate != "" {
		from, err := parseDateOrTimestamp("from_date", q.FromDate, loc)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}

	if q.ToDate != "" {
		to, err := time.ParseInLocation(time.DateOnly, q.ToDate, loc)
		if err != nil {
			return filter, domain.InvalidInput("to_date", "to_date must be YYYY-MM-DD")
		}
		// inclusive of the whole last day
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	filter.Normalize()
	return filter, nil
}

func (s *BookingService) Stats(ctx context.Context, actor domain.Actor) (domain.BookingStats, error) {
	ctx, span := tracer.Start(ctx, "BookingService.Stats")
	defer span.End()

	now := s.now()
	weekStart, weekEnd := domain.WeekBounds(now, s.validator.Location())

	stats, err := s.bookingRepo.Stats(ctx, actor.ID, now, weekStart, weekEnd)
	if err != nil {
		return domain.BookingStats{}, fmt.Errorf("failed to compute booking stats: %w", err)
	}
	return stats, nil
}

func (s *BookingService) load(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, *domain.Property, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	p, err := s.properties.LookupProperty(ctx, b.PropertyID)
	if err != nil {
		return nil, nil, err
	}

	return b, p, nil
}

func (s *BookingService) publish(ctx context.Context, event domain.BookingEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[booking] failed to publish %s for booking %s: %v", event.Name, event.BookingID, err)
	}
}

func (s *BookingService) invalidate(ctx context.Context, propertyID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, propertyID); err != nil {
		log.Printf("[booking] failed to invalidate reservation cache for property %s: %v", propertyID, err)
	}
}

func authorizeOwner(actor domain.Actor, p *domain.Property) error {
	if actor.Role != domain.RoleOwner || actor.ID != p.OwnerID {
		return domain.NotAuthorized("only the property owner can do this")
	}
	return nil
}

func authorizeParty(actor domain.Actor, b *domain.Booking, p *domain.Property) error {
	switch actor.Role {
	case domain.RoleOwner:
		if actor.ID == p.OwnerID {
			return nil
		}
	case domain.RoleRequester:
		if actor.ID == b.RequesterID {
			return nil
		}
	}
	return domain.NotAuthorized("only the requester or the property owner can do this")
}

func terminalBooking(b *domain.Booking, action string) error {
	id := b.ID
	return &domain.Error{
		Kind:      domain.KindInvalidTransition,
		Field:     "status",
		BookingID: &id,
		Message:   fmt.Sprintf("cannot %s a %s booking", action, b.Status),
	}
}

// retryOnCommitConflict runs op again once when it lost a commit race. op must redo
// its reads so the second attempt sees the winner's write.
func retryOnCommitConflict(op string, fn func() error) error {
	err := fn()
	if errors.Is(err, ports.ErrCommitConflict) {
		log.Printf("[booking] %s lost a commit race, retrying once", op)
		err = fn()
	}
	return err
}

// slotTakenOr reports an overlap that survived the retry as a slot conflict.
// Other commit conflicts, such as a stale version, are returned as they are.
func slotTakenOr(err error, at time.Time) error {
	if !errors.Is(err, ports.ErrReservationOverlap) {
		return err
	}
	return &domain.Error{
		Kind:    domain.KindSlotConflict,
		Field:   "scheduled_at",
		Time:    &at,
		Message: "slot was taken by a concurrent booking",
	}
}
