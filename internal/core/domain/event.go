package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventName string

const (
	EventBookingCreated     EventName = "booking.created"
	EventBookingConfirmed   EventName = "booking.confirmed"
	EventBookingCompleted   EventName = "booking.completed"
	EventBookingCancelled   EventName = "booking.cancelled"
	EventBookingRescheduled EventName = "booking.rescheduled"
)

// BookingEvent is what the notification dispatcher receives after a committed change.
type BookingEvent struct {
	Name          EventName     `json:"event"`
	BookingID     uuid.UUID     `json:"booking_id"`
	PropertyID    uuid.UUID     `json:"property_id"`
	RequesterID   uuid.UUID     `json:"requester_id"`
	OwnerID       uuid.UUID     `json:"owner_id"`
	ActorID       uuid.UUID     `json:"actor_id"`
	Status        BookingStatus `json:"status"`
	Type          BookingType   `json:"type"`
	ScheduledAt   time.Time     `json:"scheduled_at"`
	PreviousStart *time.Time    `json:"previous_scheduled_at,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func NewBookingEvent(name EventName, b *Booking, ownerID, actorID uuid.UUID, at time.Time) BookingEvent {
	return BookingEvent{
		Name:        name,
		BookingID:   b.ID,
		PropertyID:  b.PropertyID,
		RequesterID: b.RequesterID,
		OwnerID:     ownerID,
		ActorID:     actorID,
		Status:      b.Status,
		Type:        b.Type,
		ScheduledAt: b.ScheduledAt,
		OccurredAt:  at,
	}
}

// EventForStatus maps a target status to the event announcing it.
func EventForStatus(s BookingStatus) EventName {
	switch s {
	case BookingConfirmed:
		return EventBookingConfirmed
	case BookingCompleted:
		return EventBookingCompleted
	case BookingCancelled:
		return EventBookingCancelled
	}
	return EventBookingCreated
}
