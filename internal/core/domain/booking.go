package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// transitions lists every permitted status change. Anything absent is rejected.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCompleted, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: nil,
	BookingCancelled: nil,
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	st := BookingStatus(s)
	_, ok := transitions[st]
	return st, ok
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition (reschedule included) is permitted.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type BookingType string

const (
	BookingVirtual  BookingType = "virtual"
	BookingInPerson BookingType = "in_person"
)

func ParseBookingType(s string) (BookingType, bool) {
	switch t := BookingType(s); t {
	case BookingVirtual, BookingInPerson:
		return t, true
	}
	return "", false
}

const MaxNotesLength = 1000

type Booking struct {
	ID          uuid.UUID
	PropertyID  uuid.UUID
	RequesterID uuid.UUID
	ScheduledAt time.Time
	Type        BookingType
	Status      BookingStatus
	Notes       *string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

func (b *Booking) IsActive() bool {
	return b.Status != BookingCancelled
}

// Transition moves b to next, stamping the matching audit timestamp.
// b is left untouched when the move is not in the transition table.
func (b *Booking) Transition(next BookingStatus, at time.Time) error {
	if !b.Status.CanTransitionTo(next) {
		return InvalidTransition(b.ID, b.Status, next)
	}

	b.Status = next
	b.UpdatedAt = at

	switch next {
	case BookingConfirmed:
		b.ConfirmedAt = &at
	case BookingCompleted:
		b.CompletedAt = &at
	case BookingCancelled:
		b.CancelledAt = &at
	}

	return nil
}

// Reservation is the part of a booking that blocks other bookings.
type Reservation struct {
	BookingID   uuid.UUID `json:"booking_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func ReservationsOf(bookings []Booking) []Reservation {
	out := make([]Reservation, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		out = append(out, Reservation{BookingID: b.ID, ScheduledAt: b.ScheduledAt})
	}
	return out
}
