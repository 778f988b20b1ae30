package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindNotOnGrid         Kind = "NotOnGrid"
	KindOutsideLeadWindow Kind = "OutsideLeadWindow"
	KindOutsideHorizon    Kind = "OutsideHorizon"
	KindSlotConflict      Kind = "SlotConflict"
	KindInvalidTransition Kind = "InvalidTransition"
	KindNotAuthorized     Kind = "NotAuthorized"
	KindNotFound          Kind = "NotFound"
	KindInvalidInput      Kind = "InvalidInput"
)

// Error is a rejection returned to the caller. Field and Time name what was refused
// so a UI can explain why.
type Error struct {
	Kind      Kind
	Field     string
	Time      *time.Time
	BookingID *uuid.UUID
	Message   string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrSlotConflict) works
// for every slot conflict regardless of detail.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotOnGrid         = &Error{Kind: KindNotOnGrid}
	ErrOutsideLeadWindow = &Error{Kind: KindOutsideLeadWindow}
	ErrOutsideHorizon    = &Error{Kind: KindOutsideHorizon}
	ErrSlotConflict      = &Error{Kind: KindSlotConflict}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrNotAuthorized     = &Error{Kind: KindNotAuthorized}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
)

// KindOf returns the kind of a domain error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func NotOnGrid(t time.Time) *Error {
	return &Error{
		Kind:    KindNotOnGrid,
		Field:   "scheduled_at",
		Time:    &t,
		Message: fmt.Sprintf("%s is not a 30-minute slot between %02d:00 and %02d:00", t.Format("15:04"), OpeningHour, ClosingHour),
	}
}

func OutsideLeadWindow(t, now time.Time) *Error {
	return &Error{
		Kind:    KindOutsideLeadWindow,
		Field:   "scheduled_at",
		Time:    &t,
		Message: fmt.Sprintf("viewings must be booked at least %s in advance (earliest %s)", LeadTime, now.Add(LeadTime).Format(time.RFC3339)),
	}
}

func OutsideHorizon(t, now time.Time) *Error {
	return &Error{
		Kind:    KindOutsideHorizon,
		Field:   "scheduled_at",
		Time:    &t,
		Message: fmt.Sprintf("viewings cannot be booked more than %d months ahead (latest %s)", HorizonMonths, Horizon(now).Format(time.RFC3339)),
	}
}

func SlotConflict(t time.Time, existing Reservation) *Error {
	id := existing.BookingID
	return &Error{
		Kind:      KindSlotConflict,
		Field:     "scheduled_at",
		Time:      &t,
		BookingID: &id,
		Message:   fmt.Sprintf("slot conflicts with the viewing at %s", existing.ScheduledAt.Format(time.RFC3339)),
	}
}

func InvalidTransition(id uuid.UUID, from, to BookingStatus) *Error {
	return &Error{
		Kind:      KindInvalidTransition,
		Field:     "status",
		BookingID: &id,
		Message:   fmt.Sprintf("cannot move booking from %s to %s", from, to),
	}
}

func NotAuthorized(msg string) *Error {
	return &Error{Kind: KindNotAuthorized, Message: msg}
}

func NotFound(field string, id uuid.UUID) *Error {
	return &Error{Kind: KindNotFound, Field: field, Message: fmt.Sprintf("%s %s not found", field, id)}
}

func InvalidInput(field, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: msg}
}
