package domain

import (
	"time"

	"github.com/google/uuid"
)

// Slot is one bookable start time offered to the slot picker.
type Slot struct {
	Time     string    `json:"time"`
	DateTime time.Time `json:"datetime"`
}

func NewSlot(t time.Time) Slot {
	return Slot{Time: t.Format("15:04"), DateTime: t}
}

type CalendarEvent struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Start           time.Time           `json:"start"`
	End             time.Time           `json:"end"`
	BackgroundColor string              `json:"backgroundColor"`
	BorderColor     string              `json:"borderColor"`
	ExtendedProps   CalendarEventDetail `json:"extendedProps"`
}

type CalendarEventDetail struct {
	BookingID    uuid.UUID     `json:"booking_id"`
	Status       BookingStatus `json:"status"`
	Type         BookingType   `json:"type"`
	VisitorName  string        `json:"visitor_name"`
	VisitorEmail string        `json:"visitor_email"`
	Notes        *string       `json:"notes"`
}

const (
	ColorPending   = "#fbbf24"
	ColorConfirmed = "#10b981"
	ColorCompleted = "#6b7280"
	ColorOther     = "#ef4444"
)

func StatusColor(s BookingStatus) string {
	switch s {
	case BookingPending:
		return ColorPending
	case BookingConfirmed:
		return ColorConfirmed
	case BookingCompleted:
		return ColorCompleted
	default:
		return ColorOther
	}
}

func EventTitle(t BookingType) string {
	if t == BookingVirtual {
		return "Virtual Tour"
	}
	return "In-Person Tour"
}

func NewCalendarEvent(b Booking, requester User) CalendarEvent {
	color := StatusColor(b.Status)
	return CalendarEvent{
		ID:              b.ID,
		Title:           EventTitle(b.Type),
		Start:           b.ScheduledAt,
		End:             b.ScheduledAt.Add(AppointmentDuration),
		BackgroundColor: color,
		BorderColor:     color,
		ExtendedProps: CalendarEventDetail{
			BookingID:    b.ID,
			Status:       b.Status,
			Type:         b.Type,
			VisitorName:  requester.Name,
			VisitorEmail: requester.Email,
			Notes:        b.Notes,
		},
	}
}
