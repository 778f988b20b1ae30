package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
)

type CreateBookingRequest struct {
	PropertyID  string  `json:"property_id"`
	ScheduledAt string  `json:"scheduled_at"`
	Type        string  `json:"type"`
	Notes       *string `json:"notes"`
}

type RescheduleRequest struct {
	ScheduledAt string  `json:"scheduled_at"`
	Notes       *string `json:"notes"`
}

type UpdateNotesRequest struct {
	Notes *string `json:"notes"`
}

type ListBookingsQuery struct {
	PropertyID string `form:"property_id"`
	Status     string `form:"status"`
	Type       string `form:"type"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type BookingResponse struct {
	ID          string     `json:"id"`
	PropertyID  string     `json:"property_id"`
	RequesterID string     `json:"requester_id"`
	ScheduledAt string     `json:"scheduled_at"`
	Formatted   string     `json:"formatted_date"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func NewBookingResponse(b *domain.Booking, loc *time.Location) *BookingResponse {
	at := b.ScheduledAt.In(loc)
	return &BookingResponse{
		ID:          b.ID.String(),
		PropertyID:  b.PropertyID.String(),
		RequesterID: b.RequesterID.String(),
		ScheduledAt: at.Format(time.RFC3339),
		Formatted:   at.Format("02/01/2006 15:04"),
		Type:        string(b.Type),
		Status:      string(b.Status),
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		ConfirmedAt: b.ConfirmedAt,
		CompletedAt: b.CompletedAt,
		CancelledAt: b.CancelledAt,
	}
}

type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

const dateTimeLayout = "2006-01-02 15:04:05"

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domain.InvalidInput(field, "invalid "+field)
	}
	return id, nil
}

// parseTimestamp accepts RFC3339 or a local "YYYY-MM-DD HH:MM:SS" value.
func parseTimestamp(field, raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation(dateTimeLayout, raw, loc); err == nil {
		return t, nil
	}
	return time.Time{}, domain.InvalidInput(field, "please provide a valid date and time")
}

// parseDateOrTimestamp also accepts a bare "YYYY-MM-DD", meaning local midnight.
func parseDateOrTimestamp(field, raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(raw), loc); err == nil {
		return t, nil
	}
	return parseTimestamp(field, raw, loc)
}

// normalizeNotes trims notes; blank notes are stored as none.
func normalizeNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil, nil
	}
	if len([]rune(trimmed)) > domain.MaxNotesLength {
		return nil, domain.InvalidInput("notes", "notes cannot exceed 1000 characters")
	}
	return &trimmed, nil
}
