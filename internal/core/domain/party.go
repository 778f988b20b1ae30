package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleRequester Role = "requester"
	RoleOwner     Role = "owner"
)

// Actor is the authenticated caller as reported by the identity layer.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// Property is the slice of an externally owned listing the scheduler may read.
type Property struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
}

type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type SortField string

const (
	SortScheduledAt SortField = "scheduled_at"
	SortCreatedAt   SortField = "created_at"
)

const DefaultPageSize = 15

// BookingFilter narrows a listing to bookings the viewer may see.
type BookingFilter struct {
	ViewerID   uuid.UUID
	PropertyID *uuid.UUID
	Status     *BookingStatus
	Type       *BookingType
	From       *time.Time
	To         *time.Time
	SortBy     SortField
	Descending bool
	Page       int
	PageSize   int
}

// Normalize fills defaults the way the listing endpoint expects them.
func (f *BookingFilter) Normalize() {
	if f.SortBy != SortCreatedAt {
		f.SortBy = SortScheduledAt
	}
	if f.PageSize <= 0 || f.PageSize > 100 {
		f.PageSize = DefaultPageSize
	}
	if f.Page < 1 {
		f.Page = 1
	}
}

func (f BookingFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type BookingPage struct {
	Bookings []Booking
	Total    int
	Page     int
	PageSize int
}

type BookingStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Upcoming  int `json:"upcoming"`
	ThisWeek  int `json:"this_week"`
}
