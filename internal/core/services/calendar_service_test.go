package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/adapter/repository/memory"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectEvents(t *testing.T) {
	f := newFixture(t, monday8am)

	users := memory.NewUserDirectory()
	users.Add(domain.User{ID: f.requester.ID, Name: "Sanne de Vries", Email: "sanne@example.com"})
	calendar := services.NewCalendarService(f.repo, f.props, users, f.validator)

	confirmed, err := f.book(f.requester, at(2, 11, 0))
	require.NoError(t, err)
	_, err = f.svc.Confirm(testCtx, f.owner, confirmed.ID)
	require.NoError(t, err)

	cancelled, err := f.book(f.newRequester(), at(3, 11, 0))
	require.NoError(t, err)
	_, err = f.svc.Cancel(testCtx, f.owner, cancelled.ID)
	require.NoError(t, err)

	// requester unknown to the directory
	_, err = f.svc.CreateBooking(testCtx, f.newRequester(), services.CreateBookingRequest{
		PropertyID:  f.propertyID.String(),
		ScheduledAt: "2024-01-04T15:00:00Z",
		Type:        "virtual",
	})
	require.NoError(t, err)

	events, err := calendar.ProjectEvents(testCtx, f.propertyID.String(), "2024-01-01", "2024-01-08")
	require.NoError(t, err)
	require.Len(t, events, 2, "cancelled bookings are not shown")

	first := events[0]
	assert.Equal(t, confirmed.ID, first.ID.String())
	assert.Equal(t, "In-Person Tour", first.Title)
	assert.Equal(t, domain.ColorConfirmed, first.BackgroundColor)
	assert.Equal(t, domain.ColorConfirmed, first.BorderColor)
	assert.True(t, first.Start.Equal(at(2, 11, 0)))
	assert.True(t, first.End.Equal(at(2, 12, 0)))
	assert.Equal(t, "Sanne de Vries", first.ExtendedProps.VisitorName)
	assert.Equal(t, "sanne@example.com", first.ExtendedProps.VisitorEmail)
	assert.Equal(t, domain.BookingConfirmed, first.ExtendedProps.Status)

	second := events[1]
	assert.Equal(t, "Virtual Tour", second.Title)
	assert.Equal(t, domain.ColorPending, second.BackgroundColor)
	assert.Empty(t, second.ExtendedProps.VisitorName)
}

func TestProjectEvents_RangeIsHalfOpen(t *testing.T) {
	f := newFixture(t, monday8am)
	calendar := services.NewCalendarService(f.repo, f.props, memory.NewUserDirectory(), f.validator)

	_, err := f.book(f.requester, at(2, 11, 0))
	require.NoError(t, err)

	events, err := calendar.ProjectEvents(testCtx, f.propertyID.String(), "2024-01-01T00:00:00Z", "2024-01-02T11:00:00Z")
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = calendar.ProjectEvents(testCtx, f.propertyID.String(), "2024-01-02T11:00:00Z", "2024-01-02T11:30:00Z")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestProjectEvents_BadInput(t *testing.T) {
	f := newFixture(t, monday8am)
	calendar := services.NewCalendarService(f.repo, f.props, memory.NewUserDirectory(), f.validator)

	_, err := calendar.ProjectEvents(testCtx, f.propertyID.String(), "2024-01-08", "2024-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = calendar.ProjectEvents(testCtx, f.propertyID.String(), "soon", "2024-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = calendar.ProjectEvents(testCtx, uuid.New().String(), "2024-01-01", "2024-01-08")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
