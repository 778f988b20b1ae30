package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/viewing_scheduler/internal/core/services"
)

type BookingHandler struct {
	svc          *services.BookingService
	availability *services.AvailabilityService
	calendar     *services.CalendarService
}

func NewBookingHandler(svc *services.BookingService, availability *services.AvailabilityService, calendar *services.CalendarService) *BookingHandler {
	return &BookingHandler{svc: svc, availability: availability, calendar: calendar}
}

// POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: "BadRequest", Message: "invalid json body"}})
		return
	}

	resp, err := h.svc.CreateBooking(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	resp, err := h.svc.GetBooking(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/bookings?status=&type=&property_id=&from_date=&to_date=&sort=&order=&page=&page_size=
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var q services.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: "BadRequest", Message: err.Error()}})
		return
	}

	resp, err := h.svc.ListBookings(c.Request.Context(), actorFrom(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/bookings/stats
func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// POST /v1/bookings/:id/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	resp, err := h.svc.Confirm(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /v1/bookings/:id/complete
func (h *BookingHandler) Complete(c *gin.Context) {
	resp, err := h.svc.Complete(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	resp, err := h.svc.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /v1/bookings/:id/reschedule
func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req services.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: "BadRequest", Message: "invalid json body"}})
		return
	}

	resp, err := h.svc.Reschedule(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /v1/bookings/:id/notes
func (h *BookingHandler) UpdateNotes(c *gin.Context) {
	var req services.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: "BadRequest", Message: "invalid json body"}})
		return
	}

	resp, err := h.svc.UpdateNotes(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/properties/:id/slots?date=YYYY-MM-DD
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: "BadRequest", Field: "date", Message: "date is required"}})
		return
	}

	slots, err := h.availability.AvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// GET /v1/properties/:id/calendar?start=&end=
func (h *BookingHandler) CalendarEvents(c *gin.Context) {
	events, err := h.calendar.ProjectEvents(c.Request.Context(), c.Param("id"), c.Query("start"), c.Query("end"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
