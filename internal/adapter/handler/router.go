package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(h *BookingHandler, jwtSecret []byte, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.Use(JWTAuth(jwtSecret))
	{
		v1.GET("/properties/:id/slots", h.AvailableSlots)
		v1.GET("/properties/:id/calendar", h.CalendarEvents)

		v1.POST("/bookings", h.CreateBooking)
		v1.GET("/bookings", h.ListBookings)
		v1.GET("/bookings/stats", h.Stats)
		v1.GET("/bookings/:id", h.GetBooking)
		v1.POST("/bookings/:id/confirm", h.Confirm)
		v1.POST("/bookings/:id/complete", h.Complete)
		v1.POST("/bookings/:id/cancel", h.Cancel)
		v1.POST("/bookings/:id/reschedule", h.Reschedule)
		v1.PATCH("/bookings/:id/notes", h.UpdateNotes)
	}

	return r
}
