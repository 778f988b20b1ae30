package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports"
)

type errorBody struct {
	Kind      string  `json:"kind"`
	Field     string  `json:"field,omitempty"`
	Time      *string `json:"time,omitempty"`
	BookingID *string `json:"booking_id,omitempty"`
	Message   string  `json:"message"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotOnGrid, domain.KindOutsideLeadWindow, domain.KindOutsideHorizon, domain.KindInvalidInput:
		return http.StatusUnprocessableEntity
	case domain.KindSlotConflict, domain.KindInvalidTransition:
		return http.StatusConflict
	case domain.KindNotAuthorized:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		body := errorBody{Kind: string(de.Kind), Field: de.Field, Message: de.Message}
		if de.Time != nil {
			t := de.Time.Format(time.RFC3339)
			body.Time = &t
		}
		if de.BookingID != nil {
			id := de.BookingID.String()
			body.BookingID = &id
		}
		c.JSON(statusFor(de.Kind), gin.H{"error": body})
		return
	}

	if errors.Is(err, ports.ErrCommitConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": errorBody{Kind: "CommitConflict", Message: "booking was modified concurrently, please retry"}})
		return
	}

	log.Printf("[http] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{Kind: "Internal", Message: "internal server error"}})
}
