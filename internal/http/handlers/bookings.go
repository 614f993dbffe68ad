package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
	"github.com/shagatomte19/bus-booking-system-rag/internal/http/middleware"
	"github.com/shagatomte19/bus-booking-system-rag/internal/utils"
)

// POST /api/bookings
func (a *API) CreateBooking(c *gin.Context) {
	var in models.BookingInput
	if !BindJSONOrError(c, &in) {
		return
	}

	booking, err := a.Bookings.Create(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "booking", "create", "booking created for "+booking.Phone)
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking confirmed!",
		"booking": booking,
	})
}

// GET /api/bookings/:phone
func (a *API) GetBookingsByPhone(c *gin.Context) {
	phone := c.Param("phone")

	bookings, err := a.Bookings.ListByPhone(phone)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"phone":    phone,
		"count":    len(bookings),
		"bookings": bookings,
	})
}

// DELETE /api/bookings/:id
func (a *API) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}

	if err := a.Bookings.Cancel(id); err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "booking", "cancel", "booking "+c.Param("id")+" cancelled")
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

// GET /api/bookings/:id/ticket
func (a *API) GetBookingTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}

	pdf, filename, err := a.Tickets.GenerateETicket(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
