package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intdb "github.com/shagatomte19/bus-booking-system-rag/internal/db"
)

// GET /
func (a *API) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bus Ticket Booking System API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"search":    "POST /api/buses/search",
			"providers": "GET /api/buses/providers",
			"districts": "GET /api/buses/districts",
			"book":      "POST /api/bookings",
			"bookings":  "GET /api/bookings/{phone}",
			"cancel":    "DELETE /api/bookings/{id}",
			"ticket":    "GET /api/tickets/{id}",
			"ask":       "POST /api/providers/ask",
		},
	})
}

// GET /health
func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GET /api/db-check
func (a *API) DBCheck(c *gin.Context) {
	db := a.Bookings.DB
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not connected"})
		return
	}
	if !intdb.HasTable(db, "districts") {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "schema not initialized, run the seed command"})
		return
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM districts`).Scan(&count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "districts_in_db": count})
}
