package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	h "github.com/shagatomte19/bus-booking-system-rag/internal/http/handlers"
	"github.com/shagatomte19/bus-booking-system-rag/internal/http/middleware"
)

// NewRouter wires the full HTTP surface around an injected handler set.
func NewRouter(a *h.API) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/", a.Root)
	r.GET("/health", a.Health)

	api := r.Group("/api")
	{
		api.GET("/db-check", a.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", a.Login)

		buses := api.Group("/buses")
		buses.POST("/search", a.SearchBuses)
		buses.GET("/providers", a.ListProviders)
		buses.GET("/districts", a.ListDistricts)

		bookings := api.Group("/bookings")
		bookings.POST("", a.CreateBooking)
		bookings.GET("/:phone", a.GetBookingsByPhone)
		bookings.DELETE("/:id", a.CancelBooking)

		// separate group: the bookings GET tree already claims :phone
		api.GET("/tickets/:id", a.GetBookingTicket)

		providers := api.Group("/providers")
		providers.POST("/ask", a.AskProviders)
		providers.POST("/reindex", middleware.RequireAdmin(a.Env.JWTSecret), a.ReindexProviders)
	}

	return r
}
