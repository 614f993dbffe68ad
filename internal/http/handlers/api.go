// Package handlers holds the gin handlers for the booking and
// question-answering API. Everything a handler needs is injected through
// the API struct; nothing reaches for globals.
package handlers

import (
	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	"github.com/shagatomte19/bus-booking-system-rag/internal/queryrouter"
	"github.com/shagatomte19/bus-booking-system-rag/internal/rag"
	"github.com/shagatomte19/bus-booking-system-rag/internal/repositories"
	"github.com/shagatomte19/bus-booking-system-rag/internal/services"
)

type API struct {
	Env intconfig.Env

	Bookings services.BookingService
	Search   services.SearchService
	Tickets  services.TicketService

	Districts repositories.DistrictRepo
	Providers repositories.ProviderRepo

	Router *queryrouter.Router
	RAG    *rag.Pipeline
}
