package services

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
	"github.com/shagatomte19/bus-booking-system-rag/internal/repositories"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

type BookingService struct {
	BookingRepo  repositories.BookingRepo
	ProviderRepo repositories.ProviderRepo
	DB           *sql.DB
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s BookingService) providers() repositories.ProviderRepo {
	if s.ProviderRepo.DB != nil {
		return s.ProviderRepo
	}
	return repositories.ProviderRepo{DB: s.db()}
}

// Create validates the input, resolves the provider and persists an
// active booking. Unknown providers are a NotFoundError so nothing is
// written for them.
func (s BookingService) Create(in models.BookingInput) (models.Booking, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Phone = strings.TrimSpace(in.Phone)

	if len(in.UserName) < 2 {
		return models.Booking{}, domain.ValidationError{Field: "user_name", Msg: "must be at least 2 characters"}
	}
	if !phonePattern.MatchString(in.Phone) {
		return models.Booking{}, domain.ValidationError{Field: "phone", Msg: "must be 10-15 digits with optional leading +"}
	}
	if _, err := time.Parse("2006-01-02", in.TravelDate); err != nil {
		return models.Booking{}, domain.ValidationError{Field: "travel_date", Msg: "invalid date format, use YYYY-MM-DD"}
	}

	provider, ok, err := s.providers().GetByName(in.BusProvider)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: fmt.Sprintf("bus provider '%s'", in.BusProvider)}
	}

	booking, err := s.bookings().Insert(in, provider.ID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	booking.BusProvider = provider.Name
	return booking, nil
}

// ListByPhone returns every booking for the phone number with the
// provider name resolved per row; dangling references show "Unknown".
func (s BookingService) ListByPhone(phone string) ([]models.Booking, error) {
	bookings, err := s.bookings().ListByPhone(phone)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	for i := range bookings {
		provider, ok, err := s.providers().GetByID(bookings[i].BusProviderID)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		if ok {
			bookings[i].BusProvider = provider.Name
		} else {
			bookings[i].BusProvider = "Unknown"
		}
	}
	return bookings, nil
}

// Cancel flips a booking to cancelled. Cancelling twice is a conflict,
// not a no-op.
func (s BookingService) Cancel(id int64) error {
	booking, ok, err := s.bookings().GetByID(id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if !ok {
		return domain.NotFoundError{Resource: "booking"}
	}
	if booking.Status == models.BookingStatusCancelled {
		return domain.ConflictError{Resource: "booking", Msg: "already cancelled"}
	}
	if err := s.bookings().SetStatus(id, models.BookingStatusCancelled); err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// Get returns a booking with the provider name resolved.
func (s BookingService) Get(id int64) (models.Booking, error) {
	booking, ok, err := s.bookings().GetByID(id)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	provider, ok, err := s.providers().GetByID(booking.BusProviderID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if ok {
		booking.BusProvider = provider.Name
	} else {
		booking.BusProvider = "Unknown"
	}
	return booking, nil
}
