package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/shagatomte19/bus-booking-system-rag/internal/domain"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
)

func TestGenerateETicket(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()
	tickets := TicketService{Bookings: svc}

	cols := []string{"id", "user_name", "phone", "from_district", "to_district", "bus_provider_id", "travel_date", "booking_date", "status"}
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(7, "Rahim Uddin", "+8801712345678", "Dhaka", "Sylhet", 1, "2026-09-15", time.Now(), models.BookingStatusActive))
	mock.ExpectQuery("SELECT id, name FROM bus_providers WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Green Line"))

	pdf, filename, err := tickets.GenerateETicket(7)
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
	if filename != "ETICKET_7_Rahim_Uddin.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestGenerateETicket_CancelledBookingRefused(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()
	tickets := TicketService{Bookings: svc}

	cols := []string{"id", "user_name", "phone", "from_district", "to_district", "bus_provider_id", "travel_date", "booking_date", "status"}
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(8, "Rahim Uddin", "+8801712345678", "Dhaka", "Sylhet", 1, "2026-09-15", time.Now(), models.BookingStatusCancelled))
	mock.ExpectQuery("SELECT id, name FROM bus_providers WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Green Line"))

	_, _, err := tickets.GenerateETicket(8)
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError for cancelled booking, got %v", err)
	}
}
