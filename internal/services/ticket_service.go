package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/shagatomte19/bus-booking-system-rag/internal/domain"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
)

// TicketService renders e-ticket PDFs for active bookings.
type TicketService struct {
	Bookings BookingService
}

func (s TicketService) GenerateETicket(bookingID int64) ([]byte, string, error) {
	booking, err := s.Bookings.Get(bookingID)
	if err != nil {
		return nil, "", err
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "cancelled bookings have no ticket"}
	}
	return buildETicketPDF(booking)
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger   : %s", safe(b.UserName, "-")),
		fmt.Sprintf("Phone       : %s", safe(b.Phone, "-")),
		fmt.Sprintf("Provider    : %s", safe(b.BusProvider, "-")),
		fmt.Sprintf("Route       : %s -> %s", safe(b.FromDistrict, "-"), safe(b.ToDistrict, "-")),
		fmt.Sprintf("Travel date : %s", safe(b.TravelDate, "-")),
		fmt.Sprintf("Booked at   : %s", b.BookingDate.Format("2006-01-02 15:04")),
		fmt.Sprintf("Booking code: #%d", b.ID),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Note: this e-ticket is valid for one passenger. Please present it at departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", b.ID, safeFilenamePart(b.UserName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
