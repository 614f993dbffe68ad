package models

import "time"

const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// Booking rows are never deleted; cancellation flips Status to
// BookingStatusCancelled.
type Booking struct {
	ID            int64     `json:"id"`
	UserName      string    `json:"user_name"`
	Phone         string    `json:"phone"`
	FromDistrict  string    `json:"from_district"`
	ToDistrict    string    `json:"to_district"`
	BusProviderID int64     `json:"-"`
	BusProvider   string    `json:"bus_provider"`
	TravelDate    string    `json:"travel_date"`
	BookingDate   time.Time `json:"booking_date"`
	Status        string    `json:"status"`
}

// BookingInput carries validated creation parameters.
type BookingInput struct {
	UserName     string `json:"user_name"`
	Phone        string `json:"phone"`
	FromDistrict string `json:"from_district"`
	ToDistrict   string `json:"to_district"`
	BusProvider  string `json:"bus_provider"`
	TravelDate   string `json:"travel_date"`
}
