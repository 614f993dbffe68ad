package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Insert persists a new active booking and returns it with the
// generated id and booking timestamp.
func (r BookingRepo) Insert(in models.BookingInput, providerID int64) (models.Booking, error) {
	now := time.Now()
	res, err := r.db().Exec(`
		INSERT INTO bookings (user_name, phone, from_district, to_district, bus_provider_id, travel_date, booking_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.UserName, in.Phone, in.FromDistrict, in.ToDistrict, providerID, in.TravelDate, now, models.BookingStatusActive)
	if err != nil {
		return models.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}
	return models.Booking{
		ID:            id,
		UserName:      in.UserName,
		Phone:         in.Phone,
		FromDistrict:  in.FromDistrict,
		ToDistrict:    in.ToDistrict,
		BusProviderID: providerID,
		TravelDate:    in.TravelDate,
		BookingDate:   now,
		Status:        models.BookingStatusActive,
	}, nil
}

func (r BookingRepo) GetByID(id int64) (models.Booking, bool, error) {
	var b models.Booking
	err := r.db().QueryRow(`
		SELECT id, user_name, phone, from_district, to_district, bus_provider_id, travel_date, booking_date, status
		FROM bookings WHERE id = ?
	`, id).Scan(&b.ID, &b.UserName, &b.Phone, &b.FromDistrict, &b.ToDistrict, &b.BusProviderID, &b.TravelDate, &b.BookingDate, &b.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, false, nil
	}
	if err != nil {
		return models.Booking{}, false, err
	}
	return b, true, nil
}

func (r BookingRepo) ListByPhone(phone string) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT id, user_name, phone, from_district, to_district, bus_provider_id, travel_date, booking_date, status
		FROM bookings WHERE phone = ? ORDER BY id ASC
	`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserName, &b.Phone, &b.FromDistrict, &b.ToDistrict, &b.BusProviderID, &b.TravelDate, &b.BookingDate, &b.Status); err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SetStatus flips the booking status. Rows are never deleted.
func (r BookingRepo) SetStatus(id int64, status string) error {
	_, err := r.db().Exec(`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	return err
}
