package repositories

import (
	"database/sql"
	"errors"

	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
)

type ProviderRepo struct {
	DB *sql.DB
}

func (r ProviderRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ProviderRepo) GetByName(name string) (models.BusProvider, bool, error) {
	var p models.BusProvider
	err := r.db().QueryRow(`SELECT id, name FROM bus_providers WHERE name = ?`, name).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BusProvider{}, false, nil
	}
	if err != nil {
		return models.BusProvider{}, false, err
	}
	return p, true, nil
}

func (r ProviderRepo) GetByID(id int64) (models.BusProvider, bool, error) {
	var p models.BusProvider
	err := r.db().QueryRow(`SELECT id, name FROM bus_providers WHERE id = ?`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BusProvider{}, false, nil
	}
	if err != nil {
		return models.BusProvider{}, false, err
	}
	return p, true, nil
}

func (r ProviderRepo) ListAll() ([]models.BusProvider, error) {
	rows, err := r.db().Query(`SELECT id, name FROM bus_providers ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BusProvider{}
	for rows.Next() {
		var p models.BusProvider
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListCoveringBoth returns providers whose coverage includes both
// districts. A provider qualifies when its coverage rows restricted to
// these two district ids count exactly 2; coverage elsewhere is
// irrelevant.
func (r ProviderRepo) ListCoveringBoth(fromDistrictID, toDistrictID int64) ([]models.BusProvider, error) {
	rows, err := r.db().Query(`
		SELECT bp.id, bp.name
		FROM bus_providers bp
		JOIN provider_coverage pc ON pc.provider_id = bp.id
		WHERE pc.district_id IN (?, ?)
		GROUP BY bp.id, bp.name
		HAVING COUNT(pc.district_id) = 2
		ORDER BY bp.id ASC
	`, fromDistrictID, toDistrictID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BusProvider{}
	for rows.Next() {
		var p models.BusProvider
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
