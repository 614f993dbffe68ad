package repositories

import (
	"database/sql"
	"errors"

	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
)

type DistrictRepo struct {
	DB *sql.DB
}

func (r DistrictRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByName resolves a district by exact name. The name column uses a
// binary collation, so lookups are case-sensitive.
func (r DistrictRepo) GetByName(name string) (models.District, bool, error) {
	var d models.District
	err := r.db().QueryRow(`SELECT id, name FROM districts WHERE name = ?`, name).Scan(&d.ID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.District{}, false, nil
	}
	if err != nil {
		return models.District{}, false, err
	}
	return d, true, nil
}

func (r DistrictRepo) ListNames() ([]string, error) {
	rows, err := r.db().Query(`SELECT name FROM districts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListWithPoints returns every district together with its dropping points.
func (r DistrictRepo) ListWithPoints() ([]models.DistrictWithPoints, error) {
	db := r.db()

	rows, err := db.Query(`SELECT id, name FROM districts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DistrictWithPoints{}
	index := map[int64]int{}
	for rows.Next() {
		var d models.District
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return out, err
		}
		index[d.ID] = len(out)
		out = append(out, models.DistrictWithPoints{District: d, DroppingPoints: []models.DroppingPoint{}})
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	dpRows, err := db.Query(`SELECT id, district_id, name, price FROM dropping_points ORDER BY id ASC`)
	if err != nil {
		return out, err
	}
	defer dpRows.Close()

	for dpRows.Next() {
		var dp models.DroppingPoint
		if err := dpRows.Scan(&dp.ID, &dp.DistrictID, &dp.Name, &dp.Price); err != nil {
			return out, err
		}
		if i, ok := index[dp.DistrictID]; ok {
			out[i].DroppingPoints = append(out[i].DroppingPoints, dp)
		}
	}
	return out, dpRows.Err()
}

// ListDroppingPoints returns dropping points in a district, optionally
// capped by price. A nil or non-positive ceiling applies no filter.
func (r DistrictRepo) ListDroppingPoints(districtID int64, maxPrice *int64) ([]models.DroppingPoint, error) {
	query := `SELECT id, district_id, name, price FROM dropping_points WHERE district_id = ?`
	args := []any{districtID}
	if maxPrice != nil && *maxPrice > 0 {
		query += ` AND price <= ?`
		args = append(args, *maxPrice)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DroppingPoint{}
	for rows.Next() {
		var dp models.DroppingPoint
		if err := rows.Scan(&dp.ID, &dp.DistrictID, &dp.Name, &dp.Price); err != nil {
			return out, err
		}
		out = append(out, dp)
	}
	return out, rows.Err()
}
