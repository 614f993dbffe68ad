// Package seed creates the schema and loads the reference dataset of
// districts, dropping points and providers from a JSON file.
package seed

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Name columns use a binary collation so district and provider lookups
// stay case-sensitive ("dhaka" does not match "Dhaka").
var schema = []string{
	`CREATE TABLE IF NOT EXISTS districts (
		id BIGINT NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) COLLATE utf8mb4_bin NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_districts_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS dropping_points (
		id BIGINT NOT NULL AUTO_INCREMENT,
		district_id BIGINT NOT NULL,
		name VARCHAR(150) COLLATE utf8mb4_bin NOT NULL,
		price BIGINT NOT NULL,
		PRIMARY KEY (id),
		KEY idx_dropping_points_district (district_id),
		CONSTRAINT fk_dropping_points_district FOREIGN KEY (district_id) REFERENCES districts (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bus_providers (
		id BIGINT NOT NULL AUTO_INCREMENT,
		name VARCHAR(150) COLLATE utf8mb4_bin NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_bus_providers_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS provider_coverage (
		provider_id BIGINT NOT NULL,
		district_id BIGINT NOT NULL,
		PRIMARY KEY (provider_id, district_id),
		CONSTRAINT fk_coverage_provider FOREIGN KEY (provider_id) REFERENCES bus_providers (id),
		CONSTRAINT fk_coverage_district FOREIGN KEY (district_id) REFERENCES districts (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT NOT NULL AUTO_INCREMENT,
		user_name VARCHAR(150) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		from_district VARCHAR(100) NOT NULL,
		to_district VARCHAR(100) NOT NULL,
		bus_provider_id BIGINT NOT NULL,
		travel_date VARCHAR(10) NOT NULL,
		booking_date DATETIME NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		PRIMARY KEY (id),
		KEY idx_bookings_phone (phone),
		CONSTRAINT fk_bookings_provider FOREIGN KEY (bus_provider_id) REFERENCES bus_providers (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Dataset mirrors the layout of data/data.json.
type Dataset struct {
	Districts []DistrictSeed `json:"districts"`
	Providers []ProviderSeed `json:"providers"`
}

type DistrictSeed struct {
	Name           string          `json:"name"`
	DroppingPoints []DropPointSeed `json:"dropping_points"`
}

type DropPointSeed struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type ProviderSeed struct {
	Name     string   `json:"name"`
	Coverage []string `json:"coverage"`
}

// EnsureSchema creates all tables when missing.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("seed: create table: %w", err)
		}
	}
	return nil
}

// Run loads the dataset into an empty database. It is idempotent: when
// any district row exists the seed is assumed done and nothing happens.
func Run(db *sql.DB, dataPath string) error {
	var existing int
	if err := db.QueryRow(`SELECT COUNT(*) FROM districts`).Scan(&existing); err != nil {
		return fmt.Errorf("seed: count districts: %w", err)
	}
	if existing > 0 {
		log.Printf("[SEED] action=run msg=database already seeded (%d districts)", existing)
		return nil
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("seed: read dataset: %w", err)
	}
	var data Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed: parse dataset: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	districtIDs := map[string]int64{}
	for _, d := range data.Districts {
		res, err := tx.Exec(`INSERT INTO districts (name) VALUES (?)`, d.Name)
		if err != nil {
			return fmt.Errorf("seed: insert district %s: %w", d.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		districtIDs[d.Name] = id

		for _, dp := range d.DroppingPoints {
			if _, err := tx.Exec(
				`INSERT INTO dropping_points (district_id, name, price) VALUES (?, ?, ?)`,
				id, dp.Name, dp.Price,
			); err != nil {
				return fmt.Errorf("seed: insert dropping point %s: %w", dp.Name, err)
			}
		}
	}

	for _, p := range data.Providers {
		res, err := tx.Exec(`INSERT INTO bus_providers (name) VALUES (?)`, p.Name)
		if err != nil {
			return fmt.Errorf("seed: insert provider %s: %w", p.Name, err)
		}
		providerID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, districtName := range p.Coverage {
			districtID, ok := districtIDs[districtName]
			if !ok {
				return fmt.Errorf("seed: provider %s covers unknown district %s", p.Name, districtName)
			}
			if _, err := tx.Exec(
				`INSERT INTO provider_coverage (provider_id, district_id) VALUES (?, ?)`,
				providerID, districtID,
			); err != nil {
				return fmt.Errorf("seed: insert coverage %s/%s: %w", p.Name, districtName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	log.Printf("[SEED] action=run msg=seeded %d districts and %d providers", len(data.Districts), len(data.Providers))
	return nil
}
