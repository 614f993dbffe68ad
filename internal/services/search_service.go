package services

import (
	"database/sql"
	"fmt"

	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain"
	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
	"github.com/shagatomte19/bus-booking-system-rag/internal/repositories"
)

// SearchService answers "which providers run between these districts and
// where do they drop passengers" queries. Results are the full cross
// product of qualifying providers and price-filtered dropping points in
// the destination district.
type SearchService struct {
	DistrictRepo repositories.DistrictRepo
	ProviderRepo repositories.ProviderRepo
	DB           *sql.DB
}

func (s SearchService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s SearchService) districts() repositories.DistrictRepo {
	if s.DistrictRepo.DB != nil {
		return s.DistrictRepo
	}
	return repositories.DistrictRepo{DB: s.db()}
}

func (s SearchService) providers() repositories.ProviderRepo {
	if s.ProviderRepo.DB != nil {
		return s.ProviderRepo
	}
	return repositories.ProviderRepo{DB: s.db()}
}

// Search validates both districts and returns the route cross product.
// Unknown districts are a NotFoundError.
func (s SearchService) Search(fromDistrict, toDistrict string, maxPrice *int64) ([]models.SearchResult, error) {
	fromDist, ok, err := s.districts().GetByName(fromDistrict)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if !ok {
		return nil, domain.NotFoundError{Resource: fmt.Sprintf("district '%s'", fromDistrict)}
	}
	toDist, ok, err := s.districts().GetByName(toDistrict)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if !ok {
		return nil, domain.NotFoundError{Resource: fmt.Sprintf("district '%s'", toDistrict)}
	}
	return s.routesBetween(fromDist, toDist, maxPrice)
}

// FindRoutes is the lenient variant used by the query router: unknown
// districts yield an empty result set, not an error.
func (s SearchService) FindRoutes(fromDistrict, toDistrict string, maxPrice *int64) ([]models.SearchResult, error) {
	fromDist, ok, err := s.districts().GetByName(fromDistrict)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.SearchResult{}, nil
	}
	toDist, ok, err := s.districts().GetByName(toDistrict)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.SearchResult{}, nil
	}
	return s.routesBetween(fromDist, toDist, maxPrice)
}

func (s SearchService) routesBetween(fromDist, toDist models.District, maxPrice *int64) ([]models.SearchResult, error) {
	providers, err := s.providers().ListCoveringBoth(fromDist.ID, toDist.ID)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return []models.SearchResult{}, nil
	}

	points, err := s.districts().ListDroppingPoints(toDist.ID, maxPrice)
	if err != nil {
		return nil, err
	}

	results := []models.SearchResult{}
	for _, p := range providers {
		for _, dp := range points {
			results = append(results, models.SearchResult{
				ProviderName: p.Name,
				FromDistrict: fromDist.Name,
				ToDistrict:   toDist.Name,
				DropPoint:    dp.Name,
				Price:        dp.Price,
			})
		}
	}
	return results, nil
}
