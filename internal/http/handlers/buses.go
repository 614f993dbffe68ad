package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type searchRequest struct {
	FromDistrict string `json:"from_district"`
	ToDistrict   string `json:"to_district"`
	MaxPrice     *int64 `json:"max_price"`
}

// POST /api/buses/search
func (a *API) SearchBuses(c *gin.Context) {
	var req searchRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	results, err := a.Search.Search(req.FromDistrict, req.ToDistrict, req.MaxPrice)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from_district": req.FromDistrict,
		"to_district":   req.ToDistrict,
		"count":         len(results),
		"results":       results,
	})
}

// GET /api/buses/providers
func (a *API) ListProviders(c *gin.Context) {
	providers, err := a.Providers.ListAll()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load providers", err)
		return
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name)
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(names),
		"providers": names,
	})
}

// GET /api/buses/districts
func (a *API) ListDistricts(c *gin.Context) {
	districts, err := a.Districts.ListWithPoints()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load districts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(districts),
		"districts": districts,
	})
}
