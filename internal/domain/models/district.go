package models

// District is a seeded service area. Names are unique and immutable
// after seeding.
type District struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DroppingPoint is a named arrival stop inside a district. Price is in
// the smallest currency unit (taka).
type DroppingPoint struct {
	ID         int64  `json:"id"`
	DistrictID int64  `json:"district_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
}

// DistrictWithPoints bundles a district with its dropping points for
// listing endpoints.
type DistrictWithPoints struct {
	District
	DroppingPoints []DroppingPoint `json:"dropping_points"`
}
