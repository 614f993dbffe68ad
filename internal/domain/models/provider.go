package models

// BusProvider is a seeded operator. Coverage is the set of districts the
// provider claims to serve; a provider covers a route between two
// districts when both are in its coverage set.
type BusProvider struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchResult is one row of the bus search cross product: a qualifying
// provider paired with a dropping point in the destination district.
type SearchResult struct {
	ProviderName string `json:"provider_name"`
	FromDistrict string `json:"from_district"`
	ToDistrict   string `json:"to_district"`
	DropPoint    string `json:"drop_point"`
	Price        int64  `json:"price"`
}
