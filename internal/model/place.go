// Package model defines the records that flow through a hunt: search queries,
// places returned by the provider, enriched details and spreadsheet rows.
package model

import (
	"strconv"
	"strings"
)

// SearchQuery is the provider query for one category in one city.
type SearchQuery struct {
	Category string `json:"category"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// Text composes the free-text query sent to the provider, e.g. "barberías Bogotá Colombia".
func (q SearchQuery) Text() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{q.Category, q.City, q.Country} {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatString formats the latitude for storage. A nil receiver yields "".
func (c *Coordinates) LatString() string {
	if c == nil {
		return ""
	}
	return strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// LngString formats the longitude for storage. A nil receiver yields "".
func (c *Coordinates) LngString() string {
	if c == nil {
		return ""
	}
	return strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// RawPlace is the minimal search-result shape. Location is nil when the
// provider returned no geometry.
type RawPlace struct {
	PlaceID          string       `json:"place_id,omitempty"`
	Name             string       `json:"name"`
	FormattedAddress string       `json:"formatted_address"`
	Location         *Coordinates `json:"location,omitempty"`
	Rating           *float64     `json:"rating,omitempty"`
}

// PlaceDetail is the enrichment result for a single place. Absent values are
// empty strings so that row assembly can stay positional.
type PlaceDetail struct {
	PlaceID          string       `json:"place_id"`
	Name             string       `json:"name"`
	FormattedAddress string       `json:"formatted_address"`
	Phone            string       `json:"phone"`
	Website          string       `json:"website"`
	Location         *Coordinates `json:"location,omitempty"`
}

// EmptyDetail returns the degraded detail used when enrichment fails.
func EmptyDetail(placeID string) PlaceDetail {
	return PlaceDetail{PlaceID: placeID}
}
