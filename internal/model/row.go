package model

import (
	"time"
)

// Column names used in the destination header.
const (
	ColTimestamp = "timestamp"
	ColCountry   = "country"
	ColCity      = "city"
	ColCategory  = "category"
	ColQuery     = "query"
	ColName      = "name"
	ColPhone     = "phone"
	ColWebsite   = "website"
	ColLat       = "lat"
	ColLng       = "lng"
	ColAddress   = "address"
	ColPlaceID   = "place_id"
	ColSource    = "source"
)

// Header is the canonical column order of a destination tab. Row arrays are
// always derived from this list (see OutputRow.Values).
var Header = []string{
	ColTimestamp,
	ColCountry,
	ColCity,
	ColCategory,
	ColName,
	ColPhone,
	ColWebsite,
	ColLat,
	ColLng,
	ColAddress,
	ColPlaceID,
	ColSource,
}

// OutputRow is the persisted unit. All values are kept as the strings written
// to the destination.
type OutputRow struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Country   string `json:"country" yaml:"country"`
	City      string `json:"city" yaml:"city"`
	Category  string `json:"category" yaml:"category"`
	Query     string `json:"query" yaml:"query"`
	Name      string `json:"name" yaml:"name"`
	Phone     string `json:"phone" yaml:"phone"`
	Website   string `json:"website" yaml:"website"`
	Lat       string `json:"lat" yaml:"lat"`
	Lng       string `json:"lng" yaml:"lng"`
	Address   string `json:"address" yaml:"address"`
	PlaceID   string `json:"place_id" yaml:"place_id"`
	Source    string `json:"source" yaml:"source"`
}

// fields maps a column name to the row field backing it.
var fields = map[string]func(r *OutputRow) *string{
	ColTimestamp: func(r *OutputRow) *string { return &r.Timestamp },
	ColCountry:   func(r *OutputRow) *string { return &r.Country },
	ColCity:      func(r *OutputRow) *string { return &r.City },
	ColCategory:  func(r *OutputRow) *string { return &r.Category },
	ColQuery:     func(r *OutputRow) *string { return &r.Query },
	ColName:      func(r *OutputRow) *string { return &r.Name },
	ColPhone:     func(r *OutputRow) *string { return &r.Phone },
	ColWebsite:   func(r *OutputRow) *string { return &r.Website },
	ColLat:       func(r *OutputRow) *string { return &r.Lat },
	ColLng:       func(r *OutputRow) *string { return &r.Lng },
	ColAddress:   func(r *OutputRow) *string { return &r.Address },
	ColPlaceID:   func(r *OutputRow) *string { return &r.PlaceID },
	ColSource:    func(r *OutputRow) *string { return &r.Source },
}

// KnownColumn reports whether name is a column OutputRow can serialize.
func KnownColumn(name string) bool {
	_, ok := fields[name]
	return ok
}

// Field returns the value stored under the given column name, or "" for
// unknown columns.
func (r OutputRow) Field(name string) string {
	get, ok := fields[name]
	if !ok {
		return ""
	}
	return *get(&r)
}

// Values serializes the row in header order: position i holds header[i].
func (r OutputRow) Values(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		out[i] = r.Field(col)
	}
	return out
}

// RowFromValues is the inverse of Values. Missing trailing cells are left empty
// and unknown columns are ignored.
func RowFromValues(header, values []string) OutputRow {
	var r OutputRow
	for i, col := range header {
		if i >= len(values) {
			break
		}
		if set, ok := fields[col]; ok {
			*set(&r) = values[i]
		}
	}
	return r
}

// Key returns the row's dedupe key.
func (r OutputRow) Key() string {
	return DedupeKey(r.PlaceID, r.Name, r.Address)
}

// NewOutputRow assembles a row from the search result and its detail. Detail
// values win; search values fill the gaps.
func NewOutputRow(q SearchQuery, raw RawPlace, d PlaceDetail, at time.Time, source string) OutputRow {
	loc := d.Location
	if loc == nil {
		loc = raw.Location
	}
	return OutputRow{
		Timestamp: at.UTC().Format(time.RFC3339),
		Country:   q.Country,
		City:      q.City,
		Category:  q.Category,
		Query:     q.Text(),
		Name:      firstNonEmpty(d.Name, raw.Name),
		Phone:     d.Phone,
		Website:   d.Website,
		Lat:       loc.LatString(),
		Lng:       loc.LngString(),
		Address:   firstNonEmpty(d.FormattedAddress, raw.FormattedAddress),
		PlaceID:   firstNonEmpty(raw.PlaceID, d.PlaceID),
		Source:    source,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
