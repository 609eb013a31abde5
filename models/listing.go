// Package models defines data structures shared across the harvester.
package models

import "strings"

// Category buckets a listing by its market segment.
type Category string

const (
	CategoryLuxury   Category = "luxury"
	CategoryResort   Category = "resort"
	CategoryBoutique Category = "boutique"
	CategoryHostel   Category = "hostel"
	CategoryBudget   Category = "budget"
	CategoryMidRange Category = "mid-range"
)

// WorkItem is one place+country pair to harvest. Identity is (Place, Country).
type WorkItem struct {
	Place   string `json:"place"`
	Country string `json:"country"`
}

// Key returns the identity string used in the results mapping and logs.
func (w WorkItem) Key() string {
	return w.Place + ", " + w.Country
}

// ListingRecord is one normalized lodging entry extracted from a results page.
type ListingRecord struct {
	Name       string   `json:"hotel_name"`
	Price      *int     `json:"price_per_night"`
	Rating     *float64 `json:"rating"`
	Stars      *int     `json:"stars"`
	Amenities  []string `json:"amenities"`
	Link       string   `json:"hotel_link,omitempty"`
	Category   Category `json:"hotel_type"`
	DistanceKM *float64 `json:"distance_from_downtown_km"`
}

// NameKey returns the case-insensitive identity used for per-page dedup.
func (r *ListingRecord) NameKey() string {
	return strings.ToLower(strings.TrimSpace(r.Name))
}

// Failure is one ledger entry for a WorkItem that produced no records.
type Failure struct {
	Place   string `json:"place"`
	Country string `json:"country"`
	Error   string `json:"error"`
}
