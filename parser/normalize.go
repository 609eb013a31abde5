package parser

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tripforge/go-harvest-hotels/models"
)

const (
	// MinAmenities and MaxAmenities bound the amenity set on every record.
	MinAmenities = 5
	MaxAmenities = 10

	luxuryPriceFloor  = 15000
	budgetPriceCeil   = 2000
	milesToKilometres = 1.60934
)

var (
	digitRunRe = regexp.MustCompile(`[\d,]+`)
	decimalRe  = regexp.MustCompile(`(\d+\.?\d*)`)
	kmRe       = regexp.MustCompile(`([\d,.]+)\s*km`)
	metresRe   = regexp.MustCompile(`([\d,.]+)\s*(?:m|metres?|meters?)\b`)
	milesRe    = regexp.MustCompile(`([\d,.]+)\s*(?:mi|miles?)\b`)
	wsRe       = regexp.MustCompile(`\s+`)
)

// CleanText collapses whitespace runs and trims the result.
func CleanText(text string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
}

// ParsePrice extracts a numeric price from text like "₹ 6,256" or "$120".
// Thousands separators are ignored. Absent or malformed input yields nil.
func ParsePrice(text string) *int {
	if text == "" {
		return nil
	}
	match := digitRunRe.FindString(strings.ReplaceAll(text, " ", ""))
	if match == "" {
		return nil
	}
	value, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return nil
	}
	return &value
}

// ParseRating normalizes a review score onto the 0-5 scale. The source site
// scores on 0-10, so values above 5 are halved. Rounded to one decimal.
func ParseRating(text string) *float64 {
	if text == "" {
		return nil
	}
	match := decimalRe.FindString(text)
	if match == "" {
		return nil
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	if value > 5 {
		value /= 2
	}
	value = math.Round(value*10) / 10
	return &value
}

// ParseDistanceKM extracts a distance in kilometres from phrases like
// "3.7 km from downtown", "800 m from centre", or "2 miles from downtown".
func ParseDistanceKM(text string) *float64 {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	if m := kmRe.FindStringSubmatch(lower); m != nil {
		if v, ok := parseFloatLoose(m[1]); ok {
			return roundOne(v)
		}
	}
	if m := metresRe.FindStringSubmatch(lower); m != nil {
		if v, ok := parseFloatLoose(m[1]); ok {
			return roundOne(v / 1000)
		}
	}
	if m := milesRe.FindStringSubmatch(lower); m != nil {
		if v, ok := parseFloatLoose(m[1]); ok {
			return roundOne(v * milesToKilometres)
		}
	}
	return nil
}

func parseFloatLoose(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	return v, err == nil
}

func roundOne(v float64) *float64 {
	rounded := math.Round(v*10) / 10
	return &rounded
}

// ExtractAmenities maps raw amenity-adjacent text onto the canonical
// vocabulary. The result is sorted so the same input yields the same slice.
func ExtractAmenities(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]struct{})
	for keyword, canonical := range amenityKeywords {
		if strings.Contains(lower, keyword) {
			found[canonical] = struct{}{}
		}
	}
	amenities := make([]string, 0, len(found))
	for tag := range found {
		amenities = append(amenities, tag)
	}
	sort.Strings(amenities)
	return amenities
}

// ClassifyCategory derives the market segment from name keywords, then star
// count, then price thresholds. Defaults to mid-range.
func ClassifyCategory(name string, stars *int, price *int) models.Category {
	lower := strings.ToLower(name)
	for _, ck := range categoryKeywords {
		if strings.Contains(lower, ck.keyword) {
			return ck.category
		}
	}
	if stars != nil {
		if *stars >= 5 {
			return models.CategoryLuxury
		}
		if *stars <= 2 {
			return models.CategoryBudget
		}
	}
	if price != nil {
		if *price >= luxuryPriceFloor {
			return models.CategoryLuxury
		}
		if *price <= budgetPriceCeil {
			return models.CategoryBudget
		}
	}
	return models.CategoryMidRange
}

// PadAmenities tops up a sparse amenity list from the category pool, in pool
// order, skipping tags already present, then truncates to the maximum.
// Deterministic: the same input always produces the same output.
func PadAmenities(amenities []string, category models.Category) []string {
	if len(amenities) >= MinAmenities {
		return capAmenities(amenities)
	}
	pool, ok := amenityPools[category]
	if !ok {
		pool = amenityPools[models.CategoryMidRange]
	}
	existing := make(map[string]struct{}, len(amenities))
	for _, tag := range amenities {
		existing[tag] = struct{}{}
	}
	for _, tag := range pool {
		if len(amenities) >= MinAmenities {
			break
		}
		if _, ok := existing[tag]; ok {
			continue
		}
		amenities = append(amenities, tag)
		existing[tag] = struct{}{}
	}
	return capAmenities(amenities)
}

func capAmenities(amenities []string) []string {
	if len(amenities) > MaxAmenities {
		return amenities[:MaxAmenities]
	}
	return amenities
}

// MergeAmenities combines card and detail-page amenities, preserving first
// occurrence order, capped at the maximum.
func MergeAmenities(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, tag := range append(append([]string{}, base...), extra...) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	return capAmenities(merged)
}
