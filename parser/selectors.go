package parser

import "github.com/PuerkitoBio/goquery"

// Chain is an ordered list of CSS selector candidates for one structural
// role. Candidates are evaluated in order; the first non-empty match wins.
// The target's markup is unstable, so every role degrades through fallbacks.
type Chain []string

// Match evaluates the chain against root, returning the first non-empty
// selection, or nil when no candidate matches.
func (c Chain) Match(root *goquery.Selection) *goquery.Selection {
	for _, selector := range c {
		if sel := root.Find(selector); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

var (
	cardChain = Chain{
		`[data-testid='property-card']`,
		`div[data-testid='property-card-container']`,
		`.sr_property_block`,
	}

	// Looser shapes tried only when the primary card chain comes up empty.
	cardFallbackChain = Chain{
		`div[class*='property']`,
		`div[class*='hotel']`,
	}

	nameChain = Chain{
		`[data-testid='title']`,
		`.sr-hotel__name`,
		`h3 a span`,
		`a[data-testid='title-link'] div`,
	}

	priceChain = Chain{
		`[data-testid='price-and-discounted-price']`,
		`span[data-testid='price-and-discounted-price']`,
		`.bui-price-display__value`,
		`.prco-valign-middle-helper`,
		`[class*='price']`,
	}

	starsChain = Chain{
		`[data-testid='rating-stars'] span`,
		`[data-testid='rating-stars'] svg`,
		`.bui-rating .fcd9eec8fb`,
		`[class*='stars'] span`,
		`[class*='stars'] svg`,
	}

	ratingChain = Chain{
		`[data-testid='review-score']`,
		`.bui-review-score__badge`,
		`[class*='review-score']`,
	}

	linkChain = Chain{
		`a[data-testid='title-link']`,
		`a[data-testid='property-card-desktop-single-image']`,
		`h3 a`,
		`a.hotel_name_link`,
		`a[href*='/hotel/']`,
	}

	amenityChain = Chain{
		`[data-testid='property-card-unit-configuration']`,
		`[class*='facility']`,
		`[class*='amenity']`,
		`[class*='popular']`,
	}

	distanceChain = Chain{
		`[data-testid='distance']`,
		`[data-testid='address']`,
		`[data-testid='location']`,
		`.sr_card_address_line`,
	}

	// detailAmenitySelectors are scanned exhaustively (not first-match-wins)
	// on listing detail pages, which spread facilities across several blocks.
	detailAmenitySelectors = []string{
		`[data-testid='facility-group-icon']`,
		`.hotel-facilities-group`,
		`#hp_facilities_box li`,
		`.facilitiesChecklist__label`,
		`[data-testid='property-most-popular-facilities-wrapper']`,
		`.hp--popular_facilities li`,
		`.important_facility`,
		`[class*='FacilityGroup']`,
		`[class*='facility']`,
		`[class*='amenity']`,
		`[class*='Amenity']`,
	}
)
