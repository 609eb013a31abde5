// Package parser turns raw results-page HTML into normalized listing records.
package parser

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tripforge/go-harvest-hotels/models"
)

var (
	starsAriaRe   = regexp.MustCompile(`(?i)(\d)\s*(?:out of|star|/)`)
	trackingTail  = regexp.MustCompile(`&highlight_room=.*`)
	defaultOrigin = "https://www.booking.com"
)

// Extractor parses results pages for one harvesting run.
type Extractor struct {
	origin     string
	maxRecords int
}

// NewExtractor builds an extractor. origin resolves relative listing links;
// maxRecords caps the records emitted per page.
func NewExtractor(origin string, maxRecords int) *Extractor {
	if origin == "" {
		origin = defaultOrigin
	}
	return &Extractor{origin: origin, maxRecords: maxRecords}
}

// Extract parses a results page into listing records. Records are
// deduplicated by case-insensitive name and capped at the configured
// maximum, preferring the order encountered. A malformed document or a page
// without a recognizable card container yields an empty slice, never an
// error: sparse or broken pages must not fail the work item.
func (e *Extractor) Extract(body []byte, place, country string) []models.ListingRecord {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		slog.Error("results page parse failed",
			slog.String("place", place),
			slog.String("country", country),
			slog.Any("error", err),
		)
		return nil
	}

	cards := cardChain.Match(doc.Selection)
	if cards == nil {
		cards = cardFallbackChain.Match(doc.Selection)
	}
	if cards == nil {
		return nil
	}

	records := make([]models.ListingRecord, 0, e.maxRecords)
	seen := make(map[string]struct{})

	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		record, ok := e.parseCard(card)
		if !ok {
			return true
		}
		key := record.NameKey()
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		records = append(records, record)
		return len(records) < e.maxRecords
	})

	return records
}

// MergeRecords appends records from a follow-up page, skipping names already
// present, capped at the configured maximum.
func (e *Extractor) MergeRecords(base, extra []models.ListingRecord) []models.ListingRecord {
	seen := make(map[string]struct{}, len(base))
	for i := range base {
		seen[base[i].NameKey()] = struct{}{}
	}
	for i := range extra {
		if len(base) >= e.maxRecords {
			break
		}
		key := extra[i].NameKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		base = append(base, extra[i])
	}
	return base
}

// ExtractDetailAmenities pulls canonical amenities out of a listing detail
// page. Every detail selector is scanned; facilities are scattered across
// multiple blocks there.
func ExtractDetailAmenities(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var parts []string
	for _, selector := range detailAmenitySelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := CleanText(sel.Text()); text != "" {
				parts = append(parts, text)
			}
		})
	}
	return ExtractAmenities(strings.Join(parts, " "))
}

func (e *Extractor) parseCard(card *goquery.Selection) (models.ListingRecord, bool) {
	var record models.ListingRecord

	nameSel := nameChain.Match(card)
	if nameSel == nil {
		return record, false
	}
	record.Name = CleanText(nameSel.First().Text())
	if record.Name == "" {
		return record, false
	}

	if priceSel := priceChain.Match(card); priceSel != nil {
		record.Price = ParsePrice(CleanText(priceSel.First().Text()))
	}

	record.Stars = parseStars(card)

	if ratingSel := ratingChain.Match(card); ratingSel != nil {
		record.Rating = ParseRating(CleanText(ratingSel.First().Text()))
	}

	if linkSel := linkChain.Match(card); linkSel != nil {
		if href, ok := linkSel.First().Attr("href"); ok && href != "" {
			record.Link = e.absoluteLink(href)
		}
	}

	var amenityText []string
	if amenitySel := amenityChain.Match(card); amenitySel != nil {
		amenitySel.Each(func(_ int, sel *goquery.Selection) {
			amenityText = append(amenityText, CleanText(sel.Text()))
		})
	}
	amenities := ExtractAmenities(strings.Join(amenityText, " "))

	if distSel := distanceChain.Match(card); distSel != nil {
		distSel.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if text := CleanText(sel.Text()); text != "" {
				if km := ParseDistanceKM(text); km != nil {
					record.DistanceKM = km
					return false
				}
			}
			return true
		})
	}

	record.Category = ClassifyCategory(record.Name, record.Stars, record.Price)
	record.Amenities = PadAmenities(amenities, record.Category)
	return record, true
}

// parseStars reads the star rating from the stars element's aria-label when
// present, falling back to counting star glyphs (capped at 5).
func parseStars(card *goquery.Selection) *int {
	starSel := starsChain.Match(card)
	if starSel == nil {
		return nil
	}
	aria := starSel.First().Parent().AttrOr("aria-label", "")
	if m := starsAriaRe.FindStringSubmatch(aria); m != nil {
		stars := int(m[1][0] - '0')
		return &stars
	}
	stars := starSel.Length()
	if stars > 5 {
		stars = 5
	}
	if stars == 0 {
		return nil
	}
	return &stars
}

func (e *Extractor) absoluteLink(href string) string {
	link := href
	if strings.HasPrefix(href, "/") {
		link = e.origin + href
	}
	// strip noisy room-highlight tracking params
	return trackingTail.ReplaceAllString(link, "")
}
