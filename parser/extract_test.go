package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tripforge/go-harvest-hotels/models"
)

const resultsPage = `
<html><body>
<div data-testid="property-card">
	<div data-testid="title">Hotel Sunrise</div>
	<span data-testid="price-and-discounted-price">₹ 6,256</span>
	<div data-testid="rating-stars" aria-label="4 out of 5">
		<span></span><span></span><span></span><span></span>
	</div>
	<div data-testid="review-score">Scored 8.4</div>
	<a data-testid="title-link" href="/hotel/in/sunrise.html?aid=1&highlight_room=abc123">Hotel Sunrise</a>
	<div data-testid="property-card-unit-configuration">Free WiFi, swimming pool, fitness centre</div>
	<span data-testid="distance">3.7 km from centre</span>
</div>
<div data-testid="property-card">
	<div data-testid="title">hotel sunrise </div>
	<span data-testid="price-and-discounted-price">₹ 9,999</span>
</div>
<div data-testid="property-card">
	<div data-testid="title"></div>
	<span data-testid="price-and-discounted-price">₹ 1,000</span>
</div>
<div data-testid="property-card">
	<div data-testid="title">Goa Backpacker Hostel</div>
	<span data-testid="price-and-discounted-price">₹ 800</span>
	<span data-testid="distance">800 m from centre</span>
</div>
</body></html>`

func TestExtract(t *testing.T) {
	extractor := NewExtractor("https://example.test", 30)
	records := extractor.Extract([]byte(resultsPage), "Goa", "India")

	if len(records) != 2 {
		t.Fatalf("Extract() returned %d records, want 2 (dedup + empty-name skip)", len(records))
	}

	first := records[0]
	if first.Name != "Hotel Sunrise" {
		t.Errorf("Name = %q, want %q", first.Name, "Hotel Sunrise")
	}
	if first.Price == nil || *first.Price != 6256 {
		t.Errorf("Price = %v, want 6256", first.Price)
	}
	if first.Stars == nil || *first.Stars != 4 {
		t.Errorf("Stars = %v, want 4", first.Stars)
	}
	if first.Rating == nil || *first.Rating != 4.2 {
		t.Errorf("Rating = %v, want 4.2", first.Rating)
	}
	if first.DistanceKM == nil || *first.DistanceKM != 3.7 {
		t.Errorf("DistanceKM = %v, want 3.7", first.DistanceKM)
	}
	wantLink := "https://example.test/hotel/in/sunrise.html?aid=1"
	if first.Link != wantLink {
		t.Errorf("Link = %q, want %q", first.Link, wantLink)
	}
	for _, tag := range []string{"wifi", "pool", "gym"} {
		if !containsTag(first.Amenities, tag) {
			t.Errorf("Amenities = %v, missing %q", first.Amenities, tag)
		}
	}
	if len(first.Amenities) < MinAmenities || len(first.Amenities) > MaxAmenities {
		t.Errorf("Amenities length %d outside [%d, %d]", len(first.Amenities), MinAmenities, MaxAmenities)
	}

	second := records[1]
	if second.Name != "Goa Backpacker Hostel" {
		t.Errorf("second Name = %q, want %q", second.Name, "Goa Backpacker Hostel")
	}
	if second.Category != models.CategoryHostel {
		t.Errorf("second Category = %q, want %q", second.Category, models.CategoryHostel)
	}
	if second.DistanceKM == nil || *second.DistanceKM != 0.8 {
		t.Errorf("second DistanceKM = %v, want 0.8", second.DistanceKM)
	}
}

func TestExtractLegacyMarkup(t *testing.T) {
	page := `
<html><body>
<div class="sr_property_block">
	<span class="sr-hotel__name">Old Town Inn</span>
	<span class="bui-price-display__value">₹ 2,500</span>
</div>
</body></html>`

	extractor := NewExtractor("https://example.test", 30)
	records := extractor.Extract([]byte(page), "Pune", "India")

	if len(records) != 1 {
		t.Fatalf("Extract() returned %d records, want 1", len(records))
	}
	if records[0].Name != "Old Town Inn" {
		t.Errorf("Name = %q, want %q", records[0].Name, "Old Town Inn")
	}
	if records[0].Price == nil || *records[0].Price != 2500 {
		t.Errorf("Price = %v, want 2500", records[0].Price)
	}
}

func TestExtractNoContainer(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty document", body: ""},
		{name: "unrelated markup", body: "<html><body><p>nothing here</p></body></html>"},
	}

	extractor := NewExtractor("https://example.test", 30)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if records := extractor.Extract([]byte(tt.body), "Goa", "India"); len(records) != 0 {
				t.Errorf("Extract() = %v, want empty", records)
			}
		})
	}
}

func TestExtractHonorsRecordCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, name := range []string{"One", "Two", "Three", "Four"} {
		sb.WriteString(`<div data-testid="property-card"><div data-testid="title">Hotel ` + name + `</div></div>`)
	}
	sb.WriteString("</body></html>")

	extractor := NewExtractor("https://example.test", 2)
	records := extractor.Extract([]byte(sb.String()), "Goa", "India")
	if len(records) != 2 {
		t.Fatalf("Extract() returned %d records, want cap of 2", len(records))
	}
}

func TestMergeRecords(t *testing.T) {
	extractor := NewExtractor("https://example.test", 3)
	base := []models.ListingRecord{
		{Name: "Hotel Alpha"},
		{Name: "Hotel Beta"},
	}
	extra := []models.ListingRecord{
		{Name: "hotel alpha"},
		{Name: "Hotel Gamma"},
		{Name: "Hotel Delta"},
	}

	merged := extractor.MergeRecords(base, extra)

	var names []string
	for i := range merged {
		names = append(names, merged[i].Name)
	}
	want := []string{"Hotel Alpha", "Hotel Beta", "Hotel Gamma"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("MergeRecords() names = %v, want %v", names, want)
	}
}

func TestExtractDetailAmenities(t *testing.T) {
	page := `
<html><body>
<div id="hp_facilities_box">
	<li>Free WiFi</li>
	<li>Outdoor swimming pool</li>
	<li>Airport shuttle</li>
</div>
<div data-testid="property-most-popular-facilities-wrapper">Spa and wellness centre</div>
</body></html>`

	amenities := ExtractDetailAmenities([]byte(page))
	for _, tag := range []string{"wifi", "pool", "airport_shuttle", "spa"} {
		if !containsTag(amenities, tag) {
			t.Errorf("ExtractDetailAmenities() = %v, missing %q", amenities, tag)
		}
	}
}

func containsTag(amenities []string, tag string) bool {
	for _, a := range amenities {
		if a == tag {
			return true
		}
	}
	return false
}
