package parser

import (
	"reflect"
	"testing"

	"github.com/tripforge/go-harvest-hotels/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *int
	}{
		{name: "rupee with separator", text: "₹ 6,256", want: intPtr(6256)},
		{name: "dollar", text: "$120", want: intPtr(120)},
		{name: "plain digits", text: "4500", want: intPtr(4500)},
		{name: "separator and spaces", text: "INR 12, 500", want: intPtr(12500)},
		{name: "no digits", text: "price on request", want: nil},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParsePrice(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.text, *got, *tt.want)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{name: "ten-scale halved", text: "8.4", want: floatPtr(4.2)},
		{name: "five-scale passthrough", text: "4.2", want: floatPtr(4.2)},
		{name: "boundary stays", text: "5", want: floatPtr(5.0)},
		{name: "just above boundary halves", text: "5.1", want: floatPtr(2.6)},
		{name: "embedded in text", text: "Scored 9.1", want: floatPtr(4.6)},
		{name: "no number", text: "Superb", want: nil},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRating(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseRating(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseRating(%q) = %v, want %v", tt.text, *got, *tt.want)
			}
		})
	}
}

func TestParseDistanceKM(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{name: "kilometres", text: "3.7 km from centre", want: floatPtr(3.7)},
		{name: "metres", text: "800 m from centre", want: floatPtr(0.8)},
		{name: "miles", text: "2 miles from downtown", want: floatPtr(3.2)},
		{name: "uppercase units", text: "1.5 KM from downtown", want: floatPtr(1.5)},
		{name: "thousands separator", text: "1,200 m from centre", want: floatPtr(1.2)},
		{name: "no distance", text: "Beachfront location", want: nil},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDistanceKM(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseDistanceKM(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseDistanceKM(%q) = %v, want %v", tt.text, *got, *tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "collapse runs", text: "  Hotel   Sunrise \n Resort ", want: "Hotel Sunrise Resort"},
		{name: "already clean", text: "Plain", want: "Plain"},
		{name: "empty", text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.text); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractAmenities(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "canonical mapping sorted",
			text: "Free WiFi · Swimming pool · Fitness centre",
			want: []string{"gym", "pool", "wifi"},
		},
		{
			name: "synonyms collapse",
			text: "wi-fi and wireless internet",
			want: []string{"wifi"},
		},
		{
			name: "nothing recognized",
			text: "lorem ipsum",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAmenities(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractAmenities(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		name  string
		hotel string
		stars *int
		price *int
		want  models.Category
	}{
		{name: "name keyword wins", hotel: "Goa Beach Resort", stars: intPtr(2), price: intPtr(1000), want: models.CategoryResort},
		{name: "hostel before resort", hotel: "Backpacker Resort Hostel", want: models.CategoryHostel},
		{name: "five stars luxury", hotel: "Grand Hotel", stars: intPtr(5), want: models.CategoryLuxury},
		{name: "two stars budget", hotel: "Grand Hotel", stars: intPtr(2), want: models.CategoryBudget},
		{name: "price luxury", hotel: "Grand Hotel", price: intPtr(18000), want: models.CategoryLuxury},
		{name: "price budget", hotel: "Grand Hotel", price: intPtr(1500), want: models.CategoryBudget},
		{name: "default mid-range", hotel: "Grand Hotel", stars: intPtr(3), price: intPtr(5000), want: models.CategoryMidRange},
		{name: "nothing known", hotel: "Grand Hotel", want: models.CategoryMidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCategory(tt.hotel, tt.stars, tt.price); got != tt.want {
				t.Errorf("ClassifyCategory(%q) = %q, want %q", tt.hotel, got, tt.want)
			}
		})
	}
}

func TestPadAmenities(t *testing.T) {
	tests := []struct {
		name      string
		amenities []string
		category  models.Category
		want      []string
	}{
		{
			name:      "sparse list padded from pool in order",
			amenities: []string{"spa"},
			category:  models.CategoryLuxury,
			want:      []string{"spa", "wifi", "pool", "gym", "restaurant"},
		},
		{
			name:      "empty padded to minimum",
			amenities: nil,
			category:  models.CategoryHostel,
			want:      []string{"wifi", "laundry", "kitchen", "24hr_front_desk", "non_smoking"},
		},
		{
			name:      "already at minimum untouched",
			amenities: []string{"a", "b", "c", "d", "e"},
			category:  models.CategoryBudget,
			want:      []string{"a", "b", "c", "d", "e"},
		},
		{
			name:      "unknown category uses mid-range pool",
			amenities: nil,
			category:  models.Category("castle"),
			want:      []string{"wifi", "parking", "breakfast", "air_conditioning", "tv"},
		},
		{
			name: "oversized list truncated",
			amenities: []string{
				"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l",
			},
			category: models.CategoryMidRange,
			want:     []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PadAmenities(tt.amenities, tt.category)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PadAmenities() = %v, want %v", got, tt.want)
			}
			if len(got) < MinAmenities || len(got) > MaxAmenities {
				t.Errorf("PadAmenities() length %d outside [%d, %d]", len(got), MinAmenities, MaxAmenities)
			}
		})
	}
}

func TestPadAmenitiesDeterministic(t *testing.T) {
	first := PadAmenities([]string{"bar"}, models.CategoryBoutique)
	for i := 0; i < 20; i++ {
		again := PadAmenities([]string{"bar"}, models.CategoryBoutique)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced %v, first run produced %v", i, again, first)
		}
	}
}

func TestMergeAmenities(t *testing.T) {
	tests := []struct {
		name  string
		base  []string
		extra []string
		want  []string
	}{
		{
			name:  "first occurrence order preserved",
			base:  []string{"wifi", "pool"},
			extra: []string{"pool", "spa", "wifi", "gym"},
			want:  []string{"wifi", "pool", "spa", "gym"},
		},
		{
			name:  "capped at maximum",
			base:  []string{"a", "b", "c", "d", "e", "f", "g", "h"},
			extra: []string{"i", "j", "k", "l"},
			want:  []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		},
		{
			name:  "empty base",
			base:  nil,
			extra: []string{"wifi"},
			want:  []string{"wifi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeAmenities(tt.base, tt.extra)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeAmenities(%v, %v) = %v, want %v", tt.base, tt.extra, got, tt.want)
			}
		})
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
