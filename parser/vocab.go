package parser

import "github.com/tripforge/go-harvest-hotels/models"

// amenityKeywords maps free-text fragments to canonical amenity tags.
// Matching is substring-based on lowercased card text; duplicates collapse
// into a set, so map iteration order does not matter.
var amenityKeywords = map[string]string{
	// connectivity
	"wifi": "wifi", "wi-fi": "wifi", "internet": "wifi", "wireless": "wifi",
	// pool & water
	"pool": "pool", "swimming": "pool",
	"hot tub": "hot_tub", "jacuzzi": "hot_tub", "whirlpool": "hot_tub",
	"sauna": "sauna", "steam room": "sauna",
	// parking & transport
	"parking": "parking", "car park": "parking", "garage": "parking",
	"airport shuttle": "airport_shuttle", "shuttle": "airport_shuttle",
	"transfer": "airport_shuttle",
	// food & drink
	"breakfast": "breakfast", "morning meal": "breakfast",
	"restaurant": "restaurant", "dining": "restaurant",
	"bar": "bar", "lounge": "bar",
	"room service": "room_service", "mini bar": "minibar", "minibar": "minibar",
	// fitness & wellness
	"gym": "gym", "fitness": "gym", "exercise": "gym", "workout": "gym",
	"spa": "spa", "wellness": "spa", "massage": "spa", "treatment": "spa",
	// climate
	"air conditioning": "air_conditioning", "air-conditioning": "air_conditioning",
	"heating": "heating",
	// kitchen & laundry
	"kitchen": "kitchen", "kitchenette": "kitchen", "cooking": "kitchen",
	"laundry": "laundry", "washing machine": "laundry", "ironing": "laundry",
	// outdoor
	"balcony": "balcony", "terrace": "balcony", "patio": "balcony",
	"garden": "garden", "outdoor": "garden",
	"bbq": "bbq", "barbecue": "bbq", "grill": "bbq",
	"beach": "beach_access", "beachfront": "beach_access", "waterfront": "beach_access",
	// views
	"river view": "river_view", "river-view": "river_view",
	"ocean view": "ocean_view", "sea view": "ocean_view", "sea-view": "ocean_view",
	"mountain view": "mountain_view", "mountain-view": "mountain_view",
	"city view": "city_view", "lake view": "lake_view",
	// pets
	"pet": "pet_friendly", "dog": "pet_friendly", "pets allowed": "pet_friendly",
	// safety & services
	"24-hour front desk": "24hr_front_desk", "front desk": "24hr_front_desk",
	"reception": "24hr_front_desk",
	"safe":      "safe", "safety deposit": "safe",
	"concierge": "concierge",
	"elevator":  "elevator", "lift": "elevator",
	"non-smoking": "non_smoking", "no smoking": "non_smoking",
	"family room": "family_rooms", "family": "family_rooms",
	// entertainment
	"tv": "tv", "television": "tv", "flat-screen": "tv", "cable": "tv",
	"game room": "game_room", "play": "game_room",
	// extras
	"free cancellation": "free_cancellation",
	"wheelchair":        "wheelchair_accessible", "accessible": "wheelchair_accessible",
	"business": "business_center", "meeting room": "business_center",
	"hair dryer": "hair_dryer", "hairdryer": "hair_dryer",
	"coffee": "coffee_maker", "tea": "coffee_maker", "kettle": "coffee_maker",
	"towel": "towels", "linen": "towels",
}

// categoryKeyword pairs a name fragment with the category it implies.
// Order matters: the first match wins.
type categoryKeyword struct {
	keyword  string
	category models.Category
}

var categoryKeywords = []categoryKeyword{
	{"hostel", models.CategoryHostel},
	{"backpacker", models.CategoryHostel},
	{"dorm", models.CategoryHostel},
	{"resort", models.CategoryResort},
	{"boutique", models.CategoryBoutique},
	{"lodge", models.CategoryResort},
	{"villa", models.CategoryResort},
	{"motel", models.CategoryBudget},
	{"inn", models.CategoryBudget},
	{"guest house", models.CategoryBudget},
	{"guesthouse", models.CategoryBudget},
	{"bed and breakfast", models.CategoryBudget},
	{"b&b", models.CategoryBudget},
	{"apartment", models.CategoryBudget},
	{"luxury", models.CategoryLuxury},
	{"palace", models.CategoryLuxury},
	{"5-star", models.CategoryLuxury},
	{"premium", models.CategoryLuxury},
}

// amenityPools lists, in padding order, the amenities typical for each
// category. Used to top up sparse extractions to the minimum count.
var amenityPools = map[models.Category][]string{
	models.CategoryLuxury: {
		"wifi", "pool", "spa", "gym", "restaurant", "bar",
		"room_service", "air_conditioning", "parking", "breakfast",
		"concierge", "elevator",
	},
	models.CategoryResort: {
		"wifi", "pool", "restaurant", "garden", "parking", "bar",
		"spa", "breakfast", "air_conditioning", "balcony",
	},
	models.CategoryBoutique: {
		"wifi", "breakfast", "air_conditioning", "bar", "concierge",
		"restaurant", "laundry", "garden",
	},
	models.CategoryHostel: {
		"wifi", "laundry", "kitchen", "24hr_front_desk", "non_smoking", "tv",
	},
	models.CategoryBudget: {
		"wifi", "parking", "air_conditioning", "tv", "24hr_front_desk",
		"non_smoking", "elevator",
	},
	models.CategoryMidRange: {
		"wifi", "parking", "breakfast", "air_conditioning", "tv",
		"elevator", "restaurant", "laundry",
	},
}
