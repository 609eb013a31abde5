package harvest

import (
	"net/url"
	"strconv"
	"time"
)

// secondPageOffset is the results offset used when the first page comes up
// short.
const secondPageOffset = 25

// SearchURL builds a results-page URL for one place: a 2-night, 2-adult stay
// a month out, 40 rows per page. The offset selects follow-up pages.
func SearchURL(base, place, country, currency string, offset int) string {
	checkin := time.Now().AddDate(0, 0, 30)
	checkout := checkin.AddDate(0, 0, 2)

	query := url.Values{}
	query.Set("ss", place+", "+country)
	query.Set("checkin", checkin.Format("2006-01-02"))
	query.Set("checkout", checkout.Format("2006-01-02"))
	query.Set("group_adults", "2")
	query.Set("no_rooms", "1")
	query.Set("selected_currency", currency)
	query.Set("rows", "40")
	query.Set("offset", strconv.Itoa(offset))

	return base + "/searchresults.html?" + query.Encode()
}
