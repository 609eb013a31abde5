package fetch

import (
	"bytes"
	"net/http"
)

// Classification is the per-attempt verdict on an HTTP status + body pair.
type Classification int

const (
	ClassUsable Classification = iota
	ClassChallenge
	ClassRateLimited
	ClassForbidden
	ClassOther
)

func (c Classification) String() string {
	switch c {
	case ClassUsable:
		return "usable"
	case ClassChallenge:
		return "challenge"
	case ClassRateLimited:
		return "rate_limited"
	case ClassForbidden:
		return "forbidden"
	}
	return "other"
}

// challengePrefixLimit bounds the body prefix scanned for block indicators.
const challengePrefixLimit = 8 * 1024

var listingMarkers = [][]byte{
	[]byte(`data-testid="property-card"`),
	[]byte(`sr_property_block`),
	[]byte(`property-card-container`),
}

var challengeIndicators = [][]byte{
	[]byte("captcha"),
	[]byte("challenge"),
	[]byte("are you a human"),
	[]byte("browser check"),
	[]byte("ray id"),
	[]byte("cf-browser-verification"),
	[]byte("just a moment"),
	[]byte("enable javascript"),
	[]byte("verify you are human"),
	[]byte("access denied"),
	[]byte("bot detection"),
}

// HasListingMarkers reports whether the body contains structural proof that
// the listing grid rendered.
func HasListingMarkers(body []byte) bool {
	for _, marker := range listingMarkers {
		if bytes.Contains(body, marker) {
			return true
		}
	}
	return false
}

// IsChallengePage scans a bounded prefix of the body for anti-bot block
// indicators. Heuristic, not proof: missed challenge pages are bounded by
// the retry ceiling.
func IsChallengePage(body []byte) bool {
	prefix := body
	if len(prefix) > challengePrefixLimit {
		prefix = prefix[:challengePrefixLimit]
	}
	lower := bytes.ToLower(prefix)
	for _, indicator := range challengeIndicators {
		if bytes.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// Classify maps one attempt's status and body onto the retry policy. A 200
// without listing markers but also without block indicators is usable:
// legitimately sparse result pages must not retry forever. A 202 is usable
// only when the listing grid actually rendered.
func Classify(status int, body []byte) Classification {
	switch status {
	case http.StatusTooManyRequests:
		return ClassRateLimited
	case http.StatusForbidden:
		return ClassForbidden
	case http.StatusOK:
		if HasListingMarkers(body) || !IsChallengePage(body) {
			return ClassUsable
		}
		return ClassChallenge
	case http.StatusAccepted:
		if HasListingMarkers(body) {
			return ClassUsable
		}
		return ClassChallenge
	}
	return ClassOther
}
