package fetch

import (
	"math/rand"
	"regexp"
	"strings"
)

// Rotating user-agent pool. Header rotation is cosmetic jitter imitating
// human navigation, not a correctness requirement.
var userAgents = []string{
	// Chrome on Linux
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	// Chrome on Windows
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	// Chrome on macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	// Firefox
	"Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0",
	// Edge
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 Edg/126.0.0.0",
	// Safari
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,fr;q=0.8",
	"en-US,en;q=0.9,de;q=0.8",
	"en,en-US;q=0.9",
}

var chromeVersionRe = regexp.MustCompile(`Chrome/(\d+)`)
var edgeVersionRe = regexp.MustCompile(`Edg/(\d+)`)

// randomHeaders generates randomized browser-plausible headers, including
// client hints for Chromium user agents.
func randomHeaders(referer string) map[string]string {
	ua := userAgents[rand.Intn(len(userAgents))]
	isEdge := strings.Contains(ua, "Edg/")
	isChrome := strings.Contains(ua, "Chrome/") && !isEdge

	headers := map[string]string{
		"User-Agent":                ua,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           acceptLanguages[rand.Intn(len(acceptLanguages))],
		"Accept-Encoding":           "gzip, deflate, br",
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Cache-Control":             "max-age=0",
		"Priority":                  "u=0, i",
	}
	if referer != "" {
		headers["Referer"] = referer
		headers["Sec-Fetch-Site"] = "same-origin"
	}

	switch {
	case isChrome:
		version := chromeVersion(ua, chromeVersionRe)
		headers["sec-ch-ua"] = `"Chromium";v="` + version + `", "Google Chrome";v="` + version + `", "Not A(Brand";v="8"`
		headers["sec-ch-ua-mobile"] = "?0"
		headers["sec-ch-ua-platform"] = platformHint(ua)
	case isEdge:
		version := chromeVersion(ua, edgeVersionRe)
		headers["sec-ch-ua"] = `"Chromium";v="` + version + `", "Microsoft Edge";v="` + version + `", "Not A(Brand";v="8"`
		headers["sec-ch-ua-mobile"] = "?0"
		headers["sec-ch-ua-platform"] = `"Windows"`
	}
	return headers
}

func chromeVersion(ua string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(ua); m != nil {
		return m[1]
	}
	return "126"
}

func platformHint(ua string) string {
	switch {
	case strings.Contains(ua, "Linux"):
		return `"Linux"`
	case strings.Contains(ua, "Windows"):
		return `"Windows"`
	}
	return `"macOS"`
}

// randomUserAgent picks one rotating user agent for engines that pin the UA
// at session scope (browser contexts, warm-up clients).
func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}
