package content

import (
	"math/rand"
	"net/http"
)

// acceptLanguages contains Accept-Language values of browsers used by danish readers
var acceptLanguages = []string{
	"da-DK,da;q=0.9",
	"da-DK,da;q=0.9,en;q=0.8",
	"da,en-US;q=0.9,en;q=0.8",
	"da-DK,da;q=0.9,en-US;q=0.8,en;q=0.7",
	"da-DK,da;q=0.9,sv;q=0.8,nb;q=0.7",
	"en-DK,en;q=0.9,da;q=0.8",
}

// secFetchModes for different request contexts
var secFetchModes = []string{
	"navigate",
	"no-cors",
	"cors",
}

// addBrowserHeaders adds common browser headers to the request with some randomization
func addBrowserHeaders(req *http.Request) {
	// essential headers that should always be present
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	// randomized language
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation

	// dnt - 30% chance of being set
	if rand.Float32() < 0.3 { //nolint:gosec // non-cryptographic randomness is fine
		req.Header.Set("DNT", "1")
	}

	// modern browsers send Sec-Fetch-* headers
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", secFetchModes[rand.Intn(len(secFetchModes))]) //nolint:gosec // non-cryptographic randomness is fine
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")

	// connection header
	if rand.Float32() < 0.8 { //nolint:gosec // non-cryptographic randomness is fine, 80% keep-alive
		req.Header.Set("Connection", "keep-alive")
	}
}
