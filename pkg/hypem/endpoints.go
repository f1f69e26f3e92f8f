package hypem

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// ListingModeParam is the query parameter selecting the minimal render of a listing page
	ListingModeParam = "ax"

	// ListingModeInline makes the listing inline its track metadata
	ListingModeInline = "1"

	// PlayEndpoint is the path prefix serving audio
	PlayEndpoint = "/serve/play/"
)

// ListingURL constructs the URL of page pageNumber of username's listing
func ListingURL(baseURL, username string, pageNumber int) string {
	params := url.Values{}
	params.Set(ListingModeParam, ListingModeInline)

	return fmt.Sprintf("%s/%s/%s?%s",
		strings.TrimRight(baseURL, "/"),
		url.PathEscape(username),
		strconv.Itoa(pageNumber),
		params.Encode(),
	)
}

// PlayURL constructs the audio URL for a track id and key
func PlayURL(serveBaseURL, id, key string) string {
	return fmt.Sprintf("%s%s%s/%s.mp3",
		strings.TrimRight(serveBaseURL, "/"),
		PlayEndpoint,
		url.PathEscape(id),
		url.PathEscape(key),
	)
}

// SanitizeUsername trims whitespace, a leading @ and trailing slashes
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	return strings.TrimRight(username, "/ ")
}
