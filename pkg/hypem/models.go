package hypem

import "net/http"

// Track is one audio item of a listing page. Cookies are the ones set by the
// listing response the track was parsed from.
type Track struct {
	Artist  string
	Title   string
	ID      string
	Key     string
	Cookies []*http.Cookie
}

// Page is one listing page of a user's tracks, in listing order
type Page struct {
	Username string
	Number   int
	Tracks   []Track
}

// DisplayList is the JSON payload embedded in a listing page
type DisplayList struct {
	Tracks []TrackInfo `json:"tracks"`
}

// TrackInfo is a single entry of DisplayList.Tracks
type TrackInfo struct {
	Artist string `json:"artist"`
	Song   string `json:"song"`
	ID     string `json:"id"`
	Key    string `json:"key"`
}
