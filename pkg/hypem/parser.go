package hypem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	apperrors "hypedump/pkg/errors"
)

// DisplayListElementID is the id of the element holding the embedded track JSON
const DisplayListElementID = "displayList-data"

// ErrNoSuchPage is returned when a listing page carries no track data, i.e.
// the page number is past the end of the user's catalog.
var ErrNoSuchPage = errors.New("no such page")

// ParseTracks extracts the tracks embedded in a listing page. Every track gets
// the given cookies. A missing displayList element yields ErrNoSuchPage; a
// present element with malformed JSON is a parsing error.
func ParseTracks(r io.Reader, cookies []*http.Cookie) ([]Track, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeParsing, "failed to parse listing HTML", err)
	}

	sel := doc.Find("#" + DisplayListElementID)
	if sel.Length() == 0 {
		return nil, ErrNoSuchPage
	}

	var list DisplayList
	raw := strings.TrimSpace(sel.First().Text())
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeParsing,
			fmt.Sprintf("failed to parse %s JSON: %v", DisplayListElementID, err), err)
	}

	tracks := make([]Track, 0, len(list.Tracks))
	for _, info := range list.Tracks {
		tracks = append(tracks, Track{
			Artist:  info.Artist,
			Title:   info.Song,
			ID:      info.ID,
			Key:     info.Key,
			Cookies: cookies,
		})
	}

	return tracks, nil
}
