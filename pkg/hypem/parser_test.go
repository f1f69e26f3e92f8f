package hypem

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "hypedump/pkg/errors"
)

func openTestdata(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParseTracksSamplePage(t *testing.T) {
	cookies := []*http.Cookie{{Name: "AUTH", Value: "03:abc"}}

	tracks, err := ParseTracks(openTestdata(t, "sample_user_page.html"), cookies)
	require.NoError(t, err)

	require.Len(t, tracks, 1)
	assert.Equal(t, Track{
		Artist:  "Ellie Goulding",
		Title:   "Lights (Shook Remix)",
		ID:      "19t8s",
		Key:     "9309d1b3bbcd89c137449a4c21f6288e",
		Cookies: cookies,
	}, tracks[0])
}

func TestParseTracksMissingElement(t *testing.T) {
	tracks, err := ParseTracks(openTestdata(t, "empty_user_page.html"), nil)

	assert.ErrorIs(t, err, ErrNoSuchPage)
	assert.Nil(t, tracks)
}

func TestParseTracks(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		wantTitles  []string
		wantErrType apperrors.ErrorType
	}{
		{
			name:       "multiple tracks keep listing order",
			html:       `<script id="displayList-data">{"tracks":[{"artist":"A","song":"One","id":"1","key":"k1"},{"artist":"B","song":"Two","id":"2","key":"k2"}]}</script>`,
			wantTitles: []string{"One", "Two"},
		},
		{
			name:       "empty track list",
			html:       `<script id="displayList-data">{"tracks":[]}</script>`,
			wantTitles: []string{},
		},
		{
			name:       "element need not be a script",
			html:       `<div id="displayList-data">{"tracks":[{"artist":"A","song":"Div","id":"1","key":"k"}]}</div>`,
			wantTitles: []string{"Div"},
		},
		{
			name:        "malformed json is a parsing error",
			html:        `<script id="displayList-data">{"tracks":[{"artist":</script>`,
			wantErrType: apperrors.ErrorTypeParsing,
		},
		{
			name:        "empty element is a parsing error",
			html:        `<script id="displayList-data"></script>`,
			wantErrType: apperrors.ErrorTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks, err := ParseTracks(strings.NewReader(tt.html), nil)
			if tt.wantErrType != "" {
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrNoSuchPage)
				assert.True(t, apperrors.IsType(err, tt.wantErrType))
				return
			}
			require.NoError(t, err)

			titles := make([]string, 0, len(tracks))
			for _, track := range tracks {
				titles = append(titles, track.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}
