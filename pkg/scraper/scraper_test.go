package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hypedump/internal/downloader"
	"hypedump/pkg/config"
	apperrors "hypedump/pkg/errors"
	"hypedump/pkg/hypem"
	"hypedump/pkg/logger"
)

// fakeFetcher returns its results in order; past the end it keeps returning pages
type fakeFetcher struct {
	results []error
	calls   []int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, username string, pageNumber int) (*hypem.Page, error) {
	f.calls = append(f.calls, pageNumber)

	i := len(f.calls) - 1
	if i < len(f.results) && f.results[i] != nil {
		return nil, f.results[i]
	}
	return &hypem.Page{
		Username: username,
		Number:   pageNumber,
		Tracks:   []hypem.Track{{Artist: "A", Title: fmt.Sprintf("Song %d", pageNumber)}},
	}, nil
}

type fakeDownloader struct {
	pages  []int
	result downloader.Result
	err    error
}

func (f *fakeDownloader) DownloadPage(ctx context.Context, page *hypem.Page) (downloader.Result, error) {
	f.pages = append(f.pages, page.Number)
	return f.result, f.err
}

// okPage marks a successful fetch in fakeFetcher.results
var okPage error

func TestDownloadFromUser(t *testing.T) {
	tests := []struct {
		name          string
		maxPages      int
		results       []error
		wantFetches   []int
		wantDownloads []int
	}{
		{
			name:          "one page requested",
			maxPages:      1,
			results:       []error{okPage, okPage, okPage},
			wantFetches:   []int{1},
			wantDownloads: []int{1},
		},
		{
			name:          "unbounded stops at no such page",
			maxPages:      Unbounded,
			results:       []error{okPage, okPage, hypem.ErrNoSuchPage},
			wantFetches:   []int{1, 2, 3},
			wantDownloads: []int{1, 2},
		},
		{
			name:          "stops early when pages run out",
			maxPages:      3000,
			results:       []error{okPage, hypem.ErrNoSuchPage},
			wantFetches:   []int{1, 2},
			wantDownloads: []int{1},
		},
		{
			name:          "first page missing",
			maxPages:      5,
			results:       []error{hypem.ErrNoSuchPage},
			wantFetches:   []int{1},
			wantDownloads: nil,
		},
		{
			name:          "page limit reached before the end",
			maxPages:      3,
			results:       []error{okPage, okPage, okPage, okPage, hypem.ErrNoSuchPage},
			wantFetches:   []int{1, 2, 3},
			wantDownloads: []int{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{results: tt.results}
			d := &fakeDownloader{result: downloader.Result{Downloaded: 1}}
			s := NewWithComponents(fetcher, d, nil)

			summary, err := s.DownloadFromUser(context.Background(), "hyperdump", tt.maxPages)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFetches, fetcher.calls)
			assert.Equal(t, tt.wantDownloads, d.pages)
			assert.Equal(t, len(tt.wantDownloads), summary.Pages)
			assert.Equal(t, len(tt.wantDownloads), summary.Downloaded)
		})
	}
}

func TestDownloadFromUserFetchError(t *testing.T) {
	fetchErr := apperrors.New(apperrors.ErrorTypeParsing, "bad json", nil)
	fetcher := &fakeFetcher{results: []error{okPage, fetchErr}}
	d := &fakeDownloader{}
	s := NewWithComponents(fetcher, d, nil)

	summary, err := s.DownloadFromUser(context.Background(), "hyperdump", Unbounded)
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	assert.Contains(t, err.Error(), "page 2")

	assert.Equal(t, []int{1, 2}, fetcher.calls)
	assert.Equal(t, []int{1}, d.pages)
	assert.Equal(t, 1, summary.Pages)
}

func TestDownloadFromUserDownloadError(t *testing.T) {
	downloadErr := errors.New("disk full")
	fetcher := &fakeFetcher{}
	d := &fakeDownloader{err: downloadErr}
	s := NewWithComponents(fetcher, d, nil)

	_, err := s.DownloadFromUser(context.Background(), "hyperdump", 10)
	assert.ErrorIs(t, err, downloadErr)
	assert.Equal(t, []int{1}, fetcher.calls, "no further pages after a failure")
}

func TestDownloadFromUserRejectsNegativePages(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := NewWithComponents(fetcher, &fakeDownloader{}, nil)

	_, err := s.DownloadFromUser(context.Background(), "hyperdump", -1)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, fetcher.calls)
}

func TestDownloadFromUserLogsProgress(t *testing.T) {
	log := logger.NewTestLogger()
	fetcher := &fakeFetcher{results: []error{okPage, hypem.ErrNoSuchPage}}
	s := NewWithComponents(fetcher, &fakeDownloader{}, log)

	_, err := s.DownloadFromUser(context.Background(), "hyperdump", Unbounded)
	require.NoError(t, err)

	assert.True(t, log.HasMessage("Working on page 1"))
	assert.True(t, log.HasMessage("Working on page 2"))
	assert.True(t, log.HasMessage("Page 2 doesn't exist. 1 was probably the last page. We're finished!"))
	assert.Empty(t, log.GetMessagesByLevel("ERROR"))
}

func TestNewRequiresOutputDirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Directory = filepath.Join(t.TempDir(), "missing")

	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFilesystem))
}

const listingTemplate = `<html><body>
<script type="application/json" id="displayList-data">{"tracks":[{"artist":"Ellie Goulding","song":"Lights (Shook Remix)","id":"19t8s","key":"9309d1b3bbcd89c137449a4c21f6288e"}]}</script>
</body></html>`

func TestEndToEnd(t *testing.T) {
	var listingCalls, audioCalls int32
	var audioPath, audioCookie string

	mux := http.NewServeMux()
	mux.HandleFunc("/hyperdump/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&listingCalls, 1)
		if r.URL.Path != "/hyperdump/1" || r.URL.Query().Get("ax") != "1" {
			w.Write([]byte("<html><body>the end</body></html>"))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "AUTH", Value: "03:listing-session"})
		w.Write([]byte(listingTemplate))
	})
	mux.HandleFunc("/serve/play/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&audioCalls, 1)
		audioPath = r.URL.Path
		if c, err := r.Cookie("AUTH"); err == nil {
			audioCookie = c.Value
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3 bytes"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Site.BaseURL = server.URL
	cfg.Output.Directory = dir

	log := logger.NewTestLogger()
	s, err := New(cfg, log)
	require.NoError(t, err)
	assert.True(t, log.HasMessage("Downloading songs to directory"))

	summary, err := s.DownloadFromUser(context.Background(), "hyperdump", Unbounded)
	require.NoError(t, err)

	assert.Equal(t, Summary{Pages: 1, Downloaded: 1}, summary)
	assert.Equal(t, int32(2), atomic.LoadInt32(&listingCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&audioCalls))
	assert.Equal(t, "/serve/play/19t8s/9309d1b3bbcd89c137449a4c21f6288e.mp3", audioPath)
	assert.Equal(t, "03:listing-session", audioCookie)

	content, err := os.ReadFile(filepath.Join(dir, "Ellie Goulding - Lights (Shook Remix).mp3"))
	require.NoError(t, err)
	assert.Equal(t, "mp3 bytes", string(content))

	// a second run finds the file and makes no audio request
	summary, err = s.DownloadFromUser(context.Background(), "hyperdump", 1)
	require.NoError(t, err)
	assert.Equal(t, Summary{Pages: 1, Skipped: 1}, summary)
	assert.Equal(t, int32(1), atomic.LoadInt32(&audioCalls))
}
