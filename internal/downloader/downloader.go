package downloader

import (
	"context"
	"fmt"
	"io"
	"time"

	"hypedump/pkg/hypem"
	"hypedump/pkg/logger"
	"hypedump/pkg/storage"
)

// TrackClient fetches the audio of a track
type TrackClient interface {
	DownloadTrack(ctx context.Context, track hypem.Track) (io.ReadCloser, error)
}

// TrackStorage stores tracks by file name
type TrackStorage interface {
	Exists(name string) (bool, error)
	Save(r io.Reader, name string) error
	Path(name string) string
}

// Result counts what happened to the tracks of one page
type Result struct {
	Downloaded int
	Skipped    int
	Duration   time.Duration
}

// Downloader downloads the tracks of a page one after another
type Downloader struct {
	client  TrackClient
	storage TrackStorage
	logger  logger.Logger
}

// New creates a Downloader
func New(client TrackClient, storage TrackStorage, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.Nop()
	}

	return &Downloader{
		client:  client,
		storage: storage,
		logger:  log,
	}
}

// DownloadPage downloads every track of page that is not already stored.
// The first failure stops the page and is returned along with the counts so far.
func (d *Downloader) DownloadPage(ctx context.Context, page *hypem.Page) (Result, error) {
	start := time.Now()
	var result Result

	for _, track := range page.Tracks {
		downloaded, err := d.downloadTrack(ctx, track)
		if err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		if downloaded {
			result.Downloaded++
		} else {
			result.Skipped++
		}
	}

	result.Duration = time.Since(start)
	d.logger.DebugWithFields("Page downloaded", map[string]interface{}{
		"page":       page.Number,
		"downloaded": result.Downloaded,
		"skipped":    result.Skipped,
		"duration":   result.Duration,
	})

	return result, nil
}

// downloadTrack stores one track, reporting false when it was already there
func (d *Downloader) downloadTrack(ctx context.Context, track hypem.Track) (bool, error) {
	name := storage.TrackFilename(track.Artist, track.Title)
	log := d.logger.WithFields(map[string]interface{}{
		"artist": track.Artist,
		"title":  track.Title,
	})

	log.Info(fmt.Sprintf("Downloading song %s - %s", track.Artist, track.Title))

	exists, err := d.storage.Exists(name)
	if err != nil {
		return false, err
	}
	if exists {
		log.Info(fmt.Sprintf("%s already exists", d.storage.Path(name)))
		return false, nil
	}

	body, err := d.client.DownloadTrack(ctx, track)
	if err != nil {
		log.WithError(err).Error("Failed to download song")
		return false, fmt.Errorf("download %q failed: %w", name, err)
	}
	defer body.Close()

	if err := d.storage.Save(body, name); err != nil {
		log.WithError(err).Error("Failed to save song")
		return false, fmt.Errorf("save %q failed: %w", name, err)
	}

	log.DebugWithFields("Song saved", map[string]interface{}{
		"path": d.storage.Path(name),
	})

	return true, nil
}
