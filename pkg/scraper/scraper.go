package scraper

import (
	"context"
	"errors"
	"fmt"

	"hypedump/internal/downloader"
	"hypedump/pkg/config"
	apperrors "hypedump/pkg/errors"
	"hypedump/pkg/hypem"
	"hypedump/pkg/logger"
	"hypedump/pkg/storage"
)

// Unbounded as maxPages walks every page of the listing
const Unbounded = 0

// Summary totals a DownloadFromUser run
type Summary struct {
	Pages      int
	Downloaded int
	Skipped    int
}

// Scraper orchestrates fetching listing pages and downloading their tracks
type Scraper struct {
	fetcher    PageFetcher
	downloader PageDownloader
	logger     logger.Logger
}

// New creates a Scraper for cfg, writing into cfg.Output.Directory,
// which must already exist.
func New(cfg *config.Config, log logger.Logger) (*Scraper, error) {
	if log == nil {
		log = logger.Nop()
	}

	storageManager, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	log.WithField("directory", storageManager.GetOutputDir()).Info("Downloading songs to directory")

	client := hypem.NewClient(&cfg.Site, log.WithField("component", "client"))
	d := downloader.New(client, storageManager, log.WithField("component", "downloader"))

	return NewWithComponents(client, d, log), nil
}

// NewWithComponents creates a Scraper from its collaborators
func NewWithComponents(fetcher PageFetcher, pageDownloader PageDownloader, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.Nop()
	}

	return &Scraper{
		fetcher:    fetcher,
		downloader: pageDownloader,
		logger:     log,
	}
}

// DownloadFromUser downloads pages 1..maxPages of username's listing, stopping
// early at the first page that does not exist. Pass Unbounded for all pages.
func (s *Scraper) DownloadFromUser(ctx context.Context, username string, maxPages int) (Summary, error) {
	var summary Summary

	if maxPages < 0 {
		return summary, apperrors.New(apperrors.ErrorTypeValidation,
			fmt.Sprintf("max pages cannot be negative, got %d", maxPages), nil)
	}

	log := s.logger.WithField("username", username)
	log.InfoWithFields("Starting download for user", map[string]interface{}{
		"max_pages": maxPages,
	})

	for pageNumber := 1; maxPages == Unbounded || pageNumber <= maxPages; pageNumber++ {
		log.Info(fmt.Sprintf("Working on page %d", pageNumber))

		page, err := s.fetcher.FetchPage(ctx, username, pageNumber)
		if errors.Is(err, hypem.ErrNoSuchPage) {
			log.Info(fmt.Sprintf("Page %d doesn't exist. %d was probably the last page. We're finished!",
				pageNumber, pageNumber-1))
			break
		}
		if err != nil {
			return summary, fmt.Errorf("failed to fetch page %d: %w", pageNumber, err)
		}

		result, err := s.downloader.DownloadPage(ctx, page)
		summary.Downloaded += result.Downloaded
		summary.Skipped += result.Skipped
		if err != nil {
			return summary, fmt.Errorf("failed to download page %d: %w", pageNumber, err)
		}
		summary.Pages++

		log.InfoWithFields("Page complete", map[string]interface{}{
			"page":       pageNumber,
			"tracks":     len(page.Tracks),
			"downloaded": result.Downloaded,
			"skipped":    result.Skipped,
		})
	}

	log.InfoWithFields("Download finished", map[string]interface{}{
		"pages":      summary.Pages,
		"downloaded": summary.Downloaded,
		"skipped":    summary.Skipped,
	})

	return summary, nil
}
