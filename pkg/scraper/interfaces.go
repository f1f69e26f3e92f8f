package scraper

import (
	"context"

	"hypedump/internal/downloader"
	"hypedump/pkg/hypem"
)

// PageFetcher fetches one listing page, returning hypem.ErrNoSuchPage past the last one
type PageFetcher interface {
	FetchPage(ctx context.Context, username string, pageNumber int) (*hypem.Page, error)
}

// PageDownloader downloads the tracks of one page
type PageDownloader interface {
	DownloadPage(ctx context.Context, page *hypem.Page) (downloader.Result, error)
}
