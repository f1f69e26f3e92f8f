package hypem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hypedump/pkg/config"
	apperrors "hypedump/pkg/errors"
	"hypedump/pkg/logger"
)

// Client fetches listing pages and track audio
type Client struct {
	httpClient   *http.Client
	headers      map[string]string
	baseURL      string
	serveBaseURL string
	logger       logger.Logger
}

// NewClient creates a new client for the site described by cfg
func NewClient(cfg *config.SiteConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}

	headers := map[string]string{
		"Accept": "text/html,application/xhtml+xml,*/*;q=0.8",
	}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}

	return &Client{
		// A zero Timeout means requests may block indefinitely.
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		headers:      headers,
		baseURL:      cfg.BaseURL,
		serveBaseURL: cfg.AudioBaseURL(),
		logger:       log,
	}
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, apperrors.New(apperrors.ErrorTypeNetwork, fmt.Sprintf("GET %s failed", req.URL), err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// get performs a GET request to url attaching cookies
func (c *Client) get(ctx context.Context, url string, cookies []*http.Cookie) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeUnknown, fmt.Sprintf("failed to create request for %s", url), err)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return c.doRequest(req)
}

// FetchPage fetches page pageNumber (1-based) of username's listing.
// It returns an error matching ErrNoSuchPage when the page holds no track
// data; with an error status that error is a not_found *errors.Error carrying
// the status as its Code.
func (c *Client) FetchPage(ctx context.Context, username string, pageNumber int) (*Page, error) {
	if username == "" {
		return nil, apperrors.New(apperrors.ErrorTypeValidation, "username is required", nil)
	}
	if pageNumber < 1 {
		return nil, apperrors.New(apperrors.ErrorTypeValidation, fmt.Sprintf("page number must be at least 1, got %d", pageNumber), nil)
	}

	url := ListingURL(c.baseURL, username, pageNumber)
	log := c.logger.WithFields(map[string]interface{}{
		"username": username,
		"page":     pageNumber,
	})
	log.DebugWithFields("fetching listing page", map[string]interface{}{"url": url})

	resp, err := c.get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The page body decides whether a page exists, not the status.
	if resp.StatusCode >= http.StatusBadRequest {
		log.WarnWithFields("listing page returned error status", map[string]interface{}{
			"status": resp.StatusCode,
		})
	}

	tracks, err := ParseTracks(resp.Body, resp.Cookies())
	if errors.Is(err, ErrNoSuchPage) && resp.StatusCode >= http.StatusBadRequest {
		return nil, &apperrors.Error{
			Type:    apperrors.ErrorTypeNotFound,
			Message: fmt.Sprintf("page %d of %s not found", pageNumber, username),
			Code:    resp.StatusCode,
			Err:     ErrNoSuchPage,
		}
	}
	if err != nil {
		if !errors.Is(err, ErrNoSuchPage) {
			log.WithError(err).Error("failed to parse listing page")
		}
		return nil, err
	}

	log.DebugWithFields("parsed listing page", map[string]interface{}{
		"tracks": len(tracks),
	})

	return &Page{
		Username: username,
		Number:   pageNumber,
		Tracks:   tracks,
	}, nil
}

// DownloadTrack requests the audio of track, replaying the track's cookies.
// The response body is returned as is, whatever the status; the caller must
// close it.
func (c *Client) DownloadTrack(ctx context.Context, track Track) (io.ReadCloser, error) {
	url := PlayURL(c.serveBaseURL, track.ID, track.Key)

	resp, err := c.get(ctx, url, track.Cookies)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.WarnWithFields("audio request returned error status", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
	}

	return resp.Body, nil
}
