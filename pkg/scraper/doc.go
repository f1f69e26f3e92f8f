// Package scraper walks a user's listing pages and downloads their tracks.
//
// DownloadFromUser starts at page 1 and keeps going until either maxPages
// pages have been downloaded or the site reports there is no such page.
// With maxPages set to Unbounded only the end-of-catalog signal stops it.
// Pages are fetched and downloaded strictly one after another.
//
// Usage:
//
//	s, err := scraper.New(cfg, log)
//	if err != nil {
//	    return err
//	}
//
//	summary, err := s.DownloadFromUser(ctx, "popular", scraper.Unbounded)
package scraper
