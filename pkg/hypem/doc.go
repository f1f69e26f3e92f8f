// Package hypem fetches a user's listing pages and the audio they reference.
//
// A listing page is requested with ax=1, which makes the site inline the
// track metadata as JSON inside the element with id "displayList-data"
// instead of loading it afterwards. FetchPage returns ErrNoSuchPage when that
// element is missing, which is how the end of a user's catalog shows up.
//
// The cookies set by the listing response are attached to every Track of the
// page; DownloadTrack replays them, since the audio endpoint only serves
// requests carrying the listing's session.
//
//	client := hypem.NewClient(&cfg.Site, log)
//
//	page, err := client.FetchPage(ctx, "popular", 1)
//	if errors.Is(err, hypem.ErrNoSuchPage) {
//	    // past the last page
//	}
//
//	for _, track := range page.Tracks {
//	    body, err := client.DownloadTrack(ctx, track)
//	    // ...
//	}
package hypem
