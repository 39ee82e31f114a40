// Package fetch retrieves video assets for approved links.
package fetch

import "context"

// Result describes a successfully fetched asset.
type Result struct {
	// Title is the asset file name under the download directory. It becomes
	// the link's title and the key for later deletion.
	Title string
	// Path is the absolute path of the stored asset.
	Path string
}

// Fetcher downloads the asset for a URL. Collection URLs are truncated to
// their first item. An error means nothing may be attributed to the link;
// the row stays approved and is retried on the next cycle.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}
