// Package library talks to the downstream media server and owns the
// download directory's asset files.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client triggers the media server's library rescan. The call is
// fire-and-forget: failures are logged by callers and never affect the
// approval workflow's correctness.
type Client struct {
	baseURL   string
	token     string
	libraryID string
	http      *http.Client
	enabled   bool
}

// NewClient creates a refresh client. An empty baseURL disables the signal.
func NewClient(baseURL, token, libraryID string) *Client {
	c := &Client{
		baseURL:   baseURL,
		token:     token,
		libraryID: libraryID,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		enabled: baseURL != "",
	}

	if c.enabled {
		slog.Info("media server refresh enabled", "url", baseURL, "library", libraryID)
	} else {
		slog.Info("media server refresh disabled (MEDIA_SERVER_URL not set)")
	}
	return c
}

// Refresh asks the media server to rescan the configured library.
func (c *Client) Refresh(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	endpoint := fmt.Sprintf("%s/Library/Refresh?libraryId=%s", c.baseURL, url.QueryEscape(c.libraryID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Emby-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("library refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("library refresh: unexpected status %s", resp.Status)
	}
	return nil
}
