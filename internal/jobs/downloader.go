// Package jobs holds the background download orchestrator.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vidgate/internal/db"
	"vidgate/internal/fetch"
	"vidgate/internal/metrics"
	"vidgate/internal/models"
)

// LinkStore is the persistence surface the orchestrator needs.
type LinkStore interface {
	ListByStatus(ctx context.Context, status string) ([]models.Link, error)
	MarkDownloaded(ctx context.Context, url, title string) error
}

// Refresher fires the publish-refresh signal after a finalized download.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Notifier cleans up the moderation surface and notifies operators after a
// download is finalized.
type Notifier interface {
	DownloadComplete(ctx context.Context, url, title string)
}

// Downloader is the single background worker turning approved links into
// downloaded assets. It runs one fetch at a time: the download directory is
// shared and the external tool must not be invoked concurrently.
type Downloader struct {
	store     LinkStore
	fetcher   fetch.Fetcher
	refresher Refresher
	notifier  Notifier
	interval  time.Duration
}

// NewDownloader creates the orchestrator.
func NewDownloader(store LinkStore, fetcher fetch.Fetcher, refresher Refresher,
	notifier Notifier, interval time.Duration) *Downloader {
	return &Downloader{
		store:     store,
		fetcher:   fetcher,
		refresher: refresher,
		notifier:  notifier,
		interval:  interval,
	}
}

// Start begins the polling loop and blocks until ctx is cancelled. A link
// approved mid-cycle is picked up on the next cycle.
func (d *Downloader) Start(ctx context.Context) {
	slog.Info("download orchestrator started", "interval", d.interval)

	d.RunCycle(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("download orchestrator stopped")
			return
		case <-ticker.C:
			d.RunCycle(ctx)
		}
	}
}

// RunCycle processes one snapshot of approved links, strictly sequentially.
// Failed items are logged and stay approved; there is no retry cap, so a
// permanently failing URL comes back every cycle until a moderator removes
// it. There is also no per-fetch timeout: a stuck fetch stalls the cycle
// and everything queued behind it.
func (d *Downloader) RunCycle(ctx context.Context) {
	links, err := d.store.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		slog.Error("orchestrator: failed to list approved links", "error", err)
		return
	}

	if len(links) == 0 {
		return
	}
	slog.Info("orchestrator: processing approved links", "count", len(links))

	for _, link := range links {
		select {
		case <-ctx.Done():
			return
		default:
		}

		d.processLink(ctx, link.URL)
	}
}

// processLink fetches one URL and drives the resulting transition. All
// per-item state stays local to this call.
func (d *Downloader) processLink(ctx context.Context, url string) {
	slog.Info("downloading approved link", "url", url)

	result, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		// The row stays approved and is retried next cycle.
		slog.Error("download failed", "url", url, "error", err)
		metrics.RecordDownload(metrics.OutcomeFailure)
		return
	}

	err = d.store.MarkDownloaded(ctx, url, result.Title)
	if errors.Is(err, db.ErrNotApproved) || errors.Is(err, db.ErrLinkNotFound) {
		// The link was moved out of approved while the fetch ran. The
		// status write wins; the fetched file is left for operator cleanup.
		slog.Warn("link left approved state mid-fetch, aborting finalization",
			"url", url, "title", result.Title)
		metrics.RecordDownload(metrics.OutcomeStale)
		return
	}
	if err != nil {
		slog.Error("failed to finalize download", "url", url, "title", result.Title, "error", err)
		metrics.RecordDownload(metrics.OutcomeFailure)
		return
	}

	slog.Info("download complete", "url", url, "title", result.Title)
	metrics.RecordDownload(metrics.OutcomeSuccess)

	if err := d.refresher.Refresh(ctx); err != nil {
		slog.Error("library refresh failed", "url", url, "error", err)
	}
	d.notifier.DownloadComplete(ctx, url, result.Title)
}
