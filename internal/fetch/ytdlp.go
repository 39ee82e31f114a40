package fetch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"

	"vidgate/internal/validation"
)

// YTDLPFetcher invokes the yt-dlp tool to retrieve assets.
type YTDLPFetcher struct {
	downloadDir string
}

// NewYTDLPFetcher creates a fetcher writing into downloadDir.
func NewYTDLPFetcher(downloadDir string) *YTDLPFetcher {
	return &YTDLPFetcher{downloadDir: downloadDir}
}

// Fetch downloads the best video+audio rendition of url. Only the first
// item of a collection URL is fetched.
func (f *YTDLPFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	dl := ytdlp.New().
		Format("bestvideo+bestaudio/best").
		PlaylistItems("1").
		Output(filepath.Join(f.downloadDir, "%(title)s.%(ext)s"))

	res, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	info, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp: extract info: %w", err)
	}
	if len(info) == 0 || info[0].Filename == nil {
		return nil, errors.New("yt-dlp: no output file reported")
	}

	path := *info[0].Filename
	title := filepath.Base(path)
	if !validation.ValidTitle(title) {
		return nil, fmt.Errorf("yt-dlp: unusable title %q", title)
	}

	return &Result{Title: title, Path: path}, nil
}
