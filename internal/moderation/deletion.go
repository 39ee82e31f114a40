package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vidgate/internal/library"
	"vidgate/internal/models"
)

// DeleteOutcome reports what a deletion did, for the operator API and the
// chat notices.
type DeleteOutcome struct {
	Title         string `json:"title"`
	FileRemoved   bool   `json:"file_removed"`
	AlreadyAbsent bool   `json:"already_absent"`
	RowDeleted    bool   `json:"row_deleted"`
}

// ListForDeletion posts every downloaded title to the review channel with a
// confirm-delete affordance and registers the candidates.
func (s *Service) ListForDeletion(ctx context.Context) (int, error) {
	links, err := s.store.ListByStatus(ctx, models.StatusDownloaded)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, link := range links {
		if link.Title == nil {
			continue
		}
		title := *link.Title

		messageID, err := s.messenger.SendMessage(ctx, s.cfg.ReviewChannelID, title)
		if err != nil {
			slog.Error("failed to post deletion candidate", "title", title, "error", err)
			continue
		}
		if err := s.messenger.AddReaction(ctx, s.cfg.ReviewChannelID, messageID, s.cfg.DeleteEmoji); err != nil {
			slog.Warn("failed to add delete affordance", "title", title, "error", err)
		}
		if err := s.registry.TrackCandidate(title, s.cfg.ReviewChannelID, messageID); err != nil {
			slog.Error("failed to track deletion candidate", "title", title, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// confirmDeletion handles a confirmed candidate. Whatever the outcome, a
// confirmation consumes the whole displayed list: all outstanding
// candidates and their messages are cleared together.
func (s *Service) confirmDeletion(ctx context.Context, cand *models.DeletionCandidate) error {
	defer s.clearCandidates(ctx)

	_, err := s.removeAsset(ctx, cand.Title, cand.ChannelID)
	return err
}

// DeleteDownloaded removes a downloaded asset directly, addressed by URL or
// by title. Used by the operator API; does not touch outstanding
// candidates.
func (s *Service) DeleteDownloaded(ctx context.Context, urlOrTitle string) (*DeleteOutcome, error) {
	title := urlOrTitle
	if strings.HasPrefix(urlOrTitle, "https://") || strings.HasPrefix(urlOrTitle, "http://") {
		link, err := s.store.GetLink(ctx, urlOrTitle)
		if err != nil {
			return nil, err
		}
		if link.Title == nil {
			return nil, fmt.Errorf("link %s has no downloaded asset", urlOrTitle)
		}
		title = *link.Title
	}

	return s.removeAsset(ctx, title, s.cfg.ReviewChannelID)
}

// removeAsset deletes the on-disk asset, then the row, then fires the
// refresh signal. The row is removed only after the file is gone; an
// asset-removed-but-row-still-present state is surfaced, never absorbed.
// An already-absent file is a calm, recoverable condition: the row is left
// in place for operator follow-up.
func (s *Service) removeAsset(ctx context.Context, title, noticeChannel string) (*DeleteOutcome, error) {
	result, err := s.assets.Remove(title)
	switch result {
	case library.AssetAlreadyAbsent:
		slog.Info("asset already absent", "title", title)
		s.notice(ctx, noticeChannel, fmt.Sprintf("The file %s does not exist...", title))
		return &DeleteOutcome{Title: title, AlreadyAbsent: true}, nil

	case library.AssetRemoveFailed:
		s.notice(ctx, noticeChannel, fmt.Sprintf("Failed to delete %s, leaving it tracked.", title))
		return nil, fmt.Errorf("remove asset %q: %w", title, err)
	}

	if err := s.store.DeleteLinkByTitle(ctx, title); err != nil {
		// The file is gone but the row is not: a detectable inconsistency.
		s.notice(ctx, noticeChannel,
			fmt.Sprintf("File %s was removed but its record could not be deleted!", title))
		return nil, fmt.Errorf("asset %q removed but row deletion failed: %w", title, err)
	}

	if err := s.refresher.Refresh(ctx); err != nil {
		slog.Error("library refresh failed after deletion", "title", title, "error", err)
	}
	s.notice(ctx, noticeChannel, fmt.Sprintf("Video %s deleted and library rescan triggered!", title))

	return &DeleteOutcome{Title: title, FileRemoved: true, RowDeleted: true}, nil
}

// clearCandidates removes all outstanding deletion-candidate messages and
// the registry entries behind them.
func (s *Service) clearCandidates(ctx context.Context) {
	cands, err := s.registry.AllCandidates()
	if err != nil {
		slog.Error("failed to list deletion candidates", "error", err)
		return
	}
	for _, c := range cands {
		if err := s.messenger.DeleteMessage(ctx, c.ChannelID, c.MessageID); err != nil {
			slog.Warn("failed to delete candidate message", "title", c.Title, "error", err)
		}
	}
	if err := s.registry.ClearCandidates(); err != nil {
		slog.Error("failed to clear deletion candidates", "error", err)
	}
}
