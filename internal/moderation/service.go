// Package moderation keeps the moderation channel consistent with the link
// store: it ingests submissions, posts links for review, resolves reactions
// back to links, and applies the resulting decisions. Message failures are
// best-effort and logged; the link store is always the source of truth.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vidgate/internal/approval"
	"vidgate/internal/chat"
	"vidgate/internal/config"
	"vidgate/internal/db"
	"vidgate/internal/library"
	"vidgate/internal/models"
	"vidgate/internal/postings"
	"vidgate/internal/validation"
)

// LinkStore is the persistence surface the mediator needs. Implemented by
// *db.DB.
type LinkStore interface {
	CreateLink(ctx context.Context, url string) (*models.Link, bool, error)
	GetLink(ctx context.Context, url string) (*models.Link, error)
	GetLinkByTitle(ctx context.Context, title string) (*models.Link, error)
	TransitionStatus(ctx context.Context, url, from, to string) error
	ListByStatus(ctx context.Context, status string) ([]models.Link, error)
	DeleteLinkByTitle(ctx context.Context, title string) error
	ReinstateAllRejected(ctx context.Context) ([]models.Link, error)
}

// Refresher fires the publish-refresh signal.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// AssetStore removes stored assets by title.
type AssetStore interface {
	Remove(title string) (library.RemoveResult, error)
}

// Service is the moderation channel mediator.
type Service struct {
	store     LinkStore
	messenger chat.Messenger
	registry  *postings.Registry
	refresher Refresher
	assets    AssetStore
	cfg       *config.Config
}

// NewService creates the mediator.
func NewService(store LinkStore, messenger chat.Messenger, registry *postings.Registry,
	refresher Refresher, assets AssetStore, cfg *config.Config) *Service {
	return &Service{
		store:     store,
		messenger: messenger,
		registry:  registry,
		refresher: refresher,
		assets:    assets,
		cfg:       cfg,
	}
}

// SubmitResult reports the outcome of a submission.
type SubmitResult struct {
	Link    *models.Link `json:"link"`
	Created bool         `json:"created"`
}

// HandleMessage ingests a gateway message event. Only the submissions
// channel is monitored; bot messages and non-link content are ignored.
func (s *Service) HandleMessage(ctx context.Context, msg chat.Message) {
	if msg.Bot || msg.ChannelID != s.cfg.SubmissionsChannelID {
		return
	}

	for _, url := range validation.ExtractVideoLinks(msg.Content) {
		if _, err := s.Submit(ctx, url); err != nil {
			slog.Error("failed to store submitted link", "url", url, "error", err)
		}
	}
}

// Submit runs a URL through the dedup gate and, for new links, posts it for
// review. A resubmission reports the existing status and creates nothing.
func (s *Service) Submit(ctx context.Context, url string) (*SubmitResult, error) {
	link, created, err := s.store.CreateLink(ctx, url)
	if err != nil {
		return nil, err
	}

	if !created {
		slog.Info("link already exists, ignoring", "url", url, "status", link.Status)
		s.notice(ctx, s.cfg.SubmissionsChannelID,
			fmt.Sprintf("Link already exists (%s), ignoring: %s", link.Status, url))
		return &SubmitResult{Link: link, Created: false}, nil
	}

	if err := s.PostForReview(ctx, url); err != nil {
		// The row is pending; the posting can be rebuilt with RepostPending.
		slog.Error("failed to post link for review", "url", url, "error", err)
	}
	return &SubmitResult{Link: link, Created: true}, nil
}

// PostForReview emits the moderation message for a URL, attaches the
// approve/reject affordances, and records the association.
func (s *Service) PostForReview(ctx context.Context, url string) error {
	messageID, err := s.messenger.SendMessage(ctx, s.cfg.ReviewChannelID,
		"New video link pending approval: "+url)
	if err != nil {
		return fmt.Errorf("post for review: %w", err)
	}

	for _, emoji := range []string{s.cfg.ApproveEmoji, s.cfg.RejectEmoji} {
		if err := s.messenger.AddReaction(ctx, s.cfg.ReviewChannelID, messageID, emoji); err != nil {
			slog.Warn("failed to add reaction affordance", "url", url, "emoji", emoji, "error", err)
		}
	}

	if err := s.registry.TrackPosting(url, s.cfg.ReviewChannelID, messageID); err != nil {
		return fmt.Errorf("track posting: %w", err)
	}
	return nil
}

// HandleReaction routes a gateway reaction event: deletion confirmations
// first, then review-channel decisions. Reactions that cannot be mapped to
// a tracked link are ignored.
func (s *Service) HandleReaction(ctx context.Context, r chat.Reaction) {
	if r.Bot {
		return
	}

	if r.Emoji == s.cfg.DeleteEmoji {
		cand, ok, err := s.registry.ResolveCandidate(r.MessageID)
		if err != nil {
			slog.Error("failed to resolve deletion candidate", "message_id", r.MessageID, "error", err)
			return
		}
		if ok {
			if err := s.confirmDeletion(ctx, cand); err != nil {
				slog.Error("deletion failed", "title", cand.Title, "error", err)
			}
			return
		}
	}

	if r.ChannelID != s.cfg.ReviewChannelID {
		return
	}

	var ev approval.Event
	switch r.Emoji {
	case s.cfg.ApproveEmoji:
		ev = approval.EventApprove
	case s.cfg.RejectEmoji:
		ev = approval.EventReject
	default:
		return
	}

	url, ok, err := s.registry.ResolvePosting(r.MessageID)
	if err != nil {
		slog.Error("failed to resolve posting", "message_id", r.MessageID, "error", err)
		return
	}
	if !ok {
		slog.Debug("reaction on untracked message ignored", "message_id", r.MessageID)
		return
	}

	if err := s.Decide(ctx, url, ev); err != nil {
		slog.Error("decision failed", "url", url, "error", err)
	}
}

// Decide applies a human decision to a link. Decisions on links no longer
// pending are reported as calm, idempotent no-ops, never errors.
func (s *Service) Decide(ctx context.Context, url string, ev approval.Event) error {
	link, err := s.store.GetLink(ctx, url)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			slog.Warn("decision for unknown link ignored", "url", url)
			return nil
		}
		return err
	}

	out := approval.Apply(link.Status, ev)
	if !out.Applied {
		slog.Info("decision ignored, link already decided", "url", url, "status", link.Status)
		s.notice(ctx, s.cfg.ReviewChannelID,
			fmt.Sprintf("Link has already been %s: %s", link.Status, url))
		return nil
	}

	err = s.store.TransitionStatus(ctx, url, models.StatusPendingApproval, out.Next)
	if errors.Is(err, db.ErrNotInStatus) {
		// A concurrent duplicate reaction won the race; same calm report.
		current, gerr := s.store.GetLink(ctx, url)
		status := "decided"
		if gerr == nil {
			status = current.Status
		}
		s.notice(ctx, s.cfg.ReviewChannelID,
			fmt.Sprintf("Link has already been %s: %s", status, url))
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("decision applied", "url", url, "status", out.Next)
	for _, effect := range out.Effects {
		switch effect {
		case approval.EffectNotifyRejected:
			s.notice(ctx, s.cfg.ReviewChannelID, "Link has been rejected: "+url)
		case approval.EffectRetractPostings:
			s.RetractPostings(ctx, url)
		}
	}
	return nil
}

// RetractPostings removes every moderation message tracked for a URL.
// Best-effort: a failed delete is logged and never blocks the status
// transition that triggered the retraction. Safe when nothing is tracked.
func (s *Service) RetractPostings(ctx context.Context, url string) {
	ps, err := s.registry.PostingsFor(url)
	if err != nil {
		slog.Error("failed to load postings for retraction", "url", url, "error", err)
		return
	}

	for _, p := range ps {
		if err := s.messenger.DeleteMessage(ctx, p.ChannelID, p.MessageID); err != nil {
			slog.Warn("failed to delete moderation message", "url", url,
				"message_id", p.MessageID, "error", err)
		}
	}

	if err := s.registry.ClearPostings(url); err != nil {
		slog.Error("failed to clear postings", "url", url, "error", err)
	}
}

// DownloadComplete cleans up after the orchestrator finalized a download:
// postings are retracted and a completion notice goes to the operator
// channels.
func (s *Service) DownloadComplete(ctx context.Context, url, title string) {
	s.RetractPostings(ctx, url)
	for _, channelID := range s.cfg.NotifyChannelIDs {
		s.notice(ctx, channelID, fmt.Sprintf("%s downloaded and library scan triggered!", title))
	}
}

// Reinstate moves a single rejected link back into review. Returns false
// for the reported no-op on a link that is not rejected.
func (s *Service) Reinstate(ctx context.Context, url string) (bool, error) {
	err := s.store.TransitionStatus(ctx, url, models.StatusRejected, models.StatusPendingApproval)
	if errors.Is(err, db.ErrNotInStatus) || errors.Is(err, db.ErrLinkNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.PostForReview(ctx, url); err != nil {
		slog.Error("failed to repost reinstated link", "url", url, "error", err)
	}
	return true, nil
}

// ReinstateAll moves every rejected link back into review and reposts them.
func (s *Service) ReinstateAll(ctx context.Context) (int, error) {
	links, err := s.store.ReinstateAllRejected(ctx)
	if err != nil {
		return 0, err
	}

	for _, link := range links {
		if err := s.PostForReview(ctx, link.URL); err != nil {
			slog.Error("failed to repost reinstated link", "url", link.URL, "error", err)
		}
	}
	return len(links), nil
}

// RepostPending rebuilds the moderation surface from the link store: every
// row still pending a decision gets a fresh posting, replacing whatever the
// registry previously tracked for it.
func (s *Service) RepostPending(ctx context.Context) (int, error) {
	links, err := s.store.ListByStatus(ctx, models.StatusPendingApproval)
	if err != nil {
		return 0, err
	}

	for _, link := range links {
		s.RetractPostings(ctx, link.URL)
		if err := s.PostForReview(ctx, link.URL); err != nil {
			slog.Error("failed to repost pending link", "url", link.URL, "error", err)
		}
	}
	return len(links), nil
}

func (s *Service) notice(ctx context.Context, channelID, content string) {
	if channelID == "" {
		return
	}
	if _, err := s.messenger.SendMessage(ctx, channelID, content); err != nil {
		slog.Warn("failed to send notice", "channel_id", channelID, "error", err)
	}
}
