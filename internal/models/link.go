package models

import (
	"time"

	"github.com/google/uuid"
)

// Link statuses. A link's status only ever takes one of these values.
const (
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusDownloaded      = "downloaded"
)

// Link represents a submitted video reference tracked through its
// approval and download lifecycle. Title is set exactly once, at
// successful download completion, and doubles as the on-disk asset name.
type Link struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Status  string    `json:"status"`
	Title   *string   `json:"title"`
	AddedAt time.Time `json:"added_at"`
}

// ValidStatus reports whether s is a known link status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusRejected, StatusDownloaded:
		return true
	}
	return false
}

// Posting is the ephemeral association between a pending link and the
// live moderation message a reviewer reacts to. The link store stays
// authoritative; postings are reconstructible from it.
type Posting struct {
	URL       string `json:"url"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// DeletionCandidate associates a downloaded title with the confirmation
// message gating its removal.
type DeletionCandidate struct {
	Title     string `json:"title"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}
