// Package postings tracks the ephemeral association between link-store rows
// and live chat messages: moderation postings awaiting a decision, and
// deletion candidates awaiting confirmation. The registry is a cache keyed
// both ways; the link store stays the source of truth and the moderation
// surface can always be rebuilt from it.
package postings

import (
	"encoding/json"
	"time"

	"vidgate/internal/models"
)

// Storage is the subset of the gofiber storage contract the registry needs.
// Production wiring uses the redis driver; tests and redis-less deployments
// use the in-process fallback.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Reset() error
}

const (
	postingMsgPrefix   = "post:msg:"
	postingURLPrefix   = "post:url:"
	candidateMsgPrefix = "del:msg:"
	candidateIndexKey  = "del:index"
)

// Registry stores postings and deletion candidates.
type Registry struct {
	storage Storage
}

// NewRegistry creates a registry over the given storage backend.
func NewRegistry(storage Storage) *Registry {
	return &Registry{storage: storage}
}

// TrackPosting records the association between a review message and a URL.
// A URL can carry several postings (e.g. after a repost).
func (r *Registry) TrackPosting(url, channelID, messageID string) error {
	p := models.Posting{URL: url, ChannelID: channelID, MessageID: messageID}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := r.storage.Set(postingMsgPrefix+messageID, data, 0); err != nil {
		return err
	}

	existing, err := r.PostingsFor(url)
	if err != nil {
		return err
	}
	existing = append(existing, p)
	data, err = json.Marshal(existing)
	if err != nil {
		return err
	}
	return r.storage.Set(postingURLPrefix+url, data, 0)
}

// ResolvePosting is the reverse lookup used on every incoming decision
// event. A miss means "no such pending link", never an error.
func (r *Registry) ResolvePosting(messageID string) (string, bool, error) {
	data, err := r.storage.Get(postingMsgPrefix + messageID)
	if err != nil {
		return "", false, err
	}
	if len(data) == 0 {
		return "", false, nil
	}
	var p models.Posting
	if err := json.Unmarshal(data, &p); err != nil {
		return "", false, err
	}
	return p.URL, true, nil
}

// PostingsFor returns all tracked postings for a URL.
func (r *Registry) PostingsFor(url string) ([]models.Posting, error) {
	data, err := r.storage.Get(postingURLPrefix + url)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var ps []models.Posting
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// ClearPostings drops every tracked posting for a URL. Safe to call when
// nothing is tracked.
func (r *Registry) ClearPostings(url string) error {
	ps, err := r.PostingsFor(url)
	if err != nil {
		return err
	}
	for _, p := range ps {
		if err := r.storage.Delete(postingMsgPrefix + p.MessageID); err != nil {
			return err
		}
	}
	return r.storage.Delete(postingURLPrefix + url)
}

// TrackCandidate records a deletion-confirmation message for a title.
func (r *Registry) TrackCandidate(title, channelID, messageID string) error {
	c := models.DeletionCandidate{Title: title, ChannelID: channelID, MessageID: messageID}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := r.storage.Set(candidateMsgPrefix+messageID, data, 0); err != nil {
		return err
	}

	ids, err := r.candidateIndex()
	if err != nil {
		return err
	}
	ids = append(ids, messageID)
	data, err = json.Marshal(ids)
	if err != nil {
		return err
	}
	return r.storage.Set(candidateIndexKey, data, 0)
}

// ResolveCandidate maps a confirmation message back to its candidate.
func (r *Registry) ResolveCandidate(messageID string) (*models.DeletionCandidate, bool, error) {
	data, err := r.storage.Get(candidateMsgPrefix + messageID)
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	var c models.DeletionCandidate
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

// AllCandidates returns every outstanding deletion candidate.
func (r *Registry) AllCandidates() ([]models.DeletionCandidate, error) {
	ids, err := r.candidateIndex()
	if err != nil {
		return nil, err
	}
	var cs []models.DeletionCandidate
	for _, id := range ids {
		c, ok, err := r.ResolveCandidate(id)
		if err != nil {
			return nil, err
		}
		if ok {
			cs = append(cs, *c)
		}
	}
	return cs, nil
}

// ClearCandidates drops every outstanding deletion candidate at once. A
// confirmation is scoped to the whole displayed list, so this runs after
// any single candidate is confirmed.
func (r *Registry) ClearCandidates() error {
	ids, err := r.candidateIndex()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.storage.Delete(candidateMsgPrefix + id); err != nil {
			return err
		}
	}
	return r.storage.Delete(candidateIndexKey)
}

func (r *Registry) candidateIndex() ([]string, error) {
	data, err := r.storage.Get(candidateIndexKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
