package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidgate/internal/chat"
	"vidgate/internal/library"
	"vidgate/internal/models"
)

func strptr(s string) *string { return &s }

func TestListForDeletion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.put("https://youtu.be/a", models.StatusDownloaded, strptr("one.mp4"))
	f.store.put("https://youtu.be/b", models.StatusDownloaded, strptr("two.mp4"))
	f.store.put("https://youtu.be/c", models.StatusApproved, nil)

	n, err := f.svc.ListForDeletion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	titles := f.messenger.sentTo("review")
	assert.ElementsMatch(t, []string{"one.mp4", "two.mp4"}, titles)

	// Every posted title carries the confirm affordance and is tracked.
	assert.Len(t, f.messenger.reactions, 2)
	cands, err := f.registry.AllCandidates()
	require.NoError(t, err)
	assert.Len(t, cands, 2)
}

func TestConfirmDeletion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.put("https://youtu.be/a", models.StatusDownloaded, strptr("one.mp4"))
	f.store.put("https://youtu.be/b", models.StatusDownloaded, strptr("two.mp4"))

	_, err := f.svc.ListForDeletion(ctx)
	require.NoError(t, err)
	cands, err := f.registry.AllCandidates()
	require.NoError(t, err)
	require.Len(t, cands, 2)

	f.svc.HandleReaction(ctx, chat.Reaction{
		MessageID: cands[0].MessageID, ChannelID: "review", Emoji: "🗑️",
	})

	// File and row for the confirmed title are gone; the other link stays.
	assert.Equal(t, []string{cands[0].Title}, f.assets.removed)
	_, err = f.store.GetLinkByTitle(ctx, cands[0].Title)
	assert.Error(t, err)
	_, err = f.store.GetLinkByTitle(ctx, cands[1].Title)
	assert.NoError(t, err)

	// One refresh, one completion notice.
	assert.Equal(t, 1, f.refresher.count())
	assert.Contains(t, f.messenger.sentTo("review"),
		"Video "+cands[0].Title+" deleted and library rescan triggered!")

	// A single confirmation consumes the whole displayed list.
	remaining, err := f.registry.AllCandidates()
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.ElementsMatch(t, []string{cands[0].MessageID, cands[1].MessageID}, f.messenger.deleted)
}

func TestConfirmDeletion_FileAlreadyAbsent(t *testing.T) {
	f := newFixture()
	f.assets.result = library.AssetAlreadyAbsent
	ctx := context.Background()
	f.store.put("https://youtu.be/a", models.StatusDownloaded, strptr("one.mp4"))

	_, err := f.svc.ListForDeletion(ctx)
	require.NoError(t, err)
	cands, err := f.registry.AllCandidates()
	require.NoError(t, err)
	require.Len(t, cands, 1)

	f.svc.HandleReaction(ctx, chat.Reaction{
		MessageID: cands[0].MessageID, ChannelID: "review", Emoji: "🗑️",
	})

	// The row stays in place and no refresh fires.
	_, err = f.store.GetLinkByTitle(ctx, "one.mp4")
	assert.NoError(t, err)
	assert.Equal(t, 0, f.refresher.count())
	assert.Contains(t, f.messenger.sentTo("review"), "The file one.mp4 does not exist...")

	// Candidates are still cleared.
	remaining, err := f.registry.AllCandidates()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteDownloaded_ByTitle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.put("https://youtu.be/a", models.StatusDownloaded, strptr("one.mp4"))

	out, err := f.svc.DeleteDownloaded(ctx, "one.mp4")
	require.NoError(t, err)
	assert.Equal(t, &DeleteOutcome{Title: "one.mp4", FileRemoved: true, RowDeleted: true}, out)
	assert.Equal(t, 1, f.refresher.count())
}

func TestDeleteDownloaded_ByURL(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.put("https://youtu.be/a", models.StatusDownloaded, strptr("one.mp4"))

	out, err := f.svc.DeleteDownloaded(ctx, "https://youtu.be/a")
	require.NoError(t, err)
	assert.Equal(t, "one.mp4", out.Title)
	assert.True(t, out.RowDeleted)

	// A URL with no downloaded asset is an error, not a removal.
	f.store.put("https://youtu.be/b", models.StatusApproved, nil)
	_, err = f.svc.DeleteDownloaded(ctx, "https://youtu.be/b")
	assert.Error(t, err)
}

func TestDeleteDownloaded_RemoveFailed(t *testing.T) {
	f := newFixture()
	f.assets.result = library.AssetRemoveFailed
	f.assets.err = errors.New("permission denied")
	ctx := context.Background()
	f.store.put("https://youtu.be/a", models.StatusDownloaded, strptr("one.mp4"))

	_, err := f.svc.DeleteDownloaded(ctx, "one.mp4")
	assert.Error(t, err)

	// Row intact, no refresh.
	_, gerr := f.store.GetLinkByTitle(ctx, "one.mp4")
	assert.NoError(t, gerr)
	assert.Equal(t, 0, f.refresher.count())
}
