package postings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidgate/internal/models"
)

func TestTrackAndResolvePosting(t *testing.T) {
	r := NewRegistry(NewMemoryStorage())

	err := r.TrackPosting("https://youtu.be/abc", "review", "msg-1")
	require.NoError(t, err)

	url, ok, err := r.ResolvePosting("msg-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://youtu.be/abc", url)

	_, ok, err = r.ResolvePosting("msg-unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostingsFor_MultiplePerURL(t *testing.T) {
	r := NewRegistry(NewMemoryStorage())

	require.NoError(t, r.TrackPosting("https://youtu.be/abc", "review", "msg-1"))
	require.NoError(t, r.TrackPosting("https://youtu.be/abc", "review", "msg-2"))

	ps, err := r.PostingsFor("https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, []models.Posting{
		{URL: "https://youtu.be/abc", ChannelID: "review", MessageID: "msg-1"},
		{URL: "https://youtu.be/abc", ChannelID: "review", MessageID: "msg-2"},
	}, ps)
}

func TestClearPostings(t *testing.T) {
	r := NewRegistry(NewMemoryStorage())

	require.NoError(t, r.TrackPosting("https://youtu.be/abc", "review", "msg-1"))
	require.NoError(t, r.TrackPosting("https://youtu.be/abc", "review", "msg-2"))
	require.NoError(t, r.TrackPosting("https://youtu.be/xyz", "review", "msg-3"))

	require.NoError(t, r.ClearPostings("https://youtu.be/abc"))

	ps, err := r.PostingsFor("https://youtu.be/abc")
	require.NoError(t, err)
	assert.Empty(t, ps)

	// Both reverse lookups are gone.
	_, ok, err := r.ResolvePosting("msg-1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = r.ResolvePosting("msg-2")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other URLs are untouched.
	url, ok, err := r.ResolvePosting("msg-3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://youtu.be/xyz", url)
}

func TestClearPostings_NothingTracked(t *testing.T) {
	r := NewRegistry(NewMemoryStorage())
	assert.NoError(t, r.ClearPostings("https://youtu.be/none"))
}

func TestCandidates(t *testing.T) {
	r := NewRegistry(NewMemoryStorage())

	require.NoError(t, r.TrackCandidate("one.mp4", "review", "del-1"))
	require.NoError(t, r.TrackCandidate("two.mp4", "review", "del-2"))

	c, ok, err := r.ResolveCandidate("del-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, &models.DeletionCandidate{Title: "one.mp4", ChannelID: "review", MessageID: "del-1"}, c)

	cs, err := r.AllCandidates()
	require.NoError(t, err)
	assert.Len(t, cs, 2)
}

func TestClearCandidates_DropsWholeList(t *testing.T) {
	r := NewRegistry(NewMemoryStorage())

	require.NoError(t, r.TrackCandidate("one.mp4", "review", "del-1"))
	require.NoError(t, r.TrackCandidate("two.mp4", "review", "del-2"))

	require.NoError(t, r.ClearCandidates())

	cs, err := r.AllCandidates()
	require.NoError(t, err)
	assert.Empty(t, cs)

	_, ok, err := r.ResolveCandidate("del-2")
	require.NoError(t, err)
	assert.False(t, ok)
}
