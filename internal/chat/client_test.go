package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotPath, gotAuth, gotContent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var body struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotContent = body.Content

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg-42"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	id, err := c.SendMessage(context.Background(), "chan-1", "hello there")
	require.NoError(t, err)

	assert.Equal(t, "msg-42", id)
	assert.Equal(t, "/channels/chan-1/messages", gotPath)
	assert.Equal(t, "Bot secret-token", gotAuth)
	assert.Equal(t, "hello there", gotContent)
}

func TestSendMessage_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	_, err := c.SendMessage(context.Background(), "chan-1", "hello")
	assert.Error(t, err)
}

func TestDeleteMessage(t *testing.T) {
	var gotMethod, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	require.NoError(t, c.DeleteMessage(context.Background(), "chan-1", "msg-42"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/channels/chan-1/messages/msg-42", gotPath)
}

func TestDeleteMessage_AlreadyGone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	assert.NoError(t, c.DeleteMessage(context.Background(), "chan-1", "msg-42"))
}

func TestAddReaction(t *testing.T) {
	var gotMethod, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	require.NoError(t, c.AddReaction(context.Background(), "chan-1", "msg-42", "✅"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/channels/chan-1/messages/msg-42/reactions/✅", gotPath)
}
