package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidgate/internal/config"
	"vidgate/internal/db"
	"vidgate/internal/library"
	"vidgate/internal/models"
	"vidgate/internal/moderation"
	"vidgate/internal/postings"
	"vidgate/internal/testutil"
)

type noopMessenger struct{}

func (noopMessenger) SendMessage(context.Context, string, string) (string, error) {
	return "msg-1", nil
}
func (noopMessenger) DeleteMessage(context.Context, string, string) error      { return nil }
func (noopMessenger) AddReaction(context.Context, string, string, string) error { return nil }

type noopRefresher struct{}

func (noopRefresher) Refresh(context.Context) error { return nil }

type noopAssets struct{}

func (noopAssets) Remove(string) (library.RemoveResult, error) {
	return library.AssetAlreadyAbsent, nil
}

func setupApp(t *testing.T) (*fiber.App, *db.DB, func()) {
	t.Helper()
	database, cleanup := testutil.TestDB(t)

	cfg := &config.Config{ReviewChannelID: "review"}
	registry := postings.NewRegistry(postings.NewMemoryStorage())
	mod := moderation.NewService(database, noopMessenger{}, registry,
		noopRefresher{}, noopAssets{}, cfg)

	app := fiber.New()
	linkHandler := NewLinkHandler(database, mod)
	app.Get("/api/links", linkHandler.List)
	app.Get("/api/links/lookup", linkHandler.Get)
	app.Post("/api/links", linkHandler.Submit)
	app.Get("/api/status", linkHandler.StatusCounts)

	return app, database, cleanup
}

func TestList(t *testing.T) {
	app, database, cleanup := setupApp(t)
	defer cleanup()

	testutil.CreateTestLink(t, database, "https://youtu.be/a", models.StatusApproved, nil)
	testutil.CreateTestLink(t, database, "https://youtu.be/b", models.StatusRejected, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/links?status=approved", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Status string        `json:"status"`
		Data   []models.Link `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "https://youtu.be/a", body.Data[0].URL)
}

func TestList_UnknownStatus(t *testing.T) {
	app, _, cleanup := setupApp(t)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/links?status=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmit(t *testing.T) {
	app, database, cleanup := setupApp(t)
	defer cleanup()

	body := bytes.NewBufferString(`{"url":"https://youtu.be/abc"}`)
	req := httptest.NewRequest("POST", "/api/links", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	link, err := database.GetLink(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingApproval, link.Status)
}

func TestSubmit_NotAVideoLink(t *testing.T) {
	app, _, cleanup := setupApp(t)
	defer cleanup()

	body := bytes.NewBufferString(`{"url":"https://example.com/page"}`)
	req := httptest.NewRequest("POST", "/api/links", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGet_NotFound(t *testing.T) {
	app, _, cleanup := setupApp(t)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/links/lookup?url=https://youtu.be/none", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStatusCounts(t *testing.T) {
	app, database, cleanup := setupApp(t)
	defer cleanup()

	testutil.CreateTestLink(t, database, "https://youtu.be/a", models.StatusDownloaded, strptr("a.mp4"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data map[string]int64 `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(1), body.Data[models.StatusDownloaded])
	assert.Equal(t, int64(0), body.Data[models.StatusApproved])
}

func strptr(s string) *string { return &s }
