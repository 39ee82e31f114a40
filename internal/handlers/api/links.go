package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"

	"vidgate/internal/db"
	"vidgate/internal/models"
	"vidgate/internal/moderation"
	"vidgate/internal/validation"
)

// LinkHandler exposes the link lifecycle over the operator JSON API.
type LinkHandler struct {
	db  *db.DB
	mod *moderation.Service
}

// NewLinkHandler creates a new API link handler.
func NewLinkHandler(database *db.DB, mod *moderation.Service) *LinkHandler {
	return &LinkHandler{db: database, mod: mod}
}

// List returns all links with the requested status.
func (h *LinkHandler) List(c fiber.Ctx) error {
	status := c.Query("status")
	if !models.ValidStatus(status) {
		return jsonError(c, fiber.StatusBadRequest, "unknown status")
	}

	links, err := h.db.ListByStatus(c.Context(), status)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to list links")
	}
	if links == nil {
		links = []models.Link{}
	}
	return jsonSuccess(c, links)
}

// StatusCounts returns per-status link counts.
func (h *LinkHandler) StatusCounts(c fiber.Ctx) error {
	counts, err := h.db.StatusCounts(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to count links")
	}
	return jsonSuccess(c, counts)
}

// Submit runs a URL through the same dedup gate as the chat surface. The
// duplicate case reports the existing status with a 200; it is not an error.
func (h *LinkHandler) Submit(c fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(validation.ExtractVideoLinks(req.URL)) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "not a recognized video link")
	}

	result, err := h.mod.Submit(c.Context(), req.URL)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to store link")
	}
	return jsonSuccess(c, result)
}

// Reinstate moves a rejected link (or, with no url, all rejected links)
// back into review.
func (h *LinkHandler) Reinstate(c fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	if req.URL == "" {
		count, err := h.mod.ReinstateAll(c.Context())
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to reinstate links")
		}
		return jsonSuccess(c, fiber.Map{"reinstated": count})
	}

	ok, err := h.mod.Reinstate(c.Context(), req.URL)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to reinstate link")
	}
	if !ok {
		return jsonSuccess(c, fiber.Map{"reinstated": 0, "message": "link is not in the rejected list"})
	}
	return jsonSuccess(c, fiber.Map{"reinstated": 1})
}

// RepostPending rebuilds the moderation surface for all pending links.
func (h *LinkHandler) RepostPending(c fiber.Ctx) error {
	count, err := h.mod.RepostPending(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to repost pending links")
	}
	return jsonSuccess(c, fiber.Map{"reposted": count})
}

// Get returns a single link by URL.
func (h *LinkHandler) Get(c fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return jsonError(c, fiber.StatusBadRequest, "url query parameter required")
	}

	link, err := h.db.GetLink(c.Context(), url)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link")
	}
	return jsonSuccess(c, link)
}
