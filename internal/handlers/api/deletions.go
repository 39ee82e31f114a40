package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"

	"vidgate/internal/db"
	"vidgate/internal/moderation"
)

// DeletionHandler drives the confirmed-removal flow for downloaded assets.
type DeletionHandler struct {
	mod *moderation.Service
}

// NewDeletionHandler creates a new API deletion handler.
func NewDeletionHandler(mod *moderation.Service) *DeletionHandler {
	return &DeletionHandler{mod: mod}
}

// ListCandidates posts every downloaded title to the moderation surface
// with a confirm-delete affordance.
func (h *DeletionHandler) ListCandidates(c fiber.Ctx) error {
	count, err := h.mod.ListForDeletion(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to list deletion candidates")
	}
	return jsonSuccess(c, fiber.Map{"posted": count})
}

// Delete removes a downloaded asset directly, addressed by URL or title.
// An already-absent file is a recoverable condition reported with a 200.
func (h *DeletionHandler) Delete(c fiber.Ctx) error {
	var req struct {
		Target string `json:"target"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Target == "" {
		return jsonError(c, fiber.StatusBadRequest, "target (url or title) required")
	}

	outcome, err := h.mod.DeleteDownloaded(c.Context(), req.Target)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return jsonSuccess(c, outcome)
}
