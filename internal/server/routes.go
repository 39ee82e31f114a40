package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vidgate/internal/db"
	"vidgate/internal/handlers/api"
	"vidgate/internal/middleware"
	"vidgate/internal/moderation"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, mod *moderation.Service) {
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg.APIToken)

	linkHandler := api.NewLinkHandler(database, mod)
	deletionHandler := api.NewDeletionHandler(mod)
	healthHandler := api.NewHealthHandler(database)

	// Unauthenticated probes
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Operator API
	apiGroup := s.App.Group("/api", authMiddleware.RequireToken)
	apiGroup.Get("/links", linkHandler.List)
	apiGroup.Get("/links/lookup", linkHandler.Get)
	apiGroup.Post("/links", linkHandler.Submit)
	apiGroup.Post("/links/reinstate", linkHandler.Reinstate)
	apiGroup.Post("/postings/repost", linkHandler.RepostPending)
	apiGroup.Get("/status", linkHandler.StatusCounts)
	apiGroup.Post("/deletions", deletionHandler.ListCandidates)
	apiGroup.Post("/deletions/confirm", deletionHandler.Delete)
}
