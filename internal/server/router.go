package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/photo-gallery-sub001/internal/api/handler"
	apimiddleware "github.com/julianstephens/photo-gallery-sub001/internal/api/middleware"
	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
)

// SetupRoutes sets up all application routes
func SetupRoutes(
	app *fiber.App,
	cfg *config.Config,
	log *logger.Logger,
	authHandler *handler.AuthHandler,
	uploadHandler *handler.UploadHandler,
	requestHandler *handler.RequestHandler,
	galleryHandler *handler.GalleryHandler,
	mediaHandler *handler.MediaHandler,
) {
	// Health check endpoint (no auth required)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"status": "healthy",
			},
		})
	})

	sessionAuth := apimiddleware.SessionAuthMiddleware(cfg, log)

	v1 := app.Group("/v1")

	// Auth-me, the only unconditionally-authenticated-but-otherwise-bare
	// route.
	auth := v1.Group("/auth")
	auth.Use(sessionAuth)
	auth.Get("/me", authHandler.Me)

	// Chunked upload engine (spec §4.2-4.4)
	uploads := v1.Group("/uploads")
	uploads.Use(sessionAuth)
	uploads.Post("/initiate", uploadHandler.Initiate)
	uploads.Post("/:uploadId/chunk", uploadHandler.Chunk)
	uploads.Post("/:uploadId/finalize", uploadHandler.Finalize)
	uploads.Get("/:uploadId", uploadHandler.Progress)
	uploads.Delete("/:uploadId", uploadHandler.Cancel)

	// UserRequest / Comment workflow (spec §4.7)
	requests := v1.Group("/requests")
	requests.Use(sessionAuth)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.Get)
	requests.Post("/:id/cancel", requestHandler.Cancel)
	requests.Post("/:id/status", requestHandler.ChangeStatus)
	requests.Delete("/:id", requestHandler.Delete)
	requests.Post("/:id/comments", requestHandler.AddComment)
	requests.Get("/:id/comments", requestHandler.ListComments)

	// Gallery CRUD / listing
	galleries := v1.Group("/galleries")
	galleries.Use(sessionAuth)
	galleries.Post("/", galleryHandler.Create)
	galleries.Get("/:id", galleryHandler.Get)
	galleries.Delete("/:id", galleryHandler.Delete)

	guilds := v1.Group("/guilds")
	guilds.Use(sessionAuth)
	guilds.Get("/:guildId/galleries", galleryHandler.ListByGuild)

	// Media stream endpoint: GET /{galleryName}/{yyyy-mm-dd}/* (spec §6
	// "Other surfaces"), served directly off the app root to match the
	// public URL shape storage keys imply.
	app.Get("/:galleryName/:date/*", sessionAuth, mediaHandler.Stream)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"code":    "NOT_FOUND",
				"message": "Route not found",
			},
		})
	})
}
