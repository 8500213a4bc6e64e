//go:build wireinject
// +build wireinject

package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/julianstephens/photo-gallery-sub001/domain/gallery"
	"github.com/julianstephens/photo-gallery-sub001/domain/gradient"
	"github.com/julianstephens/photo-gallery-sub001/domain/request"
	"github.com/julianstephens/photo-gallery-sub001/domain/upload"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/handler"
	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/db"
	"github.com/julianstephens/photo-gallery-sub001/internal/infra/metastore"
	"github.com/julianstephens/photo-gallery-sub001/internal/infra/objectstore"
	"github.com/julianstephens/photo-gallery-sub001/internal/infra/repository"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
	"github.com/julianstephens/photo-gallery-sub001/internal/server"
)

// Application holds all application dependencies, assembled by
// InitializeApplication (hand-written in wire_gen.go in place of running
// the wire CLI).
type Application struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *gorm.DB
	App      *fiber.App
	Objects  objectstore.ObjectStore
	Meta     metastore.MetaStore
	Gradient *gradient.Worker

	AuthHandler    *handler.AuthHandler
	UploadHandler  *handler.UploadHandler
	RequestHandler *handler.RequestHandler
	GalleryHandler *handler.GalleryHandler
	MediaHandler   *handler.MediaHandler
}

// InitializeApplication creates a fully initialized application using Wire.
func InitializeApplication() (*Application, error) {
	wire.Build(
		config.ProviderSet,
		logger.ProviderSet,
		db.ProviderSet,
		objectstore.ProviderSet,
		metastore.ProviderSet,
		repository.ProviderSet,
		upload.ProviderSet,
		gradient.ProviderSet,
		request.ProviderSet,
		gallery.ProviderSet,
		server.ProviderSet,

		wire.Struct(new(Application), "*"),
	)

	return &Application{}, nil
}

// Shutdown gracefully shuts down all application resources.
func (a *Application) Shutdown() error {
	a.Logger.Info().Msg("Starting graceful shutdown...")

	if err := a.App.Shutdown(); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to shutdown Fiber server")
	} else {
		a.Logger.Info().Msg("Fiber server shutdown complete")
	}

	if a.Gradient != nil {
		a.Gradient.Shutdown()
		a.Logger.Info().Msg("Gradient worker shutdown complete")
	}

	if a.DB != nil {
		if err := db.Close(a.DB, a.Logger); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close database")
			return err
		}
	}

	a.Logger.Info().Msg("Graceful shutdown complete")
	return nil
}
