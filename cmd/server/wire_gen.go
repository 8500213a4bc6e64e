// Hand-maintained counterpart of wire.go; the wire CLI is not run for this module.

//go:build !wireinject
// +build !wireinject

package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
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

// Application holds all application dependencies.
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

// gradientEnqueuerAdapter bridges domain/gradient.Worker's EnqueueInput to
// domain/upload.GradientEnqueuer's own identical-shape type, since the two
// domains intentionally don't import each other.
type gradientEnqueuerAdapter struct {
	worker *gradient.Worker
}

func (a *gradientEnqueuerAdapter) Enqueue(ctx context.Context, input upload.GradientEnqueueInput) (*string, error) {
	return a.worker.Enqueue(ctx, gradient.EnqueueInput{
		GuildID:     input.GuildID,
		GalleryName: input.GalleryName,
		StorageKey:  input.StorageKey,
		ItemID:      input.ItemID,
	})
}

// InitializeApplication creates a fully initialized application, wiring the
// same providers wire.go declares for `wire build` (not run in this
// environment; this file plays that role by hand).
func InitializeApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.ProvideLogger(cfg)

	gormDB, err := db.ProvideDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gormDB,
		&request.UserRequest{},
		&request.Comment{},
		&gallery.Gallery{},
		&gallery.Guild{},
	); err != nil {
		return nil, err
	}

	objects, err := objectstore.ProvideObjectStore(cfg)
	if err != nil {
		return nil, err
	}
	meta, err := metastore.ProvideMetaStore(cfg, log)
	if err != nil {
		return nil, err
	}

	requestRepo := repository.NewRequestGormRepository(gormDB)
	galleryRepo := repository.NewGalleryGormRepository(gormDB)
	guildRepo := repository.NewGuildGormRepository(gormDB)

	galleryController := gallery.NewController(galleryRepo, guildRepo)
	gallerySvc := gallery.NewService(galleryRepo)
	requestSvc := request.NewService(requestRepo)

	computer := gradient.ProvideComputer()
	gradientWorker := gradient.NewWorker(cfg, meta, objects, computer, log)

	store := upload.NewStore(cfg, log)
	assembler := upload.ProvideAssembler(cfg)
	finalizePipeline := upload.NewFinalizePipeline(
		store, assembler, objects, meta, galleryController,
		&gradientEnqueuerAdapter{worker: gradientWorker}, log,
	)

	app := server.ProvideFiberApp(cfg, log)

	authHandler := handler.NewAuthHandler()
	uploadHandler := handler.NewUploadHandler(store, finalizePipeline, cfg, log)
	requestHandler := handler.NewRequestHandler(requestSvc)
	galleryHandler := handler.NewGalleryHandler(gallerySvc)
	mediaHandler := handler.NewMediaHandler(objects, galleryController)

	return &Application{
		Config:   cfg,
		Logger:   log,
		DB:       gormDB,
		App:      app,
		Objects:  objects,
		Meta:     meta,
		Gradient: gradientWorker,

		AuthHandler:    authHandler,
		UploadHandler:  uploadHandler,
		RequestHandler: requestHandler,
		GalleryHandler: galleryHandler,
		MediaHandler:   mediaHandler,
	}, nil
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
