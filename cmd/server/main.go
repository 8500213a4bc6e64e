package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/photo-gallery-sub001/internal/server"
)

func main() {
	application, err := InitializeApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	log := application.Logger
	cfg := application.Config

	log.Info().
		Str("env", cfg.App.Env).
		Str("addr", cfg.App.Addr).
		Msg("Starting Photo Gallery Backend Server")

	server.SetupRoutes(
		application.App,
		cfg,
		log,
		application.AuthHandler,
		application.UploadHandler,
		application.RequestHandler,
		application.GalleryHandler,
		application.MediaHandler,
	)

	ctx, cancel := context.WithCancel(context.Background())
	if err := application.Gradient.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to start gradient worker")
		cancel()
		os.Exit(1)
	}

	go func() {
		log.Info().Str("addr", cfg.App.Addr).Msg("Server listening")
		if err := application.App.Listen(cfg.App.Addr); err != nil {
			log.Error().Err(err).Msg("Failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	if err := application.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
		os.Exit(1)
	}

	log.Info().Msg("Server stopped")
}
