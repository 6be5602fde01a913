package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"vibraframe/config"
	_ "vibraframe/docs"
	"vibraframe/handlers"
	"vibraframe/internal/analytics"
	"vibraframe/internal/compositor"
	"vibraframe/internal/faceclient"
	"vibraframe/internal/jobs"
	"vibraframe/internal/store"
	"vibraframe/internal/store/sqlite"
	"vibraframe/internal/store/supastore"
	"vibraframe/internal/worker"
	"vibraframe/middleware"
)

// @title VibraFrame API
// @version 1.0
// @description Event poster templates and personalized poster generation.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := config.NewLogger(cfg.LogLevel)

	ctx := context.Background()
	st, recorder, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open event store")
	}
	defer closeStore()

	fonts, err := compositor.NewFontRegistry()
	if err != nil {
		log.WithError(err).Fatal("Failed to load built-in fonts")
	}
	if cfg.FontDir != "" {
		n, err := fonts.LoadDir(cfg.FontDir)
		if err != nil {
			log.WithError(err).WithField("dir", cfg.FontDir).Fatal("Failed to load fonts")
		}
		log.WithField("fonts", n).Info("Loaded font directory")
	}
	comp := compositor.New(fonts, compositor.Options{
		Quality:       cfg.JPEGQuality,
		UppercaseText: cfg.UppercaseNames,
	})

	// Initialize Dispatcher
	dispatcher := worker.NewDispatcher(cfg.RenderWorkers, cfg.RenderQueue, log)
	dispatcher.Run()

	h := handlers.NewApplicationHandler(st, comp, dispatcher, log)
	h.Recorder = recorder
	h.Watermark = cfg.WatermarkText
	h.MaxUploadBytes = cfg.MaxUploadBytes()
	if cfg.FaceServiceURL != "" {
		h.Faces = faceclient.NewClient(cfg.FaceServiceURL, log)
		log.WithField("url", cfg.FaceServiceURL).Info("Face-aware cropping enabled")
	}

	app := fiber.New(fiber.Config{
		// Multipart overhead on top of the image limit.
		BodyLimit:             int(cfg.MaxUploadBytes()) + 1<<20,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger(log))
	if cfg.SupabaseJWTSecret == "" {
		log.Warn("SUPABASE_JWT_SECRET is not set, organizer routes are unauthenticated")
	}
	h.RegisterRoutes(app, cfg.SupabaseJWTSecret)

	go func() {
		log.WithField("port", cfg.Port).Info("Starting VibraFrame API")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down VibraFrame API...")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.WithError(err).Warn("HTTP shutdown did not complete")
	}
	dispatcher.Stop()
	log.Info("VibraFrame API shut down gracefully")
}

// openStore builds the event store and the download recorder for the
// configured driver.
func openStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (store.Store, jobs.DownloadRecorder, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSupabase:
		st, err := supastore.New(cfg.Supabase(), log)
		if err != nil {
			return nil, nil, nil, err
		}
		rec, err := analytics.NewPostgRESTRecorder(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			return nil, nil, nil, err
		}
		log.WithField("bucket", cfg.BackgroundBucket).Info("Using Supabase event store")
		return st, rec, func() {}, nil
	default:
		st, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.AssetDir, log)
		if err != nil {
			return nil, nil, nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("Using SQLite event store")
		return st, analytics.NewSQLiteRecorder(st.DB()), func() { _ = st.Close() }, nil
	}
}
