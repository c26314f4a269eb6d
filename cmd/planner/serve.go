package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"interior-planner/internal/common/config"
	"interior-planner/internal/common/logger"
	"interior-planner/internal/common/middleware"
	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/handlers"
	"interior-planner/internal/editor/importer"
	"interior-planner/internal/editor/library"
	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/repository"
	"interior-planner/internal/editor/service"
)

// ============================================================
// Planner Service
// ============================================================

func newServeCmd() *cobra.Command {
	var (
		port      string
		noPersist bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the editor HTTP API",
		Example: `  # Порт из PORT или config
  planner serve

  # Без базы проектов
  planner serve --port 3100 --no-db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg, !noPersist)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&noPersist, "no-db", false, "Disable the SQLite project store")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, persist bool) error {
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Named("planner")

	var (
		projects handlers.ProjectRepository
		pinger   handlers.Pinger
	)
	if persist {
		db, err := repository.OpenSQLite(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		repo := repository.New(db)
		if err := repo.Init(ctx); err != nil {
			return fmt.Errorf("init db: %w", err)
		}
		projects, pinger = repo, db
	}

	sessions := service.NewSessionManager(service.Options{
		HistoryLimit: cfg.Editor.HistoryLimit,
		RenderTick:   time.Duration(cfg.Editor.RenderTickMS) * time.Millisecond,
		Viewport: geometry.Viewport{
			PixelsPerMeter: cfg.Editor.PixelsPerMeter,
			Origin:         models.Point{X: cfg.Editor.OriginX, Y: cfg.Editor.OriginY},
		},
		Files: service.NewFileStorage(cfg.ExportDir),
		Log:   logger.Named("session"),
	})
	defer sessions.CloseAll()

	editorHandler := handlers.NewEditorHandler(sessions, projects, library.Builtin(), importer.Options{}, logger.Named("http"))

	app := newApp(cfg, editorHandler, pinger, logger.Named("access"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting planner",
			zap.String("addr", addr),
			zap.String("env", cfg.Environment),
			zap.Bool("persistence", persist))
		serverErr <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
			return err
		}
		return nil
	case err := <-serverErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	}
}

// newApp собирает fiber-приложение: middleware, health probes и API редактора.
func newApp(cfg *config.Config, editorHandler *handlers.EditorHandler, pinger handlers.Pinger, access *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Interior Planner",
		BodyLimit:    16 * 1024 * 1024,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.AccessLog(access))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(pinger))

	// ============================================================
	// API Routes
	// ============================================================

	editorHandler.Register(app)

	return app
}
