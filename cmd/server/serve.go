package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/kbimport/internal/config"
	"github.com/JonMunkholm/kbimport/internal/core"
	"github.com/JonMunkholm/kbimport/internal/i18n"
	"github.com/JonMunkholm/kbimport/internal/store"
	"github.com/JonMunkholm/kbimport/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the import HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	if cfg.Database.AutoMigrate {
		version, err := store.MigrateUp(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		slog.Info("database migrated", "version", version)
	}

	pool, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("connected to database", "name", store.DatabaseName(cfg.Database.URL))

	catalog, err := i18n.Load(cfg.I18n)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	slog.Info("translations loaded", "languages", catalog.Languages())

	knowledge := store.NewKnowledgeStore(pool)
	service := core.NewService(knowledge, core.ServiceOptions{
		MaxFileSize:     cfg.Import.MaxFileSize,
		DefaultCategory: cfg.Import.DefaultCategory,
		MaxConcurrent:   cfg.Import.MaxConcurrent,
		MaxWaitTime:     cfg.Import.MaxWaitTime,
		Timeout:         cfg.Import.Timeout,
		SessionTTL:      cfg.Import.SessionTTL,
	})
	server := web.NewServer(service, catalog, knowledge, cfg)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go service.StartSessionSweeper(ctx, cfg.Import.SweepInterval)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if status := service.LimiterStatus(); status.Active > 0 {
		slog.Info("waiting for imports to complete", "active", status.Active)
		if err := service.WaitForImports(shutdownCtx); err != nil {
			slog.Warn("imports did not complete in time", "error", err)
		} else {
			slog.Info("all imports completed")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
