package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/amartyachowdhury/movie-stack/internal/api"
	"github.com/amartyachowdhury/movie-stack/internal/config"
	"github.com/amartyachowdhury/movie-stack/internal/database"
	"github.com/amartyachowdhury/movie-stack/internal/logger"
	"github.com/amartyachowdhury/movie-stack/internal/metadata"
	"github.com/amartyachowdhury/movie-stack/internal/scheduler"
	"github.com/amartyachowdhury/movie-stack/internal/scheduler/tasks"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.StringP("config", "c", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	mainLog := log.WithComponent("main")

	if err := cfg.Validate(); err != nil {
		mainLog.Fatal().Err(err).Msg("invalid configuration")
	}
	for _, w := range cfg.Warnings() {
		mainLog.Warn().Msg(w)
	}

	mainLog.Info().
		Str("version", config.Version).
		Str("environment", cfg.Server.Environment).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting movie-stack")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		mainLog.Error().Err(err).Msg("server exited with error")
		log.Close()
		os.Exit(1)
	}

	mainLog.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var mirror metadata.MirrorStore
	if cfg.Database.MirrorEnabled {
		db, err := openMirror(ctx, cfg.Database.Path)
		if err != nil {
			// the mirror is best-effort
			log.Warn().Err(err).Str("path", cfg.Database.Path).Msg("mirror disabled")
		} else {
			defer db.Close()
			mirror = database.NewMirror(db)
		}
	}

	svc := metadata.NewService(cfg.Metadata, mirror, log)

	var sched *scheduler.Scheduler
	if mirror != nil && cfg.Scheduler.MirrorWarmCron != "" {
		s, err := scheduler.New(log)
		if err != nil {
			return err
		}
		if err := tasks.RegisterMirrorWarmTask(s, svc, cfg.Scheduler.MirrorWarmCron, log); err != nil {
			return err
		}
		s.Start()
		defer func() {
			if err := s.Stop(); err != nil {
				log.Warn().Err(err).Msg("scheduler shutdown error")
			}
		}()
		sched = s
	}

	server := api.NewServer(cfg, svc, sched, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}

func openMirror(ctx context.Context, path string) (*database.DB, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
