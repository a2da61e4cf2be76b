package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/config"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/daemon"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/downloads"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/logging"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/preflight"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/queue"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	for _, result := range preflight.RunAll(ctx, cfg) {
		if !result.Passed {
			logger.Error("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			os.Exit(1)
		}
	}
	for _, dep := range preflight.CheckSystemDeps(ctx, cfg) {
		if !dep.Available && !dep.Optional {
			logger.Error("required dependency missing",
				logging.String("dependency", dep.Name),
				logging.String("detail", dep.Detail))
			os.Exit(1)
		}
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open history store", logging.Error(err))
		os.Exit(1)
	}

	if interrupted, err := store.FailInterrupted(ctx); err != nil {
		logger.Warn("fail interrupted jobs", logging.Error(err))
	} else if interrupted > 0 {
		logger.Info("marked interrupted jobs as failed", logging.Int64("count", interrupted))
	}
	if cfg.History.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.History.RetentionDays)
		if pruned, err := store.PruneOlderThan(ctx, cutoff); err != nil {
			logger.Warn("prune history", logging.Error(err))
		} else if pruned > 0 {
			logger.Info("pruned old history rows", logging.Int64("count", pruned))
		}
	}

	service, err := downloads.NewService(cfg, store, logger)
	if err != nil {
		logger.Error("create download service", logging.Error(err))
		os.Exit(1)
	}

	d, err := daemon.New(cfg, store, service, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		os.Exit(1)
	}

	go sweepProgress(ctx, cfg, service, logger)

	<-ctx.Done()
	logger.Info("mytubed shutting down")
}

// sweepProgress periodically evicts stale terminal progress entries so the
// in-memory store does not grow without bound.
func sweepProgress(ctx context.Context, cfg *config.Config, service *downloads.Service, logger *slog.Logger) {
	interval := time.Duration(cfg.Progress.SweepSeconds) * time.Second
	retention := time.Duration(cfg.Progress.RetentionSeconds) * time.Second
	if interval <= 0 || retention <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := service.PruneProgress(retention); removed > 0 {
				logger.Debug("evicted stale progress entries", logging.Int("count", removed))
			}
		}
	}
}
