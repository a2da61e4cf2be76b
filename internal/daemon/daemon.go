package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/config"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/deps"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/downloads"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/logging"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/preflight"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/queue"
)

// Daemon ties the download service, history store, and HTTP API together
// and enforces single-instance execution via a file lock.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *queue.Store
	service *downloads.Service

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	DownloadDir   string
	HistoryDBPath string
	LockFilePath  string
	ActiveJobs    int
	History       queue.HealthSummary
	Dependencies  []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, service *downloads.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || service == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, service, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "mytubed.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		service:  service,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock and launches the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mytube daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			_ = d.lock.Unlock()
			cancel()
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr reports the API listen address, available after Start.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	health, err := d.store.Health(ctx)
	if err != nil {
		d.logger.Warn("history health query failed", logging.Error(err))
	}
	return Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		DownloadDir:   d.cfg.Paths.DownloadDir,
		HistoryDBPath: d.store.Path(),
		LockFilePath:  d.lockPath,
		ActiveJobs:    d.service.ActiveJobs(),
		History:       health,
		Dependencies:  preflight.CheckSystemDeps(ctx, d.cfg),
	}
}
