package downloads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/config"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/fileutil"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/ident"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/logging"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/progress"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/queue"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/services"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/services/ytdlp"
)

// PublicPrefix is the URL prefix under which finished artifacts are served.
const PublicPrefix = "/downloads/"

// Runner abstracts the yt-dlp client for testability.
type Runner interface {
	Download(ctx context.Context, inv ytdlp.Invocation, onProgress ytdlp.ProgressFunc) error
}

// StartResult is the response payload for an accepted download.
type StartResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Option configures the service.
type Option func(*Service)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.runner = r
		}
	}
}

// Service is the download orchestrator: it allocates job ids, plans yt-dlp
// invocations, enforces admission control, runs jobs, and maps outcomes to
// response payloads.
type Service struct {
	cfg      *config.Config
	planner  ytdlp.Planner
	runner   Runner
	progress *progress.Store
	history  *queue.Store
	logger   *slog.Logger
	sem      chan struct{}

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewService constructs the orchestrator. history may be nil in tests that
// do not exercise the ledger.
func NewService(cfg *config.Config, history *queue.Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	client, err := ytdlp.New(cfg.Downloader.YtDlpBinary, cfg.Downloader.DownloadTimeout)
	if err != nil {
		return nil, err
	}
	svc := &Service{
		cfg: cfg,
		planner: ytdlp.Planner{
			DownloadDir:  cfg.Paths.DownloadDir,
			FFmpegBinary: cfg.Downloader.FFmpegBinary,
		},
		runner:   client,
		progress: progress.NewStore(),
		history:  history,
		logger:   logging.NewComponentLogger(logger, "downloads"),
		sem:      make(chan struct{}, cfg.Downloader.MaxConcurrentDownloads),
		cancels:  make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// StartVideo downloads a single video and blocks until the job reaches a
// terminal state.
func (s *Service) StartVideo(ctx context.Context, req VideoRequest) (*StartResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := ident.NewJobID()
	inv := s.planner.PlanVideo(id, ytdlp.VideoRequest{
		URL:       req.URL,
		Quality:   req.Quality,
		Format:    req.Format,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	item := &queue.Item{JobID: id, Kind: string(ytdlp.KindVideo), URL: req.URL, Quality: req.Quality, Format: req.Format, OutputPath: inv.OutputPath}
	if err := s.run(ctx, id, item, inv); err != nil {
		return nil, err
	}
	return &StartResult{ID: id, URL: PublicPrefix + path.Base(inv.OutputPath)}, nil
}

// StartAudio downloads the audio track of a video and blocks until the job
// reaches a terminal state.
func (s *Service) StartAudio(ctx context.Context, req AudioRequest) (*StartResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := ident.NewJobID()
	inv := s.planner.PlanAudio(id, ytdlp.AudioRequest{
		URL:     req.URL,
		Format:  req.Format,
		Quality: req.Quality,
	})
	item := &queue.Item{JobID: id, Kind: string(ytdlp.KindAudio), URL: req.URL, Quality: req.Quality, Format: req.Format, AudioOnly: true, OutputPath: inv.OutputPath}
	if err := s.run(ctx, id, item, inv); err != nil {
		return nil, err
	}
	return &StartResult{ID: id, URL: PublicPrefix + path.Base(inv.OutputPath)}, nil
}

// StartPlaylist downloads every playlist item into a job directory and
// blocks until the job reaches a terminal state. The returned URL points at
// the directory; item enumeration is the file server's job.
func (s *Service) StartPlaylist(ctx context.Context, req PlaylistRequest) (*StartResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := ident.NewJobID()
	inv := s.planner.PlanPlaylist(id, ytdlp.PlaylistRequest{
		URL:       req.URL,
		Quality:   req.Quality,
		Format:    req.Format,
		AudioOnly: req.AudioOnly,
	})
	item := &queue.Item{JobID: id, Kind: string(ytdlp.KindPlaylist), URL: req.URL, Quality: req.Quality, Format: req.Format, AudioOnly: req.AudioOnly, OutputPath: inv.OutputDir}
	if err := s.run(ctx, id, item, inv); err != nil {
		return nil, err
	}
	return &StartResult{ID: id, URL: PublicPrefix + path.Base(inv.OutputDir) + "/"}, nil
}

// Progress returns the latest snapshot for a job id.
func (s *Service) Progress(id string) (progress.Snapshot, error) {
	snap, ok := s.progress.Get(id)
	if !ok {
		return progress.Snapshot{}, services.Wrap(services.ErrNotFound, "downloads", "progress", fmt.Sprintf("unknown job %s", id), nil)
	}
	return snap, nil
}

// Cancel terminates a running job. Unknown or already-terminal jobs report
// not found.
func (s *Service) Cancel(id string) error {
	s.mu.Lock()
	cancel, ok := s.cancels[id]
	s.mu.Unlock()
	if !ok {
		return services.Wrap(services.ErrNotFound, "downloads", "cancel", fmt.Sprintf("job %s is not running", id), nil)
	}
	cancel()
	return nil
}

// ActiveJobs returns how many jobs currently hold an execution slot.
func (s *Service) ActiveJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}

// PruneProgress evicts terminal progress entries older than retention.
func (s *Service) PruneProgress(retention time.Duration) int {
	return s.progress.Prune(retention)
}

// run drives one job end to end: ledger row, progress lifecycle, admission,
// execution, and terminal bookkeeping. It returns only after the job has
// reached a terminal state.
func (s *Service) run(ctx context.Context, id string, item *queue.Item, inv ytdlp.Invocation) error {
	ctx = services.WithJobID(ctx, id)
	logger := logging.WithContext(ctx, s.logger)

	if s.history != nil {
		if err := s.history.NewJob(ctx, item); err != nil {
			return services.Wrap(services.ErrExternalTool, "downloads", "record job", "", err)
		}
	}
	s.progress.MarkStarting(id)

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		s.finishCancelled(ctx, id)
		return services.Wrap(services.ErrCancelled, "downloads", "admission", "request cancelled while waiting for a slot", nil)
	}
	defer func() { <-s.sem }()

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancels[id] = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.cancels, id)
		s.mu.Unlock()
	}()

	if s.history != nil {
		if err := s.history.MarkRunning(ctx, id); err != nil {
			logger.Warn("mark running failed", logging.Error(err))
		}
	}
	logger.Info("download started",
		logging.String("kind", string(inv.Kind)),
		logging.String("url", item.URL))

	err := s.runner.Download(jobCtx, inv, func(update ytdlp.ProgressUpdate) {
		s.progress.MarkDownloading(id, update.Percent, update.Speed, update.ETA)
	})
	if err != nil {
		s.cleanupArtifact(inv)
		if errors.Is(err, services.ErrCancelled) {
			s.finishCancelled(ctx, id)
			logger.Info("download cancelled")
			return err
		}
		s.progress.MarkError(id, err.Error())
		if s.history != nil {
			if histErr := s.history.MarkFailed(context.WithoutCancel(ctx), id, err.Error()); histErr != nil {
				logger.Warn("mark failed failed", logging.Error(histErr))
			}
		}
		logger.Error("download failed", logging.Error(err))
		return err
	}

	s.progress.MarkCompleted(id)
	if s.history != nil {
		if err := s.history.MarkCompleted(ctx, id); err != nil {
			logger.Warn("mark completed failed", logging.Error(err))
		}
	}
	logger.Info("download completed", logging.String("output", item.OutputPath))
	return nil
}

// cleanupArtifact removes the partial single-file output of a failed job.
// Playlist directories keep whatever items finished before the failure.
func (s *Service) cleanupArtifact(inv ytdlp.Invocation) {
	if inv.OutputPath == "" {
		return
	}
	_ = fileutil.RemoveIfExists(inv.OutputPath)
	_ = fileutil.RemoveIfExists(inv.OutputPath + ".part")
}

func (s *Service) finishCancelled(ctx context.Context, id string) {
	s.progress.MarkCancelled(id)
	if s.history != nil {
		if err := s.history.MarkCancelled(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn("mark cancelled failed", logging.JobID(id), logging.Error(err))
		}
	}
}
