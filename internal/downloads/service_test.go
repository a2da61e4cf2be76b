package downloads_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/downloads"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/logging"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/progress"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/queue"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/services"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/services/ytdlp"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/testsupport"
)

// stubRunner scripts the behavior of a download run without spawning a
// process.
type stubRunner struct {
	mu      sync.Mutex
	calls   []ytdlp.Invocation
	updates []ytdlp.ProgressUpdate
	err     error

	// prepare, when non-nil, runs before the scripted outcome; tests use it
	// to fabricate on-disk output for the planned invocation.
	prepare func(ytdlp.Invocation)

	// started receives the job id when a run begins; release, when non-nil,
	// blocks the run until closed or the context ends.
	started chan string
	release chan struct{}
}

func mustWriteFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func jobIDFromInvocation(inv ytdlp.Invocation) string {
	if inv.OutputDir != "" {
		return filepath.Base(inv.OutputDir)
	}
	name := filepath.Base(inv.OutputPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (r *stubRunner) Download(ctx context.Context, inv ytdlp.Invocation, onProgress ytdlp.ProgressFunc) error {
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	r.mu.Unlock()

	if r.prepare != nil {
		r.prepare(inv)
	}
	if r.started != nil {
		r.started <- jobIDFromInvocation(inv)
	}
	for _, update := range r.updates {
		onProgress(update)
	}
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return services.Wrap(services.ErrCancelled, "ytdlp", "download", "cancelled", nil)
		}
	}
	return r.err
}

func (r *stubRunner) invocations() []ytdlp.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ytdlp.Invocation(nil), r.calls...)
}

func newService(t *testing.T, runner *stubRunner, opts ...testsupport.ConfigOption) (*downloads.Service, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	svc, err := downloads.NewService(cfg, store, logging.NewNop(), downloads.WithRunner(runner))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, store
}

func TestStartVideoSuccess(t *testing.T) {
	runner := &stubRunner{
		updates: []ytdlp.ProgressUpdate{
			{Percent: 12.3, Speed: "1.23MiB/s", ETA: "00:10"},
			{Percent: 87.2, Speed: "2.10MiB/s", ETA: "00:02"},
		},
	}
	svc, store := newService(t, runner)

	result, err := svc.StartVideo(context.Background(), downloads.VideoRequest{
		URL:     "https://youtube.com/watch?v=abc",
		Quality: "1080",
		Format:  "mp4",
	})
	if err != nil {
		t.Fatalf("StartVideo failed: %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected a job id")
	}
	if want := "/downloads/" + result.ID + ".mp4"; result.URL != want {
		t.Fatalf("unexpected url: got %s want %s", result.URL, want)
	}

	snap, err := svc.Progress(result.ID)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if snap.Status != progress.StatusCompleted || snap.Percent != 100 {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}

	row, err := store.GetByJobID(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("GetByJobID failed: %v", err)
	}
	if row == nil || row.Status != queue.StatusCompleted {
		t.Fatalf("unexpected history row: %#v", row)
	}

	calls := runner.invocations()
	if len(calls) != 1 || calls[0].Kind != ytdlp.KindVideo {
		t.Fatalf("unexpected invocations: %#v", calls)
	}
}

func TestStartVideoRejectsInvalidRequest(t *testing.T) {
	runner := &stubRunner{}
	svc, _ := newService(t, runner)

	_, err := svc.StartVideo(context.Background(), downloads.VideoRequest{
		URL:     "not-a-url",
		Quality: "1080",
		Format:  "mp4",
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(runner.invocations()) != 0 {
		t.Fatal("invalid request must not launch a run")
	}
}

func TestStartVideoFailureRecordsError(t *testing.T) {
	runner := &stubRunner{
		err: services.Wrap(services.ErrExternalTool, "ytdlp", "download", "exited with code 1", nil),
	}
	svc, store := newService(t, runner)

	_, err := svc.StartVideo(context.Background(), downloads.VideoRequest{
		URL:     "https://youtube.com/watch?v=abc",
		Quality: "720",
		Format:  "mp4",
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}

	calls := runner.invocations()
	if len(calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(calls))
	}
	id := jobIDFromInvocation(calls[0])

	snap, progErr := svc.Progress(id)
	if progErr != nil {
		t.Fatalf("Progress failed: %v", progErr)
	}
	if snap.Status != progress.StatusError || !strings.Contains(snap.Error, "exited with code 1") {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}

	row, _ := store.GetByJobID(context.Background(), id)
	if row == nil || row.Status != queue.StatusFailed {
		t.Fatalf("unexpected history row: %#v", row)
	}
}

func TestFailedVideoRemovesPartialArtifact(t *testing.T) {
	runner := &stubRunner{
		err: services.Wrap(services.ErrExternalTool, "ytdlp", "download", "exited with code 1", nil),
		prepare: func(inv ytdlp.Invocation) {
			mustWriteFile(t, inv.OutputPath)
			mustWriteFile(t, inv.OutputPath+".part")
		},
	}
	svc, _ := newService(t, runner)

	_, err := svc.StartVideo(context.Background(), downloads.VideoRequest{
		URL:     "https://youtube.com/watch?v=abc",
		Quality: "720",
		Format:  "mp4",
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}

	output := runner.invocations()[0].OutputPath
	for _, path := range []string{output, output + ".part"} {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Fatalf("partial artifact %s must be removed after failure", path)
		}
	}
}

func TestFailedPlaylistKeepsFinishedItems(t *testing.T) {
	runner := &stubRunner{
		err: services.Wrap(services.ErrExternalTool, "ytdlp", "download", "exited with code 1", nil),
		prepare: func(inv ytdlp.Invocation) {
			if err := os.MkdirAll(inv.OutputDir, 0o755); err != nil {
				t.Fatalf("mkdir output dir: %v", err)
			}
			mustWriteFile(t, filepath.Join(inv.OutputDir, "1-abc.mp4"))
		},
	}
	svc, _ := newService(t, runner)

	_, err := svc.StartPlaylist(context.Background(), downloads.PlaylistRequest{
		URL:     "https://youtube.com/playlist?list=PLx",
		Quality: "720",
		Format:  "mp4",
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}

	item := filepath.Join(runner.invocations()[0].OutputDir, "1-abc.mp4")
	if _, statErr := os.Stat(item); statErr != nil {
		t.Fatalf("finished playlist item must survive a failed run: %v", statErr)
	}
}

func TestStartAudioUsesAudioPlan(t *testing.T) {
	runner := &stubRunner{}
	svc, _ := newService(t, runner)

	result, err := svc.StartAudio(context.Background(), downloads.AudioRequest{
		URL:    "https://youtube.com/watch?v=abc",
		Format: "mp3",
	})
	if err != nil {
		t.Fatalf("StartAudio failed: %v", err)
	}
	if !strings.HasSuffix(result.URL, ".mp3") {
		t.Fatalf("unexpected url: %s", result.URL)
	}
	calls := runner.invocations()
	if len(calls) != 1 || calls[0].Kind != ytdlp.KindAudio {
		t.Fatalf("unexpected invocations: %#v", calls)
	}
}

func TestStartPlaylistURLPointsAtDirectory(t *testing.T) {
	runner := &stubRunner{}
	svc, _ := newService(t, runner)

	result, err := svc.StartPlaylist(context.Background(), downloads.PlaylistRequest{
		URL:     "https://youtube.com/playlist?list=PLx",
		Quality: "720",
		Format:  "mp4",
	})
	if err != nil {
		t.Fatalf("StartPlaylist failed: %v", err)
	}
	if want := "/downloads/" + result.ID + "/"; result.URL != want {
		t.Fatalf("unexpected url: got %s want %s", result.URL, want)
	}
}

func TestCancelRunningJob(t *testing.T) {
	runner := &stubRunner{
		started: make(chan string, 1),
		release: make(chan struct{}),
	}
	svc, store := newService(t, runner)

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.StartVideo(context.Background(), downloads.VideoRequest{
			URL:     "https://youtube.com/watch?v=abc",
			Quality: "1080",
			Format:  "mp4",
		})
		errCh <- err
	}()

	id := <-runner.started
	if err := svc.Cancel(id); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := <-errCh; !errors.Is(err, services.ErrCancelled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}

	snap, err := svc.Progress(id)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if snap.Status != progress.StatusCancelled {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
	row, _ := store.GetByJobID(context.Background(), id)
	if row == nil || row.Status != queue.StatusCancelled {
		t.Fatalf("unexpected history row: %#v", row)
	}
}

func TestCancelUnknownJob(t *testing.T) {
	svc, _ := newService(t, &stubRunner{})
	if err := svc.Cancel("missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdmissionHoldsSecondJob(t *testing.T) {
	runner := &stubRunner{
		started: make(chan string, 2),
		release: make(chan struct{}),
	}
	svc, _ := newService(t, runner, testsupport.WithMaxConcurrent(1))

	errCh := make(chan error, 2)
	start := func() {
		_, err := svc.StartVideo(context.Background(), downloads.VideoRequest{
			URL:     "https://youtube.com/watch?v=abc",
			Quality: "720",
			Format:  "mp4",
		})
		errCh <- err
	}
	go start()
	first := <-runner.started

	go start()
	select {
	case second := <-runner.started:
		t.Fatalf("second job %s ran while %s held the only slot", second, first)
	case <-time.After(50 * time.Millisecond):
	}

	close(runner.release)
	<-runner.started
	for n := 0; n < 2; n++ {
		if err := <-errCh; err != nil {
			t.Fatalf("StartVideo failed: %v", err)
		}
	}
}

func TestProgressUnknownJob(t *testing.T) {
	svc, _ := newService(t, &stubRunner{})
	if _, err := svc.Progress("missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
