package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/fileutil"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/services"
)

// stderrTailLines bounds how much diagnostic output is kept for error
// messages.
const stderrTailLines = 8

// ProgressFunc receives parsed progress updates as output lines arrive.
type ProgressFunc func(ProgressUpdate)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a yt-dlp client. timeoutSeconds bounds each download; zero
// disables the deadline.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Download executes the planned invocation, forwarding parsed progress
// lines to onProgress. It returns nil only when the process exits zero AND
// the expected artifact exists on disk; a zero exit without output is still
// a failure.
func (c *Client) Download(ctx context.Context, inv Invocation, onProgress ProgressFunc) error {
	if err := c.prepareTarget(inv); err != nil {
		return services.Wrap(services.ErrExternalTool, "ytdlp", "prepare output", "", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var stderrTail []string
	onStderr := func(line string) {
		if strings.TrimSpace(line) == "" {
			return
		}
		stderrTail = append(stderrTail, line)
		if len(stderrTail) > stderrTailLines {
			stderrTail = stderrTail[len(stderrTail)-stderrTailLines:]
		}
	}
	onStdout := func(line string) {
		if onProgress == nil {
			return
		}
		if update, ok := ParseProgress(line); ok {
			onProgress(update)
		}
	}

	if err := c.exec.Run(runCtx, c.binary, inv.Args, onStdout, onStderr); err != nil {
		return c.classifyRunError(runCtx, err, stderrTail)
	}

	if !c.artifactPresent(inv) {
		return services.Wrap(services.ErrExternalTool, "ytdlp", "download", "process exited cleanly but produced no output artifact", nil)
	}
	return nil
}

func (c *Client) prepareTarget(inv Invocation) error {
	dir := inv.OutputDir
	if dir == "" {
		dir = filepath.Dir(inv.OutputPath)
	}
	if dir == "" || dir == "." {
		return errors.New("invocation has no output target")
	}
	return os.MkdirAll(dir, 0o755)
}

func (c *Client) artifactPresent(inv Invocation) bool {
	if inv.OutputDir != "" {
		return fileutil.DirHasEntries(inv.OutputDir)
	}
	return fileutil.FileExistsNonEmpty(inv.OutputPath)
}

func (c *Client) classifyRunError(ctx context.Context, err error, stderrTail []string) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return services.Wrap(services.ErrTimeout, "ytdlp", "download", "deadline exceeded", nil)
	case errors.Is(ctx.Err(), context.Canceled):
		return services.Wrap(services.ErrCancelled, "ytdlp", "download", "cancelled", nil)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		message := strings.TrimSpace(strings.Join(stderrTail, "\n"))
		if message == "" {
			message = fmt.Sprintf("exited with code %d", exitErr.ExitCode())
		}
		return services.Wrap(services.ErrExternalTool, "ytdlp", "download", message, nil)
	}

	// Anything else is a launch failure: binary missing, pipe setup, etc.
	return services.Wrap(services.ErrExternalTool, "ytdlp", "launch", "", err)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	// yt-dlp spawns ffmpeg children; kill the whole group on cancellation.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			if forward != nil {
				forward(scanner.Text())
			}
		}
	}

	wg.Add(2)
	go scan(stdout, onStdout)
	go scan(stderr, onStderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
