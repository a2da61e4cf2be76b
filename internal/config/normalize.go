package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDownloader()
	c.normalizeProgress()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("MYTUBE_DOWNLOAD_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DownloadDir = value
	}
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if value, ok := os.LookupEnv("MYTUBE_API_BIND"); ok {
		c.Paths.APIBind = value
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("MYTUBE_API_TOKEN"); ok {
			c.Paths.APIToken = value
		}
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeDownloader() {
	if value, ok := os.LookupEnv("MYTUBE_YTDLP_BINARY"); ok && strings.TrimSpace(value) != "" {
		c.Downloader.YtDlpBinary = value
	}
	c.Downloader.YtDlpBinary = strings.TrimSpace(c.Downloader.YtDlpBinary)
	if c.Downloader.YtDlpBinary == "" {
		c.Downloader.YtDlpBinary = defaultYtDlpBinary
	}
	c.Downloader.FFmpegBinary = strings.TrimSpace(c.Downloader.FFmpegBinary)
	if c.Downloader.FFmpegBinary == "" {
		c.Downloader.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Downloader.MaxConcurrentDownloads <= 0 {
		c.Downloader.MaxConcurrentDownloads = defaultMaxConcurrentDownloads
	}
	if c.Downloader.DownloadTimeout < 0 {
		c.Downloader.DownloadTimeout = 0
	}
	if c.Downloader.MinFreeSpaceGiB < 0 {
		c.Downloader.MinFreeSpaceGiB = 0
	}
}

func (c *Config) normalizeProgress() {
	if c.Progress.RetentionSeconds <= 0 {
		c.Progress.RetentionSeconds = defaultProgressRetention
	}
	if c.Progress.SweepSeconds <= 0 {
		c.Progress.SweepSeconds = defaultProgressSweep
	}
}

func (c *Config) normalizeHistory() {
	if c.History.RetentionDays < 0 {
		c.History.RetentionDays = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
