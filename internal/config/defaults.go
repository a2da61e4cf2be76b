package config

const (
	defaultDownloadDir            = "~/.local/share/mytube/downloads"
	defaultLogDir                 = "~/.local/share/mytube/logs"
	defaultAPIBind                = "127.0.0.1:5000"
	defaultYtDlpBinary            = "yt-dlp"
	defaultFFmpegBinary           = "ffmpeg"
	defaultMaxConcurrentDownloads = 3
	defaultDownloadTimeout        = 3600
	defaultMinFreeSpaceGiB        = 1
	defaultProgressRetention      = 3600
	defaultProgressSweep          = 60
	defaultHistoryRetentionDays   = 60
	defaultLogLevel               = "info"
	defaultLogFormat              = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		Downloader: Downloader{
			YtDlpBinary:            defaultYtDlpBinary,
			FFmpegBinary:           defaultFFmpegBinary,
			MaxConcurrentDownloads: defaultMaxConcurrentDownloads,
			DownloadTimeout:        defaultDownloadTimeout,
			MinFreeSpaceGiB:        defaultMinFreeSpaceGiB,
		},
		Progress: Progress{
			RetentionSeconds: defaultProgressRetention,
			SweepSeconds:     defaultProgressSweep,
		},
		History: History{
			RetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
