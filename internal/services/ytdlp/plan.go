package ytdlp

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the download variant a job was planned for.
type Kind string

const (
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindPlaylist Kind = "playlist"
)

// VideoRequest describes a single-video download. Fields are assumed to be
// validated by the caller.
type VideoRequest struct {
	URL       string
	Quality   string // vertical resolution, e.g. "1080"
	Format    string // container, e.g. "mp4"
	StartTime string // optional trim start, empty for beginning
	EndTime   string // optional trim end, empty for unbounded
}

// AudioRequest describes an audio-only download.
type AudioRequest struct {
	URL     string
	Format  string // target codec/container, e.g. "mp3"
	Quality string // bitrate string passed straight to yt-dlp, e.g. "192K"
}

// PlaylistRequest describes a multi-item download into a job directory.
type PlaylistRequest struct {
	URL       string
	Quality   string
	Format    string
	AudioOnly bool
}

// Invocation is the planned yt-dlp call for one job: the full argument list
// plus the output target the runner checks after exit. Exactly one of
// OutputPath (single file) and OutputDir (playlist directory) is set.
type Invocation struct {
	Kind       Kind
	Args       []string
	OutputPath string
	OutputDir  string
}

// Planner builds yt-dlp argument lists from validated requests. It performs
// no sanitization of its own.
type Planner struct {
	DownloadDir  string
	FFmpegBinary string
}

func (p Planner) base() []string {
	args := []string{"--newline", "--no-warnings"}
	if strings.TrimSpace(p.FFmpegBinary) != "" {
		args = append(args, "--ffmpeg-location", p.FFmpegBinary)
	}
	return args
}

func videoFormatFilter(quality string) string {
	return fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]", quality, quality)
}

// PlanVideo plans a single-video job named by id.
func (p Planner) PlanVideo(id string, req VideoRequest) Invocation {
	output := filepath.Join(p.DownloadDir, id+"."+req.Format)
	args := append(p.base(),
		"-f", videoFormatFilter(req.Quality),
		"--merge-output-format", req.Format,
		"--no-playlist",
	)
	if req.StartTime != "" || req.EndTime != "" {
		start := req.StartTime
		if start == "" {
			start = "0"
		}
		end := req.EndTime
		if end == "" {
			end = "inf"
		}
		args = append(args, "--download-sections", fmt.Sprintf("*%s-%s", start, end))
	}
	args = append(args, "-o", output, req.URL)
	return Invocation{Kind: KindVideo, Args: args, OutputPath: output}
}

// PlanAudio plans an audio-only job named by id. The output template leaves
// the extension to yt-dlp, which rewrites it after extraction; --audio-format
// pins the final name to OutputPath.
func (p Planner) PlanAudio(id string, req AudioRequest) Invocation {
	output := filepath.Join(p.DownloadDir, id+"."+req.Format)
	template := filepath.Join(p.DownloadDir, id+".%(ext)s")
	args := append(p.base(),
		"-x",
		"--audio-format", req.Format,
		"--audio-quality", req.Quality,
		"--no-playlist",
		"-o", template,
		req.URL,
	)
	return Invocation{Kind: KindAudio, Args: args, OutputPath: output}
}

// PlanPlaylist plans a multi-item job. Items land in a directory named by
// id, one file per playlist entry named by position and item id.
func (p Planner) PlanPlaylist(id string, req PlaylistRequest) Invocation {
	dir := filepath.Join(p.DownloadDir, id)
	template := filepath.Join(dir, "%(playlist_index)s-%(id)s.%(ext)s")
	args := append(p.base(), "--yes-playlist")
	if req.AudioOnly {
		args = append(args, "-x", "--audio-format", req.Format)
	} else {
		args = append(args,
			"-f", videoFormatFilter(req.Quality),
			"--merge-output-format", req.Format,
		)
	}
	args = append(args, "-o", template, req.URL)
	return Invocation{Kind: KindPlaylist, Args: args, OutputDir: dir}
}
