package ytdlp_test

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/services/ytdlp"
)

func hasArgPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestPlanVideo(t *testing.T) {
	planner := ytdlp.Planner{DownloadDir: "/tmp/dl", FFmpegBinary: "ffmpeg"}
	inv := planner.PlanVideo("abc123", ytdlp.VideoRequest{
		URL:     "https://youtube.com/watch?v=x",
		Quality: "1080",
		Format:  "mp4",
	})

	if inv.Kind != ytdlp.KindVideo {
		t.Fatalf("kind = %s", inv.Kind)
	}
	if inv.OutputPath != filepath.Join("/tmp/dl", "abc123.mp4") {
		t.Fatalf("output path = %s", inv.OutputPath)
	}
	if inv.OutputDir != "" {
		t.Fatalf("single-file plan must not set a directory, got %s", inv.OutputDir)
	}
	if !hasArgPair(inv.Args, "-f", "bestvideo[height<=1080]+bestaudio/best[height<=1080]") {
		t.Fatalf("missing format filter in %v", inv.Args)
	}
	if !hasArgPair(inv.Args, "--merge-output-format", "mp4") {
		t.Fatalf("missing merge format in %v", inv.Args)
	}
	if !slices.Contains(inv.Args, "--no-playlist") {
		t.Fatalf("missing --no-playlist in %v", inv.Args)
	}
	if slices.Contains(inv.Args, "--download-sections") {
		t.Fatalf("unexpected trim section in %v", inv.Args)
	}
	if inv.Args[len(inv.Args)-1] != "https://youtube.com/watch?v=x" {
		t.Fatalf("url must be the final argument: %v", inv.Args)
	}
}

func TestPlanVideoTrimDefaults(t *testing.T) {
	planner := ytdlp.Planner{DownloadDir: "/tmp/dl"}

	cases := []struct {
		name    string
		start   string
		end     string
		section string
	}{
		{"both", "10", "20", "*10-20"},
		{"start only", "10", "", "*10-inf"},
		{"end only", "", "20", "*0-20"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := planner.PlanVideo("id", ytdlp.VideoRequest{
				URL: "u", Quality: "720", Format: "mp4",
				StartTime: tc.start, EndTime: tc.end,
			})
			if !hasArgPair(inv.Args, "--download-sections", tc.section) {
				t.Fatalf("expected section %q in %v", tc.section, inv.Args)
			}
		})
	}
}

func TestPlanAudio(t *testing.T) {
	planner := ytdlp.Planner{DownloadDir: "/tmp/dl"}
	inv := planner.PlanAudio("abc123", ytdlp.AudioRequest{
		URL:     "https://youtube.com/watch?v=x",
		Format:  "mp3",
		Quality: "192K",
	})

	if inv.OutputPath != filepath.Join("/tmp/dl", "abc123.mp3") {
		t.Fatalf("output path = %s", inv.OutputPath)
	}
	if !hasArgPair(inv.Args, "-o", filepath.Join("/tmp/dl", "abc123.%(ext)s")) {
		t.Fatalf("extraction must leave the template extension open: %v", inv.Args)
	}
	if !slices.Contains(inv.Args, "-x") {
		t.Fatalf("missing -x in %v", inv.Args)
	}
	if !hasArgPair(inv.Args, "--audio-format", "mp3") || !hasArgPair(inv.Args, "--audio-quality", "192K") {
		t.Fatalf("missing audio options in %v", inv.Args)
	}
	if !slices.Contains(inv.Args, "--no-playlist") {
		t.Fatalf("missing --no-playlist in %v", inv.Args)
	}
}

func TestPlanPlaylistVideoMode(t *testing.T) {
	planner := ytdlp.Planner{DownloadDir: "/tmp/dl"}
	inv := planner.PlanPlaylist("jobdir", ytdlp.PlaylistRequest{
		URL: "https://youtube.com/playlist?list=PL1", Quality: "720", Format: "mp4",
	})

	if inv.OutputDir != filepath.Join("/tmp/dl", "jobdir") {
		t.Fatalf("output dir = %s", inv.OutputDir)
	}
	if inv.OutputPath != "" {
		t.Fatalf("playlist plan must not set a single file path, got %s", inv.OutputPath)
	}
	if !slices.Contains(inv.Args, "--yes-playlist") {
		t.Fatalf("missing --yes-playlist in %v", inv.Args)
	}
	if !hasArgPair(inv.Args, "-f", "bestvideo[height<=720]+bestaudio/best[height<=720]") {
		t.Fatalf("video mode must include a quality filter: %v", inv.Args)
	}
	wantTemplate := filepath.Join("/tmp/dl", "jobdir", "%(playlist_index)s-%(id)s.%(ext)s")
	if !hasArgPair(inv.Args, "-o", wantTemplate) {
		t.Fatalf("missing item template in %v", inv.Args)
	}
}

func TestPlanPlaylistAudioModeOmitsQualityFilter(t *testing.T) {
	planner := ytdlp.Planner{DownloadDir: "/tmp/dl"}
	inv := planner.PlanPlaylist("jobdir", ytdlp.PlaylistRequest{
		URL: "u", Quality: "720", Format: "mp3", AudioOnly: true,
	})

	for _, arg := range inv.Args {
		if strings.Contains(arg, "height<=") {
			t.Fatalf("audio-only playlist must not carry a video filter: %v", inv.Args)
		}
	}
	if !slices.Contains(inv.Args, "-x") || !hasArgPair(inv.Args, "--audio-format", "mp3") {
		t.Fatalf("missing audio extraction options in %v", inv.Args)
	}
}
