package main

import (
	"strings"
	"testing"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/api"
)

func TestRenderHistoryTable(t *testing.T) {
	items := []api.HistoryItem{
		{
			JobID:     "a1b2c3d4e5f6a7b8",
			Kind:      "video",
			Status:    "completed",
			URL:       "https://youtube.com/watch?v=abc",
			CreatedAt: "2025-03-01T10:00:00.000Z",
		},
		{
			JobID:        "ffffffffffffffff",
			Kind:         "audio",
			Status:       "failed",
			URL:          "https://youtube.com/watch?v=def",
			ErrorMessage: "exited with code 1",
		},
	}

	rendered := renderHistoryTable(items)
	for _, want := range []string{"a1b2c3d4e5f6", "Completed", "Failed", "exited with code 1"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected %q in table:\n%s", want, rendered)
		}
	}
	if strings.Contains(rendered, "a1b2c3d4e5f6a7b8") {
		t.Fatal("job ids must be shortened for display")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncate("a very long string indeed", 10); got != "a very ..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if len(truncate("abcdef", 3)) != 3 {
		t.Fatal("tiny limits must still bound the result")
	}
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel("completed"); got != "Completed" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := statusLabel(""); got != "Unknown" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestFormatHistoryTime(t *testing.T) {
	if got := formatHistoryTime(""); got != "" {
		t.Fatalf("expected empty output for empty input, got %q", got)
	}
	if got := formatHistoryTime("garbage"); got != "garbage" {
		t.Fatalf("unparseable values pass through, got %q", got)
	}
	if got := formatHistoryTime("2025-03-01T10:00:00.000Z"); got == "" {
		t.Fatal("expected formatted timestamp")
	}
}
