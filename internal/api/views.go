package api

import (
	"time"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/progress"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/queue"
)

// FromQueueItem converts a history row into its transport representation.
func FromQueueItem(item *queue.Item) HistoryItem {
	if item == nil {
		return HistoryItem{}
	}
	view := HistoryItem{
		ID:           item.ID,
		JobID:        item.JobID,
		Kind:         item.Kind,
		URL:          item.URL,
		Quality:      item.Quality,
		Format:       item.Format,
		AudioOnly:    item.AudioOnly,
		Status:       string(item.Status),
		OutputPath:   item.OutputPath,
		ErrorMessage: item.ErrorMessage,
		CreatedAt:    formatTime(item.CreatedAt),
		UpdatedAt:    formatTime(item.UpdatedAt),
	}
	if item.CompletedAt != nil {
		view.CompletedAt = formatTime(*item.CompletedAt)
	}
	return view
}

// FromQueueItems converts a slice of history rows, preserving order.
func FromQueueItems(items []*queue.Item) []HistoryItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]HistoryItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromQueueItem(item))
	}
	return out
}

// FromSnapshot converts a progress snapshot into its transport
// representation.
func FromSnapshot(id string, snap progress.Snapshot) ProgressResponse {
	return ProgressResponse{
		ID:        id,
		Status:    string(snap.Status),
		Percent:   snap.Percent,
		Speed:     snap.Speed,
		ETA:       snap.ETA,
		Error:     snap.Error,
		UpdatedAt: formatTime(snap.UpdatedAt),
	}
}

// FromHealthSummary converts aggregate history counts.
func FromHealthSummary(health queue.HealthSummary) HistoryCounts {
	return HistoryCounts{
		Total:     health.Total,
		Pending:   health.Pending,
		Running:   health.Running,
		Completed: health.Completed,
		Failed:    health.Failed,
		Cancelled: health.Cancelled,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}
