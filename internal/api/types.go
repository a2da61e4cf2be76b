package api

// timeFormat is used for RFC3339 timestamps in API payloads.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// DownloadResponse acknowledges an accepted download with its job id and the
// public URL of the resulting artifact.
type DownloadResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ProgressResponse reports the latest snapshot for a job.
type ProgressResponse struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	Percent   float64 `json:"percent"`
	Speed     string  `json:"speed,omitempty"`
	ETA       string  `json:"eta,omitempty"`
	Error     string  `json:"error,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// HistoryItem describes a history row in a transport-friendly format.
type HistoryItem struct {
	ID           int64  `json:"id"`
	JobID        string `json:"jobId"`
	Kind         string `json:"kind"`
	URL          string `json:"url"`
	Quality      string `json:"quality,omitempty"`
	Format       string `json:"format,omitempty"`
	AudioOnly    bool   `json:"audioOnly"`
	Status       string `json:"status"`
	OutputPath   string `json:"outputPath,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
	CompletedAt  string `json:"completedAt,omitempty"`
}

// HistoryListResponse wraps a collection of history items.
type HistoryListResponse struct {
	Items []HistoryItem `json:"items"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// HistoryCounts aggregates history rows per lifecycle state.
type HistoryCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool               `json:"running"`
	PID           int                `json:"pid"`
	DownloadDir   string             `json:"downloadDir"`
	HistoryDBPath string             `json:"historyDbPath"`
	LockFilePath  string             `json:"lockFilePath"`
	ActiveJobs    int                `json:"activeJobs"`
	History       HistoryCounts      `json:"history"`
	Dependencies  []DependencyStatus `json:"dependencies"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
