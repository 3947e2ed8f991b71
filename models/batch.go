package models

// BatchState is the lifecycle of one batch run.
type BatchState string

const (
	BatchPending   BatchState = "pending"
	BatchRunning   BatchState = "running"
	BatchCompleted BatchState = "completed"
	BatchFailed    BatchState = "failed"
)

// Progress is the externally observable state of a running batch.
// It has a single writer (the orchestrator) and is published by
// atomic replace-on-write, so pollers always see a consistent
// snapshot, possibly one item behind.
type Progress struct {
	State        BatchState `json:"state"`
	CurrentIndex int        `json:"current_index"`
	LastURL      string     `json:"last_url,omitempty"`
	Total        int        `json:"total"`
	Attempted    int        `json:"attempted"`
	Succeeded    int        `json:"succeeded"`
	Failed       int        `json:"failed"`
	RecentErrors []string   `json:"recent_errors,omitempty"`
}

// BatchRequest is the payload for POST /api/v1/batch/scrape.
type BatchRequest struct {
	// URLs is the list of match-report pages to scrape. Required.
	URLs []string `json:"urls" binding:"required,min=1,max=100"`

	// Options contains shared settings applied to the whole batch.
	Options BatchOptions `json:"options"`
}

// BatchOptions are the per-batch settings supplied by the caller.
type BatchOptions struct {
	// MaxMatches caps how many of the supplied URLs are processed.
	MaxMatches int `json:"max_matches,omitempty" binding:"omitempty,min=1,max=100"`

	// RateLimitDelay is the pause between fetches, in seconds.
	RateLimitDelay int `json:"rate_limit_delay,omitempty" binding:"omitempty,min=1,max=60"`

	// Timeout is the per-navigation timeout in seconds.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// Season labels the artifacts, e.g. "2024-25".
	Season string `json:"season,omitempty"`
}

// BatchResponse is the immediate response for POST /api/v1/batch/scrape.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID       string       `json:"id"`
	Progress Progress     `json:"progress"`
	Result   *BatchResult `json:"result,omitempty"`
}

// BatchFilesResponse carries the finished batch's artifacts, base64
// encoded, for GET /api/v1/batch/:id/files.
type BatchFilesResponse struct {
	ID        string `json:"id"`
	CSVName   string `json:"csv_name"`
	CSVData   string `json:"csv_data"`
	ExcelName string `json:"excel_name"`
	ExcelData string `json:"excel_data"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Session string `json:"session"`
	Version string `json:"version"`
}
