package model

import "time"

// JobStatus is the lifecycle state reported by the analysis service
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further status transitions can occur
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job identifies one analysis run tracked by the client
type Job struct {
	ID        string    `json:"job_id"`
	SourceURL string    `json:"url"`
	Status    JobStatus `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusUpdate is one decoded status poll response
type StatusUpdate struct {
	JobID    string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`
	Message  string    `json:"message"`
}

// HistoryEntry is a read-only snapshot of a past job. It is never merged
// field-by-field with live Job state.
type HistoryEntry struct {
	JobID       string     `json:"job_id"`
	URL         string     `json:"url"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ClampProgress bounds a reported progress value to the displayable 0-100 range
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
