// Package api provides a Go client for the ClipDeck transcription-and-splitting
// service. It covers the full task lifecycle: upload, analysis, segment
// splitting, output download and cleanup.
package api

import "time"

// TaskStatus is the server-reported lifecycle state of a task. It drives
// transition logic only; user-facing labels live in the tui package.
type TaskStatus string

const (
	StatusUploaded   TaskStatus = "uploaded"
	StatusProcessing TaskStatus = "processing"
	StatusAnalyzed   TaskStatus = "analyzed"
	StatusSplitting  TaskStatus = "splitting"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether the status is final and polling can stop.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Known reports whether the status is one the client understands.
func (s TaskStatus) Known() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusAnalyzed, StatusSplitting, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Task is one submitted media file's processing record. The server owns the
// content; the client replaces the whole record on every status refresh.
type Task struct {
	// ID is the server-assigned task identifier
	ID string `json:"task_id"`

	// Filename is the original name of the uploaded file
	Filename string `json:"filename"`

	// SizeMB is the uploaded file size in megabytes
	SizeMB float64 `json:"size_mb"`

	// Status is the current lifecycle state
	Status TaskStatus `json:"status"`

	// Progress is the server-side progress percentage (0-100)
	Progress int `json:"progress"`

	// CreatedAt is when the task was created on the server
	CreatedAt time.Time `json:"created_at"`

	// EstimatedCost is the projected charge for processing, if known
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`

	// AudioDuration is the media duration in seconds, if known
	AudioDuration *float64 `json:"audio_duration,omitempty"`

	// FailedAtStep names the action that failed ("analyze", "split")
	FailedAtStep string `json:"failed_at_step,omitempty"`

	// LastSuccessfulStep names the last action that completed, so the UI
	// can offer a precise retry instead of a full restart
	LastSuccessfulStep string `json:"last_successful_step,omitempty"`
}

// Segment is one transcript-aligned time range. Immutable once produced by
// analysis; the full ordered list is replaced wholesale when analysis runs.
type Segment struct {
	// ID is unique within the owning task
	ID string `json:"id"`

	// Start is the start time in seconds
	Start float64 `json:"start"`

	// End is the end time in seconds (always > Start)
	End float64 `json:"end"`

	// Text is the transcript for this range
	Text string `json:"text"`
}

// Identity returns the selection key for this segment.
func (s Segment) Identity() string { return s.ID }

// Duration returns the segment length.
func (s Segment) Duration() time.Duration {
	return time.Duration((s.End - s.Start) * float64(time.Second))
}

// Valid reports whether the time range is well-formed.
func (s Segment) Valid() bool { return s.ID != "" && s.Start < s.End }

// OutputFile is one split output produced by the server. The list is
// replaced, never merged, on each split.
type OutputFile struct {
	ID string `json:"id"`

	// Name is the file name to use when saving locally
	Name string `json:"name"`

	// StoragePath is the server-side location
	StoragePath string `json:"storage_path"`

	// SizeBytes is the file size in bytes
	SizeBytes int64 `json:"size"`

	// SizeLabel is the server-formatted size string ("3.2 MB")
	SizeLabel string `json:"size_formatted"`

	// DownloadURL is the URL to fetch the file from, absolute or relative
	// to the API base URL
	DownloadURL string `json:"download_url"`
}

// Identity returns the selection key for this file.
func (f OutputFile) Identity() string { return f.ID }

// UploadResponse is returned by a successful upload.
type UploadResponse struct {
	TaskID   string  `json:"task_id"`
	Filename string  `json:"filename"`
	SizeMB   float64 `json:"size_mb"`
}

// AnalyzeRequest configures server-side analysis of an uploaded task.
type AnalyzeRequest struct {
	TaskID string `json:"task_id"`

	// MinSegmentLength is the minimum segment duration in seconds
	MinSegmentLength float64 `json:"min_segment_length,omitempty"`

	// MaxSegmentLength is the maximum segment duration in seconds
	MaxSegmentLength float64 `json:"max_segment_length,omitempty"`

	// PreserveSentences avoids cutting segments mid-sentence
	PreserveSentences bool `json:"preserve_sentences,omitempty"`
}

// AnalyzeResponse carries the transcript segments produced by analysis.
type AnalyzeResponse struct {
	Segments   []Segment  `json:"segments"`
	TaskStatus TaskStatus `json:"task_status,omitempty"`
}

// SplitRequest asks the server to produce one output file per segment.
type SplitRequest struct {
	TaskID string `json:"task_id"`

	// Segments lists the segment IDs to split. An empty list means the
	// caller resolved "all segments" before submitting; the client never
	// sends an empty list (see session.SplitTargets).
	Segments []string `json:"segments"`

	OutputFormat  string `json:"output_format"`
	OutputQuality string `json:"output_quality"`
}

// SplitResponse carries the output files produced by a split.
type SplitResponse struct {
	Files      []OutputFile `json:"files"`
	TaskStatus TaskStatus   `json:"task_status,omitempty"`
}

// CleanupResponse is returned when server-side task data is released.
type CleanupResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ProgressConfig configures the WebSocket task progress subscription.
type ProgressConfig struct {
	// TaskID is the task to subscribe to
	TaskID string

	// OnTask is called when a refreshed task record is received
	OnTask func(task *Task)

	// OnError is called when the stream fails
	OnError func(err error)
}
