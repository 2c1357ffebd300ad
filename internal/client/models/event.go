package models

import "encoding/json"

// Topics pushed by the server.
const (
	TopicResume     = "resume_update"
	TopicJobMatch   = "job_match_update"
	TopicConnection = "connection"
	TopicPing       = "ping"
	TopicPong       = "pong"
)

// Status is a job progress status.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusUploading  Status = "uploading"
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusExtracting Status = "extracting"
	StatusAnalyzing  Status = "analyzing"
	StatusAnalyzed   Status = "analyzed"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ProgressEvent is one frame received on the realtime channel.
// Type is the topic. Data carries topic specific references such as
// resume_id or match_id.
type ProgressEvent struct {
	Type      string                     `json:"type"`
	Status    Status                     `json:"status,omitempty"`
	Progress  int                        `json:"progress"`
	Message   string                     `json:"message,omitempty"`
	Data      map[string]json.RawMessage `json:"data,omitempty"`
	ResumeID  ID                         `json:"resume_id,omitempty"`
	JobID     ID                         `json:"job_id,omitempty"`
	Timestamp float64                    `json:"timestamp,omitempty"`
}

// DataID returns the id stored under key in Data, or "" when absent or
// not an id.
func (e ProgressEvent) DataID(key string) ID {
	raw, ok := e.Data[key]
	if !ok {
		return ""
	}
	var id ID
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}
