package models

// ResumeRecord is the analysed résumé returned by the terminal read.
type ResumeRecord struct {
	ID         ID             `json:"resume_id"`
	Filename   string         `json:"filename"`
	Status     Status         `json:"status"`
	UploadedAt Timestamp      `json:"uploaded_at"`
	Skills     []string       `json:"skills"`
	Experience map[string]any `json:"experience"`
	Education  []string       `json:"education"`
	Summary    string         `json:"summary"`
}

// UploadReceipt acknowledges a résumé upload; analysis continues
// asynchronously and is reported over the realtime channel.
type UploadReceipt struct {
	ResumeID ID     `json:"resume_id"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
	Status   Status `json:"status"`
}
