package models

// MatchRequest is the payload of POST /jobs/match.
type MatchRequest struct {
	Title          string `json:"title,omitempty"`
	JobDescription string `json:"job_description"`
}

// MatchReceipt acknowledges a match submission.
type MatchReceipt struct {
	Message  string `json:"message"`
	JobID    ID     `json:"job_id"`
	ResumeID ID     `json:"resume_id"`
	Status   Status `json:"status"`
}

// MatchRecord is the finished job match returned by GET /jobs/matches/{id}.
type MatchRecord struct {
	ID              ID             `json:"match_id"`
	FitScore        int            `json:"fit_score"`
	Strengths       []string       `json:"strengths"`
	MissingSkills   []string       `json:"missing_skills"`
	Recommendations string         `json:"recommendations"`
	CreatedAt       Timestamp      `json:"created_at"`
	Job             map[string]any `json:"job,omitempty"`
}

// AdminStats is the aggregate returned by GET /admin/stats.
type AdminStats struct {
	TotalUsers            int            `json:"total_users"`
	TotalResumes          int            `json:"total_resumes"`
	TotalMatches          int            `json:"total_matches"`
	TotalJobs             int            `json:"total_jobs"`
	AverageFitScore       float64        `json:"average_fit_score"`
	UsersWithResumes      int            `json:"users_with_resumes"`
	ActiveResumes         int            `json:"active_resumes"`
	ResumeStatusBreakdown map[string]int `json:"resume_status_breakdown"`
	AverageMatchesPerUser float64        `json:"average_matches_per_user"`
}
