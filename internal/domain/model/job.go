package model

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job pairs one job description with a batch of submitted resumes.
// Status transitions are driven exclusively by the analysis pipeline.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	// Resumes in submission order. Populated on detail reads.
	Resumes []*Resume `json:"resumes,omitempty"`
}

// JobSummary is the list-view projection of a Job.
type JobSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description"`
	Status      JobStatus `json:"status"`
	ResumeCount int       `json:"resume_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}
