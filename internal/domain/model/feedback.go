package model

import "time"

type FeedbackType string

const (
	FeedbackTypeCorrection  FeedbackType = "correction"
	FeedbackTypeImprovement FeedbackType = "improvement"
	FeedbackTypeGeneral     FeedbackType = "general"
)

func ParseFeedbackType(s string) (FeedbackType, bool) {
	switch FeedbackType(s) {
	case FeedbackTypeCorrection, FeedbackTypeImprovement, FeedbackTypeGeneral:
		return FeedbackType(s), true
	}
	return "", false
}

// FeedbackEntry is an append-only reviewer note against a resume's analysis.
// It never mutates the analysis itself.
type FeedbackEntry struct {
	ID              string       `json:"id"`
	ResumeID        string       `json:"resume_id"`
	Type            FeedbackType `json:"feedback_type"`
	Text            string       `json:"feedback_text"`
	SuggestedBucket Bucket       `json:"suggested_bucket,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// OverrideEntry is the audit record of a reviewer rewriting a bucket.
// Appending one also sets Analysis.Bucket = NewBucket.
type OverrideEntry struct {
	ID             string    `json:"id"`
	ResumeID       string    `json:"resume_id"`
	OriginalBucket Bucket    `json:"original_bucket"`
	NewBucket      Bucket    `json:"new_bucket"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

// FeedbackStats aggregates reviewer activity across all jobs.
type FeedbackStats struct {
	TotalFeedback  int            `json:"total_feedback"`
	TotalOverrides int            `json:"total_overrides"`
	FeedbackByType map[string]int `json:"feedback_by_type"`
	OverrideBucket map[string]int `json:"override_bucket_frequency"`
}
