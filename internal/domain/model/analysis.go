package model

import "time"

type Bucket string

const (
	BucketFastTrack Bucket = "Fast Track"
	BucketReview    Bucket = "Review"
	BucketReject    Bucket = "Reject"
)

// ParseBucket validates a reviewer-supplied bucket value.
func ParseBucket(s string) (Bucket, bool) {
	switch Bucket(s) {
	case BucketFastTrack, BucketReview, BucketReject:
		return Bucket(s), true
	}
	return "", false
}

type SkillMatrix struct {
	Matches []string `json:"matches"`
	Gaps    []string `json:"gaps"`
}

type TimelineEntry struct {
	Period  string `json:"period"`
	Role    string `json:"role"`
	Details string `json:"details"`
}

type Logistics struct {
	Compensation      string `json:"compensation,omitempty"`
	NoticePeriod      string `json:"notice_period,omitempty"`
	WorkAuthorization string `json:"work_authorization,omitempty"`
	Location          string `json:"location,omitempty"`
}

// Analysis is the engine's structured verdict for one resume. Written once by
// the pipeline; only Bucket may change afterwards, through an override.
type Analysis struct {
	ResumeID      string          `json:"-"`
	FitScore      int             `json:"fit_score"`
	Bucket        Bucket          `json:"bucket"`
	Confidence    float64         `json:"confidence,omitempty"`
	Reasoning     string          `json:"reasoning"`
	SummaryPoints []string        `json:"summary_points"`
	SkillMatrix   SkillMatrix     `json:"skill_matrix"`
	Timeline      []TimelineEntry `json:"timeline"`
	Logistics     Logistics       `json:"logistics"`
	CreatedAt     time.Time       `json:"created_at"`
}
