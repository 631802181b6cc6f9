package model

import "time"

type ResumeStatus string

const (
	ResumeStatusQueued   ResumeStatus = "queued"
	ResumeStatusAnalyzed ResumeStatus = "analyzed"
	ResumeStatusSkipped  ResumeStatus = "skipped"
)

// Skip reasons recorded on resumes the pipeline could not analyze.
const (
	SkipReasonUnsupportedFormat = "unsupported_format"
	SkipReasonUnreadable        = "unreadable"
	SkipReasonEmptyDocument     = "empty_document"
	SkipReasonDuplicateContent  = "duplicate_content"
	SkipReasonAnalysisFailed    = "analysis_failed"
)

// Resume is one candidate document inside a Job. The raw document is stored
// at submission; the pipeline fills Content, ContentHash and the outcome.
// Immutable once analyzed, except Analysis.Bucket which overrides may rewrite.
type Resume struct {
	ID            string       `json:"id"`
	JobID         string       `json:"job_id"`
	Filename      string       `json:"filename"`
	CandidateName string       `json:"candidate_name,omitempty"`
	RawDocument   []byte       `json:"-"`
	Content       string       `json:"-"` // extracted text
	ContentHash   string       `json:"-"` // sha256 of Content
	Position      int          `json:"-"` // submission order, rank tie-breaker
	Status        ResumeStatus `json:"status"`
	SkipReason    string       `json:"skip_reason,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`

	Analysis *Analysis `json:"analysis,omitempty"`
}
