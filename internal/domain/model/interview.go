package model

import "time"

type InterviewType string

const (
	InterviewTypePhone     InterviewType = "phone"
	InterviewTypeVideo     InterviewType = "video"
	InterviewTypeOnsite    InterviewType = "onsite"
	InterviewTypeTechnical InterviewType = "technical"
)

func ParseInterviewType(s string) (InterviewType, bool) {
	switch InterviewType(s) {
	case InterviewTypePhone, InterviewTypeVideo, InterviewTypeOnsite, InterviewTypeTechnical:
		return InterviewType(s), true
	}
	return "", false
}

type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "scheduled"
	InterviewStatusRescheduled InterviewStatus = "rescheduled"
	InterviewStatusCompleted   InterviewStatus = "completed"
	InterviewStatusCancelled   InterviewStatus = "cancelled"
)

func ParseInterviewStatus(s string) (InterviewStatus, bool) {
	switch InterviewStatus(s) {
	case InterviewStatusScheduled, InterviewStatusRescheduled,
		InterviewStatusCompleted, InterviewStatusCancelled:
		return InterviewStatus(s), true
	}
	return "", false
}

func (s InterviewStatus) Terminal() bool {
	return s == InterviewStatusCompleted || s == InterviewStatusCancelled
}

// CanTransition reports whether an interview may move from s to next.
// scheduled and rescheduled are interchangeable non-terminal states; terminal
// states accept no further transitions.
func (s InterviewStatus) CanTransition(next InterviewStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case InterviewStatusScheduled, InterviewStatusRescheduled,
		InterviewStatusCompleted, InterviewStatusCancelled:
		return true
	}
	return false
}

// Interview is a scheduled meeting tied to one Resume within one Job.
// A resume carries at most one non-terminal interview at a time.
type Interview struct {
	ID                     string          `json:"id"`
	JobID                  string          `json:"job_id"`
	ResumeID               string          `json:"resume_id"`
	Title                  string          `json:"title"`
	Type                   InterviewType   `json:"interview_type"`
	ScheduledAt            time.Time       `json:"scheduled_at"`
	Timezone               string          `json:"timezone"`
	DurationMinutes        int             `json:"duration_minutes"`
	Location               string          `json:"location,omitempty"`
	VideoLink              string          `json:"video_link,omitempty"`
	PrimaryInterviewer     string          `json:"primary_interviewer"`
	AdditionalInterviewers []string        `json:"additional_interviewers,omitempty"`
	PreInterviewNotes      string          `json:"pre_interview_notes,omitempty"`
	Status                 InterviewStatus `json:"status"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}
