package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/repository"
	"resume-screener/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// CreateInterviewInput carries the raw client fields; validation happens here.
type CreateInterviewInput struct {
	ResumeID               string
	Title                  string
	Type                   string
	ScheduledAt            string
	Timezone               string
	DurationMinutes        int
	Location               string
	VideoLink              string
	PrimaryInterviewer     string
	AdditionalInterviewers []string
	PreInterviewNotes      string
}

// InterviewUseCase enforces the interview state machine and the
// one-active-interview-per-resume rule.
type InterviewUseCase struct {
	interviews repository.InterviewRepository
	resumes    repository.ResumeRepository
	tm         repository.TransactionManager
}

func NewInterviewUseCase(
	interviews repository.InterviewRepository,
	resumes repository.ResumeRepository,
	tm repository.TransactionManager,
) *InterviewUseCase {
	return &InterviewUseCase{interviews: interviews, resumes: resumes, tm: tm}
}

// scheduled_at arrives either as RFC 3339 or as the datetime-local form
// browsers produce ("2006-01-02T15:04").
func parseScheduledAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: scheduled_at is required", domain.ErrValidation)
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable scheduled_at %q", domain.ErrValidation, s)
}

// Create schedules an interview for a resume. If the resume already has a
// non-terminal interview, that record is updated in place with status
// rescheduled instead of creating a duplicate.
func (uc *InterviewUseCase) Create(ctx context.Context, in CreateInterviewInput) (*model.Interview, error) {
	ivType, ok := model.ParseInterviewType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown interview_type %q", domain.ErrValidation, in.Type)
	}
	scheduledAt, err := parseScheduledAt(in.ScheduledAt)
	if err != nil {
		return nil, err
	}

	resume, err := uc.resumes.FindByID(ctx, nil, in.ResumeID)
	if err != nil {
		return nil, err
	}

	var iv *model.Interview
	schedule := func(ctx context.Context, tx repository.Tx) error {
		now := time.Now().UTC()
		existing, err := uc.interviews.FindActiveByResume(ctx, tx, resume.ID)
		switch {
		case err == nil:
			iv = existing
			iv.Status = model.InterviewStatusRescheduled
		case errors.Is(err, domain.ErrNotFound):
			iv = &model.Interview{
				ID:        uuid.NewString(),
				JobID:     resume.JobID,
				ResumeID:  resume.ID,
				Status:    model.InterviewStatusScheduled,
				CreatedAt: now,
			}
		default:
			return err
		}

		iv.Title = in.Title
		iv.Type = ivType
		iv.ScheduledAt = scheduledAt
		iv.Timezone = in.Timezone
		iv.DurationMinutes = in.DurationMinutes
		iv.Location = in.Location
		iv.VideoLink = in.VideoLink
		iv.PrimaryInterviewer = in.PrimaryInterviewer
		iv.AdditionalInterviewers = in.AdditionalInterviewers
		iv.PreInterviewNotes = in.PreInterviewNotes
		iv.UpdatedAt = now
		return uc.interviews.Save(ctx, tx, iv)
	}

	// FindActiveByResume locks nothing when no row exists yet, so two
	// concurrent creates can both take the insert path and the loser then
	// trips the unique active-interview index. Retry once: the second
	// attempt sees the winner's row and reschedules it.
	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, schedule)
	if errors.Is(err, domain.ErrActiveInterview) {
		err = uc.tm.WithTx(ctx, pgx.TxOptions{}, schedule)
	}
	if err != nil {
		return nil, err
	}
	metrics.IncInterview(string(iv.Status))
	return iv, nil
}

// UpdateStatus applies one transition of the state machine. Transitions out
// of completed or cancelled fail with ErrInvalidTransition and leave the
// record untouched.
func (uc *InterviewUseCase) UpdateStatus(ctx context.Context, id, status string) (*model.Interview, error) {
	next, ok := model.ParseInterviewStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown interview status %q", domain.ErrValidation, status)
	}

	var iv *model.Interview
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		cur, err := uc.interviews.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !cur.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, cur.Status, next)
		}
		cur.Status = next
		cur.UpdatedAt = time.Now().UTC()
		iv = cur
		return uc.interviews.Save(ctx, tx, cur)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncInterview(string(iv.Status))
	return iv, nil
}

// List returns interviews matching the optional status/type filters.
func (uc *InterviewUseCase) List(ctx context.Context, status, ivType, jobID string) ([]*model.Interview, error) {
	var f repository.InterviewFilter
	if status != "" {
		s, ok := model.ParseInterviewStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown interview status %q", domain.ErrValidation, status)
		}
		f.Status = s
	}
	if ivType != "" {
		t, ok := model.ParseInterviewType(ivType)
		if !ok {
			return nil, fmt.Errorf("%w: unknown interview_type %q", domain.ErrValidation, ivType)
		}
		f.Type = t
	}
	f.JobID = jobID
	return uc.interviews.List(ctx, nil, f)
}
