package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/adapter"
	"resume-screener/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Dispatcher hands a created job to the background pipeline.
type Dispatcher interface {
	Dispatch(jobID string)
}

// SubmittedFile is one uploaded resume document.
type SubmittedFile struct {
	Filename string
	Data     []byte
}

// JobUseCase covers submission and the read side: list, ranked detail,
// cascading delete.
type JobUseCase struct {
	jobs       repository.JobRepository
	resumes    repository.ResumeRepository
	tm         repository.TransactionManager
	dispatcher Dispatcher
	bus        adapter.ProgressPublisher
	log        *zerolog.Logger
}

func NewJobUseCase(
	jobs repository.JobRepository,
	resumes repository.ResumeRepository,
	tm repository.TransactionManager,
	dispatcher Dispatcher,
	bus adapter.ProgressPublisher,
	log *zerolog.Logger,
) *JobUseCase {
	return &JobUseCase{jobs: jobs, resumes: resumes, tm: tm, dispatcher: dispatcher, bus: bus, log: log}
}

// Submit persists the job with its resume batch and dispatches processing.
// It returns before any analysis happens; the caller gets an acknowledgment,
// not a result.
func (uc *JobUseCase) Submit(ctx context.Context, description string, files []SubmittedFile) (*model.Job, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: job description is required", domain.ErrValidation)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one resume file is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	job := &model.Job{
		ID:          uuid.NewString(),
		Description: description,
		Status:      model.JobStatusPending,
		CreatedAt:   now,
	}
	for i, f := range files {
		job.Resumes = append(job.Resumes, &model.Resume{
			ID:          uuid.NewString(),
			JobID:       job.ID,
			Filename:    f.Filename,
			RawDocument: f.Data,
			Position:    i,
			Status:      model.ResumeStatusQueued,
			CreatedAt:   now,
		})
	}

	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		return uc.jobs.Create(ctx, tx, job)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("job_id", job.ID).Int("resumes", len(files)).Msg("job submitted")
	uc.dispatcher.Dispatch(job.ID)
	return job, nil
}

func (uc *JobUseCase) List(ctx context.Context) ([]*model.JobSummary, error) {
	return uc.jobs.List(ctx, nil)
}

// Find loads the job header without its resumes.
func (uc *JobUseCase) Find(ctx context.Context, id string) (*model.Job, error) {
	return uc.jobs.FindByID(ctx, nil, id)
}

// Detail returns the job with resumes ranked by fit score, descending.
// Ties keep submission order; resumes without a score sort last, also in
// submission order.
func (uc *JobUseCase) Detail(ctx context.Context, id string) (*model.Job, error) {
	job, err := uc.jobs.FindDetail(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(job.Resumes, func(i, j int) bool {
		a, b := job.Resumes[i].Analysis, job.Resumes[j].Analysis
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.FitScore > b.FitScore
		}
	})
	return job, nil
}

// Delete removes the job and everything hanging off it, then tears down any
// live progress subscriptions so a still-running pipeline stops writing.
func (uc *JobUseCase) Delete(ctx context.Context, id string) (int, error) {
	var removed int
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		n, err := uc.jobs.Delete(ctx, tx, id)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	uc.bus.Close(id)
	uc.log.Info().Str("job_id", id).Int("resumes", removed).Msg("job deleted")
	return removed, nil
}
