package repository

import (
	"context"

	"resume-screener/internal/domain/model"
)

type JobRepository interface {
	// Create persists the job together with its resume batch. The resume
	// collection is fixed from this point on; only analysis results are
	// written into it afterwards.
	Create(ctx context.Context, tx Tx, job *model.Job) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Job, error)
	// FindDetail loads the job with its resumes and their current analyses,
	// in submission order.
	FindDetail(ctx context.Context, tx Tx, id string) (*model.Job, error)
	List(ctx context.Context, tx Tx) ([]*model.JobSummary, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.JobStatus) error
	// UpdateTitle records the engine-extracted job title. Best effort.
	UpdateTitle(ctx context.Context, tx Tx, id, title string) error
	// Delete removes the job and cascades to its resumes, analyses,
	// interviews, feedback and override entries. Returns the number of
	// resumes removed.
	Delete(ctx context.Context, tx Tx, id string) (int, error)
}
