package repository

import (
	"context"

	"resume-screener/internal/domain/model"
)

// InterviewFilter narrows List results. Zero values mean "no filter".
type InterviewFilter struct {
	Status model.InterviewStatus
	Type   model.InterviewType
	JobID  string
}

type InterviewRepository interface {
	Save(ctx context.Context, tx Tx, iv *model.Interview) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Interview, error)
	// FindActiveByResume returns the resume's non-terminal interview,
	// or ErrNotFound when none exists.
	FindActiveByResume(ctx context.Context, tx Tx, resumeID string) (*model.Interview, error)
	List(ctx context.Context, tx Tx, f InterviewFilter) ([]*model.Interview, error)
}
