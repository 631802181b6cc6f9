package repository

import (
	"context"

	"resume-screener/internal/domain/model"
)

type ResumeRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.Resume, error)
	// SetContent stores the pipeline-extracted text and its hash.
	SetContent(ctx context.Context, tx Tx, resumeID, content, contentHash string) error
	ListByJob(ctx context.Context, tx Tx, jobID string) ([]*model.Resume, error)
	// SaveAnalysis writes the engine result, sets the extracted candidate
	// name and marks the resume analyzed. Serialized against SetBucket on
	// the same resume via a row lock.
	SaveAnalysis(ctx context.Context, tx Tx, resumeID, candidateName string, a *model.Analysis) error
	MarkSkipped(ctx context.Context, tx Tx, resumeID, reason string) error
	// SetBucket rewrites the live bucket of an existing analysis.
	SetBucket(ctx context.Context, tx Tx, resumeID string, bucket model.Bucket) error
}
