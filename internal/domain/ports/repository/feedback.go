package repository

import (
	"context"

	"resume-screener/internal/domain/model"
)

type FeedbackRepository interface {
	SaveFeedback(ctx context.Context, tx Tx, e *model.FeedbackEntry) error
	SaveOverride(ctx context.Context, tx Tx, e *model.OverrideEntry) error
	Stats(ctx context.Context, tx Tx) (*model.FeedbackStats, error)
}
