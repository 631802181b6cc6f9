package usecase

import (
	"context"
	"fmt"
	"time"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/repository"
	"resume-screener/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// FeedbackUseCase records reviewer feedback and bucket overrides.
// Overrides are the only mutation an analysis ever sees after the pipeline
// wrote it, and they run under the same per-resume serialization.
type FeedbackUseCase struct {
	feedback repository.FeedbackRepository
	resumes  repository.ResumeRepository
	tm       repository.TransactionManager
}

func NewFeedbackUseCase(
	feedback repository.FeedbackRepository,
	resumes repository.ResumeRepository,
	tm repository.TransactionManager,
) *FeedbackUseCase {
	return &FeedbackUseCase{feedback: feedback, resumes: resumes, tm: tm}
}

// SubmitFeedback appends a feedback entry. The analysis is never altered.
func (uc *FeedbackUseCase) SubmitFeedback(ctx context.Context, resumeID, feedbackType, text, suggestedBucket string) (*model.FeedbackEntry, error) {
	ft, ok := model.ParseFeedbackType(feedbackType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown feedback_type %q", domain.ErrValidation, feedbackType)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: feedback_text is required", domain.ErrValidation)
	}
	var suggested model.Bucket
	if suggestedBucket != "" {
		b, ok := model.ParseBucket(suggestedBucket)
		if !ok {
			return nil, fmt.Errorf("%w: unknown bucket %q", domain.ErrValidation, suggestedBucket)
		}
		suggested = b
	}

	if _, err := uc.resumes.FindByID(ctx, nil, resumeID); err != nil {
		return nil, err
	}

	entry := &model.FeedbackEntry{
		ID:              uuid.NewString(),
		ResumeID:        resumeID,
		Type:            ft,
		Text:            text,
		SuggestedBucket: suggested,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.feedback.SaveFeedback(ctx, nil, entry); err != nil {
		return nil, err
	}
	metrics.IncFeedback(string(ft))
	return entry, nil
}

// SubmitOverride appends an audit entry and atomically rewrites the live
// bucket. A rejected override leaves the analysis untouched.
func (uc *FeedbackUseCase) SubmitOverride(ctx context.Context, resumeID, newBucket, reason string) (*model.OverrideEntry, error) {
	bucket, ok := model.ParseBucket(newBucket)
	if !ok {
		return nil, fmt.Errorf("%w: unknown bucket %q", domain.ErrValidation, newBucket)
	}

	var entry *model.OverrideEntry
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		resume, err := uc.resumes.FindByID(ctx, tx, resumeID)
		if err != nil {
			return err
		}
		if resume.Analysis == nil {
			return fmt.Errorf("%w: resume has no analysis to override", domain.ErrNotFound)
		}
		entry = &model.OverrideEntry{
			ID:             uuid.NewString(),
			ResumeID:       resumeID,
			OriginalBucket: resume.Analysis.Bucket,
			NewBucket:      bucket,
			Reason:         reason,
			CreatedAt:      time.Now().UTC(),
		}
		if err := uc.feedback.SaveOverride(ctx, tx, entry); err != nil {
			return err
		}
		return uc.resumes.SetBucket(ctx, tx, resumeID, bucket)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncOverride(string(bucket))
	return entry, nil
}

func (uc *FeedbackUseCase) Stats(ctx context.Context) (*model.FeedbackStats, error) {
	return uc.feedback.Stats(ctx, nil)
}
