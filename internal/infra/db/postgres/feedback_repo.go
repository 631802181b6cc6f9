package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/repository"
)

var _ repository.FeedbackRepository = (*feedbackRepo)(nil)

type feedbackRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepo(pool *pgxpool.Pool) *feedbackRepo {
	return &feedbackRepo{pool: pool}
}

func (r *feedbackRepo) SaveFeedback(ctx context.Context, tx repository.Tx, entry *model.FeedbackEntry) error {
	const q = `
INSERT INTO feedback_entries (id, resume_id, feedback_type, feedback_text, suggested_bucket, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := execSQL(ctx, r.pool, tx, q,
		entry.ID, entry.ResumeID, string(entry.Type), entry.Text, string(entry.SuggestedBucket), entry.CreatedAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *feedbackRepo) SaveOverride(ctx context.Context, tx repository.Tx, entry *model.OverrideEntry) error {
	const q = `
INSERT INTO override_entries (id, resume_id, original_bucket, new_bucket, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := execSQL(ctx, r.pool, tx, q,
		entry.ID, entry.ResumeID, string(entry.OriginalBucket), string(entry.NewBucket), entry.Reason, entry.CreatedAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *feedbackRepo) Stats(ctx context.Context, tx repository.Tx) (*model.FeedbackStats, error) {
	stats := &model.FeedbackStats{
		FeedbackByType: map[string]int{},
		OverrideBucket: map[string]int{},
	}

	rows, err := pickRows(ctx, r.pool, tx,
		`SELECT feedback_type, COUNT(*) FROM feedback_entries GROUP BY feedback_type;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		stats.FeedbackByType[typ] = n
		stats.TotalFeedback += n
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}

	rows, err = pickRows(ctx, r.pool, tx,
		`SELECT new_bucket, COUNT(*) FROM override_entries GROUP BY new_bucket;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var bucket string
		var n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		stats.OverrideBucket[bucket] = n
		stats.TotalOverrides += n
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return stats, nil
}
