package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/repository"
)

var _ repository.ResumeRepository = (*resumeRepo)(nil)

type resumeRepo struct {
	pool *pgxpool.Pool
}

func NewResumeRepo(pool *pgxpool.Pool) *resumeRepo {
	return &resumeRepo{pool: pool}
}

func (r *resumeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Resume, error) {
	q := `
SELECT r.id, r.job_id, r.filename, r.candidate_name, r.ordinal, r.status, r.skip_reason, r.created_at,
       a.fit_score, a.bucket, a.confidence, a.reasoning, a.summary_points, a.skill_matrix, a.timeline, a.logistics, a.created_at
FROM resumes r
LEFT JOIN analyses a ON a.resume_id = r.id
WHERE r.id = $1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE OF r"
	}
	q += ";"

	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanResumeRow(row)
}

func (r *resumeRepo) SetContent(ctx context.Context, tx repository.Tx, id, content, contentHash string) error {
	const q = `UPDATE resumes SET content=$2, content_hash=$3 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, content, contentHash)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *resumeRepo) ListByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Resume, error) {
	const q = `
SELECT id, job_id, filename, candidate_name, raw_document, content, content_hash, ordinal, status, skip_reason, created_at
FROM resumes
WHERE job_id = $1
ORDER BY ordinal;`
	rows, err := pickRows(ctx, r.pool, tx, q, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Resume{}
	for rows.Next() {
		res := &model.Resume{}
		var status string
		if err := rows.Scan(
			&res.ID, &res.JobID, &res.Filename, &res.CandidateName, &res.RawDocument,
			&res.Content, &res.ContentHash, &res.Position, &status, &res.SkipReason, &res.CreatedAt,
		); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		res.Status = model.ResumeStatus(status)
		out = append(out, res)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *resumeRepo) SaveAnalysis(ctx context.Context, tx repository.Tx, id, candidateName string, analysis *model.Analysis) error {
	summary, err := json.Marshal(analysis.SummaryPoints)
	if err != nil {
		return domain.ErrOperationFailed
	}
	skills, err := json.Marshal(analysis.SkillMatrix)
	if err != nil {
		return domain.ErrOperationFailed
	}
	timeline, err := json.Marshal(analysis.Timeline)
	if err != nil {
		return domain.ErrOperationFailed
	}
	logistics, err := json.Marshal(analysis.Logistics)
	if err != nil {
		return domain.ErrOperationFailed
	}

	const resumeQ = `UPDATE resumes SET candidate_name=$2, status=$3, skip_reason='' WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, resumeQ, id, candidateName, string(model.ResumeStatusAnalyzed))
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	const analysisQ = `
INSERT INTO analyses (resume_id, fit_score, bucket, confidence, reasoning, summary_points, skill_matrix, timeline, logistics, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (resume_id) DO UPDATE SET
    fit_score=EXCLUDED.fit_score, bucket=EXCLUDED.bucket, confidence=EXCLUDED.confidence,
    reasoning=EXCLUDED.reasoning, summary_points=EXCLUDED.summary_points,
    skill_matrix=EXCLUDED.skill_matrix, timeline=EXCLUDED.timeline,
    logistics=EXCLUDED.logistics, created_at=EXCLUDED.created_at;`
	if _, err := execSQL(ctx, r.pool, tx, analysisQ,
		id, analysis.FitScore, string(analysis.Bucket), analysis.Confidence, analysis.Reasoning,
		summary, skills, timeline, logistics, analysis.CreatedAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *resumeRepo) MarkSkipped(ctx context.Context, tx repository.Tx, id, reason string) error {
	const q = `UPDATE resumes SET status=$2, skip_reason=$3 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, string(model.ResumeStatusSkipped), reason)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *resumeRepo) SetBucket(ctx context.Context, tx repository.Tx, id string, bucket model.Bucket) error {
	const q = `UPDATE analyses SET bucket=$2 WHERE resume_id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, string(bucket))
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
