package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

func (r *jobRepo) Create(ctx context.Context, tx repository.Tx, job *model.Job) error {
	const jobQ = `
INSERT INTO jobs (id, title, description, status, created_at)
VALUES ($1, $2, $3, $4, $5);`
	if _, err := execSQL(ctx, r.pool, tx, jobQ,
		job.ID, job.Title, job.Description, job.Status, job.CreatedAt); err != nil {
		return domain.ErrOperationFailed
	}

	const resumeQ = `
INSERT INTO resumes (id, job_id, filename, raw_document, ordinal, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, res := range job.Resumes {
		if _, err := execSQL(ctx, r.pool, tx, resumeQ,
			res.ID, job.ID, res.Filename, res.RawDocument, res.Position, res.Status, res.CreatedAt); err != nil {
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *jobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	const q = `SELECT id, title, description, status, created_at FROM jobs WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	j := &model.Job{}
	var status string
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &status, &j.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	j.Status = model.JobStatus(status)
	return j, nil
}

func (r *jobRepo) FindDetail(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	job, err := r.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	const q = `
SELECT r.id, r.job_id, r.filename, r.candidate_name, r.ordinal, r.status, r.skip_reason, r.created_at,
       a.fit_score, a.bucket, a.confidence, a.reasoning, a.summary_points, a.skill_matrix, a.timeline, a.logistics, a.created_at
FROM resumes r
LEFT JOIN analyses a ON a.resume_id = r.id
WHERE r.job_id = $1
ORDER BY r.ordinal;`
	rows, err := pickRows(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		res, err := scanResumeRow(rows)
		if err != nil {
			return nil, err
		}
		job.Resumes = append(job.Resumes, res)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return job, nil
}

func (r *jobRepo) List(ctx context.Context, tx repository.Tx) ([]*model.JobSummary, error) {
	const q = `
SELECT j.id, j.title, j.description, j.status, j.created_at,
       (SELECT COUNT(*) FROM resumes r WHERE r.job_id = j.id)
FROM jobs j
ORDER BY j.created_at DESC;`
	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.JobSummary{}
	for rows.Next() {
		s := &model.JobSummary{}
		var status string
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &status, &s.CreatedAt, &s.ResumeCount); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		s.Status = model.JobStatus(status)
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.JobStatus) error {
	const q = `UPDATE jobs SET status=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, string(status))
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) UpdateTitle(ctx context.Context, tx repository.Tx, id, title string) error {
	const q = `UPDATE jobs SET title=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, title)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, tx repository.Tx, id string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM resumes WHERE job_id=$1;`, id)
	if err != nil {
		return 0, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}

	// resumes, analyses, interviews and review entries go with the job
	// through ON DELETE CASCADE
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM jobs WHERE id=$1;`, id)
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return 0, domain.ErrNotFound
	}
	return count, nil
}

// scanResumeRow reads one resume with its (possibly absent) analysis.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResumeRow(row rowScanner) (*model.Resume, error) {
	res := &model.Resume{}
	var (
		status     string
		fitScore   *int
		bucket     *string
		confidence *float64
		reasoning  *string
		summary    []byte
		skills     []byte
		timeline   []byte
		logistics  []byte
		aCreated   *time.Time
	)
	if err := row.Scan(
		&res.ID, &res.JobID, &res.Filename, &res.CandidateName, &res.Position, &status, &res.SkipReason, &res.CreatedAt,
		&fitScore, &bucket, &confidence, &reasoning, &summary, &skills, &timeline, &logistics, &aCreated,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	res.Status = model.ResumeStatus(status)

	if fitScore != nil && bucket != nil {
		a := &model.Analysis{
			ResumeID: res.ID,
			FitScore: *fitScore,
			Bucket:   model.Bucket(*bucket),
		}
		if confidence != nil {
			a.Confidence = *confidence
		}
		if reasoning != nil {
			a.Reasoning = *reasoning
		}
		if aCreated != nil {
			a.CreatedAt = *aCreated
		}
		_ = json.Unmarshal(summary, &a.SummaryPoints)
		_ = json.Unmarshal(skills, &a.SkillMatrix)
		_ = json.Unmarshal(timeline, &a.Timeline)
		_ = json.Unmarshal(logistics, &a.Logistics)
		res.Analysis = a
	}
	return res, nil
}
