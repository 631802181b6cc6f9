package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/repository"
)

var _ repository.InterviewRepository = (*interviewRepo)(nil)

type interviewRepo struct {
	pool *pgxpool.Pool
}

func NewInterviewRepo(pool *pgxpool.Pool) *interviewRepo {
	return &interviewRepo{pool: pool}
}

const interviewColumns = `id, job_id, resume_id, title, interview_type, scheduled_at, timezone, duration_minutes,
       location, video_link, primary_interviewer, additional_interviewers, pre_interview_notes, status, created_at, updated_at`

func (r *interviewRepo) Save(ctx context.Context, tx repository.Tx, iv *model.Interview) error {
	extra, err := json.Marshal(iv.AdditionalInterviewers)
	if err != nil {
		return domain.ErrOperationFailed
	}

	const q = `
INSERT INTO interviews (id, job_id, resume_id, title, interview_type, scheduled_at, timezone, duration_minutes,
                        location, video_link, primary_interviewer, additional_interviewers, pre_interview_notes,
                        status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (id) DO UPDATE SET
    title=EXCLUDED.title, interview_type=EXCLUDED.interview_type, scheduled_at=EXCLUDED.scheduled_at,
    timezone=EXCLUDED.timezone, duration_minutes=EXCLUDED.duration_minutes, location=EXCLUDED.location,
    video_link=EXCLUDED.video_link, primary_interviewer=EXCLUDED.primary_interviewer,
    additional_interviewers=EXCLUDED.additional_interviewers, pre_interview_notes=EXCLUDED.pre_interview_notes,
    status=EXCLUDED.status, updated_at=EXCLUDED.updated_at;`
	if _, err := execSQL(ctx, r.pool, tx, q,
		iv.ID, iv.JobID, iv.ResumeID, iv.Title, string(iv.Type), iv.ScheduledAt, iv.Timezone, iv.DurationMinutes,
		iv.Location, iv.VideoLink, iv.PrimaryInterviewer, extra, iv.PreInterviewNotes,
		string(iv.Status), iv.CreatedAt, iv.UpdatedAt); err != nil {
		// interviews_active_resume_idx: a concurrent create won the race
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrActiveInterview
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *interviewRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Interview, error) {
	q := `SELECT ` + interviewColumns + ` FROM interviews WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"

	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanInterview(row)
}

func (r *interviewRepo) FindActiveByResume(ctx context.Context, tx repository.Tx, resumeID string) (*model.Interview, error) {
	q := `SELECT ` + interviewColumns + ` FROM interviews
WHERE resume_id=$1 AND status IN ('scheduled', 'rescheduled')`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"

	row, err := pickRow(ctx, r.pool, tx, q, resumeID)
	if err != nil {
		return nil, err
	}
	return scanInterview(row)
}

func (r *interviewRepo) List(ctx context.Context, tx repository.Tx, filter repository.InterviewFilter) ([]*model.Interview, error) {
	q := `SELECT ` + interviewColumns + ` FROM interviews WHERE 1=1`
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		q += fmt.Sprintf(" AND interview_type=$%d", len(args))
	}
	if filter.JobID != "" {
		args = append(args, filter.JobID)
		q += fmt.Sprintf(" AND job_id=$%d", len(args))
	}
	q += " ORDER BY scheduled_at;"

	rows, err := pickRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanInterview(row rowScanner) (*model.Interview, error) {
	iv := &model.Interview{}
	var typ, status string
	var extra []byte
	if err := row.Scan(
		&iv.ID, &iv.JobID, &iv.ResumeID, &iv.Title, &typ, &iv.ScheduledAt, &iv.Timezone, &iv.DurationMinutes,
		&iv.Location, &iv.VideoLink, &iv.PrimaryInterviewer, &extra, &iv.PreInterviewNotes,
		&status, &iv.CreatedAt, &iv.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	iv.Type = model.InterviewType(typ)
	iv.Status = model.InterviewStatus(status)
	_ = json.Unmarshal(extra, &iv.AdditionalInterviewers)
	return iv, nil
}
