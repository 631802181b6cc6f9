//go:build !integration

package web_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(jobID string) {}

// memStore holds jobs, resumes, interviews and review entries for handler
// tests; the per-entity repo types below are thin views over it.
type memStore struct {
	mu         sync.RWMutex
	jobs       map[string]*model.Job
	resumes    map[string]*model.Resume
	interviews map[string]*model.Interview
	feedback   []*model.FeedbackEntry
	overrides  []*model.OverrideEntry
}

func newMemStore() *memStore {
	return &memStore{
		jobs:       make(map[string]*model.Job),
		resumes:    make(map[string]*model.Resume),
		interviews: make(map[string]*model.Interview),
	}
}

type memJobRepo struct{ s *memStore }

func (m *memJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.Job) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *job
	m.s.jobs[job.ID] = &cp
	for _, r := range job.Resumes {
		cr := *r
		m.s.resumes[r.ID] = &cr
	}
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	j, ok := m.s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	cp.Resumes = nil
	return &cp, nil
}

func (m *memJobRepo) FindDetail(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	j, err := m.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, r := range m.s.resumes {
		if r.JobID == id {
			cp := *r
			j.Resumes = append(j.Resumes, &cp)
		}
	}
	sort.Slice(j.Resumes, func(i, k int) bool { return j.Resumes[i].Position < j.Resumes[k].Position })
	return j, nil
}

func (m *memJobRepo) List(ctx context.Context, tx repository.Tx) ([]*model.JobSummary, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := []*model.JobSummary{}
	for _, j := range m.s.jobs {
		out = append(out, &model.JobSummary{ID: j.ID, Title: j.Title, Status: j.Status, CreatedAt: j.CreatedAt})
	}
	return out, nil
}

func (m *memJobRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.JobStatus) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	j, ok := m.s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = status
	return nil
}

func (m *memJobRepo) UpdateTitle(ctx context.Context, tx repository.Tx, id, title string) error {
	return nil
}

func (m *memJobRepo) Delete(ctx context.Context, tx repository.Tx, id string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.jobs[id]; !ok {
		return 0, domain.ErrNotFound
	}
	delete(m.s.jobs, id)
	n := 0
	for rid, r := range m.s.resumes {
		if r.JobID == id {
			delete(m.s.resumes, rid)
			n++
		}
	}
	return n, nil
}

type memResumeRepo struct{ s *memStore }

func (m *memResumeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Resume, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	r, ok := m.s.resumes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	if r.Analysis != nil {
		a := *r.Analysis
		cp.Analysis = &a
	}
	return &cp, nil
}

func (m *memResumeRepo) SetContent(ctx context.Context, tx repository.Tx, id, content, contentHash string) error {
	return nil
}

func (m *memResumeRepo) ListByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Resume, error) {
	return nil, nil
}

func (m *memResumeRepo) SaveAnalysis(ctx context.Context, tx repository.Tx, id, candidateName string, a *model.Analysis) error {
	return nil
}

func (m *memResumeRepo) MarkSkipped(ctx context.Context, tx repository.Tx, id, reason string) error {
	return nil
}

func (m *memResumeRepo) SetBucket(ctx context.Context, tx repository.Tx, id string, bucket model.Bucket) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.resumes[id]
	if !ok || r.Analysis == nil {
		return domain.ErrNotFound
	}
	r.Analysis.Bucket = bucket
	return nil
}

type memInterviewRepo struct{ s *memStore }

func (m *memInterviewRepo) Save(ctx context.Context, tx repository.Tx, iv *model.Interview) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *iv
	m.s.interviews[iv.ID] = &cp
	return nil
}

func (m *memInterviewRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Interview, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	iv, ok := m.s.interviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *iv
	return &cp, nil
}

func (m *memInterviewRepo) FindActiveByResume(ctx context.Context, tx repository.Tx, resumeID string) (*model.Interview, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, iv := range m.s.interviews {
		if iv.ResumeID == resumeID && !iv.Status.Terminal() {
			cp := *iv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memInterviewRepo) List(ctx context.Context, tx repository.Tx, f repository.InterviewFilter) ([]*model.Interview, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := []*model.Interview{}
	for _, iv := range m.s.interviews {
		if f.Status != "" && iv.Status != f.Status {
			continue
		}
		if f.Type != "" && iv.Type != f.Type {
			continue
		}
		if f.JobID != "" && iv.JobID != f.JobID {
			continue
		}
		cp := *iv
		out = append(out, &cp)
	}
	return out, nil
}

type memFeedbackRepo struct{ s *memStore }

func (m *memFeedbackRepo) SaveFeedback(ctx context.Context, tx repository.Tx, e *model.FeedbackEntry) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *e
	m.s.feedback = append(m.s.feedback, &cp)
	return nil
}

func (m *memFeedbackRepo) SaveOverride(ctx context.Context, tx repository.Tx, e *model.OverrideEntry) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *e
	m.s.overrides = append(m.s.overrides, &cp)
	return nil
}

func (m *memFeedbackRepo) Stats(ctx context.Context, tx repository.Tx) (*model.FeedbackStats, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	stats := &model.FeedbackStats{FeedbackByType: map[string]int{}, OverrideBucket: map[string]int{}}
	for _, e := range m.s.feedback {
		stats.TotalFeedback++
		stats.FeedbackByType[string(e.Type)]++
	}
	for _, e := range m.s.overrides {
		stats.TotalOverrides++
		stats.OverrideBucket[string(e.NewBucket)]++
	}
	return stats, nil
}
