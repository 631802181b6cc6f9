//go:build !integration

package usecase_test

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

type noTx struct{}

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, noTx{})
}

// recordingDispatcher captures pipeline dispatches without running anything.
type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []string
}

func (d *recordingDispatcher) Dispatch(jobID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, jobID)
}

// recordingBus captures Close calls from the delete path.
type recordingBus struct {
	mu     sync.Mutex
	closed []string
}

func (b *recordingBus) Publish(jobID string, typ model.EventType, message string) {}

func (b *recordingBus) Close(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = append(b.closed, jobID)
}

// memJobRepo is a small in-memory implementation used by unit tests.
type memJobRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Job
	resumes *memResumeRepo // shared so FindDetail sees analyses
	saveErr error
}

func newMemJobRepo(resumes *memResumeRepo) *memJobRepo {
	return &memJobRepo{store: make(map[string]*model.Job), resumes: resumes}
}

func (m *memJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.Job) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	cp := *job
	m.store[job.ID] = &cp
	m.mu.Unlock()
	for _, r := range job.Resumes {
		cr := *r
		m.resumes.mu.Lock()
		m.resumes.store[r.ID] = &cr
		m.resumes.mu.Unlock()
	}
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.store[id]
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
	j.Resumes, _ = m.resumes.ListByJob(ctx, tx, id)
	return j, nil
}

func (m *memJobRepo) List(ctx context.Context, tx repository.Tx) ([]*model.JobSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.JobSummary{}
	for _, j := range m.store {
		n := 0
		m.resumes.mu.RLock()
		for _, r := range m.resumes.store {
			if r.JobID == j.ID {
				n++
			}
		}
		m.resumes.mu.RUnlock()
		out = append(out, &model.JobSummary{
			ID: j.ID, Title: j.Title, Description: j.Description,
			Status: j.Status, CreatedAt: j.CreatedAt, ResumeCount: n,
		})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (m *memJobRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.JobStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = status
	return nil
}

func (m *memJobRepo) UpdateTitle(ctx context.Context, tx repository.Tx, id, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Title = title
	return nil
}

func (m *memJobRepo) Delete(ctx context.Context, tx repository.Tx, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return 0, domain.ErrNotFound
	}
	delete(m.store, id)
	n := 0
	m.resumes.mu.Lock()
	for rid, r := range m.resumes.store {
		if r.JobID == id {
			delete(m.resumes.store, rid)
			n++
		}
	}
	m.resumes.mu.Unlock()
	return n, nil
}

type memResumeRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Resume
}

func newMemResumeRepo() *memResumeRepo {
	return &memResumeRepo{store: make(map[string]*model.Resume)}
}

func (m *memResumeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[id]
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
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Content = content
	r.ContentHash = contentHash
	return nil
}

func (m *memResumeRepo) ListByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.Resume{}
	for _, r := range m.store {
		if r.JobID != jobID {
			continue
		}
		cp := *r
		if r.Analysis != nil {
			a := *r.Analysis
			cp.Analysis = &a
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Position < out[k].Position })
	return out, nil
}

func (m *memResumeRepo) SaveAnalysis(ctx context.Context, tx repository.Tx, id, candidateName string, a *model.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.Analysis = &cp
	r.CandidateName = candidateName
	r.Status = model.ResumeStatusAnalyzed
	r.SkipReason = ""
	return nil
}

func (m *memResumeRepo) MarkSkipped(ctx context.Context, tx repository.Tx, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = model.ResumeStatusSkipped
	r.SkipReason = reason
	return nil
}

func (m *memResumeRepo) SetBucket(ctx context.Context, tx repository.Tx, id string, bucket model.Bucket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok || r.Analysis == nil {
		return domain.ErrNotFound
	}
	r.Analysis.Bucket = bucket
	return nil
}

type memInterviewRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Interview
}

func newMemInterviewRepo() *memInterviewRepo {
	return &memInterviewRepo{store: make(map[string]*model.Interview)}
}

func (m *memInterviewRepo) Save(ctx context.Context, tx repository.Tx, iv *model.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *iv
	m.store[iv.ID] = &cp
	return nil
}

func (m *memInterviewRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	iv, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *iv
	return &cp, nil
}

func (m *memInterviewRepo) FindActiveByResume(ctx context.Context, tx repository.Tx, resumeID string) (*model.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, iv := range m.store {
		if iv.ResumeID == resumeID && !iv.Status.Terminal() {
			cp := *iv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memInterviewRepo) List(ctx context.Context, tx repository.Tx, f repository.InterviewFilter) ([]*model.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.Interview{}
	for _, iv := range m.store {
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
	sort.Slice(out, func(i, k int) bool { return out[i].ScheduledAt.Before(out[k].ScheduledAt) })
	return out, nil
}

type memFeedbackRepo struct {
	mu        sync.RWMutex
	feedback  []*model.FeedbackEntry
	overrides []*model.OverrideEntry
}

func newMemFeedbackRepo() *memFeedbackRepo { return &memFeedbackRepo{} }

func (m *memFeedbackRepo) SaveFeedback(ctx context.Context, tx repository.Tx, e *model.FeedbackEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.feedback = append(m.feedback, &cp)
	return nil
}

func (m *memFeedbackRepo) SaveOverride(ctx context.Context, tx repository.Tx, e *model.OverrideEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.overrides = append(m.overrides, &cp)
	return nil
}

func (m *memFeedbackRepo) Stats(ctx context.Context, tx repository.Tx) (*model.FeedbackStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &model.FeedbackStats{
		FeedbackByType: map[string]int{},
		OverrideBucket: map[string]int{},
	}
	for _, e := range m.feedback {
		stats.TotalFeedback++
		stats.FeedbackByType[string(e.Type)]++
	}
	for _, e := range m.overrides {
		stats.TotalOverrides++
		stats.OverrideBucket[string(e.NewBucket)]++
	}
	return stats, nil
}
