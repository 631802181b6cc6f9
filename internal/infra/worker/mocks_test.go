//go:build !integration

package worker_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/adapter"
	"resume-screener/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// memStore is a shared in-memory job+resume store for pipeline tests.
type memStore struct {
	mu             sync.RWMutex
	jobs           map[string]*model.Job
	resumes        map[string]*model.Resume
	failSetContent bool
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[string]*model.Job), resumes: make(map[string]*model.Resume)}
}

func (s *memStore) seedJob(description string, docs ...string) *model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := &model.Job{
		ID:          fmt.Sprintf("job-%d", len(s.jobs)+1),
		Description: description,
		Status:      model.JobStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.jobs[job.ID] = job
	for i, doc := range docs {
		r := &model.Resume{
			ID:          fmt.Sprintf("%s-r%d", job.ID, i),
			JobID:       job.ID,
			Filename:    fmt.Sprintf("resume%d.txt", i),
			RawDocument: []byte(doc),
			Position:    i,
			Status:      model.ResumeStatusQueued,
			CreatedAt:   time.Now().UTC(),
		}
		s.resumes[r.ID] = r
	}
	return job
}

func (s *memStore) job(id string) *model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if j, ok := s.jobs[id]; ok {
		cp := *j
		return &cp
	}
	return nil
}

func (s *memStore) resumesOf(jobID string) []*model.Resume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*model.Resume{}
	for _, r := range s.resumes {
		if r.JobID == jobID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Position < out[k].Position })
	return out
}

func (s *memStore) delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
	for id, r := range s.resumes {
		if r.JobID == jobID {
			delete(s.resumes, id)
		}
	}
}

type memJobRepo struct{ s *memStore }

var _ repository.JobRepository = (*memJobRepo)(nil)

func (m *memJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.Job) error {
	return nil // pipeline tests seed through the store directly
}

func (m *memJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	if j := m.s.job(id); j != nil {
		return j, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memJobRepo) FindDetail(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	j, err := m.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	j.Resumes = m.s.resumesOf(id)
	return j, nil
}

func (m *memJobRepo) List(ctx context.Context, tx repository.Tx) ([]*model.JobSummary, error) {
	return nil, nil
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
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	j, ok := m.s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Title = title
	return nil
}

func (m *memJobRepo) Delete(ctx context.Context, tx repository.Tx, id string) (int, error) {
	n := len(m.s.resumesOf(id))
	m.s.delete(id)
	return n, nil
}

type memResumeRepo struct{ s *memStore }

var _ repository.ResumeRepository = (*memResumeRepo)(nil)

func (m *memResumeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Resume, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	r, ok := m.s.resumes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memResumeRepo) SetContent(ctx context.Context, tx repository.Tx, id, content, contentHash string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failSetContent {
		return domain.ErrOperationFailed
	}
	r, ok := m.s.resumes[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Content = content
	r.ContentHash = contentHash
	return nil
}

func (m *memResumeRepo) ListByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Resume, error) {
	return m.s.resumesOf(jobID), nil
}

func (m *memResumeRepo) SaveAnalysis(ctx context.Context, tx repository.Tx, id, candidateName string, a *model.Analysis) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.resumes[id]
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
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.resumes[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = model.ResumeStatusSkipped
	r.SkipReason = reason
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

// stubEngine scores resumes by content. Text containing "FAIL" makes the
// call error out.
type stubEngine struct {
	mu          sync.Mutex
	calls       int
	titleBlocks bool
}

var _ adapter.AnalysisEngine = (*stubEngine)(nil)

func (e *stubEngine) Analyze(ctx context.Context, jobDescription, resumeText string) (*adapter.EngineResult, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if strings.Contains(resumeText, "FAIL") {
		return nil, fmt.Errorf("%w: provider unavailable", domain.ErrEngineFailure)
	}
	score := 50
	if strings.Contains(resumeText, "senior") {
		score = 90
	}
	return &adapter.EngineResult{
		CandidateName: "Stub Candidate",
		Analysis: &model.Analysis{
			FitScore:  score,
			Bucket:    model.BucketReview,
			CreatedAt: time.Now().UTC(),
		},
	}, nil
}

func (e *stubEngine) ExtractJobTitle(ctx context.Context, jobDescription string) (string, error) {
	if e.titleBlocks {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "Stub Title", nil
}

func (e *stubEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// memCache is an in-process stand-in for the Redis analysis cache.
type memCache struct {
	mu    sync.Mutex
	store map[string]*adapter.EngineResult
}

func newMemCache() *memCache { return &memCache{store: make(map[string]*adapter.EngineResult)} }

func (c *memCache) Get(ctx context.Context, key string) (*adapter.EngineResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key], nil
}

func (c *memCache) Store(ctx context.Context, key string, res *adapter.EngineResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = res
	return nil
}
