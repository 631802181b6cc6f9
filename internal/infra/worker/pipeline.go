package worker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/adapter"
	"resume-screener/internal/domain/ports/repository"
	"resume-screener/internal/infra/extract"
	"resume-screener/internal/infra/logging"
	"resume-screener/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// AnalysisCache reuses engine output for identical (description, resume)
// pairs. A nil result with nil error is a miss.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (*adapter.EngineResult, error)
	Store(ctx context.Context, key string, res *adapter.EngineResult) error
}

// Pipeline processes every resume of a submitted job exactly once,
// independent of client connectivity. Dispatch returns immediately;
// the work runs on the shared pool.
type Pipeline struct {
	jobs      repository.JobRepository
	resumes   repository.ResumeRepository
	engine    adapter.AnalysisEngine
	bus       adapter.ProgressPublisher
	extractor extract.Extractor
	cache     AnalysisCache // optional
	pool      *Pool
	log       *zerolog.Logger

	engineTimeout time.Duration
	eventGrace    time.Duration

	// base context for background processing, decoupled from the request
	// that triggered the dispatch
	baseCtx context.Context
}

func NewPipeline(
	baseCtx context.Context,
	jobs repository.JobRepository,
	resumes repository.ResumeRepository,
	engine adapter.AnalysisEngine,
	bus adapter.ProgressPublisher,
	extractor extract.Extractor,
	cache AnalysisCache,
	pool *Pool,
	engineTimeout, eventGrace time.Duration,
	log *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		jobs:          jobs,
		resumes:       resumes,
		engine:        engine,
		bus:           bus,
		extractor:     extractor,
		cache:         cache,
		pool:          pool,
		log:           log,
		engineTimeout: engineTimeout,
		eventGrace:    eventGrace,
		baseCtx:       baseCtx,
	}
}

// Dispatch schedules processing for a newly created job and returns
// immediately. Fire and forget: the submission response never waits for
// analysis.
func (p *Pipeline) Dispatch(jobID string) {
	go p.run(jobID)
}

func (p *Pipeline) run(jobID string) {
	ctx := logging.WithJobID(p.baseCtx, jobID)
	log := logging.With(ctx, p.log)

	job, err := p.jobs.FindByID(ctx, nil, jobID)
	if err != nil {
		log.Error().Err(err).Msg("job vanished before processing started")
		return
	}
	batch, err := p.resumes.ListByJob(ctx, nil, jobID)
	if err != nil {
		log.Error().Err(err).Msg("could not load resume batch")
		return
	}

	if err := p.jobs.UpdateStatus(ctx, nil, jobID, model.JobStatusProcessing); err != nil {
		log.Error().Err(err).Msg("could not mark job processing")
		return
	}
	p.bus.Publish(jobID, model.EventProcessing, fmt.Sprintf("Processing %d resumes...", len(batch)))

	titleCtx, cancelTitle := context.WithTimeout(ctx, p.engineTimeout)
	if title, err := p.engine.ExtractJobTitle(titleCtx, job.Description); err == nil && title != "" {
		_ = p.jobs.UpdateTitle(ctx, nil, jobID, title)
	}
	cancelTitle()

	// Stage 1: extraction and duplicate detection, in submission order.
	seen := make(map[string]bool)
	analyzable := make([]*model.Resume, 0, len(batch))
	for _, r := range batch {
		if p.jobDeleted(ctx, jobID) {
			log.Warn().Msg("job deleted mid-extraction, stopping")
			p.bus.Close(jobID)
			return
		}
		text, reason, exErr := p.extractor.Extract(r.Filename, r.RawDocument)
		if reason != "" {
			if exErr != nil {
				log.Warn().Err(exErr).Str("resume_id", r.ID).Msg("extraction failed")
			}
			p.skip(ctx, jobID, r, reason)
			continue
		}
		sum := sha256.Sum256([]byte(text))
		hash := hex.EncodeToString(sum[:])
		if seen[hash] {
			p.skip(ctx, jobID, r, model.SkipReasonDuplicateContent)
			continue
		}
		seen[hash] = true
		if err := p.resumes.SetContent(ctx, nil, r.ID, text, hash); err != nil {
			// storage trouble, not a document problem
			log.Error().Err(err).Str("resume_id", r.ID).Msg("could not persist extracted text")
			p.skip(ctx, jobID, r, model.SkipReasonAnalysisFailed)
			continue
		}
		r.Content = text
		r.ContentHash = hash
		analyzable = append(analyzable, r)
	}

	// Stage 2: engine calls, fanned out over the shared bounded pool.
	var analyzed atomic.Int64
	var wg sync.WaitGroup
	for _, r := range analyzable {
		r := r
		wg.Add(1)
		err := p.pool.Submit(ctx, func(taskCtx context.Context) error {
			defer wg.Done()
			if p.analyzeOne(taskCtx, job, r) {
				analyzed.Add(1)
			}
			return nil
		})
		if err != nil {
			wg.Done()
			log.Error().Err(err).Str("resume_id", r.ID).Msg("pool rejected task")
			p.skip(ctx, jobID, r, model.SkipReasonAnalysisFailed)
		}
	}
	wg.Wait()

	p.finish(ctx, jobID, len(batch), int(analyzed.Load()))
}

// analyzeOne runs a single engine call and persists the outcome. Reports
// whether the resume ended up analyzed.
func (p *Pipeline) analyzeOne(ctx context.Context, job *model.Job, r *model.Resume) bool {
	ctx = logging.WithResumeID(logging.WithJobID(ctx, job.ID), r.ID)
	log := logging.With(ctx, p.log)

	if p.jobDeleted(ctx, job.ID) {
		return false
	}
	p.bus.Publish(job.ID, model.EventProcessing, fmt.Sprintf("Analyzing %s...", r.Filename))

	res, err := p.lookupCache(ctx, job, r)
	if err == nil && res == nil {
		callCtx, cancel := context.WithTimeout(ctx, p.engineTimeout)
		res, err = p.engine.Analyze(callCtx, job.Description, r.Content)
		cancel()
		if err == nil {
			p.storeCache(ctx, job, r, res)
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		p.bus.Publish(job.ID, model.EventError, fmt.Sprintf("Error analyzing %s", r.Filename))
		p.skip(ctx, job.ID, r, model.SkipReasonAnalysisFailed)
		return false
	}

	if p.jobDeleted(ctx, job.ID) {
		return false
	}
	if err := p.resumes.SaveAnalysis(ctx, nil, r.ID, res.CandidateName, res.Analysis); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false // deleted under us
		}
		log.Error().Err(err).Msg("could not persist analysis")
		p.bus.Publish(job.ID, model.EventError, fmt.Sprintf("Error saving analysis for %s", r.Filename))
		p.skip(ctx, job.ID, r, model.SkipReasonAnalysisFailed)
		return false
	}
	metrics.IncResumeProcessed(string(model.ResumeStatusAnalyzed))
	p.bus.Publish(job.ID, model.EventSuccess, fmt.Sprintf("Completed analysis for %s", r.Filename))
	return true
}

func (p *Pipeline) finish(ctx context.Context, jobID string, total, analyzed int) {
	if p.jobDeleted(ctx, jobID) {
		p.bus.Close(jobID)
		return
	}

	status := model.JobStatusCompleted
	if analyzed == 0 {
		status = model.JobStatusFailed
	}
	if err := p.jobs.UpdateStatus(ctx, nil, jobID, status); err != nil {
		p.log.Error().Err(err).Str("job_id", jobID).Msg("could not finalize job status")
	}
	metrics.IncJobProcessed(string(status))
	p.bus.Publish(jobID, model.EventComplete,
		fmt.Sprintf("Processed %d of %d resumes", analyzed, total))
	p.log.Info().Str("job_id", jobID).Str("status", string(status)).
		Int("analyzed", analyzed).Int("total", total).Msg("job finished")

	// Leave the stream open briefly so late subscribers still observe the
	// terminal event, then tear it down.
	time.AfterFunc(p.eventGrace, func() { p.bus.Close(jobID) })
}

func (p *Pipeline) skip(ctx context.Context, jobID string, r *model.Resume, reason string) {
	if err := p.resumes.MarkSkipped(ctx, nil, r.ID, reason); err != nil && !errors.Is(err, domain.ErrNotFound) {
		p.log.Error().Err(err).Str("resume_id", r.ID).Msg("could not mark resume skipped")
	}
	metrics.IncResumeProcessed(string(model.ResumeStatusSkipped))
	if reason != model.SkipReasonAnalysisFailed {
		p.bus.Publish(jobID, model.EventWarning, fmt.Sprintf("Skipped %s: %s", r.Filename, reason))
	}
}

// jobDeleted is the pipeline's existence check before writes: deleting a job
// while it is still running must stop further writes for that job id.
func (p *Pipeline) jobDeleted(ctx context.Context, jobID string) bool {
	_, err := p.jobs.FindByID(ctx, nil, jobID)
	return errors.Is(err, domain.ErrNotFound)
}

func (p *Pipeline) lookupCache(ctx context.Context, job *model.Job, r *model.Resume) (*adapter.EngineResult, error) {
	if p.cache == nil {
		return nil, nil
	}
	res, err := p.cache.Get(ctx, cacheKey(job.Description, r.ContentHash))
	if err != nil || res == nil {
		metrics.IncEngineCache("miss")
		return nil, nil // cache trouble is never fatal
	}
	metrics.IncEngineCache("hit")
	return res, nil
}

func (p *Pipeline) storeCache(ctx context.Context, job *model.Job, r *model.Resume, res *adapter.EngineResult) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Store(ctx, cacheKey(job.Description, r.ContentHash), res); err != nil {
		p.log.Debug().Err(err).Msg("analysis cache store failed")
	}
}

func cacheKey(description, contentHash string) string {
	sum := sha256.Sum256([]byte(description))
	return hex.EncodeToString(sum[:]) + ":" + contentHash
}
