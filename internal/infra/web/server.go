package web

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"resume-screener/internal/config"
	"resume-screener/internal/infra/bus"
	"resume-screener/internal/usecase"
)

// SubmitLimiter is the per-client throttle on job submission.
type SubmitLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	jobUC       *usecase.JobUseCase
	interviewUC *usecase.InterviewUseCase
	feedbackUC  *usecase.FeedbackUseCase
	events      *bus.Bus
	limiter     SubmitLimiter // nil disables rate limiting
	upload      config.UploadConfig
	log         *zerolog.Logger
}

func NewServer(
	jobUC *usecase.JobUseCase,
	interviewUC *usecase.InterviewUseCase,
	feedbackUC *usecase.FeedbackUseCase,
	events *bus.Bus,
	limiter SubmitLimiter,
	upload config.UploadConfig,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		jobUC:       jobUC,
		interviewUC: interviewUC,
		feedbackUC:  feedbackUC,
		events:      events,
		limiter:     limiter,
		upload:      upload,
		log:         logger,
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(traceID)
	r.Use(requestLog(s.log))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)

		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleJobDetail)
		r.Delete("/jobs/{id}", s.handleDeleteJob)
		r.Get("/jobs/{id}/events", s.handleJobEvents)

		r.Post("/feedback", s.handleSubmitFeedback)
		r.Post("/override", s.handleSubmitOverride)
		r.Get("/feedback/stats", s.handleFeedbackStats)

		r.Get("/interviews", s.handleListInterviews)
		r.Post("/interviews", s.handleCreateInterview)
		r.Patch("/interviews/{id}", s.handleUpdateInterview)
	})

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
