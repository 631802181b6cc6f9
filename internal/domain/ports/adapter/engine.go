package adapter

import (
	"context"

	"resume-screener/internal/domain/model"
)

// EngineResult is the raw outcome of one engine call before persistence.
type EngineResult struct {
	CandidateName string
	Analysis      *model.Analysis
}

// AnalysisEngine scores one resume against a job description. Implementations
// are pure with respect to storage: they never touch repositories.
type AnalysisEngine interface {
	// Analyze returns a structured verdict, or an error wrapping
	// domain.ErrEngineFailure when the provider call or its output parsing
	// fails.
	Analyze(ctx context.Context, jobDescription, resumeText string) (*EngineResult, error)
	// ExtractJobTitle pulls the official title out of a job description.
	// Best effort; callers tolerate an empty result.
	ExtractJobTitle(ctx context.Context, jobDescription string) (string, error)
}
