package engine

import (
	"context"
	"crypto/sha256"
	"strings"
	"time"

	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/adapter"
)

var _ adapter.AnalysisEngine = (*NoopEngine)(nil)

// NoopEngine implements the engine port for local/dev runs. It produces a
// deterministic score derived from the resume text instead of calling a
// real provider, so the rest of the system can be exercised offline.
type NoopEngine struct{}

func NewNoopEngine() *NoopEngine { return &NoopEngine{} }

func (e *NoopEngine) Analyze(ctx context.Context, jobDescription, resumeText string) (*adapter.EngineResult, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	sum := sha256.Sum256([]byte(resumeText))
	score := int(sum[0]) * 100 / 255

	return &adapter.EngineResult{
		CandidateName: firstLine(resumeText),
		Analysis: &model.Analysis{
			FitScore:      score,
			Bucket:        bucketForScore(score),
			Confidence:    0.5,
			Reasoning:     "Deterministic dev-mode verdict, no provider was called.",
			SummaryPoints: []string{"dev-mode analysis"},
			SkillMatrix:   model.SkillMatrix{Matches: []string{}, Gaps: []string{}},
			Logistics:     model.Logistics{},
			CreatedAt:     time.Now().UTC(),
		},
	}, nil
}

func (e *NoopEngine) ExtractJobTitle(ctx context.Context, jobDescription string) (string, error) {
	return firstLine(jobDescription), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i > 0 {
		s = s[:i]
	}
	if len(s) > 80 {
		s = s[:80]
	}
	return strings.TrimSpace(s)
}
