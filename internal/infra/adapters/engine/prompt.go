package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/model"
	"resume-screener/internal/domain/ports/adapter"

	"github.com/pkoukk/tiktoken-go"
)

const systemPrompt = "You are a talent acquisition assistant that returns analysis " +
	"in a structured JSON format according to the user's schema."

const analysisPromptTmpl = `You are an expert talent acquisition specialist with a keen eye for technical and professional roles.
Analyze the following resume against the provided job description and return a JSON object that strictly follows the specified schema.

Your entire response MUST be a single JSON object with this structure:
{
  "candidate_name": "Full name extracted from the resume, or 'Name Not Found'.",
  "fit_score": <integer 0-100, overall fit for the role>,
  "bucket": "One of exactly: 'Fast Track' (strong hire, 80+), 'Review' (potential but with gaps, 60-79), 'Reject' (not a fit, <60)",
  "confidence": <number 0-1, how confident you are in the verdict>,
  "reasoning": "A concise one-sentence explanation for the bucket and score.",
  "summary_points": ["2-3 bullet points on key strengths relevant to the job"],
  "skill_matrix": {
    "matches": ["skills from the job description the candidate demonstrably has"],
    "gaps": ["critical skills from the job description that appear missing"]
  },
  "timeline": [{"period": "e.g. 2022-Now", "role": "e.g. Sr. ML Eng, Acme AI", "details": "brief accomplishment summary"}],
  "logistics": {
    "compensation": "desired compensation or 'Not specified'",
    "notice_period": "notice period or 'Not specified'",
    "work_authorization": "work authorization or 'Not specified'",
    "location": "location or relocation preference or 'Not specified'"
  }
}

---
Job Description:
%s
---
Resume:
%s
---`

const titlePromptTmpl = `Extract the official job title from the following job description.
Return only the job title and nothing else.

Job Description:
%s
---
Job Title:`

func buildAnalysisPrompt(jobDescription, resumeText string) string {
	return fmt.Sprintf(analysisPromptTmpl, jobDescription, resumeText)
}

func buildTitlePrompt(jobDescription string) string {
	return fmt.Sprintf(titlePromptTmpl, jobDescription)
}

// tokenTrimmer caps resume text at the configured prompt budget so one
// oversized document cannot blow the provider's context window.
type tokenTrimmer struct {
	enc *tiktoken.Tiktoken
	max int
}

func newTokenTrimmer(maxTokens int) (*tokenTrimmer, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &tokenTrimmer{enc: enc, max: maxTokens}, nil
}

func (t *tokenTrimmer) Trim(text string) string {
	toks := t.enc.Encode(text, nil, nil)
	if len(toks) <= t.max {
		return text
	}
	return t.enc.Decode(toks[:t.max])
}

// analysisPayload mirrors the JSON schema the prompt demands.
type analysisPayload struct {
	CandidateName string                `json:"candidate_name"`
	FitScore      int                   `json:"fit_score"`
	Bucket        string                `json:"bucket"`
	Confidence    float64               `json:"confidence"`
	Reasoning     string                `json:"reasoning"`
	SummaryPoints []string              `json:"summary_points"`
	SkillMatrix   model.SkillMatrix     `json:"skill_matrix"`
	Timeline      []model.TimelineEntry `json:"timeline"`
	Logistics     model.Logistics       `json:"logistics"`
}

// parseAnalysis validates and normalizes raw model output. Malformed output
// is an engine failure; the pipeline skips the resume and continues.
func parseAnalysis(raw string) (*adapter.EngineResult, error) {
	raw = stripFences(raw)

	var p analysisPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: malformed engine output: %v", domain.ErrEngineFailure, err)
	}

	if p.FitScore < 0 {
		p.FitScore = 0
	}
	if p.FitScore > 100 {
		p.FitScore = 100
	}
	bucket, ok := model.ParseBucket(strings.TrimSpace(p.Bucket))
	if !ok {
		bucket = bucketForScore(p.FitScore)
	}

	name := strings.TrimSpace(p.CandidateName)
	if strings.EqualFold(name, "Name Not Found") {
		name = ""
	}

	return &adapter.EngineResult{
		CandidateName: name,
		Analysis: &model.Analysis{
			FitScore:      p.FitScore,
			Bucket:        bucket,
			Confidence:    p.Confidence,
			Reasoning:     p.Reasoning,
			SummaryPoints: p.SummaryPoints,
			SkillMatrix:   p.SkillMatrix,
			Timeline:      p.Timeline,
			Logistics:     p.Logistics,
			CreatedAt:     time.Now().UTC(),
		},
	}, nil
}

func bucketForScore(score int) model.Bucket {
	switch {
	case score >= 80:
		return model.BucketFastTrack
	case score >= 60:
		return model.BucketReview
	default:
		return model.BucketReject
	}
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
