package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-screener/internal/domain"
	"resume-screener/internal/domain/ports/adapter"
	"resume-screener/internal/infra/metrics"

	"google.golang.org/genai"
)

var _ adapter.AnalysisEngine = (*GeminiEngine)(nil)

// GeminiEngine implements the analysis engine using the official SDK.
type GeminiEngine struct {
	client  *genai.Client
	model   string
	trimmer *tokenTrimmer
}

func NewGeminiEngine(ctx context.Context, apiKey, baseURL, model string, maxPromptTokens int) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	trimmer, err := newTokenTrimmer(maxPromptTokens)
	if err != nil {
		return nil, fmt.Errorf("token encoding: %w", err)
	}
	return &GeminiEngine{client: c, model: model, trimmer: trimmer}, nil
}

func (g *GeminiEngine) Analyze(ctx context.Context, jobDescription, resumeText string) (*adapter.EngineResult, error) {
	prompt := buildAnalysisPrompt(jobDescription, g.trimmer.Trim(resumeText))

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	latency := int(time.Since(start) / time.Millisecond)
	if err != nil {
		metrics.ObserveEngineCall("gemini", g.model, latency, false)
		return nil, fmt.Errorf("%w: %v", domain.ErrEngineFailure, err)
	}
	metrics.ObserveEngineCall("gemini", g.model, latency, true)

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrEngineFailure)
	}
	return parseAnalysis(text)
}

func (g *GeminiEngine) ExtractJobTitle(ctx context.Context, jobDescription string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildTitlePrompt(jobDescription)), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEngineFailure, err)
	}
	return strings.Trim(strings.TrimSpace(resp.Text()), `"`), nil
}
