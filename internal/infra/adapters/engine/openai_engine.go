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

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AnalysisEngine = (*OpenAIEngine)(nil)

// OpenAIEngine implements the analysis engine on the Chat Completions API
// with a JSON response format.
type OpenAIEngine struct {
	client     openai.Client
	model      string
	titleModel string
	trimmer    *tokenTrimmer
}

func NewOpenAIEngine(apiKey, model, titleModel string, maxPromptTokens int) (*OpenAIEngine, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o"
	}
	if titleModel == "" {
		titleModel = "gpt-4o-mini"
	}
	trimmer, err := newTokenTrimmer(maxPromptTokens)
	if err != nil {
		return nil, fmt.Errorf("token encoding: %w", err)
	}
	return &OpenAIEngine{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		model:      model,
		titleModel: titleModel,
		trimmer:    trimmer,
	}, nil
}

func (e *OpenAIEngine) Analyze(ctx context.Context, jobDescription, resumeText string) (*adapter.EngineResult, error) {
	prompt := buildAnalysisPrompt(jobDescription, e.trimmer.Trim(resumeText))

	start := time.Now()
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	latency := int(time.Since(start) / time.Millisecond)
	if err != nil {
		metrics.ObserveEngineCall("openai", e.model, latency, false)
		return nil, fmt.Errorf("%w: %v", domain.ErrEngineFailure, err)
	}
	metrics.ObserveEngineCall("openai", e.model, latency, true)

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choice content", domain.ErrEngineFailure)
	}
	return parseAnalysis(resp.Choices[0].Message.Content)
}

func (e *OpenAIEngine) ExtractJobTitle(ctx context.Context, jobDescription string) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.titleModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildTitlePrompt(jobDescription)),
		},
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(64),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEngineFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`), nil
}
