//go:build !integration

package web_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"resume-screener/internal/config"
	"resume-screener/internal/infra/bus"
	"resume-screener/internal/infra/web"
	"resume-screener/internal/usecase"
)

func TestRouter_LogsRequestWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	store := newMemStore()
	tm := &mockTxManager{}
	resumes := &memResumeRepo{s: store}
	jobUC := usecase.NewJobUseCase(&memJobRepo{s: store}, resumes, tm, nopDispatcher{}, bus.New(), newTestLogger())
	interviewUC := usecase.NewInterviewUseCase(&memInterviewRepo{s: store}, resumes, tm)
	feedbackUC := usecase.NewFeedbackUseCase(&memFeedbackRepo{s: store}, resumes, tm)

	srv := web.NewServer(jobUC, interviewUC, feedbackUC, bus.New(), nil, config.UploadConfig{
		MaxFileBytes: 1 << 20,
		MaxResumes:   5,
	}, &logger)
	router := srv.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
	out := buf.String()
	for _, want := range []string{`"message":"http_request"`, `"path":"/health"`, `"status":200`, `"trace_id":"`} {
		if !strings.Contains(out, want) {
			t.Errorf("request log missing %s: %s", want, out)
		}
	}

	// each request gets its own trace id
	buf.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	second := buf.String()
	if traceOf(t, out) == traceOf(t, second) {
		t.Error("trace id repeated across requests")
	}
}

func traceOf(t *testing.T, line string) string {
	t.Helper()
	const marker = `"trace_id":"`
	i := strings.Index(line, marker)
	if i < 0 {
		t.Fatalf("no trace_id in %s", line)
	}
	rest := line[i+len(marker):]
	return rest[:strings.Index(rest, `"`)]
}
