package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"resume-screener/internal/domain"
	"resume-screener/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain sentinels onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrActiveInterview):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: err.Error()})
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type analyzeResponse struct {
	JobID        string   `json:"job_id"`
	TotalResumes int      `json:"total_resumes"`
	SkippedFiles []string `json:"skipped_files"`
}

// handleAnalyze accepts a multipart submission and acknowledges before any
// analysis work happens. Files that cannot even be read off the wire are
// reported back in skipped_files; everything else is judged by the pipeline.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.limiter != nil {
		key := "submit:" + clientIP(r)
		ok, err := s.limiter.Allow(ctx, key, s.upload.SubmitPerMinute, time.Minute)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		} else if !ok {
			s.writeError(w, domain.ErrRateLimited)
			return
		}
	}

	if err := r.ParseMultipartForm(s.upload.MaxFileBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	description := r.FormValue("job_description")
	if description == "" {
		if fh := firstFile(r, "job_description_file"); fh != nil {
			data, err := readUpload(fh, s.upload.MaxFileBytes)
			if err == nil {
				description = string(data)
			}
		}
	}

	files := r.MultipartForm.File["resumes"]
	if len(files) > s.upload.MaxResumes {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "too many resume files"})
		return
	}

	var (
		submitted []usecase.SubmittedFile
		skipped   []string
	)
	for _, fh := range files {
		data, err := readUpload(fh, s.upload.MaxFileBytes)
		if err != nil {
			skipped = append(skipped, fh.Filename)
			continue
		}
		submitted = append(submitted, usecase.SubmittedFile{Filename: fh.Filename, Data: data})
	}

	job, err := s.jobUC.Submit(ctx, description, submitted)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if skipped == nil {
		skipped = []string{}
	}
	writeJSON(w, http.StatusAccepted, analyzeResponse{
		JobID:        job.ID,
		TotalResumes: len(job.Resumes),
		SkippedFiles: skipped,
	})
}

func firstFile(r *http.Request, field string) *multipart.FileHeader {
	if fhs := r.MultipartForm.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

func readUpload(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if fh.Size > maxBytes {
		return nil, errors.New("file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxBytes))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobUC.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

func (s *Server) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobUC.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	removed, err := s.jobUC.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted_resumes": removed})
}

type feedbackRequest struct {
	ResumeID        string `json:"resume_id"`
	FeedbackType    string `json:"feedback_type"`
	FeedbackText    string `json:"feedback_text"`
	SuggestedBucket string `json:"suggested_bucket"`
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	entry, err := s.feedbackUC.SubmitFeedback(r.Context(), req.ResumeID, req.FeedbackType, req.FeedbackText, req.SuggestedBucket)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

type overrideRequest struct {
	ResumeID  string `json:"resume_id"`
	NewBucket string `json:"new_bucket"`
	Reason    string `json:"reason"`
}

func (s *Server) handleSubmitOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	entry, err := s.feedbackUC.SubmitOverride(r.Context(), req.ResumeID, req.NewBucket, req.Reason)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleFeedbackStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.feedbackUC.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type interviewCreateRequest struct {
	ResumeID               string   `json:"resume_id"`
	Title                  string   `json:"title"`
	InterviewType          string   `json:"interview_type"`
	ScheduledAt            string   `json:"scheduled_at"`
	Timezone               string   `json:"timezone"`
	DurationMinutes        int      `json:"duration_minutes"`
	Location               string   `json:"location"`
	VideoLink              string   `json:"video_link"`
	PrimaryInterviewer     string   `json:"primary_interviewer"`
	AdditionalInterviewers []string `json:"additional_interviewers"`
	PreInterviewNotes      string   `json:"pre_interview_notes"`
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req interviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	iv, err := s.interviewUC.Create(r.Context(), usecase.CreateInterviewInput{
		ResumeID:               req.ResumeID,
		Title:                  req.Title,
		Type:                   req.InterviewType,
		ScheduledAt:            req.ScheduledAt,
		Timezone:               req.Timezone,
		DurationMinutes:        req.DurationMinutes,
		Location:               req.Location,
		VideoLink:              req.VideoLink,
		PrimaryInterviewer:     req.PrimaryInterviewer,
		AdditionalInterviewers: req.AdditionalInterviewers,
		PreInterviewNotes:      req.PreInterviewNotes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, iv)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ivs, err := s.interviewUC.List(r.Context(), q.Get("status"), q.Get("type"), q.Get("job_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"interviews": ivs})
}

type interviewUpdateRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateInterview(w http.ResponseWriter, r *http.Request) {
	var req interviewUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	iv, err := s.interviewUC.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
