package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/server/models"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file size limit.
const multipartOverhead = 64 << 10

type resumeUploadResponse struct {
	Success  bool                   `json:"success"`
	Filename string                 `json:"filename"`
	Analysis *models.ResumeAnalysis `json:"analysis"`
}

type resumeAnalyzeRequest struct {
	Text string `json:"text"`
}

type resumeAnalyzeResponse struct {
	Success  bool                   `json:"success"`
	Analysis *models.ResumeAnalysis `json:"analysis"`
}

func (s *Server) uploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		s.metrics.uploads.WithLabelValues("rejected").Inc()
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			s.metrics.uploads.WithLabelValues("rejected").Inc()
			writeError(w, http.StatusBadRequest, "No file provided")
			return
		}
		if err != nil {
			s.uploadFailed(w, r, err)
			return
		}
		if part.FormName() != common.ResumeUploadField {
			_ = part.Close()
			continue
		}

		stored, analysis, err := s.resume.Upload(r.Context(), part.FileName(), part)
		_ = part.Close()
		if err != nil {
			s.uploadFailed(w, r, err)
			return
		}

		s.metrics.uploads.WithLabelValues("ok").Inc()
		s.logger.Info(r.Context(), "resume stored", "key", stored.Key, "size", stored.Size, "user", userIDFrom(r.Context()))
		writeJSON(w, http.StatusOK, resumeUploadResponse{
			Success:  true,
			Filename: stored.Filename,
			Analysis: analysis,
		})
		return
	}
}

func (s *Server) uploadFailed(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.uploads.WithLabelValues("rejected").Inc()
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	s.fail(w, r, err)
}

func (s *Server) analyzeResume(w http.ResponseWriter, r *http.Request) {
	var req resumeAnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resumeAnalyzeResponse{
		Success:  true,
		Analysis: s.resume.Analyze(req.Text),
	})
}
