package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/thonhub/thonhub/internal/client/api"
	"github.com/thonhub/thonhub/internal/client/models"
	"github.com/thonhub/thonhub/internal/common"
)

type ResumeService interface {
	// Upload sends a resume file and returns the server-side analysis.
	// progress follows the api.Pipeline.UploadFile contract and is closed
	// when Upload returns.
	Upload(ctx context.Context, filename string, r io.Reader, size int64, progress chan<- int) (*models.ResumeUpload, error)
	Analyze(ctx context.Context, text string) (*models.ResumeAnalysis, error)
}

type resumeService struct {
	api Requester
}

func NewResumeService(r Requester) ResumeService {
	return &resumeService{api: r}
}

func (s *resumeService) Upload(ctx context.Context, filename string, r io.Reader, size int64, progress chan<- int) (*models.ResumeUpload, error) {

	if !common.IsAllowedResume(filename) {
		if progress != nil {
			close(progress)
		}
		return nil, fmt.Errorf("%w: %s (allowed: %v)", common.ErrUnsupportedFile, filename, common.AllowedResumeExtensions)
	}

	resp, err := s.api.UploadFile(ctx, common.ResumeUploadPath, common.ResumeUploadField, filename, r, size, progress)
	if err != nil {
		return nil, err
	}

	var out models.ResumeUpload
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (s *resumeService) Analyze(ctx context.Context, text string) (*models.ResumeAnalysis, error) {
	req := &api.Request{Method: http.MethodPost, Path: common.ResumeAnalyzePath, JSON: analyzeRequest{Text: text}}

	var out models.ResumeAnalyzeResult
	if err := s.api.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Analysis, nil
}
