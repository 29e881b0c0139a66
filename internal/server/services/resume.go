package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/filex"
	"github.com/thonhub/thonhub/internal/server/blob"
	"github.com/thonhub/thonhub/internal/server/models"
)

// ResumeService stores uploaded resumes and analyzes their text.
type ResumeService struct {
	store   blob.Store
	maxSize int64
}

func NewResumeService(store blob.Store, maxSize int64) *ResumeService {
	return &ResumeService{store: store, maxSize: maxSize}
}

// Upload validates filename, stores the content read from r and analyzes
// it. The stored name is filename reduced to a safe path segment.
func (s *ResumeService) Upload(ctx context.Context, filename string, r io.Reader) (*models.StoredResume, *models.ResumeAnalysis, error) {
	if filename == "" {
		return nil, nil, common.Public(common.ErrValidation, "No file selected")
	}
	if !common.IsAllowedResume(filename) {
		return nil, nil, common.Public(common.ErrUnsupportedFile, "Invalid file type")
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, nil, common.Public(common.ErrValidation, "File too large")
	}

	text, err := ExtractText(filename, data)
	if err != nil {
		if errors.Is(err, ErrUnreadableDocument) {
			return nil, nil, common.Public(common.ErrValidation, "Could not read resume: "+err.Error())
		}
		return nil, nil, err
	}

	key := blob.NewKey(filename)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, nil, fmt.Errorf("store resume: %w", err)
	}

	stored := &models.StoredResume{
		Key:      key,
		Filename: filex.SafeName(filename),
		Size:     int64(len(data)),
	}
	if u, err := s.store.URL(ctx, key); err == nil {
		stored.URL = u
	}

	return stored, AnalyzeText(text), nil
}

func (s *ResumeService) Analyze(text string) *models.ResumeAnalysis {
	return AnalyzeText(text)
}
