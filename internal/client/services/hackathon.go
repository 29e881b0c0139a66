package services

import (
	"context"
	"net/http"

	"github.com/thonhub/thonhub/internal/client/api"
	"github.com/thonhub/thonhub/internal/client/models"
	"github.com/thonhub/thonhub/internal/common"
)

type HackathonService interface {
	List(ctx context.Context) ([]*models.Hackathon, error)
}

type hackathonService struct {
	api Requester
}

func NewHackathonService(r Requester) HackathonService {
	return &hackathonService{api: r}
}

func (s *hackathonService) List(ctx context.Context) ([]*models.Hackathon, error) {
	var out models.HackathonList
	if err := s.api.DoJSON(ctx, &api.Request{Method: http.MethodGet, Path: common.HackathonsPath}, &out); err != nil {
		return nil, err
	}
	return out.Hackathons, nil
}
