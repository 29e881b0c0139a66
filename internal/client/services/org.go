package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/thonhub/thonhub/internal/client/api"
	"github.com/thonhub/thonhub/internal/client/models"
	"github.com/thonhub/thonhub/internal/common"
)

// ListOrgsParams filters GET /api/orgs. Zero values are omitted.
type ListOrgsParams struct {
	Verified *bool
	Limit    int
	Skip     int
}

func (p ListOrgsParams) query() url.Values {
	q := url.Values{}
	if p.Verified != nil {
		q.Set("is_verified", strconv.FormatBool(*p.Verified))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	return q
}

type OrgService interface {
	List(ctx context.Context, params ListOrgsParams) (*models.OrganizationList, error)
	Get(ctx context.Context, id string) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	Create(ctx context.Context, in models.CreateOrganization) (*models.Organization, error)
	// Update changes the fields set in in; Replace sends the same body with
	// PUT. Only the owner and admins may do either.
	Update(ctx context.Context, id string, in models.UpdateOrganization) (*models.Organization, error)
	Replace(ctx context.Context, id string, in models.UpdateOrganization) (*models.Organization, error)
	// Delete removes the organization. Only its owner may.
	Delete(ctx context.Context, id string) (string, error)
	Members(ctx context.Context, id string) (*models.OrgMembers, error)
	AddMember(ctx context.Context, id string, in models.AddMember) (string, error)
	RemoveMember(ctx context.Context, id, userID string) (string, error)
}

type orgService struct {
	api Requester
}

func NewOrgService(r Requester) OrgService {
	return &orgService{api: r}
}

func (s *orgService) List(ctx context.Context, params ListOrgsParams) (*models.OrganizationList, error) {
	var out models.OrganizationList
	req := &api.Request{Method: http.MethodGet, Path: common.OrgsPath, Query: params.query()}
	if err := s.api.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *orgService) Get(ctx context.Context, id string) (*models.Organization, error) {
	return s.get(ctx, common.OrgsPath+"/"+url.PathEscape(id))
}

func (s *orgService) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	return s.get(ctx, common.OrgsPath+"/slug/"+url.PathEscape(slug))
}

func (s *orgService) get(ctx context.Context, path string) (*models.Organization, error) {
	var out models.Organization
	if err := s.api.DoJSON(ctx, &api.Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *orgService) Create(ctx context.Context, in models.CreateOrganization) (*models.Organization, error) {

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: organization name is required", common.ErrValidation)
	}
	if in.Email == "" {
		return nil, fmt.Errorf("%w: organization email is required", common.ErrValidation)
	}

	var out models.OrganizationCreated
	if err := s.api.DoJSON(ctx, &api.Request{Method: http.MethodPost, Path: common.OrgsPath, JSON: in}, &out); err != nil {
		return nil, err
	}
	return out.Organization, nil
}

func orgPath(id string) string {
	return common.OrgsPath + "/" + url.PathEscape(id)
}

func (s *orgService) Update(ctx context.Context, id string, in models.UpdateOrganization) (*models.Organization, error) {
	return s.update(ctx, id, in, s.api.Patch)
}

func (s *orgService) Replace(ctx context.Context, id string, in models.UpdateOrganization) (*models.Organization, error) {
	return s.update(ctx, id, in, s.api.Put)
}

type sendFunc func(ctx context.Context, path string, body any) (*api.Response, error)

func (s *orgService) update(ctx context.Context, id string, in models.UpdateOrganization, send sendFunc) (*models.Organization, error) {

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: organization name cannot be empty", common.ErrValidation)
	}

	resp, err := send(ctx, orgPath(id), in)
	if err != nil {
		return nil, err
	}
	var out models.OrganizationUpdated
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out.Organization, nil
}

func (s *orgService) Delete(ctx context.Context, id string) (string, error) {
	resp, err := s.api.Delete(ctx, orgPath(id))
	return message(resp, err)
}

func (s *orgService) Members(ctx context.Context, id string) (*models.OrgMembers, error) {
	var out models.OrgMembers
	if err := s.api.DoJSON(ctx, &api.Request{Method: http.MethodGet, Path: orgPath(id) + "/members"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *orgService) AddMember(ctx context.Context, id string, in models.AddMember) (string, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		return "", fmt.Errorf("%w: user id is required", common.ErrValidation)
	}

	var out models.Message
	req := &api.Request{Method: http.MethodPost, Path: orgPath(id) + "/members", JSON: in}
	if err := s.api.DoJSON(ctx, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (s *orgService) RemoveMember(ctx context.Context, id, userID string) (string, error) {
	resp, err := s.api.Delete(ctx, orgPath(id)+"/members/"+url.PathEscape(userID))
	return message(resp, err)
}

func message(resp *api.Response, err error) (string, error) {
	if err != nil {
		return "", err
	}
	var out models.Message
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	return out.Message, nil
}
