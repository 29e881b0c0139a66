package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/server/models"
	"github.com/thonhub/thonhub/internal/server/services"
)

type orgList struct {
	Count         int                    `json:"count"`
	Organizations []*models.Organization `json:"organizations"`
}

type hackathonList struct {
	Count      int                 `json:"count"`
	Hackathons []*models.Hackathon `json:"hackathons"`
}

// parseOrgFilter reads is_verified, limit and skip. is_verified is true
// only for a case-insensitive "true"; any other present value means false.
func parseOrgFilter(r *http.Request) (models.OrgFilter, error) {
	q := r.URL.Query()
	f := models.OrgFilter{Limit: services.DefaultOrgLimit}

	if q.Has("is_verified") {
		v := strings.EqualFold(q.Get("is_verified"), "true")
		f.Verified = &v
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return f, common.Public(common.ErrValidation, "limit must be an integer")
		}
		f.Limit = n
	}
	if s := q.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return f, common.Public(common.ErrValidation, "skip must be an integer")
		}
		f.Skip = n
	}
	return f, nil
}

func (s *Server) listOrgs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrgFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	orgs, err := s.orgs.List(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orgList{Count: len(orgs), Organizations: orgs})
}

func (s *Server) getOrg(w http.ResponseWriter, r *http.Request) {
	org, err := s.orgs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (s *Server) getOrgBySlug(w http.ResponseWriter, r *http.Request) {
	org, err := s.orgs.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (s *Server) createOrg(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrgInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	org, err := s.orgs.Create(r.Context(), userIDFrom(r.Context()), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Organization created successfully",
		"organization": org,
	})
}

func (s *Server) updateOrg(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateOrgInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	org, err := s.orgs.Update(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Organization updated successfully",
		"organization": org,
	})
}

func (s *Server) deleteOrg(w http.ResponseWriter, r *http.Request) {
	if err := s.orgs.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Organization deleted successfully"})
}

func (s *Server) listOrgMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.orgs.Members(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) addOrgMember(w http.ResponseWriter, r *http.Request) {
	var in services.AddMemberInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	role, err := s.orgs.AddMember(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User added as " + role + " successfully"})
}

func (s *Server) removeOrgMember(w http.ResponseWriter, r *http.Request) {
	err := s.orgs.RemoveMember(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User removed successfully"})
}

func (s *Server) listHackathons(w http.ResponseWriter, r *http.Request) {
	hs, err := s.hackathons.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hackathonList{Count: len(hs), Hackathons: hs})
}
