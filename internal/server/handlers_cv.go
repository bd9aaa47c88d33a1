package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/samlatif/network/internal/cvdata"
	"github.com/samlatif/network/internal/cvfilter"
	"github.com/samlatif/network/internal/types"
)

// filterResponse is the page state after applying a filter request.
type filterResponse struct {
	Active    []string              `json:"active"`
	Banner    string                `json:"banner"`
	BestMatch *cvfilter.BestMatch   `json:"bestMatch"`
	Effect    cvfilter.Effect       `json:"effect"`
	Jobs      []cvfilter.JobState   `json:"jobs"`
	Skills    []cvfilter.SkillState `json:"skills"`
}

func (s *Server) loadCV(r *http.Request) (*cvdata.Payload, error) {
	username := r.PathValue("username")
	payload, err := s.cv.Build(r.Context(), username)
	if err != nil {
		return nil, fmt.Errorf("failed to build cv: %w", err)
	}
	if payload == nil {
		return nil, &ErrNotFound{Resource: "Profile"}
	}
	return payload, nil
}

// handleCV handles GET /api/cv/{username}
func (s *Server) handleCV(w http.ResponseWriter, r *http.Request) {
	payload, err := s.loadCV(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, payload)
}

// handleCVFilter handles GET /api/cv/{username}/filter. Tags are applied in
// order, then an optional tech-row click; the response is the resulting state.
func (s *Server) handleCVFilter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	category := types.CategoryAll
	if c := strings.TrimSpace(query.Get("category")); c != "" {
		category = types.SkillCategory(c)
		if !category.IsValid() {
			s.writeError(w, r, &ErrValidation{Field: "category", Message: fmt.Sprintf("Unknown category %q.", c)})
			return
		}
	}

	payload, err := s.loadCV(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctrl := cvfilter.NewController(s.engine, &payload.CVData)
	effect := ctrl.AddMany(cvfilter.CleanTags(query["tag"]))
	if row := query.Get("row"); row != "" {
		effect = ctrl.AddTechRow(row)
	}

	resp := filterResponse{
		Active: ctrl.Active(),
		Banner: ctrl.BannerLabel(),
		Effect: effect,
		Jobs:   ctrl.JobStates(),
		Skills: ctrl.SkillStates(category),
	}
	if resp.Active == nil {
		resp.Active = []string{}
	}
	if best, ok := ctrl.BestMatch(); ok {
		resp.BestMatch = &best
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
