package server

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/types"
	"golang.org/x/sync/errgroup"
)

var digitRun = regexp.MustCompile(`\d+`)

// handleListProfiles handles GET /api/profiles
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list profiles: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// handleGetProfile handles GET /api/profiles/{username}
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to get user: %w", err))
		return
	}
	if user == nil {
		s.writeError(w, r, &ErrUserNotFound{Username: username})
		return
	}

	var (
		posts  []db.Post
		counts *db.ProfileCounts
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		posts, err = s.store.ListPostsByAuthor(ctx, user.ID, db.ProfilePostLimit)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.store.GetProfileCounts(ctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, r, fmt.Errorf("failed to load profile %s: %w", username, err))
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user":   user,
		"posts":  posts,
		"counts": counts,
	})
}

// profileOwner returns the current user when it owns the profile in the path.
func (s *Server) profileOwner(r *http.Request, section string) (*db.User, error) {
	user, err := s.currentUser(r)
	if err != nil {
		return nil, err
	}
	if user.Username != r.PathValue("username") {
		return nil, &ErrForbidden{Message: fmt.Sprintf("You can only edit your own %s.", section)}
	}
	return user, nil
}

// handleUpdateTechRows handles PATCH /api/profiles/{username}/tech-rows
func (s *Server) handleUpdateTechRows(w http.ResponseWriter, r *http.Request) {
	user, err := s.profileOwner(r, "tech skills")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.TechRowsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rows := normalizeTechRows(req.TechRows)
	if len(rows) == 0 {
		s.writeError(w, r, &ErrValidation{Field: "techRows", Message: "At least one valid tech skills row is required."})
		return
	}

	if err := s.store.ReplaceTechRows(r.Context(), user.ID, rows); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"techRows": rows})
}

// handleUpdateOverviewStats handles PATCH /api/profiles/{username}/overview-stats
func (s *Server) handleUpdateOverviewStats(w http.ResponseWriter, r *http.Request) {
	user, err := s.profileOwner(r, "overview stats")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.OverviewStatsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	stats := normalizeOverviewStats(req.OverviewStats)
	if len(stats) == 0 {
		s.writeError(w, r, &ErrValidation{Field: "overviewStats", Message: "At least one valid overview stat is required."})
		return
	}

	if err := s.store.ReplaceOverviewStats(r.Context(), user.ID, stats); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"overviewStats": stats})
}

// handleUpdateEducation handles PATCH /api/profiles/{username}/education
func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	user, err := s.profileOwner(r, "education")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.EducationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	entries := normalizeEducation(req.Education)
	if len(entries) == 0 {
		s.writeError(w, r, &ErrValidation{Field: "education", Message: "At least one valid education entry is required."})
		return
	}

	if err := s.store.ReplaceEducation(r.Context(), user.ID, entries); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"education": entries})
}

// normalizeTechRows trims every field and reduces years to its first run of
// digits. Rows missing a field are dropped.
func normalizeTechRows(in []types.TechRow) []types.TechRow {
	out := make([]types.TechRow, 0, len(in))
	for _, row := range in {
		row = types.TechRow{
			Category: strings.TrimSpace(row.Category),
			Items:    strings.TrimSpace(row.Items),
			Years:    digitRun.FindString(row.Years),
		}
		if row.Category == "" || row.Items == "" || row.Years == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

func normalizeOverviewStats(in []types.OverviewStat) []types.OverviewStat {
	out := make([]types.OverviewStat, 0, len(in))
	for _, stat := range in {
		stat = types.OverviewStat{
			Value: strings.TrimSpace(stat.Value),
			Label: strings.TrimSpace(stat.Label),
		}
		if stat.Value == "" || stat.Label == "" {
			continue
		}
		out = append(out, stat)
	}
	return out
}

func normalizeEducation(in []types.EducationEntry) []types.EducationEntry {
	out := make([]types.EducationEntry, 0, len(in))
	for _, e := range in {
		e = types.EducationEntry{
			Degree:      strings.TrimSpace(e.Degree),
			Institution: strings.TrimSpace(e.Institution),
			Period:      strings.TrimSpace(e.Period),
			Grade:       strings.TrimSpace(e.Grade),
			Note:        strings.TrimSpace(e.Note),
		}
		if e.Degree == "" || e.Institution == "" || e.Period == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}
