package cvdata

import (
	"slices"
	"strings"

	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/types"
)

// KnownCompanies returns the distinct job companies, longest name first, so
// that "Acme Corp" is tried before "Acme".
func KnownCompanies(jobs []types.Job) []string {
	companies := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if job.Company != "" && !slices.Contains(companies, job.Company) {
			companies = append(companies, job.Company)
		}
	}
	slices.SortStableFunc(companies, func(a, b string) int {
		return len(b) - len(a)
	})
	return companies
}

// ResolveJobCompany returns the job a testimonial refers to: the explicit
// JobCompany if set, otherwise the first known company mentioned in the
// relationship label or the quote. It returns "" when nothing matches.
func ResolveJobCompany(t types.Testimonial, known []string) string {
	if t.JobCompany != "" {
		return t.JobCompany
	}
	return inferCompany(t.Relationship, t.Quote, known)
}

func inferCompany(relationship, quote string, known []string) string {
	haystack := relationship + " " + quote
	for _, company := range known {
		if strings.Contains(haystack, company) {
			return company
		}
	}
	return ""
}

// PublicTestimonials filters out private testimonials.
func PublicTestimonials(testimonials []types.Testimonial) []types.Testimonial {
	out := make([]types.Testimonial, 0, len(testimonials))
	for _, t := range testimonials {
		if t.Visibility == types.VisibilityPublic {
			out = append(out, t)
		}
	}
	return out
}

// RelationshipParts splits a relationship label around a company mention so
// the company can be rendered as a link to its job.
type RelationshipParts struct {
	Before  string `json:"before"`
	Company string `json:"company"`
	After   string `json:"after"`
}

// SplitRelationship splits relationship around the first occurrence of company.
// If company is empty or absent the whole label is returned in Before.
func SplitRelationship(relationship, company string) RelationshipParts {
	if company == "" {
		return RelationshipParts{Before: relationship}
	}
	before, after, found := strings.Cut(relationship, company)
	if !found {
		return RelationshipParts{Before: relationship}
	}
	return RelationshipParts{Before: before, Company: company, After: after}
}

// TestimonialFromRecommendation converts a stored recommendation into a
// testimonial, inferring the job company from known.
func TestimonialFromRecommendation(r db.Recommendation, known []string) types.Testimonial {
	visibility := types.VisibilityPrivate
	if r.IsPublic {
		visibility = types.VisibilityPublic
	}
	return types.Testimonial{
		By:           r.RecommenderName,
		Role:         r.RecommenderRole,
		Date:         r.RecommendationAt.UTC().Format("2006-01-02"),
		JobCompany:   inferCompany(r.RelationshipLabel, r.Content, known),
		Relationship: r.RelationshipLabel,
		Quote:        r.Content,
		Visibility:   visibility,
	}
}
