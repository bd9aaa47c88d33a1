package cvdata

import (
	"testing"
	"time"

	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestKnownCompanies(t *testing.T) {
	jobs := []types.Job{
		{Company: "Acme"},
		{Company: "Acme Corp"},
		{Company: "Globex"},
		{Company: "Acme"},
	}
	assert.Equal(t, []string{"Acme Corp", "Globex", "Acme"}, KnownCompanies(jobs))
}

func TestResolveJobCompany(t *testing.T) {
	known := KnownCompanies([]types.Job{{Company: "Acme"}, {Company: "Acme Corp"}, {Company: "Globex"}})

	tests := []struct {
		name string
		t    types.Testimonial
		want string
	}{
		{
			name: "explicit company wins",
			t:    types.Testimonial{JobCompany: "Initech", Relationship: "Manager at Acme"},
			want: "Initech",
		},
		{
			name: "longest company preferred",
			t:    types.Testimonial{Relationship: "Manager at Acme Corp"},
			want: "Acme Corp",
		},
		{
			name: "found in quote",
			t:    types.Testimonial{Relationship: "Colleague", Quote: "At Globex we shipped weekly."},
			want: "Globex",
		},
		{
			name: "no mention",
			t:    types.Testimonial{Relationship: "Colleague", Quote: "Great to work with."},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveJobCompany(tt.t, known))
		})
	}
}

func TestPublicTestimonials(t *testing.T) {
	all := []types.Testimonial{
		{By: "a", Visibility: types.VisibilityPublic},
		{By: "b", Visibility: types.VisibilityPrivate},
		{By: "c", Visibility: types.VisibilityPublic},
	}
	got := PublicTestimonials(all)
	assert.Len(t, got, 2)
	assert.Equal(t, "c", got[1].By)
}

func TestSplitRelationship(t *testing.T) {
	assert.Equal(t,
		RelationshipParts{Before: "Managed Sam at ", Company: "Acme", After: " for two years"},
		SplitRelationship("Managed Sam at Acme for two years", "Acme"))
	assert.Equal(t,
		RelationshipParts{Before: "Colleague"},
		SplitRelationship("Colleague", "Acme"))
	assert.Equal(t,
		RelationshipParts{Before: "Colleague"},
		SplitRelationship("Colleague", ""))
}

func TestTestimonialFromRecommendation(t *testing.T) {
	rec := db.Recommendation{
		RecommenderName:   "Ann",
		RecommenderRole:   "CTO",
		RelationshipLabel: "Managed directly",
		Content:           "Led the Globex migration.",
		RecommendationAt:  time.Date(2023, 5, 12, 22, 30, 0, 0, time.UTC),
		IsPublic:          false,
	}

	got := TestimonialFromRecommendation(rec, []string{"Globex"})

	assert.Equal(t, "2023-05-12", got.Date)
	assert.Equal(t, "Globex", got.JobCompany)
	assert.Equal(t, types.VisibilityPrivate, got.Visibility)
	assert.Equal(t, "Ann", got.By)
}
