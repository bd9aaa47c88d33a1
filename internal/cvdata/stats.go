package cvdata

import (
	"strconv"

	"github.com/samlatif/network/internal/types"
)

// DefaultOverviewStats is shown for the featured profile when neither the
// database nor the dataset provides overview stats.
var DefaultOverviewStats = []types.OverviewStat{
	{Value: "15+", Label: "Years Experience"},
	{Value: "25+", Label: "Client Engagements"},
	{Value: "5", Label: "Finance Institutions"},
	{Value: "MSc", Label: "1st Class BSc"},
}

// InferOverviewStats derives headline stats from the CV content. Years of
// experience is the largest tech-row years value, falling back to the number of
// roles when no row has one.
func InferOverviewStats(techRows []types.TechRow, jobs []types.Job, skills []types.SkillTag, testimonials []types.Testimonial) []types.OverviewStat {
	maxYears := 0
	for _, row := range techRows {
		maxYears = max(maxYears, row.YearsValue())
	}

	years := strconv.Itoa(len(jobs))
	if maxYears > 0 {
		years = strconv.Itoa(maxYears) + "+"
	}

	return []types.OverviewStat{
		{Value: years, Label: "Years Experience"},
		{Value: strconv.Itoa(len(jobs)), Label: "Roles Listed"},
		{Value: strconv.Itoa(len(skills)), Label: "Skills Tagged"},
		{Value: strconv.Itoa(len(PublicTestimonials(testimonials))), Label: "Recommendations"},
	}
}
