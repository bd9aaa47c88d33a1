package cvfilter

import (
	"regexp"
	"slices"
	"strconv"

	"github.com/samlatif/network/internal/types"
)

const (
	javaScriptTag = "JavaScript"
	javaScriptES5 = "JavaScript (ES5)"
	javaScriptES6 = "JavaScript (ES6+)"

	// es6Year is the first start year credited with ES6+ JavaScript.
	es6Year = 2015
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// StartYear returns the first four-digit year in a date range.
func StartYear(dateRange string) (int, bool) {
	m := yearPattern.FindString(dateRange)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return year, true
}

// JavaScriptVersion returns the versioned JavaScript tag for a job start year.
// Unknown years get the ES6+ variant.
func JavaScriptVersion(startYear int, known bool) string {
	if known && startYear < es6Year {
		return javaScriptES5
	}
	return javaScriptES6
}

// Rules are the stack inference tables of a dataset.
type Rules struct {
	GlobalDefaults []string
	DateDefaults   []types.DateBasedStackDefault
}

// RulesFrom extracts the inference tables from a dataset.
func RulesFrom(data *types.CVData) Rules {
	if data == nil {
		return Rules{}
	}
	return Rules{
		GlobalDefaults: data.GlobalStackDefaults,
		DateDefaults:   data.DateBasedStackDefaults,
	}
}

// Enrich returns the job's stack with implied tags. A literal "JavaScript" entry
// is replaced with its versioned form, then global defaults and any date-ranged
// defaults covering the start year are prepended when absent. The job is not modified.
func (r Rules) Enrich(job types.Job) []string {
	year, known := StartYear(job.DateRange)

	stack := make([]string, len(job.Stack))
	for i, skill := range job.Stack {
		if skill == javaScriptTag {
			skill = JavaScriptVersion(year, known)
		}
		stack[i] = skill
	}

	for _, skill := range r.GlobalDefaults {
		stack = prependMissing(stack, skill)
	}

	if !known {
		return stack
	}

	for _, rule := range r.DateDefaults {
		if rule.Contains(year) {
			stack = prependMissing(stack, rule.Skill)
		}
	}
	return stack
}

func prependMissing(stack []string, skill string) []string {
	if slices.Contains(stack, skill) {
		return stack
	}
	return append([]string{skill}, stack...)
}
