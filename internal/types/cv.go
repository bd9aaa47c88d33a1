// Package types provides type definitions for structured data used throughout the network service.
package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SkillCategory partitions the stack-tag browsing UI.
type SkillCategory string

// Skill categories, in display order
const (
	CategoryCore    SkillCategory = "core"
	CategoryState   SkillCategory = "state"
	CategoryTesting SkillCategory = "testing"
	CategoryUI      SkillCategory = "ui"
	CategoryTooling SkillCategory = "tooling"
	CategoryCMS     SkillCategory = "cms"

	// CategoryAll is the pseudo-category that shows every tag.
	CategoryAll SkillCategory = "all"
)

// SkillCategories returns the real categories in display order.
func SkillCategories() []SkillCategory {
	return []SkillCategory{CategoryCore, CategoryState, CategoryTesting, CategoryUI, CategoryTooling, CategoryCMS}
}

// IsValid reports whether c is a known category (CategoryAll included).
func (c SkillCategory) IsValid() bool {
	if c == CategoryAll {
		return true
	}
	for _, known := range SkillCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryLabel returns the human label for a category.
func CategoryLabel(c SkillCategory) string {
	switch c {
	case CategoryUI:
		return "UI & Design"
	case CategoryCMS:
		return "CMS / Other"
	case "":
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// SkillTag is a canonical technology name used for filtering.
type SkillTag struct {
	Name     string        `json:"n" yaml:"n"`
	Category SkillCategory `json:"c" yaml:"c"`
}

// TechRow is one row of the technical skills table. Items is a free-text,
// comma-separated list where commas inside parentheses do not separate items.
type TechRow struct {
	Category string `json:"cat" yaml:"cat"`
	Items    string `json:"items" yaml:"items"`
	Years    string `json:"yrs" yaml:"yrs"`
}

var firstNumber = regexp.MustCompile(`\d+`)

// maxBarYears is the number of years that fills the experience bar.
const maxBarYears = 15

// FirstInt returns the first run of digits in s as an int, or 0 when there is none.
func FirstInt(s string) int {
	m := firstNumber.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// YearsValue returns the numeric years of the row, or 0 if Years has no digits.
func (r TechRow) YearsValue() int {
	return FirstInt(r.Years)
}

// BarPercent returns the width of the experience bar as a percentage (0-100).
func (r TechRow) BarPercent() int {
	return min(100, r.YearsValue()*100/maxBarYears)
}

// Job is one entry of the experience timeline. Stack holds raw skill names as authored.
type Job struct {
	Company     string   `json:"co" yaml:"co"`
	DateRange   string   `json:"date" yaml:"date"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"desc" yaml:"desc"`
	Bullets     []string `json:"bullets" yaml:"bullets"`
	Stack       []string `json:"stack" yaml:"stack"`
}

// JobKey identifies a job. (Company, DateRange) is assumed unique within a dataset.
type JobKey struct {
	Company   string `json:"company"`
	DateRange string `json:"date"`
}

// Key returns the identity of the job.
func (j Job) Key() JobKey {
	return JobKey{Company: j.Company, DateRange: j.DateRange}
}

// Slug returns the company anchor of the job card. It is not unique when a
// dataset lists several jobs at one company; use JobSlugs for that.
func (k JobKey) Slug() string {
	return CompanyKey(k.Company)
}

// JobSlugs returns a unique anchor per job, in dataset order. The first job at
// a company keeps the company anchor; later ones get the date range appended.
func JobSlugs(jobs []Job) []string {
	slugs := make([]string, len(jobs))
	seen := make(map[string]bool, len(jobs))
	for i, job := range jobs {
		slug := job.Key().Slug()
		if seen[slug] {
			slug = CompanyKey(job.Company + " " + job.DateRange)
			for n := 2; seen[slug]; n++ {
				slug = fmt.Sprintf("%s-%d", CompanyKey(job.Company+" "+job.DateRange), n)
			}
		}
		seen[slug] = true
		slugs[i] = slug
	}
	return slugs
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// CompanyKey converts a company name to a URL/anchor safe key,
// e.g. "AT&T Labs" becomes "at-and-t-labs".
func CompanyKey(company string) string {
	key := strings.ToLower(company)
	key = strings.ReplaceAll(key, "&", " and ")
	key = nonSlugChars.ReplaceAllString(key, "-")
	return strings.Trim(key, "-")
}

// DateBasedStackDefault implies Skill on every job whose start year falls
// within [MinStartYear, MaxStartYear]. A nil bound is unbounded.
type DateBasedStackDefault struct {
	Skill        string `json:"skill" yaml:"skill"`
	MinStartYear *int   `json:"minStartYear,omitempty" yaml:"minStartYear,omitempty"`
	MaxStartYear *int   `json:"maxStartYear,omitempty" yaml:"maxStartYear,omitempty"`
}

// Contains reports whether year lies within the rule's bounds.
func (d DateBasedStackDefault) Contains(year int) bool {
	if d.MinStartYear != nil && year < *d.MinStartYear {
		return false
	}
	if d.MaxStartYear != nil && year > *d.MaxStartYear {
		return false
	}
	return true
}

// Visibility of a testimonial
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Testimonial is a recommendation shown on the CV. JobCompany is optional and,
// when absent, is inferred from the relationship label and quote.
type Testimonial struct {
	By           string     `json:"by" yaml:"by"`
	Role         string     `json:"role" yaml:"role"`
	Date         string     `json:"date" yaml:"date"`
	JobCompany   string     `json:"jobCompany,omitempty" yaml:"jobCompany,omitempty"`
	Relationship string     `json:"relationship" yaml:"relationship"`
	Quote        string     `json:"quote" yaml:"quote"`
	Visibility   Visibility `json:"visibility" yaml:"visibility"`
}

// OverviewStat is a headline number on the CV overview.
type OverviewStat struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// EducationEntry is one education record.
type EducationEntry struct {
	Degree      string `json:"degree" yaml:"degree"`
	Institution string `json:"institution" yaml:"institution"`
	Period      string `json:"period" yaml:"period"`
	Grade       string `json:"grade" yaml:"grade"`
	Note        string `json:"note" yaml:"note"`
}

// CVData is the full résumé dataset consumed by the filtering engine.
type CVData struct {
	OverviewStats          []OverviewStat          `json:"OVERVIEW_STATS,omitempty" yaml:"OVERVIEW_STATS,omitempty"`
	Education              []EducationEntry        `json:"EDUCATION,omitempty" yaml:"EDUCATION,omitempty"`
	Summary                []string                `json:"SUMMARY,omitempty" yaml:"SUMMARY,omitempty"`
	TechRows               []TechRow               `json:"TECH_ROWS" yaml:"TECH_ROWS"`
	Skills                 []SkillTag              `json:"SKILLS" yaml:"SKILLS"`
	DateBasedStackDefaults []DateBasedStackDefault `json:"DATE_BASED_STACK_DEFAULTS" yaml:"DATE_BASED_STACK_DEFAULTS"`
	GlobalStackDefaults    []string                `json:"GLOBAL_STACK_DEFAULTS" yaml:"GLOBAL_STACK_DEFAULTS"`
	Testimonials           []Testimonial           `json:"TESTIMONIALS" yaml:"TESTIMONIALS"`
	Jobs                   []Job                   `json:"JOBS" yaml:"JOBS"`
}
