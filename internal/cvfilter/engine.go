package cvfilter

import (
	"github.com/samlatif/network/internal/types"
)

// Engine evaluates filter tags against jobs using a set of inference rules and
// an injected matching strategy. An Engine holds no mutable state.
type Engine struct {
	rules Rules
	match MatchFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcher replaces the default IsSkillMatch strategy.
func WithMatcher(match MatchFunc) Option {
	return func(e *Engine) {
		if match != nil {
			e.match = match
		}
	}
}

// NewEngine creates an engine for the given inference rules.
func NewEngine(rules Rules, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		match: IsSkillMatch,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnrichStack returns the job's stack including inferred tags.
func (e *Engine) EnrichStack(job types.Job) []string {
	return e.rules.Enrich(job)
}

// IsSkillMatch applies the engine's matching strategy.
func (e *Engine) IsSkillMatch(filterTag, candidateTag string) bool {
	return e.match(filterTag, candidateTag)
}

// MatchesAny reports whether filterTag matches at least one entry of stack.
func (e *Engine) MatchesAny(filterTag string, stack []string) bool {
	for _, candidate := range stack {
		if e.match(filterTag, candidate) {
			return true
		}
	}
	return false
}

// Score is the evaluation of one job against the active filters.
type Score struct {
	// MatchCount is the number of active filters matching the enriched stack;
	// each filter counts once.
	MatchCount int
	// HasLatest reports whether the most recently added filter matches.
	HasLatest bool
}

// ScoreStack evaluates an already enriched stack against the active filters.
func (e *Engine) ScoreStack(stack []string, active []string) Score {
	var s Score
	for _, tag := range active {
		if e.MatchesAny(tag, stack) {
			s.MatchCount++
		}
	}
	if len(active) > 0 && s.MatchCount > 0 {
		s.HasLatest = e.MatchesAny(active[len(active)-1], stack)
	}
	return s
}

// BestMatch is the job selected for scrolling into view.
type BestMatch struct {
	Index      int          `json:"index"`
	Job        types.Job    `json:"-"`
	Key        types.JobKey `json:"key"`
	Slug       string       `json:"slug"`
	MatchCount int          `json:"matchCount"`
	HasLatest  bool         `json:"hasLatest"`
}

// SelectBestMatch picks the job to bring into view. Higher match count wins;
// on equal counts a job matching the most recently added filter beats one that
// does not; remaining ties keep the earliest job in dataset order. It returns
// false when active is empty or nothing matches.
func (e *Engine) SelectBestMatch(jobs []types.Job, active []string) (BestMatch, bool) {
	if len(active) == 0 {
		return BestMatch{}, false
	}

	var slugs []string
	best := BestMatch{Index: -1}
	for i, job := range jobs {
		s := e.ScoreStack(e.EnrichStack(job), active)
		if s.MatchCount == 0 {
			continue
		}

		replace := best.Index < 0 ||
			s.MatchCount > best.MatchCount ||
			(s.MatchCount == best.MatchCount && s.HasLatest && !best.HasLatest)
		if !replace {
			continue
		}

		if slugs == nil {
			slugs = types.JobSlugs(jobs)
		}
		best = BestMatch{
			Index:      i,
			Job:        job,
			Key:        job.Key(),
			Slug:       slugs[i],
			MatchCount: s.MatchCount,
			HasLatest:  s.HasLatest,
		}
	}

	if best.Index < 0 {
		return BestMatch{}, false
	}
	return best, true
}
