package cvfilter

import (
	"slices"
	"strings"

	"github.com/samlatif/network/internal/types"
)

// ScrollMargin is the fixed pixel offset kept above a scrolled-to job. The
// presentation layer adds the height of the active-filters banner when it is shown.
const ScrollMargin = 140

// ScrollKind tells the presentation layer what to bring into view after a transition.
type ScrollKind string

const (
	ScrollNone      ScrollKind = "none"
	ScrollToJob     ScrollKind = "job"
	ScrollToSection ScrollKind = "section"
)

// Effect is the side effect requested by a filter transition. The controller
// never scrolls anything itself.
type Effect struct {
	Kind   ScrollKind    `json:"kind"`
	Target *types.JobKey `json:"target,omitempty"`
	Slug   string        `json:"slug,omitempty"`
	Index  int           `json:"index"`
	Margin int           `json:"margin,omitempty"`
}

// JobState is the derived presentation state of one job.
type JobState struct {
	Job      types.Job    `json:"job"`
	Key      types.JobKey `json:"key"`
	Slug     string       `json:"slug"`
	Stack    []string     `json:"stack"`
	Matched  bool         `json:"matched"`
	Filtered bool         `json:"filtered"`
}

// SkillState is the derived presentation state of one stack-at-a-glance tag.
type SkillState struct {
	Tag         types.SkillTag `json:"tag"`
	Visible     bool           `json:"visible"`
	Highlighted bool           `json:"highlighted"`
}

// Controller owns the ordered set of active filter tags for one page view.
// Every read is re-derived from the current set. A Controller is not safe for
// concurrent use.
type Controller struct {
	engine     *Engine
	jobs       []types.Job
	skills     []types.SkillTag
	filterable map[string]struct{}
	active     []string
}

// NewController creates a controller over a dataset with no active filters.
func NewController(engine *Engine, data *types.CVData) *Controller {
	c := &Controller{
		engine:     engine,
		filterable: FilterableTags(data),
	}
	if data != nil {
		c.jobs = data.Jobs
		c.skills = data.Skills
	}
	return c
}

// FilterableTags returns every tag a tech-row click may add: skill names,
// date-ranged and global default skills, and every raw job stack entry.
func FilterableTags(data *types.CVData) map[string]struct{} {
	set := make(map[string]struct{})
	if data == nil {
		return set
	}
	for _, skill := range data.Skills {
		set[skill.Name] = struct{}{}
	}
	for _, rule := range data.DateBasedStackDefaults {
		set[rule.Skill] = struct{}{}
	}
	for _, skill := range data.GlobalStackDefaults {
		set[skill] = struct{}{}
	}
	for _, job := range data.Jobs {
		for _, tech := range job.Stack {
			set[tech] = struct{}{}
		}
	}
	return set
}

// Active returns a copy of the active filters in insertion order.
func (c *Controller) Active() []string {
	return slices.Clone(c.active)
}

// IsActive reports whether tag is currently selected.
func (c *Controller) IsActive(tag string) bool {
	return slices.Contains(c.active, tag)
}

// Toggle removes tag if it is active, otherwise appends it.
func (c *Controller) Toggle(tag string) Effect {
	before := len(c.active)
	if i := slices.Index(c.active, tag); i >= 0 {
		c.active = slices.Delete(c.active, i, i+1)
	} else {
		c.active = append(c.active, tag)
	}
	return c.effect(before)
}

// Clear empties the active set. Clearing an empty set is a no-op.
func (c *Controller) Clear() Effect {
	before := len(c.active)
	c.active = nil
	return c.effect(before)
}

// AddMany appends every tag not already active, keeping the existing order and
// the given order for new tags. An empty tags list changes nothing.
func (c *Controller) AddMany(tags []string) Effect {
	if len(tags) == 0 {
		return Effect{Kind: ScrollNone, Index: -1}
	}
	before := len(c.active)
	for _, tag := range tags {
		if !slices.Contains(c.active, tag) {
			c.active = append(c.active, tag)
		}
	}
	return c.effect(before)
}

// AddTechRow handles a click on a tech-skills row: the row's item list is split,
// alias-expanded and reduced to filterable tags before being added.
func (c *Controller) AddTechRow(items string) Effect {
	var tags []string
	for _, tech := range ExpandTechItems(items) {
		if _, ok := c.filterable[tech]; ok {
			tags = append(tags, tech)
		}
	}
	return c.AddMany(tags)
}

func (c *Controller) effect(before int) Effect {
	if len(c.active) == 0 {
		if before > 0 {
			return Effect{Kind: ScrollToSection, Index: -1}
		}
		return Effect{Kind: ScrollNone, Index: -1}
	}

	best, ok := c.BestMatch()
	if !ok {
		return Effect{Kind: ScrollNone, Index: -1}
	}
	key := best.Key
	return Effect{
		Kind:   ScrollToJob,
		Target: &key,
		Slug:   best.Slug,
		Index:  best.Index,
		Margin: ScrollMargin,
	}
}

// BestMatch selects the job to scroll to for the current filters.
func (c *Controller) BestMatch() (BestMatch, bool) {
	return c.engine.SelectBestMatch(c.jobs, c.active)
}

// JobStates returns the enriched stack and matched/filtered flags of every job.
// A job is matched when some active filter matches its enriched stack, and
// filtered when filters are active but it is not matched.
func (c *Controller) JobStates() []JobState {
	states := make([]JobState, 0, len(c.jobs))
	filtering := len(c.active) > 0
	slugs := types.JobSlugs(c.jobs)
	for i, job := range c.jobs {
		stack := c.engine.EnrichStack(job)
		matched := false
		for _, tag := range c.active {
			if c.engine.MatchesAny(tag, stack) {
				matched = true
				break
			}
		}
		states = append(states, JobState{
			Job:      job,
			Key:      job.Key(),
			Slug:     slugs[i],
			Stack:    stack,
			Matched:  matched,
			Filtered: filtering && !matched,
		})
	}
	return states
}

// SkillStates returns the visibility and highlight of every skill tag for the
// selected category (types.CategoryAll or "" shows every tag).
func (c *Controller) SkillStates(category types.SkillCategory) []SkillState {
	states := make([]SkillState, 0, len(c.skills))
	for _, skill := range c.skills {
		highlighted := false
		for _, tag := range c.active {
			if c.engine.IsSkillMatch(tag, skill.Name) {
				highlighted = true
				break
			}
		}
		states = append(states, SkillState{
			Tag:         skill,
			Visible:     category == "" || category == types.CategoryAll || skill.Category == category,
			Highlighted: highlighted,
		})
	}
	return states
}

// BannerLabel returns the text of the "Filtering by" banner, or "" when no filter is active.
func (c *Controller) BannerLabel() string {
	return strings.Join(c.active, ", ")
}
