// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/samlatif/network/internal/cvfilter"
	"github.com/samlatif/network/internal/schemas"
	"github.com/samlatif/network/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func pad(s string) string {
	if n := boxWidth - 4 - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

// PrintDataset outputs a short summary of a loaded dataset.
func (p *Printer) PrintDataset(data *types.CVData) {
	if data == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Jobs:         %d\n", len(data.Jobs)))
	sb.WriteString(fmt.Sprintf("Skills:       %d\n", len(data.Skills)))
	sb.WriteString(fmt.Sprintf("Tech rows:    %d\n", len(data.TechRows)))
	sb.WriteString(fmt.Sprintf("Testimonials: %d", len(data.Testimonials)))

	p.printBox("CV DATASET", sb.String())
}

// PrintFilterResult outputs every job's enriched stack with its filter state,
// followed by the best match. Matched jobs are marked "*", filtered ones "-".
func (p *Printer) PrintFilterResult(active []string, jobs []cvfilter.JobState, best *cvfilter.BestMatch) {
	var sb strings.Builder

	if len(active) == 0 {
		sb.WriteString("Active filters: none\n")
	} else {
		sb.WriteString(fmt.Sprintf("Active filters: %s\n", strings.Join(active, ", ")))
	}
	sb.WriteString("\n")

	for _, job := range jobs {
		marker := " "
		switch {
		case job.Matched:
			marker = "*"
		case job.Filtered:
			marker = "-"
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s)\n", marker, job.Key.Company, job.Key.DateRange))
		sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(job.Stack, ", ")))
	}
	sb.WriteString("\n")

	if best == nil {
		sb.WriteString("Best match: none")
	} else {
		sb.WriteString(fmt.Sprintf("Best match: %s (%d matching, #%s)", best.Key.Company, best.MatchCount, best.Slug))
	}

	p.printBox("SKILL FILTER", sb.String())
}

// PrintValidationErrors outputs the schema errors found in a dataset file.
func (p *Printer) PrintValidationErrors(path string, errs []schemas.FieldError) {
	if len(errs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %d schema error(s)\n\n", path, len(errs)))

	count := min(len(errs), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s: %s\n", errs[i].Field, errs[i].Message))
	}
	if len(errs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(errs)-maxItemsToShow))
	}

	p.printBox("VALIDATION FAILED", strings.TrimSuffix(sb.String(), "\n"))
}
