// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-agents/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAgenda outputs a human-readable summary of the interview agenda.
func (p *Printer) PrintAgenda(agenda *types.Agenda) {
	if agenda == nil || len(agenda.Blocks) == 0 {
		return
	}

	var sb strings.Builder
	for i, block := range agenda.Blocks {
		sb.WriteString(fmt.Sprintf("%s (%d min)\n", block.Name, block.DurationMinutes))

		count := min(len(block.Topics), maxItemsToShow)
		for j := 0; j < count; j++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", block.Topics[j]))
		}
		if len(block.Topics) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(block.Topics)-maxItemsToShow))
		}
		if i < len(agenda.Blocks)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("INTERVIEW AGENDA", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInterview outputs a summary of the questions asked and the scores.
func (p *Printer) PrintInterview(data *types.InterviewData) {
	if data == nil || len(data.Questions) == 0 {
		return
	}

	scoreByQuestion := make(map[string]int, len(data.Evaluations))
	for _, e := range data.Evaluations {
		scoreByQuestion[e.QuestionID] = e.Score
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Questions asked: %d\n\n", len(data.Questions)))

	count := min(len(data.Questions), maxItemsToShow)
	for i := 0; i < count; i++ {
		q := data.Questions[i]
		sb.WriteString(fmt.Sprintf("#%d  [%s] %s\n", i+1, q.Type, q.Topic))
		if score, ok := scoreByQuestion[q.ID]; ok {
			sb.WriteString(fmt.Sprintf("    Score: %d/10\n", score))
		}
	}
	if len(data.Questions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(data.Questions)-maxItemsToShow))
	}

	p.printBox("INTERVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendation outputs the supervisor's final call.
func (p *Printer) PrintRecommendation(rec *types.HiringRecommendation) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", rec.Recommendation))
	sb.WriteString(fmt.Sprintf("Match:          %d%%\n", rec.MatchPercentage))
	sb.WriteString(fmt.Sprintf("Confidence:     %d%%\n", rec.ConfidenceScore))

	if len(rec.MissingSkills) > 0 {
		sb.WriteString("\nMissing skills:\n")
		count := min(len(rec.MissingSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", rec.MissingSkills[i]))
		}
		if len(rec.MissingSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(rec.MissingSkills)-maxItemsToShow))
		}
	}

	if len(rec.ExceedingExpectations) > 0 {
		sb.WriteString("\nExceeding expectations:\n")
		count := min(len(rec.ExceedingExpectations), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", rec.ExceedingExpectations[i]))
		}
	}

	p.printBox("HIRING RECOMMENDATION", strings.TrimSuffix(sb.String(), "\n"))
}
