package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/interview-agents/internal/types"
)

// preferredMarker flags requirement lines that describe nice-to-haves rather
// than hard requirements.
var preferredMarker = regexp.MustCompile(`(?i)(preferred|nice.to.have|bonus|a plus)`)

// ParseJobDescription extracts named sections from job description text and
// derives the structured requirement lists from them. Sections whose anchor
// never matches are absent; derived lists are empty, never nil.
func ParseJobDescription(text string) types.JobRequirements {
	sections := ExtractLast(text, jdSectionPatterns)

	req := types.JobRequirements{
		RequiredSkills:   []string{},
		PreferredSkills:  []string{},
		Responsibilities: []string{},
		Qualifications:   []string{},
		Sections:         sections,
	}

	for _, line := range splitLines(sections[types.SectionRequirements]) {
		req.Qualifications = append(req.Qualifications, line)
		if preferredMarker.MatchString(line) {
			req.PreferredSkills = append(req.PreferredSkills, splitItems(line)...)
		} else {
			req.RequiredSkills = append(req.RequiredSkills, splitItems(line)...)
		}
	}
	req.Responsibilities = append(req.Responsibilities, splitLines(sections[types.SectionResponsibilities])...)

	return req
}

// splitLines breaks a section block into trimmed, non-empty lines with
// leading list markers removed.
func splitLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•: \t")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitItems breaks a line into comma-separated items, falling back to the
// whole line when it has no separators.
func splitItems(line string) []string {
	var out []string
	for _, item := range strings.Split(line, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
