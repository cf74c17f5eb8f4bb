// Package parsing segments free text into named sections and harvests
// contact details from CV text. Section detection is pattern driven: each
// section name is anchored by a case-insensitive regex, and competing
// anchors bound each other's blocks.
package parsing

import (
	"regexp"
	"sort"
	"strings"
)

// cvSectionPatterns anchor the whole-word family of common CV headers.
var cvSectionPatterns = map[string]*regexp.Regexp{
	"education":  regexp.MustCompile(`(?i)(education|academic background|qualifications)`),
	"experience": regexp.MustCompile(`(?i)(experience|work history|employment)`),
	"skills":     regexp.MustCompile(`(?i)(skills|technical skills|competencies)`),
	"projects":   regexp.MustCompile(`(?i)(projects|portfolio|work samples)`),
}

// jdSectionPatterns anchor common job description headers.
var jdSectionPatterns = map[string]*regexp.Regexp{
	"requirements":     regexp.MustCompile(`(?i)(requirements|qualifications|what you'll need)`),
	"responsibilities": regexp.MustCompile(`(?i)(responsibilities|what you'll do|key responsibilities)`),
	"benefits":         regexp.MustCompile(`(?i)(benefits|perks|what we offer)`),
	"about_company":    regexp.MustCompile(`(?i)(about us|company|who we are)`),
}

// CVSectionPatterns returns the anchor patterns used for CV segmentation.
func CVSectionPatterns() map[string]*regexp.Regexp {
	return cvSectionPatterns
}

// JDSectionPatterns returns the anchor patterns used for job descriptions.
func JDSectionPatterns() map[string]*regexp.Regexp {
	return jdSectionPatterns
}

// ExtractBlocks segments text with competing anchors, retaining every block
// found for a section. A block runs from the end of its anchor match to the
// nearest subsequent match of any other section's anchor (ties broken by
// section-name order), or to the end of the text. Empty blocks are retained.
func ExtractBlocks(text string, patterns map[string]*regexp.Regexp) map[string][]string {
	out := make(map[string][]string)
	for _, section := range sortedNames(patterns) {
		for _, match := range patterns[section].FindAllStringIndex(text, -1) {
			out[section] = append(out[section], blockAfter(text, match[1], section, patterns))
		}
	}
	return out
}

// ExtractLast segments text with competing anchors, keeping only the last
// block found for each section. Sections whose anchor never matches are
// absent from the result.
func ExtractLast(text string, patterns map[string]*regexp.Regexp) map[string]string {
	out := make(map[string]string)
	for _, section := range sortedNames(patterns) {
		for _, match := range patterns[section].FindAllStringIndex(text, -1) {
			out[section] = blockAfter(text, match[1], section, patterns)
		}
	}
	return out
}

// blockAfter returns the trimmed text between offset and the nearest
// subsequent match of any competing section anchor.
func blockAfter(text string, offset int, section string, patterns map[string]*regexp.Regexp) string {
	rest := text[offset:]
	next := -1
	for _, other := range sortedNames(patterns) {
		if other == section {
			continue
		}
		loc := patterns[other].FindStringIndex(rest)
		if loc == nil {
			continue
		}
		if next < 0 || loc[0] < next {
			next = loc[0]
		}
	}
	if next >= 0 {
		rest = rest[:next]
	}
	return strings.TrimSpace(rest)
}

func sortedNames(patterns map[string]*regexp.Regexp) []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
