package parsing

import (
	"github.com/jonathan/interview-agents/internal/types"
)

// ParseCV extracts contact details and named sections from raw CV text.
// All four recognised section names are always present in the result, empty
// when their anchor never matches. RawText keeps the untruncated source.
func ParseCV(text string) types.CandidateInfo {
	blocks := ExtractBlocks(text, cvSectionPatterns)

	sections := make(map[string][]string, len(cvSectionPatterns))
	for _, name := range types.CVSectionNames() {
		if found, ok := blocks[name]; ok {
			sections[name] = found
		} else {
			sections[name] = []string{}
		}
	}

	return types.CandidateInfo{
		Contact:  ExtractContacts(text),
		Sections: sections,
		RawText:  text,
	}
}

// CandidateSkills flattens the skills section into individual skill tokens.
func CandidateSkills(info types.CandidateInfo) []string {
	var skills []string
	for _, block := range info.Sections[types.SectionSkills] {
		skills = append(skills, splitItems(block)...)
	}
	return skills
}
