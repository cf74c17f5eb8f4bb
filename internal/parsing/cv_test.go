package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agents/internal/types"
)

func TestParseCVAllSectionKeysAlwaysPresent(t *testing.T) {
	info := ParseCV("just a name and nothing else")

	for _, name := range types.CVSectionNames() {
		require.Contains(t, info.Sections, name)
		assert.NotNil(t, info.Sections[name])
		assert.Empty(t, info.Sections[name])
	}
	assert.Equal(t, "just a name and nothing else", info.RawText)
}

func TestParseCVExtractsSectionsAndContacts(t *testing.T) {
	cv := `Jane Doe
jane@example.com

Education
BSc Computer Science

Skills
Go, Python, Kubernetes
`

	info := ParseCV(cv)

	require.Len(t, info.Sections[types.SectionEducation], 1)
	assert.Equal(t, "BSc Computer Science", info.Sections[types.SectionEducation][0])
	require.Len(t, info.Sections[types.SectionSkills], 1)
	require.Len(t, info.Contact.Emails, 1)
	assert.Equal(t, "jane@example.com", info.Contact.Emails[0])
}

func TestCandidateSkills(t *testing.T) {
	cv := "Skills\nGo, Python, Kubernetes\n"
	info := ParseCV(cv)

	skills := CandidateSkills(info)

	assert.Equal(t, []string{"Go", "Python", "Kubernetes"}, skills)
}

func TestCandidateSkillsEmptyCV(t *testing.T) {
	info := ParseCV("")
	assert.Empty(t, CandidateSkills(info))
}
