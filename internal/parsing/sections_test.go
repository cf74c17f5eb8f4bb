package parsing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBlocksSegmentsByCompetingAnchors(t *testing.T) {
	text := "Education\nBSc Computer Science\nSkills\nGo, Python\n"

	blocks := ExtractBlocks(text, cvSectionPatterns)

	require.Len(t, blocks["education"], 1)
	assert.Equal(t, "BSc Computer Science", blocks["education"][0])
	require.Len(t, blocks["skills"], 1)
	assert.Equal(t, "Go, Python", blocks["skills"][0])
	assert.NotContains(t, blocks, "projects")
}

func TestExtractBlocksRetainsAllBlocksPerSection(t *testing.T) {
	text := "Skills\nGo\nProjects\nCLI tool\nSkills\nPython\n"

	blocks := ExtractBlocks(text, cvSectionPatterns)

	require.Len(t, blocks["skills"], 2)
	assert.Equal(t, "Go", blocks["skills"][0])
	assert.Equal(t, "Python", blocks["skills"][1])
	require.Len(t, blocks["projects"], 1)
	assert.Equal(t, "CLI tool", blocks["projects"][0])
}

func TestExtractBlocksRetainsEmptyBlocks(t *testing.T) {
	text := "Skills\nExperience\nBig Corp, 5 years\n"

	blocks := ExtractBlocks(text, cvSectionPatterns)

	require.Len(t, blocks["skills"], 1)
	assert.Equal(t, "", blocks["skills"][0])
	require.Len(t, blocks["experience"], 1)
	assert.Equal(t, "Big Corp, 5 years", blocks["experience"][0])
}

func TestExtractLastKeepsLastAssignment(t *testing.T) {
	text := "Requirements\nGo\nResponsibilities\nBuild services\nRequirements\nKubernetes\n"

	sections := ExtractLast(text, jdSectionPatterns)

	assert.Equal(t, "Kubernetes", sections["requirements"])
	assert.Equal(t, "Build services", sections["responsibilities"])
}

func TestExtractLastOmitsUnmatchedSections(t *testing.T) {
	text := "Requirements\nGo\n"

	sections := ExtractLast(text, jdSectionPatterns)

	assert.Contains(t, sections, "requirements")
	assert.NotContains(t, sections, "benefits")
	assert.NotContains(t, sections, "responsibilities")
}

func TestExtractBlocksCaseInsensitiveAnchors(t *testing.T) {
	text := "TECHNICAL SKILLS\nGo\n"

	blocks := ExtractBlocks(text, cvSectionPatterns)

	require.Len(t, blocks["skills"], 1)
	assert.Equal(t, "Go", blocks["skills"][0])
}

func TestExtractBlocksStableOverReassembledText(t *testing.T) {
	text := "Education\nBSc Physics\nSkills\nGo, Rust\nExperience\nACME 2019-2024\n"

	first := ExtractBlocks(text, cvSectionPatterns)
	require.NotEmpty(t, first)

	// Rebuild a document from the extracted blocks and run the extractor
	// again; segmentation must not drift on its own output.
	var rebuilt strings.Builder
	for _, section := range sortedNames(cvSectionPatterns) {
		for _, block := range first[section] {
			rebuilt.WriteString(section + "\n" + block + "\n")
		}
	}

	second := ExtractBlocks(rebuilt.String(), cvSectionPatterns)

	assert.Equal(t, first, second)
}
