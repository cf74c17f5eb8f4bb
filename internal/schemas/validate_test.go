package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agents/internal/types"
)

func validAgenda() types.Agenda {
	return types.Agenda{Blocks: []types.AgendaBlock{
		{Name: types.BlockTechnicalInterview, Topics: []string{"Go"}, DurationMinutes: 60},
		{Name: types.BlockSystemDesign, Topics: []string{"scaling"}, DurationMinutes: 45},
		{Name: types.BlockBehavioral, Topics: []string{"teamwork"}, DurationMinutes: 30},
	}}
}

func TestValidateAgenda(t *testing.T) {
	require.NoError(t, ValidateValue(AgendaSchema, validAgenda()))
}

func TestValidateAgendaRejectsUnknownBlockName(t *testing.T) {
	agenda := validAgenda()
	agenda.Blocks[0].Name = "trivia_round"

	err := ValidateValue(AgendaSchema, agenda)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, AgendaSchema, validation.Schema)
	assert.NotEmpty(t, validation.Errors)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateAgendaRejectsEmptyTopics(t *testing.T) {
	agenda := validAgenda()
	agenda.Blocks[1].Topics = []string{}

	err := ValidateValue(AgendaSchema, agenda)
	require.Error(t, err)
}

func TestValidateInterview(t *testing.T) {
	data := types.InterviewData{
		Questions: []types.Question{{
			ID: "q1", Topic: "Go", Text: "Explain goroutines.",
			Type: types.QuestionTechnical, Difficulty: types.DifficultyMedium,
		}},
		Responses:   []types.Response{{QuestionID: "q1", Text: "They are lightweight threads."}},
		Evaluations: []types.Evaluation{{QuestionID: "q1", Score: 8, Feedback: "solid"}},
	}

	require.NoError(t, ValidateValue(InterviewSchema, data))
}

func TestValidateInterviewRejectsOutOfRangeScore(t *testing.T) {
	data := types.InterviewData{
		Questions: []types.Question{{
			ID: "q1", Topic: "Go", Text: "?",
			Type: types.QuestionTechnical, Difficulty: types.DifficultyMedium,
		}},
		Responses:   []types.Response{{QuestionID: "q1", Text: "a"}},
		Evaluations: []types.Evaluation{{QuestionID: "q1", Score: 15, Feedback: "f"}},
	}

	require.Error(t, ValidateValue(InterviewSchema, data))
}

func TestValidateRecommendation(t *testing.T) {
	rec := types.HiringRecommendation{
		MatchPercentage:       80,
		MissingSkills:         []string{},
		ExceedingExpectations: []string{"Rust"},
		Recommendation:        types.RecommendHire,
		ConfidenceScore:       70,
	}

	require.NoError(t, ValidateValue(RecommendationSchema, rec))
}

func TestValidateRecommendationRejectsUnknownOutcome(t *testing.T) {
	rec := types.HiringRecommendation{
		MissingSkills:         []string{},
		ExceedingExpectations: []string{},
		Recommendation:        "maybe",
	}

	require.Error(t, ValidateValue(RecommendationSchema, rec))
}

func TestValidateUnknownSchemaName(t *testing.T) {
	err := ValidateValue("nonexistent", validAgenda())

	var load *SchemaLoadError
	require.ErrorAs(t, err, &load)
}
