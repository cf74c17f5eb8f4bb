package agents

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agents/internal/parsing"
	"github.com/jonathan/interview-agents/internal/types"
)

func sampleAgenda() types.Agenda {
	return types.Agenda{Blocks: []types.AgendaBlock{
		{Name: types.BlockTechnicalInterview, Topics: []string{"Go", "Kubernetes"}, DurationMinutes: 60},
		{Name: types.BlockSystemDesign, Topics: []string{"design a rate limiter"}, DurationMinutes: 45},
		{Name: types.BlockBehavioral, Topics: []string{"teamwork"}, DurationMinutes: 30},
	}}
}

func TestInterviewerDataFollowsAgendaOrder(t *testing.T) {
	stage := NewInterviewerStage(&terminalClient{reply: "ok"}, sampleAgenda(), parsing.ParseCV(sampleCV))

	data := stage.Data()

	require.Len(t, data.Questions, 4)
	assert.Equal(t, "Go", data.Questions[0].Topic)
	assert.Equal(t, types.QuestionTechnical, data.Questions[0].Type)
	assert.Equal(t, "Kubernetes", data.Questions[1].Topic)
	assert.Equal(t, "design a rate limiter", data.Questions[2].Topic)
	assert.Equal(t, types.QuestionSystemDesign, data.Questions[2].Type)
	assert.Equal(t, "teamwork", data.Questions[3].Topic)
	assert.Equal(t, types.QuestionBehavioral, data.Questions[3].Type)
}

func TestInterviewerEveryEvaluationReferencesAQuestion(t *testing.T) {
	stage := NewInterviewerStage(&terminalClient{reply: "ok"}, sampleAgenda(), parsing.ParseCV(sampleCV))

	data := stage.Data()

	ids := make(map[string]bool, len(data.Questions))
	for _, q := range data.Questions {
		require.NotEmpty(t, q.ID)
		assert.False(t, ids[q.ID], "question IDs must be unique")
		ids[q.ID] = true
	}
	require.Len(t, data.Responses, len(data.Questions))
	require.Len(t, data.Evaluations, len(data.Questions))
	for _, r := range data.Responses {
		assert.True(t, ids[r.QuestionID])
	}
	for _, e := range data.Evaluations {
		assert.True(t, ids[e.QuestionID])
		assert.GreaterOrEqual(t, e.Score, 0)
		assert.LessOrEqual(t, e.Score, 10)
	}
}

func TestInterviewerScoresClaimedSkillsHigher(t *testing.T) {
	stage := NewInterviewerStage(&terminalClient{reply: "ok"}, sampleAgenda(), parsing.ParseCV(sampleCV))

	data := stage.Data()

	scoreByTopic := make(map[string]int)
	for i, e := range data.Evaluations {
		scoreByTopic[data.Questions[i].Topic] = e.Score
	}
	// Go and Kubernetes appear in the CV; the design topic does not.
	assert.Equal(t, scoreOnTopic, scoreByTopic["Go"])
	assert.Equal(t, scoreOnTopic, scoreByTopic["Kubernetes"])
	assert.Equal(t, scoreOffTopic, scoreByTopic["design a rate limiter"])
}

func TestInterviewerDataIsStableAcrossCalls(t *testing.T) {
	stage := NewInterviewerStage(&terminalClient{reply: "ok"}, sampleAgenda(), parsing.ParseCV(sampleCV))

	assert.Equal(t, stage.Data(), stage.Data())
}

func TestInterviewerGenerateQuestionsTool(t *testing.T) {
	stage := NewInterviewerStage(&terminalClient{reply: "ok"}, sampleAgenda(), parsing.ParseCV(sampleCV))
	reg := stage.Runtime().Registry()

	result, err := reg.Invoke(context.Background(), "generate_questions", json.RawMessage(`{"topic":"Go"}`))
	require.NoError(t, err)

	questions, ok := result.([]types.Question)
	require.True(t, ok)
	require.Len(t, questions, 1)
	assert.Equal(t, "Go", questions[0].Topic)
}

func TestInterviewerGenerateQuestionsRejectsMissingTopic(t *testing.T) {
	stage := NewInterviewerStage(&terminalClient{reply: "ok"}, sampleAgenda(), parsing.ParseCV(sampleCV))
	reg := stage.Runtime().Registry()

	_, err := reg.Invoke(context.Background(), "generate_questions", json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestInterviewerEvaluateResponseTool(t *testing.T) {
	stage := NewInterviewerStage(&terminalClient{reply: "ok"}, sampleAgenda(), parsing.ParseCV(sampleCV))
	questionID := stage.Data().Questions[0].ID
	reg := stage.Runtime().Registry()

	args, err := json.Marshal(map[string]string{
		"question_id": questionID,
		"response":    "I have shipped several services in Go.",
	})
	require.NoError(t, err)

	result, err := reg.Invoke(context.Background(), "evaluate_response", args)
	require.NoError(t, err)

	eval, ok := result.(types.Evaluation)
	require.True(t, ok)
	assert.Equal(t, questionID, eval.QuestionID)
	assert.Equal(t, scoreOnTopic, eval.Score)
}

func TestInterviewerRun(t *testing.T) {
	client := &terminalClient{reply: "the interview went well"}
	stage := NewInterviewerStage(client, sampleAgenda(), parsing.ParseCV(sampleCV))

	report, err := stage.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, InterviewerAgentName, report.Agent)
	data, ok := report.Data.(types.InterviewData)
	require.True(t, ok)
	assert.Len(t, data.Questions, 4)
}
