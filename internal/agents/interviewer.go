package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/interview-agents/internal/agent"
	"github.com/jonathan/interview-agents/internal/llm"
	"github.com/jonathan/interview-agents/internal/prompts"
	"github.com/jonathan/interview-agents/internal/types"
)

// Evaluation scores for simulated interviews. A response that addresses its
// question's topic scores well; one that does not scores poorly.
const (
	scoreOnTopic  = 7
	scoreOffTopic = 4
)

// InterviewerStage conducts the interview defined by an agenda: it generates
// questions block by block, collects responses, and evaluates them.
type InterviewerStage struct {
	runtime *agent.Runtime
	agenda  types.Agenda
	info    types.CandidateInfo

	buildOnce sync.Once
	data      types.InterviewData
}

// NewInterviewerStage constructs the interviewer agent for one agenda.
func NewInterviewerStage(client llm.Client, agenda types.Agenda, info types.CandidateInfo, opts ...agent.Option) *InterviewerStage {
	s := &InterviewerStage{agenda: agenda, info: info}

	reg := agent.NewRegistry()
	reg.MustRegister(agent.Tool{
		Name:        "search_technical_concepts",
		Description: "Search for information about technical concepts",
		ArgumentSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "The concept to look up"}
			},
			"required": ["query"]
		}`),
		Run: func(_ context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			return conceptSummary(in.Query), nil
		},
	})
	reg.MustRegister(agent.Tool{
		Name:        "generate_questions",
		Description: "Generate interview questions for a given topic",
		ArgumentSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"topic": {"type": "string", "description": "The topic to ask about"},
				"difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]}
			},
			"required": ["topic"]
		}`),
		Run: func(_ context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Topic      string `json:"topic"`
				Difficulty string `json:"difficulty"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			return s.questionsForTopic(in.Topic), nil
		},
	})
	reg.MustRegister(agent.Tool{
		Name:        "evaluate_response",
		Description: "Evaluate a candidate's response to a question",
		ArgumentSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"question_id": {"type": "string"},
				"response": {"type": "string"}
			},
			"required": ["question_id"]
		}`),
		Run: func(_ context.Context, args json.RawMessage) (any, error) {
			var in struct {
				QuestionID string `json:"question_id"`
				Response   string `json:"response"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			return s.evaluate(in.QuestionID, in.Response)
		},
	})

	s.runtime = agent.New(InterviewerAgentName, client, prompts.MustGet(promptFile, "interviewer-system"), reg, opts...)
	return s
}

// Runtime returns the underlying agent runtime.
func (s *InterviewerStage) Runtime() *agent.Runtime {
	return s.runtime
}

// Data returns the typed interview record. Questions follow agenda block
// order; every response and evaluation references a question by ID.
func (s *InterviewerStage) Data() types.InterviewData {
	s.buildOnce.Do(s.build)
	return s.data
}

// Run executes the interviewer agent and returns its stage report.
func (s *InterviewerStage) Run(ctx context.Context) (types.StageReport, error) {
	data := s.Data()

	input := prompts.Format(prompts.MustGet(promptFile, "interviewer-input"), map[string]string{
		"Agenda":        mustJSON(s.agenda),
		"CandidateInfo": mustJSON(s.info),
	})

	response, err := s.runtime.Run(ctx, input)
	if err != nil {
		return types.StageReport{}, err
	}
	return types.StageReport{Agent: InterviewerAgentName, Response: response, Data: data}, nil
}

// build walks the agenda in block order and fills the interview record.
func (s *InterviewerStage) build() {
	var data types.InterviewData
	for _, block := range s.agenda.Blocks {
		qType := questionType(block.Name)
		for _, topic := range block.Topics {
			q := newQuestion(topic, qType)
			r := simulateResponse(q, s.info)
			e := scoreResponse(q, r)
			data.Questions = append(data.Questions, q)
			data.Responses = append(data.Responses, r)
			data.Evaluations = append(data.Evaluations, e)
		}
	}
	s.data = data
}

// questionsForTopic returns the built questions matching a topic, or all
// questions when the topic is unknown.
func (s *InterviewerStage) questionsForTopic(topic string) []types.Question {
	s.buildOnce.Do(s.build)
	matched := make([]types.Question, 0, len(s.data.Questions))
	for _, q := range s.data.Questions {
		if strings.EqualFold(q.Topic, topic) {
			matched = append(matched, q)
		}
	}
	if len(matched) == 0 {
		return s.data.Questions
	}
	return matched
}

// evaluate looks up the built evaluation for a question.
func (s *InterviewerStage) evaluate(questionID, responseText string) (types.Evaluation, error) {
	s.buildOnce.Do(s.build)
	for i, q := range s.data.Questions {
		if q.ID != questionID {
			continue
		}
		if responseText == "" {
			return s.data.Evaluations[i], nil
		}
		return scoreResponse(q, types.Response{QuestionID: questionID, Text: responseText}), nil
	}
	return types.Evaluation{}, fmt.Errorf("unknown question id %q", questionID)
}

// newQuestion produces one question for a topic.
func newQuestion(topic, qType string) types.Question {
	var text, expected string
	switch qType {
	case types.QuestionSystemDesign:
		text = fmt.Sprintf("How would you approach the following: %s?", topic)
		expected = fmt.Sprintf("A structured design discussion covering trade-offs relevant to %s.", topic)
	case types.QuestionBehavioral:
		text = fmt.Sprintf("Tell me about a time you demonstrated %s.", topic)
		expected = fmt.Sprintf("A concrete situation showing %s with a clear outcome.", topic)
	default:
		text = fmt.Sprintf("Can you explain your experience with %s?", topic)
		expected = fmt.Sprintf("Hands-on experience with %s, with concrete examples.", topic)
	}
	return types.Question{
		ID:             uuid.NewString(),
		Topic:          topic,
		Text:           text,
		Type:           qType,
		Difficulty:     types.DifficultyMedium,
		ExpectedAnswer: expected,
	}
}

// simulateResponse fabricates a plausible candidate answer. Candidates speak
// to topics their CV actually claims and deflect on the rest.
func simulateResponse(q types.Question, info types.CandidateInfo) types.Response {
	if candidateMentions(info, q.Topic) {
		return types.Response{
			QuestionID: q.ID,
			Text:       fmt.Sprintf("In my recent work I used %s extensively; for example I applied %s to ship a production feature.", q.Topic, q.Topic),
		}
	}
	return types.Response{
		QuestionID: q.ID,
		Text:       "I have limited direct experience with that, but I am confident I could pick it up quickly.",
	}
}

// scoreResponse evaluates whether a response addresses its question's topic.
func scoreResponse(q types.Question, r types.Response) types.Evaluation {
	if strings.Contains(strings.ToLower(r.Text), strings.ToLower(q.Topic)) {
		return types.Evaluation{
			QuestionID: q.ID,
			Score:      scoreOnTopic,
			Feedback:   fmt.Sprintf("Addressed %s directly with concrete detail.", q.Topic),
		}
	}
	return types.Evaluation{
		QuestionID:        q.ID,
		Score:             scoreOffTopic,
		Feedback:          fmt.Sprintf("Did not demonstrate depth in %s.", q.Topic),
		SuggestedFollowUp: fmt.Sprintf("Probe for any adjacent experience related to %s.", q.Topic),
	}
}

// questionType maps an agenda block name to its question type.
func questionType(blockName string) string {
	switch blockName {
	case types.BlockSystemDesign:
		return types.QuestionSystemDesign
	case types.BlockBehavioral:
		return types.QuestionBehavioral
	default:
		return types.QuestionTechnical
	}
}

// conceptSummary renders a short knowledge-base style blurb for a concept.
func conceptSummary(query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return "no concept given"
	}
	return fmt.Sprintf("%s: commonly assessed in technical interviews; probe for fundamentals, practical usage, and trade-offs.", q)
}

// candidateMentions reports whether the CV text mentions a topic.
func candidateMentions(info types.CandidateInfo, topic string) bool {
	t := strings.ToLower(topic)
	if strings.Contains(strings.ToLower(info.RawText), t) {
		return true
	}
	for _, blocks := range info.Sections {
		for _, block := range blocks {
			if strings.Contains(strings.ToLower(block), t) {
				return true
			}
		}
	}
	return false
}
