package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-agents/internal/agent"
	"github.com/jonathan/interview-agents/internal/llm"
	"github.com/jonathan/interview-agents/internal/prompts"
	"github.com/jonathan/interview-agents/internal/types"
)

// Score thresholds used when aggregating evaluations into a recommendation.
const (
	strengthScore = 7
	weaknessScore = 4
	hireMatchPct  = 70
	hireAvgScore  = 7
	holdMatchPct  = 40
	holdAvgScore  = 6
)

// SupervisorStage reviews a completed interview against the job requirements
// and produces analysis, stakeholder feedback, and a hiring recommendation.
type SupervisorStage struct {
	runtime   *agent.Runtime
	interview types.InterviewData
	req       types.JobRequirements
}

// NewSupervisorStage constructs the supervisor agent for one interview.
func NewSupervisorStage(client llm.Client, interview types.InterviewData, req types.JobRequirements, opts ...agent.Option) *SupervisorStage {
	s := &SupervisorStage{interview: interview, req: req}

	reg := agent.NewRegistry()
	reg.MustRegister(agent.Tool{
		Name:           "analyze_interview_data",
		Description:    "Analyze the complete interview data and candidate performance",
		ArgumentSchema: emptyObjectSchema,
		Run: func(_ context.Context, _ json.RawMessage) (any, error) {
			return s.analyze(), nil
		},
	})
	reg.MustRegister(agent.Tool{
		Name:           "generate_feedback",
		Description:    "Generate feedback for the candidate, interviewer, and HR",
		ArgumentSchema: emptyObjectSchema,
		Run: func(_ context.Context, _ json.RawMessage) (any, error) {
			return s.feedback(), nil
		},
	})
	reg.MustRegister(agent.Tool{
		Name:           "compare_with_job_requirements",
		Description:    "Compare candidate performance with the job requirements",
		ArgumentSchema: emptyObjectSchema,
		Run: func(_ context.Context, _ json.RawMessage) (any, error) {
			return s.recommend(), nil
		},
	})

	s.runtime = agent.New(SupervisorAgentName, client, prompts.MustGet(promptFile, "supervisor-system"), reg, opts...)
	return s
}

// Runtime returns the underlying agent runtime.
func (s *SupervisorStage) Runtime() *agent.Runtime {
	return s.runtime
}

// Data returns the typed supervisor output.
func (s *SupervisorStage) Data() types.SupervisorData {
	return types.SupervisorData{
		Analysis:       s.analyze(),
		Feedback:       s.feedback(),
		Recommendation: s.recommend(),
	}
}

// Run executes the supervisor agent and returns its stage report.
func (s *SupervisorStage) Run(ctx context.Context) (types.StageReport, error) {
	data := s.Data()

	input := prompts.Format(prompts.MustGet(promptFile, "supervisor-input"), map[string]string{
		"InterviewData":   mustJSON(s.interview),
		"JobRequirements": mustJSON(s.req),
	})

	response, err := s.runtime.Run(ctx, input)
	if err != nil {
		return types.StageReport{}, err
	}
	return types.StageReport{Agent: SupervisorAgentName, Response: response, Data: data}, nil
}

// analyze aggregates evaluation scores per question type.
func (s *SupervisorStage) analyze() types.InterviewAnalysis {
	byType := make(map[string][]int)
	var strengths, weaknesses []string
	for i, e := range s.interview.Evaluations {
		q := s.questionFor(e.QuestionID, i)
		byType[q.Type] = append(byType[q.Type], e.Score)
		if e.Score >= strengthScore {
			strengths = appendUnique(strengths, q.Topic)
		}
		if e.Score <= weaknessScore {
			weaknesses = appendUnique(weaknesses, q.Topic)
		}
	}

	improvements := make([]string, 0, len(weaknesses))
	for _, w := range weaknesses {
		improvements = append(improvements, fmt.Sprintf("deepen practical experience with %s", w))
	}

	return types.InterviewAnalysis{
		TechnicalScore:      average(byType[types.QuestionTechnical]),
		ProblemSolvingScore: average(byType[types.QuestionSystemDesign]),
		CommunicationScore:  average(byType[types.QuestionBehavioral]),
		Strengths:           strengths,
		Weaknesses:          weaknesses,
		AreasForImprovement: improvements,
	}
}

// feedback renders the analysis for each stakeholder audience.
func (s *SupervisorStage) feedback() types.StakeholderFeedback {
	analysis := s.analyze()

	recommendations := make([]string, 0, len(analysis.AreasForImprovement)+1)
	recommendations = append(recommendations, analysis.AreasForImprovement...)
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "continue building on demonstrated strengths")
	}

	questionQuality := "Questions covered the agenda topics."
	if len(s.interview.Questions) == 0 {
		questionQuality = "No questions were asked; the interview produced no signal."
	}

	return types.StakeholderFeedback{
		Candidate: types.CandidateFeedback{
			Strengths:           analysis.Strengths,
			AreasForImprovement: analysis.AreasForImprovement,
			Recommendations:     recommendations,
		},
		Interviewer: types.InterviewerFeedback{
			QuestionQuality:    questionQuality,
			InterviewTechnique: "Structured progression through the agenda blocks.",
			Suggestions:        interviewerSuggestions(analysis),
		},
		HR: types.HRFeedback{
			ProcessImprovements:      []string{"capture candidate responses verbatim for later calibration"},
			ScreeningRecommendations: screeningRecommendations(s.req, analysis),
		},
	}
}

// recommend compares demonstrated topics against the required skills.
func (s *SupervisorStage) recommend() types.HiringRecommendation {
	demonstrated := s.demonstratedTopics()

	var missing, matched []string
	for _, skill := range s.req.RequiredSkills {
		if topicListed(skill, demonstrated) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	matchPct := 0
	if len(s.req.RequiredSkills) > 0 {
		matchPct = len(matched) * 100 / len(s.req.RequiredSkills)
	}

	var exceeding []string
	for _, topic := range demonstrated {
		if !topicListed(topic, s.req.RequiredSkills) {
			exceeding = appendUnique(exceeding, topic)
		}
	}

	avg := average(scores(s.interview.Evaluations))

	recommendation := types.RecommendNoHire
	switch {
	case matchPct >= hireMatchPct && avg >= hireAvgScore:
		recommendation = types.RecommendHire
	case matchPct >= holdMatchPct || avg >= holdAvgScore:
		recommendation = types.RecommendHold
	}

	confidence := len(s.interview.Evaluations) * 10
	if confidence > 90 {
		confidence = 90
	}
	if len(s.interview.Evaluations) == 0 {
		confidence = 0
	}

	return types.HiringRecommendation{
		MatchPercentage:       matchPct,
		MissingSkills:         emptyIfNil(missing),
		ExceedingExpectations: emptyIfNil(exceeding),
		Recommendation:        recommendation,
		ConfidenceScore:       confidence,
	}
}

// demonstratedTopics lists question topics the candidate scored well on.
func (s *SupervisorStage) demonstratedTopics() []string {
	var topics []string
	for i, e := range s.interview.Evaluations {
		if e.Score < strengthScore {
			continue
		}
		topics = appendUnique(topics, s.questionFor(e.QuestionID, i).Topic)
	}
	return topics
}

// questionFor resolves an evaluation's question by ID, falling back to the
// positional question when IDs do not line up.
func (s *SupervisorStage) questionFor(id string, idx int) types.Question {
	for _, q := range s.interview.Questions {
		if q.ID == id {
			return q
		}
	}
	if idx < len(s.interview.Questions) {
		return s.interview.Questions[idx]
	}
	return types.Question{}
}

func interviewerSuggestions(analysis types.InterviewAnalysis) []string {
	var suggestions []string
	if analysis.ProblemSolvingScore > 0 && analysis.ProblemSolvingScore < strengthScore {
		suggestions = append(suggestions, "spend more time on design trade-off discussions")
	}
	if len(analysis.Weaknesses) > 0 {
		suggestions = append(suggestions, "ask easier warm-up questions on weak topics before going deep")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "keep the current question mix")
	}
	return suggestions
}

func screeningRecommendations(req types.JobRequirements, analysis types.InterviewAnalysis) []string {
	var recs []string
	for _, w := range analysis.Weaknesses {
		if topicListed(w, req.RequiredSkills) {
			recs = append(recs, fmt.Sprintf("screen for %s earlier in the funnel", w))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "current screening criteria look adequate")
	}
	return recs
}

// topicListed matches a skill against a topic list by containment in either
// direction, case-insensitively.
func topicListed(skill string, topics []string) bool {
	s := strings.ToLower(skill)
	for _, t := range topics {
		tl := strings.ToLower(t)
		if strings.Contains(tl, s) || strings.Contains(s, tl) {
			return true
		}
	}
	return false
}

func scores(evals []types.Evaluation) []int {
	out := make([]int, 0, len(evals))
	for _, e := range evals {
		out = append(out, e.Score)
	}
	return out
}

func average(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum / len(values)
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return list
		}
	}
	return append(list, value)
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
