package agents

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/interview-agents/internal/agent"
	"github.com/jonathan/interview-agents/internal/llm"
	"github.com/jonathan/interview-agents/internal/parsing"
	"github.com/jonathan/interview-agents/internal/prompts"
	"github.com/jonathan/interview-agents/internal/types"
)

// maxBlockTopics caps how many topics a single agenda block carries.
const maxBlockTopics = 6

// HRStage runs the HR agent over the ingested documents. It parses the CV
// and job description and creates the interview agenda.
type HRStage struct {
	runtime     *agent.Runtime
	cvText      string
	jobText     string
	companyText string
}

// NewHRStage constructs the HR agent bound to the run's documents. Empty
// document texts are allowed; parsing then yields empty sections.
func NewHRStage(client llm.Client, cvText, jobText, companyText string, opts ...agent.Option) *HRStage {
	s := &HRStage{cvText: cvText, jobText: jobText, companyText: companyText}

	reg := agent.NewRegistry()
	reg.MustRegister(agent.Tool{
		Name:           "parse_cv",
		Description:    "Parse a CV document and extract relevant information",
		ArgumentSchema: emptyObjectSchema,
		Run: func(_ context.Context, _ json.RawMessage) (any, error) {
			return parsing.ParseCV(s.cvText), nil
		},
	})
	reg.MustRegister(agent.Tool{
		Name:           "parse_job_description",
		Description:    "Parse a job description and extract requirements",
		ArgumentSchema: emptyObjectSchema,
		Run: func(_ context.Context, _ json.RawMessage) (any, error) {
			return parsing.ParseJobDescription(s.jobText), nil
		},
	})
	reg.MustRegister(agent.Tool{
		Name:           "create_interview_agenda",
		Description:    "Create an interview agenda based on CV and job description",
		ArgumentSchema: emptyObjectSchema,
		Run: func(_ context.Context, _ json.RawMessage) (any, error) {
			data := s.Data()
			return data.Agenda, nil
		},
	})

	s.runtime = agent.New(HRAgentName, client, prompts.MustGet(promptFile, "hr-system"), reg, opts...)
	return s
}

// Runtime returns the underlying agent runtime.
func (s *HRStage) Runtime() *agent.Runtime {
	return s.runtime
}

// Data produces the typed HR stage output.
func (s *HRStage) Data() types.HRData {
	info := parsing.ParseCV(s.cvText)
	req := parsing.ParseJobDescription(s.jobText)
	return types.HRData{
		CandidateInfo:   info,
		JobRequirements: req,
		Agenda:          BuildAgenda(info, req),
	}
}

// Run executes the HR agent and returns its stage report.
func (s *HRStage) Run(ctx context.Context) (types.StageReport, error) {
	data := s.Data()

	input := prompts.Format(prompts.MustGet(promptFile, "hr-input"), map[string]string{
		"CVText":      orDefault(clip(s.cvText), "(no CV provided)"),
		"JobText":     orDefault(clip(s.jobText), "(no job description available)"),
		"CompanyText": orDefault(clip(s.companyText), "(no company background available)"),
	})

	response, err := s.runtime.Run(ctx, input)
	if err != nil {
		return types.StageReport{}, err
	}
	return types.StageReport{Agent: HRAgentName, Response: response, Data: data}, nil
}

// BuildAgenda derives the canonical agenda blocks from the candidate's
// skills and the role requirements. Every block carries at least one topic.
func BuildAgenda(info types.CandidateInfo, req types.JobRequirements) types.Agenda {
	blocks := types.CanonicalAgendaBlocks()
	for i := range blocks {
		switch blocks[i].Name {
		case types.BlockTechnicalInterview:
			blocks[i].Topics = technicalTopics(info, req)
		case types.BlockSystemDesign:
			blocks[i].Topics = systemDesignTopics(req)
		case types.BlockBehavioral:
			blocks[i].Topics = []string{"teamwork", "communication", "problem solving"}
		}
	}
	return types.Agenda{Blocks: blocks}
}

// technicalTopics picks the candidate's skills, preferring those the role
// requires. The candidate's own skills drive the list so the assessment
// measures what the candidate claims, not what the posting wishes for.
func technicalTopics(info types.CandidateInfo, req types.JobRequirements) []string {
	skills := parsing.CandidateSkills(info)
	if len(skills) == 0 {
		return []string{"general programming"}
	}

	required := make([]string, 0, len(req.RequiredSkills))
	for _, r := range req.RequiredSkills {
		required = append(required, strings.ToLower(r))
	}

	matching := make([]string, 0, len(skills))
	others := make([]string, 0, len(skills))
	seen := make(map[string]bool)
	for _, skill := range skills {
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		if skillListed(key, required) {
			matching = append(matching, skill)
		} else {
			others = append(others, skill)
		}
	}

	topics := append(matching, others...)
	if len(topics) > maxBlockTopics {
		topics = topics[:maxBlockTopics]
	}
	return topics
}

// systemDesignTopics derives design topics from responsibilities that sound
// architectural, falling back to fundamentals.
func systemDesignTopics(req types.JobRequirements) []string {
	var topics []string
	for _, resp := range req.Responsibilities {
		lower := strings.ToLower(resp)
		for _, marker := range []string{"design", "architect", "scale", "build", "api", "infrastructure"} {
			if strings.Contains(lower, marker) {
				topics = append(topics, resp)
				break
			}
		}
		if len(topics) == maxBlockTopics {
			break
		}
	}
	if len(topics) == 0 {
		topics = []string{"system design fundamentals"}
	}
	return topics
}

// skillListed reports whether a candidate skill appears in the requirement
// list, matching by containment in either direction.
func skillListed(skill string, required []string) bool {
	for _, r := range required {
		if strings.Contains(r, skill) || strings.Contains(skill, r) {
			return true
		}
	}
	return false
}
