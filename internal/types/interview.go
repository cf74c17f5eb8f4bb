// Package types provides type definitions for the structured data passed between interview stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Recognised CV section names.
const (
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
)

// Recognised job description section names.
const (
	SectionRequirements     = "requirements"
	SectionResponsibilities = "responsibilities"
	SectionBenefits         = "benefits"
	SectionAboutCompany     = "about_company"
)

// CVSectionNames returns the CV section names in canonical order.
func CVSectionNames() []string {
	return []string{SectionEducation, SectionExperience, SectionSkills, SectionProjects}
}

// ContactInfo holds contact details harvested from CV text.
// Lists preserve input order; duplicates are allowed.
type ContactInfo struct {
	Emails   []string `json:"emails"`
	Phones   []string `json:"phones"`
	LinkedIn []string `json:"linkedin"`
	GitHub   []string `json:"github"`
}

// CandidateInfo is the structured view of a candidate CV.
// RawText is the canonical untruncated source; Sections only ever carries
// the four recognised CV section names.
type CandidateInfo struct {
	Contact  ContactInfo         `json:"contact"`
	Sections map[string][]string `json:"sections"`
	RawText  string              `json:"raw_text"`
}

// JobRequirements is the structured view of a job description.
type JobRequirements struct {
	RequiredSkills   []string          `json:"required_skills"`
	PreferredSkills  []string          `json:"preferred_skills"`
	Responsibilities []string          `json:"responsibilities"`
	Qualifications   []string          `json:"qualifications"`
	Sections         map[string]string `json:"sections"`
}

// AgendaBlock is a named segment of an interview with topics and a duration.
type AgendaBlock struct {
	Name            string   `json:"name"`
	Topics          []string `json:"topics"`
	DurationMinutes int      `json:"duration_minutes"`
}

// Agenda is an ordered sequence of agenda blocks.
type Agenda struct {
	Blocks []AgendaBlock `json:"blocks"`
}

// Canonical agenda block names, in presentation order.
const (
	BlockTechnicalInterview = "technical_interview"
	BlockSystemDesign       = "system_design"
	BlockBehavioral         = "behavioral"
)

// CanonicalAgendaBlocks returns the canonical blocks with their default
// durations, in declared order.
func CanonicalAgendaBlocks() []AgendaBlock {
	return []AgendaBlock{
		{Name: BlockTechnicalInterview, DurationMinutes: 60},
		{Name: BlockSystemDesign, DurationMinutes: 45},
		{Name: BlockBehavioral, DurationMinutes: 30},
	}
}

// Question types.
const (
	QuestionTechnical    = "technical"
	QuestionSystemDesign = "system_design"
	QuestionBehavioral   = "behavioral"
)

// Question difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is a single interview question.
type Question struct {
	ID             string     `json:"id"`
	Topic          string     `json:"topic"`
	Text           string     `json:"text"`
	Type           string     `json:"type"`
	Difficulty     string     `json:"difficulty"`
	ExpectedAnswer string     `json:"expected_answer"`
	FollowUps      []Question `json:"follow_ups,omitempty"`
}

// Response is a candidate answer to a question.
type Response struct {
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
}

// Evaluation scores a response to a question. Score is in [0,10].
type Evaluation struct {
	QuestionID        string `json:"question_id"`
	Score             int    `json:"score"`
	Feedback          string `json:"feedback"`
	SuggestedFollowUp string `json:"suggested_follow_up,omitempty"`
}

// InterviewAnalysis summarises candidate performance. Scores are in [0,10].
type InterviewAnalysis struct {
	TechnicalScore      int      `json:"technical_score"`
	ProblemSolvingScore int      `json:"problem_solving_score"`
	CommunicationScore  int      `json:"communication_score"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	AreasForImprovement []string `json:"areas_for_improvement"`
}

// CandidateFeedback is the feedback record addressed to the candidate.
type CandidateFeedback struct {
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Recommendations     []string `json:"recommendations"`
}

// InterviewerFeedback is the feedback record addressed to the interviewer.
type InterviewerFeedback struct {
	QuestionQuality    string   `json:"question_quality"`
	InterviewTechnique string   `json:"interview_technique"`
	Suggestions        []string `json:"suggestions"`
}

// HRFeedback is the feedback record addressed to HR.
type HRFeedback struct {
	ProcessImprovements      []string `json:"process_improvements"`
	ScreeningRecommendations []string `json:"screening_recommendations"`
}

// StakeholderFeedback groups feedback by audience.
type StakeholderFeedback struct {
	Candidate   CandidateFeedback   `json:"candidate"`
	Interviewer InterviewerFeedback `json:"interviewer"`
	HR          HRFeedback          `json:"hr"`
}

// Hiring recommendation outcomes.
const (
	RecommendHire   = "hire"
	RecommendNoHire = "no_hire"
	RecommendHold   = "hold"
)

// HiringRecommendation is the supervisor's final call.
// MatchPercentage and ConfidenceScore are in [0,100].
type HiringRecommendation struct {
	MatchPercentage       int      `json:"match_percentage"`
	MissingSkills         []string `json:"missing_skills"`
	ExceedingExpectations []string `json:"exceeding_expectations"`
	Recommendation        string   `json:"recommendation"`
	ConfidenceScore       int      `json:"confidence_score"`
}

// HRData is the typed output of the HR stage.
type HRData struct {
	CandidateInfo   CandidateInfo   `json:"candidate_info"`
	JobRequirements JobRequirements `json:"job_requirements"`
	Agenda          Agenda          `json:"agenda"`
}

// InterviewData is the typed output of the Interviewer stage.
type InterviewData struct {
	Questions   []Question   `json:"questions"`
	Responses   []Response   `json:"responses"`
	Evaluations []Evaluation `json:"evaluations"`
}

// SupervisorData is the typed output of the Supervisor stage.
type SupervisorData struct {
	Analysis       InterviewAnalysis    `json:"analysis"`
	Feedback       StakeholderFeedback  `json:"feedback"`
	Recommendation HiringRecommendation `json:"recommendation"`
}

// StageReport is one entry of the aggregated pipeline response.
type StageReport struct {
	Agent    string `json:"agent"`
	Response string `json:"response"`
	Data     any    `json:"data,omitempty"`
}
