// Package pipeline orchestrates one interview run: document acquisition,
// then the HR, Interviewer, and Supervisor stages in order.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-agents/internal/agent"
	"github.com/jonathan/interview-agents/internal/agents"
	"github.com/jonathan/interview-agents/internal/fetch"
	"github.com/jonathan/interview-agents/internal/ingestion"
	"github.com/jonathan/interview-agents/internal/llm"
	"github.com/jonathan/interview-agents/internal/logger"
	"github.com/jonathan/interview-agents/internal/schemas"
	"github.com/jonathan/interview-agents/internal/search"
	"github.com/jonathan/interview-agents/internal/store"
	"github.com/jonathan/interview-agents/internal/types"
)

// Request describes one interview run. The CV may arrive as raw text or as
// a URL; with neither, the interview proceeds on an empty candidate profile.
type Request struct {
	CVURL             string `json:"cv_url" validate:"omitempty,max=2048"`
	CVText            string `json:"cv_text"`
	JobDescriptionURL string `json:"job_description_url" validate:"required,max=2048"`
	CompanyWebsiteURL string `json:"company_website_url" validate:"omitempty,max=2048"`
}

// Result aggregates the three stage reports of a completed run.
type Result struct {
	Status  string              `json:"status"`
	Reports []types.StageReport `json:"messages"`
}

// ValidationError wraps a request validation failure.
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid interview request: %v", e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// StageFailure wraps an error from one of the interview stages.
type StageFailure struct {
	Stage string
	Cause error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

func (e *StageFailure) Unwrap() error {
	return e.Cause
}

// ProgressEvent reports pipeline progress to an observer.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ProgressFunc receives progress events during a run.
type ProgressFunc func(ProgressEvent)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithFetchOptions overrides the document fetch options.
func WithFetchOptions(opts *fetch.Options) Option {
	return func(o *Orchestrator) {
		o.fetchOpts = opts
	}
}

// Persister is the slice of the store the pipeline writes through. The
// pgx-backed store.Store is the production implementation.
type Persister interface {
	SaveCandidate(ctx context.Context, info types.CandidateInfo) (uuid.UUID, error)
	SaveJobDescription(ctx context.Context, sourceURL string, req types.JobRequirements) (uuid.UUID, error)
	CreateInterview(ctx context.Context, candidateID, jobID uuid.UUID) (uuid.UUID, error)
	SetStatus(ctx context.Context, interviewID uuid.UUID, status string) error
	SaveStageReport(ctx context.Context, interviewID uuid.UUID, report types.StageReport) error
}

// WithStore enables persistence of runs and stage reports.
func WithStore(s Persister) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithSearch enables vector indexing of the CV and interview transcript.
// Indexing requires a gateway client that implements llm.Embedder.
func WithSearch(vs *search.VectorStore) Option {
	return func(o *Orchestrator) {
		o.search = vs
	}
}

// WithProgress registers a progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// WithAgentOptions passes options through to every agent runtime.
func WithAgentOptions(opts ...agent.Option) Option {
	return func(o *Orchestrator) {
		o.agentOpts = opts
	}
}

// Orchestrator runs interviews end to end against one LLM gateway client.
type Orchestrator struct {
	client    llm.Client
	log       *zap.Logger
	validate  *validator.Validate
	fetchOpts *fetch.Options
	store     Persister
	search    *search.VectorStore
	progress  ProgressFunc
	agentOpts []agent.Option
}

// stageOpts builds the runtime options for one stage: the orchestrator's
// logger first, then any caller-supplied options.
func (o *Orchestrator) stageOpts() []agent.Option {
	return append([]agent.Option{agent.WithLogger(o.log)}, o.agentOpts...)
}

// New constructs an orchestrator.
func New(client llm.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		log:      zap.NewNop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the full interview pipeline for one request. Document fetch
// failures degrade to empty text so the interview can proceed on whatever
// material is available; stage failures abort the run.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if err := o.validate.Struct(req); err != nil {
		return nil, &ValidationError{Cause: err}
	}

	cvText, jobText, companyText := o.gather(ctx, req)

	o.report("hr", "starting HR stage")
	hr := agents.NewHRStage(o.client, cvText, jobText, companyText, o.stageOpts()...)
	hrReport, err := hr.Run(ctx)
	if err != nil {
		return nil, &StageFailure{Stage: agents.HRAgentName, Cause: err}
	}
	hrData := hr.Data()
	if err := schemas.ValidateValue(schemas.AgendaSchema, hrData.Agenda); err != nil {
		return nil, &StageFailure{Stage: agents.HRAgentName, Cause: err}
	}

	run := o.beginPersist(ctx, req, hrData)

	o.report("interviewer", "starting interviewer stage")
	interviewer := agents.NewInterviewerStage(o.client, hrData.Agenda, hrData.CandidateInfo, o.stageOpts()...)
	ivReport, err := interviewer.Run(ctx)
	if err != nil {
		o.failPersist(ctx, run)
		return nil, &StageFailure{Stage: agents.InterviewerAgentName, Cause: err}
	}
	ivData := interviewer.Data()
	if err := schemas.ValidateValue(schemas.InterviewSchema, ivData); err != nil {
		o.failPersist(ctx, run)
		return nil, &StageFailure{Stage: agents.InterviewerAgentName, Cause: err}
	}

	o.report("supervisor", "starting supervisor stage")
	supervisor := agents.NewSupervisorStage(o.client, ivData, hrData.JobRequirements, o.stageOpts()...)
	svReport, err := supervisor.Run(ctx)
	if err != nil {
		o.failPersist(ctx, run)
		return nil, &StageFailure{Stage: agents.SupervisorAgentName, Cause: err}
	}
	svData := supervisor.Data()
	if err := schemas.ValidateValue(schemas.RecommendationSchema, svData.Recommendation); err != nil {
		o.failPersist(ctx, run)
		return nil, &StageFailure{Stage: agents.SupervisorAgentName, Cause: err}
	}

	result := &Result{
		Status:  "success",
		Reports: []types.StageReport{hrReport, ivReport, svReport},
	}

	o.finishPersist(ctx, run, result)
	o.index(ctx, cvText, ivData, run.candidateLabel())
	o.report("done", "interview complete")
	return result, nil
}

// gather acquires the three source documents. The job description and
// company page fetch in parallel; every acquisition failure degrades to
// empty text with a warning.
func (o *Orchestrator) gather(ctx context.Context, req Request) (cvText, jobText, companyText string) {
	cvText = req.CVText
	g, gctx := errgroup.WithContext(ctx)

	if cvText == "" && req.CVURL != "" {
		g.Go(func() error {
			text, err := ingestion.FromURL(gctx, req.CVURL, o.fetchOpts)
			if err != nil {
				o.log.Warn("CV fetch failed, continuing without it",
					zap.String("url", req.CVURL), zap.Error(err))
				return nil
			}
			cvText = text
			return nil
		})
	}

	g.Go(func() error {
		text, err := fetch.Text(gctx, req.JobDescriptionURL, fetch.JobPostingSelectors(), o.fetchOpts)
		if err != nil {
			o.log.Warn("job description fetch failed, continuing without it",
				zap.String("url", req.JobDescriptionURL), zap.Error(err))
			return nil
		}
		jobText = text
		return nil
	})

	if req.CompanyWebsiteURL != "" {
		g.Go(func() error {
			text, err := fetch.Text(gctx, req.CompanyWebsiteURL, fetch.CompanyPageSelectors(), o.fetchOpts)
			if err != nil {
				o.log.Warn("company page fetch failed, continuing without it",
					zap.String("url", req.CompanyWebsiteURL), zap.Error(err))
				return nil
			}
			companyText = text
			return nil
		})
	}

	// Goroutines only return nil; Wait is for synchronization.
	_ = g.Wait()
	return cvText, jobText, companyText
}

// persistedRun tracks the rows created for one interview run. active is
// false when persistence is disabled or the rows could not be created.
type persistedRun struct {
	interviewID uuid.UUID
	candidateID uuid.UUID
	active      bool
}

// candidateLabel returns the candidate id for indexing metadata, empty when
// no candidate row exists.
func (r persistedRun) candidateLabel() string {
	if r.candidateID == uuid.Nil {
		return ""
	}
	return r.candidateID.String()
}

// beginPersist creates the candidate, job, and interview rows and moves the
// interview from planned to in_progress. Persistence is best-effort and
// never fails the pipeline.
func (o *Orchestrator) beginPersist(ctx context.Context, req Request, hrData types.HRData) persistedRun {
	if o.store == nil {
		return persistedRun{}
	}

	candidateID, err := o.store.SaveCandidate(ctx, hrData.CandidateInfo)
	if err != nil {
		o.log.Warn("failed to persist candidate", zap.Error(err))
		return persistedRun{}
	}
	jobID, err := o.store.SaveJobDescription(ctx, req.JobDescriptionURL, hrData.JobRequirements)
	if err != nil {
		o.log.Warn("failed to persist job description", zap.Error(err))
		return persistedRun{candidateID: candidateID}
	}
	interviewID, err := o.store.CreateInterview(ctx, candidateID, jobID)
	if err != nil {
		o.log.Warn("failed to persist interview", zap.Error(err))
		return persistedRun{candidateID: candidateID}
	}
	if err := o.store.SetStatus(ctx, interviewID, store.StatusInProgress); err != nil {
		o.log.Warn("failed to mark interview in progress", zap.Error(err))
	}
	return persistedRun{interviewID: interviewID, candidateID: candidateID, active: true}
}

// failPersist marks the interview failed after a stage abort.
func (o *Orchestrator) failPersist(ctx context.Context, run persistedRun) {
	if !run.active {
		return
	}
	if err := o.store.SetStatus(ctx, run.interviewID, store.StatusFailed); err != nil {
		o.log.Warn("failed to mark interview failed", zap.Error(err))
	}
}

// finishPersist saves the stage reports and marks the interview completed.
func (o *Orchestrator) finishPersist(ctx context.Context, run persistedRun, result *Result) {
	if !run.active {
		return
	}
	for _, report := range result.Reports {
		if err := o.store.SaveStageReport(ctx, run.interviewID, report); err != nil {
			o.log.Warn("failed to persist stage report",
				zap.String(logger.FieldAgent, report.Agent), zap.Error(err))
		}
	}
	if err := o.store.SetStatus(ctx, run.interviewID, store.StatusCompleted); err != nil {
		o.log.Warn("failed to mark interview completed", zap.Error(err))
	}
}

// index embeds the CV and the interview transcript and stores them in the
// vector index. Indexing is best-effort and requires an embedding-capable
// gateway client.
func (o *Orchestrator) index(ctx context.Context, cvText string, interview types.InterviewData, candidateID string) {
	if o.search == nil {
		return
	}
	embedder, ok := o.client.(llm.Embedder)
	if !ok {
		o.log.Debug("gateway client cannot embed, skipping vector indexing")
		return
	}

	type doc struct {
		text    string
		docType string
	}
	docs := []doc{
		{text: cvText, docType: search.DocTypeCV},
		{text: transcriptText(interview), docType: search.DocTypeInterview},
	}
	var texts []string
	var kept []doc
	for _, d := range docs {
		if d.text != "" {
			texts = append(texts, d.text)
			kept = append(kept, d)
		}
	}
	if len(texts) == 0 {
		return
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		o.log.Warn("failed to embed interview documents", zap.Error(err))
		return
	}

	// Recall prior material near this candidate before the new documents
	// join the index.
	if hits, err := o.search.SearchSimilar(ctx, vectors[0], 3); err != nil {
		o.log.Warn("similarity recall failed", zap.Error(err))
	} else if len(hits) > 0 {
		o.log.Info("recalled similar interview material", zap.Int("hits", len(hits)))
	}

	for i, d := range kept {
		meta := search.Metadata{Source: "pipeline", Type: d.docType, CandidateID: candidateID}
		if err := o.search.AddDocument(ctx, d.text, vectors[i], meta); err != nil {
			o.log.Warn("failed to index document",
				zap.String("doc_type", d.docType), zap.Error(err))
		}
	}
}

// transcriptText flattens the interview into question/answer lines.
func transcriptText(interview types.InterviewData) string {
	answers := make(map[string]string, len(interview.Responses))
	for _, r := range interview.Responses {
		answers[r.QuestionID] = r.Text
	}

	var b strings.Builder
	for _, q := range interview.Questions {
		fmt.Fprintf(&b, "Q: %s\n", q.Text)
		if a := answers[q.ID]; a != "" {
			fmt.Fprintf(&b, "A: %s\n", a)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (o *Orchestrator) report(stage, message string) {
	o.log.Info(message, zap.String("stage", stage))
	if o.progress != nil {
		o.progress(ProgressEvent{Stage: stage, Message: message})
	}
}
