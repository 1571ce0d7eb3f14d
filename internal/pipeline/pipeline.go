// Package pipeline chains discovery, profile resolution, scoring and
// outreach for a batch of jobs. Jobs run in parallel; within a job the
// stages run sequentially per candidate with no shared mutable state.
package pipeline

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/events"
	"sourcing-engine/internal/store"
)

// discoverOverfetch controls how many stubs are requested per requested
// top-N slot, so ranking has something to choose from.
const discoverOverfetch = 3

type Discoverer interface {
	Discover(ctx context.Context, query string, maxResults int) []domain.CandidateStub
}

type ProfileResolver interface {
	Resolve(ctx context.Context, locator string) domain.CandidateProfile
}

type FitScorer interface {
	Score(p domain.CandidateProfile, q domain.JobQuery) domain.ScoreBreakdown
}

type MessageComposer interface {
	Compose(ctx context.Context, p domain.CandidateProfile, q domain.JobQuery) string
}

// JobSpec is one job in a batch request. A missing JobID gets a generated
// uuid so persistence and events stay addressable.
type JobSpec struct {
	JobID string
	Query domain.JobQuery
	TopN  int
}

// RankedCandidate is one fully processed candidate in a job's result.
type RankedCandidate struct {
	Profile domain.CandidateProfile
	Score   domain.ScoreBreakdown
	Message string
}

// JobResult is the outcome of one job's run.
type JobResult struct {
	JobID           string
	Query           domain.JobQuery
	CandidatesFound int
	TopCandidates   []RankedCandidate
	Elapsed         time.Duration
}

type Pipeline struct {
	discoverer Discoverer
	resolver   ProfileResolver
	scorer     FitScorer
	composer   MessageComposer
	db         *sql.DB // nil disables persistence
	hub        *events.Hub
	log        *zap.Logger
}

func New(d Discoverer, r ProfileResolver, s FitScorer, c MessageComposer,
	db *sql.DB, hub *events.Hub, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		discoverer: d,
		resolver:   r,
		scorer:     s,
		composer:   c,
		db:         db,
		hub:        hub,
		log:        log,
	}
}

// RunBatch processes every job in parallel and returns results in the input
// order. Individual job failures never abort the batch.
func (p *Pipeline) RunBatch(ctx context.Context, reqID string, jobs []JobSpec) []JobResult {
	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = p.RunJob(ctx, reqID, job)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// RunJob executes the full stage chain for one job: discover, resolve every
// stub, score, rank, compose outreach for the winners, persist.
func (p *Pipeline) RunJob(ctx context.Context, reqID string, job JobSpec) JobResult {
	start := time.Now()

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	topN := job.TopN
	if topN <= 0 {
		topN = 5
	}

	p.hub.Publish(events.MakeEvent(reqID, events.TypeJobStarted, map[string]any{
		"job_id": job.JobID,
		"title":  job.Query.Title,
	}))

	stubs := p.discoverer.Discover(ctx, job.Query.SearchText(), topN*discoverOverfetch)
	p.hub.Publish(events.MakeEvent(reqID, events.TypeCandidatesFound, map[string]any{
		"job_id": job.JobID,
		"count":  len(stubs),
	}))

	ranked := make([]RankedCandidate, 0, len(stubs))
	for _, stub := range stubs {
		prof := p.resolver.Resolve(ctx, stub.Locator)
		if prof.Name == "" {
			prof.Name = stub.Name
		}
		if prof.Headline == "" {
			prof.Headline = stub.Headline
		}
		ranked = append(ranked, RankedCandidate{
			Profile: prof,
			Score:   p.scorer.Score(prof, job.Query),
		})
	}

	// stable so equal scores keep discovery priority order
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score.Aggregate > ranked[b].Score.Aggregate
	})

	top := ranked
	if len(top) > topN {
		top = top[:topN]
	}
	for i := range top {
		top[i].Message = p.composer.Compose(ctx, top[i].Profile, job.Query)
	}

	p.hub.Publish(events.MakeEvent(reqID, events.TypeJobScored, map[string]any{
		"job_id": job.JobID,
		"top":    len(top),
	}))

	p.persist(ctx, job, top)

	p.log.Info("job pipeline finished",
		zap.String("job_id", job.JobID),
		zap.Int("discovered", len(stubs)),
		zap.Int("ranked", len(top)),
		zap.Duration("took", time.Since(start)))

	return JobResult{
		JobID:           job.JobID,
		Query:           job.Query,
		CandidatesFound: len(stubs),
		TopCandidates:   top,
		Elapsed:         time.Since(start),
	}
}

// persist is best effort: a storage failure is logged, never surfaced.
func (p *Pipeline) persist(ctx context.Context, job JobSpec, top []RankedCandidate) {
	if p.db == nil {
		return
	}
	rec := store.RunRecord{JobID: job.JobID, Query: job.Query}
	for _, c := range top {
		if c.Profile.Locator == "" {
			continue
		}
		rec.Candidates = append(rec.Candidates, store.CandidateRecord{
			Profile: c.Profile,
			Score:   c.Score,
			Message: c.Message,
		})
	}
	if err := store.SaveRun(ctx, p.db, rec); err != nil {
		p.log.Warn("persist run failed",
			zap.String("job_id", job.JobID), zap.Error(err))
	}
}
