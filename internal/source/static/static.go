// Package static is the offline fallback adapter: a small fixed candidate
// set that always succeeds, so discovery can never be exhausted by network
// failures alone.
package static

import (
	"context"

	"sourcing-engine/internal/domain"
)

type Finder struct{}

func New() *Finder { return &Finder{} }

func (f *Finder) Name() string { return "static" }

var samples = []domain.CandidateStub{
	{
		Locator:  "https://www.linkedin.com/in/sarah-johnson-ai",
		Name:     "Sarah Johnson",
		Headline: "Senior ML Engineer at TechCorp",
		Source:   "static",
	},
	{
		Locator:  "https://www.linkedin.com/in/michael-chen-dev",
		Name:     "Michael Chen",
		Headline: "Backend Engineer | Python | AWS",
		Source:   "static",
	},
	{
		Locator:  "https://www.linkedin.com/in/emily-rodriguez",
		Name:     "Emily Rodriguez",
		Headline: "Software Engineer | Full Stack | React",
		Source:   "static",
	},
}

func (f *Finder) Find(_ context.Context, _ string, maxResults int) []domain.CandidateStub {
	if maxResults <= 0 {
		return nil
	}
	if maxResults > len(samples) {
		maxResults = len(samples)
	}
	out := make([]domain.CandidateStub, maxResults)
	copy(out, samples[:maxResults])
	return out
}

// Placeholder is the terminal guarantee: discovery returns this single
// entry, with an empty locator, when every adapter and fallback produced
// nothing. Callers always receive at least one entry.
func Placeholder() domain.CandidateStub {
	return domain.CandidateStub{Name: "No candidates found", Source: "fallback"}
}
