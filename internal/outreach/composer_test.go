package outreach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sourcing-engine/internal/domain"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func sampleProfile() domain.CandidateProfile {
	return domain.CandidateProfile{
		Locator:         "https://www.linkedin.com/in/jane",
		Name:            "Jane Doe",
		CurrentEmployer: "Acme",
		Skills:          []string{"Python", "Go"},
		Education:       []domain.Education{{School: "MIT"}},
	}
}

func sampleQuery() domain.JobQuery {
	return domain.JobQuery{
		Title:       "Backend Engineer",
		Description: "Build APIs for a fast-growing ML platform in Mountain View.",
	}
}

func TestComposeUsesGenerator(t *testing.T) {
	stub := &stubGenerator{response: "Hello Jane, your Python work at Acme caught my eye."}
	c := New(stub, 200, nil)

	msg := c.Compose(context.Background(), sampleProfile(), sampleQuery())
	if msg != stub.response {
		t.Fatalf("got %q", msg)
	}
	if !strings.Contains(stub.lastPrompt, "Jane Doe") {
		t.Fatalf("prompt missing candidate name: %q", stub.lastPrompt)
	}
}

func TestComposeFallsBackOnGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	c := New(stub, 200, nil)

	msg := c.Compose(context.Background(), sampleProfile(), sampleQuery())
	if msg == "" {
		t.Fatal("fallback must return a non-empty message")
	}
	if !strings.Contains(msg, "Jane Doe") || !strings.Contains(msg, "Acme") {
		t.Fatalf("template missing personalization: %q", msg)
	}
}

func TestComposeUnconfiguredUsesTemplate(t *testing.T) {
	c := New(nil, 30, nil)

	msg := c.Compose(context.Background(), sampleProfile(), sampleQuery())
	if msg == "" {
		t.Fatal("compose must never return empty")
	}
	if !strings.Contains(msg, "...") {
		t.Fatalf("long description should be truncated: %q", msg)
	}
}

func TestComposeEmptyProfileStillNonEmpty(t *testing.T) {
	c := New(nil, 200, nil)

	msg := c.Compose(context.Background(), domain.CandidateProfile{}, sampleQuery())
	if msg == "" {
		t.Fatal("compose must never return empty")
	}
	if !strings.Contains(msg, "Hi there") {
		t.Fatalf("expected neutral salutation: %q", msg)
	}
}
