package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/events"
	"sourcing-engine/internal/pipeline"
)

type fakeDiscoverer struct {
	stubs []domain.CandidateStub
}

func (f fakeDiscoverer) Discover(_ context.Context, _ string, maxResults int) []domain.CandidateStub {
	if len(f.stubs) > maxResults {
		return f.stubs[:maxResults]
	}
	return f.stubs
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, locator string) domain.CandidateProfile {
	return domain.CandidateProfile{Locator: locator, Name: "Jane Doe"}
}

type fakeBatch struct{}

func (fakeBatch) RunBatch(_ context.Context, _ string, jobs []pipeline.JobSpec) []pipeline.JobResult {
	results := make([]pipeline.JobResult, len(jobs))
	for i, j := range jobs {
		topN := j.TopN
		if topN <= 0 {
			topN = 5
		}
		res := pipeline.JobResult{JobID: j.JobID, Query: j.Query, CandidatesFound: 7}
		if res.JobID == "" {
			res.JobID = "generated"
		}
		for k := 0; k < topN; k++ {
			res.TopCandidates = append(res.TopCandidates, pipeline.RankedCandidate{
				Profile: domain.CandidateProfile{Locator: "https://example.com/in/c", Name: "C"},
				Score:   domain.ScoreBreakdown{Aggregate: 9.0 - float64(k), Confidence: 1.0},
				Message: "hi",
			})
		}
		results[i] = res
	}
	return results
}

func testMux() http.Handler {
	return NewMux(Deps{
		Discoverer: fakeDiscoverer{stubs: []domain.CandidateStub{
			{Locator: "https://example.com/in/a", Name: "A"},
			{Locator: "https://example.com/in/b", Name: "B"},
		}},
		Resolver: fakeResolver{},
		Batch:    fakeBatch{},
		Hub:      events.NewHub(),
	})
}

func TestSearchReturnsResults(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"query":"backend engineer","max_results":1}`))
	rr := httptest.NewRecorder()
	testMux().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Results []domain.CandidateStub `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"  "}`))
	rr := httptest.NewRecorder()
	testMux().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	var e APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil || e.Error == "" {
		t.Fatalf("expected structured error, got %s", rr.Body.String())
	}
}

func TestProfileRejectsEmptyLocator(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rr := httptest.NewRecorder()
	testMux().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestProfileResolvesByQueryParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/profile?locator=https://example.com/in/jane", nil)
	rr := httptest.NewRecorder()
	testMux().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var p domain.CandidateProfile
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Locator != "https://example.com/in/jane" || p.Name != "Jane Doe" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestCandidatesBatchShape(t *testing.T) {
	body := `{"jobs":[
		{"job_id":"j1","title":"Backend Engineer","description":"apis"},
		{"title":"ML Engineer","description":"models"}
	],"top_n":5}`
	req := httptest.NewRequest(http.MethodPost, "/candidates", strings.NewReader(body))
	rr := httptest.NewRecorder()
	testMux().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Results []struct {
			JobID           string `json:"job_id"`
			CandidatesFound int    `json:"candidates_found"`
			TopCandidates   []struct {
				FitScore        float64 `json:"fit_score"`
				OutreachMessage string  `json:"outreach_message"`
			} `json:"top_candidates"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("result groups = %d, want 2", len(resp.Results))
	}
	for _, g := range resp.Results {
		if g.JobID == "" {
			t.Fatal("missing job_id")
		}
		if len(g.TopCandidates) > 5 {
			t.Fatalf("top_candidates = %d, want <= 5", len(g.TopCandidates))
		}
		for i := 1; i < len(g.TopCandidates); i++ {
			if g.TopCandidates[i].FitScore > g.TopCandidates[i-1].FitScore {
				t.Fatal("top_candidates not sorted descending")
			}
		}
	}
}

func TestCandidatesRejectsEmptyJobs(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/candidates", strings.NewReader(`{"jobs":[]}`))
	rr := httptest.NewRecorder()
	testMux().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/search", nil)
	rr := httptest.NewRecorder()
	testMux().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rr.Code)
	}
}
