package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sourcing-engine/internal/source/util"
)

func testLimiter() *util.HostLimiter {
	return util.NewHostLimiter(1000, 1000, 0, 0)
}

func TestFindParsesSerpAPIResults(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic_results":[
			{"link":"https://www.linkedin.com/in/jane-doe?utm=x","title":"Jane Doe - Engineer","snippet":"Backend at Acme"},
			{"link":"https://example.com/blog/post","title":"Not a profile"},
			{"link":"https://www.linkedin.com/in/john-smith","title":"John Smith"}
		]}`))
	}))
	defer srv.Close()

	f := New(Config{SerpAPIKey: "k"}, testLimiter(), nil)
	f.serpEndpoint = srv.URL

	stubs := f.Find(context.Background(), "backend engineer", 10)
	if len(stubs) != 2 {
		t.Fatalf("got %d stubs, want 2 (non-profile link filtered): %+v", len(stubs), stubs)
	}
	if stubs[0].Locator != "https://www.linkedin.com/in/jane-doe" {
		t.Fatalf("query params not stripped: %q", stubs[0].Locator)
	}
	if stubs[0].Name != "Jane Doe - Engineer" || stubs[0].Headline != "Backend at Acme" {
		t.Fatalf("title/snippet not carried: %+v", stubs[0])
	}
	if gotQuery == "backend engineer" {
		t.Fatal("query should be scoped to profile pages")
	}
}

func TestFindRawKeepsNonProfileLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic_results":[
			{"link":"https://example.com/people/jane","title":"Jane"}
		]}`))
	}))
	defer srv.Close()

	f := New(Config{SerpAPIKey: "k"}, testLimiter(), nil)
	f.serpEndpoint = srv.URL

	if got := f.Find(context.Background(), "q", 5); len(got) != 0 {
		t.Fatalf("profile mode kept a non-profile link: %+v", got)
	}
	raw := f.Raw().Find(context.Background(), "q", 5)
	if len(raw) != 1 {
		t.Fatalf("raw mode dropped the link: %+v", raw)
	}
}

func TestFindScrapesHTMLWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<a href="https://www.linkedin.com/in/jane-doe">Jane Doe</a>
			<a href="https://www.linkedin.com/in/jane-doe">Jane Doe again</a>
			<a href="/settings">Settings</a>
			<a href="https://www.linkedin.com/in/john-smith"></a>
		</body></html>`))
	}))
	defer srv.Close()

	f := New(Config{}, testLimiter(), nil)
	f.searchEndpoint = srv.URL

	stubs := f.Find(context.Background(), "q", 10)
	if len(stubs) != 2 {
		t.Fatalf("got %d stubs, want 2 deduped profiles: %+v", len(stubs), stubs)
	}
	if stubs[0].Name != "Jane Doe" {
		t.Fatalf("anchor text not used as name: %q", stubs[0].Name)
	}
	// empty anchor text falls back to a name derived from the slug
	if stubs[1].Name != "John Smith" {
		t.Fatalf("slug name fallback: %q", stubs[1].Name)
	}
}

func TestFindAbsorbsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := New(Config{SerpAPIKey: "k"}, testLimiter(), nil)
	f.serpEndpoint = srv.URL

	if got := f.Find(context.Background(), "q", 5); got != nil {
		t.Fatalf("expected nil on provider failure, got %+v", got)
	}
}
