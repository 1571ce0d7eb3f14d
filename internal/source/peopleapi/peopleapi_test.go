package peopleapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sourcing-engine/internal/source/util"
)

func testLimiter() *util.HostLimiter {
	return util.NewHostLimiter(1000, 1000, 0, 0)
}

func TestNewDisabledWithoutCredential(t *testing.T) {
	if f := New(Config{Hosts: []string{"api.example.com"}}, testLimiter(), nil); f != nil {
		t.Fatal("expected nil finder without an API key")
	}
	if f := New(Config{APIKey: "k"}, testLimiter(), nil); f != nil {
		t.Fatal("expected nil finder without hosts")
	}
}

func TestFindParsesSearchResponse(t *testing.T) {
	var gotKey, gotHost string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-rapidapi-key")
		gotHost = r.Header.Get("x-rapidapi-host")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"public_id":"jane-doe","full_name":"Jane Doe","headline":"Backend at Acme"},
			{"public_id":"","full_name":"No ID"},
			{"public_id":"john-smith","full_name":"John Smith","headline":"ML at Beta"}
		]}`))
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	f := New(Config{Hosts: []string{host}, APIKey: "secret"}, testLimiter(), nil)
	f.scheme = "http"

	stubs := f.Find(context.Background(), "backend engineer", 10)
	if len(stubs) != 2 {
		t.Fatalf("got %d stubs, want 2 (missing public_id skipped): %+v", len(stubs), stubs)
	}
	if stubs[0].Locator != "https://www.linkedin.com/in/jane-doe" {
		t.Fatalf("locator = %q", stubs[0].Locator)
	}
	if stubs[0].Name != "Jane Doe" || stubs[0].Headline != "Backend at Acme" {
		t.Fatalf("fields not carried: %+v", stubs[0])
	}
	if gotKey != "secret" || gotHost != host {
		t.Fatalf("auth headers: key=%q host=%q", gotKey, gotHost)
	}
}

func TestFindRotatesToNextHostOnFailure(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"public_id":"jane-doe","full_name":"Jane Doe"}]}`))
	}))
	defer good.Close()

	hosts := []string{
		strings.TrimPrefix(bad.URL, "http://"),
		strings.TrimPrefix(good.URL, "http://"),
	}
	f := New(Config{Hosts: hosts, APIKey: "k"}, testLimiter(), nil)
	f.scheme = "http"

	stubs := f.Find(context.Background(), "q", 5)
	if len(stubs) != 1 || stubs[0].Name != "Jane Doe" {
		t.Fatalf("host rotation failed: %+v", stubs)
	}
}

func TestFindCapsAtMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"public_id":"a","full_name":"A"},
			{"public_id":"b","full_name":"B"},
			{"public_id":"c","full_name":"C"}
		]}`))
	}))
	defer srv.Close()

	f := New(Config{Hosts: []string{strings.TrimPrefix(srv.URL, "http://")}, APIKey: "k"}, testLimiter(), nil)
	f.scheme = "http"

	if stubs := f.Find(context.Background(), "q", 2); len(stubs) != 2 {
		t.Fatalf("got %d stubs, want 2", len(stubs))
	}
}
