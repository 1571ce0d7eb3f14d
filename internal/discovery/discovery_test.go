package discovery

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"sourcing-engine/internal/cache"
	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/source"
	"sourcing-engine/internal/store"
)

type stubFinder struct {
	name  string
	stubs []domain.CandidateStub
	calls atomic.Int64
	delay time.Duration
}

func (s *stubFinder) Name() string { return s.name }

func (s *stubFinder) Find(ctx context.Context, _ string, maxResults int) []domain.CandidateStub {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.delay):
		}
	}
	if len(s.stubs) > maxResults {
		return s.stubs[:maxResults]
	}
	return s.stubs
}

func stub(locator string) domain.CandidateStub {
	return domain.CandidateStub{Locator: locator, Source: "test"}
}

func noCache() *cache.Gateway {
	return cache.New(nil, time.Hour, nil)
}

func realCache(t *testing.T) *cache.Gateway {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return cache.New(db.Pool, time.Hour, nil)
}

func TestDiscoverDedupesInPriorityOrder(t *testing.T) {
	// The slower high-priority adapter must still come first in the output.
	api := &stubFinder{name: "api", delay: 20 * time.Millisecond,
		stubs: []domain.CandidateStub{stub("https://x/in/a"), stub("https://x/in/b")}}
	web := &stubFinder{name: "web",
		stubs: []domain.CandidateStub{stub("https://x/in/b"), stub("https://x/in/c")}}

	o := New(noCache(), []source.Finder{api, web}, nil, nil)
	got := o.Discover(context.Background(), "q", 10)

	want := []string{"https://x/in/a", "https://x/in/b", "https://x/in/c"}
	if len(got) != len(want) {
		t.Fatalf("want %d stubs, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Locator != w {
			t.Fatalf("position %d: want %s, got %s", i, w, got[i].Locator)
		}
	}
}

func TestDiscoverNeverEmpty(t *testing.T) {
	failing := &stubFinder{name: "failing"}
	o := New(noCache(), []source.Finder{failing}, []source.Finder{failing}, nil)

	got := o.Discover(context.Background(), "q", 5)
	if len(got) != 1 {
		t.Fatalf("want the single placeholder, got %d entries", len(got))
	}
	if got[0].Source != "fallback" {
		t.Fatalf("want placeholder stub, got %+v", got[0])
	}
}

func TestDiscoverZeroMaxResultsSkipsAdapters(t *testing.T) {
	f := &stubFinder{name: "f", stubs: []domain.CandidateStub{stub("https://x/in/a")}}
	o := New(noCache(), []source.Finder{f}, nil, nil)

	if got := o.Discover(context.Background(), "q", 0); len(got) != 0 {
		t.Fatalf("want empty result, got %+v", got)
	}
	if f.calls.Load() != 0 {
		t.Fatal("adapter must not be invoked for max_results <= 0")
	}
}

func TestDiscoverFallbackChainOrder(t *testing.T) {
	empty := &stubFinder{name: "empty"}
	first := &stubFinder{name: "first"}
	second := &stubFinder{name: "second",
		stubs: []domain.CandidateStub{stub("https://x/in/fb")}}

	o := New(noCache(), []source.Finder{empty}, []source.Finder{first, second}, nil)
	got := o.Discover(context.Background(), "q", 5)

	if len(got) != 1 || got[0].Locator != "https://x/in/fb" {
		t.Fatalf("want fallback result, got %+v", got)
	}
	if first.calls.Load() != 1 || second.calls.Load() != 1 {
		t.Fatal("fallbacks must be tried in order until one succeeds")
	}
}

func TestDiscoverTruncatesToMaxResults(t *testing.T) {
	f := &stubFinder{name: "f", stubs: []domain.CandidateStub{
		stub("https://x/in/a"), stub("https://x/in/b"), stub("https://x/in/c")}}
	o := New(noCache(), []source.Finder{f}, nil, nil)

	if got := o.Discover(context.Background(), "q", 2); len(got) != 2 {
		t.Fatalf("want 2 results, got %d", len(got))
	}
}

func TestDiscoverCacheShortCircuitsAdapters(t *testing.T) {
	f := &stubFinder{name: "f", stubs: []domain.CandidateStub{
		stub("https://x/in/a"), stub("https://x/in/b")}}
	o := New(realCache(t), []source.Finder{f}, nil, nil)
	ctx := context.Background()

	first := o.Discover(ctx, "same query", 5)
	second := o.Discover(ctx, "same query", 5)

	if f.calls.Load() != 1 {
		t.Fatalf("second identical query must not re-invoke adapters (calls=%d)", f.calls.Load())
	}
	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cached result differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}

	// A tighter cap on a cache hit truncates the cached list.
	if got := o.Discover(ctx, "same query", 1); len(got) != 1 {
		t.Fatalf("want truncated cache hit, got %d entries", len(got))
	}
	if f.calls.Load() != 1 {
		t.Fatal("truncated cache hit must not re-invoke adapters")
	}
}

func TestDiscoverCancelledContextFallsThrough(t *testing.T) {
	slow := &stubFinder{name: "slow", delay: time.Minute,
		stubs: []domain.CandidateStub{stub("https://x/in/slow")}}
	o := New(noCache(), []source.Finder{slow}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	done := make(chan []domain.CandidateStub, 1)
	go func() { done <- o.Discover(ctx, "q", 5) }()

	select {
	case got := <-done:
		if len(got) == 0 {
			t.Fatal("cancelled discovery must still return the placeholder")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("discovery hung on a cancelled context")
	}
}
