// Package websearch discovers candidates through keyword web search scoped
// to profile pages. With a SerpAPI key it reads structured organic results;
// without one it falls back to scraping the result page HTML.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/source"
	"sourcing-engine/internal/source/util"
)

const profileSiteFilter = "site:linkedin.com/in"

type Config struct {
	SerpAPIKey string
}

type Finder struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	log     *zap.Logger

	serpEndpoint   string
	searchEndpoint string
}

func New(cfg Config, limiter *util.HostLimiter, log *zap.Logger) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{
		cfg:            cfg,
		hc:             &http.Client{Timeout: 15 * time.Second},
		limiter:        limiter,
		log:            log,
		serpEndpoint:   "https://serpapi.com/search",
		searchEndpoint: "https://www.google.com/search",
	}
}

func (f *Finder) Name() string { return "web_search" }

// Find scopes the query to profile pages and keeps only profile links.
func (f *Finder) Find(ctx context.Context, query string, maxResults int) []domain.CandidateStub {
	return f.search(ctx, query, maxResults, true)
}

// FindRaw is the forced reissue used by the fallback chain: same providers,
// but every organic result is accepted, not just recognizable profile URLs.
func (f *Finder) FindRaw(ctx context.Context, query string, maxResults int) []domain.CandidateStub {
	return f.search(ctx, query, maxResults, false)
}

// Raw adapts the forced reissue to the Finder interface so the orchestrator
// can hold it in its fallback chain.
func (f *Finder) Raw() source.Finder { return rawFinder{f} }

type rawFinder struct{ f *Finder }

func (r rawFinder) Name() string { return "web_search_raw" }

func (r rawFinder) Find(ctx context.Context, query string, maxResults int) []domain.CandidateStub {
	return r.f.FindRaw(ctx, query, maxResults)
}

func (f *Finder) search(ctx context.Context, query string, maxResults int, profilesOnly bool) []domain.CandidateStub {
	scoped := query + " " + profileSiteFilter

	var (
		stubs []domain.CandidateStub
		err   error
	)
	if f.cfg.SerpAPIKey != "" {
		stubs, err = f.searchSerpAPI(ctx, scoped, maxResults, profilesOnly)
	} else {
		stubs, err = f.scrapeResults(ctx, scoped, maxResults, profilesOnly)
	}
	if err != nil {
		f.log.Warn("web search failed", zap.Error(err))
		return nil
	}
	return stubs
}

type serpResponse struct {
	OrganicResults []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

func (f *Finder) searchSerpAPI(ctx context.Context, query string, maxResults int, profilesOnly bool) ([]domain.CandidateStub, error) {
	if err := f.limiter.WaitURL(ctx, f.serpEndpoint); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("api_key", f.cfg.SerpAPIKey)
	q.Set("num", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.serpEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("serpapi status %d", res.StatusCode)
	}

	var sr serpResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("serpapi decode: %w", err)
	}

	var stubs []domain.CandidateStub
	for _, item := range sr.OrganicResults {
		if item.Link == "" {
			continue
		}
		if profilesOnly && !source.IsProfileURL(item.Link) {
			continue
		}
		loc := source.CanonicalProfileURL(item.Link)
		name := item.Title
		if name == "" {
			name = source.NameFromLocator(loc)
		}
		stubs = append(stubs, domain.CandidateStub{
			Locator:  loc,
			Name:     name,
			Headline: item.Snippet,
			Source:   "serpapi",
		})
		if len(stubs) >= maxResults {
			break
		}
	}
	return stubs, nil
}

func (f *Finder) scrapeResults(ctx context.Context, query string, maxResults int, profilesOnly bool) ([]domain.CandidateStub, error) {
	if err := f.limiter.WaitURL(ctx, f.searchEndpoint); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("num", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.searchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("search status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search html: %w", err)
	}

	seen := map[string]bool{}
	var stubs []domain.CandidateStub
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if profilesOnly && !source.IsProfileURL(href) {
			return true
		}
		loc := source.CanonicalProfileURL(href)
		if loc == "" || seen[loc] {
			return true
		}
		if !profilesOnly && !source.IsProfileURL(loc) {
			// raw mode still needs an http(s) target worth resolving
			if u, err := url.Parse(loc); err != nil || u.Scheme == "" || u.Host == "" {
				return true
			}
		}
		seen[loc] = true

		name := util.CleanText(a.Text())
		if len(name) < 2 {
			name = source.NameFromLocator(loc)
		}
		stubs = append(stubs, domain.CandidateStub{
			Locator: loc,
			Name:    name,
			Source:  "web_search",
		})
		return len(stubs) < maxResults
	})
	return stubs, nil
}
