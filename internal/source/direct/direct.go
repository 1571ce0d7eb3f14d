// Package direct scrapes the provider's own people-search page. Best effort
// only: anti-bot measures make this the weakest strategy, so the
// orchestrator uses it as a fallback, never in the concurrent fan-out.
package direct

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/source"
	"sourcing-engine/internal/source/util"
)

type Finder struct {
	hc       *http.Client
	limiter  *util.HostLimiter
	log      *zap.Logger
	endpoint string
}

func New(limiter *util.HostLimiter, log *zap.Logger) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{
		hc:       &http.Client{Timeout: 10 * time.Second},
		limiter:  limiter,
		log:      log,
		endpoint: "https://www.linkedin.com/search/results/people/",
	}
}

func (f *Finder) Name() string { return "direct" }

func (f *Finder) Find(ctx context.Context, query string, maxResults int) []domain.CandidateStub {
	stubs, err := f.search(ctx, query, maxResults)
	if err != nil {
		f.log.Warn("direct search failed", zap.Error(err))
		return nil
	}
	return stubs
}

func (f *Finder) search(ctx context.Context, query string, maxResults int) ([]domain.CandidateStub, error) {
	if err := f.limiter.WaitURL(ctx, f.endpoint); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("keywords", query)
	q.Set("origin", "GLOBAL_SEARCH_HEADER")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9")

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("direct get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("direct status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("direct parse html: %w", err)
	}

	seen := map[string]bool{}
	var stubs []domain.CandidateStub
	doc.Find(`a[href*="/in/"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		loc := source.CanonicalProfileURL(href)
		if !source.IsProfileURL(loc) || seen[loc] {
			return true
		}
		seen[loc] = true

		stubs = append(stubs, domain.CandidateStub{
			Locator: loc,
			Name:    util.CleanText(a.Text()),
			Source:  "direct",
		})
		return len(stubs) < maxResults
	})
	return stubs, nil
}
