// Package profile resolves a candidate locator into structured attributes.
// Resolution is best effort: a profile whose page cannot be fetched or
// parsed comes back with only the locator set, which is a valid terminal
// state; scoring proceeds on partial data with lowered confidence.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"sourcing-engine/internal/cache"
	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/source/util"
)

var (
	githubRe  = regexp.MustCompile(`https?://github\.com/[\w-]+`)
	twitterRe = regexp.MustCompile(`https?://twitter\.com/[\w-]+`)
	websiteRe = regexp.MustCompile(`https?://[\w.-]+\.[a-z]{2,}\S*`)
)

type Resolver struct {
	cache   *cache.Gateway
	hc      *http.Client
	limiter *util.HostLimiter
	log     *zap.Logger
}

func New(gw *cache.Gateway, limiter *util.HostLimiter, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		cache:   gw,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		log:     log,
	}
}

// Resolve fetches and parses the profile page behind locator, cache-backed
// by the locator key. It never fails: every error path degrades to a profile
// carrying only the locator.
func (r *Resolver) Resolve(ctx context.Context, locator string) domain.CandidateProfile {
	p := domain.CandidateProfile{Locator: locator}
	if locator == "" {
		return p
	}

	key := cache.Key("profile", locator)
	if b, ok := r.cache.Get(ctx, key); ok {
		var cached domain.CandidateProfile
		if err := json.Unmarshal(b, &cached); err == nil && cached.Locator != "" {
			return cached
		}
	}

	doc, err := r.fetch(ctx, locator)
	if err != nil {
		r.log.Warn("profile fetch failed",
			zap.String("locator", locator), zap.Error(err))
		return p
	}

	parseInto(&p, doc)

	if b, err := json.Marshal(p); err == nil {
		r.cache.Set(ctx, key, b, 0)
	}
	return p
}

func (r *Resolver) fetch(ctx context.Context, locator string) (*goquery.Document, error) {
	if r.limiter != nil {
		if err := r.limiter.WaitURL(ctx, locator); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := r.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("profile parse html: %w", err)
	}
	return doc, nil
}

// parseInto extracts whatever structured sections the page has. Absent
// sections leave the field at its zero value rather than failing the whole
// resolution.
func parseInto(p *domain.CandidateProfile, doc *goquery.Document) {
	p.Name = util.CleanText(doc.Find("h1").First().Text())
	p.Headline = util.CleanText(doc.Find(`div[class*="text-body-medium"]`).First().Text())
	p.Location = util.CleanText(doc.Find(`span[class*="text-body-small"]`).First().Text())

	doc.Find("section#experience li").Each(func(_ int, li *goquery.Selection) {
		exp := domain.Experience{
			Title:    util.CleanText(li.Find(`span[class*="mr1"]`).First().Text()),
			Employer: util.CleanText(li.Find(`span[class*="t-14"]`).First().Text()),
			Duration: util.CleanText(li.Find(`span[class*="date-range"]`).First().Text()),
		}
		if exp.Title == "" && exp.Employer == "" {
			return
		}
		p.Experience = append(p.Experience, exp)
	})
	if len(p.Experience) > 0 {
		p.CurrentEmployer = p.Experience[0].Employer
	}

	doc.Find("section#education li").Each(func(_ int, li *goquery.Selection) {
		edu := domain.Education{
			School: util.CleanText(li.Find(`span[class*="mr1"]`).First().Text()),
			Degree: util.CleanText(li.Find(`span[class*="t-14"]`).First().Text()),
		}
		if edu.School == "" && edu.Degree == "" {
			return
		}
		p.Education = append(p.Education, edu)
	})

	doc.Find(`section#skills span[class*="mr1"]`).Each(func(_ int, s *goquery.Selection) {
		if skill := util.CleanText(s.Text()); skill != "" {
			p.Skills = append(p.Skills, skill)
		}
	})

	// Social links hide in the about text, if anywhere.
	about := doc.Find("section#about").Text()
	if m := githubRe.FindString(about); m != "" {
		p.GitHubURL = m
	}
	if m := twitterRe.FindString(about); m != "" {
		p.TwitterURL = m
	}
	if p.GitHubURL == "" && p.TwitterURL == "" {
		if m := websiteRe.FindString(about); m != "" {
			p.Website = m
		}
	}
}
