// Package peopleapi discovers candidates through a hosted people-search API
// (RapidAPI-style). It is the highest-priority adapter: structured JSON with
// names and headlines, no HTML parsing.
package peopleapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/source/util"
)

type Config struct {
	Hosts  []string // tried in order until enough results
	APIKey string
}

type Finder struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	log     *zap.Logger
	scheme  string
}

// New returns nil when no API key is configured: an absent credential
// disables the adapter, it never errors.
func New(cfg Config, limiter *util.HostLimiter, log *zap.Logger) *Finder {
	if cfg.APIKey == "" || len(cfg.Hosts) == 0 {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
		log:     log,
		scheme:  "https",
	}
}

func (f *Finder) Name() string { return "people_api" }

type searchResponse struct {
	Data []struct {
		PublicID string `json:"public_id"`
		FullName string `json:"full_name"`
		Headline string `json:"headline"`
	} `json:"data"`
}

func (f *Finder) Find(ctx context.Context, query string, maxResults int) []domain.CandidateStub {
	var out []domain.CandidateStub
	for _, host := range f.cfg.Hosts {
		stubs, err := f.searchHost(ctx, host, query, maxResults-len(out))
		if err != nil {
			f.log.Warn("people api host failed",
				zap.String("host", host), zap.Error(err))
			continue
		}
		out = append(out, stubs...)
		if len(out) >= maxResults {
			return out[:maxResults]
		}
	}
	return out
}

func (f *Finder) searchHost(ctx context.Context, host, query string, limit int) ([]domain.CandidateStub, error) {
	endpoint := fmt.Sprintf("%s://%s/search", f.scheme, host)
	if err := f.limiter.WaitURL(ctx, endpoint); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-rapidapi-key", f.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", host)

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("people api get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("people api status %d", res.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("people api decode: %w", err)
	}

	var stubs []domain.CandidateStub
	for _, p := range sr.Data {
		if p.PublicID == "" {
			continue
		}
		stubs = append(stubs, domain.CandidateStub{
			Locator:  "https://www.linkedin.com/in/" + p.PublicID,
			Name:     p.FullName,
			Headline: p.Headline,
			Source:   "people_api:" + host,
		})
		if len(stubs) >= limit {
			break
		}
	}
	return stubs, nil
}
