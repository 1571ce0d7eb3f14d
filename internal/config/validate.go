package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Validate checks the startup invariants. A failing rubric (weights not
// summing to 1.0, negative weights) is fatal: the engine must not score with
// an inconsistent rubric. Missing credentials are NOT errors; they disable
// the corresponding adapter at construction.
func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Cache.TTLSeconds <= 0 {
		errs = append(errs, "cache.ttl_seconds must be > 0")
	}

	w := cfg.Scoring.Weights
	for name, v := range map[string]float64{
		"education":  w.Education,
		"trajectory": w.Trajectory,
		"company":    w.Company,
		"skills":     w.Skills,
		"location":   w.Location,
		"tenure":     w.Tenure,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("scoring.weights.%s must be >= 0", name))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > 1e-6 {
		errs = append(errs, fmt.Sprintf("scoring.weights must sum to 1.0 (got %.4f)", sum))
	}

	rl := cfg.RateLimit
	if rl.RequestsPerSecond <= 0 {
		errs = append(errs, "rate_limit.requests_per_second must be > 0")
	}
	if rl.DelayMinMS < 0 || rl.DelayMaxMS < 0 {
		errs = append(errs, "rate_limit delays must be >= 0")
	}
	if rl.DelayMinMS > rl.DelayMaxMS {
		errs = append(errs, "rate_limit.delay_min_ms must be <= delay_max_ms")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// Normalize trims and dedupes the school/company lists in place.
func Normalize(cfg *Config) {
	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	cfg.Scoring.EliteSchools = trimList(cfg.Scoring.EliteSchools)
	cfg.Scoring.StrongSchools = trimList(cfg.Scoring.StrongSchools)
	cfg.Scoring.TopCompanies = trimList(cfg.Scoring.TopCompanies)
	cfg.Scoring.IndustryCompanies = trimList(cfg.Scoring.IndustryCompanies)
	cfg.Sources.PeopleAPI.Hosts = trimList(cfg.Sources.PeopleAPI.Hosts)
}
