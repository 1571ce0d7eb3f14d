package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Weights are the rubric category weights. They must sum to 1.0; Validate
// refuses to let the engine start with an inconsistent rubric.
type Weights struct {
	Education  float64 `yaml:"education" json:"education"`
	Trajectory float64 `yaml:"trajectory" json:"trajectory"`
	Company    float64 `yaml:"company" json:"company"`
	Skills     float64 `yaml:"skills" json:"skills"`
	Location   float64 `yaml:"location" json:"location"`
	Tenure     float64 `yaml:"tenure" json:"tenure"`
}

func (w Weights) Sum() float64 {
	return w.Education + w.Trajectory + w.Company + w.Skills + w.Location + w.Tenure
}

// ScoringConfig carries the rubric: weights plus the school/company lists
// the education and company categories bucket against. Jitter is the opt-in
// seeded tie-breaker; leave it off for reproducible rankings.
type ScoringConfig struct {
	Weights           Weights  `yaml:"weights" json:"weights"`
	EliteSchools      []string `yaml:"elite_schools" json:"elite_schools"`
	StrongSchools     []string `yaml:"strong_schools" json:"strong_schools"`
	TopCompanies      []string `yaml:"top_companies" json:"top_companies"`
	IndustryCompanies []string `yaml:"industry_companies" json:"industry_companies"`
	Jitter            bool     `yaml:"jitter" json:"jitter"`
	JitterSeed        int64    `yaml:"jitter_seed" json:"jitter_seed"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
		Debug   bool   `yaml:"debug" json:"debug"`
		JSONLog bool   `yaml:"json_log" json:"json_log"`
	} `yaml:"app" json:"app"`

	Cache struct {
		TTLSeconds int `yaml:"ttl_seconds" json:"ttl_seconds"`
	} `yaml:"cache" json:"cache"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
		DelayMinMS        int     `yaml:"delay_min_ms" json:"delay_min_ms"`
		DelayMaxMS        int     `yaml:"delay_max_ms" json:"delay_max_ms"`
		MaxPerMinute      int     `yaml:"max_per_minute" json:"max_per_minute"`
		MaxPerHour        int     `yaml:"max_per_hour" json:"max_per_hour"`
	} `yaml:"rate_limit" json:"rate_limit"`

	Sources struct {
		PeopleAPI struct {
			Enabled bool     `yaml:"enabled" json:"enabled"`
			Hosts   []string `yaml:"hosts" json:"hosts"`
			APIKey  string   `yaml:"api_key" json:"-"`
		} `yaml:"people_api" json:"people_api"`

		WebSearch struct {
			Enabled    bool   `yaml:"enabled" json:"enabled"`
			SerpAPIKey string `yaml:"serpapi_key" json:"-"`
		} `yaml:"web_search" json:"web_search"`

		Direct struct {
			Enabled bool `yaml:"enabled" json:"enabled"`
		} `yaml:"direct" json:"direct"`
	} `yaml:"sources" json:"sources"`

	Scoring ScoringConfig `yaml:"scoring" json:"scoring"`

	Outreach struct {
		GeminiAPIKey string `yaml:"gemini_api_key" json:"-"`
		GeminiModel  string `yaml:"gemini_model" json:"gemini_model"`
		MaxDescChars int    `yaml:"max_desc_chars" json:"max_desc_chars"`
	} `yaml:"outreach" json:"outreach"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}

// Default returns a runnable configuration: static fallback only, default
// rubric weights matching the shipped config file.
func Default() Config {
	var cfg Config
	ApplyDefaults(&cfg)
	cfg.Scoring.Weights = Weights{
		Education:  0.20,
		Trajectory: 0.20,
		Company:    0.15,
		Skills:     0.25,
		Location:   0.10,
		Tenure:     0.10,
	}
	return cfg
}

func ApplyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 38581
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 3600
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 0.5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 1
	}
	if cfg.RateLimit.DelayMaxMS == 0 {
		cfg.RateLimit.DelayMaxMS = 2000
	}
	if cfg.Outreach.GeminiModel == "" {
		cfg.Outreach.GeminiModel = "gemini-2.5-flash"
	}
	if cfg.Outreach.MaxDescChars == 0 {
		cfg.Outreach.MaxDescChars = 200
	}
}
