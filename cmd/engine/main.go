package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"sourcing-engine/internal/cache"
	"sourcing-engine/internal/config"
	"sourcing-engine/internal/discovery"
	"sourcing-engine/internal/events"
	"sourcing-engine/internal/httpapi"
	"sourcing-engine/internal/logger"
	"sourcing-engine/internal/outreach"
	"sourcing-engine/internal/pipeline"
	"sourcing-engine/internal/profile"
	"sourcing-engine/internal/scoring"
	"sourcing-engine/internal/secrets"
	"sourcing-engine/internal/source"
	"sourcing-engine/internal/source/direct"
	"sourcing-engine/internal/source/peopleapi"
	"sourcing-engine/internal/source/static"
	"sourcing-engine/internal/source/util"
	"sourcing-engine/internal/source/websearch"
	"sourcing-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("SOURCING_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable.
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		config.OverlayEnv(&cfg)
		config.Normalize(&cfg)
		return cfg, config.Validate(cfg)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	zl, err := logger.New(cfg.App.JSONLog, cfg.App.Debug)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// One engine per data dir: a second instance would fight over sqlite.
	fl := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := fl.TryLock()
	if err != nil {
		zl.Fatal("instance lock failed", zap.Error(err))
	}
	if !locked {
		zl.Fatal("another engine instance holds the data dir", zap.String("dir", dataDir))
	}
	defer func() { _ = fl.Unlock() }()

	dbPath := filepath.Join(dataDir, "sourcing.db")
	db, err := store.Open(dbPath)
	if err != nil {
		zl.Fatal("open database failed", zap.String("path", dbPath), zap.Error(err))
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	gw := cache.New(db.Pool, time.Duration(cfg.Cache.TTLSeconds)*time.Second, zl)

	limiter := util.NewHostLimiter(
		cfg.RateLimit.RequestsPerSecond,
		cfg.RateLimit.Burst,
		time.Duration(cfg.RateLimit.DelayMinMS)*time.Millisecond,
		time.Duration(cfg.RateLimit.DelayMaxMS)*time.Millisecond,
	)

	// Credentials: config file or env wins, otherwise the OS keychain.
	peopleKey := secrets.Resolve(cfg.Sources.PeopleAPI.APIKey, secrets.AccountPeopleAPI)
	serpKey := secrets.Resolve(cfg.Sources.WebSearch.SerpAPIKey, secrets.AccountSerpAPI)
	geminiKey := secrets.Resolve(cfg.Outreach.GeminiAPIKey, secrets.AccountGemini)

	var concurrent []source.Finder
	if cfg.Sources.PeopleAPI.Enabled {
		pf := peopleapi.New(peopleapi.Config{
			Hosts:  cfg.Sources.PeopleAPI.Hosts,
			APIKey: peopleKey,
		}, limiter, zl)
		if pf != nil {
			concurrent = append(concurrent, pf)
		} else {
			zl.Info("people_api adapter disabled: no credential")
		}
	}

	var ws *websearch.Finder
	if cfg.Sources.WebSearch.Enabled {
		ws = websearch.New(websearch.Config{SerpAPIKey: serpKey}, limiter, zl)
		concurrent = append(concurrent, ws)
	}

	var fallbacks []source.Finder
	if cfg.Sources.Direct.Enabled {
		fallbacks = append(fallbacks, direct.New(limiter, zl))
	}
	if ws != nil {
		fallbacks = append(fallbacks, ws.Raw())
	}
	fallbacks = append(fallbacks, static.New())

	orch := discovery.New(gw, concurrent, fallbacks, zl)
	resolver := profile.New(gw, limiter, zl)
	scorer := scoring.New(cfg.Scoring)

	var gen outreach.Generator
	if g, err := outreach.NewGeminiGenerator(context.Background(), geminiKey, cfg.Outreach.GeminiModel); err != nil {
		zl.Warn("gemini init failed, outreach falls back to templates", zap.Error(err))
	} else if g != nil {
		gen = g
	}
	composer := outreach.New(gen, cfg.Outreach.MaxDescChars, zl)

	hub := events.NewHub()
	pipe := pipeline.New(orch, resolver, scorer, composer, db.Pool, hub, zl)

	mux := httpapi.NewMux(httpapi.Deps{
		Log:         zl,
		Hub:         hub,
		Discoverer:  orch,
		Resolver:    resolver,
		Batch:       pipe,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})
	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover(zl),
		httpapi.AccessLog(zl),
		httpapi.Cors,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		zl.Fatal("listen failed", zap.String("addr", addr), zap.Error(err))
	}
	zl.Info("engine listening",
		zap.String("addr", "http://"+addr),
		zap.String("db", dbPath),
		zap.Int("concurrent_adapters", len(concurrent)),
		zap.Int("fallback_adapters", len(fallbacks)))

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.Serve(ln); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
