package main

import (
	"path/filepath"
	"runtime"
	"time"

	"archlens/internal/cachestore"
	"archlens/internal/config"
	"archlens/internal/history"
	"archlens/internal/jobs"
	"archlens/internal/logging"
	"archlens/internal/mcpserver"
	"archlens/internal/webhooks"
)

// archlensDir is the per-project dotdir archlens stores its history
// database and webhook config under, mirroring the teacher's .ckb
// directory convention. The projection cache is not rooted here: it is
// process-cwd-relative persisted state (out/cache), matching the schema
// and preset file locations.
const archlensDir = ".archlens"

// outDir is the cwd-relative root for every file archlens publishes as
// persisted state: out/schemas, out/presets, out/cache.
const outDir = "out"

func newLogger(format string) *logging.Logger {
	f := logging.FormatHuman
	if format == "json" {
		f = logging.FormatJSON
	}
	return logging.NewLogger(logging.Config{Format: f, Level: logging.Info})
}

// newRegistry builds a fully wired Registry rooted at repoRoot: projection
// cache, bounded worker pool, best-effort history log, and webhook notifier,
// all sized from the ambient ARCHLENS_* configuration.
func newRegistry(repoRoot string, logger *logging.Logger) *mcpserver.Registry {
	cfg := config.Default()
	if loaded, err := config.Load(""); err == nil {
		cfg = loaded.Config
	} else {
		logger.Warn("config failed to load, using defaults", map[string]interface{}{"error": err.Error()})
	}
	dotDir := filepath.Join(repoRoot, archlensDir)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	opt := mcpserver.Options{
		Logger:    logger,
		Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
		Runner:    jobs.NewRunner(workers, 64, logger),
		TestDelay: time.Duration(cfg.TestDelayMs) * time.Millisecond,
	}
	opt.Runner.Start()

	if cache, err := cachestore.NewStore(filepath.Join(outDir, "cache"), cachestore.Options{
		TTL:        time.Duration(cfg.CacheTTLMs) * time.Millisecond,
		MaxEntries: cfg.CacheMaxEntries,
		MaxBytes:   cfg.CacheMaxBytes,
	}); err == nil {
		opt.Cache = cache
	} else {
		logger.Warn("cache unavailable, running without a projection cache", map[string]interface{}{"error": err.Error()})
	}

	if store, err := history.Open(filepath.Join(dotDir, "history.db")); err == nil {
		opt.History = store
	} else {
		logger.Warn("history store unavailable", map[string]interface{}{"error": err.Error()})
	}

	whCfg, err := webhooks.Load(filepath.Join(repoRoot, "archlens.webhooks.yaml"))
	if err != nil {
		logger.Warn("webhook config failed to load", map[string]interface{}{"error": err.Error()})
	}
	opt.Notifier = webhooks.NewNotifier(whCfg, 10*time.Second, logger)

	return mcpserver.NewRegistry(opt)
}
