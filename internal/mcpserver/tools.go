// Package mcpserver implements the Request Router's shared tool registry
// (C8) plus the stdio JSON-RPC transport. The same registry backs the
// HTTP transport in internal/httpapi.
package mcpserver

import (
	"context"
	"encoding/json"
	"time"

	"archlens/internal/archerrors"
	"archlens/internal/cachestore"
	"archlens/internal/capsule"
	"archlens/internal/export"
	"archlens/internal/history"
	"archlens/internal/jobs"
	"archlens/internal/logging"
	"archlens/internal/pipeline"
	"archlens/internal/recommend"
	"archlens/internal/repostate"
	"archlens/internal/webhooks"
)

// ToolHandler executes one registered tool call.
type ToolHandler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// heavyTools is the set of tools spec'd to run on the bounded worker pool
// under a timeout; everything else dispatches inline on the caller's
// goroutine.
var heavyTools = map[string]bool{
	"export.ai_compact":      true,
	"export.ai_summary_json": true,
	"structure.get":          true,
	"graph.build":            true,
	"analyze.project":        true,
}

// Registry holds every registered tool and the shared components they
// dispatch to — analysis engine, projection cache, job runner, logger, and
// the optional supplemented-feature stores. A graph is recomputed for every
// call (the pipeline discards it once handed to the exporter, per the data
// model's lifecycle); only the finished projection is cached.
type Registry struct {
	engine    *pipeline.Engine
	cache     *cachestore.Store
	runner    *jobs.Runner
	logger    *logging.Logger
	history   *history.Store
	notifier  *webhooks.Notifier
	timeout   time.Duration
	testDelay time.Duration

	tools map[string]ToolHandler
}

// Options configures a Registry's optional dependencies.
type Options struct {
	Cache    *cachestore.Store
	Runner   *jobs.Runner
	Logger   *logging.Logger
	History  *history.Store
	Notifier *webhooks.Notifier
	Timeout  time.Duration

	// TestDelay, when nonzero, blocks the start of every heavy-tool call
	// for this long before any real work begins — seeded from
	// ARCHLENS_TEST_DELAY_MS, for exercising the timeout path.
	TestDelay time.Duration
}

// NewRegistry builds a Registry with every tool wired in.
func NewRegistry(opt Options) *Registry {
	if opt.Timeout <= 0 {
		opt.Timeout = 60 * time.Second
	}
	r := &Registry{
		engine:    pipeline.NewEngine(),
		cache:     opt.Cache,
		runner:    opt.Runner,
		logger:    opt.Logger,
		history:   opt.History,
		notifier:  opt.Notifier,
		timeout:   opt.Timeout,
		testDelay: opt.TestDelay,
		tools:     make(map[string]ToolHandler),
	}
	r.registerTools()
	return r
}

// Call dispatches name with args. Heavy tools run on the bounded worker pool
// under r.timeout; every other registered tool runs inline on the caller's
// goroutine, per spec's "non-heavy tools run inline" scheduling rule.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	handler, ok := r.tools[name]
	if !ok {
		if r.logger != nil {
			r.logger.Warn("unknown tool requested", logging.WithTool(name))
		}
		return nil, archerrors.New(archerrors.KindNotFound, "unknown tool "+name)
	}

	if !heavyTools[name] {
		return handler(ctx, args)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.runner == nil {
		return handler(ctx, args)
	}

	value, err := r.runner.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		return handler(ctx, args)
	})
	if err == jobs.ErrTimeout {
		if r.logger != nil {
			r.logger.Warn("tool call timed out", logging.WithTool(name))
		}
		return nil, archerrors.New(archerrors.KindTimeout, "tool call timed out")
	}
	return value, err
}

// Names returns every registered tool name, for tools/list.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

func (r *Registry) registerTools() {
	r.tools["analyze.project"] = r.analyzeProject
	r.tools["structure.get"] = r.structureGet
	r.tools["graph.build"] = r.graphBuild
	r.tools["export.ai_compact"] = r.exportAICompact
	r.tools["export.ai_summary_json"] = r.exportAISummaryJSON
	r.tools["arch.refresh"] = r.archRefresh
	r.tools["ai.recommend"] = r.aiRecommend
	r.tools["history.recent"] = r.historyRecent
}

func argString(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

func argInt(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

// argStrings reads key as a string slice, accepting both the []interface{}
// shape produced by decoding JSON-RPC params and the plain []string shape a
// same-process caller (the CLI) passes directly.
func argStrings(args map[string]interface{}, key string) []string {
	switch raw := args[key].(type) {
	case []string:
		return raw
	case []interface{}:
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func requestFromArgs(args map[string]interface{}) export.Request {
	return export.Request{
		DetailLevel: argString(args, "detail_level", ""),
		Sections:    argStrings(args, "sections"),
		TopN:        argInt(args, "top_n", 0),
		MaxChars:    argInt(args, "max_chars", 0),
	}
}

// fingerprint resolves a project's current fingerprint, falling back to the
// path itself (never cache-hit) if fingerprinting fails.
func (r *Registry) fingerprint(path string) string {
	fp, err := repostate.Compute(path)
	if err != nil {
		return "nofp:" + path
	}
	return fp.Value
}

// sleepTestDelay blocks for r.testDelay, if configured, ignoring ctx: the
// delay simulates a CPU-bound phase, which per the concurrency model is not
// cooperatively cancellable — only the caller's timeout bounds wall time.
func (r *Registry) sleepTestDelay() {
	if r.testDelay > 0 {
		time.Sleep(r.testDelay)
	}
}

// projection runs the analysis pipeline and renders render(g), going
// through the projection cache keyed by the request shape + fingerprint
// when a cache is configured. callerETag, when non-empty, is compared
// against the resolved output's ETag: on a match the projection cache's
// read path is satisfied with a not_modified result carrying no body,
// regardless of whether the underlying output came from cache or was
// freshly computed.
func (r *Registry) projection(ctx context.Context, path string, req export.Request, kind string, callerETag string,
	render func(*capsule.CapsuleGraph) (export.Output, error)) (out export.Output, notModified bool, err error) {

	r.sleepTestDelay()

	fp := r.fingerprint(path)
	key := cachestore.Key(path+"|"+kind, req.DetailLevel, req.TopN, req.MaxChars, req.Sections, fp)

	if r.cache != nil {
		if entry, ok, _ := r.cache.Get(key); ok {
			out = export.Output{Text: entry.Output, ETag: entry.ETag}
		}
	}

	if out.ETag == "" {
		g, err := r.engine.Analyze(ctx, path)
		if err != nil {
			return export.Output{}, false, err
		}
		out, err = render(g)
		if err != nil {
			return export.Output{}, false, err
		}
		if r.cache != nil {
			r.cache.Put(key, cachestore.Entry{ETag: out.ETag, Output: out.Text})
		}
	}

	if callerETag != "" && callerETag == out.ETag {
		return export.Output{ETag: out.ETag}, true, nil
	}
	return out, false, nil
}

func (r *Registry) analyzeProject(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := argString(args, "path", ".")
	callerETag := argString(args, "etag", "")
	out, notModified, err := r.projection(ctx, path, export.Request{}, "summary", callerETag, func(g *capsule.CapsuleGraph) (export.Output, error) {
		o, err := export.JSON(g, export.Request{})
		if err == nil && r.history != nil {
			if herr := r.history.Record(history.Run{
				Timestamp: time.Now(), Fingerprint: r.fingerprint(path),
				Components: g.Metrics.TotalCapsules, Relations: g.Metrics.TotalRelations,
			}); herr != nil && r.logger != nil {
				r.logger.Warn("history record failed", map[string]interface{}{"error": herr.Error()})
			}
		}
		return o, err
	})
	if err != nil {
		return nil, err
	}
	if notModified {
		return map[string]interface{}{"status": "not_modified", "etag": out.ETag}, nil
	}
	if r.notifier != nil {
		r.notifier.Notify("analyze.project", []byte(out.Text))
	}
	return map[string]interface{}{"status": "ok", "etag": out.ETag, "json": out.Text}, nil
}

func (r *Registry) structureGet(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := argString(args, "path", ".")
	callerETag := argString(args, "etag", "")
	showMetrics, _ := args["show_metrics"].(bool)

	out, notModified, err := r.projection(ctx, path, export.Request{}, "structure", callerETag, func(g *capsule.CapsuleGraph) (export.Output, error) {
		result := map[string]interface{}{
			"components": g.Metrics.TotalCapsules,
			"relations":  g.Metrics.TotalRelations,
			"layers":     g.Layers,
		}
		if showMetrics {
			result["metrics"] = g.Metrics
		}
		enc, err := json.Marshal(result)
		if err != nil {
			return export.Output{}, err
		}
		return export.Output{Text: string(enc), ETag: export.ETag(string(enc))}, nil
	})
	if err != nil {
		return nil, err
	}
	if notModified {
		return map[string]interface{}{"status": "not_modified", "etag": out.ETag}, nil
	}
	var content map[string]interface{}
	if err := json.Unmarshal([]byte(out.Text), &content); err != nil {
		return nil, archerrors.Wrap(archerrors.KindInternal, "decode cached structure", err)
	}
	content["status"] = "ok"
	content["etag"] = out.ETag
	return content, nil
}

func (r *Registry) graphBuild(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := argString(args, "path", ".")
	req := requestFromArgs(args)
	callerETag := argString(args, "etag", "")
	out, notModified, err := r.projection(ctx, path, req, "mermaid", callerETag, func(g *capsule.CapsuleGraph) (export.Output, error) {
		return export.Mermaid(g, req), nil
	})
	if err != nil {
		return nil, err
	}
	if notModified {
		return map[string]interface{}{"status": "not_modified", "etag": out.ETag}, nil
	}
	return map[string]interface{}{"status": "ok", "etag": out.ETag, "mermaid": out.Text}, nil
}

func (r *Registry) exportAICompact(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := argString(args, "path", ".")
	req := requestFromArgs(args)
	callerETag := argString(args, "etag", "")
	out, notModified, err := r.projection(ctx, path, req, "compact", callerETag, func(g *capsule.CapsuleGraph) (export.Output, error) {
		return export.Markdown(g, req), nil
	})
	if err != nil {
		return nil, err
	}
	if notModified {
		return map[string]interface{}{"status": "not_modified", "etag": out.ETag}, nil
	}
	return map[string]interface{}{"status": "ok", "etag": out.ETag, "output": out.Text}, nil
}

func (r *Registry) exportAISummaryJSON(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := argString(args, "path", ".")
	req := requestFromArgs(args)
	callerETag := argString(args, "etag", "")
	out, notModified, err := r.projection(ctx, path, req, "summary_json", callerETag, func(g *capsule.CapsuleGraph) (export.Output, error) {
		return export.JSON(g, req)
	})
	if err != nil {
		return nil, err
	}
	if notModified {
		return map[string]interface{}{"status": "not_modified", "etag": out.ETag}, nil
	}
	return map[string]interface{}{"status": "ok", "etag": out.ETag, "json": out.Text}, nil
}

// archRefresh is a non-heavy control tool: for each projection kind it
// evicts the cached entry for path under default request parameters
// (entries cached with sections, top_n, max_chars or a detail level stay),
// then always runs analyze.project fresh (passing no caller etag, so the
// fresh result is never reported as not_modified).
func (r *Registry) archRefresh(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := argString(args, "path", ".")
	if r.cache != nil {
		fp := r.fingerprint(path)
		for _, kind := range []string{"summary", "structure", "mermaid", "compact", "summary_json"} {
			r.cache.Delete(cachestore.Key(path+"|"+kind, "", 0, 0, nil, fp))
		}
	}
	refreshArgs := make(map[string]interface{}, len(args))
	for k, v := range args {
		refreshArgs[k] = v
	}
	delete(refreshArgs, "etag")
	return r.analyzeProject(ctx, refreshArgs)
}

func (r *Registry) aiRecommend(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := argString(args, "path", ".")
	focus := argString(args, "focus", "")

	g, err := r.engine.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}
	summary := &recommend.Summary{
		Components:    g.Metrics.TotalCapsules,
		ComplexityAvg: g.Metrics.MeanComplexity,
		CouplingIndex: g.Metrics.CouplingIndex,
		CohesionIndex: g.Metrics.CohesionIndex,
	}
	suggestions := recommend.Recommend(path, summary, focus, recommend.DefaultThresholds())
	return map[string]interface{}{"suggestions": suggestions}, nil
}

func (r *Registry) historyRecent(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	if r.history == nil {
		return map[string]interface{}{"runs": []history.Run{}}, nil
	}
	n := argInt(args, "n", 20)
	runs, err := r.history.Recent(n)
	if err != nil {
		return nil, archerrors.Wrap(archerrors.KindInternal, "history lookup failed", err)
	}
	return map[string]interface{}{"runs": runs}, nil
}
