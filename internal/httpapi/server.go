package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"archlens/internal/logging"
	"archlens/internal/mcpserver"
)

// Config controls a Server's optional security and CORS posture.
type Config struct {
	AuthToken string
	CORS      CORSConfig
}

// Server is the HTTP/SSE transport over a shared mcpserver.Registry.
type Server struct {
	addr     string
	registry *mcpserver.Registry
	logger   *logging.Logger
	config   Config
	router   *http.ServeMux
	http     *http.Server
}

// NewServer builds a Server bound to addr, dispatching every tool-shaped
// endpoint through registry.
func NewServer(addr string, registry *mcpserver.Registry, logger *logging.Logger, config Config) *Server {
	s := &Server{addr: addr, registry: registry, logger: logger, config: config, router: http.NewServeMux()}
	s.registerRoutes()
	handler := chain(s.router,
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		AuthMiddleware(config.AuthToken),
		CORSMiddleware(config.CORS),
	)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start runs the HTTP server until it errors or is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting http server", map[string]interface{}{"addr": s.addr})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("GET /schemas/list", s.handleSchemasList)
	s.router.HandleFunc("GET /presets/list", s.handlePresetsList)
	s.router.HandleFunc("GET /sse/refresh", s.handleSSERefresh)

	s.router.HandleFunc("POST /tools/list", s.handleToolsList)
	s.router.HandleFunc("POST /tools/call", s.handleToolsCall)
	s.router.HandleFunc("POST /tools/call/stream", s.handleToolsCallStream)

	s.router.HandleFunc("POST /export/ai_compact", s.wrapTool("export.ai_compact"))
	s.router.HandleFunc("POST /export/ai_summary_json", s.wrapTool("export.ai_summary_json"))
	s.router.HandleFunc("POST /structure/get", s.wrapTool("structure.get"))
	s.router.HandleFunc("POST /diagram/generate", s.wrapTool("graph.build"))
	s.router.HandleFunc("POST /ai/recommend", s.wrapTool("ai.recommend"))
}

func (s *Server) handleSchemasList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"schemas": mcpserver.ToolDescriptors()})
}

func (s *Server) handlePresetsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"presets": mcpserver.PresetNames()})
}

func (s *Server) handleToolsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": mcpserver.ToolDescriptors()})
}

type toolCallRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

func decodeToolCall(r *http.Request) (toolCallRequest, error) {
	var req toolCallRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

func (s *Server) handleToolsCall(w http.ResponseWriter, r *http.Request) {
	req, err := decodeToolCall(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	result, err := s.registry.Call(r.Context(), req.Name, req.Arguments)
	if err != nil {
		writeError(w, statusForErr(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"content": result})
}

// handleToolsCallStream runs the named tool and reports it over SSE as a
// single start/result-or-error/done sequence; the pipeline itself has no
// intermediate progress to report, so the stream exists for clients that
// always consume tool calls over SSE rather than a pure latency win.
func (s *Server) handleToolsCallStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeToolCall(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	sw, ok := newSSEWriter(w)
	if !ok {
		writeError(w, http.StatusNotImplemented, "streaming unsupported by this response writer")
		return
	}

	sw.send(sseStart, map[string]interface{}{"name": req.Name})
	result, err := s.registry.Call(r.Context(), req.Name, req.Arguments)
	if err != nil {
		sw.send(sseError, map[string]interface{}{"message": err.Error()})
	} else {
		sw.send(sseResult, result)
	}
	sw.send(sseDone, map[string]interface{}{})
}

// handleSSERefresh lets a client subscribe to arch.refresh results for a
// project without polling: each GET call triggers one refresh-and-stream.
func (s *Server) handleSSERefresh(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "."
	}
	sw, ok := newSSEWriter(w)
	if !ok {
		writeError(w, http.StatusNotImplemented, "streaming unsupported by this response writer")
		return
	}

	sw.send(sseStart, map[string]interface{}{"path": path})
	result, err := s.registry.Call(r.Context(), "arch.refresh", map[string]interface{}{"path": path})
	if err != nil {
		sw.send(sseError, map[string]interface{}{"message": err.Error()})
	} else {
		sw.send(sseResult, result)
	}
	sw.send(sseDone, map[string]interface{}{})
}

// wrapTool adapts a single named tool to a plain POST JSON-in/JSON-out
// endpoint, for clients that want a stable REST path per tool instead of
// the generic /tools/call envelope.
func (s *Server) wrapTool(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var args map[string]interface{}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
				return
			}
		}
		if args == nil {
			args = map[string]interface{}{}
		}
		result, err := s.registry.Call(r.Context(), name, args)
		if err != nil {
			writeError(w, statusForErr(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
