// Package httpapi exposes the companion text pipeline over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"memory-companion-go/internal/answer"
	"memory-companion-go/internal/dataset"
	"memory-companion-go/internal/logger"
	"memory-companion-go/internal/observe"
	"memory-companion-go/internal/pipeline"
	"memory-companion-go/internal/processor"
	"memory-companion-go/internal/speech"
)

const (
	maxBodyBytes = 1 << 20
	demoLimit    = 5
)

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithMatcher sets the matcher used by /match.
func WithMatcher(m *answer.Matcher) Option {
	return func(s *Server) {
		s.matcher = m
	}
}

func WithAnalyzer(a *speech.Analyzer) Option {
	return func(s *Server) {
		s.analyzer = a
	}
}

// WithDataset points /demo and /insights at a journal workbook. summary may
// be nil when the workbook could not be summarised at startup.
func WithDataset(path string, summary *dataset.DatasetSummary) Option {
	return func(s *Server) {
		s.datasetPath = path
		s.summary = summary
	}
}

// WithPipeline sets the worker and timeout limits for batch endpoints.
func WithPipeline(opts pipeline.Options) Option {
	return func(s *Server) {
		s.pipeline = opts
	}
}

// WithSessionLimits bounds the live conversations kept for /sessions: at most
// limit at once, each dropped after idle without a request. Zero values
// keep the defaults.
func WithSessionLimits(limit int, idle time.Duration) Option {
	return func(s *Server) {
		s.maxSessions = limit
		s.sessionIdle = idle
	}
}

// Server holds the handlers and their dependencies.
type Server struct {
	log         *logger.Logger
	metrics     *observe.Metrics
	proc        *processor.Processor
	matcher     *answer.Matcher
	analyzer    *speech.Analyzer
	datasetPath string
	summary     *dataset.DatasetSummary
	pipeline    pipeline.Options
	maxSessions int
	sessionIdle time.Duration
	sessions    *sessionStore
}

// New returns a Server that processes sessions with proc.
func New(proc *processor.Processor, opts ...Option) *Server {
	s := &Server{
		log:      logger.Discard(),
		metrics:  observe.DefaultMetrics(),
		proc:     proc,
		matcher:  answer.NewMatcher(),
		analyzer: speech.NewAnalyzer(),
	}
	for _, o := range opts {
		o(s)
	}
	s.sessions = newSessionStore(s.maxSessions, s.sessionIdle)
	if s.pipeline.Metrics == nil {
		s.pipeline.Metrics = s.metrics
	}
	if s.pipeline.Logger == nil {
		s.pipeline.Logger = s.log
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", observe.Handler())

	mux.HandleFunc("POST /punctuate", s.handlePunctuate)
	mux.HandleFunc("POST /merge", s.handleMerge)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /complexity", s.handleComplexity)
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /dates", s.handleDates)
	mux.HandleFunc("POST /undated", s.handleUndated)
	mux.HandleFunc("POST /parse-date", s.handleParseDate)
	mux.HandleFunc("POST /facts", s.handleFacts)
	mux.HandleFunc("POST /followups", s.handleFollowUps)
	mux.HandleFunc("POST /health-intent", s.handleHealthIntent)

	mux.HandleFunc("POST /session", s.handleSession)
	mux.HandleFunc("GET /process", s.handleProcess)
	mux.HandleFunc("GET /dataset", s.handleDatasetSummary)
	mux.HandleFunc("GET /demo", s.handleDemo)
	mux.HandleFunc("GET /insights", s.handleInsights)

	mux.HandleFunc("POST /sessions", s.handleSessionCreate)
	mux.HandleFunc("GET /sessions/{id}", s.handleSessionGet)
	mux.HandleFunc("POST /sessions/{id}/start", s.handleSessionStart)
	mux.HandleFunc("POST /sessions/{id}/fragments", s.handleSessionFragments)
	mux.HandleFunc("POST /sessions/{id}/ask", s.handleSessionAsk)
	mux.HandleFunc("POST /sessions/{id}/complete", s.handleSessionComplete)

	return observe.Middleware(s.metrics, s.log)(mux)
}

func (s *Server) reqLog(r *http.Request, handler string) *logrus.Entry {
	return s.log.WithRequest(r).WithField("handler", handler)
}

func writeJSON(w http.ResponseWriter, status int, v any, reqLog *logrus.Entry) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string, reqLog *logrus.Entry) {
	writeJSON(w, status, errorResponse{Error: msg}, reqLog)
}

var errEmptyBody = errors.New("empty request body")

// decode reads one JSON value from the request body. Unknown fields are
// rejected.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.reqLog(r, "healthz").Debug("health check")
	fmt.Fprint(w, "ok")
}
