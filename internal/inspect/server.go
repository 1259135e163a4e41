package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/incdom/internal/errors"
	"github.com/vango-dev/incdom/internal/scenario"
	"github.com/vango-dev/incdom/pkg/dom"
	"github.com/vango-dev/incdom/pkg/idom"
	"github.com/vango-dev/incdom/pkg/observe"
)

// Options configures the inspector.
type Options struct {
	// Scenario is the scenario whose passes are stepped through.
	Scenario *scenario.Scenario

	// Addr is the listen address used by Start.
	Addr string

	// Namespace is the Prometheus metrics namespace.
	Namespace string

	// Registry collects the inspector's metrics. If nil, a new registry is
	// created.
	Registry *prometheus.Registry

	// Logger is the logger. Default: slog.Default().
	Logger *slog.Logger
}

// StepResult is the JSON form of one applied pass.
type StepResult struct {
	Index     int           `json:"index"`
	Pass      string        `json:"pass"`
	Strategy  string        `json:"strategy"`
	Created   int           `json:"created"`
	Deleted   int           `json:"deleted"`
	Moved     int           `json:"moved"`
	Duration  string        `json:"duration"`
	Mutations dom.Mutations `json:"mutations"`
	HTML      string        `json:"html"`
	Done      bool          `json:"done"`
}

// TreeState is the JSON form of the current host tree.
type TreeState struct {
	Scenario string `json:"scenario"`
	Next     int    `json:"next"`
	Passes   int    `json:"passes"`
	Done     bool   `json:"done"`
	HTML     string `json:"html"`
	Pretty   string `json:"pretty"`
}

// Server serves a scenario replay over HTTP and pushes every applied pass to
// WebSocket clients.
//
// Routes:
//
//	POST /step     apply the next pass
//	POST /reset    discard the tree and rewind
//	GET  /tree     current tree as JSON, or HTML with ?format=html
//	GET  /ws       WebSocket stream of Message values
//	GET  /metrics  Prometheus metrics
//	GET  /healthz  liveness probe
type Server struct {
	opts     Options
	run      string
	replayer *scenario.Replayer
	hub      *hub
	registry *prometheus.Registry
	router   chi.Router
	logger   *slog.Logger

	// mu serializes access to the replayer, whose engine is
	// single-threaded, and to hub broadcasts.
	mu sync.Mutex

	httpMu     sync.Mutex
	httpServer *http.Server
}

// New creates an inspector for opts.Scenario.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "inspect")

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "incdom"
	}

	metrics := observe.NewMetrics(observe.WithRegistry(registry), observe.WithNamespace(namespace))
	clients := promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inspect_clients",
		Help:      "Number of connected inspector clients",
	})

	s := &Server{
		opts:     opts,
		run:      uuid.NewString(),
		hub:      newHub(logger),
		registry: registry,
		logger:   logger,
	}
	s.hub.onCount = func(n int) { clients.Set(float64(n)) }
	s.replayer = scenario.NewReplayer(opts.Scenario,
		scenario.WithLogger(logger),
		scenario.WithEngineOptions(idom.WithObserver(metrics)),
	)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Post("/step", s.handleStep)
	r.Post("/reset", s.handleReset)
	r.Get("/tree", s.handleTree)
	r.Get("/ws", s.handleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the inspector's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run returns the identifier of this inspector run.
func (s *Server) Run() string {
	return s.run
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	return s.hub.count()
}

func (s *Server) handleStep(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.replayer.Step()
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.New("E024").Is(err) {
			status = http.StatusConflict
		}
		s.hub.broadcast(Message{Type: MessageError, Run: s.run, Error: err.Error()})
		writeError(w, status, err)
		return
	}

	step := &StepResult{
		Index:     res.Index,
		Pass:      res.Pass,
		Strategy:  res.Strategy,
		Created:   res.Stats.Created,
		Deleted:   res.Stats.Deleted,
		Moved:     res.Stats.Moved,
		Duration:  res.Stats.Duration.String(),
		Mutations: res.Mutations,
		HTML:      res.HTML,
		Done:      s.replayer.Done(),
	}
	s.hub.broadcast(Message{Type: MessageStep, Run: s.run, Step: step})
	writeJSON(w, http.StatusOK, step)
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replayer.Reset()
	tree := s.tree()
	s.hub.broadcast(Message{Type: MessageReset, Run: s.run, Tree: tree})
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tree := s.tree()
	s.mu.Unlock()

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(tree.Pretty))
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.serve(w, r, func(conn *websocket.Conn, client string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.hub.add(conn, client)
		return conn.WriteJSON(Message{Type: MessageHello, Run: s.run, Client: client, Tree: s.tree()})
	})
}

// tree snapshots the replay state. The caller holds s.mu.
func (s *Server) tree() *TreeState {
	root := s.replayer.Root()
	sc := s.replayer.Scenario()
	return &TreeState{
		Scenario: sc.Name,
		Next:     s.replayer.Next(),
		Passes:   len(sc.Passes),
		Done:     s.replayer.Done(),
		HTML:     root.InnerHTML(),
		Pretty:   root.Render(dom.RenderOptions{Pretty: true, ShowKeys: true}),
	}
}

// Start serves on opts.Addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpMu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.httpMu.Unlock()

	s.logger.Info("inspector running",
		slog.String("addr", s.opts.Addr),
		slog.String("run", s.run),
		slog.String("scenario", s.opts.Scenario.Name),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		if err != nil {
			return errors.New("E041").Wrap(err)
		}
		return nil
	}
}

// Stop closes client connections and shuts the HTTP server down.
func (s *Server) Stop() {
	s.hub.close()

	s.httpMu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.httpMu.Unlock()
	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Warn("shutdown failed", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	coded := errors.FromError(err, "E041")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(coded.FormatJSON()))
}
