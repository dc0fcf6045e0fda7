package live

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/html"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/weft/internal/errors"
	"github.com/vango-go/weft/pkg/dom"
	"github.com/vango-go/weft/pkg/publish"
	"github.com/vango-go/weft/pkg/weft"
)

// Default tracer name for live servers.
const defaultTracerName = "weft"

// View produces the value rendered on every pass. It is called with
// the server's render lock held.
type View func() any

// Config configures a live Server.
type Config struct {
	// Addr is the listen address (default ":8173").
	Addr string

	// Title is the served page title (default "weft").
	Title string

	// Logger receives request and refresh logs.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// TracerName names the OpenTelemetry tracer used for render spans
	// (default "weft"). Spans go to the global tracer provider.
	TracerName string

	// Store, when set, receives a snapshot of the rendered document on
	// every refresh.
	Store publish.Store

	// SnapshotName is the snapshot name used with Store (default "index").
	SnapshotName string

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool
}

// Server hosts one rendered view over HTTP with WebSocket refresh.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	tracer    trace.Tracer
	refresher *Refresher

	mu   sync.Mutex
	view View
	body *html.Node
	root *weft.Root

	httpServer *http.Server
}

// New creates a live server for view.
func New(view View, cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = ":8173"
	}
	if cfg.Title == "" {
		cfg.Title = "weft"
	}
	if cfg.TracerName == "" {
		cfg.TracerName = defaultTracerName
	}
	if cfg.SnapshotName == "" {
		cfg.SnapshotName = "index"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	body := dom.NewElement("body")
	root, err := weft.Target(body)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		logger:    logger,
		tracer:    otel.Tracer(cfg.TracerName),
		refresher: NewRefresher(),
		view:      view,
		body:      body,
		root:      root,
	}, nil
}

// Refresh re-renders the view, publishes a snapshot if a store is
// configured, and tells connected browsers to reload. On render
// failure the browsers get an error overlay instead.
func (s *Server) Refresh(ctx context.Context) error {
	doc, err := s.renderDocument(ctx)
	if err != nil {
		s.logger.Error("render failed", "error", err)
		s.refresher.NotifyError(compactError(err))
		return err
	}

	if s.cfg.Store != nil {
		if _, serr := s.cfg.Store.Save(ctx, s.cfg.SnapshotName, []byte(doc)); serr != nil {
			werr := errors.New("E301").Wrap(serr)
			s.logger.Error("snapshot failed", "error", werr)
			return werr
		}
	}

	s.refresher.ClearError()
	s.refresher.NotifyRefresh()
	s.logger.Info("refreshed", "clients", s.refresher.ClientCount())
	return nil
}

// renderDocument runs one traced render pass and serializes the page.
func (s *Server) renderDocument(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, span := s.tracer.Start(ctx, "weft.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("weft.snapshot", s.cfg.SnapshotName)),
		trace.WithTimestamp(time.Now()),
	)
	defer span.End()

	if err := s.root.Render(s.view()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", errors.New("E302").Wrap(err)
	}
	span.SetStatus(codes.Ok, "")

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(s.cfg.Title))
	b.WriteString("</title></head>\n")
	b.WriteString(dom.OuterHTML(s.body))
	b.WriteString(clientScript)
	b.WriteString("</html>\n")
	return b.String(), nil
}

// Handler returns the server's HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		doc, err := s.renderDocument(req.Context())
		if err != nil {
			s.logger.Error("render failed", "path", req.URL.Path, "error", err)
			http.Error(w, compactError(err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, doc)
	})

	r.Get("/_live/refresh", s.refresher.HandleWebSocket)

	if s.cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("live server listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// compactError renders err in its single-line terminal form.
func compactError(err error) string {
	var werr *errors.Error
	if stderrors.As(err, &werr) {
		return werr.FormatCompact()
	}
	return err.Error()
}

// Stop shuts the server down and closes all refresh connections.
func (s *Server) Stop() error {
	s.refresher.Close()
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
