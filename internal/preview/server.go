package preview

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vnode/internal/config"
	"github.com/vango-dev/vnode/internal/document"
	"github.com/vango-dev/vnode/internal/errors"
	"github.com/vango-dev/vnode/pkg/render"
)

// Options configures the preview server.
type Options struct {
	// Document is the path of the document to serve.
	Document string

	// Config supplies the listen address, page settings and reload options.
	Config *config.Config

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Gatherer backs /metrics. When nil, /metrics is not mounted.
	Gatherer prometheus.Gatherer

	// Renderer defaults to a renderer using Logger.
	Renderer *render.Renderer
}

// Server renders a document on every request and reloads open pages when
// the document or config file changes.
type Server struct {
	doc      string
	config   *config.Config
	logger   *slog.Logger
	renderer *render.Renderer
	gatherer prometheus.Gatherer

	reload  *ReloadServer
	watcher *Watcher
	router  chi.Router

	mu      sync.Mutex
	httpSrv *http.Server
}

// New creates a Server.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "preview")

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewRenderer(render.RendererConfig{Logger: logger})
	}

	s := &Server{
		doc:      opts.Document,
		config:   cfg,
		logger:   logger,
		renderer: renderer,
		gatherer: opts.Gatherer,
	}

	if cfg.HotReload() {
		s.reload = NewReloadServer(logger)
		paths := []string{opts.Document}
		if p := cfg.Path(); p != "" {
			paths = append(paths, p)
		}
		s.watcher = NewWatcher(cfg.PollInterval(), paths...)
		s.watcher.OnChange(s.handleChanges)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if s.reload != nil {
		r.Handle(ReloadPath, s.reload)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Reload returns the reload hub, nil when live reload is off.
func (s *Server) Reload() *ReloadServer {
	return s.reload
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// handlePage loads and renders the document. Errors are shown as a page so
// the reload client stays connected and picks up the fix.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	body, err := s.renderPage(r.Context())
	if err != nil {
		s.logger.Error("render failed", "document", s.doc, "error", err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(s.errorPage(err))
		return
	}
	w.Header().Set("Content-Type", s.currentConfig().Publish.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(body)
}

func (s *Server) renderPage(ctx context.Context) ([]byte, error) {
	doc, err := document.Load(s.doc)
	if err != nil {
		return nil, err
	}
	root, err := doc.Root()
	if err != nil {
		return nil, err
	}

	page := PageData(s.currentConfig())
	page.Body = root
	if s.reload != nil {
		page.BodyEnd = ClientScript
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderPageContext(ctx, &buf, page); err != nil {
		return nil, errors.FromError(err, "E140")
	}
	return buf.Bytes(), nil
}

func (s *Server) currentConfig() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *Server) errorPage(err error) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Error</title></head><body><pre>")
	buf.WriteString(html.EscapeString(errors.FromError(err, "E140").FormatPlain()))
	buf.WriteString("</pre>")
	if s.reload != nil {
		buf.WriteString(ClientScript)
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes()
}

// handleChanges checks the document still loads before reloading pages, so
// a broken edit shows an overlay instead of an error page.
func (s *Server) handleChanges(changed []string) {
	s.logger.Info("change detected", "files", changed)
	if p := s.currentConfig().Path(); p != "" {
		for _, c := range changed {
			if c != p {
				continue
			}
			if cfg, err := config.LoadFile(p); err == nil {
				s.mu.Lock()
				s.config = cfg
				s.mu.Unlock()
			} else {
				s.reload.NotifyError(errors.FromError(err, "E100").FormatCompact())
				return
			}
		}
	}
	if _, err := s.renderPage(context.Background()); err != nil {
		s.reload.NotifyError(errors.FromError(err, "E140").FormatCompact())
		return
	}
	s.reload.NotifyReload()
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.DevAddress())
	if err != nil {
		return errors.New("E180").Wrap(err).
			WithSuggestion("Pick another port with --port")
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	if s.watcher != nil {
		go s.watcher.Start(watchCtx)
	}

	s.logger.Info("preview server running", "url", "http://"+ln.Addr().String(), "document", s.doc)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.shutdown()
		<-errCh
		return nil
	case err := <-errCh:
		s.shutdown()
		if err != nil {
			return errors.New("E180").Wrap(err)
		}
		return nil
	}
}

func (s *Server) shutdown() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.reload != nil {
		s.reload.Close()
	}
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

// PageData builds the page settings from cfg.
func PageData(cfg *config.Config) render.PageData {
	page := render.PageData{
		Title:       cfg.Render.Title,
		Lang:        cfg.Render.Lang,
		StyleSheets: cfg.Render.StyleSheets,
	}
	for _, src := range cfg.Render.Scripts {
		page.Scripts = append(page.Scripts, render.ScriptTag{Src: src, Defer: true})
	}
	return page
}
