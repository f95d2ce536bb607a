// Package server hosts the local dashboard: a small chi router that serves
// the rendered statistics document as JSON alongside a minimal HTML page.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ghstats/logger"
)

// portAttempts bounds how many consecutive ports are tried when the
// requested one is taken.
const portAttempts = 10

// Server is a thin wrapper over chi + stdlib http.Server.
type Server struct {
	port int
	mux  *chi.Mux
	srv  *http.Server
	ln   net.Listener
}

// New builds the dashboard server around a pre-rendered JSON document.
// The document is immutable for the lifetime of the server; a new run
// means a new server.
func New(port int, document []byte) *Server {
	m := chi.NewRouter()
	m.Use(middleware.Recoverer)
	m.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	serveDoc := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(document)
	}
	m.Get("/api/stats", serveDoc)
	m.Get("/data.json", serveDoc)
	m.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(indexPage))
	})

	return &Server{
		port: port,
		mux:  m,
		srv: &http.Server{
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the chi mux so tests can drive handlers directly.
func (s *Server) Router() *chi.Mux { return s.mux }

// Listen binds the first free port starting at the configured one,
// trying up to portAttempts consecutive ports. It returns the port
// actually bound.
func (s *Server) Listen() (int, error) {
	for i := 0; i < portAttempts; i++ {
		port := s.port + i
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			logger.Debug("port unavailable", zap.Int("port", port), zap.Error(err))
			continue
		}
		s.ln = ln
		s.port = port
		return port, nil
	}
	return 0, fmt.Errorf("no free port in range %d-%d", s.port, s.port+portAttempts-1)
}

// Run serves on the listener bound by Listen and blocks until Shutdown.
func (s *Server) Run(ctx context.Context) error {
	if s.ln == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}
	logger.Info("dashboard listening", zap.String("url", fmt.Sprintf("http://127.0.0.1:%d/", s.port)))
	err := s.srv.Serve(s.ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

const indexPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>ghstats dashboard</title>
<style>
body { font-family: ui-monospace, monospace; margin: 2rem; background: #0d1117; color: #c9d1d9; }
h1 { font-size: 1.2rem; }
pre { background: #161b22; padding: 1rem; border-radius: 6px; overflow: auto; }
a { color: #58a6ff; }
</style></head>
<body>
<h1>ghstats dashboard</h1>
<p>Raw document: <a href="/data.json">/data.json</a></p>
<pre id="doc">loading...</pre>
<script>
fetch('/data.json')
  .then(function (r) { return r.json(); })
  .then(function (d) { document.getElementById('doc').textContent = JSON.stringify(d, null, 2); })
  .catch(function (e) { document.getElementById('doc').textContent = String(e); });
</script>
</body>
</html>
`
