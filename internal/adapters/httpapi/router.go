// Package httpapi exposes the download history and the downloaded files over
// a small local HTTP server (the serve subcommand).
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"myreplays/internal/ports"
)

type Server struct {
	logger   zerolog.Logger
	history  ports.DownloadHistory
	filesDir string
}

func NewServer(logger zerolog.Logger, history ports.DownloadHistory, filesDir string) *Server {
	return &Server{logger: logger, history: history, filesDir: filesDir}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/downloads", s.handleDownloads)
	})

	if s.filesDir != "" {
		r.Mount("/files", http.StripPrefix("/files", http.FileServer(http.Dir(s.filesDir))))
	}

	return r
}
