// Package server exposes the booth over HTTP: a JSON API driving the
// session flow, the live camera preview, and the static kiosk frontend.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/maruel/serve-dir/loghttp"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/camera"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/config"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/overlay"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/printer"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/session"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/template"
)

// Server wires the booth subsystems behind the HTTP API.
type Server struct {
	cfg     *config.Config
	store   *session.Store
	camera  camera.Camera
	printer printer.Printer
	engine  *overlay.Engine
	cache   *template.Cache
	log     *slog.Logger

	httpServer *http.Server
}

// New assembles a server from its subsystems.
func New(cfg *config.Config, store *session.Store, cam camera.Camera, prn printer.Printer, engine *overlay.Engine, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		store:   store,
		camera:  cam,
		printer: prn,
		engine:  engine,
		cache:   template.NewCache(),
		log:     log.With("component", "server"),
	}
	s.httpServer = &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: the preview stream stays open for minutes.
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("PUT /api/sessions/{id}", s.handleUpdateSession)
	mux.HandleFunc("POST /api/sessions/{id}/story", s.handleGenerateStory)
	mux.HandleFunc("POST /api/sessions/{id}/finalize", s.handleFinalize)

	mux.HandleFunc("POST /api/capture", s.handleCapture)
	mux.HandleFunc("POST /api/print", s.handlePrint)
	mux.HandleFunc("GET /api/printer/status", s.handlePrinterStatus)

	mux.HandleFunc("GET /preview", s.handlePreview)

	mux.Handle("GET /images/", http.StripPrefix("/images/",
		&loghttp.Handler{Handler: http.FileServer(http.Dir(s.cfg.Storage.BasePath))}))
	mux.Handle("GET /static/", http.StripPrefix("/static/",
		&loghttp.Handler{Handler: http.FileServer(http.Dir(s.cfg.Storage.StaticPath))}))

	return mux
}

// ListenAndServe serves until the context is canceled, then drains
// connections for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.httpServer.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
