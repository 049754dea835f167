package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/costseg/pkg/handlers/report"
	"github.com/de-tools/costseg/pkg/metrics"
	costsegmiddleware "github.com/de-tools/costseg/pkg/server/middleware"
	"github.com/de-tools/costseg/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports report.Service
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	h := handlers.NewHandler(deps.Reports, config.MaxUploadBytes)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(costsegmiddleware.Logger(&deps.Logger))
	router.Use(costsegmiddleware.Metrics(deps.Metrics))
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/templates", h.ListTemplates)
		r.Post("/templates", h.CreateTemplate)
		r.Post("/templates/{id}/reports", h.CreateReport)

		r.Get("/reports", h.ListReports)
		r.Post("/reports/import", h.ImportJSON)
		r.Route("/reports/{id}", func(r chi.Router) {
			r.Get("/", h.GetReport)
			r.Put("/", h.ReplaceReport)
			r.Put("/fields/{key}", h.SetField)
			r.Put("/narrative/{key}", h.SetNarrative)
			r.Put("/sections/{key}", h.ToggleSection)
			r.Post("/line-items", h.AddLineItem)
			r.Patch("/line-items/{itemId}", h.UpdateLineItem)
			r.Delete("/line-items/{itemId}", h.RemoveLineItem)
			r.Get("/totals", h.GetTotals)
			r.Post("/cover", h.UploadCover)
			r.Post("/export", h.ExportPDF)
			r.Get("/export-json", h.ExportJSON)
		})
	})

	router.Handle("/metrics", deps.Metrics.Handler())

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	config.Dependencies.Logger = logger
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
