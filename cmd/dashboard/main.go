package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/aqi-dashboard/internal/adapter/geojson"
	httpadapter "github.com/couchcryptid/aqi-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/aqi-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/aqi-dashboard/internal/adapter/render"
	"github.com/couchcryptid/aqi-dashboard/internal/chart"
	"github.com/couchcryptid/aqi-dashboard/internal/config"
	"github.com/couchcryptid/aqi-dashboard/internal/dashboard"
	"github.com/couchcryptid/aqi-dashboard/internal/dataset"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/couchcryptid/aqi-dashboard/internal/observability"
)

// recorder is an interaction sink that must be closed on shutdown.
type recorder interface {
	domain.InteractionRecorder
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ds, err := dataset.Load(dataset.Paths{
		Summary:         cfg.SummaryCSV,
		Events:          cfg.EventsCSV,
		Classifications: cfg.ClassificationCSV,
	})
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	minYear, maxYear := ds.YearRange()
	metrics.DatasetRows.WithLabelValues("summary").Set(float64(ds.SummaryRows()))
	metrics.DatasetRows.WithLabelValues("events").Set(float64(ds.EventRows()))
	metrics.DatasetRows.WithLabelValues("classifications").Set(float64(len(ds.Classifier().Ranges())))
	logger.Info("dataset loaded",
		"summary_rows", ds.SummaryRows(),
		"event_rows", ds.EventRows(),
		"states", len(ds.States()),
		"min_year", minYear,
		"max_year", maxYear,
	)

	fetchCtx, cancelFetch := context.WithTimeout(context.Background(), cfg.GeoJSONTimeout)
	fc, err := geojson.NewClient(cfg.GeoJSONURL, cfg.GeoJSONTimeout, logger).Fetch(fetchCtx)
	cancelFetch()
	if err != nil {
		logger.Error("failed to fetch county boundaries", "url", cfg.GeoJSONURL, "error", err)
		os.Exit(1)
	}
	boundaries := geojson.NewBoundaries(fc, cfg.BoundaryCacheSize, metrics)
	logger.Info("county boundaries indexed", "features", boundaries.Len(), "cache_size", cfg.BoundaryCacheSize)

	// Interaction stream (feature-flagged via KAFKA_ENABLED).
	var rec recorder = kafkaadapter.NopRecorder{}
	if cfg.KafkaEnabled {
		rec = kafkaadapter.NewWriter(cfg, logger)
		logger.Info("interaction stream enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaInteractionTopic)
	} else {
		logger.Info("interaction stream disabled")
	}

	env := dashboard.Env{
		Data:       ds,
		Figures:    chart.NewBuilder(nil),
		Metrics:    metrics,
		Nationwide: cfg.NationwideView,
	}
	graph := dashboard.NewDefaultGraph(env, logger)
	sessions := dashboard.NewSessionStore(graph, rec, dashboard.StoreConfig{
		TTL:            cfg.SessionTTL,
		BaselineYear:   cfg.BaselineYear,
		PublishTimeout: cfg.KafkaPublishTimeout,
	}, logger)

	api := &httpadapter.API{
		Graph:      graph,
		Sessions:   sessions,
		Controls:   dashboard.NewControls(ds, cfg.BaselineYear, cfg.NationwideView),
		Boundaries: boundaries,
		Renderer:   render.NewPNGRenderer(render.DefaultWidth, render.DefaultHeight, logger),
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, boundaries, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Expire idle sessions.
	go sessions.RunSweeper(ctx, max(cfg.SessionTTL/4, time.Second))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := rec.Close(); err != nil {
		logger.Error("interaction writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
