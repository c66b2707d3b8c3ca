// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command seqd starts the Aleutian Sequence classification server.
//
// The server loads model banks (per-class hidden Markov models plus an
// optional rejection model) from a directory of YAML files and serves
// posterior, decision, and likelihood queries over HTTP.
//
// Usage:
//
//	go run ./cmd/seqd -models ./models
//	go run ./cmd/seqd -models ./models -port 9090 -watch
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/classify/health
//
//	# List loaded banks
//	curl http://localhost:8080/v1/classify/banks | jq
//
//	# Classify a sequence
//	curl -X POST http://localhost:8080/v1/classify/banks/gestures/posteriors \
//	  -H "Content-Type: application/json" \
//	  -d '{"sequence": [0, 1, 1, 2, 0]}'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/AleutianSequence/pkg/logging"
	"github.com/AleutianAI/AleutianSequence/services/classify"
	"github.com/AleutianAI/AleutianSequence/services/classify/telemetry"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	models := flag.String("models", "", "Directory of bank definition YAML files")
	debug := flag.Bool("debug", false, "Enable debug mode")
	watch := flag.Bool("watch", false, "Reload bank files when they change on disk")
	logDir := flag.String("log-dir", "", "Directory for JSON log files (disabled when empty)")
	rateLimit := flag.Float64("rate-limit", 0, "Sustained requests per second on scoring endpoints (0 disables)")
	flag.Parse()

	level := logging.LevelInfo
	if *debug {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  *logDir,
		Service: "seqd",
	})
	defer logger.Close()
	log := logger.Slog()

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Telemetry first so everything below records into it.
	telCfg := telemetry.DefaultConfig()
	telCfg.ServiceName = "seqd"
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		telCfg.TraceExporter = "none"
	}
	telShutdown, err := telemetry.Init(ctx, telCfg)
	if err != nil {
		log.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telShutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	metrics, err := telemetry.NewMetrics(otel.Meter("classify"))
	if err != nil {
		log.Error("metrics init failed", "error", err)
		os.Exit(1)
	}

	svc := classify.NewService(log, metrics)
	if *models != "" {
		n, err := svc.LoadDir(ctx, *models)
		if err != nil {
			log.Error("model load failed", "dir", *models, "error", err)
			os.Exit(1)
		}
		log.Info("models loaded", "dir", *models, "banks", n)
	} else {
		log.Warn("no -models directory given; starting with an empty registry")
	}

	if *watch {
		if *models == "" {
			log.Error("-watch requires -models")
			os.Exit(1)
		}
		watcher, err := classify.NewWatcher(svc, *models, 0, log)
		if err != nil {
			log.Error("watcher init failed", "dir", *models, "error", err)
			os.Exit(1)
		}
		watcher.Start(ctx)
		defer watcher.Stop()
		log.Info("watching model directory", "dir", *models)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("seqd"))
	if *debug {
		router.Use(gin.Logger())
	}

	var limit gin.HandlerFunc
	if *rateLimit > 0 {
		limit = classify.RateLimit(rate.Limit(*rateLimit), int(*rateLimit)+1)
	}
	classify.RegisterRoutes(router, classify.NewHandlers(svc, log), limit)

	if mh := telemetry.MetricsHandler(); mh != nil {
		router.GET("/metrics", gin.WrapH(mh))
	}

	printBanner(*port, len(svc.Banks()), *watch)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("shutting down sequence server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("starting sequence server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func printBanner(port, banks int, watch bool) {
	watchStatus := "off"
	if watch {
		watchStatus = "on"
	}

	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                   ALEUTIAN SEQUENCE SERVER                        ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  HMM sequence classification with Bayesian rejection.             ║
║  Banks loaded: %-4d  Hot reload: %-3s                              ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/classify/health               │  ║
║  │                                                             │  ║
║  │ # List loaded banks                                         │  ║
║  │ curl http://localhost:%d/v1/classify/banks | jq           │  ║
║  │                                                             │  ║
║  │ # Classify a sequence                                       │  ║
║  │ curl -X POST \                                              │  ║
║  │   http://localhost:%d/v1/classify/banks/NAME/posteriors \ │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"sequence": [0, 1, 1, 2]}'                           │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── GET  /banks, /banks/:name, /health                           ║
║  ├── POST /banks/:name/posteriors, /decide, /likelihood           ║
║  ├── PUT  /banks/:name/priors, /sensitivity                       ║
║  └── GET  /metrics (Prometheus)                                   ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, banks, watchStatus, port, port, port)
}
