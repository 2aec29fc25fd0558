package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"memory-companion-go/internal/answer"
	"memory-companion-go/internal/config"
	"memory-companion-go/internal/dataset"
	"memory-companion-go/internal/httpapi"
	"memory-companion-go/internal/logger"
	"memory-companion-go/internal/observe"
	"memory-companion-go/internal/pipeline"
	"memory-companion-go/internal/processor"
	"memory-companion-go/internal/transcription"
)

func main() {
	_ = godotenv.Load() // loads .env

	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Server.LogLevel)
	log.WithField("service", "memory-companion-go").Info("starting service")

	mp, err := observe.InitProvider()
	if err != nil {
		log.WithError(err).Fatal("failed to init metrics provider")
	}
	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		log.WithError(err).Fatal("failed to create metrics")
	}

	stt := transcription.New(cfg.Transcription.URL,
		transcription.WithMock(cfg.Transcription.Mock),
		transcription.WithTimeout(cfg.Transcription.Timeout),
		transcription.WithLogger(log),
	)
	proc := processor.New(
		processor.WithTranscriber(stt),
		processor.WithMetrics(metrics),
		processor.WithLogger(log),
	)
	matcher := answer.NewMatcher(
		answer.WithOverlapThreshold(cfg.Matching.OverlapThreshold),
		answer.WithPhoneticThreshold(cfg.Matching.PhoneticThreshold),
	)

	// the dataset is optional; /demo and /insights report their own errors
	var summary *dataset.DatasetSummary
	log.WithField("dataset_path", cfg.Dataset.Path).Info("loading dataset summary")
	if ds, err := dataset.LoadAndSummarize(cfg.Dataset.Path, log); err != nil {
		log.WithError(err).Warn("dataset summary unavailable")
	} else {
		summary = &ds
		log.WithField("total_sessions", ds.TotalSessions).Info("dataset summary loaded")
	}

	api := httpapi.New(proc,
		httpapi.WithLogger(log),
		httpapi.WithMetrics(metrics),
		httpapi.WithMatcher(matcher),
		httpapi.WithDataset(cfg.Dataset.Path, summary),
		httpapi.WithSessionLimits(cfg.Server.MaxSessions, cfg.Server.SessionIdle),
		httpapi.WithPipeline(pipeline.Options{
			Workers:        cfg.Pipeline.Workers,
			SessionTimeout: cfg.Pipeline.SessionTimeout,
		}),
	)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("metrics provider shutdown failed")
	}
}
