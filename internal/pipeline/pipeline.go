// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"memory-companion-go/internal/logger"
	"memory-companion-go/internal/observe"
	"memory-companion-go/internal/types"
)

// Processor is the per-session step run by the pipeline.
type Processor interface {
	ProcessRecording(ctx context.Context, rec types.SessionRecord) (types.SessionReport, error)
}

// Options tune a pipeline run. Zero values fall back to defaults.
type Options struct {
	Workers        int
	SessionTimeout time.Duration
	Metrics        *observe.Metrics
	Logger         *logger.Logger
}

const (
	defaultWorkers        = 4
	defaultSessionTimeout = 60 * time.Second
)

// Run processes records concurrently with at most opts.Workers in flight,
// each under its own timeout. Reports come back in input order. A failing
// session is reported with its Error set and does not stop the others; Run
// only returns an error when ctx itself is cancelled.
func Run(ctx context.Context, p Processor, records []types.SessionRecord, opts Options) ([]types.SessionReport, error) {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.SessionTimeout <= 0 {
		opts.SessionTimeout = defaultSessionTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = observe.DefaultMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	log := opts.Logger.Component("pipeline")

	reports := make([]types.SessionReport, len(records))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)

	for i, rec := range records {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			sctx, cancel := context.WithTimeout(egCtx, opts.SessionTimeout)
			defer cancel()

			rep, err := p.ProcessRecording(sctx, rec)
			if err != nil {
				if rep.Error == "" {
					rep.Error = err.Error()
				}
				if rep.SessionID == "" {
					rep.SessionID = rec.SessionID
				}
				log.WithError(err).WithField("session_id", rec.SessionID).Warn("session failed")
				opts.Metrics.RecordSession(egCtx, "error")
			} else {
				opts.Metrics.RecordSession(egCtx, "ok")
			}
			reports[i] = rep
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return reports, err
	}
	log.WithField("sessions", len(records)).Info("pipeline finished")
	return reports, ctx.Err()
}
