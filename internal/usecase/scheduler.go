package usecase

import (
	"context"
	"sync"
	"time"

	"SentiPulse/internal/domain/models"
	"SentiPulse/internal/sentiment"
	applogger "SentiPulse/pkg/logger"
)

// Runner triggers the aggregation pipeline on a fixed interval. It invokes
// the same ComputeAndRecord the manual endpoint uses; the two triggers are
// mutually idempotent because the pipeline is deterministic per input set.
type Runner struct {
	svc      *SentimentService
	interval time.Duration
	logger   *applogger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewRunner(svc *SentimentService, interval time.Duration, logger *applogger.Logger) *Runner {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Runner{
		svc:      svc,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the periodic trigger. Persistence failures are logged and
// the schedule continues; the next tick produces a fresh record.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.runOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.runOnce(ctx)
			}
		}
	}()
	r.logger.Info("sentiment runner started", applogger.Duration("interval_ms", r.interval))
}

func (r *Runner) runOnce(ctx context.Context) {
	res, err := r.svc.ComputeAndRecord(ctx)
	if err != nil {
		r.logger.Error("scheduled aggregation failed", applogger.Error(err))
		return
	}
	// a no-data run is recorded but escalated to the alerting log stream
	if res.Score == models.ScoreMissing {
		r.logger.Error("scheduled aggregation had no data", applogger.Error(sentiment.ErrNoValidIndicators))
		return
	}
	r.logger.Info("sentiment recorded",
		applogger.Int("score", res.Score),
		applogger.String("status", string(res.Status)),
		applogger.String("method", res.Details.Method),
		applogger.Int("valid_indicators", res.Details.ValidCount),
	)
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}
