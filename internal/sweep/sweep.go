// Package sweep evicts stale records. A record is stale once its last save
// is older than the retention window; staleness is the sole deletion
// trigger. Each run reads the index once, fires best-effort deletes, and
// rewrites the pruned index in a single operation.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"plstrack/pkg/logger"
	"plstrack/pkg/store"
	"plstrack/pkg/telemetry"
)

// DefaultRetention matches the original 180-day storage window.
const DefaultRetention = 180 * 24 * time.Hour

type Sweeper struct {
	records   *store.Records
	retention time.Duration
	now       func() time.Time
}

func New(records *store.Records, retention time.Duration) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Sweeper{records: records, retention: retention, now: time.Now}
}

// WithClock overrides the time source for tests.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Run performs one sweep and returns the number of evicted entries.
// Record deletions are fire-and-forget: a failed delete still drops the id
// from the rewritten index, because the index is the authoritative set of
// known ids going forward. A leaked orphan record is acceptable; an index
// entry pointing at a deleted record is not.
func (s *Sweeper) Run() (int, error) {
	telemetry.SweepRuns.Inc()
	idx, err := s.records.Index()
	if err != nil {
		return 0, fmt.Errorf("sweep: read index: %w", err)
	}
	cutoff := s.now().UnixMilli() - s.retention.Milliseconds()
	total := len(idx)
	removed := 0
	for id, ts := range idx {
		if ts >= cutoff {
			continue
		}
		if err := s.records.Delete(id); err != nil {
			logger.Warn("sweep_delete_failed", "id", id, "error", err)
		}
		delete(idx, id)
		removed++
	}
	if removed == 0 {
		logger.Debug("sweep_noop", "entries", total)
		return 0, nil
	}
	if err := s.records.WriteIndex(idx); err != nil {
		return removed, fmt.Errorf("sweep: rewrite index: %w", err)
	}
	telemetry.RecordEvictions.Add(float64(removed))
	logger.Info("sweep_done", "removed", removed, "scanned", total)
	return removed, nil
}

// Start runs the sweeper on the given cron expression until ctx is
// canceled. Returns a cancel func; an invalid expression is an error.
func (s *Sweeper) Start(ctx context.Context, cronExpr string) (context.CancelFunc, error) {
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("sweep_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid sweep cron expression: %s", cronExpr)
	}
	ctx2, cancel := context.WithCancel(ctx)
	go s.runScheduler(ctx2, cronExpr)
	logger.Info("sweep_scheduler_started", "cron", cronExpr, "retention", s.retention.String())
	return cancel, nil
}

// runScheduler computes the next tick with gronx and sleeps until then.
func (s *Sweeper) runScheduler(ctx context.Context, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("sweep_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("sweep_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("sweep_scheduler_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if _, err := s.Run(); err != nil {
				logger.Error("sweep_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("sweep_scheduler_stopping")
			return
		}
	}
}
