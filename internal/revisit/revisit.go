// Package revisit handles due revisit reminders. The contract with the
// reminder queue: for each due id, mark its record pendingOpen, trigger the
// external open action, then drop the batch from the queue in one write.
// pendingOpen is cleared only by an explicit Ack once the post is actually
// revisited, so a lost open action is retried on the next visit rather than
// re-surfacing the reminder.
package revisit

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"plstrack/pkg/logger"
	"plstrack/pkg/models"
	"plstrack/pkg/store"
	"plstrack/pkg/telemetry"
)

// Opener is the external open-in-background-tab action. Fire-and-forget;
// failures are logged and do not block queue removal.
type Opener interface {
	Open(url string) error
}

// Due describes one reminder that came due.
type Due struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

type Checker struct {
	records *store.Records
	queue   *store.Revisits
	opener  Opener
	now     func() time.Time
}

func NewChecker(records *store.Records, queue *store.Revisits, opener Opener) *Checker {
	return &Checker{records: records, queue: queue, opener: opener, now: time.Now}
}

// WithClock overrides the time source for tests.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Run processes every due reminder and returns what was opened. Marking
// happens before opening; removal happens after the whole batch, in a
// single queue write.
func (c *Checker) Run() ([]Due, error) {
	ids, err := c.queue.ListDue(c.now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("revisit: list due: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	telemetry.RevisitsDue.Add(float64(len(ids)))
	logger.Info("revisits_due", "count", len(ids))

	pending := true
	var out []Due
	for _, id := range ids {
		rec, err := c.records.Load(id)
		if err != nil || rec == nil {
			logger.Warn("revisit_record_missing", "id", id, "error", err)
			out = append(out, Due{ID: id})
			continue
		}
		if _, err := c.records.Save(id, models.Patch{PendingOpen: &pending}); err != nil {
			logger.Warn("revisit_mark_failed", "id", id, "error", err)
		}
		if c.opener != nil {
			if err := c.opener.Open(rec.URL); err != nil {
				// pendingOpen stays set; the next visit retries the open
				logger.Warn("revisit_open_failed", "id", id, "error", err)
			}
		}
		out = append(out, Due{ID: id, URL: rec.URL})
	}
	if err := c.queue.Remove(ids); err != nil {
		return out, fmt.Errorf("revisit: remove handled: %w", err)
	}
	return out, nil
}

// Ack clears pendingOpen once a revisit actually happened.
func (c *Checker) Ack(id string) error {
	cleared := false
	_, err := c.records.Save(id, models.Patch{PendingOpen: &cleared})
	return err
}

// Start runs the checker on the given cron expression until ctx is
// canceled.
func (c *Checker) Start(ctx context.Context, cronExpr string) (context.CancelFunc, error) {
	if cronExpr == "" {
		cronExpr = "*/15 * * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("revisit_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid revisit cron expression: %s", cronExpr)
	}
	ctx2, cancel := context.WithCancel(ctx)
	go c.runScheduler(ctx2, cronExpr)
	logger.Info("revisit_scheduler_started", "cron", cronExpr)
	return cancel, nil
}

func (c *Checker) runScheduler(ctx context.Context, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("revisit_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("revisit_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("revisit_scheduler_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if _, err := c.Run(); err != nil {
				logger.Error("revisit_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("revisit_scheduler_stopping")
			return
		}
	}
}
