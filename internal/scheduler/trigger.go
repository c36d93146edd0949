package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/duesoon/internal/redact"
	"github.com/phrazzld/duesoon/internal/reminder"
	"github.com/robfig/cron/v3"
)

// Runner is one firing of the job.
type Runner interface {
	Run(ctx context.Context) (reminder.Report, error)
}

// Trigger fires a Runner on a cron schedule, one firing at a time.
type Trigger struct {
	runner   Runner
	schedule cron.Schedule
	location *time.Location
	clock    Clock
	logger   *slog.Logger

	// mu keeps firings from overlapping, including RunOnce during Run.
	mu sync.Mutex
}

// NewTrigger parses spec as a standard five-field cron expression evaluated
// in loc. A nil clock means the wall clock.
func NewTrigger(runner Runner, spec string, loc *time.Location, clock Clock, logger *slog.Logger) (*Trigger, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Trigger{
		runner:   runner,
		schedule: schedule,
		location: loc,
		clock:    clock,
		logger:   logger.With(slog.String("component", "trigger"), slog.String("schedule", spec)),
	}, nil
}

// Next returns the first firing strictly after the clock's current time.
func (t *Trigger) Next() time.Time {
	return t.schedule.Next(t.clock.Now().In(t.location))
}

// Run blocks, firing the runner at every scheduled time until ctx is
// cancelled. Cancellation stops the wait for the next firing; a firing
// already in progress runs to completion. Runner errors are logged and the
// loop continues.
func (t *Trigger) Run(ctx context.Context) error {
	t.logger.Info("trigger started", slog.String("timezone", t.location.String()))

	for {
		now := t.clock.Now().In(t.location)
		next := t.schedule.Next(now)
		wait := next.Sub(now)

		t.logger.Info("next firing scheduled",
			slog.Time("next", next),
			slog.Duration("in", wait))

		select {
		case <-ctx.Done():
			t.logger.Info("trigger stopped", slog.String("reason", context.Cause(ctx).Error()))
			return nil
		case <-t.clock.After(wait):
		}

		_, _ = t.fire(context.WithoutCancel(ctx))
	}
}

// RunOnce fires the runner immediately.
func (t *Trigger) RunOnce(ctx context.Context) (reminder.Report, error) {
	return t.fire(ctx)
}

func (t *Trigger) fire(ctx context.Context) (reminder.Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := t.clock.Now()
	report, err := t.runner.Run(ctx)
	duration := t.clock.Now().Sub(start)

	if err != nil {
		t.logger.Error("reminder run failed",
			slog.String("run_id", report.RunID),
			redact.ErrorAttr(err),
			slog.Duration("duration", duration))
		return report, err
	}

	attrs := []any{
		slog.String("run_id", report.RunID),
		slog.String("due_on", report.DueOn.Format("2006-01-02")),
		slog.Int("tasks", report.Tasks),
		slog.Int("sent", report.Sent()),
		slog.Int("failed", report.Failed()),
		slog.Duration("duration", duration),
	}
	if report.SuggestionErr != nil && report.Tasks > 0 {
		attrs = append(attrs, slog.String("suggestion_error", redact.Error(report.SuggestionErr)))
	}
	t.logger.Info("reminder run finished", attrs...)

	return report, nil
}
