package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/generation"
	"github.com/phrazzld/duesoon/internal/notify"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/redact"
	"github.com/phrazzld/duesoon/internal/store"
)

// Suggester produces the supplementary note for a batch.
type Suggester interface {
	Suggest(ctx context.Context, batch domain.DueTaskBatch) generation.SuggestionResult
}

// Deliverer sends the reminder for one task.
type Deliverer interface {
	Notify(ctx context.Context, task domain.DueTask, suggestion string) notify.DeliveryResult
}

// Config controls which day a firing looks at.
type Config struct {
	// LeadDays is how many calendar days ahead a deadline must fall.
	LeadDays int
	// Location is the zone "today" is computed in. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Report summarizes one firing.
type Report struct {
	RunID         string
	DueOn         time.Time
	Tasks         int
	Skipped       int
	Suggestion    string
	SuggestionErr error
	Deliveries    []notify.DeliveryResult
}

// Sent returns the number of accepted deliveries.
func (r Report) Sent() int {
	n := 0
	for _, d := range r.Deliveries {
		if d.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed deliveries.
func (r Report) Failed() int {
	return len(r.Deliveries) - r.Sent()
}

// Job wires the reader, suggester and deliverer into a single firing.
type Job struct {
	reader    store.DueTaskReader
	suggester Suggester
	deliverer Deliverer
	cfg       Config
	logger    *slog.Logger
}

// NewJob creates a Job. If logger is nil, the default logger is used.
func NewJob(
	reader store.DueTaskReader,
	suggester Suggester,
	deliverer Deliverer,
	cfg Config,
	logger *slog.Logger,
) *Job {
	if reader == nil || suggester == nil || deliverer == nil {
		panic("reader, suggester and deliverer cannot be nil")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		reader:    reader,
		suggester: suggester,
		deliverer: deliverer,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "reminder_job")),
	}
}

// Run executes one firing synchronously. The only error it returns is a
// failure to read due tasks; generation and delivery failures are recorded
// in the report and every delivery is attempted.
func (j *Job) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}

	log := logger.FromContextOrDefault(ctx, j.logger).With(slog.String("run_id", report.RunID))
	ctx = logger.WithLogger(ctx, log)

	now := j.cfg.Now().In(j.cfg.Location)
	report.DueOn = domain.DueDate(now, j.cfg.LeadDays)
	log.Info("checking tasks due", slog.String("due_on", report.DueOn.Format("2006-01-02")))

	batch, err := j.reader.ListDueTasks(ctx, report.DueOn)
	if err != nil {
		log.Error("failed to list due tasks", redact.ErrorAttr(err))
		return report, fmt.Errorf("failed to list due tasks: %w", err)
	}
	batch, report.Skipped = j.dueOn(log, batch, report.DueOn)
	report.Tasks = len(batch)

	if batch.IsEmpty() {
		log.Info("no tasks due", slog.Int("lead_days", j.cfg.LeadDays))
		return report, nil
	}

	suggestion := j.suggester.Suggest(ctx, batch)
	report.Suggestion = suggestion.Text
	report.SuggestionErr = suggestion.Err

	report.Deliveries = make([]notify.DeliveryResult, 0, len(batch))
	for _, task := range batch {
		report.Deliveries = append(report.Deliveries, j.deliverer.Notify(ctx, task, suggestion.Text))
	}

	log.Info("reminder run complete",
		slog.Int("tasks", report.Tasks),
		slog.Int("skipped", report.Skipped),
		slog.Int("sent", report.Sent()),
		slog.Int("failed", report.Failed()),
		slog.Bool("suggestion", suggestion.OK()))
	return report, nil
}

// dueOn drops tasks whose deadline is not on day. The reader is expected to
// return only due tasks; anything else is logged and never reminded.
func (j *Job) dueOn(log *slog.Logger, batch domain.DueTaskBatch, day time.Time) (domain.DueTaskBatch, int) {
	due := make(domain.DueTaskBatch, 0, len(batch))
	for _, task := range batch {
		if !task.IsDueOn(day) {
			log.Warn("skipping task not due on the reminder date",
				slog.String("title", task.Title),
				slog.String("deadline", task.RawDeadline()),
				slog.String("due_on", day.Format("2006-01-02")))
			continue
		}
		due = append(due, task)
	}
	return due, len(batch) - len(due)
}
