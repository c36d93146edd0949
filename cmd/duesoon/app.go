package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/duesoon/internal/config"
	"github.com/phrazzld/duesoon/internal/generation"
	"github.com/phrazzld/duesoon/internal/notify"
	"github.com/phrazzld/duesoon/internal/platform/email"
	"github.com/phrazzld/duesoon/internal/platform/gemini"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/platform/postgres"
	"github.com/phrazzld/duesoon/internal/reminder"
	"github.com/phrazzld/duesoon/internal/scheduler"
	"github.com/phrazzld/duesoon/internal/store"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	envFile    string
}

// opener builds the application for a command. Tests substitute their own.
type opener func(ctx context.Context, opts globalOptions) (*application, error)

// application holds the shared dependencies of a command invocation and
// releases them in cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	dueTasks store.DueTaskReader
	contacts store.ContactStore
	tasks    store.TaskStore

	// Built on first use by pipeline, or preset by tests.
	generator generation.Generator
	sender    email.Sender

	// clock drives the trigger; nil means the wall clock.
	clock scheduler.Clock
}

// openApplication loads configuration, sets up logging and connects to the
// database.
func openApplication(ctx context.Context, opts globalOptions) (*application, error) {
	cfg, err := config.LoadWithOptions(config.Options{
		ConfigFile: opts.configFile,
		DotEnvFile: opts.envFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("email_provider", cfg.Email.Provider),
		slog.String("schedule", cfg.Schedule.Cron),
		slog.String("timezone", cfg.Schedule.Timezone),
		slog.Int("lead_days", cfg.Schedule.LeadDays))

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	return newApplication(cfg, log, db), nil
}

// newApplication wires the stores over db.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) *application {
	return &application{
		config:   cfg,
		logger:   log,
		db:       db,
		dueTasks: postgres.NewPostgresDueTaskStore(db, log),
		contacts: postgres.NewPostgresContactStore(db, log),
		tasks:    postgres.NewPostgresTaskStore(db, log),
	}
}

// pipeline assembles the reminder job and its trigger. With dryRun set,
// emails are logged instead of sent. Only this path needs the llm, email and
// schedule settings.
func (a *application) pipeline(ctx context.Context, dryRun bool) (*scheduler.Trigger, error) {
	if err := config.ValidatePipeline(a.config); err != nil {
		return nil, err
	}

	if a.generator == nil {
		g, err := gemini.NewGenerator(ctx, a.logger, a.config.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create generator: %w", err)
		}
		a.generator = g
	}

	sender := a.sender
	switch {
	case dryRun:
		sender = email.NewLogSender(a.logger)
	case sender == nil:
		s, err := email.NewSender(a.config.Email, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create email sender: %w", err)
		}
		sender = s
	}

	loc, err := a.config.Schedule.Location()
	if err != nil {
		return nil, err
	}

	narrator := generation.NewNarrator(a.generator, a.config.Schedule.LeadDays, a.logger)
	notifier := notify.NewNotifier(notify.NewComposer(a.config.Email.Signature), sender, a.logger)
	jobCfg := reminder.Config{
		LeadDays: a.config.Schedule.LeadDays,
		Location: loc,
	}
	if a.clock != nil {
		jobCfg.Now = a.clock.Now
	}
	job := reminder.NewJob(a.dueTasks, narrator, notifier, jobCfg, a.logger)

	return scheduler.NewTrigger(job, a.config.Schedule.Cron, loc, a.clock, a.logger)
}

// cleanup releases resources held by the application.
func (a *application) cleanup() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
	a.logger.Info("Application shutdown completed")
}
