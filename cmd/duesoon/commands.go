package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/postgres"
	"github.com/phrazzld/duesoon/internal/redact"
	"github.com/phrazzld/duesoon/internal/reminder"
	"github.com/spf13/cobra"
)

// newRootCommand builds the duesoon command tree. Without a subcommand it
// behaves like "serve".
func newRootCommand(open opener) *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:           "duesoon",
		Short:         "Email assignees a reminder before their task deadlines",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, opts, serve)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (default: ./config.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	cmd.AddCommand(
		newServeCommand(open, &opts),
		newRunOnceCommand(open, &opts),
		newMigrateCommand(open, &opts),
		newContactsCommand(open, &opts),
		newTasksCommand(open, &opts),
	)

	return cmd
}

// withApp opens the application, runs fn and cleans up.
func withApp(cmd *cobra.Command, open opener, opts globalOptions, fn func(context.Context, *cobra.Command, *application) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := open(ctx, opts)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return fn(ctx, cmd, app)
}

func newServeCommand(open opener, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reminder job on its schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, *opts, serve)
		},
	}
}

func serve(ctx context.Context, _ *cobra.Command, app *application) error {
	trigger, err := app.pipeline(ctx, false)
	if err != nil {
		return err
	}
	return trigger.Run(ctx)
}

func newRunOnceCommand(open opener, opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run-once",
		Short: "Run the reminder job immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, *opts, func(ctx context.Context, cmd *cobra.Command, app *application) error {
				trigger, err := app.pipeline(ctx, dryRun)
				if err != nil {
					return err
				}
				report, err := trigger.RunOnce(ctx)
				if err != nil {
					return err
				}
				return printReport(cmd.OutOrStdout(), report)
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log emails instead of sending them")
	return cmd
}

func printReport(w io.Writer, report reminder.Report) error {
	fmt.Fprintf(w, "run %s: %d task(s) due %s, %d sent, %d failed\n",
		report.RunID, report.Tasks, report.DueOn.Format("2006-01-02"), report.Sent(), report.Failed())
	if report.Skipped > 0 {
		fmt.Fprintf(w, "skipped %d task(s) not due on %s\n", report.Skipped, report.DueOn.Format("2006-01-02"))
	}
	if report.SuggestionErr != nil && report.Tasks > 0 {
		fmt.Fprintf(w, "suggestion unavailable: %s\n", redact.Error(report.SuggestionErr))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range report.Deliveries {
		status := "sent"
		if !d.OK() {
			status = "failed: " + redact.Error(d.Err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Recipient, d.Title, status)
	}
	return tw.Flush()
}

var migrateCommands = []string{"up", "down", "status", "version"}

func newMigrateCommand(open opener, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(migrateCommands, "|") + "]",
		Short:     "Apply or inspect the database schema migrations (default: up)",
		ValidArgs: migrateCommands,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			return withApp(cmd, open, *opts, func(ctx context.Context, _ *cobra.Command, app *application) error {
				return postgres.Migrate(ctx, app.db, command, app.logger)
			})
		},
	}
}

func newContactsCommand(open opener, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the people tasks are assigned to",
	}

	cmd.AddCommand(
		newContactsAddCommand(open, opts),
		newContactsListCommand(open, opts),
	)

	return cmd
}

func newContactsAddCommand(open opener, opts *globalOptions) *cobra.Command {
	var name, phone, email, address string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, err := domain.NewContact(name, phone, email, address)
			if err != nil {
				return err
			}
			return withApp(cmd, open, *opts, func(ctx context.Context, cmd *cobra.Command, app *application) error {
				if err := app.contacts.Create(ctx, contact); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "contact %d added: %s <%s>\n", contact.ID, contact.Name, contact.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&address, "address", "", "postal address")
	cobra.CheckErr(cmd.MarkFlagRequired("name"))
	cobra.CheckErr(cmd.MarkFlagRequired("phone"))
	cobra.CheckErr(cmd.MarkFlagRequired("email"))

	return cmd
}

func newContactsListCommand(open opener, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, *opts, func(ctx context.Context, cmd *cobra.Command, app *application) error {
				contacts, err := app.contacts.List(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE")
				for _, c := range contacts {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
				}
				return tw.Flush()
			})
		},
	}
}

func newTasksCommand(open opener, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tracked tasks",
	}
	cmd.AddCommand(newTasksAddCommand(open, opts))
	return cmd
}

// taskFlags are the inputs of "tasks add".
type taskFlags struct {
	title           string
	deadline        string
	assignee        string
	estimatedTime   string
	description     string
	category        string
	priority        string
	status          string
	expectedOutcome string
	instructions    string
	notes           string
}

// task converts the flags into a domain task. AssignedTo is resolved by the
// store from the assignee email.
func (f taskFlags) task() (*domain.Task, error) {
	deadline, err := domain.ParseDeadline(strings.TrimSpace(f.deadline))
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:           strings.TrimSpace(f.title),
		Description:     f.description,
		Category:        f.category,
		Priority:        domain.Priority(f.priority),
		ExpectedOutcome: f.expectedOutcome,
		Deadline:        deadline,
		EstimatedTime:   strings.TrimSpace(f.estimatedTime),
		Instructions:    f.instructions,
		Notes:           f.notes,
		Status:          domain.TaskStatus(f.status),
	}
	if task.Priority != "" && !task.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, f.priority)
	}
	if task.Status != "" && !task.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskStatus, f.status)
	}
	return task, nil
}

func newTasksAddCommand(open opener, opts *globalOptions) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task assigned to an existing contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := f.task()
			if err != nil {
				return err
			}
			return withApp(cmd, open, *opts, func(ctx context.Context, cmd *cobra.Command, app *application) error {
				if err := app.tasks.CreateForAssignee(ctx, task, strings.TrimSpace(f.assignee)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "task %d added: %s due %s\n",
					task.ID, task.Title, task.Deadline.Format(domain.DeadlineLayout))
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "task title")
	flags.StringVar(&f.deadline, "deadline", "", `deadline as "YYYY-MM-DD HH:MM"`)
	flags.StringVar(&f.assignee, "assignee-email", "", "email of the assigned contact")
	flags.StringVar(&f.estimatedTime, "estimated-time", "", `estimated effort, e.g. "3 hours"`)
	flags.StringVar(&f.description, "description", "", "description")
	flags.StringVar(&f.category, "category", "", "category")
	flags.StringVar(&f.priority, "priority", "", "Low, Medium or High")
	flags.StringVar(&f.status, "status", "", `status (default "Not Started")`)
	flags.StringVar(&f.expectedOutcome, "expected-outcome", "", "expected outcome")
	flags.StringVar(&f.instructions, "instructions", "", "instructions")
	flags.StringVar(&f.notes, "notes", "", "notes")
	for _, name := range []string{"title", "deadline", "assignee-email", "estimated-time"} {
		cobra.CheckErr(cmd.MarkFlagRequired(name))
	}

	return cmd
}
