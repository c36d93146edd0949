// Package scheduler owns the daily trigger: an explicit control loop that
// computes the next firing from a cron expression, waits on an injectable
// clock, and runs the reminder job synchronously.
package scheduler
