// Package store defines the persistence interfaces used by the reminder
// pipeline and the contact/task management commands. Implementations live in
// internal/platform/postgres.
package store
