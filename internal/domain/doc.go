// Package domain contains the core entities and value objects of the reminder
// job: contacts, tracked tasks, the batch of tasks due soon, and the
// notification composed for each assignee. It also owns the deadline
// rendering rules shared by every email. It has no infrastructure dependencies
// beyond validation.
package domain
