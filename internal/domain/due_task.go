package domain

import "time"

// DueTask is the projection of a task and its assignee that the reminder job
// works with.
type DueTask struct {
	Title         string    `json:"title"`
	Deadline      time.Time `json:"deadline"`
	AssigneeEmail string    `json:"assignee_email"`
	AssigneeName  string    `json:"assignee_name,omitempty"`
}

// RawDeadline returns the deadline in DeadlineLayout.
func (t DueTask) RawDeadline() string {
	return t.Deadline.Format(DeadlineLayout)
}

// DueTaskBatch is the ordered set of tasks found by one firing of the job.
// It only lives for the duration of that firing.
type DueTaskBatch []DueTask

// IsEmpty reports whether the batch holds no tasks.
func (b DueTaskBatch) IsEmpty() bool {
	return len(b) == 0
}

// DueDate returns the calendar date that lies leadDays after now, at midnight
// in now's location. A task is due when its deadline falls on this date.
func DueDate(now time.Time, leadDays int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+leadDays, 0, 0, 0, 0, now.Location())
}

// IsDueOn reports whether the deadline falls on the calendar date of day,
// ignoring time of day.
func (t DueTask) IsDueOn(day time.Time) bool {
	ty, tm, td := t.Deadline.Date()
	dy, dm, dd := day.Date()
	return ty == dy && tm == dm && td == dd
}
