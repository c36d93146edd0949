// Package reminder runs one firing of the deadline reminder pipeline: read
// the tasks due LeadDays from now, ask for one shared suggestion, and send
// every assignee their reminder, in order.
package reminder
