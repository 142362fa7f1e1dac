package domain

import "time"

// WatcherSource records how an employee ended up subscribed.
type WatcherSource string

const (
	WatcherManual         WatcherSource = "manual"
	WatcherAutoCreator    WatcherSource = "auto_creator"
	WatcherAutoAssigner   WatcherSource = "auto_assigner"
	WatcherAutoSuperadmin WatcherSource = "auto_superadmin"
)

// Watcher subscribes an employee to a ticket's notifications.
// Unique per (ticket, employee).
type Watcher struct {
	ID         string
	TicketID   string
	EmployeeID string
	AddedByID  string
	Source     WatcherSource
	CreatedAt  time.Time
}
