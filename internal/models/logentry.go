package models

import "time"

// LogAction distinguishes the two portal mutations.
type LogAction string

const (
	LogActionAdd  LogAction = "add"
	LogActionDrop LogAction = "drop"
)

// LogStatus records whether the portal accepted the mutation.
type LogStatus string

const (
	LogStatusSuccess LogStatus = "success"
	LogStatusFailed  LogStatus = "failed"
)

// EnrollmentLogEntry records one add/drop attempt, success or failure.
// Entries are append-only: nothing in krsbot mutates or deletes them.
// Message carries the portal-side text verbatim (or the auth failure
// message when the attempt never reached the course operation).
type EnrollmentLogEntry struct {
	ID         string
	AccountID  string
	Action     LogAction
	CourseID   string
	CourseName string
	Status     LogStatus
	Message    string
	CreatedAt  time.Time
}

// EnrollmentStats aggregates an account's log history.
type EnrollmentStats struct {
	Total       int
	Success     int
	Failed      int
	AddActions  int
	DropActions int
}
