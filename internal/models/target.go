package models

import "time"

// TargetStatus tracks a course target through the batch runner.
type TargetStatus string

const (
	TargetPending   TargetStatus = "pending"
	TargetCompleted TargetStatus = "completed"
)

// CourseTarget is a course an account wants enrolled on the next run.
// Targets stay pending until an add succeeds; a failed attempt leaves the
// target pending for the following run.
type CourseTarget struct {
	ID         string
	AccountID  string
	CourseID   string
	CourseName string
	Priority   int
	Status     TargetStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
