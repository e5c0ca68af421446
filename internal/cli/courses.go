package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/krsbot-dev/krsbot/internal/models"
	"github.com/krsbot-dev/krsbot/internal/schedule"
)

// Available lists the offered-course catalog for the configured study
// program and term level.
func (a *App) Available(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account")
	if err != nil {
		return a.fail(err)
	}
	session, err := a.sessionFor(ctx, account)
	if err != nil {
		return a.fail(err)
	}

	courses, err := session.ListAvailable(ctx, a.config.StudyProgramID, a.config.TermLevel)
	if err != nil {
		return a.fail(err)
	}
	if len(courses) == 0 {
		fmt.Fprintln(a.out, "No courses offered.")
		return nil
	}
	fmt.Fprintf(a.out, "Offered courses (program %d, term level %d):\n",
		a.config.StudyProgramID, a.config.TermLevel)
	for _, c := range courses {
		fmt.Fprintf(a.out, "  %s  %s-%s %s (%d cr) quota %d/%d\n",
			c.CourseID, c.SubjectCode, c.Class, c.SubjectName, c.Credit, c.RemainingQuota, c.Quota)
	}
	return nil
}

// Enrolled lists the account's current registrations with the registration
// ids the drop operation needs.
func (a *App) Enrolled(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account")
	if err != nil {
		return a.fail(err)
	}
	session, err := a.sessionFor(ctx, account)
	if err != nil {
		return a.fail(err)
	}

	courses, err := session.ListEnrolled(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(courses) == 0 {
		fmt.Fprintln(a.out, "No enrolled courses.")
		return nil
	}
	total := 0
	for i, c := range courses {
		fmt.Fprintf(a.out, "%d. %s-%s %s (%d cr) [reg %s]\n",
			i+1, c.SubjectCode, c.Class, c.SubjectName, c.Credit, c.RegistrationID)
		total += c.Credit
	}
	fmt.Fprintf(a.out, "Total credits: %d\n", total)
	return nil
}

// Timetable prints the weekly schedule and flags cells where meetings
// collide.
func (a *App) Timetable(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account")
	if err != nil {
		return a.fail(err)
	}
	session, err := a.sessionFor(ctx, account)
	if err != nil {
		return a.fail(err)
	}

	slots, err := session.GetSchedule(ctx)
	if err != nil {
		return a.fail(err)
	}
	empty := true
	for _, slot := range slots {
		for _, day := range schedule.WeekDays {
			for _, m := range slot.Days[day] {
				fmt.Fprintf(a.out, "%-9s %s-%s  %s (%d cr)\n",
					day, m.StartHour, m.EndHour, m.CourseName, m.Credit)
				empty = false
			}
		}
	}
	if empty {
		fmt.Fprintln(a.out, "Timetable is empty.")
		return nil
	}

	conflicts := schedule.Conflicts(slots)
	if len(conflicts) == 0 {
		fmt.Fprintln(a.out, "No conflicts.")
		return nil
	}
	for _, c := range conflicts {
		names := make([]string, 0, len(c.Meetings))
		for _, m := range c.Meetings {
			names = append(names, m.CourseName)
		}
		fmt.Fprintf(a.out, "CONFLICT %s %s: %s\n", c.Day, c.Time, strings.Join(names, " / "))
	}
	return nil
}

// AddCourse registers a single course right now, outside the batch queue.
// The attempt is logged either way; an auth failure shows up as a failed
// entry rather than aborting the command.
func (a *App) AddCourse(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account")
	if err != nil {
		return a.fail(err)
	}
	courseID, err := getSimpleText(a.reader, "Enter course id", a.out)
	if err != nil {
		return a.fail(err)
	}
	if courseID == "" {
		return a.fail(errors.New("course id is required"))
	}
	courseName, err := getSimpleText(a.reader, "Enter course name (optional)", a.out)
	if err != nil {
		return a.fail(err)
	}

	entry := a.orch.AddCourse(ctx, a.clientFor(account), account, courseID, courseName)
	a.printOutcome(entry)
	return nil
}

// DropCourse lists the current registrations, asks which one to drop, and
// confirms before issuing the drop.
func (a *App) DropCourse(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account")
	if err != nil {
		return a.fail(err)
	}
	session, err := a.sessionFor(ctx, account)
	if err != nil {
		return a.fail(err)
	}

	courses, err := session.ListEnrolled(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(courses) == 0 {
		fmt.Fprintln(a.out, "No enrolled courses to drop.")
		return nil
	}
	for i, c := range courses {
		fmt.Fprintf(a.out, "%d. %s-%s %s [reg %s]\n",
			i+1, c.SubjectCode, c.Class, c.SubjectName, c.RegistrationID)
	}

	answer, err := getSimpleText(a.reader, "Select course to drop", a.out)
	if err != nil {
		return a.fail(err)
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(courses) {
		return a.fail(fmt.Errorf("invalid course number: %s", answer))
	}
	course := courses[n-1]

	ok, err := getConfirmation(a.reader, fmt.Sprintf("Drop %s?", course.SubjectName), a.out)
	if err != nil {
		return a.fail(err)
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	entry := a.orch.DropCourse(ctx, session, account,
		course.RegistrationID.String(), course.CourseID.String(), course.SubjectName)
	a.printOutcome(entry)
	return nil
}

func (a *App) printOutcome(entry *models.EnrollmentLogEntry) {
	if entry.Status == models.LogStatusSuccess {
		fmt.Fprintf(a.out, "OK: %s\n", entry.Message)
		return
	}
	fmt.Fprintf(a.out, "Failed: %s\n", entry.Message)
}
