package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/krsbot-dev/krsbot/internal/models"
)

// Targets lists the course targets queued for one account, pending and
// completed.
func (a *App) Targets(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account")
	if err != nil {
		return a.fail(err)
	}
	targets, err := a.manager.Targets(a.manager.Conn()).ListByAccount(ctx, account.ID)
	if err != nil {
		return a.fail(err)
	}
	if len(targets) == 0 {
		fmt.Fprintln(a.out, "No course targets. Use 'addtarget' to queue one.")
		return nil
	}
	a.printTargets(targets)
	return nil
}

func (a *App) printTargets(targets []*models.CourseTarget) {
	for i, t := range targets {
		name := t.CourseName
		if name == "" {
			name = t.CourseID
		}
		fmt.Fprintf(a.out, "%d. [%s] %s (priority %d) - %s\n", i+1, t.Status, name, t.Priority, t.CourseID)
	}
}

// AddTarget queues a course for the next batch run.
func (a *App) AddTarget(ctx context.Context) error {
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
	priorityText, err := getSimpleText(a.reader, "Enter priority (lower runs first, default 0)", a.out)
	if err != nil {
		return a.fail(err)
	}
	priority := 0
	if priorityText != "" {
		priority, err = strconv.Atoi(priorityText)
		if err != nil {
			return a.fail(fmt.Errorf("invalid priority: %s", priorityText))
		}
	}

	target, err := a.manager.Targets(a.manager.Conn()).Create(ctx, &models.CourseTarget{
		AccountID:  account.ID,
		CourseID:   courseID,
		CourseName: courseName,
		Priority:   priority,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Target %s queued for %s.\n", target.CourseID, account.Label())
	return nil
}

// DeleteTarget removes one queued course target.
func (a *App) DeleteTarget(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account")
	if err != nil {
		return a.fail(err)
	}
	repo := a.manager.Targets(a.manager.Conn())
	targets, err := repo.ListByAccount(ctx, account.ID)
	if err != nil {
		return a.fail(err)
	}
	if len(targets) == 0 {
		fmt.Fprintln(a.out, "No course targets.")
		return nil
	}
	a.printTargets(targets)

	answer, err := getSimpleText(a.reader, "Select target to delete", a.out)
	if err != nil {
		return a.fail(err)
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(targets) {
		return a.fail(fmt.Errorf("invalid target number: %s", answer))
	}

	if err := repo.Delete(ctx, targets[n-1].ID); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Target deleted.")
	return nil
}
