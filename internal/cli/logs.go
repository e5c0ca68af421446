package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/krsbot-dev/krsbot/internal/export"
	"github.com/krsbot-dev/krsbot/internal/models"
	"github.com/krsbot-dev/krsbot/internal/repositories/logbook"
)

// RunBatch processes every active account's pending course targets once and
// prints the tally.
func (a *App) RunBatch(ctx context.Context) error {
	fmt.Fprintln(a.out, "Running pending course targets...")
	report, err := a.runner.Run(ctx)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Done: %d accounts, %d attempted, %d succeeded, %d failed.\n",
		report.Accounts, report.Attempted, report.Succeeded, report.Failed)
	return nil
}

// findAccount resolves a user-supplied reference: username, display name or
// record id.
func (a *App) findAccount(ctx context.Context, ref string) (*models.Account, error) {
	list, err := a.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, acc := range list {
		if acc.Username == ref || acc.Name == ref || acc.ID == ref {
			return acc, nil
		}
	}
	return nil, fmt.Errorf("unknown account: %s", ref)
}

// Logs prints enrollment history, newest first, capped at the latest 50
// entries. Arguments narrow the listing: an account reference (username,
// display name or id) and/or an outcome ("success" or "failed"), in any
// order.
func (a *App) Logs(ctx context.Context, args []string) error {
	f := logbook.Filter{Limit: 50}
	for _, arg := range args {
		switch arg {
		case "success":
			f.Status = models.LogStatusSuccess
		case "failed":
			f.Status = models.LogStatusFailed
		default:
			account, err := a.findAccount(ctx, arg)
			if err != nil {
				return a.fail(err)
			}
			f.AccountID = account.ID
		}
	}

	entries, err := a.manager.Logs(a.manager.Conn()).List(ctx, f)
	if err != nil {
		return a.fail(err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No log entries.")
		return nil
	}
	for _, e := range entries {
		name := e.CourseName
		if name == "" {
			name = e.CourseID
		}
		fmt.Fprintf(a.out, "%s  %-4s %-7s %s: %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Action, e.Status, name, e.Message)
	}
	return nil
}

// Stats prints the aggregated add/drop history for one account.
func (a *App) Stats(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: stats <account>")
		return nil
	}
	account, err := a.findAccount(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	stats, err := a.manager.Logs(a.manager.Conn()).Stats(ctx, account.ID)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "%s: %d attempts, %d succeeded, %d failed (%d adds, %d drops)\n",
		account.Label(), stats.Total, stats.Success, stats.Failed, stats.AddActions, stats.DropActions)
	return nil
}

// Export writes the full enrollment history to a CSV file under exports/ in
// the working directory and, when an S3 target is configured, uploads the
// same bytes under a timestamped key. The local layout mirrors the bucket
// layout.
func (a *App) Export(ctx context.Context) error {
	entries, err := a.manager.Logs(a.manager.Conn()).List(ctx, logbook.Filter{})
	if err != nil {
		return a.fail(err)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, entries); err != nil {
		return a.fail(err)
	}

	key := export.ObjectKey(time.Now())
	if err := os.MkdirAll(filepath.Dir(key), 0o770); err != nil {
		return a.fail(err)
	}
	if err := os.WriteFile(key, buf.Bytes(), 0o600); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Wrote %s (%d entries).\n", key, len(entries))

	if a.uploader == nil {
		return nil
	}
	if err := a.uploader.Upload(ctx, key, buf.Bytes()); err != nil {
		return a.fail(fmt.Errorf("upload failed: %w", err))
	}
	fmt.Fprintf(a.out, "Uploaded to s3://%s/%s.\n", a.config.S3Bucket, key)
	return nil
}
