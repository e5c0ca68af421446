// Package enroll turns stored accounts and course targets into portal
// operations: a per-attempt orchestrator that always leaves a log entry,
// and a batch runner that walks every active account's pending targets.
package enroll

import (
	"context"

	"github.com/krsbot-dev/krsbot/internal/logging"
	"github.com/krsbot-dev/krsbot/internal/models"
	"github.com/krsbot-dev/krsbot/internal/portal"
	"github.com/krsbot-dev/krsbot/internal/repositories/logbook"
	"github.com/krsbot-dev/krsbot/internal/vault"
)

// PortalClient is the slice of the portal client the orchestrator drives.
// *portal.Client satisfies it; tests substitute fakes.
type PortalClient interface {
	Identified() bool
	Authenticate(ctx context.Context, username, password string) error
	ResolveIdentity(ctx context.Context) (*portal.Profile, error)
	AddCourse(ctx context.Context, courseID, enrollmentHash string) (string, error)
	DropCourse(ctx context.Context, registrationID, dropHash, flag string) (string, error)
	Logout()
}

// Hashes carries the portal transaction identifiers course mutations need.
type Hashes struct {
	Enrollment string
	Drop       string
	DropFlag   string
}

// Orchestrator performs single enrollment operations. Every attempt,
// successful or not, produces exactly one log entry. Appending the entry is
// fire-and-forget: the portal-side result is authoritative, a store failure
// must not change the reported outcome.
type Orchestrator struct {
	cipher *vault.Cipher
	logs   logbook.Repository
	hashes Hashes
	logger logging.Logger
}

func NewOrchestrator(cipher *vault.Cipher, logs logbook.Repository, hashes Hashes, logger logging.Logger) *Orchestrator {
	return &Orchestrator{cipher: cipher, logs: logs, hashes: hashes, logger: logger}
}

// EnsureSession logs the client in for the account unless it already has a
// resolved identity. The decrypted password never leaves this call.
func (o *Orchestrator) EnsureSession(ctx context.Context, client PortalClient, account *models.Account) error {
	if client.Identified() {
		return nil
	}
	password, err := o.cipher.Decrypt(account.PasswordEncrypted)
	if err != nil {
		return err
	}
	if err := client.Authenticate(ctx, account.Username, password); err != nil {
		return err
	}
	if _, err := client.ResolveIdentity(ctx); err != nil {
		return err
	}
	return nil
}

// AddCourse attempts to register the course for the account and returns the
// recorded entry. A session failure (including decryption) yields a failed
// entry and the course operation is never invoked.
func (o *Orchestrator) AddCourse(ctx context.Context, client PortalClient, account *models.Account, courseID, courseName string) *models.EnrollmentLogEntry {
	entry := &models.EnrollmentLogEntry{
		AccountID:  account.ID,
		Action:     models.LogActionAdd,
		CourseID:   courseID,
		CourseName: courseName,
	}
	if err := o.EnsureSession(ctx, client, account); err != nil {
		return o.record(ctx, entry, "", err)
	}
	msg, err := client.AddCourse(ctx, courseID, o.hashes.Enrollment)
	return o.record(ctx, entry, msg, err)
}

// DropCourse attempts to drop the registration and returns the recorded
// entry.
func (o *Orchestrator) DropCourse(ctx context.Context, client PortalClient, account *models.Account, registrationID, courseID, courseName string) *models.EnrollmentLogEntry {
	entry := &models.EnrollmentLogEntry{
		AccountID:  account.ID,
		Action:     models.LogActionDrop,
		CourseID:   courseID,
		CourseName: courseName,
	}
	if err := o.EnsureSession(ctx, client, account); err != nil {
		return o.record(ctx, entry, "", err)
	}
	msg, err := client.DropCourse(ctx, registrationID, o.hashes.Drop, o.hashes.DropFlag)
	return o.record(ctx, entry, msg, err)
}

func (o *Orchestrator) record(ctx context.Context, entry *models.EnrollmentLogEntry, msg string, opErr error) *models.EnrollmentLogEntry {
	if opErr != nil {
		entry.Status = models.LogStatusFailed
		entry.Message = portal.ErrorMessage(opErr)
	} else {
		entry.Status = models.LogStatusSuccess
		entry.Message = msg
	}
	if _, err := o.logs.Append(ctx, entry); err != nil {
		o.logger.Warn(ctx, "enrollment log append failed",
			"account_id", entry.AccountID, "course_id", entry.CourseID, "error", err)
	}
	return entry
}
