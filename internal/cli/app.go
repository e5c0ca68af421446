package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/krsbot-dev/krsbot/internal/config"
	"github.com/krsbot-dev/krsbot/internal/enroll"
	"github.com/krsbot-dev/krsbot/internal/export"
	"github.com/krsbot-dev/krsbot/internal/logging"
	"github.com/krsbot-dev/krsbot/internal/models"
	"github.com/krsbot-dev/krsbot/internal/portal"
	"github.com/krsbot-dev/krsbot/internal/repositories/repomanager"
	"github.com/krsbot-dev/krsbot/internal/services"
	"github.com/krsbot-dev/krsbot/internal/vault"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getConfirmation = GetConfirmation

// portalSession is the portal surface the console commands drive. It widens
// enroll.PortalClient with the read operations so one logged-in session
// serves both listings and orchestrated add/drop operations. *portal.Client
// satisfies it.
type portalSession interface {
	enroll.PortalClient
	ListAvailable(ctx context.Context, programID, termLevel int) ([]portal.CourseSummary, error)
	ListEnrolled(ctx context.Context) ([]portal.EnrolledCourse, error)
	GetSchedule(ctx context.Context) ([]portal.ScheduleSlot, error)
	StudentStatus(ctx context.Context) (string, error)
	Scopes(ctx context.Context) ([]string, error)
}

// App wires the console commands to their dependencies and carries the
// interactive state: the selected account and its live portal session.
type App struct {
	config   *config.Config
	logger   logging.Logger
	manager  repomanager.Manager
	cipher   *vault.Cipher
	accounts *services.AccountService
	orch     *enroll.Orchestrator
	runner   *enroll.Runner
	uploader *export.S3Uploader

	// newSession mints a portal client; swapped for a fake in tests.
	newSession func() portalSession

	reader *bufio.Reader
	out    io.Writer

	sessAccount *models.Account
	sessClient  portalSession
}

func NewApp(cfg *config.Config, logger logging.Logger, manager repomanager.Manager, cipher *vault.Cipher) *App {
	a := &App{
		config:  cfg,
		logger:  logger,
		manager: manager,
		cipher:  cipher,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	a.newSession = func() portalSession { return a.newPortalClient() }
	factory := func() enroll.PortalClient { return a.newSession() }

	hashes := enroll.Hashes{
		Enrollment: cfg.EnrollmentHash,
		Drop:       cfg.DropHash,
		DropFlag:   cfg.DropFlag,
	}
	a.orch = enroll.NewOrchestrator(cipher, manager.Logs(manager.Conn()), hashes, logger)
	a.runner = enroll.NewRunner(manager, a.orch, factory, cfg.OwnerID, cfg.RunnerConcurrency, logger)
	a.accounts = services.NewAccountService(manager, cipher, factory, cfg.OwnerID, logger)

	if cfg.S3Configured() {
		a.uploader = export.NewS3Uploader(export.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			BaseEndpoint:    cfg.S3BaseEndpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}
	return a
}

func (a *App) newPortalClient() *portal.Client {
	return portal.New(portal.Endpoints{
		AuthBase:      a.config.AuthBaseURL,
		ServiceBase:   a.config.ServiceBaseURL,
		AvailableHash: a.config.AvailableHash,
		EnrolledHash:  a.config.EnrolledHash,
		ScheduleHash:  a.config.ScheduleHash,
		StatusHash:    a.config.StatusHash,
	}, a.config.RequestTimeout, a.logger)
}

// Run starts the interactive console and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to krsbot (type 'help' for commands)")
	defer a.endSession()
	runREPL(ctx, a, a.promptStatus, bufio.NewScanner(os.Stdin))
}

// promptStatus renders the prompt suffix: the selected account, if any.
func (a *App) promptStatus() string {
	if a.sessAccount == nil {
		return ""
	}
	return fmt.Sprintf(" [%s]", a.sessAccount.Label())
}

// clientFor returns the cached portal client for the account, minting a
// fresh one when the selection changed. Login is left to the caller; the
// orchestrator performs it as part of add/drop so that auth failures still
// produce log entries.
func (a *App) clientFor(account *models.Account) portalSession {
	if a.sessAccount == nil || a.sessAccount.ID != account.ID {
		a.endSession()
		a.sessAccount = account
		a.sessClient = a.newSession()
	}
	return a.sessClient
}

// sessionFor returns a logged-in portal session for the account. The current
// session is reused while it belongs to the same account. A login failure
// tears the session down, so the next attempt starts from a fresh client.
func (a *App) sessionFor(ctx context.Context, account *models.Account) (portalSession, error) {
	client := a.clientFor(account)
	if err := a.orch.EnsureSession(ctx, client, account); err != nil {
		a.endSession()
		return nil, err
	}
	return client, nil
}

func (a *App) endSession() {
	if a.sessClient != nil {
		a.sessClient.Logout()
	}
	a.sessClient = nil
	a.sessAccount = nil
}

// fail reports a command error to the user and passes it through.
func (a *App) fail(err error) error {
	fmt.Fprintf(a.out, "error: %v\n", err)
	return err
}
