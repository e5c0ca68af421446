package enroll

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/krsbot-dev/krsbot/internal/logging"
	"github.com/krsbot-dev/krsbot/internal/models"
	"github.com/krsbot-dev/krsbot/internal/repositories/repomanager"
)

// ClientFactory mints a fresh portal client for one account's session.
// Sessions are never shared between accounts.
type ClientFactory func() PortalClient

// Report summarizes one batch run.
type Report struct {
	Accounts  int
	Attempted int
	Succeeded int
	Failed    int
}

// Runner walks every active account's pending course targets and attempts
// to register them. Accounts may run in parallel; one account's targets
// always run sequentially in priority order.
type Runner struct {
	manager      repomanager.Manager
	orchestrator *Orchestrator
	newClient    ClientFactory
	ownerID      string
	concurrency  int
	logger       logging.Logger
}

func NewRunner(manager repomanager.Manager, orchestrator *Orchestrator, newClient ClientFactory,
	ownerID string, concurrency int, logger logging.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		manager:      manager,
		orchestrator: orchestrator,
		newClient:    newClient,
		ownerID:      ownerID,
		concurrency:  concurrency,
		logger:       logger,
	}
}

// Run processes all active accounts once. Failed attempts leave their
// targets pending for the next run; nothing short of a store error listing
// the accounts aborts the run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	accounts, err := r.manager.Accounts(r.manager.Conn()).List(ctx, r.ownerID)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, account := range accounts {
		if !account.Active() {
			continue
		}
		report.Accounts++
		account := account
		g.Go(func() error {
			r.runAccount(ctx, account, report, &mu)
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Info(ctx, "batch run finished",
		"accounts", report.Accounts, "attempted", report.Attempted,
		"succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

func (r *Runner) runAccount(ctx context.Context, account *models.Account, report *Report, mu *sync.Mutex) {
	pending, err := r.manager.Targets(r.manager.Conn()).ListPending(ctx, account.ID)
	if err != nil {
		r.logger.Error(ctx, "listing pending targets failed",
			"account", account.Label(), "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	client := r.newClient()
	defer client.Logout()

	log := r.logger.With("account", account.Label())
	for _, target := range pending {
		entry := r.orchestrator.AddCourse(ctx, client, account, target.CourseID, target.CourseName)

		mu.Lock()
		report.Attempted++
		if entry.Status == models.LogStatusSuccess {
			report.Succeeded++
		} else {
			report.Failed++
		}
		mu.Unlock()

		if entry.Status != models.LogStatusSuccess {
			log.Info(ctx, "course add failed", "course_id", target.CourseID, "message", entry.Message)
			continue
		}
		log.Info(ctx, "course added", "course_id", target.CourseID, "message", entry.Message)
		if err := r.manager.Targets(r.manager.Conn()).MarkCompleted(ctx, target.ID); err != nil {
			log.Warn(ctx, "marking target completed failed", "course_id", target.CourseID, "error", err)
		}
	}
}
