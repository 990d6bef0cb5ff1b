package audit

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/service"
)

const runTimeout = 2 * time.Minute

type balanceAuditor interface {
	Audit(ctx context.Context) ([]service.AuditResult, error)
}

// Auditor periodically compares stored account balances with their history
// and logs every account that drifted.
type Auditor struct {
	accounts balanceAuditor
	logger   *logrus.Logger
	cron     *cron.Cron
}

func NewAuditor(accounts balanceAuditor, logger *logrus.Logger) *Auditor {
	return &Auditor{
		accounts: accounts,
		logger:   logger,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start schedules the audit. An empty schedule disables it.
func (a *Auditor) Start(schedule string) error {
	if schedule == "" {
		a.logger.Info("Audit.Start.disabled")
		return nil
	}
	if _, err := a.cron.AddFunc(schedule, a.run); err != nil {
		return err
	}
	a.cron.Start()
	a.logger.WithField("schedule", schedule).Info("Audit.Start.scheduled")
	return nil
}

// Stop halts scheduling and waits for a running audit to finish.
func (a *Auditor) Stop() {
	<-a.cron.Stop().Done()
}

func (a *Auditor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := a.Run(ctx); err != nil {
		a.logger.WithError(err).Error("Audit.Run.Error")
	}
}

// Run audits every account once and returns how many drifted.
func (a *Auditor) Run(ctx context.Context) (int, error) {
	start := time.Now()
	results, err := a.accounts.Audit(ctx)
	if err != nil {
		return 0, err
	}

	drifted := 0
	for _, result := range results {
		if result.Consistent() {
			continue
		}
		drifted++
		a.logger.WithFields(logrus.Fields{
			"accountID": result.Account.ID,
			"account":   result.Account.Name,
			"stored":    result.Account.Balance.String(),
			"derived":   result.Derived.String(),
			"drift":     result.Drift.String(),
		}).Warn("Audit.Account.Drift")
	}

	a.logger.WithFields(logrus.Fields{
		"accounts":   len(results),
		"drifted":    drifted,
		"durationMs": time.Since(start).Milliseconds(),
	}).Info("Audit.Run.Complete")
	return drifted, nil
}
