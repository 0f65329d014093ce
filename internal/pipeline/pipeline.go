package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/pointclaim/internal/api"
	"github.com/ppiankov/pointclaim/internal/model"
	"github.com/ppiankov/pointclaim/internal/refresh"
	"github.com/ppiankov/pointclaim/internal/rewards"
	"github.com/ppiankov/pointclaim/internal/source"
	"github.com/ppiankov/pointclaim/internal/store"
	"github.com/ppiankov/pointclaim/internal/worker"
)

// AccountSource loads the account batch for a data source id
type AccountSource interface {
	Fetch(ctx context.Context, dbID string) ([]model.Account, error)
}

// AccountActions are the per-account calls made for every record
type AccountActions interface {
	PingDashboard(ctx context.Context, acct model.Account) *model.DashboardOutcome
	Claim(ctx context.Context, acct model.Account) *model.ClaimOutcome
}

// PhoneRefresher runs the phone-number refresh pass
type PhoneRefresher interface {
	Run(ctx context.Context) *model.RefreshReport
}

// Pipeline orchestrates a complete run
type Pipeline struct {
	source    AccountSource
	actions   AccountActions
	refresher PhoneRefresher // nil when refreshing is disabled
	batch     *worker.BatchProcessor
	dbIDs     []string
	log       logrus.FieldLogger
}

// NewPipeline wires every component from cfg. The refresh progress bar, if
// enabled, is written to progressOut.
func NewPipeline(cfg *model.Config, log logrus.FieldLogger, progressOut io.Writer) (*Pipeline, error) {
	client, err := api.NewClient(cfg.HTTP, cfg.Identity, log)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	var refresher PhoneRefresher
	if cfg.Refresh.Enabled {
		refresher = refresh.NewRefresher(client, cfg.Refresh, progressOut, log)
	}

	return &Pipeline{
		source:    source.NewFetcher(client, cfg.Source, store.NewBackupStore(cfg.Source.BackupDir), log),
		actions:   rewards.NewService(client, cfg.Rewards, cfg.Identity, log),
		refresher: refresher,
		batch:     worker.NewBatchProcessor(cfg.Workers.Accounts),
		dbIDs:     cfg.Source.DBIDs,
		log:       log,
	}, nil
}

// Run processes every data source in order, then refreshes phone numbers.
// A failing source never stops the ones after it.
func (p *Pipeline) Run(ctx context.Context) *model.RunReport {
	start := time.Now()
	report := &model.RunReport{}

	for _, dbID := range p.dbIDs {
		if ctx.Err() != nil {
			break
		}
		report.Sources = append(report.Sources, p.ProcessSource(ctx, dbID))
	}

	if p.refresher != nil && ctx.Err() == nil {
		report.Refresh = p.refresher.Run(ctx)
	}

	report.Elapsed = time.Since(start)
	return report
}

// ProcessSource fetches one batch, then pings the dashboard for every
// account and only after all pings finish runs every claim flow.
func (p *Pipeline) ProcessSource(ctx context.Context, dbID string) *model.SourceReport {
	log := p.log.WithField("db_id", dbID)
	report := &model.SourceReport{DBID: dbID}

	accounts, err := p.source.Fetch(ctx, dbID)
	if err != nil {
		log.WithError(err).Warn("failed to fetch account data")
	}
	if len(accounts) == 0 {
		log.Info("no data to process, skipping")
		report.Skipped = true
		return report
	}
	report.Accounts = len(accounts)

	log.WithField("accounts", len(accounts)).Info("starting dashboard requests")
	for _, res := range p.batch.ProcessAccounts(ctx, accounts, p.dashboardJob) {
		report.Dashboard = append(report.Dashboard, res.(*model.DashboardOutcome))
	}
	log.Info("all dashboard requests completed")

	log.WithField("accounts", len(accounts)).Info("starting claim processes")
	for _, res := range p.batch.ProcessAccounts(ctx, accounts, p.claimJob) {
		report.Claims = append(report.Claims, res.(*model.ClaimOutcome))
	}
	log.WithField("claimed", report.ClaimedCount()).Info("all claim processes completed")

	return report
}

func (p *Pipeline) dashboardJob(ctx context.Context, acct model.Account) worker.Result {
	return p.actions.PingDashboard(ctx, acct)
}

func (p *Pipeline) claimJob(ctx context.Context, acct model.Account) worker.Result {
	return p.actions.Claim(ctx, acct)
}
