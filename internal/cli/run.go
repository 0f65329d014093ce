package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/pointclaim/internal/logging"
	"github.com/ppiankov/pointclaim/internal/model"
	"github.com/ppiankov/pointclaim/internal/pipeline"
	"github.com/ppiankov/pointclaim/internal/worker"
)

var dbFile string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every data source, then refresh phone numbers",
	Long: `Run processes each data source in order:
- Fetch the account batch and save it to backup_<id>.json
- Open the dashboard for every account, concurrently
- Claim any available reward for every account, concurrently
Once all sources are done the phone-number refresh runs.

Example:
  pointclaim run
  pointclaim run --db 1,3 --backup-dir ./backups
  pointclaim run --schedule "@every 6h"`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	defaults := model.DefaultConfig()
	flags := runCmd.Flags()

	flags.StringSlice("db", defaults.Source.DBIDs, "data source ids to process, in order")
	flags.StringVar(&dbFile, "db-file", "", "read data source ids from a file (one per line)")
	flags.String("backup-dir", defaults.Source.BackupDir, "directory for backup_<id>.json files")
	flags.Bool("refresh", defaults.Refresh.Enabled, "refresh phone numbers after all sources")
	flags.Bool("progress", defaults.Refresh.Progress, "show a progress bar while refreshing")
	flags.Int("refresh-workers", defaults.Refresh.Workers, "max concurrent refresh requests (0 = unbounded)")
	flags.Int("workers", defaults.Workers.Accounts, "max concurrent account requests per batch (0 = one per account)")
	flags.Duration("timeout", defaults.HTTP.Timeout, "per-request timeout (0 = none)")
	flags.Float64("rps", defaults.HTTP.RequestsPerSecond, "requests per second per host (0 = unlimited)")
	flags.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	flags.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	flags.String("schedule", "", `cron schedule for repeated runs, e.g. "@every 6h" (default: run once)`)

	for key, flag := range map[string]string{
		"source.db_ids":            "db",
		"source.backup_dir":        "backup-dir",
		"refresh.enabled":          "refresh",
		"refresh.progress":         "progress",
		"refresh.workers":          "refresh-workers",
		"workers.accounts":         "workers",
		"http.timeout":             "timeout",
		"http.requests_per_second": "rps",
		"http.http_proxy":          "http-proxy",
		"http.https_proxy":         "https-proxy",
		"schedule":                 "schedule",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if dbFile != "" {
		ids, err := worker.ReadDBIDsFromFile(dbFile)
		if err != nil {
			return fmt.Errorf("read db ids: %w", err)
		}
		cfg.Source.DBIDs = ids
	}

	log := logging.New(os.Stderr, cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.NewPipeline(cfg, log, os.Stderr)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	printBanner(cfg)

	if cfg.Schedule == "" {
		runOnce(ctx, p)
		return nil
	}

	return runScheduled(ctx, p, cfg.Schedule, log)
}

func runOnce(ctx context.Context, p *pipeline.Pipeline) {
	report := p.Run(ctx)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Run Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	pipeline.RenderSummary(os.Stderr, report)
	fmt.Fprintf(os.Stderr, "\n")
}

// runScheduled runs the pipeline on a cron schedule until ctx is cancelled.
// A run that is still going when the next one is due causes that one to be skipped.
func runScheduled(ctx context.Context, p *pipeline.Pipeline, schedule string, log *logrus.Logger) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))))
	if _, err := c.AddFunc(schedule, func() { runOnce(ctx, p) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	log.WithField("schedule", schedule).Info("waiting for scheduled runs")
	c.Start()
	<-ctx.Done()

	log.Info("stopping scheduler")
	<-c.Stop().Done()
	return nil
}

func printBanner(cfg *model.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  pointclaim\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Sources:     %s\n", strings.Join(cfg.Source.DBIDs, ", "))
	fmt.Fprintf(os.Stderr, "  Backup dir:  %s\n", cfg.Source.BackupDir)
	fmt.Fprintf(os.Stderr, "  Refresh:     %v\n", cfg.Refresh.Enabled)
	if cfg.Schedule != "" {
		fmt.Fprintf(os.Stderr, "  Schedule:    %s\n", cfg.Schedule)
	}
	fmt.Fprintf(os.Stderr, "\n")
}
