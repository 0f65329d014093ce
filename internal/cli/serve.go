package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/pointclaim/internal/logging"
	"github.com/ppiankov/pointclaim/internal/logserver"
	"github.com/ppiankov/pointclaim/internal/model"
)

// serveLogsCmd represents the serve-logs command
var serveLogsCmd = &cobra.Command{
	Use:   "serve-logs",
	Short: "Serve a log file at GET /logs",
	Long: `Serve-logs starts an HTTP server with a single endpoint:

  GET /logs  ->  200 {"logs": ["line\n", ...]}
             ->  500 {"error": "<message>"} if the file cannot be read

Example:
  pointclaim serve-logs
  pointclaim serve-logs --addr :8080 --file ./net.log`,
	Args: cobra.NoArgs,
	RunE: runServeLogs,
}

func init() {
	rootCmd.AddCommand(serveLogsCmd)

	defaults := model.DefaultConfig()
	flags := serveLogsCmd.Flags()

	flags.String("addr", defaults.LogServer.Addr, "listen address")
	flags.String("file", defaults.LogServer.LogFile, "log file to serve")
	flags.Duration("cache-ttl", defaults.LogServer.CacheTTL, "cache file contents for this long (0 = read on every request)")

	_ = viper.BindPFlag("log_server.addr", flags.Lookup("addr"))
	_ = viper.BindPFlag("log_server.log_file", flags.Lookup("file"))
	_ = viper.BindPFlag("log_server.cache_ttl", flags.Lookup("cache-ttl"))
}

func runServeLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logging.New(os.Stderr, cfg.Verbose)

	srv := &http.Server{
		Addr:              cfg.LogServer.Addr,
		Handler:           logserver.New(cfg.LogServer, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).WithField("file", cfg.LogServer.LogFile).Info("log server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("shutting down log server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
