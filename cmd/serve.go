package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"apitop/internal/backend"
	"apitop/internal/monitor"
	"apitop/internal/poll"
)

var (
	flagServeAddr string
	flagDebug     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the headless monitor with an HTTP status API",
	Long: `Polls the backend continuously and exposes the observed state over
HTTP: JSON status, history, incidents, a server-sent event stream, and
Prometheus metrics. Useful for wiring the dashboard's view of the
pipeline into other tooling.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logCfg := zap.NewProductionConfig()
		if flagDebug {
			logCfg = zap.NewDevelopmentConfig()
		}
		log, err := logCfg.Build()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		interval := time.Duration(cfg.Monitor.RefreshIntervalSec) * time.Second
		client := backend.New(cfg.Backend.URL, backendTimeout(cfg))
		poller := poll.New(client, interval)

		svc := monitor.New(monitor.Config{
			BackendURL:  cfg.Backend.URL,
			Interval:    interval,
			Addr:        flagServeAddr,
			Sensitivity: cfg.Monitor.Sensitivity,
		}, poller, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return svc.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "listen address (default 127.0.0.1:8790)")
	serveCmd.Flags().BoolVar(&flagDebug, "debug", false, "verbose development logging")
	rootCmd.AddCommand(serveCmd)
}
