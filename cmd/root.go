// Package cmd implements the apitop command line interface.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"apitop/internal/config"
)

var (
	flagAPIURL   string
	flagTimeout  int
	flagInterval int
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "apitop",
	Short: "Live operational dashboard for an API serving pipeline",
	Long: `apitop watches a metrics backend and shows throughput, error rate,
latency percentiles, cost, and anomaly incidents.

Run with no arguments for a one-shot snapshot, or use "apitop tui" for
the live dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSnapshot(cmd.Context())
	},
}

// Execute runs the CLI, printing errors to stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides config and APITOP_BACKEND_URL)")
	pf.IntVar(&flagTimeout, "timeout", 0, "metrics request timeout in seconds")
	pf.IntVar(&flagInterval, "interval", 0, "refresh interval in seconds")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-essential output")
}

// loadConfig merges the config file, environment, and flags. Flags win.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if flagAPIURL != "" {
		cfg.Backend.URL = flagAPIURL
	} else {
		cfg.Backend.URL = config.BackendURL(cfg)
	}
	if flagTimeout > 0 {
		cfg.Backend.TimeoutSec = flagTimeout
	}
	if flagInterval > 0 {
		cfg.Monitor.RefreshIntervalSec = flagInterval
	}
	return cfg, nil
}

func backendTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.Backend.TimeoutSec) * time.Second
}
