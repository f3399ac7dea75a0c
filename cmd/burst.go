package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"apitop/internal/backend"
	"apitop/internal/burst"
)

var flagBurstSize int

var burstCmd = &cobra.Command{
	Use:   "burst",
	Short: "Send a burst of synthetic log events to the backend",
	Long: `Generates randomized API log events and posts them to the backend's
ingest endpoint. Individual send failures are ignored; the backend being
down just means the burst has no effect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		n := cfg.Burst.Size
		if flagBurstSize > 0 {
			n = flagBurstSize
		}

		client := backend.New(cfg.Backend.URL, backendTimeout(cfg))
		sent := burst.New(client).Send(cmd.Context(), n)
		if !flagQuiet {
			fmt.Printf("Sent %d synthetic events to %s\n", sent, cfg.Backend.URL)
		}
		return nil
	},
}

func init() {
	burstCmd.Flags().IntVarP(&flagBurstSize, "count", "n", 0, "number of events to send (default from config)")
	rootCmd.AddCommand(burstCmd)
}
