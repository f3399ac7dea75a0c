package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"apitop/internal/backend"
	"apitop/internal/cli"
	"apitop/internal/model"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch current metrics once and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSnapshot(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := backend.New(cfg.Backend.URL, backendTimeout(cfg))
	snap, err := client.FetchMetrics(ctx)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}

	if !flagQuiet {
		fmt.Println(cli.RenderTitle("apitop · " + cfg.Backend.URL))
	}

	kpi := cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Throughput", cli.FormatRPM(snap.RequestsPerMin)},
			{"Error rate", cli.FormatErrorRate(snap.ErrorRate)},
			{"P50 latency", cli.FormatLatency(snap.P50LatencyMs)},
			{"P95 latency", cli.FormatLatency(snap.P95LatencyMs)},
			{"P99 latency", cli.FormatLatency(snap.P99LatencyMs)},
			{"Est. cost", cli.FormatCost(snap.EstimatedCostUSD)},
		},
	}
	fmt.Println(cli.RenderTable(kpi))

	if len(snap.PerUserRequests) > 0 {
		users := make([]string, 0, len(snap.PerUserRequests))
		for u := range snap.PerUserRequests {
			users = append(users, u)
		}
		sort.Slice(users, func(i, j int) bool {
			a, b := snap.PerUserRequests[users[i]], snap.PerUserRequests[users[j]]
			if a != b {
				return a > b
			}
			return users[i] < users[j]
		})
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			rows = append(rows, []string{u, cli.FormatNumber(snap.PerUserRequests[u])})
		}
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   "Requests by user",
			Headers: []string{"User", "Requests"},
			Rows:    rows,
		}))
	}

	anomalies := model.Classify(snap.Anomalies)
	if len(anomalies) == 0 {
		fmt.Println(cli.NominalStyle.Render("✓ All systems nominal."))
		return nil
	}
	fmt.Println(cli.RenderTitle("Incidents"))
	for _, an := range anomalies {
		switch an.Severity {
		case model.SeverityCritical:
			fmt.Println(cli.CriticalStyle.Render("  ✖ " + an.Message))
		default:
			fmt.Println(cli.WarningStyle.Render("  ▲ " + an.Message))
		}
	}
	return nil
}
