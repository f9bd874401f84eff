package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/simulator"
)

var workloadsCmd = &cobra.Command{
	Use:   "workloads",
	Short: "List the built-in workload types",
	Long: `List the workload types a profile's workloadType field accepts, with
each type's default latency range, failure rate, and failure message.
Profiles may override the latency range and failure rate per run;
unrecognized types fall back to the generic workload.`,
	Run: func(cmd *cobra.Command, args []string) {
		jsonOut, _ := cmd.Flags().GetBool("json")

		if jsonOut {
			if err := printWorkloadsJSON(cmd.OutOrStdout()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		printWorkloadsTable(cmd.OutOrStdout())
	},
}

// workloadView is the machine-readable shape of one catalog entry.
// Latencies are flattened to milliseconds so consumers never deal with
// nanosecond duration encoding.
type workloadView struct {
	Type         string  `json:"type"`
	LatencyMinMs int64   `json:"latencyMinMs"`
	LatencyMaxMs int64   `json:"latencyMaxMs"`
	FailureRate  float64 `json:"failureRate"`
	ErrorMessage string  `json:"errorMessage"`
}

// printWorkloadsTable renders the catalog as a fixed-width table.
func printWorkloadsTable(w io.Writer) {
	fmt.Fprintf(w, "%-22s %-16s %-14s %s\n", "TYPE", "LATENCY", "FAILURE RATE", "FAILURE MESSAGE")

	for _, workload := range simulator.Catalog() {
		fmt.Fprintf(w, "%-22s %-16s %-14s %s\n",
			workload.Type,
			formatLatencyRange(workload.LatencyMin, workload.LatencyMax),
			fmt.Sprintf("%.1f%%", workload.FailureRate*100),
			workload.ErrorMessage)
	}
}

// printWorkloadsJSON renders the catalog as JSON for scripting.
func printWorkloadsJSON(w io.Writer) error {
	catalog := simulator.Catalog()

	views := make([]workloadView, 0, len(catalog))
	for _, workload := range catalog {
		views = append(views, workloadView{
			Type:         workload.Type,
			LatencyMinMs: workload.LatencyMin.Milliseconds(),
			LatencyMaxMs: workload.LatencyMax.Milliseconds(),
			FailureRate:  workload.FailureRate,
			ErrorMessage: workload.ErrorMessage,
		})
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling workloads: %w", err)
	}

	fmt.Fprintln(w, string(data))
	return nil
}

// formatLatencyRange renders a latency window like "30ms-90ms".
func formatLatencyRange(min, max time.Duration) string {
	return fmt.Sprintf("%s-%s", min, max)
}

func init() {
	workloadsCmd.Flags().Bool("json", false, "Output the catalog as JSON")
}
