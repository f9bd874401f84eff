package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "loadtest",
	Short:   "A concurrent load generation and performance measurement tool",
	Version: version,
	Long: `Loadtest drives configurable swarms of virtual users against simulated
workloads and reports latency percentiles, throughput, error rates, and
memory behavior, with a PASS/WARNING/FAIL verdict and tuning
recommendations for each run.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Add subcommands to root command
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(workloadsCmd)
	RootCmd.AddCommand(queryCmd)
}
