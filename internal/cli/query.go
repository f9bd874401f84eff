package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lindsaysblock/datadetective-lblock-sub004/pkg/jsonpath"
)

var queryCmd = &cobra.Command{
	Use:   "query <report.json> <path>",
	Short: "Extract a field from a saved report with a JSONPath expression",
	Long: `Extract a single value from a report previously saved with
'loadtest run --output report.json', for CI scripts and shell pipelines.

Examples:
  loadtest query report.json '$.status'
  loadtest query report.json '$.percentiles.p95Ms'
  loadtest query report.json '$.recommendations[0]'`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := queryReport(cmd.OutOrStdout(), args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// queryReport reads a saved report file and prints the value the
// expression resolves to.
func queryReport(w io.Writer, path, expr string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading report: %w", err)
	}

	value, err := jsonpath.Extract(string(data), expr)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, value)
	return nil
}
