package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/output"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/engine"
	perfoutput "github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/output"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a load test from flags or a profile file",
	Long: `Execute a load test with configurable concurrency, duration, and ramp-up.
Virtual users start staggered across the ramp-up window, each looping over
the selected workload, and the run ends with a classified report.

Profile file mode:
  loadtest run --profile soak.yaml

Quick CLI mode:
  loadtest run --type api-call --concurrency 25 --duration 60 --ramp-up 10

Rate-capped mode:
  loadtest run --type analytics --concurrency 50 --duration 120 --rate 200

The command exits non-zero when the run is classified FAIL.`,
	Run: func(cmd *cobra.Command, args []string) {
		runLoadTest(cmd, args)
	},
}

// runLoadTest drives one load test run end to end: profile resolution,
// live progress, final report rendering, and the exit code.
func runLoadTest(cmd *cobra.Command, args []string) {
	profilePath, _ := cmd.Flags().GetString("profile")
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")
	formatName, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	htmlOutput, _ := cmd.Flags().GetBool("html")
	logLevel, _ := cmd.Flags().GetString("log-level")

	// Workload flags
	name, _ := cmd.Flags().GetString("name")
	workloadType, _ := cmd.Flags().GetString("type")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	duration, _ := cmd.Flags().GetInt("duration")
	rampUp, _ := cmd.Flags().GetInt("ramp-up")
	rate, _ := cmd.Flags().GetFloat64("rate")
	seed, _ := cmd.Flags().GetInt64("seed")

	// A pointer override distinguishes "always succeed" from "not set".
	var failureRate *float64
	if cmd.Flags().Changed("failure-rate") {
		fr, _ := cmd.Flags().GetFloat64("failure-rate")
		failureRate = &fr
	}

	// Reject a bad format before the run burns its configured duration.
	format, err := output.ParseFormat(formatName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var profile *config.WorkloadProfile

	if profilePath != "" {
		// Load profile from file
		profile, err = config.LoadProfile(profilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
			os.Exit(1)
		}
	} else {
		// Build profile from CLI flags
		profile, err = buildProfile(name, workloadType, concurrency, duration, rampUp, failureRate, rate, seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := newRunLogger(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	eng := engine.NewEngine(engine.WithLogger(logger))

	// Create console output handler
	consoleOutput := perfoutput.NewConsoleOutput(perfoutput.ConsoleOutputConfig{
		RunName:        profile.Name,
		WorkloadType:   profile.WorkloadType,
		UpdateInterval: time.Second,
		Quiet:          quiet,
	})

	if verbose && !quiet {
		fmt.Printf("Starting load test: %s (%d VUs, %ds, ramp-up %ds)\n\n",
			displayName(profile), profile.Concurrency, profile.Duration, profile.RampUpSeconds)
	}

	// Print header
	consoleOutput.PrintHeader()

	// Ctrl-C cancels cooperatively: users finish their current iteration
	// and the run still produces a report.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rep *report.LoadTestReport
	var runErr error

	done := make(chan struct{})
	go func() {
		defer close(done)
		rep, runErr = eng.RunLoadTest(ctx, *profile)
	}()

	// Update progress while the engine is running
	updateTicker := time.NewTicker(consoleOutput.UpdateEvery())
	defer updateTicker.Stop()

progressLoop:
	for {
		select {
		case <-done:
			break progressLoop
		case <-updateTicker.C:
			runs := eng.ActiveRuns()
			if len(runs) == 0 {
				continue
			}

			stats := perfoutput.StatsFromRun(runs[0], *profile, time.Now())

			if consoleOutput.IsTTY() {
				consoleOutput.Update(stats)
			} else if !quiet {
				consoleOutput.PrintNonInteractiveUpdate(stats)
			}
		}
	}

	// Clear the live region before printing the final report.
	consoleOutput.Finish()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running test: %v\n", runErr)
		os.Exit(1)
	}

	printReport(rep, format, verbose, noColor, quiet)

	// Determine output type based on flags and extension
	outputIsHTML := htmlOutput || (outputPath != "" && strings.HasSuffix(strings.ToLower(outputPath), ".html"))

	if outputIsHTML {
		path := outputPath
		if path == "" {
			path = defaultHTMLPath(profile)
		}
		if err := writeHTMLReport(rep, path, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating HTML report: %v\n", err)
		}
	} else if outputPath != "" {
		if err := writeReportFile(rep, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		} else {
			fmt.Printf("Report written to: %s\n", outputPath)
		}
	}

	// Exit with error code if the run failed
	if rep != nil && rep.Status == report.StatusFail {
		os.Exit(1)
	}
}

// buildProfile builds a validated WorkloadProfile from CLI flag values.
func buildProfile(name, workloadType string, concurrency, duration, rampUp int, failureRate *float64, rate float64, seed int64) (*config.WorkloadProfile, error) {
	p := &config.WorkloadProfile{
		Name:          name,
		Concurrency:   concurrency,
		Duration:      duration,
		RampUpSeconds: rampUp,
		WorkloadType:  workloadType,
		FailureRate:   failureRate,
		TargetRate:    rate,
		Seed:          seed,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// newRunLogger builds the logger the engine runs with. Logs go to stderr
// so they never interleave with the live display on stdout.
func newRunLogger(level string) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q (valid: panic, fatal, error, warn, info, debug, trace)", level)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(parsed)
	return logger, nil
}

// printReport renders the final report to stdout in the chosen format.
func printReport(rep *report.LoadTestReport, format output.OutputFormat, verbose, noColor, quiet bool) {
	if rep == nil {
		return
	}

	if quiet && format == output.FormatText {
		formatter := output.NewFormatter(verbose, noColor)
		fmt.Println(formatter.FormatStatus(rep))
		return
	}

	result := output.GetFormatter(format, verbose, noColor).FormatReport(rep)
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	fmt.Print(result)
}

// displayName returns the run label used in console messages.
func displayName(profile *config.WorkloadProfile) string {
	if profile.Name != "" {
		return profile.Name
	}
	return profile.WorkloadType
}

// defaultHTMLPath creates a default HTML report path based on the run name.
func defaultHTMLPath(profile *config.WorkloadProfile) string {
	// Sanitize the name for use in a filename
	safeName := strings.ReplaceAll(displayName(profile), " ", "-")
	safeName = strings.ReplaceAll(safeName, "/", "-")
	safeName = strings.ToLower(safeName)

	timestamp := time.Now().Format("20060102-150405")
	return fmt.Sprintf("loadtest-report-%s-%s.html", safeName, timestamp)
}

// writeHTMLReport generates and saves an HTML report.
func writeHTMLReport(rep *report.LoadTestReport, outputPath string, verbose bool) error {
	if rep == nil {
		return fmt.Errorf("no report to write")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = outputPath + ".html"
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := report.GenerateHTML(rep, outputPath); err != nil {
		return err
	}

	if verbose {
		fmt.Printf("HTML report generated: %s\n", outputPath)
	} else {
		fmt.Printf("Report: %s\n", outputPath)
	}

	return nil
}

// writeReportFile saves the report to a file, picking the encoding from
// the extension: .yaml/.yml is YAML, everything else is pretty JSON.
func writeReportFile(rep *report.LoadTestReport, outputPath string) error {
	if rep == nil {
		return fmt.Errorf("no report to write")
	}

	var formatter output.FormatProvider
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".yaml", ".yml":
		formatter = &output.YAMLFormatter{}
	default:
		formatter = &output.JSONFormatter{Pretty: true}
	}

	data := formatter.FormatReport(rep)
	if !strings.HasSuffix(data, "\n") {
		data += "\n"
	}

	return os.WriteFile(outputPath, []byte(data), 0644)
}

func init() {
	// Workload flags
	runCmd.Flags().IntP("concurrency", "c", 1, "Number of virtual users")
	runCmd.Flags().IntP("duration", "d", 30, "Run duration per virtual user in seconds")
	runCmd.Flags().Int("ramp-up", 0, "Window in seconds across which user starts are staggered")
	runCmd.Flags().StringP("type", "t", "generic", "Workload type (see 'loadtest workloads')")
	runCmd.Flags().String("name", "", "Run label used in reports and logs")
	runCmd.Flags().Float64("failure-rate", 0, "Override the workload's failure probability (0.0-1.0)")
	runCmd.Flags().Float64("rate", 0, "Cap aggregate operations per second across all users (0 = uncapped)")
	runCmd.Flags().Int64("seed", 0, "Seed for reproducible latency, failures, and think times (0 = time-based)")
	runCmd.Flags().StringP("profile", "f", "", "Profile file (YAML or JSON); overrides the workload flags")

	// Output flags
	runCmd.Flags().String("format", "text", "Report format for stdout (text, json, yaml)")
	runCmd.Flags().StringP("output", "o", "", "Write the report to a file (.html, .json, .yaml)")
	runCmd.Flags().Bool("html", false, "Generate an HTML report")
	runCmd.Flags().BoolP("quiet", "q", false, "Disable live progress output, print only the verdict")
	runCmd.Flags().Bool("no-color", false, "Disable colored output")
	runCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	runCmd.Flags().String("log-level", "warn", "Engine log level (panic, fatal, error, warn, info, debug, trace)")
}
