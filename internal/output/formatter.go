package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

// Formatter renders load test reports as human-readable text
type Formatter struct {
	Verbose bool
	NoColor bool
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
	}
}

// NewFormatterWithFormat creates a new formatter with the specified output format
func NewFormatterWithFormat(format OutputFormat, verbose, noColor bool) FormatProvider {
	return GetFormatter(format, verbose, noColor)
}

func (f *Formatter) scheme() *ColorScheme {
	if f.NoColor {
		return NoColorScheme()
	}
	return DefaultColorScheme()
}

// FormatReport formats a completed run for terminal display
func (f *Formatter) FormatReport(rep *report.LoadTestReport) string {
	if rep == nil {
		return ""
	}

	cs := f.scheme()
	var buf strings.Builder

	title := rep.Config.Name
	if title == "" {
		title = rep.Config.WorkloadType
	}

	buf.WriteString(fmt.Sprintf("%s %s [%s]\n",
		cs.Title.Sprint("▶ LOAD TEST:"), title, rep.Config.WorkloadType))
	buf.WriteString(fmt.Sprintf("  Run ID:      %s\n", rep.RunID))
	buf.WriteString(fmt.Sprintf("  Status:      %s %s\n",
		f.statusIcon(rep.Status), cs.StatusColor(rep.Status).Sprint(string(rep.Status))))
	buf.WriteString(fmt.Sprintf("  Duration:    %s\n", formatDurationMs(rep.DurationMs)))

	if f.Verbose {
		buf.WriteString(fmt.Sprintf("  Started:     %s\n", rep.StartedAt.Format(time.RFC3339)))
		buf.WriteString(fmt.Sprintf("  Ended:       %s\n", rep.EndedAt.Format(time.RFC3339)))
	}

	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("  Requests:    %s total | %s ok | %s failed\n",
		cs.Metric.Sprint(formatNumber(rep.TotalRequests)),
		cs.Success.Sprint(formatNumber(rep.SuccessfulRequests)),
		cs.Error.Sprint(formatNumber(rep.FailedRequests))))
	buf.WriteString(fmt.Sprintf("  Error Rate:  %s\n", fmt.Sprintf("%.2f%%", rep.ErrorRatePercent)))
	buf.WriteString(fmt.Sprintf("  Throughput:  %s req/s\n", cs.Metric.Sprintf("%.1f", rep.ThroughputReqPerSec)))

	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("  Latency:     avg %s | min %s | max %s\n",
		formatMillis(rep.AverageLatencyMs),
		formatMillis(rep.MinLatencyMs),
		formatMillis(rep.MaxLatencyMs)))
	buf.WriteString(fmt.Sprintf("    P50: %s  P90: %s  P95: %s  P99: %s",
		formatMillis(rep.Percentiles.P50Ms),
		formatMillis(rep.Percentiles.P90Ms),
		formatMillis(rep.Percentiles.P95Ms),
		formatMillis(rep.Percentiles.P99Ms)))
	if f.Verbose {
		buf.WriteString(fmt.Sprintf("  StdDev: %s", formatMillis(rep.Percentiles.StdDevMs)))
	}
	buf.WriteString("\n")

	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("  Memory:      %.1f MB initial | %.1f MB peak | %.1f MB final (%+.1f MB)\n",
		rep.Memory.InitialMB, rep.Memory.PeakMB, rep.Memory.FinalMB, rep.Memory.GrowthMB()))

	if f.Verbose {
		buf.WriteString("\n")
		buf.WriteString("  Workload:\n")
		buf.WriteString(fmt.Sprintf("    Concurrency:  %d\n", rep.Config.Concurrency))
		buf.WriteString(fmt.Sprintf("    Duration:     %ds\n", rep.Config.Duration))
		buf.WriteString(fmt.Sprintf("    Ramp-up:      %ds\n", rep.Config.RampUpSeconds))
		buf.WriteString(fmt.Sprintf("    Type:         %s\n", rep.Config.WorkloadType))
		if rep.Config.TargetRate > 0 {
			buf.WriteString(fmt.Sprintf("    Target Rate:  %.1f/s\n", rep.Config.TargetRate))
		}
		if rep.Config.Seed != 0 {
			buf.WriteString(fmt.Sprintf("    Seed:         %d\n", rep.Config.Seed))
		}
	}

	if len(rep.Recommendations) > 0 {
		buf.WriteString("\n")
		buf.WriteString(fmt.Sprintf("  %s\n", cs.Highlight.Sprint("Recommendations:")))
		for _, rec := range rep.Recommendations {
			buf.WriteString(fmt.Sprintf("    %s %s\n", WarningIcon(f.NoColor), rec))
		}
	}

	if rep.Error != "" {
		buf.WriteString("\n")
		buf.WriteString(fmt.Sprintf("  %s %s\n", cs.Error.Sprint("Error:"), rep.Error))
	}

	return buf.String()
}

// FormatStatus returns just the colored verdict, used in quiet mode
func (f *Formatter) FormatStatus(rep *report.LoadTestReport) string {
	if rep == nil {
		return ""
	}
	return f.scheme().StatusColor(rep.Status).Sprint(string(rep.Status))
}

func (f *Formatter) statusIcon(status report.Status) string {
	switch status {
	case report.StatusPass:
		return SuccessIcon(f.NoColor)
	case report.StatusWarning:
		return WarningIcon(f.NoColor)
	default:
		return ErrorIcon(f.NoColor)
	}
}

// formatMillis renders a latency value at a precision that reads well
// across the whole range
func formatMillis(ms float64) string {
	if ms <= 0 {
		return "0ms"
	}
	if ms < 1 {
		return fmt.Sprintf("%.2fms", ms)
	}
	if ms < 1000 {
		return fmt.Sprintf("%.1fms", ms)
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}

// formatDurationMs renders a wall-clock span given in milliseconds
func formatDurationMs(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}

// formatNumber formats a number with thousands separators
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
