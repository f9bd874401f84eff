// Package output renders live console progress for in-flight load test runs.
package output

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/engine"
)

// ANSI escape codes for cursor control and colors
const (
	cursorUp  = "\033[%dA" // Move cursor up N lines
	clearLine = "\033[2K"  // Clear entire line

	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorRed     = "\033[31m"

	// Box drawing characters
	boxHorizontal  = "━"
	boxVertical    = "│"
	boxTopLeft     = "┌"
	boxTopRight    = "┐"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"

	// Progress bar characters
	progressFilled = "█"
	progressEmpty  = "░"
)

// Run phases shown in the live display.
const (
	PhaseRampUp   = "ramp-up"
	PhaseSteady   = "steady"
	PhaseDraining = "draining"
)

// LiveStats is one refresh of the live display, derived from an active
// run's counters.
type LiveStats struct {
	// Progress tracking
	Progress  float64       // 0.0 to 1.0
	Elapsed   time.Duration // Time since the run started
	Remaining time.Duration // Estimated time remaining

	// VU stats
	ActiveVUs int // Currently running virtual users
	TargetVUs int // Configured virtual users

	// Operation stats
	TotalOps    int64   // Operations completed so far
	Errors      int64   // Operations that failed
	ErrorRate   float64 // Error rate (0.0 to 1.0)
	CurrentRate float64 // Operations per second since start

	// Phase info
	Phase string // Current run phase
}

// ConsoleOutput manages live console output during a run.
type ConsoleOutput struct {
	runName        string
	workloadType   string
	updateInterval time.Duration
	writer         io.Writer
	isTTY          bool
	useColors      bool
	quiet          bool

	// State
	mu          sync.Mutex
	lastStats   *LiveStats
	linesOutput int // Number of lines in the live display
}

// ConsoleOutputConfig contains configuration for ConsoleOutput.
type ConsoleOutputConfig struct {
	RunName        string
	WorkloadType   string
	UpdateInterval time.Duration
	Writer         io.Writer
	Quiet          bool
	ForceColors    bool
	ForceTTY       bool
}

// NewConsoleOutput creates a new console output handler.
func NewConsoleOutput(cfg ConsoleOutputConfig) *ConsoleOutput {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = time.Second
	}

	isTTY := cfg.ForceTTY || isTerminal(cfg.Writer)
	useColors := cfg.ForceColors || (isTTY && supportsColors())

	return &ConsoleOutput{
		runName:        cfg.RunName,
		workloadType:   cfg.WorkloadType,
		updateInterval: cfg.UpdateInterval,
		writer:         cfg.Writer,
		isTTY:          isTTY,
		useColors:      useColors,
		quiet:          cfg.Quiet,
	}
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// supportsColors checks if the terminal supports colors.
func supportsColors() bool {
	// Check for explicit color disable
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check for explicit color enable
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// Windows: depends on Windows version and terminal
	if runtime.GOOS == "windows" {
		// Modern Windows terminals support ANSI colors
		if os.Getenv("WT_SESSION") != "" || os.Getenv("ConEmuANSI") == "ON" {
			return true
		}
		return true
	}

	// Unix: most terminals support colors
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}
	return true
}

// UpdateEvery returns the configured refresh interval.
func (c *ConsoleOutput) UpdateEvery() time.Duration {
	return c.updateInterval
}

// PrintHeader prints the run header.
func (c *ConsoleOutput) PrintHeader() {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := strings.Repeat(boxHorizontal, 56)
	title := c.runName
	if title == "" {
		title = c.workloadType
	}

	c.writeln(c.colorize(line, colorCyan))
	c.writeln(c.colorize(fmt.Sprintf("%s - Running [%s]", title, c.workloadType), colorBold))
	c.writeln(c.colorize(line, colorCyan))
	c.writeln("")
}

// Update updates the live display with new statistics.
func (c *ConsoleOutput) Update(stats *LiveStats) {
	if c.quiet || !c.isTTY {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastStats = stats

	// Clear previous output
	if c.linesOutput > 0 {
		c.write(fmt.Sprintf(cursorUp, c.linesOutput))
		for i := 0; i < c.linesOutput; i++ {
			c.write(clearLine)
			if i < c.linesOutput-1 {
				c.write("\n")
			}
		}
		c.write(fmt.Sprintf(cursorUp, c.linesOutput))
	}

	// Render progress section
	lines := c.renderLiveStats(stats)
	c.linesOutput = len(lines)

	for _, line := range lines {
		c.writeln(line)
	}
}

// renderLiveStats renders the live statistics display.
func (c *ConsoleOutput) renderLiveStats(stats *LiveStats) []string {
	var lines []string

	// Progress bar
	progressBar := c.renderProgressBar(stats.Progress, 40)
	progressPercent := fmt.Sprintf("%.0f%%", stats.Progress*100)
	timeInfo := fmt.Sprintf("%s / %s", formatDuration(stats.Elapsed), formatDuration(stats.Elapsed+stats.Remaining))

	lines = append(lines, fmt.Sprintf("Progress: %s %s | %s",
		c.colorize(progressBar, colorGreen),
		c.colorize(progressPercent, colorBold),
		c.colorize(timeInfo, colorDim)))

	// Phase info
	lines = append(lines, fmt.Sprintf("Phase:    %s", c.colorize(stats.Phase, colorMagenta)))
	lines = append(lines, "")

	// Stats box
	boxWidth := 55

	// Top border
	lines = append(lines, c.colorize(boxTopLeft+strings.Repeat(boxHorizontal, boxWidth-2)+boxTopRight, colorDim))

	// VUs and operations row
	vusStr := fmt.Sprintf("VUs:    %s / %s",
		c.colorize(fmt.Sprintf("%d", stats.ActiveVUs), colorCyan),
		fmt.Sprintf("%d", stats.TargetVUs))
	opsStr := fmt.Sprintf("Ops:       %s", c.colorize(formatNumber(stats.TotalOps), colorCyan))
	lines = append(lines, c.formatBoxRow(vusStr, opsStr, boxWidth))

	// Rate and errors row
	rateStr := fmt.Sprintf("Rate:   %s", c.colorize(fmt.Sprintf("%.1f/s", stats.CurrentRate), colorGreen))
	errColor := colorGreen
	if stats.ErrorRate > 0.01 {
		errColor = colorYellow
	}
	if stats.ErrorRate > 0.05 {
		errColor = colorRed
	}
	errStr := fmt.Sprintf("Errors:    %s (%s)",
		c.colorize(formatNumber(stats.Errors), errColor),
		c.colorize(fmt.Sprintf("%.1f%%", stats.ErrorRate*100), errColor))
	lines = append(lines, c.formatBoxRow(rateStr, errStr, boxWidth))

	// Bottom border
	lines = append(lines, c.colorize(boxBottomLeft+strings.Repeat(boxHorizontal, boxWidth-2)+boxBottomRight, colorDim))

	return lines
}

// formatBoxRow formats a row inside the stats box with two columns.
func (c *ConsoleOutput) formatBoxRow(left, right string, boxWidth int) string {
	// Account for ANSI codes when calculating padding
	leftVisible := stripANSI(left)
	rightVisible := stripANSI(right)

	// Each column gets roughly half the box width
	colWidth := (boxWidth - 4) / 2 // 4 = 2 borders + 2 padding

	leftPadding := colWidth - len(leftVisible)
	if leftPadding < 0 {
		leftPadding = 0
	}

	rightPadding := colWidth - len(rightVisible)
	if rightPadding < 0 {
		rightPadding = 0
	}

	return fmt.Sprintf("%s %s%s%s %s%s %s",
		c.colorize(boxVertical, colorDim),
		left, strings.Repeat(" ", leftPadding),
		c.colorize(boxVertical, colorDim),
		right, strings.Repeat(" ", rightPadding),
		c.colorize(boxVertical, colorDim))
}

// renderProgressBar renders a progress bar.
func (c *ConsoleOutput) renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	empty := width - filled

	return "[" + strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, empty) + "]"
}

// PrintNonInteractiveUpdate prints a non-interactive status update.
// Used when output is not a TTY (e.g., piped to a file or CI/CD).
func (c *ConsoleOutput) PrintNonInteractiveUpdate(stats *LiveStats) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple one-line status for non-TTY
	c.writeln(fmt.Sprintf("[%s] %s | Progress: %.0f%% | VUs: %d/%d | Ops: %d | Rate: %.1f/s | Errors: %d (%.1f%%)",
		formatDuration(stats.Elapsed),
		stats.Phase,
		stats.Progress*100,
		stats.ActiveVUs,
		stats.TargetVUs,
		stats.TotalOps,
		stats.CurrentRate,
		stats.Errors,
		stats.ErrorRate*100))
}

// Finish clears the live display so the final report starts on a clean
// region. Safe to call when nothing was drawn.
func (c *ConsoleOutput) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTTY || c.linesOutput == 0 {
		return
	}

	c.write(fmt.Sprintf(cursorUp, c.linesOutput))
	for i := 0; i < c.linesOutput; i++ {
		c.write(clearLine + "\n")
	}
	c.write(fmt.Sprintf(cursorUp, c.linesOutput))
	c.linesOutput = 0
}

// IsTTY returns whether the output is a terminal.
func (c *ConsoleOutput) IsTTY() bool {
	return c.isTTY
}

// write writes to the output without a newline.
func (c *ConsoleOutput) write(s string) {
	fmt.Fprint(c.writer, s)
}

// writeln writes to the output with a newline.
func (c *ConsoleOutput) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// colorize wraps text in color codes if colors are enabled.
func (c *ConsoleOutput) colorize(text, color string) string {
	if !c.useColors {
		return text
	}
	return color + text + colorReset
}

// Helper functions

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	// Add thousands separators
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

// stripANSI removes ANSI escape codes from a string.
func stripANSI(s string) string {
	// Simple state machine to strip ANSI sequences
	var result strings.Builder
	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteByte(s[i])
	}

	return result.String()
}

// StatsFromRun derives one display refresh from an active run's status.
//
// Progress is measured against the run's expected wall clock: the last
// user starts at rampUp*(n-1)/n into the run and works for the
// configured duration from there, so that is when the display reaches
// 100%. A run still winding down past that point shows as draining.
func StatsFromRun(status engine.RunStatus, profile config.WorkloadProfile, now time.Time) *LiveStats {
	elapsed := now.Sub(status.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	n := profile.Concurrency
	if n < 1 {
		n = 1
	}
	rampUp := profile.RampUpDuration()
	expected := rampUp*time.Duration(n-1)/time.Duration(n) + profile.RunDuration()

	progress := 1.0
	if expected > 0 {
		progress = float64(elapsed) / float64(expected)
	}
	if progress > 1 {
		progress = 1
	}

	remaining := expected - elapsed
	if remaining < 0 {
		remaining = 0
	}

	var rate float64
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(status.TotalOps) / secs
	}

	var errorRate float64
	if status.TotalOps > 0 {
		errorRate = float64(status.FailedOps) / float64(status.TotalOps)
	}

	phase := PhaseSteady
	switch {
	case elapsed < rampUp:
		phase = PhaseRampUp
	case elapsed > expected:
		phase = PhaseDraining
	}

	return &LiveStats{
		Progress:    progress,
		Elapsed:     elapsed,
		Remaining:   remaining,
		ActiveVUs:   status.ActiveVUs,
		TargetVUs:   n,
		TotalOps:    status.TotalOps,
		Errors:      status.FailedOps,
		ErrorRate:   errorRate,
		CurrentRate: rate,
		Phase:       phase,
	}
}
