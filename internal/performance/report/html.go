package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"time"
)

// htmlData is the root object the HTML template renders.
type htmlData struct {
	*LoadTestReport
	GeneratedAt time.Time
}

// GenerateHTML renders a report as a standalone HTML page and writes it
// to a file.
func GenerateHTML(r *LoadTestReport, outputPath string) error {
	html, err := GenerateHTMLString(r)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString renders a report as a standalone HTML page and
// returns it as a string.
func GenerateHTMLString(r *LoadTestReport) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := htmlData{
		LoadTestReport: r,
		GeneratedAt:    time.Now(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// templateFuncs returns the template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDurationMs": formatDurationMs,
		"formatNumber":     formatNumber,
		"formatMillis":     formatMillis,
		"formatMB":         formatMB,
		"statusClass":      statusClass,
		"successRate":      successRate,
	}
}

// formatDurationMs formats a millisecond count in a human-readable way.
func formatDurationMs(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// formatNumber formats a large number with commas.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	result := ""
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}

// formatMillis formats a latency in fractional milliseconds in a
// human-readable way.
func formatMillis(ms float64) string {
	if ms <= 0 {
		return "0"
	}
	if ms < 10 {
		return fmt.Sprintf("%.2fms", ms)
	}
	if ms < 100 {
		return fmt.Sprintf("%.1fms", ms)
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", int(ms))
	}
	s := ms / 1000.0
	if s < 10 {
		return fmt.Sprintf("%.2fs", s)
	}
	return fmt.Sprintf("%.1fs", s)
}

// formatMB formats a megabyte measurement.
func formatMB(mb float64) string {
	if mb >= 1024 {
		return fmt.Sprintf("%.2f GB", mb/1024)
	}
	return fmt.Sprintf("%.1f MB", mb)
}

// statusClass maps a status to its CSS class.
func statusClass(s Status) string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarning:
		return "warning"
	default:
		return "fail"
	}
}

// successRate calculates the success percentage for a report.
func successRate(r *LoadTestReport) float64 {
	if r == nil || r.TotalRequests == 0 {
		return 0
	}
	return float64(r.SuccessfulRequests) / float64(r.TotalRequests) * 100
}
