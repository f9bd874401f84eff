package report

// htmlTemplate is the single-page HTML report layout.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{if .Config.Name}}{{.Config.Name}}{{else}}{{.Config.WorkloadType}}{{end}} - Load Test Report</title>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --bg-card: #ffffff;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --text-muted: #94a3b8;
            --border-color: #e2e8f0;
            --accent-primary: #3b82f6;
            --accent-success: #22c55e;
            --accent-warning: #f59e0b;
            --accent-error: #ef4444;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        [data-theme="dark"] {
            --bg-primary: #0f172a;
            --bg-secondary: #1e293b;
            --bg-card: #1e293b;
            --text-primary: #f1f5f9;
            --text-secondary: #94a3b8;
            --text-muted: #64748b;
            --border-color: #334155;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.3);
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
            min-height: 100vh;
        }

        .container {
            max-width: 1100px;
            margin: 0 auto;
            padding: 2rem;
        }

        .header {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 2rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
            display: flex;
            justify-content: space-between;
            align-items: center;
            flex-wrap: wrap;
            gap: 1rem;
        }

        .header-left h1 {
            font-size: 1.75rem;
            font-weight: 700;
            margin-bottom: 0.5rem;
        }

        .header-left .meta {
            display: flex;
            gap: 2rem;
            margin-top: 0.75rem;
            font-size: 0.875rem;
            color: var(--text-muted);
        }

        .header-right {
            display: flex;
            align-items: center;
            gap: 1rem;
        }

        .status {
            display: inline-flex;
            align-items: center;
            gap: 0.5rem;
            padding: 0.75rem 1.5rem;
            border-radius: 8px;
            font-weight: 600;
            font-size: 1rem;
        }

        .status.pass {
            background-color: rgba(34, 197, 94, 0.1);
            color: var(--accent-success);
            border: 1px solid rgba(34, 197, 94, 0.2);
        }

        .status.warning {
            background-color: rgba(245, 158, 11, 0.1);
            color: var(--accent-warning);
            border: 1px solid rgba(245, 158, 11, 0.2);
        }

        .status.fail {
            background-color: rgba(239, 68, 68, 0.1);
            color: var(--accent-error);
            border: 1px solid rgba(239, 68, 68, 0.2);
        }

        .theme-toggle {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 0.5rem;
            cursor: pointer;
            color: var(--text-secondary);
            font-size: 1.25rem;
        }

        .error-banner {
            background-color: rgba(239, 68, 68, 0.1);
            border: 1px solid rgba(239, 68, 68, 0.3);
            color: var(--accent-error);
            border-radius: 12px;
            padding: 1rem 1.5rem;
            margin-bottom: 2rem;
            font-weight: 500;
        }

        .metrics-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(170px, 1fr));
            gap: 1rem;
            margin-bottom: 2rem;
        }

        .metric-card {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 1.5rem;
            box-shadow: var(--shadow);
        }

        .metric-card .label {
            font-size: 0.75rem;
            text-transform: uppercase;
            letter-spacing: 0.05em;
            color: var(--text-muted);
            margin-bottom: 0.5rem;
        }

        .metric-card .value {
            font-size: 1.75rem;
            font-weight: 700;
            color: var(--text-primary);
        }

        .metric-card .unit {
            font-size: 0.875rem;
            color: var(--text-secondary);
            margin-left: 0.25rem;
        }

        .section {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 1.5rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
        }

        .section-title {
            font-size: 1.125rem;
            font-weight: 600;
            margin-bottom: 1.5rem;
            display: flex;
            align-items: center;
            gap: 0.5rem;
        }

        .section-title::before {
            content: '';
            width: 4px;
            height: 1.25rem;
            background: var(--accent-primary);
            border-radius: 2px;
        }

        .latency-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(110px, 1fr));
            gap: 1rem;
        }

        .latency-item {
            text-align: center;
            padding: 1rem;
            background: var(--bg-secondary);
            border-radius: 8px;
        }

        .latency-item .percentile {
            font-size: 0.75rem;
            text-transform: uppercase;
            color: var(--text-muted);
            margin-bottom: 0.25rem;
        }

        .latency-item .time {
            font-size: 1.125rem;
            font-weight: 600;
        }

        .config-table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.9rem;
        }

        .config-table td {
            padding: 0.5rem 0.75rem;
            border-bottom: 1px solid var(--border-color);
        }

        .config-table td:first-child {
            color: var(--text-muted);
            width: 40%;
        }

        .recommendation-list li {
            margin-left: 1.25rem;
            margin-bottom: 0.5rem;
            color: var(--text-secondary);
        }

        .footer {
            text-align: center;
            padding: 1rem;
            color: var(--text-muted);
            font-size: 0.8rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <header class="header">
            <div class="header-left">
                <h1>{{if .Config.Name}}{{.Config.Name}}{{else}}{{.Config.WorkloadType}}{{end}}</h1>
                <div class="meta">
                    <span>Run {{.RunID}}</span>
                    <span>{{.StartedAt.Format "2006-01-02 15:04:05"}}</span>
                    <span>{{formatDurationMs .DurationMs}}</span>
                </div>
            </div>
            <div class="header-right">
                <div class="status {{statusClass .Status}}">{{.Status}}</div>
                <button class="theme-toggle" onclick="toggleTheme()" title="Toggle dark mode">&#9681;</button>
            </div>
        </header>

        {{if .Error}}
        <div class="error-banner">Run aborted: {{.Error}}</div>
        {{end}}

        <div class="metrics-grid">
            <div class="metric-card">
                <div class="label">Total Requests</div>
                <div class="value">{{formatNumber .TotalRequests}}</div>
            </div>
            <div class="metric-card">
                <div class="label">Throughput</div>
                <div class="value">{{printf "%.1f" .ThroughputReqPerSec}}<span class="unit">req/s</span></div>
            </div>
            <div class="metric-card">
                <div class="label">Error Rate</div>
                <div class="value">{{printf "%.2f" .ErrorRatePercent}}<span class="unit">%</span></div>
            </div>
            <div class="metric-card">
                <div class="label">Success Rate</div>
                <div class="value">{{printf "%.2f" (successRate .LoadTestReport)}}<span class="unit">%</span></div>
            </div>
            <div class="metric-card">
                <div class="label">Avg Latency</div>
                <div class="value">{{formatMillis .AverageLatencyMs}}</div>
            </div>
            <div class="metric-card">
                <div class="label">P95 Latency</div>
                <div class="value">{{formatMillis .Percentiles.P95Ms}}</div>
            </div>
        </div>

        <section class="section">
            <h2 class="section-title">Latency Distribution</h2>
            <div class="latency-grid">
                <div class="latency-item">
                    <div class="percentile">Min</div>
                    <div class="time">{{formatMillis .MinLatencyMs}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">P50</div>
                    <div class="time">{{formatMillis .Percentiles.P50Ms}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">P90</div>
                    <div class="time">{{formatMillis .Percentiles.P90Ms}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">P95</div>
                    <div class="time">{{formatMillis .Percentiles.P95Ms}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">P99</div>
                    <div class="time">{{formatMillis .Percentiles.P99Ms}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">Max</div>
                    <div class="time">{{formatMillis .MaxLatencyMs}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">Mean</div>
                    <div class="time">{{formatMillis .AverageLatencyMs}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">Std Dev</div>
                    <div class="time">{{formatMillis .Percentiles.StdDevMs}}</div>
                </div>
            </div>
        </section>

        <section class="section">
            <h2 class="section-title">Memory</h2>
            <div class="latency-grid">
                <div class="latency-item">
                    <div class="percentile">Initial</div>
                    <div class="time">{{formatMB .Memory.InitialMB}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">Peak</div>
                    <div class="time">{{formatMB .Memory.PeakMB}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">Final</div>
                    <div class="time">{{formatMB .Memory.FinalMB}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">Growth</div>
                    <div class="time">{{formatMB .Memory.GrowthMB}}</div>
                </div>
            </div>
        </section>

        <section class="section">
            <h2 class="section-title">Workload</h2>
            <table class="config-table">
                <tr><td>Workload type</td><td>{{.Config.WorkloadType}}</td></tr>
                <tr><td>Concurrency</td><td>{{.Config.Concurrency}} virtual users</td></tr>
                <tr><td>Duration</td><td>{{.Config.Duration}}s per user</td></tr>
                <tr><td>Ramp-up</td><td>{{.Config.RampUpSeconds}}s</td></tr>
                {{if .Config.TargetRate}}<tr><td>Target rate</td><td>{{printf "%.1f" .Config.TargetRate}} req/s</td></tr>{{end}}
                {{if .Config.Seed}}<tr><td>Seed</td><td>{{.Config.Seed}}</td></tr>{{end}}
                <tr><td>Succeeded</td><td>{{formatNumber .SuccessfulRequests}}</td></tr>
                <tr><td>Failed</td><td>{{formatNumber .FailedRequests}}</td></tr>
            </table>
        </section>

        {{if .Recommendations}}
        <section class="section">
            <h2 class="section-title">Recommendations</h2>
            <ul class="recommendation-list">
                {{range .Recommendations}}
                <li>{{.}}</li>
                {{end}}
            </ul>
        </section>
        {{end}}

        <footer class="footer">
            <p>Generated by loadtest &bull; {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
        </footer>
    </div>

    <script>
        function toggleTheme() {
            const html = document.documentElement;
            const newTheme = html.getAttribute('data-theme') === 'dark' ? 'light' : 'dark';
            html.setAttribute('data-theme', newTheme);
            localStorage.setItem('theme', newTheme);
        }

        const savedTheme = localStorage.getItem('theme') || 'light';
        document.documentElement.setAttribute('data-theme', savedTheme);
    </script>
</body>
</html>
`
