package engine

import (
	"sync"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

// ReportStore retains finished run reports in a ring buffer.
//
// It provides:
// - O(1) append and bounded memory usage
// - Thread-safe access from multiple goroutines
//
// When the buffer is full the oldest report is discarded, so a
// long-lived engine never grows without bound.
type ReportStore struct {
	reports    []*report.LoadTestReport
	head       int // Next write position
	count      int // Current number of reports
	maxReports int
	mu         sync.RWMutex
}

// NewReportStore creates a report store retaining at most maxReports
// entries. Non-positive values fall back to DefaultHistoryLimit.
func NewReportStore(maxReports int) *ReportStore {
	if maxReports <= 0 {
		maxReports = DefaultHistoryLimit
	}

	return &ReportStore{
		reports:    make([]*report.LoadTestReport, maxReports),
		maxReports: maxReports,
	}
}

// Append adds a finished run's report, evicting the oldest when full.
func (rs *ReportStore) Append(r *report.LoadTestReport) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.reports[rs.head] = r
	rs.head = (rs.head + 1) % rs.maxReports
	if rs.count < rs.maxReports {
		rs.count++
	}
}

// Reports returns a copy of the retained reports in append order.
//
// The returned slice is a copy, safe to use without holding locks.
func (rs *ReportStore) Reports() []*report.LoadTestReport {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.count == 0 {
		return nil
	}

	result := make([]*report.LoadTestReport, rs.count)

	if rs.count < rs.maxReports {
		// Buffer not yet full - reports are in order from 0 to count-1
		for i := 0; i < rs.count; i++ {
			result[i] = rs.reports[i]
		}
	} else {
		// Buffer is full - need to read in order from head to head-1
		for i := 0; i < rs.count; i++ {
			idx := (rs.head + i) % rs.maxReports
			result[i] = rs.reports[idx]
		}
	}

	return result
}

// Latest returns the most recent report, or nil if none.
func (rs *ReportStore) Latest() *report.LoadTestReport {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.count == 0 {
		return nil
	}

	idx := (rs.head - 1 + rs.maxReports) % rs.maxReports
	return rs.reports[idx]
}

// Count returns the number of reports currently retained.
func (rs *ReportStore) Count() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.count
}

// Clear discards all retained reports.
func (rs *ReportStore) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.reports = make([]*report.LoadTestReport, rs.maxReports)
	rs.head = 0
	rs.count = 0
}
