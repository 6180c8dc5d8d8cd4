package model

import "time"

// ScanSummary describes a single scan run.
type ScanSummary struct {
	ID          string    `json:"id"`
	Roots       []string  `json:"roots"`
	Started     time.Time `json:"started"`
	Finished    time.Time `json:"finished"`
	Files       int       `json:"files"`
	Bytes       int64     `json:"bytes"`
	ParseErrors int       `json:"parse_errors"`
}

// Duration returns the wall-clock time the scan took.
func (s *ScanSummary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// ScanResult is the full output of one scan: the run summary plus all
// findings, sorted by path, line, column.
type ScanResult struct {
	Summary  ScanSummary `json:"summary"`
	Findings []Finding   `json:"findings"`
}

// CountBySeverity returns how many findings carry each severity.
func (r *ScanResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}
