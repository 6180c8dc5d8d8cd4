package recorder

import "CodeSentinel/internal/model"

// Recorder persists scan history so later runs can tell new findings from
// known ones.
type Recorder interface {
	// RecordScan stores the scan summary and all of its findings.
	RecordScan(result *model.ScanResult) error
	// KnownFindings returns the identity keys (path:line:kind) of every
	// finding recorded by previous scans.
	KnownFindings() (map[string]bool, error)
	Close() error
}
