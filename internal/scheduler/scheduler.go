// Package scheduler runs scans on a cron schedule for watch mode.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/robfig/cron/v3"

	"CodeSentinel/internal/recorder"
	"CodeSentinel/internal/report"
	"CodeSentinel/internal/scanner"
)

// Scheduler periodically rescans the configured roots, reporting findings
// that were not present in any recorded scan as new.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  *scanner.Scanner
	Recorder recorder.Recorder
	Out      io.Writer
	Roots    []string
	Ctx      context.Context
}

// New creates a Scheduler.
func New(ctx context.Context, sc *scanner.Scanner, rec recorder.Recorder, out io.Writer, roots []string) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  sc,
		Recorder: rec,
		Out:      out,
		Roots:    roots,
		Ctx:      ctx,
	}
}

// Register adds the scan task under the given cron spec (seconds granularity).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	if err := s.Ctx.Err(); err != nil {
		return
	}
	log.Println("[INFO] running scheduled scan")

	known, err := s.Recorder.KnownFindings()
	if err != nil {
		log.Printf("[ERROR] load known findings: %v", err)
		known = nil
	}

	result, err := s.Scanner.Scan(s.Roots)
	if err != nil {
		log.Printf("[ERROR] scheduled scan: %v", err)
		return
	}

	if err := report.WriteText(s.Out, result, known); err != nil {
		log.Printf("[ERROR] write report: %v", err)
	}

	if err := s.Recorder.RecordScan(result); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}

	newCount := 0
	for _, f := range result.Findings {
		if known != nil && !known[report.Key(f)] {
			newCount++
		}
	}
	log.Printf("[INFO] scan %s: %d findings (%d new)", result.Summary.ID, len(result.Findings), newCount)
}
