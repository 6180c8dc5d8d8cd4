// Package scanner runs the detectors over whole source trees.
package scanner

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"CodeSentinel/internal/detector"
	"CodeSentinel/internal/loader"
	"CodeSentinel/internal/model"
)

// Scanner loads source trees and runs every configured detector on them.
type Scanner struct {
	Loader    *loader.Loader
	Detectors []detector.Detector
}

// New creates a Scanner.
func New(l *loader.Loader, detectors []detector.Detector) *Scanner {
	return &Scanner{Loader: l, Detectors: detectors}
}

// Scan walks every root, inspects each file, and assembles the sorted scan
// result for this run.
func (s *Scanner) Scan(roots []string) (*model.ScanResult, error) {
	result := &model.ScanResult{
		Summary: model.ScanSummary{
			ID:      uuid.NewString(),
			Roots:   roots,
			Started: time.Now(),
		},
	}

	for _, root := range roots {
		files, parseErrors, err := s.Loader.Load(root)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", root, err)
		}
		result.Summary.ParseErrors += parseErrors
		for _, sf := range files {
			result.Summary.Files++
			result.Summary.Bytes += sf.Size
			file := &detector.File{Path: sf.Path, Fset: sf.Fset, AST: sf.AST}
			for _, d := range s.Detectors {
				result.Findings = append(result.Findings, d.Inspect(file)...)
			}
		}
	}

	sort.Slice(result.Findings, func(i, j int) bool {
		a, b := result.Findings[i], result.Findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.Kind < b.Kind
	})

	result.Summary.Finished = time.Now()
	return result, nil
}
