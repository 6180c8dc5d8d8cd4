package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"CodeSentinel/internal/detector"
	"CodeSentinel/internal/loader"
	"CodeSentinel/internal/model"
)

const buggySource = `package main

import "math"

func main() {
	sum := math.MaxInt
	sum += 42

	money := 10.0
	if money == 10.0 {
		return
	}
}
`

func TestScan_FindsAndSorts(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte(buggySource), 0o644); err != nil {
		t.Fatal(err)
	}

	sc := New(loader.New(nil, false), detector.All())
	result, err := sc.Scan([]string{root})
	if err != nil {
		t.Fatal(err)
	}

	if result.Summary.ID == "" {
		t.Error("expected a scan ID")
	}
	if result.Summary.Files != 1 {
		t.Errorf("files = %d, want 1", result.Summary.Files)
	}
	if result.Summary.Bytes == 0 {
		t.Error("expected byte count")
	}
	if result.Summary.Finished.Before(result.Summary.Started) {
		t.Error("finished before started")
	}

	gotKinds := make(map[string]bool)
	for _, f := range result.Findings {
		gotKinds[f.Kind] = true
	}
	if !gotKinds[model.KindIntegerOverflow] || !gotKinds[model.KindFloatEquality] {
		t.Errorf("expected overflow and float findings, got %v", result.Findings)
	}

	if !sort.SliceIsSorted(result.Findings, func(i, j int) bool {
		a, b := result.Findings[i], result.Findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	}) {
		t.Error("findings not sorted by path and line")
	}
}

func TestScan_CleanTree(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sc := New(loader.New(nil, false), detector.All())
	result, err := sc.Scan([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Findings) != 0 {
		t.Errorf("expected no findings, got %v", result.Findings)
	}
}

func TestScan_UniqueRunIDs(t *testing.T) {
	root := t.TempDir()
	sc := New(loader.New(nil, false), detector.All())

	first, err := sc.Scan([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	second, err := sc.Scan([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	if first.Summary.ID == second.Summary.ID {
		t.Error("scan IDs should be unique per run")
	}
}
