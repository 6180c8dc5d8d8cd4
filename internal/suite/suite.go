// Package suite runs the buggy/clean fixture corpus that validates the
// detectors.
//
// A corpus is laid out as <case>/buggy/*.go and <case>/clean/*.go, either
// as a directory tree or inside a txtar archive. A buggy fixture passes
// when it trips at least one detector (or every kind named by a
// "// sentinel:expect <kind>..." comment); a clean fixture passes when it
// trips none.
package suite

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/txtar"

	"CodeSentinel/internal/detector"
	"CodeSentinel/internal/model"
)

// VariantBuggy and VariantClean name the two sides of every fixture case.
const (
	VariantBuggy = "buggy"
	VariantClean = "clean"
)

// knownKinds guards sentinel:expect comments against typos.
var knownKinds = func() map[string]bool {
	m := make(map[string]bool, len(model.Kinds))
	for _, kind := range model.Kinds {
		m[kind] = true
	}
	return m
}()

// CaseResult is the outcome of running the detectors over one fixture file.
type CaseResult struct {
	Case     string
	Variant  string
	Path     string
	Findings []model.Finding
	Passed   bool
	Reason   string
}

// Runner evaluates fixtures against a detector set.
type Runner struct {
	Detectors []detector.Detector
}

// NewRunner creates a Runner.
func NewRunner(detectors []detector.Detector) *Runner {
	return &Runner{Detectors: detectors}
}

// RunDir walks a fixture tree and evaluates every <case>/<variant>/*.go file.
func (r *Runner) RunDir(root string) ([]CaseResult, error) {
	var results []CaseResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		caseName, variant, ok := splitFixturePath(filepath.ToSlash(rel))
		if !ok {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fixture %s: %w", path, err)
		}
		results = append(results, r.run(caseName, variant, path, src))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk fixtures %s: %w", root, err)
	}
	sortResults(results)
	return results, nil
}

// RunArchive evaluates every fixture inside a txtar corpus archive.
func (r *Runner) RunArchive(path string) ([]CaseResult, error) {
	archive, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	results, err := r.RunTxtar(archive)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	return results, nil
}

// RunTxtar evaluates every fixture in an already-parsed txtar archive.
func (r *Runner) RunTxtar(archive *txtar.Archive) ([]CaseResult, error) {
	var results []CaseResult
	for _, f := range archive.Files {
		if !strings.HasSuffix(f.Name, ".go") {
			continue
		}
		caseName, variant, ok := splitFixturePath(f.Name)
		if !ok {
			return nil, fmt.Errorf("fixture %s: want <case>/<buggy|clean>/<file>.go", f.Name)
		}
		results = append(results, r.run(caseName, variant, f.Name, f.Data))
	}
	sortResults(results)
	return results, nil
}

func (r *Runner) run(caseName, variant, path string, src []byte) CaseResult {
	result := CaseResult{Case: caseName, Variant: variant, Path: path}

	fset := token.NewFileSet()
	tree, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		result.Reason = fmt.Sprintf("parse: %v", err)
		return result
	}

	file := &detector.File{Path: path, Fset: fset, AST: tree}
	for _, d := range r.Detectors {
		result.Findings = append(result.Findings, d.Inspect(file)...)
	}

	switch variant {
	case VariantClean:
		if len(result.Findings) == 0 {
			result.Passed = true
		} else {
			result.Reason = fmt.Sprintf("clean fixture tripped %d findings", len(result.Findings))
		}
	case VariantBuggy:
		expected := expectedKinds(tree)
		for _, kind := range expected {
			if !knownKinds[kind] {
				result.Reason = fmt.Sprintf("unknown kind %q in sentinel:expect", kind)
				return result
			}
		}
		if len(expected) == 0 {
			if len(result.Findings) > 0 {
				result.Passed = true
			} else {
				result.Reason = "buggy fixture tripped no findings"
			}
			break
		}
		missing := missingKinds(expected, result.Findings)
		if len(missing) == 0 {
			result.Passed = true
		} else {
			result.Reason = fmt.Sprintf("missing expected kinds: %s", strings.Join(missing, ", "))
		}
	}
	return result
}

// Verdict tallies pass/fail over a result set.
func Verdict(results []CaseResult) (passed, failed int) {
	for _, res := range results {
		if res.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// expectedKinds collects kinds pinned by "sentinel:expect" comments.
func expectedKinds(tree *ast.File) []string {
	var kinds []string
	for _, group := range tree.Comments {
		for _, c := range group.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if !strings.HasPrefix(text, "sentinel:expect") {
				continue
			}
			kinds = append(kinds, strings.Fields(strings.TrimPrefix(text, "sentinel:expect"))...)
		}
	}
	return kinds
}

func missingKinds(expected []string, findings []model.Finding) []string {
	got := make(map[string]bool, len(findings))
	for _, f := range findings {
		got[f.Kind] = true
	}
	var missing []string
	for _, kind := range expected {
		if !got[kind] {
			missing = append(missing, kind)
		}
	}
	return missing
}

func splitFixturePath(rel string) (caseName, variant string, ok bool) {
	parts := strings.Split(rel, "/")
	if len(parts) < 3 {
		return "", "", false
	}
	variant = parts[len(parts)-2]
	if variant != VariantBuggy && variant != VariantClean {
		return "", "", false
	}
	return strings.Join(parts[:len(parts)-2], "/"), variant, true
}

func sortResults(results []CaseResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Case != b.Case {
			return a.Case < b.Case
		}
		if a.Variant != b.Variant {
			return a.Variant < b.Variant
		}
		return a.Path < b.Path
	})
}
