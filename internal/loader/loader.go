// Package loader walks source trees and parses the Go files in them.
package loader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// defaultIgnored are directory names never descended into.
var defaultIgnored = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
	"dist":         true,
	"build":        true,
	".venv":        true,
}

// SourceFile is one parsed Go file.
type SourceFile struct {
	Path string
	Size int64
	Fset *token.FileSet
	AST  *ast.File
}

// Loader collects and parses Go files under a set of roots.
type Loader struct {
	Excludes  []string // extra directory names to skip
	SkipTests bool

	fset *token.FileSet
}

// New creates a Loader.
func New(excludes []string, skipTests bool) *Loader {
	return &Loader{Excludes: excludes, SkipTests: skipTests, fset: token.NewFileSet()}
}

// Fset returns the file set shared by every file this loader parsed.
func (l *Loader) Fset() *token.FileSet {
	return l.fset
}

// Load walks root and parses every Go file found. Files that cannot be read
// or parsed are counted and skipped, not fatal: a scan of a broken tree
// should still report on the rest of it.
func (l *Loader) Load(root string) (files []*SourceFile, parseErrors int, err error) {
	excluded := make(map[string]bool, len(l.Excludes))
	for _, name := range l.Excludes {
		excluded[name] = true
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if defaultIgnored[name] || excluded[name] ||
				strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		if l.SkipTests && strings.HasSuffix(name, "_test.go") {
			return nil
		}
		sf, err := l.parse(path)
		if err != nil {
			log.Printf("[WARN] skip %s: %v", path, err)
			parseErrors++
			return nil
		}
		files = append(files, sf)
		return nil
	})
	if walkErr != nil {
		return nil, parseErrors, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	return files, parseErrors, nil
}

func (l *Loader) parse(path string) (*SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	tree, err := parser.ParseFile(l.fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	return &SourceFile{Path: path, Size: info.Size(), Fset: l.fset, AST: tree}, nil
}
