// Package detector implements the AST checks that classify numeric and
// resource-handling code as buggy or clean.
//
// Detectors are deliberately single-file heuristics: they work on a parsed
// file without type information, the same way the fixture suite exercises
// them. Anything a detector cannot understand it ignores.
package detector

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"CodeSentinel/internal/model"
)

// File bundles one parsed source file with its position table.
type File struct {
	Path string
	Fset *token.FileSet
	AST  *ast.File
}

// Position resolves a token position within the file.
func (f *File) Position(pos token.Pos) token.Position {
	return f.Fset.Position(pos)
}

// Detector inspects a parsed file and reports findings.
type Detector interface {
	Name() string
	Inspect(file *File) []model.Finding
}

// All returns every built-in detector.
func All() []Detector {
	return []Detector{
		NewOverflowDetector(),
		NewFloatCompareDetector(),
		NewLifecycleDetector(),
	}
}

// Names returns the names of every built-in detector.
func Names() []string {
	var names []string
	for _, d := range All() {
		names = append(names, d.Name())
	}
	return names
}

// Enabled returns the detectors whose names appear in enabled. An empty
// list selects all detectors. Unknown names are reported as an error.
func Enabled(enabled []string) ([]Detector, error) {
	all := All()
	if len(enabled) == 0 {
		return all, nil
	}
	byName := make(map[string]Detector, len(all))
	for _, d := range all {
		byName[d.Name()] = d
	}
	var selected []Detector
	for _, name := range enabled {
		d, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown detector %q", name)
		}
		selected = append(selected, d)
	}
	return selected, nil
}

// importBases maps each local import name in the file to the base of its
// import path, so that aliased imports still resolve (the fixture suite
// aliases packages on purpose).
func importBases(file *ast.File) map[string]string {
	bases := make(map[string]string)
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		base := path
		for i := len(path) - 1; i >= 0; i-- {
			if path[i] == '/' {
				base = path[i+1:]
				break
			}
		}
		local := base
		if imp.Name != nil {
			local = imp.Name.Name
		}
		if local == "_" || local == "." {
			continue
		}
		bases[local] = base
	}
	return bases
}

// callSignature returns "pkg.Func" for a call like os.Open(...) with import
// aliases resolved, or "" when the callee is not a package selector.
func callSignature(call *ast.CallExpr, bases map[string]string) string {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return ""
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return ""
	}
	base, ok := bases[pkg.Name]
	if !ok {
		return ""
	}
	return base + "." + sel.Sel.Name
}

func (f *File) finding(pos token.Pos, kind string, sev model.Severity, detector, message string) model.Finding {
	p := f.Position(pos)
	return model.Finding{
		Path:     f.Path,
		Line:     p.Line,
		Col:      p.Column,
		Kind:     kind,
		Severity: sev,
		Message:  message,
		Detector: detector,
	}
}
