package detector

import (
	"fmt"
	"go/ast"
	"go/token"

	"CodeSentinel/internal/model"
)

// LifecycleDetector tracks resource acquisition and release within each
// function body: files and sockets must be closed, tickers stopped, started
// processes waited on, and context cancel funcs called. A resource whose
// identifier is returned transfers ownership to the caller and is not
// reported.
type LifecycleDetector struct{}

// NewLifecycleDetector creates a LifecycleDetector.
func NewLifecycleDetector() *LifecycleDetector { return &LifecycleDetector{} }

func (d *LifecycleDetector) Name() string { return "lifecycle" }

// lifecycleTargets maps acquiring calls to the kind of resource they yield.
var lifecycleTargets = map[string]string{
	"os.Open":              model.KindFileHandle,
	"os.OpenFile":          model.KindFileHandle,
	"os.Create":            model.KindFileHandle,
	"net.Dial":             model.KindSocketHandle,
	"net.DialTimeout":      model.KindSocketHandle,
	"net.Listen":           model.KindSocketHandle,
	"time.NewTicker":       model.KindTickerHandle,
	"context.WithCancel":   model.KindContextCancel,
	"context.WithTimeout":  model.KindContextCancel,
	"context.WithDeadline": model.KindContextCancel,
}

// releaseMethods maps resource kinds to the methods that release them.
// Context cancel funcs release by being called directly.
var releaseMethods = map[string]map[string]bool{
	model.KindFileHandle:    {"Close": true},
	model.KindSocketHandle:  {"Close": true},
	model.KindTickerHandle:  {"Stop": true},
	model.KindProcessHandle: {"Wait": true, "Kill": true},
}

var leakMessages = map[string]string{
	model.KindFileHandle:    "%s result is never closed",
	model.KindSocketHandle:  "%s result is never closed",
	model.KindTickerHandle:  "%s result is never stopped",
	model.KindProcessHandle: "process started with %s is never waited on or killed",
	model.KindContextCancel: "cancel function from %s is never called",
}

// resourceRecord is one tracked acquisition within a function.
type resourceRecord struct {
	name     string // "" when the result was discarded
	kind     string
	origin   string // acquiring call, e.g. "os.Open"
	pos      token.Pos
	released bool
}

func (d *LifecycleDetector) Inspect(file *File) []model.Finding {
	bases := importBases(file.AST)

	var findings []model.Finding
	for _, decl := range file.AST.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		findings = append(findings, d.inspectFunc(file, fn, bases)...)
	}
	return findings
}

func (d *LifecycleDetector) inspectFunc(file *File, fn *ast.FuncDecl, bases map[string]string) []model.Finding {
	var records []*resourceRecord
	byName := make(map[string][]*resourceRecord)

	add := func(name, kind, origin string, pos token.Pos) {
		rec := &resourceRecord{name: name, kind: kind, origin: origin, pos: pos}
		records = append(records, rec)
		if name != "" {
			byName[name] = append(byName[name], rec)
		}
	}

	// Idents assigned from exec.Command*, so that only their Start calls
	// count as process acquisitions.
	cmdIdents := make(map[string]bool)

	// Pass 1: acquisitions.
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignStmt:
			for i, rhs := range n.Rhs {
				call, ok := ast.Unparen(rhs).(*ast.CallExpr)
				if !ok {
					continue
				}
				sig := callSignature(call, bases)
				if sig == "exec.Command" || sig == "exec.CommandContext" {
					if len(n.Rhs) == len(n.Lhs) {
						if id, ok := n.Lhs[i].(*ast.Ident); ok && id.Name != "_" {
							cmdIdents[id.Name] = true
						}
					}
					continue
				}
				kind, ok := lifecycleTargets[sig]
				if !ok {
					continue
				}
				lhs := n.Lhs
				if len(n.Rhs) == len(n.Lhs) {
					lhs = n.Lhs[i : i+1]
				}
				add(resultName(lhs, kind), kind, sig, call.Pos())
			}
		case *ast.ExprStmt:
			// Result discarded outright: always a leak.
			if call, ok := ast.Unparen(n.X).(*ast.CallExpr); ok {
				if kind, ok := lifecycleTargets[callSignature(call, bases)]; ok {
					add("", kind, callSignature(call, bases), call.Pos())
				}
			}
		case *ast.CallExpr:
			// cmd.Start() turns a prepared command into a live process.
			if sel, ok := n.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == "Start" {
				if id, ok := sel.X.(*ast.Ident); ok && cmdIdents[id.Name] {
					add(id.Name, model.KindProcessHandle, "Start", n.Pos())
				}
			}
		}
		return true
	})

	release := func(name, kind string) {
		for _, rec := range byName[name] {
			if !rec.released && rec.kind == kind {
				rec.released = true
				return
			}
		}
	}

	// Pass 2: releases and ownership transfers. Deferred calls are plain
	// CallExpr nodes here, so defer f.Close() counts like f.Close().
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CallExpr:
			switch fun := n.Fun.(type) {
			case *ast.SelectorExpr:
				if id, ok := fun.X.(*ast.Ident); ok {
					for kind, methods := range releaseMethods {
						if methods[fun.Sel.Name] {
							release(id.Name, kind)
						}
					}
				}
			case *ast.Ident:
				release(fun.Name, model.KindContextCancel)
			}
		case *ast.ReturnStmt:
			for _, res := range n.Results {
				if id, ok := ast.Unparen(res).(*ast.Ident); ok {
					for _, rec := range byName[id.Name] {
						rec.released = true
					}
				}
			}
		}
		return true
	})

	var findings []model.Finding
	for _, rec := range records {
		if rec.released {
			continue
		}
		sev := model.SeverityWarning
		if rec.name == "" {
			sev = model.SeverityError
		}
		findings = append(findings, file.finding(rec.pos, rec.kind, sev, d.Name(),
			fmt.Sprintf(leakMessages[rec.kind], rec.origin)))
	}
	return findings
}

// resultName picks the identifier that owns the resource from the left-hand
// side of the acquiring assignment. Context constructors return the cancel
// func second; everything else owns through the first name. A blank
// identifier discards the resource.
func resultName(lhs []ast.Expr, kind string) string {
	pick := 0
	if kind == model.KindContextCancel && len(lhs) >= 2 {
		pick = 1
	}
	if pick >= len(lhs) {
		return ""
	}
	id, ok := lhs[pick].(*ast.Ident)
	if !ok || id.Name == "_" {
		return ""
	}
	return id.Name
}
