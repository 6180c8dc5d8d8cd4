package detector

import (
	"fmt"
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/inspector"

	"CodeSentinel/internal/model"
	"CodeSentinel/internal/precision"
)

// FloatCompareDetector flags == and != between floating-point operands.
// When both sides are constant expressions it re-evaluates them in exact
// decimal arithmetic to decide whether the comparison actually lies under
// float64 or is merely fragile.
type FloatCompareDetector struct{}

// NewFloatCompareDetector creates a FloatCompareDetector.
func NewFloatCompareDetector() *FloatCompareDetector { return &FloatCompareDetector{} }

func (d *FloatCompareDetector) Name() string { return "floatcmp" }

func (d *FloatCompareDetector) Inspect(file *File) []model.Finding {
	floats := collectFloatNames(file.AST)

	var findings []model.Finding
	ins := inspector.New([]*ast.File{file.AST})
	ins.Preorder([]ast.Node{(*ast.BinaryExpr)(nil)}, func(n ast.Node) {
		be := n.(*ast.BinaryExpr)
		if be.Op != token.EQL && be.Op != token.NEQ {
			return
		}
		if !isFloatExpr(be.X, floats) && !isFloatExpr(be.Y, floats) {
			return
		}

		sev := model.SeverityWarning
		msg := fmt.Sprintf("floating-point values compared with %s", be.Op)
		if cmp, ok := precision.Compare(be.X, be.Y); ok {
			if cmp.Diverges() {
				sev = model.SeverityError
				msg = fmt.Sprintf("comparison unreliable under float64: exact decimal says %s %s %s is %v, float64 says %v",
					cmp.Left.Exact, be.Op, cmp.Right.Exact, applyOp(be.Op, cmp.Exact), applyOp(be.Op, cmp.Approx))
			} else {
				msg += " (exact for these constants, fragile if operands change)"
			}
		}
		findings = append(findings, file.finding(be.Pos(), model.KindFloatEquality, sev, d.Name(), msg))
	})
	return findings
}

func applyOp(op token.Token, equal bool) bool {
	if op == token.NEQ {
		return !equal
	}
	return equal
}

// collectFloatNames gathers names that are plainly floats in this file:
// declared with a float type, parameters of float type, or assigned an
// expression containing a float literal or float conversion.
func collectFloatNames(file *ast.File) map[string]bool {
	floats := make(map[string]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ValueSpec:
			if isFloatType(n.Type) {
				for _, id := range n.Names {
					floats[id.Name] = true
				}
			}
			for i, v := range n.Values {
				if i < len(n.Names) && mentionsFloat(v) {
					floats[n.Names[i].Name] = true
				}
			}
		case *ast.AssignStmt:
			for i, lhs := range n.Lhs {
				id, ok := lhs.(*ast.Ident)
				if !ok || i >= len(n.Rhs) {
					continue
				}
				if mentionsFloat(n.Rhs[i]) {
					floats[id.Name] = true
				}
			}
		case *ast.FuncDecl:
			if n.Type.Params == nil {
				return true
			}
			for _, field := range n.Type.Params.List {
				if !isFloatType(field.Type) {
					continue
				}
				for _, id := range field.Names {
					floats[id.Name] = true
				}
			}
		}
		return true
	})

	// Propagate through simple arithmetic on known floats until settled:
	// change := money - price*3 makes change a float once money is.
	for changed := true; changed; {
		changed = false
		ast.Inspect(file, func(n ast.Node) bool {
			as, ok := n.(*ast.AssignStmt)
			if !ok {
				return true
			}
			for i, lhs := range as.Lhs {
				id, ok := lhs.(*ast.Ident)
				if !ok || i >= len(as.Rhs) || floats[id.Name] {
					continue
				}
				if isFloatExpr(as.Rhs[i], floats) {
					floats[id.Name] = true
					changed = true
				}
			}
			return true
		})
	}
	return floats
}

func isFloatType(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && (id.Name == "float64" || id.Name == "float32")
}

// mentionsFloat reports whether expr contains a float literal or a float
// conversion anywhere.
func mentionsFloat(expr ast.Expr) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.BasicLit:
			if n.Kind == token.FLOAT {
				found = true
			}
		case *ast.CallExpr:
			if isFloatType(n.Fun) {
				found = true
			}
		}
		return !found
	})
	return found
}

// isFloatExpr reports whether expr is float-valued as far as the collected
// names can tell.
func isFloatExpr(expr ast.Expr, floats map[string]bool) bool {
	switch e := ast.Unparen(expr).(type) {
	case *ast.BasicLit:
		return e.Kind == token.FLOAT
	case *ast.Ident:
		return floats[e.Name]
	case *ast.UnaryExpr:
		return isFloatExpr(e.X, floats)
	case *ast.BinaryExpr:
		switch e.Op {
		case token.ADD, token.SUB, token.MUL, token.QUO:
			return isFloatExpr(e.X, floats) || isFloatExpr(e.Y, floats)
		}
	case *ast.CallExpr:
		return isFloatType(e.Fun)
	}
	return false
}
