package detector

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/ast/inspector"

	"CodeSentinel/internal/model"
)

// OverflowDetector flags signed-integer arithmetic that starts from an
// extreme value (math.MaxInt and friends) and narrowing integer
// conversions, both of which silently wrap or truncate.
type OverflowDetector struct{}

// NewOverflowDetector creates an OverflowDetector.
func NewOverflowDetector() *OverflowDetector { return &OverflowDetector{} }

func (d *OverflowDetector) Name() string { return "overflow" }

// intWidths gives the bit width of each builtin integer type, used to spot
// narrowing conversions. int and uint are treated as 64-bit.
var intWidths = map[string]int{
	"int": 64, "int8": 8, "int16": 16, "int32": 32, "int64": 64,
	"uint": 64, "uint8": 8, "uint16": 16, "uint32": 32, "uint64": 64,
	"byte": 8, "rune": 32, "uintptr": 64,
}

func (d *OverflowDetector) Inspect(file *File) []model.Finding {
	bases := importBases(file.AST)
	ins := inspector.New([]*ast.File{file.AST})

	// First pass: names bound to an extreme constant, and declared integer
	// types for the narrowing check.
	extremes := make(map[string]string) // ident -> "math.MaxInt64" etc.
	intTypes := make(map[string]string) // ident -> declared integer type
	ins.Preorder([]ast.Node{(*ast.AssignStmt)(nil), (*ast.ValueSpec)(nil), (*ast.FuncDecl)(nil)}, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.AssignStmt:
			for i, lhs := range n.Lhs {
				id, ok := lhs.(*ast.Ident)
				if !ok || id.Name == "_" || i >= len(n.Rhs) {
					continue
				}
				if name := extremeIn(n.Rhs[i], bases); name != "" {
					extremes[id.Name] = name
				}
				if tn := conversionType(n.Rhs[i]); tn != "" {
					intTypes[id.Name] = tn
				}
			}
		case *ast.ValueSpec:
			tn := typeName(n.Type)
			for i, id := range n.Names {
				if id.Name == "_" {
					continue
				}
				if _, ok := intWidths[tn]; ok {
					intTypes[id.Name] = tn
				}
				if i < len(n.Values) {
					if name := extremeIn(n.Values[i], bases); name != "" {
						extremes[id.Name] = name
					}
				}
			}
		case *ast.FuncDecl:
			if n.Type.Params == nil {
				return
			}
			for _, field := range n.Type.Params.List {
				tn := typeName(field.Type)
				if _, ok := intWidths[tn]; !ok {
					continue
				}
				for _, id := range field.Names {
					intTypes[id.Name] = tn
				}
			}
		}
	})

	isExtreme := func(e ast.Expr) string {
		if name := extremeSelector(e, bases); name != "" {
			return name
		}
		if id, ok := ast.Unparen(e).(*ast.Ident); ok {
			return extremes[id.Name]
		}
		return ""
	}

	var findings []model.Finding

	// Second pass: arithmetic touching an extreme value.
	ins.WithStack([]ast.Node{(*ast.BinaryExpr)(nil)}, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		be := n.(*ast.BinaryExpr)
		switch be.Op {
		case token.ADD, token.SUB, token.MUL:
		default:
			return true
		}
		// math.MaxInt-1 inside a comparison is the overflow *guard* idiom.
		if len(stack) >= 2 {
			if parent, ok := stack[len(stack)-2].(*ast.BinaryExpr); ok && isComparison(parent.Op) {
				return true
			}
		}
		name := isExtreme(be.X)
		if name == "" {
			name = isExtreme(be.Y)
		}
		if name == "" {
			return true
		}
		findings = append(findings, file.finding(be.Pos(), model.KindIntegerOverflow, model.SeverityError, d.Name(),
			fmt.Sprintf("%s of a value holding %s overflows", be.Op, name)))
		return true
	})

	ins.Preorder([]ast.Node{(*ast.AssignStmt)(nil), (*ast.IncDecStmt)(nil), (*ast.CallExpr)(nil)}, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.AssignStmt:
			switch n.Tok {
			case token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN:
			default:
				return
			}
			for _, lhs := range n.Lhs {
				if name := isExtreme(lhs); name != "" {
					findings = append(findings, file.finding(n.Pos(), model.KindIntegerOverflow, model.SeverityError, d.Name(),
						fmt.Sprintf("%s on a value holding %s overflows", n.Tok, name)))
				}
			}
		case *ast.IncDecStmt:
			if name := isExtreme(n.X); name != "" {
				findings = append(findings, file.finding(n.Pos(), model.KindIntegerOverflow, model.SeverityError, d.Name(),
					fmt.Sprintf("%s on a value holding %s overflows", n.Tok, name)))
			}
		case *ast.CallExpr:
			// Narrowing conversion like int32(x) where x is declared wider.
			if len(n.Args) != 1 {
				return
			}
			target, ok := ast.Unparen(n.Fun).(*ast.Ident)
			if !ok {
				return
			}
			targetWidth, ok := intWidths[target.Name]
			if !ok {
				return
			}
			arg, ok := ast.Unparen(n.Args[0]).(*ast.Ident)
			if !ok {
				return
			}
			from, ok := intTypes[arg.Name]
			if !ok {
				return
			}
			if intWidths[from] > targetWidth {
				findings = append(findings, file.finding(n.Pos(), model.KindIntegerOverflow, model.SeverityWarning, d.Name(),
					fmt.Sprintf("conversion from %s to %s may truncate %s", from, target.Name, arg.Name)))
			}
		}
	})

	return findings
}

func isComparison(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	}
	return false
}

// extremeSelector returns "math.MaxInt64" for that selector expression, or "".
func extremeSelector(e ast.Expr, bases map[string]string) string {
	sel, ok := ast.Unparen(e).(*ast.SelectorExpr)
	if !ok {
		return ""
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || bases[pkg.Name] != "math" {
		return ""
	}
	name := sel.Sel.Name
	if strings.HasPrefix(name, "MaxInt") || strings.HasPrefix(name, "MinInt") || strings.HasPrefix(name, "MaxUint") {
		return "math." + name
	}
	return ""
}

// extremeIn reports the first extreme constant mentioned anywhere in expr.
func extremeIn(expr ast.Expr, bases map[string]string) string {
	var found string
	ast.Inspect(expr, func(n ast.Node) bool {
		if found != "" {
			return false
		}
		if e, ok := n.(ast.Expr); ok {
			if name := extremeSelector(e, bases); name != "" {
				found = name
				return false
			}
		}
		return true
	})
	return found
}

// conversionType returns the type name when expr is a builtin integer
// conversion like int64(n).
func conversionType(expr ast.Expr) string {
	call, ok := ast.Unparen(expr).(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return ""
	}
	id, ok := ast.Unparen(call.Fun).(*ast.Ident)
	if !ok {
		return ""
	}
	if _, ok := intWidths[id.Name]; !ok {
		return ""
	}
	return id.Name
}

func typeName(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}
