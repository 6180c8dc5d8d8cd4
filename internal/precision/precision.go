// Package precision evaluates constant numeric expressions exactly.
//
// Floating-point evaluation of source constants can disagree with exact
// decimal arithmetic (0.1+0.2 is not 0.3 in float64). This package evaluates
// an expression both ways so detectors can tell a genuinely unreliable
// comparison from a merely fragile one.
package precision

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// Value is a constant numeric expression evaluated twice: exactly in
// arbitrary-precision decimal, and approximately in float64.
type Value struct {
	Exact  decimal.Decimal
	Approx float64
}

// Comparison reports how an equality test on two constant expressions
// behaves under each arithmetic.
type Comparison struct {
	Left, Right Value
	Exact       bool // left == right in decimal
	Approx      bool // left == right in float64
}

// Diverges reports whether float64 and exact decimal disagree about the
// comparison outcome.
func (c Comparison) Diverges() bool {
	return c.Exact != c.Approx
}

// Compare evaluates both expressions. ok is false when either side is not a
// supported constant expression.
func Compare(x, y ast.Expr) (c Comparison, ok bool) {
	left, ok := Eval(x)
	if !ok {
		return Comparison{}, false
	}
	right, ok := Eval(y)
	if !ok {
		return Comparison{}, false
	}
	return Comparison{
		Left:   left,
		Right:  right,
		Exact:  left.Exact.Cmp(right.Exact) == 0,
		Approx: left.Approx == right.Approx,
	}, true
}

// Eval evaluates a constant numeric expression. ok is false for anything
// that is not a literal-only expression over + - * /, or whose exact result
// is not representable (non-terminating division, overflow).
func Eval(expr ast.Expr) (v Value, ok bool) {
	switch e := ast.Unparen(expr).(type) {
	case *ast.BasicLit:
		return evalLit(e)
	case *ast.UnaryExpr:
		inner, ok := Eval(e.X)
		if !ok {
			return Value{}, false
		}
		switch e.Op {
		case token.ADD:
			return inner, true
		case token.SUB:
			return Value{Exact: inner.Exact.Neg(), Approx: -inner.Approx}, true
		}
		return Value{}, false
	case *ast.BinaryExpr:
		return evalBinary(e)
	}
	return Value{}, false
}

func evalBinary(e *ast.BinaryExpr) (Value, bool) {
	left, ok := Eval(e.X)
	if !ok {
		return Value{}, false
	}
	right, ok := Eval(e.Y)
	if !ok {
		return Value{}, false
	}

	var (
		exact decimal.Decimal
		err   error
	)
	switch e.Op {
	case token.ADD:
		exact, err = left.Exact.Add(right.Exact)
	case token.SUB:
		exact, err = left.Exact.Sub(right.Exact)
	case token.MUL:
		exact, err = left.Exact.Mul(right.Exact)
	case token.QUO:
		if right.Exact.IsZero() {
			return Value{}, false
		}
		exact, err = left.Exact.Quo(right.Exact)
		if err == nil {
			// Quo rounds when the quotient does not terminate; only an
			// exact division counts.
			check, mulErr := exact.Mul(right.Exact)
			if mulErr != nil || check.Cmp(left.Exact) != 0 {
				return Value{}, false
			}
		}
	default:
		return Value{}, false
	}
	if err != nil {
		return Value{}, false
	}

	approx := left.Approx
	switch e.Op {
	case token.ADD:
		approx += right.Approx
	case token.SUB:
		approx -= right.Approx
	case token.MUL:
		approx *= right.Approx
	case token.QUO:
		approx /= right.Approx
	}
	return Value{Exact: exact, Approx: approx}, true
}

func evalLit(lit *ast.BasicLit) (Value, bool) {
	if lit.Kind != token.INT && lit.Kind != token.FLOAT {
		return Value{}, false
	}
	s := strings.ReplaceAll(lit.Value, "_", "")

	if lit.Kind == token.INT {
		// Base prefixes (0x, 0o, 0b, legacy octal) go through ParseInt.
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return Value{}, false
		}
		exact, err := decimal.New(n, 0)
		if err != nil {
			return Value{}, false
		}
		return Value{Exact: exact, Approx: float64(n)}, true
	}

	// Hex floats have no finite decimal parse worth doing here.
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		return Value{}, false
	}

	approx, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, false
	}
	exact, err := decimal.Parse(s)
	if err != nil {
		return Value{}, false
	}
	return Value{Exact: exact, Approx: approx}, true
}
