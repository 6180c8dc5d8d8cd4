package precision

import (
	"go/parser"
	"testing"

	"github.com/govalues/decimal"
)

func eval(t *testing.T, src string) (Value, bool) {
	t.Helper()
	expr, err := parser.ParseExpr(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return Eval(expr)
}

func TestEval_ExactArithmetic(t *testing.T) {
	tests := []struct {
		src   string
		exact string
	}{
		{"10 - 3*3", "1"},
		{"10.0 - 3.0*3", "1.0"},
		{"0.1 + 0.2", "0.3"},
		{"-1.5 * 4", "-6.0"},
		{"(2 + 3) * (2 - 3)", "-5"},
		{"1_000 + 24", "1024"},
		{"0x10 + 0b1", "17"},
		{"1.5e2 / 3", "50"},
	}
	for _, tt := range tests {
		v, ok := eval(t, tt.src)
		if !ok {
			t.Errorf("Eval(%q) not ok", tt.src)
			continue
		}
		if want := decimal.MustParse(tt.exact); v.Exact.Cmp(want) != 0 {
			t.Errorf("Eval(%q).Exact = %s, want %s", tt.src, v.Exact, want)
		}
	}
}

func TestEval_Unsupported(t *testing.T) {
	for _, src := range []string{
		"x + 1",       // not constant
		"1 / 3",       // non-terminating division
		"1 / 0",       // division by zero
		"f(2)",        // call
		`"ten"`,       // string literal
		"0x1p-2",      // hex float
	} {
		if _, ok := eval(t, src); ok {
			t.Errorf("Eval(%q) = ok, want not ok", src)
		}
	}
}

func TestCompare_Divergence(t *testing.T) {
	x, err := parser.ParseExpr("0.1 + 0.2")
	if err != nil {
		t.Fatal(err)
	}
	y, err := parser.ParseExpr("0.3")
	if err != nil {
		t.Fatal(err)
	}
	c, ok := Compare(x, y)
	if !ok {
		t.Fatal("Compare not ok")
	}
	if !c.Exact {
		t.Error("exact decimal should say 0.1+0.2 == 0.3")
	}
	if c.Approx {
		t.Error("float64 should say 0.1+0.2 != 0.3")
	}
	if !c.Diverges() {
		t.Error("expected divergence")
	}
}

func TestCompare_Agreement(t *testing.T) {
	x, err := parser.ParseExpr("10.0 - 3.0*3")
	if err != nil {
		t.Fatal(err)
	}
	y, err := parser.ParseExpr("1.0")
	if err != nil {
		t.Fatal(err)
	}
	c, ok := Compare(x, y)
	if !ok {
		t.Fatal("Compare not ok")
	}
	if !c.Exact || !c.Approx {
		t.Errorf("both arithmetics should agree: exact=%v approx=%v", c.Exact, c.Approx)
	}
	if c.Diverges() {
		t.Error("unexpected divergence")
	}
}
