package detector

import (
	"strings"
	"testing"

	"CodeSentinel/internal/model"
)

func TestFloatCompare_ConstantDivergence(t *testing.T) {
	file := parseFile(t, `package p

func f() bool {
	return 0.1+0.2 == 0.3
}
`)
	findings := NewFloatCompareDetector().Inspect(file)
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %v", findings)
	}
	f := findings[0]
	if f.Kind != model.KindFloatEquality {
		t.Errorf("kind = %s, want %s", f.Kind, model.KindFloatEquality)
	}
	if f.Severity != model.SeverityError {
		t.Errorf("severity = %s, want error (float64 disagrees with exact decimal)", f.Severity)
	}
	if !strings.Contains(f.Message, "unreliable") {
		t.Errorf("message should call out the unreliable comparison, got %q", f.Message)
	}
}

func TestFloatCompare_ConstantButExact(t *testing.T) {
	file := parseFile(t, `package p

func f() bool {
	return 10.0-3.0*3 == 1.0
}
`)
	findings := NewFloatCompareDetector().Inspect(file)
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %v", findings)
	}
	if findings[0].Severity != model.SeverityWarning {
		t.Errorf("severity = %s, want warning for an exact constant comparison", findings[0].Severity)
	}
	if !strings.Contains(findings[0].Message, "fragile") {
		t.Errorf("message should note fragility, got %q", findings[0].Message)
	}
}

func TestFloatCompare_PropagatedVariable(t *testing.T) {
	file := parseFile(t, `package p

func f() bool {
	money := 10.0
	price := 3.0
	change := money - price*3
	return change == 0.0
}
`)
	findings := NewFloatCompareDetector().Inspect(file)
	if len(findings) != 1 || findings[0].Kind != model.KindFloatEquality {
		t.Fatalf("expected one float_equality finding, got %v", findings)
	}
	if findings[0].Line != 7 {
		t.Errorf("line = %d, want 7", findings[0].Line)
	}
}

func TestFloatCompare_DeclaredParam(t *testing.T) {
	file := parseFile(t, `package p

func isZero(x float64) bool {
	return x == 0
}
`)
	findings := NewFloatCompareDetector().Inspect(file)
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %v", findings)
	}
}

func TestFloatCompare_IntegersNotFlagged(t *testing.T) {
	file := parseFile(t, `package p

func f(a, b int) bool {
	return a == b && a == 7
}
`)
	if findings := NewFloatCompareDetector().Inspect(file); len(findings) != 0 {
		t.Errorf("integer comparisons should not be flagged, got %v", findings)
	}
}

func TestFloatCompare_OrderingNotFlagged(t *testing.T) {
	file := parseFile(t, `package p

func f(x float64) bool {
	return x < 0.5 || x >= 1.5
}
`)
	if findings := NewFloatCompareDetector().Inspect(file); len(findings) != 0 {
		t.Errorf("ordering comparisons should not be flagged, got %v", findings)
	}
}
