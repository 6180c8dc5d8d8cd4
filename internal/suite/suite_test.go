package suite

import (
	"testing"

	"golang.org/x/tools/txtar"

	"CodeSentinel/internal/detector"
)

func TestRunDir_ShippedCorpus(t *testing.T) {
	runner := NewRunner(detector.All())
	results, err := runner.RunDir("testdata/test-suite")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 fixtures, got %d", len(results))
	}
	for _, res := range results {
		if !res.Passed {
			t.Errorf("%s/%s %s failed: %s", res.Case, res.Variant, res.Path, res.Reason)
		}
	}

	passed, failed := Verdict(results)
	if passed != 4 || failed != 0 {
		t.Errorf("verdict = %d passed, %d failed", passed, failed)
	}
}

const corpus = `-- math/buggy/main.go --
// sentinel:expect float_equality
package main

func main() {
	if 0.1+0.2 == 0.3 {
		return
	}
}
-- math/clean/main.go --
package main

func main() {}
-- broken/clean/main.go --
package main

import "time"

func main() {
	t := time.NewTicker(time.Second)
	<-t.C
}
`

func TestRunTxtar(t *testing.T) {
	runner := NewRunner(detector.All())
	results, err := runner.RunTxtar(txtar.Parse([]byte(corpus)))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 fixtures, got %d", len(results))
	}

	// Sorted by case: broken/clean, math/buggy, math/clean.
	if results[0].Passed {
		t.Errorf("leaky clean fixture should fail, reason empty: %+v", results[0])
	}
	if !results[1].Passed {
		t.Errorf("buggy fixture should pass: %s", results[1].Reason)
	}
	if !results[2].Passed {
		t.Errorf("empty clean fixture should pass: %s", results[2].Reason)
	}

	passed, failed := Verdict(results)
	if passed != 2 || failed != 1 {
		t.Errorf("verdict = %d passed, %d failed", passed, failed)
	}
}

func TestRunTxtar_BadLayout(t *testing.T) {
	archive := txtar.Parse([]byte("-- stray.go --\npackage main\n"))
	if _, err := NewRunner(detector.All()).RunTxtar(archive); err == nil {
		t.Error("expected error for fixture outside <case>/<variant>/ layout")
	}
}

func TestRun_ExpectedKindMissing(t *testing.T) {
	archive := txtar.Parse([]byte(`-- math/buggy/main.go --
// sentinel:expect file_handle
package main

func main() {
	if 0.1+0.2 == 0.3 {
		return
	}
}
`))
	results, err := NewRunner(detector.All()).RunTxtar(archive)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Passed {
		t.Error("fixture expecting a kind it does not trip should fail")
	}
	if results[0].Reason == "" {
		t.Error("expected a reason naming the missing kind")
	}
}

func TestRun_ParseErrorFails(t *testing.T) {
	archive := txtar.Parse([]byte("-- x/buggy/main.go --\npackage main\nfunc {\n"))
	results, err := NewRunner(detector.All()).RunTxtar(archive)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Passed {
		t.Error("unparsable fixture should fail")
	}
}
