package detector

import (
	"go/parser"
	"go/token"
	"testing"

	"CodeSentinel/internal/model"
)

func parseFile(t *testing.T, src string) *File {
	t.Helper()
	fset := token.NewFileSet()
	tree, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse test source: %v", err)
	}
	return &File{Path: "test.go", Fset: fset, AST: tree}
}

func kinds(findings []model.Finding) []string {
	var out []string
	for _, f := range findings {
		out = append(out, f.Kind)
	}
	return out
}

func TestEnabled_Default(t *testing.T) {
	ds, err := Enabled(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != len(All()) {
		t.Errorf("expected all %d detectors, got %d", len(All()), len(ds))
	}
}

func TestEnabled_Subset(t *testing.T) {
	ds, err := Enabled([]string{"overflow", "lifecycle"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 2 {
		t.Fatalf("expected 2 detectors, got %d", len(ds))
	}
	if ds[0].Name() != "overflow" || ds[1].Name() != "lifecycle" {
		t.Errorf("unexpected selection: %s, %s", ds[0].Name(), ds[1].Name())
	}
}

func TestEnabled_Unknown(t *testing.T) {
	if _, err := Enabled([]string{"nosuch"}); err == nil {
		t.Error("expected error for unknown detector name")
	}
}

func TestImportBases_Aliases(t *testing.T) {
	file := parseFile(t, `package p

import (
	"os"
	o "os"
	"net/http"
	_ "embed"
)
`)
	bases := importBases(file.AST)
	if bases["os"] != "os" {
		t.Errorf(`bases["os"] = %q, want "os"`, bases["os"])
	}
	if bases["o"] != "os" {
		t.Errorf(`bases["o"] = %q, want "os"`, bases["o"])
	}
	if bases["http"] != "http" {
		t.Errorf(`bases["http"] = %q, want "http"`, bases["http"])
	}
	if _, ok := bases["_"]; ok {
		t.Error("blank import should not be tracked")
	}
}
