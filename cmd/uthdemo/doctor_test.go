package main

import "testing"

// TestInspectGoModRuntimeModule checks the runtime's own go.mod shape.
func TestInspectGoModRuntimeModule(t *testing.T) {
	data := []byte(`module github.com/kolkov/uthsync

go 1.24.0
`)
	report, err := inspectGoMod("go.mod", data)
	if err != nil {
		t.Fatalf("inspectGoMod() error = %v", err)
	}
	if report.ModulePath != "github.com/kolkov/uthsync" {
		t.Errorf("ModulePath = %q, want runtime module path", report.ModulePath)
	}
	if report.GoVersion != "1.24.0" {
		t.Errorf("GoVersion = %q, want 1.24.0", report.GoVersion)
	}
	if !report.RequiresRuntime {
		t.Errorf("RequiresRuntime = false for the runtime module itself")
	}
}

// TestInspectGoModConsumer checks a downstream module requiring the
// runtime.
func TestInspectGoModConsumer(t *testing.T) {
	data := []byte(`module example.com/app

go 1.25

require github.com/kolkov/uthsync v0.1.0
`)
	report, err := inspectGoMod("go.mod", data)
	if err != nil {
		t.Fatalf("inspectGoMod() error = %v", err)
	}
	if !report.RequiresRuntime {
		t.Errorf("RequiresRuntime = false, want true (require present)")
	}
}

// TestInspectGoModTooOld rejects modules targeting Go older than the
// minimum.
func TestInspectGoModTooOld(t *testing.T) {
	data := []byte(`module example.com/app

go 1.21
`)
	if _, err := inspectGoMod("go.mod", data); err == nil {
		t.Errorf("inspectGoMod() accepted go 1.21, want version error")
	}
}

// TestInspectGoModMissingRequire reports a consumer that does not require
// the runtime without treating it as an error.
func TestInspectGoModMissingRequire(t *testing.T) {
	data := []byte(`module example.com/app

go 1.24
`)
	report, err := inspectGoMod("go.mod", data)
	if err != nil {
		t.Fatalf("inspectGoMod() error = %v", err)
	}
	if report.RequiresRuntime {
		t.Errorf("RequiresRuntime = true, want false (no require)")
	}
}

// TestInspectGoModMalformed rejects unparseable input.
func TestInspectGoModMalformed(t *testing.T) {
	if _, err := inspectGoMod("go.mod", []byte("not a modfile {{{")); err == nil {
		t.Errorf("inspectGoMod() accepted malformed input")
	}
}
