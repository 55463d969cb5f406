// doctor.go implements the 'uthdemo doctor' command.
//
// doctor checks that the enclosing Go module is set up to host the
// runtime: it locates go.mod by walking up from the working directory,
// parses it, and verifies the 'go' directive meets the runtime's minimum.
// When run from a module other than uthsync itself, it also checks that
// the module requires uthsync.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
)

// minGoVersion is the oldest Go release the runtime supports.
const minGoVersion = "1.24"

// runtimeModulePath is this runtime's module path.
const runtimeModulePath = "github.com/kolkov/uthsync"

// doctorReport is the parsed result of a go.mod inspection.
type doctorReport struct {
	// ModulePath is the enclosing module's path.
	ModulePath string

	// GoVersion is the module's 'go' directive value.
	GoVersion string

	// RequiresRuntime reports whether the module requires uthsync (always
	// true for uthsync itself).
	RequiresRuntime bool
}

// doctorCommand locates, parses and validates the enclosing go.mod.
func doctorCommand() {
	goModPath, err := findGoMod()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(goModPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", goModPath, err)
		os.Exit(1)
	}

	report, err := inspectGoMod(goModPath, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("module:      %s\n", report.ModulePath)
	fmt.Printf("go version:  %s (minimum %s)\n", report.GoVersion, minGoVersion)
	if report.RequiresRuntime {
		fmt.Println("runtime:     required, ok")
	} else {
		fmt.Printf("runtime:     %s not required by this module\n", runtimeModulePath)
	}
}

// findGoMod walks up from the working directory until it finds go.mod.
func findGoMod() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("no go.mod found in any parent directory")
		}
		dir = parent
	}
}

// inspectGoMod parses go.mod contents and validates the go directive. Kept
// free of filesystem access so it is testable on byte slices.
func inspectGoMod(path string, data []byte) (doctorReport, error) {
	var report doctorReport

	modFile, err := modfile.Parse(path, data, nil)
	if err != nil {
		return report, fmt.Errorf("parsing %s: %w", path, err)
	}
	if modFile.Module == nil {
		return report, fmt.Errorf("%s has no module directive", path)
	}
	report.ModulePath = modFile.Module.Mod.Path

	if modFile.Go == nil {
		return report, fmt.Errorf("%s has no go directive", path)
	}
	report.GoVersion = modFile.Go.Version
	if semver.Compare("v"+report.GoVersion, "v"+minGoVersion) < 0 {
		return report, fmt.Errorf("module targets Go %s, runtime needs %s or newer",
			report.GoVersion, minGoVersion)
	}

	if report.ModulePath == runtimeModulePath {
		report.RequiresRuntime = true
		return report, nil
	}
	for _, req := range modFile.Require {
		if req.Mod.Path == runtimeModulePath {
			report.RequiresRuntime = true
			break
		}
	}
	return report, nil
}
