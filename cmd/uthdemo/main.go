// Package main implements the uthdemo CLI tool.
//
// uthdemo exercises the uthsync synchronization runtime through a set of
// named concurrency scenarios — producer/consumer over a condition
// variable, semaphore barriers, timed waits, recursive locking, and
// reader-writer ordering. Each scenario validates its own invariants and
// fails loudly, so the tool doubles as a smoke test for the runtime on a
// new platform.
//
// Usage:
//
//	uthdemo list              # List available scenarios
//	uthdemo run <name>        # Run one scenario
//	uthdemo run all           # Run every scenario
//	uthdemo doctor            # Check the enclosing module's toolchain setup
//
// This is the CLI entry point for the demo/smoke-test tool.
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/uthsync/uth"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		runCommand(os.Args[2:])
	case "list":
		listCommand()
	case "doctor":
		doctorCommand()
	case "version", "--version", "-v":
		fmt.Printf("uthdemo version %s\n", uth.Version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`uthdemo - uthsync scenario runner

USAGE:
    uthdemo <command> [arguments]

COMMANDS:
    run <name>    Run one scenario (or 'all')
    list          List available scenarios
    doctor        Check the enclosing Go module's setup
    version       Print version
    help          Show this help

EXAMPLES:
    uthdemo list
    uthdemo run producer-consumer
    uthdemo run all
`)
}

// runCommand implements 'uthdemo run'.
func runCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: uthdemo run <scenario|all>")
		os.Exit(1)
	}
	name := args[0]

	if name == "all" {
		failures := 0
		for _, sc := range scenarios {
			if err := runScenario(sc); err != nil {
				failures++
			}
		}
		if failures > 0 {
			fmt.Fprintf(os.Stderr, "%d scenario(s) failed\n", failures)
			os.Exit(1)
		}
		fmt.Printf("all %d scenarios passed\n", len(scenarios))
		return
	}

	sc, ok := lookupScenario(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown scenario: %s (try 'uthdemo list')\n", name)
		os.Exit(1)
	}
	if err := runScenario(sc); err != nil {
		os.Exit(1)
	}
}

func runScenario(sc scenario) error {
	fmt.Printf("=== %s: %s\n", sc.name, sc.summary)
	if err := sc.run(); err != nil {
		fmt.Fprintf(os.Stderr, "--- FAIL %s: %v\n", sc.name, err)
		return err
	}
	fmt.Printf("--- ok   %s\n", sc.name)
	return nil
}

// listCommand implements 'uthdemo list'.
func listCommand() {
	for _, sc := range scenarios {
		fmt.Printf("%-20s %s\n", sc.name, sc.summary)
	}
}
