package main

import "testing"

// TestLookupScenario checks registry lookups by name.
func TestLookupScenario(t *testing.T) {
	for _, sc := range scenarios {
		got, ok := lookupScenario(sc.name)
		if !ok {
			t.Errorf("lookupScenario(%q) not found", sc.name)
			continue
		}
		if got.name != sc.name {
			t.Errorf("lookupScenario(%q).name = %q", sc.name, got.name)
		}
	}
	if _, ok := lookupScenario("no-such-scenario"); ok {
		t.Errorf("lookupScenario found a scenario that does not exist")
	}
}

// TestScenariosPass runs every registered scenario; each one validates its
// own invariants and returns the first violation.
func TestScenariosPass(t *testing.T) {
	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.name, func(t *testing.T) {
			if err := sc.run(); err != nil {
				t.Errorf("scenario %s: %v", sc.name, err)
			}
		})
	}
}
