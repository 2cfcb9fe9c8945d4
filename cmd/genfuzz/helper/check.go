package genfuzz

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/icfuzz/icfuzz/pkg/icalc"
	"github.com/icfuzz/icfuzz/pkg/oracle"
)

// CheckConfluence parses a term, explores every reduction order, and checks
// that all orders agree on a single normal form equal to the expected term.
// Terms are compared up to renaming, so free variables in the expected
// output line up with the actual output by order of first appearance, not by
// name.
func CheckConfluence(t *testing.T, name, inputStr, expectStr string) {
	t.Helper()

	supply := icalc.NewSupply()
	term, err := icalc.Parse(strings.TrimSpace(inputStr), supply)
	if err != nil {
		t.Fatalf("%s: parse input: %v", name, err)
	}
	expected, err := icalc.Parse(strings.TrimSpace(expectStr), icalc.NewSupply())
	if err != nil {
		t.Fatalf("%s: parse expected output: %v", name, err)
	}

	start := time.Now()
	res, err := oracle.Explore(context.Background(), term, oracle.Options{Supply: supply})
	if err != nil {
		t.Fatalf("%s: explore: %v", name, err)
	}
	elapsed := time.Since(start)

	if res.Inconclusive {
		t.Fatalf("%s: hit the step bound before normalizing", name)
	}
	if !res.AllConfluent {
		t.Fatalf("%s: confluence violation:\norder A:\n%sorder B:\n%s",
			name, res.Counterexample.A.Render(), res.Counterexample.B.Render())
	}
	if len(res.Terminals) != 1 {
		t.Fatalf("%s: %d terminals, want one", name, len(res.Terminals))
	}
	if !icalc.Eq(res.Terminals[0], expected) {
		t.Errorf("Mismatch in %s:\nInput:    %s\nExpected: %s\nActual:   %s",
			name, icalc.Render(term), icalc.Render(expected), icalc.Render(res.Terminals[0]))
	}

	t.Logf("%s: normal form in %d steps, %d rewrites over %d configurations in %v",
		name, res.StepCounts[0], res.Stats.TotalRewrites(), res.Stats.Configurations, elapsed)
}
