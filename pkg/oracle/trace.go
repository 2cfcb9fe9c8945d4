// Package oracle explores every reduction order of an interaction-calculus
// term and cross-checks that all orders agree on the normal form and on the
// number of rewrite steps taken to reach it.
package oracle

import (
	"fmt"
	"strings"

	"github.com/icfuzz/icfuzz/pkg/icalc"
)

// TraceStep records one rewrite: the rule fired and the whole-term snapshots
// around it.
type TraceStep struct {
	Rule   icalc.Rule
	Before icalc.Term
	After  icalc.Term
}

// Trace is one branch's reduction sequence from the starting term.
type Trace []TraceStep

// Render serializes the trace as one line per step,
//
//	<rule-name>: <term-before> -> <term-after>
//
// using the canonical printer, so traces of equal reductions render
// identically regardless of internal identifiers.
func (tr Trace) Render() string {
	var sb strings.Builder
	for _, step := range tr {
		fmt.Fprintf(&sb, "%s: %s -> %s\n", step.Rule, icalc.Render(step.Before), icalc.Render(step.After))
	}
	return sb.String()
}
