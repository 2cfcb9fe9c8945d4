package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/icfuzz/icfuzz/pkg/icalc"
)

type TestCase struct {
	Name   string
	Input  string
	Expect string
}

const testTemplate = `
package gencases
import _ "embed"
import "testing"
import genfuzz "github.com/icfuzz/icfuzz/cmd/genfuzz/helper"
//go:embed input.ic
var input string
//go:embed expect.ic
var expect string
func Test_%s_Confluence(t *testing.T) {
	genfuzz.CheckConfluence(t, "%s", input, expect)
}
`

func main() {
	tests := []TestCase{
		// Normal forms
		{"001_free_var", "a", "a"},
		{"002_id", "(λx x)", "(λx x)"},

		// Beta reduction
		{"003_id_id", "((λx x) (λy y))", "(λy y)"},
		{"004_id_free", "((λx x) u)", "u"},
		{"005_nested_beta", "((λx x) ((λy y) u))", "u"},
		{"006_discard_arg", "((λx u) v)", "u"},
		{"007_under_lambda", "(λx ((λy y) x))", "(λx x)"},

		// Let bindings
		{"010_let_id", "let i = (λx x); (i a)", "a"},

		// Matched labels annihilate
		{"020_annihilate", "(dup #0{a b} = #0{u v}; (a b))", "(u v)"},
		{"021_annihilate_swap", "(dup #0{a b} = #0{u v}; (b a))", "(v u)"},

		// Mismatched labels commute and stick on free values
		{"022_commute_stuck", "(dup #0{a b} = #1{u v}; a)",
			"(dup #0{a b} = c; (dup #1{d e} = f; #2{a d}))"},

		// Sharing
		{"030_shared_id", "(dup #0{f g} = (λx x); (f g))", "(λx x)"},
		{"031_shared_redex", "(dup #0{a b} = #0{(λx x) u}; (a b))", "u"},

		// Superposition plumbing
		{"040_sup_result", "#0{((λx x) u) v}", "#0{u v}"},
		{"041_call_sup", "(#0{f g} u)", "(dup #0{p q} = r; #1{(f p) (g q)})"},
		{"042_commute_cascade", "(dup #0{a b} = #1{u v}; (a b))",
			"(dup #0{a b} = c; (dup #1{d e} = f; (dup #2{g h} = b; (dup #3{i j} = e; #4{(a #4{g i}) (d #4{h j})}))))"},
	}

	baseDir := "cmd/genfuzz/cases"
	os.MkdirAll(baseDir, 0755)

	for _, tc := range tests {
		dir := filepath.Join(baseDir, tc.Name)
		os.MkdirAll(dir, 0755)

		// Normalize both sides through the canonical printer so the files
		// on disk are renaming-independent.
		inTerm, err := icalc.Parse(tc.Input, icalc.NewSupply())
		if err != nil {
			fmt.Printf("Error parsing input for %s: %v\n", tc.Name, err)
			continue
		}
		outTerm, err := icalc.Parse(tc.Expect, icalc.NewSupply())
		if err != nil {
			fmt.Printf("Error parsing expected output for %s: %v\n", tc.Name, err)
			continue
		}

		testGo := fmt.Sprintf(testTemplate, tc.Name, tc.Name)

		os.WriteFile(filepath.Join(dir, "input.ic"), []byte(icalc.Render(inTerm)), 0644)
		os.WriteFile(filepath.Join(dir, "expect.ic"), []byte(icalc.Render(outTerm)), 0644)
		os.WriteFile(filepath.Join(dir, "confluence_test.go"), []byte(testGo), 0644)
	}

	fmt.Printf("Generated %d tests\n", len(tests))
}
