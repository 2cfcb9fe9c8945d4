package icalc

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"
)

// TestScanFindsEachRule checks that the scanner reports the one rule whose
// pattern matches at each reducible position.
func TestScanFindsEachRule(t *testing.T) {
	cases := []struct {
		input string
		rule  Rule
	}{
		{"((λx x) u)", RuleAppLam},
		{"(#0{f g} u)", RuleAppSup},
		{"(dup #0{a b} = (λx x); (a b))", RuleDupLam},
		{"(dup #0{a b} = #0{u v}; (a b))", RuleDupSupAnnihilate},
		{"(dup #0{a b} = #1{u v}; (a b))", RuleDupSupCommute},
		{"(dup #0{a b} = (u v); (a b))", RuleDupAppCommute},
	}
	for _, tc := range cases {
		term, err := Parse(tc.input, NewSupply())
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.input, err)
		}
		redexes := Scan(term)
		if len(redexes) != 1 {
			t.Fatalf("Scan(%q) = %v, want one redex", tc.input, redexes)
		}
		if redexes[0].Rule != tc.rule {
			t.Errorf("Scan(%q) matched %s, want %s", tc.input, redexes[0].Rule, tc.rule)
		}
		if len(redexes[0].Path) != 0 {
			t.Errorf("Scan(%q) placed the redex at %v, want root", tc.input, redexes[0].Path)
		}
	}
}

// TestScanNormalForms checks that stuck configurations report no redexes:
// variables, plain lambdas, applications of free heads, and duplications
// stuck on a variable value.
func TestScanNormalForms(t *testing.T) {
	inputs := []string{
		"a",
		"(λx x)",
		"(f a)",
		"((f a) b)",
		"#0{a b}",
		"(dup #0{a b} = v; (a b))",
		"(λx (f x))",
	}
	for _, input := range inputs {
		term, err := Parse(input, NewSupply())
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if redexes := Scan(term); len(redexes) != 0 {
			t.Errorf("Scan(%q) = %v, want normal form", input, redexes)
		}
	}
}

// TestScanUnderBinders checks that redexes inside lambda bodies and
// duplication bodies are found: reduction goes under binders.
func TestScanUnderBinders(t *testing.T) {
	term, err := Parse("(λx ((λy y) x))", NewSupply())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	redexes := Scan(term)
	if len(redexes) != 1 || redexes[0].Rule != RuleAppLam {
		t.Fatalf("Scan under lambda = %v, want one APP-LAM", redexes)
	}
	if !slices.Equal(redexes[0].Path, Path{StepLamBody}) {
		t.Errorf("redex path %v, want %v", redexes[0].Path, Path{StepLamBody})
	}

	term, err = Parse("(dup #0{a b} = v; ((λy y) (a b)))", NewSupply())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	redexes = Scan(term)
	if len(redexes) != 1 || !slices.Equal(redexes[0].Path, Path{StepDupBody}) {
		t.Errorf("Scan under dup body = %v, want one redex at %v", redexes, Path{StepDupBody})
	}
}

// TestScanPreorder checks that multiple redexes come back in preorder, outer
// positions before inner ones.
func TestScanPreorder(t *testing.T) {
	term, err := Parse("((λx x) ((λy y) u))", NewSupply())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	redexes := Scan(term)
	if len(redexes) != 2 {
		t.Fatalf("Scan = %v, want two redexes", redexes)
	}
	if len(redexes[0].Path) != 0 {
		t.Errorf("first redex at %v, want root", redexes[0].Path)
	}
	if !slices.Equal(redexes[1].Path, Path{StepAppArg}) {
		t.Errorf("second redex at %v, want %v", redexes[1].Path, Path{StepAppArg})
	}
}

func TestPathRelations(t *testing.T) {
	root := Path{}
	fun := Path{StepAppFun}
	arg := Path{StepAppArg}
	deep := Path{StepAppFun, StepLamBody}

	if !root.IsAncestorOf(fun) || !root.IsAncestorOf(root) {
		t.Errorf("root must be an ancestor of every path including itself")
	}
	if !fun.IsAncestorOf(deep) {
		t.Errorf("%v should be an ancestor of %v", fun, deep)
	}
	if fun.IsAncestorOf(arg) {
		t.Errorf("%v should not be an ancestor of %v", fun, arg)
	}
	if !Disjoint(fun, arg) {
		t.Errorf("%v and %v should be disjoint", fun, arg)
	}
	if Disjoint(fun, deep) || Disjoint(root, arg) {
		t.Errorf("nested paths reported disjoint")
	}
}

func TestAtAndReplaceAt(t *testing.T) {
	supply := NewSupply()
	term, err := Parse("((λx x) (f a))", supply)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	sub, err := At(term, Path{StepAppFun, StepLamBody})
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if _, ok := sub.(Var); !ok {
		t.Errorf("At resolved %T, want Var", sub)
	}

	if _, err := At(term, Path{StepAppFun, StepLamBody, StepAppFun}); !errors.Is(err, ErrInvalidRedex) {
		t.Errorf("At through a leaf returned %v, want ErrInvalidRedex", err)
	}
	if _, err := At(term, Path{StepDupValue}); !errors.Is(err, ErrInvalidRedex) {
		t.Errorf("At with mismatched step returned %v, want ErrInvalidRedex", err)
	}

	swapped := ReplaceAt(term, Path{StepAppArg}, Var{ID: supply.FreshID()})
	if got := Render(swapped); got != "((λa a) b)" {
		t.Errorf("ReplaceAt rendered %q, want %q", got, "((λa a) b)")
	}
	// The original is untouched.
	if got := Render(term); got != "((λa a) (b c))" {
		t.Errorf("ReplaceAt mutated its input: %q", got)
	}
}
