package icalc

import "testing"

// TestEqUpToRenaming checks that equality sees through the identifier
// sequences left behind by different construction histories.
func TestEqUpToRenaming(t *testing.T) {
	a := Lam{ID: 10, Body: Var{ID: 10}}
	b := Lam{ID: 3000, Body: Var{ID: 3000}}
	if !Eq(a, b) {
		t.Errorf("identity terms with different ids not equal: %s vs %s", a, b)
	}

	da := Dup{
		Label: 5, ID0: 6, ID1: 7,
		Value: Sup{Label: 5, Left: Var{ID: 1}, Right: Var{ID: 2}},
		Body:  App{Fun: Var{ID: 6}, Arg: Var{ID: 7}},
	}
	db := Dup{
		Label: 50, ID0: 60, ID1: 70,
		Value: Sup{Label: 50, Left: Var{ID: 10}, Right: Var{ID: 20}},
		Body:  App{Fun: Var{ID: 60}, Arg: Var{ID: 70}},
	}
	if !Eq(da, db) {
		t.Errorf("renamed duplications not equal: %s vs %s", da, db)
	}
}

// TestEqDistinguishesLabelStructure checks that equality is sensitive to
// label sharing, not just to term shape: a Dup matching its Sup is a
// different term from a Dup that will commute past it.
func TestEqDistinguishesLabelStructure(t *testing.T) {
	matched := Dup{
		Label: 1, ID0: 2, ID1: 3,
		Value: Sup{Label: 1, Left: Var{ID: 8}, Right: Var{ID: 9}},
		Body:  App{Fun: Var{ID: 2}, Arg: Var{ID: 3}},
	}
	mismatched := Dup{
		Label: 1, ID0: 2, ID1: 3,
		Value: Sup{Label: 4, Left: Var{ID: 8}, Right: Var{ID: 9}},
		Body:  App{Fun: Var{ID: 2}, Arg: Var{ID: 3}},
	}
	if Eq(matched, mismatched) {
		t.Errorf("matched and mismatched labels compared equal: %s vs %s", matched, mismatched)
	}
}

func TestEqDistinguishesBinderUse(t *testing.T) {
	// (λx (x y)) vs (λx (y x)) with y free.
	a := Lam{ID: 1, Body: App{Fun: Var{ID: 1}, Arg: Var{ID: 2}}}
	b := Lam{ID: 1, Body: App{Fun: Var{ID: 2}, Arg: Var{ID: 1}}}
	if Eq(a, b) {
		t.Errorf("%s and %s compared equal", a, b)
	}
}

// TestCanonicalIdempotent checks that canonicalizing twice is the same as
// canonicalizing once.
func TestCanonicalIdempotent(t *testing.T) {
	term, err := Parse("(dup #0{a b} = #1{(λx x) v}; (a b))", NewSupply())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	once := Canonical(term)
	twice := Canonical(once)
	if !structEq(once, twice) {
		t.Errorf("canonical form not a fixed point: %s vs %s", once, twice)
	}
}

// TestCanonicalAgreesWithRender checks that the two identifier-independent
// views agree: terms render identically exactly when they are Eq.
func TestCanonicalAgreesWithRender(t *testing.T) {
	inputs := []string{
		"(λx x)",
		"(λx (λy x))",
		"(dup #0{a b} = #0{u v}; (a b))",
		"(dup #0{a b} = #1{u v}; (a b))",
		"#0{(f a) g}",
	}
	terms := make([]Term, len(inputs))
	for i, input := range inputs {
		term, err := Parse(input, NewSupply())
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		terms[i] = term
	}
	for i, a := range terms {
		for j, b := range terms {
			eq := Eq(a, b)
			sameRender := Render(a) == Render(b)
			if eq != sameRender {
				t.Errorf("Eq(%q, %q) = %v but render equality = %v", inputs[i], inputs[j], eq, sameRender)
			}
			if (i == j) != eq {
				t.Errorf("Eq(%q, %q) = %v, want %v", inputs[i], inputs[j], eq, i == j)
			}
		}
	}
}
