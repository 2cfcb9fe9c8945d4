package icalc

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Step selects one child of a term constructor.
type Step uint8

const (
	StepLamBody Step = iota
	StepAppFun
	StepAppArg
	StepSupLeft
	StepSupRight
	StepDupValue
	StepDupBody
)

// Path identifies a sub-term position structurally, as the list of child
// steps from the root. Structural paths can be compared for disjointness,
// which mutable pointers cannot.
type Path []Step

// IsAncestorOf reports whether p is a prefix of q (p addresses q or one of
// its ancestors).
func (p Path) IsAncestorOf(q Path) bool {
	if len(p) > len(q) {
		return false
	}
	return slices.Equal(p, q[:len(p)])
}

// Disjoint reports whether neither position is an ancestor of the other.
// Disjoint redexes may be reduced in either order without interference.
func Disjoint(p, q Path) bool {
	return !p.IsAncestorOf(q) && !q.IsAncestorOf(p)
}

// Rule names an interaction rule.
type Rule int

const (
	RuleAppLam Rule = iota
	RuleAppSup
	RuleDupLam
	RuleDupSupAnnihilate
	RuleDupSupCommute
	RuleDupAppCommute
)

func (r Rule) String() string {
	switch r {
	case RuleAppLam:
		return "APP-LAM"
	case RuleAppSup:
		return "APP-SUP"
	case RuleDupLam:
		return "DUP-LAM"
	case RuleDupSupAnnihilate:
		return "DUP-SUP-ANNIHILATE"
	case RuleDupSupCommute:
		return "DUP-SUP-COMMUTE"
	case RuleDupAppCommute:
		return "DUP-APP-COMMUTE"
	default:
		return "UNKNOWN"
	}
}

// Redex is a reducible position together with the one rule whose pattern
// matches there.
type Redex struct {
	Path Path
	Rule Rule
}

// classify matches the head-constructor pair at t against the rule table.
// Patterns are mutually exclusive; at most one rule applies.
func classify(t Term) (Rule, bool) {
	switch t := t.(type) {
	case App:
		switch t.Fun.(type) {
		case Lam:
			return RuleAppLam, true
		case Sup:
			return RuleAppSup, true
		}
	case Dup:
		switch v := t.Value.(type) {
		case Lam:
			return RuleDupLam, true
		case Sup:
			if v.Label == t.Label {
				return RuleDupSupAnnihilate, true
			}
			return RuleDupSupCommute, true
		case App:
			return RuleDupAppCommute, true
		}
	}
	return 0, false
}

// Scan enumerates every redex in t in preorder, including redexes nested
// under Lam and Dup binders: this calculus reduces under binders. An empty
// result means t is in normal form.
func Scan(t Term) []Redex {
	var redexes []Redex
	var walk func(t Term, path Path)
	walk = func(t Term, path Path) {
		if rule, ok := classify(t); ok {
			redexes = append(redexes, Redex{Path: slices.Clone(path), Rule: rule})
		}
		switch t := t.(type) {
		case Lam:
			walk(t.Body, append(path, StepLamBody))
		case App:
			walk(t.Fun, append(path, StepAppFun))
			walk(t.Arg, append(path, StepAppArg))
		case Sup:
			walk(t.Left, append(path, StepSupLeft))
			walk(t.Right, append(path, StepSupRight))
		case Dup:
			walk(t.Value, append(path, StepDupValue))
			walk(t.Body, append(path, StepDupBody))
		}
	}
	walk(t, nil)
	return redexes
}

// At resolves a path to the sub-term it denotes.
func At(t Term, path Path) (Term, error) {
	for i, step := range path {
		switch cur := t.(type) {
		case Lam:
			if step == StepLamBody {
				t = cur.Body
				continue
			}
		case App:
			switch step {
			case StepAppFun:
				t = cur.Fun
				continue
			case StepAppArg:
				t = cur.Arg
				continue
			}
		case Sup:
			switch step {
			case StepSupLeft:
				t = cur.Left
				continue
			case StepSupRight:
				t = cur.Right
				continue
			}
		case Dup:
			switch step {
			case StepDupValue:
				t = cur.Value
				continue
			case StepDupBody:
				t = cur.Body
				continue
			}
		}
		return nil, fmt.Errorf("path step %d does not match term shape: %w", i, ErrInvalidRedex)
	}
	return t, nil
}

// ReplaceAt rebuilds t with the sub-term at path swapped for repl. Unaffected
// sub-terms are shared between input and output, which is safe because terms
// are never mutated.
func ReplaceAt(t Term, path Path, repl Term) Term {
	if len(path) == 0 {
		return repl
	}
	step, rest := path[0], path[1:]
	switch t := t.(type) {
	case Lam:
		return Lam{ID: t.ID, Body: ReplaceAt(t.Body, rest, repl)}
	case App:
		if step == StepAppFun {
			return App{Fun: ReplaceAt(t.Fun, rest, repl), Arg: t.Arg}
		}
		return App{Fun: t.Fun, Arg: ReplaceAt(t.Arg, rest, repl)}
	case Sup:
		if step == StepSupLeft {
			return Sup{Label: t.Label, Left: ReplaceAt(t.Left, rest, repl), Right: t.Right}
		}
		return Sup{Label: t.Label, Left: t.Left, Right: ReplaceAt(t.Right, rest, repl)}
	case Dup:
		if step == StepDupValue {
			return Dup{Label: t.Label, ID0: t.ID0, ID1: t.ID1, Value: ReplaceAt(t.Value, rest, repl), Body: t.Body}
		}
		return Dup{Label: t.Label, ID0: t.ID0, ID1: t.ID1, Value: t.Value, Body: ReplaceAt(t.Body, rest, repl)}
	default:
		panic(fmt.Sprintf("ReplaceAt: path into leaf %T", t))
	}
}
