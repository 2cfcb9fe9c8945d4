// Package icalc implements an interaction calculus: a lambda calculus
// extended with labeled superposition and duplication constructs, together
// with the redex scanner and rewrite engine over it.
package icalc

import (
	"fmt"
	"sync/atomic"
)

// ID identifies a binder introduction site. Occurrences reference their
// binder by ID, never by name, so capture cannot happen.
type ID uint64

// Label tags a duplication with the superposition it is meant to interact
// with. A label is minted once, by the Dup/Sup construction event.
type Label uint64

// Term is a term of the calculus. Terms are immutable values; a rewrite
// consumes one term and produces a new one.
type Term interface {
	fmt.Stringer
	isTerm()
}

// Var is an occurrence of a binder.
type Var struct {
	ID ID
}

// Lam is a lambda abstraction introducing one binder.
// A binder has at most one occurrence in its body (affine use);
// sharing is made explicit through Dup/Sup.
type Lam struct {
	ID   ID
	Body Term
}

// App is an application.
type App struct {
	Fun Term
	Arg Term
}

// Sup is a superposition of two alternative sub-terms.
type Sup struct {
	Label Label
	Left  Term
	Right Term
}

// Dup introduces two binders that each observe one projection of Value
// within Body. The label pairs it with a matching Sup.
type Dup struct {
	Label    Label
	ID0, ID1 ID
	Value    Term
	Body     Term
}

func (Var) isTerm() {}
func (Lam) isTerm() {}
func (App) isTerm() {}
func (Sup) isTerm() {}
func (Dup) isTerm() {}

// String renders the term with raw identifiers, for debugging. Use Render
// for the canonical, identifier-independent notation.
func (t Var) String() string { return fmt.Sprintf("x%d", t.ID) }

func (t Lam) String() string { return fmt.Sprintf("(λx%d %s)", t.ID, t.Body) }

func (t App) String() string { return fmt.Sprintf("(%s %s)", t.Fun, t.Arg) }

func (t Sup) String() string { return fmt.Sprintf("#%d{%s %s}", t.Label, t.Left, t.Right) }

func (t Dup) String() string {
	return fmt.Sprintf("(dup #%d{x%d x%d} = %s; %s)", t.Label, t.ID0, t.ID1, t.Value, t.Body)
}

// Supply mints fresh binder ids and labels from a single monotonically
// increasing counter. Allocation is atomic so parallel exploration branches
// never mint the same identifier. A fresh Supply is used per test case so
// unrelated terms never share identifiers.
type Supply struct {
	next uint64
}

// NewSupply returns a supply starting at zero.
func NewSupply() *Supply { return &Supply{} }

// NewSupplyAt returns a supply whose first minted identifier is next+1.
func NewSupplyAt(next uint64) *Supply { return &Supply{next: next} }

// FreshID mints a binder id.
func (s *Supply) FreshID() ID { return ID(atomic.AddUint64(&s.next, 1)) }

// FreshLabel mints a sharing label.
func (s *Supply) FreshLabel() Label { return Label(atomic.AddUint64(&s.next, 1)) }

// Used reports how many identifiers have been minted so far.
func (s *Supply) Used() uint64 { return atomic.LoadUint64(&s.next) }

// Size counts the constructors of t.
func Size(t Term) int {
	switch t := t.(type) {
	case Var:
		return 1
	case Lam:
		return 1 + Size(t.Body)
	case App:
		return 1 + Size(t.Fun) + Size(t.Arg)
	case Sup:
		return 1 + Size(t.Left) + Size(t.Right)
	case Dup:
		return 1 + Size(t.Value) + Size(t.Body)
	default:
		panic(fmt.Sprintf("unknown term %T", t))
	}
}
