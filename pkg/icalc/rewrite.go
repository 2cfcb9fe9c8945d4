package icalc

import "fmt"

// binding is a pending substitution: write repl into the single occurrence
// of id, wherever in the whole term it is. Duplication rules route a
// binder's occurrence through a Dup value while the binder sits in the Dup
// body, so occurrences are not confined to the redex sub-tree and bindings
// must be applied at whole-term scope.
type binding struct {
	id   ID
	repl Term
}

// Apply fires the single interaction rule matching the redex at path and
// returns the rewritten term together with the rule that fired. Fresh binder
// ids and labels are drawn from the supply. The input term is not mutated.
//
// Apply returns ErrInvalidRedex when the path no longer denotes a matching
// pattern: positions go stale after a rewrite elsewhere, so callers re-scan
// before every application.
func Apply(t Term, path Path, supply *Supply) (Term, Rule, error) {
	sub, err := At(t, path)
	if err != nil {
		return nil, 0, err
	}
	rule, ok := classify(sub)
	if !ok {
		return nil, 0, fmt.Errorf("no interaction at %v: %w", path, ErrInvalidRedex)
	}
	local, binds := fire(sub, rule, supply)
	out := ReplaceAt(t, path, local)
	for _, b := range binds {
		out = subst(out, b.id, b.repl)
	}
	return out, rule, nil
}

// fire rewrites a single redex into a local skeleton plus the substitutions
// to perform on the whole term. Commutation rules mint one fresh label per
// duplicated branch and never reuse a live label.
func fire(t Term, rule Rule, s *Supply) (Term, []binding) {
	switch rule {
	case RuleAppLam:
		// ((λx body) arg)  ~>  body, x := arg
		// An unused binder drops the argument.
		app := t.(App)
		lam := app.Fun.(Lam)
		return lam.Body, []binding{{lam.ID, app.Arg}}

	case RuleAppSup:
		// (#l{a b} u)  ~>  dup #l'{u0 u1} = u; #l{(a u0) (b u1)}
		app := t.(App)
		sup := app.Fun.(Sup)
		fresh := s.FreshLabel()
		u0 := s.FreshID()
		u1 := s.FreshID()
		return Dup{
			Label: fresh, ID0: u0, ID1: u1, Value: app.Arg,
			Body: Sup{
				Label: sup.Label,
				Left:  App{Fun: sup.Left, Arg: Var{ID: u0}},
				Right: App{Fun: sup.Right, Arg: Var{ID: u1}},
			},
		}, nil

	case RuleDupLam:
		// dup #l{x0 x1} = (λy body); rest
		// ~>  dup #l'{b0 b1} = body; rest,
		//     y := #l'{y0 y1}, x0 := (λy0 b0), x1 := (λy1 b1)
		dup := t.(Dup)
		lam := dup.Value.(Lam)
		fresh := s.FreshLabel()
		y0 := s.FreshID()
		y1 := s.FreshID()
		b0 := s.FreshID()
		b1 := s.FreshID()
		local := Dup{Label: fresh, ID0: b0, ID1: b1, Value: lam.Body, Body: dup.Body}
		return local, []binding{
			{lam.ID, Sup{Label: fresh, Left: Var{ID: y0}, Right: Var{ID: y1}}},
			{dup.ID0, Lam{ID: y0, Body: Var{ID: b0}}},
			{dup.ID1, Lam{ID: y1, Body: Var{ID: b1}}},
		}

	case RuleDupSupAnnihilate:
		// dup #l{x0 x1} = #l{a b}; rest  ~>  rest, x0 := a, x1 := b
		dup := t.(Dup)
		sup := dup.Value.(Sup)
		return dup.Body, []binding{{dup.ID0, sup.Left}, {dup.ID1, sup.Right}}

	case RuleDupSupCommute:
		// dup #l{x0 x1} = #l2{a b}; rest
		// ~>  dup #la{a0 a1} = a; dup #lb{b0 b1} = b; rest,
		//     x0 := #l2{a0 b0}, x1 := #l2{a1 b1}
		dup := t.(Dup)
		sup := dup.Value.(Sup)
		la := s.FreshLabel()
		lb := s.FreshLabel()
		a0 := s.FreshID()
		a1 := s.FreshID()
		b0 := s.FreshID()
		b1 := s.FreshID()
		local := Dup{
			Label: la, ID0: a0, ID1: a1, Value: sup.Left,
			Body: Dup{Label: lb, ID0: b0, ID1: b1, Value: sup.Right, Body: dup.Body},
		}
		return local, []binding{
			{dup.ID0, Sup{Label: sup.Label, Left: Var{ID: a0}, Right: Var{ID: b0}}},
			{dup.ID1, Sup{Label: sup.Label, Left: Var{ID: a1}, Right: Var{ID: b1}}},
		}

	case RuleDupAppCommute:
		// dup #l{x0 x1} = (f a); rest
		// ~>  dup #lf{f0 f1} = f; dup #la{a0 a1} = a; rest,
		//     x0 := (f0 a0), x1 := (f1 a1)
		dup := t.(Dup)
		app := dup.Value.(App)
		lf := s.FreshLabel()
		la := s.FreshLabel()
		f0 := s.FreshID()
		f1 := s.FreshID()
		a0 := s.FreshID()
		a1 := s.FreshID()
		local := Dup{
			Label: lf, ID0: f0, ID1: f1, Value: app.Fun,
			Body: Dup{Label: la, ID0: a0, ID1: a1, Value: app.Arg, Body: dup.Body},
		}
		return local, []binding{
			{dup.ID0, App{Fun: Var{ID: f0}, Arg: Var{ID: a0}}},
			{dup.ID1, App{Fun: Var{ID: f1}, Arg: Var{ID: a1}}},
		}

	default:
		panic(fmt.Sprintf("fire: unknown rule %v", rule))
	}
}

// subst replaces every occurrence of id in t with repl. Binders are affine,
// so at most one occurrence exists and repl is never duplicated. Identifiers
// are globally unique, so no capture check is needed.
func subst(t Term, id ID, repl Term) Term {
	switch t := t.(type) {
	case Var:
		if t.ID == id {
			return repl
		}
		return t
	case Lam:
		return Lam{ID: t.ID, Body: subst(t.Body, id, repl)}
	case App:
		return App{Fun: subst(t.Fun, id, repl), Arg: subst(t.Arg, id, repl)}
	case Sup:
		return Sup{Label: t.Label, Left: subst(t.Left, id, repl), Right: subst(t.Right, id, repl)}
	case Dup:
		return Dup{
			Label: t.Label, ID0: t.ID0, ID1: t.ID1,
			Value: subst(t.Value, id, repl),
			Body:  subst(t.Body, id, repl),
		}
	default:
		return t
	}
}
