package icalc

import "fmt"

// Validate checks the structural safety invariants of a term:
//
//   - every binder id is introduced exactly once,
//   - every bound occurrence has at most one use (affine variables),
//   - no identifier is both a binder id and a label.
//
// Occurrences of ids that are introduced nowhere in the term are free
// variables and are legal. Duplication rules route a binder's occurrence
// through a Dup value while its binder sits in the Dup body, so domination
// is a whole-term property here, not subtree nesting.
func Validate(t Term) error {
	intros := map[ID]int{}
	uses := map[ID]int{}
	labels := map[Label]struct{}{}

	var walk func(Term)
	walk = func(t Term) {
		switch t := t.(type) {
		case Var:
			uses[t.ID]++
		case Lam:
			intros[t.ID]++
			walk(t.Body)
		case App:
			walk(t.Fun)
			walk(t.Arg)
		case Sup:
			labels[t.Label] = struct{}{}
			walk(t.Left)
			walk(t.Right)
		case Dup:
			labels[t.Label] = struct{}{}
			intros[t.ID0]++
			intros[t.ID1]++
			walk(t.Value)
			walk(t.Body)
		}
	}
	walk(t)

	for id, n := range intros {
		if n > 1 {
			return fmt.Errorf("binder x%d introduced %d times: %w", id, n, ErrIllFormed)
		}
		if uses[id] > 1 {
			return fmt.Errorf("binder x%d used %d times: %w", id, uses[id], ErrIllFormed)
		}
		if _, clash := labels[Label(id)]; clash {
			return fmt.Errorf("identifier %d is both binder and label: %w", id, ErrIllFormed)
		}
	}
	return nil
}

// FreeIDs returns the ids that occur in t without being introduced by any
// Lam or Dup in t, in first-occurrence order.
func FreeIDs(t Term) []ID {
	intros := map[ID]struct{}{}
	var collect func(Term)
	collect = func(t Term) {
		switch t := t.(type) {
		case Lam:
			intros[t.ID] = struct{}{}
			collect(t.Body)
		case App:
			collect(t.Fun)
			collect(t.Arg)
		case Sup:
			collect(t.Left)
			collect(t.Right)
		case Dup:
			intros[t.ID0] = struct{}{}
			intros[t.ID1] = struct{}{}
			collect(t.Value)
			collect(t.Body)
		}
	}
	collect(t)

	seen := map[ID]struct{}{}
	var free []ID
	var walk func(Term)
	walk = func(t Term) {
		switch t := t.(type) {
		case Var:
			if _, bound := intros[t.ID]; bound {
				return
			}
			if _, dup := seen[t.ID]; dup {
				return
			}
			seen[t.ID] = struct{}{}
			free = append(free, t.ID)
		case Lam:
			walk(t.Body)
		case App:
			walk(t.Fun)
			walk(t.Arg)
		case Sup:
			walk(t.Left)
			walk(t.Right)
		case Dup:
			walk(t.Value)
			walk(t.Body)
		}
	}
	walk(t)
	return free
}
