package icalc

// Canonical returns t with binder ids and labels consistently renumbered by
// order of first appearance in a preorder walk. Two terms produced along
// different reduction orders mint fresh identifiers in different sequences
// yet denote the same result; comparing canonical forms structurally is the
// only equality any component may use when judging confluence.
func Canonical(t Term) Term {
	c := &canonizer{ids: map[ID]ID{}, labels: map[Label]Label{}}
	return c.walk(t)
}

type canonizer struct {
	ids       map[ID]ID
	labels    map[Label]Label
	nextID    ID
	nextLabel Label
}

func (c *canonizer) id(id ID) ID {
	if r, ok := c.ids[id]; ok {
		return r
	}
	r := c.nextID
	c.nextID++
	c.ids[id] = r
	return r
}

func (c *canonizer) label(l Label) Label {
	if r, ok := c.labels[l]; ok {
		return r
	}
	r := c.nextLabel
	c.nextLabel++
	c.labels[l] = r
	return r
}

func (c *canonizer) walk(t Term) Term {
	switch t := t.(type) {
	case Var:
		return Var{ID: c.id(t.ID)}
	case Lam:
		id := c.id(t.ID)
		return Lam{ID: id, Body: c.walk(t.Body)}
	case App:
		return App{Fun: c.walk(t.Fun), Arg: c.walk(t.Arg)}
	case Sup:
		return Sup{Label: c.label(t.Label), Left: c.walk(t.Left), Right: c.walk(t.Right)}
	case Dup:
		l := c.label(t.Label)
		id0 := c.id(t.ID0)
		id1 := c.id(t.ID1)
		value := c.walk(t.Value)
		return Dup{Label: l, ID0: id0, ID1: id1, Value: value, Body: c.walk(t.Body)}
	default:
		return t
	}
}

// Eq reports whether a and b are structurally equal up to a consistent
// renaming of binder ids and labels.
func Eq(a, b Term) bool {
	return structEq(Canonical(a), Canonical(b))
}

func structEq(a, b Term) bool {
	switch a := a.(type) {
	case Var:
		b, ok := b.(Var)
		return ok && a.ID == b.ID
	case Lam:
		b, ok := b.(Lam)
		return ok && a.ID == b.ID && structEq(a.Body, b.Body)
	case App:
		b, ok := b.(App)
		return ok && structEq(a.Fun, b.Fun) && structEq(a.Arg, b.Arg)
	case Sup:
		b, ok := b.(Sup)
		return ok && a.Label == b.Label && structEq(a.Left, b.Left) && structEq(a.Right, b.Right)
	case Dup:
		b, ok := b.(Dup)
		return ok && a.Label == b.Label && a.ID0 == b.ID0 && a.ID1 == b.ID1 &&
			structEq(a.Value, b.Value) && structEq(a.Body, b.Body)
	default:
		return false
	}
}
