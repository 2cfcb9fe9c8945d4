package icalc

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/slices"
)

// GenConfig tunes random term generation.
type GenConfig struct {
	// MaxSize bounds the number of constructors in the generated term.
	MaxSize int
	// FreeVars is the number of distinct free variables the generator may
	// reference (0 generates closed terms).
	FreeVars int

	// Constructor weights. A weight of 0 disables the constructor.
	VarWeight  int
	LamWeight  int
	AppWeight  int
	SupWeight  int
	DupWeight  int
	PairWeight int // a Dup whose value is a Sup sharing its label
}

// DefaultGenConfig returns weights that exercise every rule pattern.
func DefaultGenConfig(maxSize int) GenConfig {
	return GenConfig{
		MaxSize:    maxSize,
		FreeVars:   2,
		VarWeight:  3,
		LamWeight:  4,
		AppWeight:  5,
		SupWeight:  2,
		DupWeight:  2,
		PairWeight: 2,
	}
}

// Generate produces a random well-formed term of at most maxSize
// constructors. The same seed always generates the same term. Generated
// terms are linear: every binder is used exactly once, so reduction never
// erases or copies a redex and exploration step counts are comparable
// across orders.
func Generate(seed int64, maxSize int) (Term, error) {
	return GenerateWith(rand.New(rand.NewSource(seed)), DefaultGenConfig(maxSize), NewSupply())
}

// GenerateWith is Generate with an explicit random source, configuration,
// and identifier supply.
func GenerateWith(rng *rand.Rand, cfg GenConfig, supply *Supply) (Term, error) {
	g := &generator{rng: rng, cfg: cfg, supply: supply}
	for i := 0; i < cfg.FreeVars; i++ {
		g.free = append(g.free, supply.FreshID())
	}
	if cfg.MaxSize < g.needed(0) {
		return nil, fmt.Errorf("max size %d cannot fit a term: %w", cfg.MaxSize, ErrSizeExhausted)
	}
	return g.gen(cfg.MaxSize, nil)
}

type generator struct {
	rng    *rand.Rand
	cfg    GenConfig
	supply *Supply
	free   []ID
}

// needed is the minimum budget that can discharge k pending binder
// obligations: k Var leaves joined by k-1 applications, or one terminal
// leaf when nothing is pending.
func (g *generator) needed(k int) int {
	switch {
	case k > 0:
		return 2*k - 1
	case len(g.free) > 0:
		return 1
	default:
		return 2 // (λx x)
	}
}

type genKind int

const (
	genVar genKind = iota
	genLam
	genApp
	genSup
	genDup
	genPair
)

// gen builds a term within budget that uses each id in obl exactly once.
func (g *generator) gen(budget int, obl []ID) (Term, error) {
	if budget < g.needed(len(obl)) {
		return nil, fmt.Errorf("budget %d below %d pending binders: %w", budget, len(obl), ErrSizeExhausted)
	}

	type choice struct {
		kind   genKind
		weight int
	}
	var choices []choice
	add := func(kind genKind, weight int, feasible bool) {
		if weight > 0 && feasible {
			choices = append(choices, choice{kind, weight})
		}
	}
	k := len(obl)
	add(genVar, g.cfg.VarWeight, k == 1 || (k == 0 && len(g.free) > 0))
	add(genLam, g.cfg.LamWeight, budget-1 >= g.needed(k+1))
	add(genApp, g.cfg.AppWeight, budget-1 >= g.minPair(k))
	add(genSup, g.cfg.SupWeight, budget-1 >= g.minPair(k))
	add(genDup, g.cfg.DupWeight, budget-1 >= g.needed(0)+g.needed(k+2))
	add(genPair, g.cfg.PairWeight, budget-2 >= 2*g.needed(0)+g.needed(k+2))

	if len(choices) == 0 {
		// Budget admits only the forced terminal discharge.
		return g.terminal(budget, obl)
	}

	total := 0
	for _, c := range choices {
		total += c.weight
	}
	pick := g.rng.Intn(total)
	var kind genKind
	for _, c := range choices {
		if pick < c.weight {
			kind = c.kind
			break
		}
		pick -= c.weight
	}

	switch kind {
	case genVar:
		if k == 1 {
			return Var{ID: obl[0]}, nil
		}
		return Var{ID: g.free[g.rng.Intn(len(g.free))]}, nil

	case genLam:
		id := g.supply.FreshID()
		body, err := g.gen(budget-1, append(slices.Clone(obl), id))
		if err != nil {
			return nil, err
		}
		return Lam{ID: id, Body: body}, nil

	case genApp:
		left, right, err := g.pair(budget-1, obl)
		if err != nil {
			return nil, err
		}
		return App{Fun: left, Arg: right}, nil

	case genSup:
		left, right, err := g.pair(budget-1, obl)
		if err != nil {
			return nil, err
		}
		return Sup{Label: g.supply.FreshLabel(), Left: left, Right: right}, nil

	case genDup:
		label := g.supply.FreshLabel()
		id0 := g.supply.FreshID()
		id1 := g.supply.FreshID()
		spend := g.budgetFor(budget-1, 0, k+2)
		value, err := g.gen(spend, nil)
		if err != nil {
			return nil, err
		}
		body, err := g.gen(budget-1-spend, append(slices.Clone(obl), id0, id1))
		if err != nil {
			return nil, err
		}
		return Dup{Label: label, ID0: id0, ID1: id1, Value: value, Body: body}, nil

	case genPair:
		// One construction event mints one label shared by the Dup and the
		// Sup it will annihilate with.
		label := g.supply.FreshLabel()
		id0 := g.supply.FreshID()
		id1 := g.supply.FreshID()
		children := budget - 2 // the Dup and Sup constructors
		supBudget := children - g.budgetFor(children-g.needed(0), len(obl)+2, 0)
		spend := g.budgetFor(supBudget, 0, 0)
		left, err := g.gen(spend, nil)
		if err != nil {
			return nil, err
		}
		right, err := g.gen(supBudget-spend, nil)
		if err != nil {
			return nil, err
		}
		body, err := g.gen(children-supBudget, append(slices.Clone(obl), id0, id1))
		if err != nil {
			return nil, err
		}
		value := Sup{Label: label, Left: left, Right: right}
		return Dup{Label: label, ID0: id0, ID1: id1, Value: value, Body: body}, nil

	default:
		panic("unreachable")
	}
}

// minPair is the smallest budget two children can share while discharging k
// obligations between them.
func (g *generator) minPair(k int) int {
	best := g.needed(0) + g.needed(k)
	for i := 1; i <= k; i++ {
		if n := g.needed(i) + g.needed(k-i); n < best {
			best = n
		}
	}
	return best
}

// pair splits budget and obligations across two children.
func (g *generator) pair(budget int, obl []ID) (Term, Term, error) {
	obl = slices.Clone(obl)
	g.rng.Shuffle(len(obl), func(i, j int) { obl[i], obl[j] = obl[j], obl[i] })

	// Pick uniformly among the feasible obligation splits.
	var feasible []int
	for i := 0; i <= len(obl); i++ {
		if budget >= g.needed(i)+g.needed(len(obl)-i) {
			feasible = append(feasible, i)
		}
	}
	split := feasible[g.rng.Intn(len(feasible))]
	lobl, robl := obl[:split], obl[split:]

	spend := g.budgetFor(budget, len(lobl), len(robl))
	left, err := g.gen(spend, lobl)
	if err != nil {
		return nil, nil, err
	}
	right, err := g.gen(budget-spend, robl)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// budgetFor allots the first child of a two-child split a random budget that
// leaves the second child at least its minimum.
func (g *generator) budgetFor(budget, kFirst, kSecond int) int {
	lo := g.needed(kFirst)
	hi := budget - g.needed(kSecond)
	if hi < lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}

// terminal discharges pending obligations with the smallest possible term.
func (g *generator) terminal(budget int, obl []ID) (Term, error) {
	switch k := len(obl); {
	case k == 0 && len(g.free) > 0:
		return Var{ID: g.free[g.rng.Intn(len(g.free))]}, nil
	case k == 0:
		id := g.supply.FreshID()
		return Lam{ID: id, Body: Var{ID: id}}, nil
	case k == 1:
		return Var{ID: obl[0]}, nil
	default:
		// (x0 x1 ... xn) as a left spine of applications.
		var t Term = Var{ID: obl[0]}
		for _, id := range obl[1:] {
			t = App{Fun: t, Arg: Var{ID: id}}
		}
		return t, nil
	}
}
