package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	set "github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/icfuzz/icfuzz/pkg/icalc"
)

// Stepper applies one rewrite at a redex. The default is icalc.Apply; tests
// inject broken steppers to verify the oracle detects the resulting
// divergence.
type Stepper func(t icalc.Term, path icalc.Path, supply *icalc.Supply) (icalc.Term, icalc.Rule, error)

// Options configures an exploration.
type Options struct {
	// StepBound caps the rewrite count of any single branch. A branch that
	// hits the bound before normalizing is inconclusive, not a violation.
	StepBound int
	// Parallel is the maximum number of concurrent branch walkers. Values
	// below 2 explore sequentially.
	Parallel int
	// Stepper overrides the rewrite engine. Nil means icalc.Apply.
	Stepper Stepper
	// Supply provides fresh identifiers. Nil mints a supply seeded past the
	// largest identifier in the starting term.
	Supply *icalc.Supply
}

// Counterexample is a pair of reduction orders that disagree on the terminal
// term or on the step count.
type Counterexample struct {
	A, B Trace
}

// Stats counts the work done during one exploration.
type Stats struct {
	Configurations   uint64 // distinct configurations branched into
	Deduplicated     uint64 // configurations reached again via another order
	AppLam           uint64
	AppSup           uint64
	DupLam           uint64
	DupSupAnnihilate uint64
	DupSupCommute    uint64
	DupAppCommute    uint64
}

// TotalRewrites is the number of rule applications performed.
func (s Stats) TotalRewrites() uint64 {
	return s.AppLam + s.AppSup + s.DupLam + s.DupSupAnnihilate + s.DupSupCommute + s.DupAppCommute
}

// Result is the outcome of exploring every reduction order of one term.
type Result struct {
	// AllConfluent is false iff two explored orders disagreed on the
	// terminal term or step count.
	AllConfluent bool
	// Terminals holds the distinct terminal terms discovered (exactly one
	// when confluent).
	Terminals []icalc.Term
	// StepCounts holds the rewrite count per entry of Terminals.
	StepCounts []uint64
	// Traces holds one reduction sequence per entry of Terminals.
	Traces []Trace
	// Counterexample carries the two divergent traces when AllConfluent is
	// false. A violation is data to report, never a crash.
	Counterexample *Counterexample
	// Inconclusive reports that some branch hit the step bound before
	// normalizing.
	Inconclusive bool
	Stats        Stats
}

// errStop unwinds the walk once one counterexample is found; one suffices.
var errStop = errors.New("exploration stopped")

// Explore walks the full branching tree of redex choices from t, collecting
// every terminal configuration, and asserts that all of them agree on the
// terminal term (up to renaming) and on the step count. Configurations
// reached again through a different interleaving are deduplicated before
// branching further; this memoizes the search without changing which
// terminal terms are discovered.
func Explore(ctx context.Context, t icalc.Term, opts Options) (Result, error) {
	if err := icalc.Validate(t); err != nil {
		return Result{}, err
	}
	if opts.StepBound <= 0 {
		opts.StepBound = 1 << 12
	}
	e := &explorer{
		step:   opts.Stepper,
		supply: opts.Supply,
		bound:  opts.StepBound,
		seen:   set.New[string](64),
	}
	if e.step == nil {
		e.step = icalc.Apply
	}
	if e.supply == nil {
		e.supply = supplyAbove(t)
	}

	var err error
	if opts.Parallel > 1 {
		err = e.walkParallel(ctx, t, opts.Parallel)
	} else {
		err = e.walk(ctx, t, 0, nil)
	}
	if err != nil && !errors.Is(err, errStop) &&
		!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return Result{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return Result{
		AllConfluent: e.violation == nil,
		Terminals: lo.Map(e.terminals, func(tm terminal, _ int) icalc.Term {
			return tm.term
		}),
		StepCounts: lo.Map(e.terminals, func(tm terminal, _ int) uint64 {
			return uint64(tm.steps)
		}),
		Traces: lo.Map(e.terminals, func(tm terminal, _ int) Trace {
			return tm.trace
		}),
		Counterexample: e.violation,
		Inconclusive:   e.inconclusive,
		Stats:          e.stats,
	}, nil
}

type terminal struct {
	term   icalc.Term
	render string
	steps  int
	trace  Trace
}

type explorer struct {
	step   Stepper
	supply *icalc.Supply
	bound  int

	mu           sync.Mutex
	seen         *set.Set[string]
	terminals    []terminal
	violation    *Counterexample
	inconclusive bool
	stats        Stats
}

func (e *explorer) walk(ctx context.Context, t icalc.Term, steps int, tr Trace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.stopped() {
		return errStop
	}
	redexes := icalc.Scan(t)
	if len(redexes) == 0 {
		return e.recordTerminal(t, steps, tr)
	}
	if steps >= e.bound {
		e.mu.Lock()
		e.inconclusive = true
		e.mu.Unlock()
		return nil
	}
	for _, r := range redexes {
		next, rule, err := e.step(t, r.Path, e.supply)
		if err != nil {
			return fmt.Errorf("apply %s: %w", r.Rule, err)
		}
		if !e.claim(steps+1, next, rule) {
			continue
		}
		step := TraceStep{Rule: rule, Before: t, After: next}
		if err := e.walk(ctx, next, steps+1, append(slices.Clone(tr), step)); err != nil {
			return err
		}
	}
	return nil
}

// walkParallel fans the root's redex choices out over a bounded worker
// group; each branch then walks sequentially. Branches are pure functions of
// their configuration, so only the supply (atomic) and the explorer state
// (mutex) are shared.
func (e *explorer) walkParallel(ctx context.Context, t icalc.Term, workers int) error {
	redexes := icalc.Scan(t)
	if len(redexes) == 0 {
		return e.recordTerminal(t, 0, nil)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, r := range redexes {
		next, rule, err := e.step(t, r.Path, e.supply)
		if err != nil {
			return fmt.Errorf("apply %s: %w", r.Rule, err)
		}
		if !e.claim(1, next, rule) {
			continue
		}
		step := TraceStep{Rule: rule, Before: t, After: next}
		g.Go(func() error {
			return e.walk(gctx, next, 1, Trace{step})
		})
	}
	return g.Wait()
}

// claim registers a successor configuration, keyed by step count plus
// canonical rendering. Keying on the step count keeps the memoization from
// hiding a step-count divergence between interleavings.
func (e *explorer) claim(steps int, t icalc.Term, rule icalc.Rule) bool {
	key := fmt.Sprintf("%d|%s", steps, icalc.Render(t))
	e.mu.Lock()
	defer e.mu.Unlock()
	switch rule {
	case icalc.RuleAppLam:
		e.stats.AppLam++
	case icalc.RuleAppSup:
		e.stats.AppSup++
	case icalc.RuleDupLam:
		e.stats.DupLam++
	case icalc.RuleDupSupAnnihilate:
		e.stats.DupSupAnnihilate++
	case icalc.RuleDupSupCommute:
		e.stats.DupSupCommute++
	case icalc.RuleDupAppCommute:
		e.stats.DupAppCommute++
	}
	if !e.seen.Insert(key) {
		e.stats.Deduplicated++
		return false
	}
	e.stats.Configurations++
	return true
}

func (e *explorer) recordTerminal(t icalc.Term, steps int, tr Trace) error {
	render := icalc.Render(t)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.violation != nil {
		return errStop
	}
	for _, prev := range e.terminals {
		if prev.render == render && prev.steps == steps {
			return nil
		}
	}
	tm := terminal{term: t, render: render, steps: steps, trace: tr}
	if len(e.terminals) > 0 {
		first := e.terminals[0]
		e.terminals = append(e.terminals, tm)
		e.violation = &Counterexample{A: first.trace, B: tr}
		return errStop
	}
	e.terminals = append(e.terminals, tm)
	return nil
}

func (e *explorer) stopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.violation != nil
}

// supplyAbove returns a supply whose next identifier is past every id and
// label occurring in t, so rewrites never re-mint a live identifier.
func supplyAbove(t icalc.Term) *icalc.Supply {
	var high uint64
	bump := func(n uint64) {
		if n > high {
			high = n
		}
	}
	var walk func(icalc.Term)
	walk = func(t icalc.Term) {
		switch t := t.(type) {
		case icalc.Var:
			bump(uint64(t.ID))
		case icalc.Lam:
			bump(uint64(t.ID))
			walk(t.Body)
		case icalc.App:
			walk(t.Fun)
			walk(t.Arg)
		case icalc.Sup:
			bump(uint64(t.Label))
			walk(t.Left)
			walk(t.Right)
		case icalc.Dup:
			bump(uint64(t.Label))
			bump(uint64(t.ID0))
			bump(uint64(t.ID1))
			walk(t.Value)
			walk(t.Body)
		}
	}
	walk(t)
	return icalc.NewSupplyAt(high)
}
