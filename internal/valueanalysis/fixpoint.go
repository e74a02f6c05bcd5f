package valueanalysis

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/domains"
	"github.com/labs-lang/sliver/internal/eval"
	"github.com/labs-lang/sliver/internal/info"
)

// DefaultMaxIterations bounds the Stripes chaos fixpoint (spec.md §4.3).
// Callers analyzing the coarser Sign domain typically pass a smaller bound.
const DefaultMaxIterations = 20

// Result is the value analyzer's output (spec.md §4.3, "Output").
type Result[T domains.Domain[T]] struct {
	Merged     eval.State[T]
	Fixpoint   bool
	Depends    *DependencyGraph
	WontChange map[string]bool
}

// Analyze runs the parallel chaos fixpoint: starting from initial, applies
// every site to every frontier state in parallel, folding newly discovered
// states into the worklist, until the frontier stops growing or
// maxIterations is reached. It returns the join_adjacent-normalized merge of
// every visited state, whether a true fixpoint was reached, the dependency
// graph, and the won't-change certificate.
func Analyze[T domains.Domain[T]](ctx context.Context, sites []Site, initial eval.State[T], externs map[string]T, inf info.Info, f domains.Factory[T], maxIterations int) (Result[T], error) {
	depGraph, err := BuildDependencyGraph(sites)
	if err != nil {
		return Result[T]{}, err
	}

	visited := map[string]eval.State[T]{stateKey(initial): initial}
	frontier := []eval.State[T]{cloneState(initial)}
	fixpoint := false

	for iter := 0; iter < maxIterations; iter++ {
		results, err := stepFrontier[T](ctx, sites, frontier, externs, inf, f)
		if err != nil {
			// Failure model (spec.md §4.3): never fatal, report what was
			// accumulated with fixpoint=false.
			merged := mergeAll(visited)
			return Result[T]{
				Merged:     merged,
				Fixpoint:   false,
				Depends:    depGraph,
				WontChange: certify[T](sites, depGraph, merged, false, externs, inf, f),
			}, nil
		}

		var next []eval.State[T]
		for _, s := range results {
			k := stateKey(s)
			if _, ok := visited[k]; !ok {
				visited[k] = s
				next = append(next, s)
			}
		}
		if len(next) == 0 {
			fixpoint = true
			break
		}
		frontier = next
	}

	merged := mergeAll(visited)
	return Result[T]{
		Merged:     merged,
		Fixpoint:   fixpoint,
		Depends:    depGraph,
		WontChange: certify[T](sites, depGraph, merged, fixpoint, externs, inf, f),
	}, nil
}

// stepFrontier applies every site to every frontier state concurrently.
// Each task reads only its own (state, site) pair and returns a fresh
// state; there is no shared mutable state beyond the result accumulator,
// so every interleaving is a valid (commutative) outcome (spec.md §5).
func stepFrontier[T domains.Domain[T]](ctx context.Context, sites []Site, frontier []eval.State[T], externs map[string]T, inf info.Info, f domains.Factory[T]) ([]eval.State[T], error) {
	var mu sync.Mutex
	var results []eval.State[T]

	eg, egCtx := errgroup.WithContext(ctx)
	for _, s := range frontier {
		s := s
		for _, site := range sites {
			site := site
			eg.Go(func() error {
				select {
				case <-egCtx.Done():
					return egCtx.Err()
				default:
				}
				next, keep, err := applySite[T](site, s, externs, inf, f)
				if err != nil {
					return err
				}
				if keep {
					mu.Lock()
					results = append(results, next)
					mu.Unlock()
				}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// applySite gates s on the site's guard context, then applies its
// (possibly parallel) assignments.
func applySite[T domains.Domain[T]](site Site, s eval.State[T], externs map[string]T, inf info.Info, f domains.Factory[T]) (eval.State[T], bool, error) {
	guarded := s
	if len(site.Guards) > 0 {
		cond := conjoinGuards(site.Guards)
		var keep bool
		var err error
		guarded, keep, err = applyGuard[T](cond, s, externs, inf, f, maxBisectDepth)
		if err != nil {
			return nil, false, err
		}
		if !keep {
			return nil, false, nil
		}
	}
	next, err := applyAssigns[T](site.Assigns, guarded, externs, inf, f)
	if err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// applyAssigns evaluates every right-hand side against the pre-assignment
// state, then writes all left-hand sides at once (parallel assignment
// semantics: x1,...,xn := e1,...,en never see each other's new values).
func applyAssigns[T domains.Domain[T]](assigns []*ast.Assign, s eval.State[T], externs map[string]T, inf info.Info, f domains.Factory[T]) (eval.State[T], error) {
	next := cloneState(s)
	for _, a := range assigns {
		vals := make([]T, len(a.Rhs))
		for i, rhs := range a.Rhs {
			v, err := eval.Evaluate[T](rhs, s, externs, inf, f)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		for i, lhs := range a.Lhs {
			if i < len(vals) {
				next[lhs.Name] = vals[i]
			}
		}
	}
	return next, nil
}
