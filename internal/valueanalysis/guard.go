package valueanalysis

import (
	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/domains"
	"github.com/labs-lang/sliver/internal/eval"
	"github.com/labs-lang/sliver/internal/info"
)

// maxBisectDepth bounds guard bisection recursion. When the bound is reached
// while the guard is still MAYBE, the state is kept unchanged, exactly as
// when no referenced variable can be bisected; a range wider than about
// 2^12 values can reach the bound before its halves decide the guard.
const maxBisectDepth = 12

func conjoinGuards(guards []ast.Node) ast.Node {
	if len(guards) == 1 {
		return guards[0]
	}
	return ast.Expr{Op: ast.OpAnd, Operands: guards}
}

// applyGuard implements spec.md §4.3's apply_guard: evaluate cond under s;
// if it is decidably true or false, keep or drop s outright. Otherwise pick
// a variable referenced by cond that can still be bisected, recurse on both
// halves, and join whichever halves were kept. When cond stays MAYBE and no
// referenced variable can be bisected further, s is kept unchanged
// (conservative overapproximation).
func applyGuard[T domains.Domain[T]](cond ast.Node, s eval.State[T], externs map[string]T, inf info.Info, f domains.Factory[T], depth int) (eval.State[T], bool, error) {
	val, err := eval.Evaluate[T](cond, s, externs, inf, f)
	if err != nil {
		return s, false, err
	}
	hasTrue, hasFalse := val.Contains(1), val.Contains(0)
	switch {
	case hasTrue && !hasFalse:
		return s, true, nil
	case hasFalse && !hasTrue:
		return s, false, nil
	case !hasTrue && !hasFalse:
		return s, false, nil // bottom: unreachable under s
	}

	if depth <= 0 {
		return s, true, nil
	}

	var bisectVar string
	var lo, hi T
	found := false
	for _, name := range ast.Refs(cond) {
		v, ok := s[name]
		if !ok {
			continue
		}
		l, h, splittable := v.Bisect()
		if splittable {
			bisectVar, lo, hi, found = name, l, h, true
			break
		}
	}
	if !found {
		return s, true, nil
	}

	sLo, sHi := cloneState(s), cloneState(s)
	sLo[bisectVar], sHi[bisectVar] = lo, hi

	rLo, keepLo, err := applyGuard[T](cond, sLo, externs, inf, f, depth-1)
	if err != nil {
		return s, false, err
	}
	rHi, keepHi, err := applyGuard[T](cond, sHi, externs, inf, f, depth-1)
	if err != nil {
		return s, false, err
	}
	switch {
	case keepLo && keepHi:
		return joinStates(rLo, rHi), true, nil
	case keepLo:
		return rLo, true, nil
	case keepHi:
		return rHi, true, nil
	default:
		return s, false, nil
	}
}
