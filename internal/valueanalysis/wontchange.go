package valueanalysis

import (
	"github.com/labs-lang/sliver/internal/domains"
	"github.com/labs-lang/sliver/internal/eval"
	"github.com/labs-lang/sliver/internal/info"
)

// certify computes the won't-change certificate (spec.md §4.3). If the
// chaos fixpoint succeeded, every variable is certified outright. Otherwise
// a variable v is certified once (a) every variable it reflexively depends
// on is already certified, and (b) applying every site once more to the
// widened merge leaves v's value unchanged. "id" is unconditionally
// certified.
func certify[T domains.Domain[T]](sites []Site, dep *DependencyGraph, merged eval.State[T], fixpointReached bool, externs map[string]T, inf info.Info, f domains.Factory[T]) map[string]bool {
	certified := map[string]bool{"id": true}
	if fixpointReached {
		for v := range merged {
			certified[v] = true
		}
		return certified
	}

	reapplied := reapplyOnce(sites, merged, externs, inf, f)

	for changed := true; changed; {
		changed = false
		for v := range merged {
			if certified[v] {
				continue
			}
			if !dep.AllCertified(v, certified) {
				continue
			}
			after, ok := reapplied[v]
			if !ok || !after.Equal(merged[v]) {
				continue
			}
			certified[v] = true
			changed = true
		}
	}
	return certified
}

// reapplyOnce applies every site to the widened merge once and folds the
// results (and the merge itself, so a site never reachable from merged
// doesn't spuriously decertify its variables) into a single state.
func reapplyOnce[T domains.Domain[T]](sites []Site, merged eval.State[T], externs map[string]T, inf info.Info, f domains.Factory[T]) eval.State[T] {
	states := []eval.State[T]{merged}
	for _, site := range sites {
		next, keep, err := applySite[T](site, merged, externs, inf, f)
		if err == nil && keep {
			states = append(states, next)
		}
	}
	return mergeStates(states)
}
