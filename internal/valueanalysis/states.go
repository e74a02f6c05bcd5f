package valueanalysis

import (
	"sort"
	"strings"

	"github.com/labs-lang/sliver/internal/domains"
	"github.com/labs-lang/sliver/internal/eval"
)

func cloneState[T domains.Domain[T]](s eval.State[T]) eval.State[T] {
	next := make(eval.State[T], len(s))
	for k, v := range s {
		next[k] = v
	}
	return next
}

// stateKey canonicalizes a state for worklist membership testing: the
// analyzer never compares abstract values structurally, only by their
// rendered form, matching how the domains' own Equal is string-blind to
// representation (e.g. unpruned vs. pruned Stripes never arise here since
// every constructor prunes on the way in).
func stateKey[T domains.Domain[T]](s eval.State[T]) string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, k := range names {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s[k].String())
		b.WriteByte(';')
	}
	return b.String()
}

func joinStates[T domains.Domain[T]](a, b eval.State[T]) eval.State[T] {
	out := make(eval.State[T], len(a))
	for k, v := range a {
		if other, ok := b[k]; ok {
			out[k] = v.Join(other)
		} else {
			out[k] = v
		}
	}
	for k, v := range b {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// mergeStates joins every state pointwise and join_adjacent-normalizes the
// result (spec.md §4.3, "Output").
func mergeStates[T domains.Domain[T]](states []eval.State[T]) eval.State[T] {
	if len(states) == 0 {
		return eval.State[T]{}
	}
	merged := cloneState(states[0])
	for _, s := range states[1:] {
		merged = joinStates(merged, s)
	}
	for k, v := range merged {
		merged[k] = v.JoinAdjacent()
	}
	return merged
}

func mergeAll[T domains.Domain[T]](visited map[string]eval.State[T]) eval.State[T] {
	states := make([]eval.State[T], 0, len(visited))
	for _, s := range visited {
		states = append(states, s)
	}
	return mergeStates(states)
}
