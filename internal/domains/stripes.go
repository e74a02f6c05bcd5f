package domains

import (
	"fmt"
	"sort"
	"strings"
)

// Stripes is a finite set of non-overlapping, non-nesting integer
// intervals. Grounded on
// original_source/sliver/analysis/domains.py:Stripes ("stripes" domain).
//
// The invariant (no interval overlaps or is a subset of another) is
// restored by prune after every operator; Stripes values are immutable.
type Stripes struct {
	intervals []Interval // always pruned + sorted by Min
}

// S builds a Stripes containing exactly one interval.
func S(mn int, mx ...int) Stripes {
	return Stripes{intervals: []Interval{I(mn, mx...)}}
}

// StripesFactory implements domains.Factory[Stripes].
type StripesFactory struct{}

func (StripesFactory) Abstract(values ...int) Stripes {
	ivs := make([]Interval, len(values))
	for i, v := range values {
		ivs[i] = I(v)
	}
	return Stripes{intervals: prune(ivs, true)}
}

func (StripesFactory) AbstractRange(lo, hi int) Stripes {
	if hi <= lo {
		panic(fmt.Sprintf("abstract_range requires lo < hi, got [%d, %d)", lo, hi))
	}
	return S(lo, hi-1)
}

func (StripesFactory) Yes() Stripes   { return StripesYES }
func (StripesFactory) No() Stripes    { return StripesNO }
func (StripesFactory) Maybe() Stripes { return StripesMAYBE }

var (
	StripesYES   = S(1)
	StripesNO    = S(0)
	StripesMAYBE = S(0, 1)
)

// prune restores the no-overlap/no-subset invariant, optionally coalescing
// adjacent intervals, and returns a canonical sorted slice.
func prune(ivs []Interval, adjacent bool) []Interval {
	set := append([]Interval(nil), ivs...)
	for {
		changed := false

		// Join overlapping (and, if requested, adjacent) pairs.
		var joins []Interval
		for i := range set {
			for j := range set {
				if i == j {
					continue
				}
				a, b := set[i], set[j]
				if a.Overlaps(b) || (adjacent && a.Adjacent(b)) {
					joins = append(joins, a.Join(b))
				}
			}
		}
		if len(joins) > 0 {
			set = dedupIntervals(append(set, joins...))
			changed = true
		}

		// Drop strict subsets.
		var kept []Interval
		for i, a := range set {
			isSubset := false
			for j, b := range set {
				if i == j {
					continue
				}
				if a.IsWithin(b) && a != b {
					isSubset = true
					break
				}
			}
			if !isSubset {
				kept = append(kept, a)
			}
		}
		if len(kept) != len(set) {
			changed = true
		}
		set = dedupIntervals(kept)

		if !changed {
			break
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i].Min < set[j].Min })
	return set
}

func dedupIntervals(ivs []Interval) []Interval {
	seen := make(map[Interval]bool, len(ivs))
	var out []Interval
	for _, iv := range ivs {
		if !seen[iv] {
			seen[iv] = true
			out = append(out, iv)
		}
	}
	return out
}

func (s Stripes) extrema() (int, int) {
	mn, mx := s.intervals[0].Min, s.intervals[0].Max
	for _, iv := range s.intervals[1:] {
		if iv.Min < mn {
			mn = iv.Min
		}
		if iv.Max > mx {
			mx = iv.Max
		}
	}
	return mn, mx
}

// Bounds returns the overall [min, max] spanned by every stripe, the
// coarse numeric range the C emitter inlines into an __invariants() bound
// check (spec.md §4.3 "Output").
func (s Stripes) Bounds() (int, int) {
	return s.extrema()
}

func (s Stripes) String() string {
	parts := make([]string, len(s.intervals))
	for i, iv := range s.intervals {
		parts[i] = iv.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (s Stripes) Contains(n int) bool {
	for _, iv := range s.intervals {
		if iv.Contains(n) {
			return true
		}
	}
	return false
}

func (s Stripes) Equal(other Stripes) bool {
	if len(s.intervals) != len(other.intervals) {
		return false
	}
	for i := range s.intervals {
		if s.intervals[i] != other.intervals[i] {
			return false
		}
	}
	return true
}

func (s Stripes) JoinAdjacent() Stripes {
	return Stripes{intervals: prune(s.intervals, true)}
}

func (s Stripes) Join(other Stripes) Stripes {
	return Stripes{intervals: prune(append(append([]Interval(nil), s.intervals...), other.intervals...), false)}
}

func (s Stripes) combine(other Stripes, fn func(a, b Interval) Interval) Stripes {
	var out []Interval
	for _, a := range s.intervals {
		for _, b := range other.intervals {
			out = append(out, fn(a, b))
		}
	}
	return Stripes{intervals: prune(out, false)}
}

func (s Stripes) Add(other Stripes) Stripes { return s.combine(other, Interval.Add) }
func (s Stripes) Sub(other Stripes) Stripes { return s.combine(other, Interval.Sub) }
func (s Stripes) Mul(other Stripes) Stripes { return s.combine(other, Interval.Mul) }
func (s Stripes) Mod(other Stripes) Stripes { return s.combine(other, Interval.Mod) }
func (s Stripes) Div(other Stripes) Stripes { return s.combine(other, Interval.Div) }

func (s Stripes) Min(other Stripes) Stripes { return s.combine(other, Interval.Min_) }
func (s Stripes) Max(other Stripes) Stripes { return s.combine(other, Interval.Max_) }

func (s Stripes) Neg() Stripes {
	var out []Interval
	for _, iv := range s.intervals {
		out = append(out, iv.Neg())
	}
	return Stripes{intervals: prune(out, false)}
}

func (s Stripes) Not() Stripes {
	has0, has1 := s.Contains(0), s.Contains(1)
	switch {
	case has1 && !has0:
		return StripesNO
	case has0 && !has1:
		return StripesYES
	default:
		return StripesMAYBE
	}
}

func (s Stripes) Abs() Stripes {
	var out []Interval
	for _, iv := range s.intervals {
		out = append(out, iv.Abs())
	}
	return Stripes{intervals: prune(out, false)}
}

func (s Stripes) Equality(other Stripes) Stripes {
	return s.combine(other, Interval.Equality)
}

func (s Stripes) NotEqual(other Stripes) Stripes {
	return s.combine(other, Interval.NotEqual)
}

// Lt implements strict ordering, fast-pathing the single-integer case on
// either side exactly as domains.py:Stripes.__lt__.
func (s Stripes) Lt(other Stripes) Stripes {
	myMin, myMax := s.extrema()
	otherMin, otherMax := other.extrema()
	switch {
	case myMin == myMax && otherMin == otherMax:
		if myMin < otherMin {
			return StripesYES
		}
		return StripesNO
	case myMin == myMax:
		switch {
		case myMin >= otherMax:
			return StripesNO
		case myMax < otherMin:
			return StripesYES
		default:
			return StripesMAYBE
		}
	case otherMin == otherMax:
		switch {
		case myMin >= otherMin:
			return StripesNO
		case myMax < otherMin:
			return StripesYES
		default:
			return StripesMAYBE
		}
	case myMax < otherMin:
		return StripesYES
	case myMin > otherMax:
		return StripesNO
	default:
		return StripesMAYBE
	}
}

func (s Stripes) Gt(other Stripes) Stripes { return other.Lt(s) }

func (s Stripes) Ge(other Stripes) Stripes { return s.Equality(other).Or(s.Gt(other)) }
func (s Stripes) Le(other Stripes) Stripes { return s.Equality(other).Or(s.Lt(other)) }

func (s Stripes) IsWithin(other Stripes) bool {
	if s.Equal(other) {
		return true
	}
	for _, x := range s.intervals {
		found := false
		for _, y := range other.intervals {
			if x.IsWithin(y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Bisect splits the stripe set in half by cardinality when it holds more
// than one interval, otherwise bisects the sole interval at its midpoint.
// It returns ok=false on a singleton integer, terminating refinement.
func (s Stripes) Bisect() (Stripes, Stripes, bool) {
	if len(s.intervals) > 1 {
		mid := len(s.intervals) / 2
		lo := Stripes{intervals: append([]Interval(nil), s.intervals[:mid]...)}
		hi := Stripes{intervals: append([]Interval(nil), s.intervals[mid:]...)}
		return lo, hi, true
	}
	iv := s.intervals[0]
	if iv.Min == iv.Max {
		return Stripes{}, Stripes{}, false
	}
	mid := (iv.Min + iv.Max) / 2
	return S(iv.Min, mid), S(mid+1, iv.Max), true
}

// Range evaluates [self..other), flattened, as in domains.py:Stripes.Range.
func (s Stripes) Range(other Stripes) Stripes {
	otherMinus1 := other.Sub(StripesYES)
	var out []Interval
	for _, a := range s.intervals {
		for _, b := range otherMinus1.intervals {
			if b.Max >= a.Min {
				out = append(out, I(a.Min, b.Max))
			}
		}
	}
	if len(out) == 0 {
		panic(fmt.Sprintf("[%s..%s) is an empty range", s, other))
	}
	return Stripes{intervals: prune(out, true)}
}

func (s Stripes) And(other Stripes) Stripes {
	if s.Contains(0) || other.Contains(0) {
		if s.Contains(1) && other.Contains(1) {
			return StripesMAYBE
		}
		return StripesNO
	}
	return StripesYES
}

func (s Stripes) Or(other Stripes) Stripes {
	myMin, myMax := s.extrema()
	otherMin, otherMax := other.extrema()
	switch {
	case myMin == 0 && myMax == 0 && otherMin == 0 && otherMax == 0:
		return StripesNO
	case !s.Contains(0) || !other.Contains(0):
		return StripesYES
	default:
		return StripesMAYBE
	}
}
