package domains

import "fmt"

// Interval is an inclusive integer range [Min, Max]. Values are immutable:
// every operator returns a fresh Interval.
//
// Grounded on original_source/sliver/analysis/domains.py:Interval.
type Interval struct {
	Min, Max int
}

// I builds a singleton interval, or [mn, mx] when mx is given.
func I(mn int, mx ...int) Interval {
	if len(mx) == 0 {
		return Interval{mn, mn}
	}
	if mx[0] < mn {
		panic(fmt.Sprintf("invalid interval [%d, %d]", mn, mx[0]))
	}
	return Interval{mn, mx[0]}
}

func (iv Interval) String() string {
	if iv.Min == iv.Max {
		return fmt.Sprintf("[%d]", iv.Min)
	}
	return fmt.Sprintf("[%d, %d]", iv.Min, iv.Max)
}

func (iv Interval) Contains(n int) bool { return iv.Min <= n && n <= iv.Max }

func (iv Interval) IsWithin(other Interval) bool {
	return iv.Min >= other.Min && iv.Max <= other.Max
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.IsWithin(other) || other.IsWithin(iv) ||
		(other.Min <= iv.Min && iv.Min <= other.Max) ||
		(other.Min <= iv.Max && iv.Max <= other.Max)
}

func (iv Interval) Adjacent(other Interval) bool {
	return !iv.Overlaps(other) && (iv.Max == other.Min-1 || iv.Min == other.Max+1)
}

func (iv Interval) Join(other Interval) Interval {
	return Interval{min(iv.Min, other.Min), max(iv.Max, other.Max)}
}

// Equality returns a Stripes boolean: YES, NO, or MAYBE, exactly as
// domains.py's Interval.equality.
func (iv Interval) Equality(other Interval) Interval {
	switch {
	case iv.Min > other.Max || iv.Max < other.Min:
		return boolFalse
	case iv.Min == iv.Max && other.Min == other.Max && iv.Min == other.Min:
		return boolTrue
	default:
		return boolMaybe
	}
}

func (iv Interval) NotEqual(other Interval) Interval {
	eq := iv.Equality(other)
	if eq.Min == eq.Max {
		if eq.Min == 0 {
			return boolTrue
		}
		return boolFalse
	}
	return boolMaybe
}

func (iv Interval) Add(other Interval) Interval {
	return Interval{iv.Min + other.Min, iv.Max + other.Max}
}

func (iv Interval) Neg() Interval { return Interval{-iv.Max, -iv.Min} }

func (iv Interval) Sub(other Interval) Interval { return iv.Add(other.Neg()) }

func (iv Interval) Mul(other Interval) Interval {
	corners := [4]int{
		iv.Min * other.Min, iv.Min * other.Max,
		iv.Max * other.Min, iv.Max * other.Max,
	}
	return Interval{minOf(corners[:]), maxOf(corners[:])}
}

func (iv Interval) Div(other Interval) Interval {
	var vals []int
	for _, n := range [2]int{iv.Min, iv.Max} {
		for _, d := range [2]int{other.Min, other.Max} {
			if d != 0 {
				vals = append(vals, floorDiv(n, d))
			}
		}
	}
	if len(vals) == 0 {
		panic(fmt.Sprintf("empty interval on %s / %s", iv, other))
	}
	return Interval{minOf(vals), maxOf(vals)}
}

func (iv Interval) Mod(other Interval) Interval {
	var vals []int
	for num := iv.Min; num <= iv.Max; num++ {
		for _, m := range [2]int{other.Min, other.Max} {
			if m != 0 {
				vals = append(vals, mod(num, m))
			}
		}
	}
	if len(vals) == 0 {
		panic(fmt.Sprintf("empty interval on %s %% %s", iv, other))
	}
	return Interval{minOf(vals), maxOf(vals)}
}

func (iv Interval) Abs() Interval {
	a, b := abs(iv.Min), abs(iv.Max)
	return Interval{minOf([]int{a, b}), maxOf([]int{a, b})}
}

func (iv Interval) Min_(other Interval) Interval {
	return Interval{min(iv.Min, other.Min), min(iv.Max, other.Max)}
}

func (iv Interval) Max_(other Interval) Interval {
	return Interval{max(iv.Min, other.Min), max(iv.Max, other.Max)}
}

var (
	boolTrue  = I(1)
	boolFalse = I(0)
	boolMaybe = I(0, 1)
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func minOf(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
