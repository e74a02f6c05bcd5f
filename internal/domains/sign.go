package domains

import "fmt"

// Sign is the three-bit <-,0,+> domain: a value is any non-empty subset of
// {negative, zero, positive}. The empty subset is illegal except as an
// unreachable marker and is never constructed by a Factory method.
//
// Grounded on original_source/sliver/analysis/domains.py:Sign.
type Sign struct {
	Minus, Zero, Plus bool
}

// SignFactory implements domains.Factory[Sign].
type SignFactory struct{}

func (SignFactory) Abstract(values ...int) Sign {
	var s Sign
	for _, v := range values {
		switch {
		case v < 0:
			s.Minus = true
		case v == 0:
			s.Zero = true
		default:
			s.Plus = true
		}
	}
	return s
}

func (SignFactory) AbstractRange(lo, hi int) Sign {
	if hi <= lo {
		panic(fmt.Sprintf("abstract_range requires lo < hi, got [%d, %d)", lo, hi))
	}
	mx := hi - 1
	return Sign{
		Minus: lo < 0,
		Plus:  mx > 0,
		Zero:  lo <= 0 && mx >= 0,
	}
}

func (SignFactory) Yes() Sign   { return SignYES }
func (SignFactory) No() Sign    { return SignNO }
func (SignFactory) Maybe() Sign { return SignMAYBE }

var (
	SignYES   = Sign{Plus: true}
	SignNO    = Sign{Zero: true}
	SignNEG   = Sign{Minus: true}
	SignMAYBE = Sign{Zero: true, Plus: true}
)

func (s Sign) String() string {
	if s.Minus && s.Zero && s.Plus {
		return "<T>"
	}
	out := "<"
	if s.Minus {
		out += "-"
	}
	if s.Zero {
		out += "0"
	}
	if s.Plus {
		out += "+"
	}
	return out + ">"
}

func (s Sign) Contains(n int) bool {
	switch {
	case n < 0:
		return s.Minus
	case n == 0:
		return s.Zero
	default:
		return s.Plus
	}
}

func (s Sign) Equal(other Sign) bool { return s == other }

func (s Sign) isZero() bool     { return s.Zero && !s.Plus && !s.Minus }
func (s Sign) isPositive() bool { return s.Plus && !s.Zero && !s.Minus }
func (s Sign) isNegative() bool { return s.Minus && !s.Zero && !s.Plus }

func (s Sign) IsWithin(other Sign) bool {
	return (!s.Minus || other.Minus) && (!s.Plus || other.Plus) && (!s.Zero || other.Zero)
}

func (s Sign) Overlaps(other Sign) bool {
	return s.IsWithin(other) || other.IsWithin(s) || (s.Zero && other.Zero)
}

func (s Sign) JoinAdjacent() Sign { return s }

func (s Sign) Join(other Sign) Sign {
	return Sign{Minus: s.Minus || other.Minus, Plus: s.Plus || other.Plus, Zero: s.Zero || other.Zero}
}

func (s Sign) Equality(other Sign) Sign {
	switch {
	case s.isZero() && other.isZero():
		return SignYES
	case s.Overlaps(other):
		return SignMAYBE
	default:
		return SignNO
	}
}

func (s Sign) NotEqual(other Sign) Sign {
	eq := s.Equality(other)
	switch eq {
	case SignYES:
		return SignNO
	case SignNO:
		return SignYES
	default:
		return SignMAYBE
	}
}

func (s Sign) Neg() Sign { return Sign{Minus: s.Plus, Plus: s.Minus, Zero: s.Zero} }

func (s Sign) Not() Sign {
	switch {
	case s == SignYES:
		return SignNO
	case s == SignNO:
		return SignYES
	default:
		return SignMAYBE
	}
}

func (s Sign) Add(other Sign) Sign {
	if s.isZero() {
		return other
	}
	if other.isZero() {
		return s
	}
	return Sign{
		Minus: s.Minus || other.Minus,
		Plus:  s.Plus || other.Plus,
		Zero:  (s.Plus && other.Minus) || (s.Minus && other.Plus),
	}
}

func (s Sign) Sub(other Sign) Sign { return s.Add(other.Neg()) }

func (s Sign) Mul(other Sign) Sign {
	if s.isZero() || other.isZero() {
		return SignNO
	}
	return Sign{
		Plus:  (s.Plus && other.Plus) || (s.Minus && other.Minus),
		Minus: (s.Plus && other.Minus) || (s.Minus && other.Plus),
		Zero:  s.Zero || other.Zero,
	}
}

func (s Sign) Div(other Sign) Sign { return s.Mul(other) } // division shares the sign table

func (s Sign) Mod(_ Sign) Sign {
	if s.isZero() {
		return s
	}
	return SignMAYBE
}

func (s Sign) Abs() Sign {
	if s.isZero() {
		return s
	}
	return SignMAYBE
}

func (s Sign) Min(other Sign) Sign {
	if s.Minus || other.Minus {
		return SignNEG
	}
	if s.Zero || other.Zero {
		return SignNO
	}
	return SignYES
}

func (s Sign) Max(other Sign) Sign {
	if s.Plus || other.Plus {
		return SignYES
	}
	if s.Zero || other.Zero {
		return SignNO
	}
	return SignNEG
}

func (s Sign) And(other Sign) Sign {
	if s.isPositive() && other.isPositive() {
		return SignYES
	}
	if s.isZero() && other.isZero() {
		return SignNO
	}
	return SignMAYBE
}

func (s Sign) Or(other Sign) Sign {
	if s.isPositive() || other.isPositive() {
		return SignYES
	}
	if s.isZero() && other.isZero() {
		return SignNO
	}
	return SignMAYBE
}

// Range follows domains.py:Sign.Range: the sign of values in [self..other).
func (s Sign) Range(other Sign) Sign {
	minus := s.Minus || other.Minus
	plus := s.Plus || other.Plus
	zero := s.Zero || other.Zero || (plus && minus)
	return Sign{Minus: minus, Plus: plus, Zero: zero}
}

func (s Sign) Lt(other Sign) Sign {
	switch {
	case other.Plus:
		if s.Plus {
			return SignMAYBE
		}
		return SignYES
	case other.Zero:
		if s.Zero {
			return SignMAYBE
		}
		return SignYES
	default:
		if s.Minus {
			return SignMAYBE
		}
		return SignNO
	}
}

func (s Sign) Gt(other Sign) Sign { return other.Lt(s) }
func (s Sign) Le(other Sign) Sign { return s.Equality(other).Or(s.Lt(other)) }
func (s Sign) Ge(other Sign) Sign { return s.Equality(other).Or(s.Gt(other)) }

// Bisect splits a non-singleton sign into two singletons (one bit each, or
// a remaining pair), returning ok=false once only one bit is set.
func (s Sign) Bisect() (Sign, Sign, bool) {
	switch {
	case s.isZero() || s.isPositive() || s.isNegative():
		return Sign{}, Sign{}, false
	case s.Minus && s.Zero && s.Plus:
		return SignNEG, SignMAYBE, true
	case s.Minus && s.Plus:
		return SignNEG, SignYES, true
	case s.Minus && s.Zero:
		return SignNEG, SignNO, true
	case s.Plus && s.Zero:
		return SignNO, SignYES, true
	default:
		panic("unreachable sign bisection")
	}
}
