// Package domains implements the two numerical abstract domains used by the
// value analyzer and expression evaluator: Stripes (finite unions of integer
// intervals) and Sign (the three-bit <-,0,+> lattice).
//
// Both domains satisfy Domain[T], a self-referential constraint that lets a
// single generic evaluator (internal/eval) serve either domain without a
// duck-typed operator table.
package domains

// Domain is implemented by every abstract value domain (Stripes, Sign).
// Comparisons return a value of the domain itself, rather than a plain
// bool, because the source language's booleans are themselves abstracted
// as {0,1} subsets of the domain - this is what lets an `If` node join its
// branches when the guard is MAYBE.
type Domain[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Mod(T) T
	Neg() T
	Abs() T

	Min(T) T
	Max(T) T
	And(T) T
	Or(T) T
	Not() T

	Lt(T) T
	Le(T) T
	Gt(T) T
	Ge(T) T
	Equality(T) T
	NotEqual(T) T

	// Range evaluates the "pick from range" construct [self..other).
	Range(T) T

	// IsWithin is pointwise containment, used for soundness checks and
	// the won't-change certification's "did this shrink" test.
	IsWithin(T) bool

	// Bisect splits a non-singleton value into two non-empty halves whose
	// join recovers the original value. It returns ok=false on a value
	// that cannot be refined further (a singleton integer, or a sign
	// domain value with at most one bit set).
	Bisect() (lo T, hi T, ok bool)

	// JoinAdjacent normalizes a value by coalescing touching components.
	JoinAdjacent() T

	// Join computes the union (over-approximation) of two values.
	Join(T) T

	// Contains reports whether a concrete integer belongs to the value.
	Contains(n int) bool

	// Equal is structural equality of the abstract value itself (used as
	// map/set keys in the fixpoint worklist), not a domain comparison.
	Equal(T) bool

	String() string
}

// Factory constructs values of a domain. It is passed alongside the domain
// type parameter because Go generics have no way to call a "static"
// constructor through a type parameter alone.
type Factory[T Domain[T]] interface {
	// Abstract builds the minimal value containing exactly the given
	// concrete integers.
	Abstract(values ...int) T
	// AbstractRange builds the value denoting the half-open range
	// [lo, hi).
	AbstractRange(lo, hi int) T
	Yes() T
	No() T
	Maybe() T
}
