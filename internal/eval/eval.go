// Package eval interprets a source expression AST over an abstract state,
// for any domain satisfying domains.Domain[T] (spec.md §4.2). A single
// generic Evaluate serves both Stripes and Sign, replacing the duck-typed
// operator table of the original implementation (REDESIGN FLAGS).
package eval

import (
	"fmt"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/domains"
	"github.com/labs-lang/sliver/internal/info"
)

// Unsupported is returned when an AST node shape cannot be evaluated.
type Unsupported struct {
	Node ast.Node
}

func (u Unsupported) Error() string {
	return fmt.Sprintf("unsupported node for evaluation: %#v", u.Node)
}

// State maps variable (and local-block-variable) names to abstract values,
// plus the synthetic "id" field denoting the evaluating agent's identity.
type State[T domains.Domain[T]] map[string]T

// Evaluate interprets expr under state s, resolving unbound refs against
// externs, with info used to resolve Pick node type ranges.
func Evaluate[T domains.Domain[T]](expr ast.Node, s State[T], externs map[string]T, inf info.Info, f domains.Factory[T]) (T, error) {
	var zero T
	switch n := expr.(type) {
	case ast.Literal:
		return f.Abstract(n.Value), nil

	case ast.Ref:
		if v, ok := s[n.Name]; ok {
			return v, nil
		}
		if v, ok := externs[n.Name]; ok {
			return v, nil
		}
		return zero, fmt.Errorf("unbound reference %q", n.Name)

	case ast.RefExt:
		if v, ok := externs[n.Name]; ok {
			return v, nil
		}
		return zero, fmt.Errorf("unresolved extern %q", n.Name)

	case ast.Builtin:
		operands := make([]T, len(n.Operands))
		for i, o := range n.Operands {
			v, err := Evaluate[T](o, s, externs, inf, f)
			if err != nil {
				return zero, err
			}
			operands[i] = v
		}
		switch n.Fn {
		case ast.FnAbs:
			return operands[0].Abs(), nil
		case ast.FnNot:
			return operands[0].Not(), nil
		case ast.FnMin:
			acc := operands[0]
			for _, o := range operands[1:] {
				acc = acc.Min(o)
			}
			return acc, nil
		case ast.FnMax:
			acc := operands[0]
			for _, o := range operands[1:] {
				acc = acc.Max(o)
			}
			return acc, nil
		}
		return zero, Unsupported{expr}

	case ast.Expr:
		operands := make([]T, len(n.Operands))
		for i, o := range n.Operands {
			v, err := Evaluate[T](o, s, externs, inf, f)
			if err != nil {
				return zero, err
			}
			operands[i] = v
		}
		acc := operands[0]
		for _, o := range operands[1:] {
			switch n.Op {
			case ast.OpAdd:
				acc = acc.Add(o)
			case ast.OpSub:
				acc = acc.Sub(o)
			case ast.OpMul:
				acc = acc.Mul(o)
			case ast.OpDiv:
				acc = acc.Div(o)
			case ast.OpMod:
				acc = acc.Mod(o)
			case ast.OpAnd:
				acc = acc.And(o)
			case ast.OpOr:
				acc = acc.Or(o)
			case ast.OpRangeNondet:
				acc = acc.Range(o)
			default:
				return zero, Unsupported{expr}
			}
		}
		return acc, nil

	case ast.Comparison:
		operands := make([]T, len(n.Operands))
		for i, o := range n.Operands {
			v, err := Evaluate[T](o, s, externs, inf, f)
			if err != nil {
				return zero, err
			}
			operands[i] = v
		}
		acc := operands[0]
		for _, o := range operands[1:] {
			switch n.Op {
			case ast.CmpEq:
				acc = acc.Equality(o)
			case ast.CmpNe:
				acc = acc.NotEqual(o)
			case ast.CmpGt:
				acc = acc.Gt(o)
			case ast.CmpGe:
				acc = acc.Ge(o)
			case ast.CmpLt:
				acc = acc.Lt(o)
			case ast.CmpLe:
				acc = acc.Le(o)
			default:
				return zero, Unsupported{expr}
			}
		}
		return acc, nil

	case ast.If:
		cond, err := Evaluate[T](n.Cond, s, externs, inf, f)
		if err != nil {
			return zero, err
		}
		hasTrue, hasFalse := cond.Contains(1), cond.Contains(0)
		switch {
		case hasTrue && hasFalse:
			then, err := Evaluate[T](n.Then, s, externs, inf, f)
			if err != nil {
				return zero, err
			}
			els, err := Evaluate[T](n.Else, s, externs, inf, f)
			if err != nil {
				return zero, err
			}
			return then.Join(els), nil
		case hasTrue:
			return Evaluate[T](n.Then, s, externs, inf, f)
		case hasFalse:
			return Evaluate[T](n.Else, s, externs, inf, f)
		default:
			return zero, fmt.Errorf("condition evaluated to bottom")
		}

	case ast.QFormula:
		// Quantified sub-formulas overapproximate: the value analyzer
		// cannot recover their truth value without full quantifier
		// elimination, which is the property rewriter's job.
		return f.Maybe(), nil

	case ast.Pick:
		if n.Type == "" {
			if id, ok := s["id"]; ok {
				return id, nil
			}
			return zero, fmt.Errorf("pick has no bound id field in state")
		}
		lo, hi, err := inf.Spawn.RangeOf(n.Type)
		if err != nil {
			return zero, err
		}
		return f.AbstractRange(lo, hi), nil

	default:
		return zero, Unsupported{expr}
	}
}
