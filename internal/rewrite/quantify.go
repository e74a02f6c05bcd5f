// Package rewrite implements the property rewriter (spec.md §4.4): finite
// quantifier elimination, extern substitution, the var-of-agent string
// specialization pass, and emission to either modal-µ-calculus or a
// C-embedded predicate, depending on the target backend family.
//
// Grounded on original_source/sliver/labsparse/labsparse/utils.py
// (eliminate_quantifiers, replace_externs) and
// original_source/sliver/atlas/mcl.py (MCL emission), re-expressed over the
// sum-type AST of internal/ast instead of string-keyed node attributes.
package rewrite

import (
	"fmt"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/info"
)

// EliminateQuantifiers expands every QFormula in n into a quantifier-free
// conjunction/disjunction over the concrete id range of each binder's agent
// kind, outside-in (spec.md §4.4, §8 "Quantifier elimination").
func EliminateQuantifiers(n ast.Node, inf info.Info) (ast.Node, error) {
	switch v := n.(type) {
	case ast.QFormula:
		cond, err := EliminateQuantifiers(v.Condition, inf)
		if err != nil {
			return nil, err
		}
		return eliminateQVars(v.QVars, cond, inf)
	case ast.Expr:
		ops, err := eliminateAll(v.Operands, inf)
		if err != nil {
			return nil, err
		}
		return ast.Expr{Op: v.Op, Operands: ops}, nil
	case ast.Builtin:
		ops, err := eliminateAll(v.Operands, inf)
		if err != nil {
			return nil, err
		}
		return ast.Builtin{Fn: v.Fn, Operands: ops}, nil
	case ast.Comparison:
		ops, err := eliminateAll(v.Operands, inf)
		if err != nil {
			return nil, err
		}
		return ast.Comparison{Op: v.Op, Operands: ops}, nil
	case ast.If:
		cond, err := EliminateQuantifiers(v.Cond, inf)
		if err != nil {
			return nil, err
		}
		then, err := EliminateQuantifiers(v.Then, inf)
		if err != nil {
			return nil, err
		}
		els, err := EliminateQuantifiers(v.Else, inf)
		if err != nil {
			return nil, err
		}
		return ast.If{Cond: cond, Then: then, Else: els}, nil
	default:
		return n, nil
	}
}

func eliminateAll(nodes []ast.Node, inf info.Info) ([]ast.Node, error) {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		v, err := EliminateQuantifiers(n, inf)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func eliminateQVars(qvars []ast.QVar, cond ast.Node, inf info.Info) (ast.Node, error) {
	if len(qvars) == 0 {
		return cond, nil
	}
	qv, rest := qvars[0], qvars[1:]
	lo, hi, err := inf.Spawn.RangeOf(qv.Kind)
	if err != nil {
		return nil, fmt.Errorf("eliminating quantifier over %q: %w", qv.Kind, err)
	}

	copies := make([]ast.Node, 0, hi-lo)
	for id := lo; id < hi; id++ {
		specialized := specialize(cond, qv.Name, id)
		expanded, err := eliminateQVars(rest, specialized, inf)
		if err != nil {
			return nil, err
		}
		copies = append(copies, expanded)
	}
	if len(copies) == 1 {
		return copies[0], nil
	}
	op := ast.OpAnd
	if qv.Quant == ast.Exists {
		op = ast.OpOr
	}
	return ast.Expr{Op: op, Operands: copies}, nil
}

// specialize rewrites every Ref bound to the binder named `of` into either
// the literal agent id (for `Ref{Name: "id"}`) or a fresh label
// `name_<id>` (spec.md §4.4, §8).
func specialize(n ast.Node, of string, id int) ast.Node {
	switch v := n.(type) {
	case ast.Ref:
		if v.Of == of {
			if v.Name == "id" {
				return ast.Literal{Value: id}
			}
			return ast.Ref{Name: fmt.Sprintf("%s_%d", v.Name, id)}
		}
		if v.Offset != nil {
			return ast.Ref{Name: v.Name, Offset: specialize(v.Offset, of, id), Of: v.Of}
		}
		return v
	case ast.Expr:
		return ast.Expr{Op: v.Op, Operands: specializeAll(v.Operands, of, id)}
	case ast.Builtin:
		return ast.Builtin{Fn: v.Fn, Operands: specializeAll(v.Operands, of, id)}
	case ast.Comparison:
		return ast.Comparison{Op: v.Op, Operands: specializeAll(v.Operands, of, id)}
	case ast.If:
		return ast.If{Cond: specialize(v.Cond, of, id), Then: specialize(v.Then, of, id), Else: specialize(v.Else, of, id)}
	case ast.QFormula:
		return ast.QFormula{QVars: v.QVars, Condition: specialize(v.Condition, of, id)}
	case ast.Pick:
		where := v.Where
		if where != nil {
			where = specialize(where, of, id)
		}
		return ast.Pick{Name: v.Name, Size: v.Size, Type: v.Type, Where: where}
	default:
		return n
	}
}

func specializeAll(nodes []ast.Node, of string, id int) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = specialize(n, of, id)
	}
	return out
}

// ReplaceExterns substitutes every RefExt whose name is bound in externs
// with its literal value (spec.md §4.4, "Extern substitution").
func ReplaceExterns(n ast.Node, externs map[string]int) ast.Node {
	switch v := n.(type) {
	case ast.RefExt:
		if val, ok := externs[v.Name]; ok {
			return ast.Literal{Value: val}
		}
		return v
	case ast.Ref:
		if v.Offset != nil {
			return ast.Ref{Name: v.Name, Offset: ReplaceExterns(v.Offset, externs), Of: v.Of}
		}
		return v
	case ast.Expr:
		return ast.Expr{Op: v.Op, Operands: replaceExternsAll(v.Operands, externs)}
	case ast.Builtin:
		return ast.Builtin{Fn: v.Fn, Operands: replaceExternsAll(v.Operands, externs)}
	case ast.Comparison:
		return ast.Comparison{Op: v.Op, Operands: replaceExternsAll(v.Operands, externs)}
	case ast.If:
		return ast.If{
			Cond: ReplaceExterns(v.Cond, externs),
			Then: ReplaceExterns(v.Then, externs),
			Else: ReplaceExterns(v.Else, externs),
		}
	default:
		return n
	}
}

func replaceExternsAll(nodes []ast.Node, externs map[string]int) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = ReplaceExterns(n, externs)
	}
	return out
}
