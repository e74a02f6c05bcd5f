package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/info"
)

func threeAgentInfo() info.Info {
	return info.Info{
		Spawn: info.Spawn{Kinds: []info.AgentKind{
			{Name: "A", Lo: 0, Hi: 3, Iface: []info.Variable{{Store: info.Interface, Name: "x", Index: 0, Size: 1}}},
		}},
	}
}

func TestEliminateQuantifiersExpandsForall(t *testing.T) {
	inf := threeAgentInfo()
	formula := ast.QFormula{
		QVars: []ast.QVar{{Quant: ast.Forall, Kind: "A", Name: "a"}},
		Condition: ast.Comparison{
			Op:       ast.CmpEq,
			Operands: []ast.Node{ast.Ref{Name: "x", Of: "a"}, ast.Literal{Value: 0}},
		},
	}

	result, err := EliminateQuantifiers(formula, inf)
	require.NoError(t, err)

	expr, ok := result.(ast.Expr)
	require.True(t, ok, "expected a conjunction, got %#v", result)
	assert.Equal(t, ast.OpAnd, expr.Op)
	require.Len(t, expr.Operands, 3)

	assert.Equal(t, []string{"x_0", "x_1", "x_2"}, VarsToStrings(result))
}

func TestEliminateQuantifiersRendersIdToLiteral(t *testing.T) {
	inf := threeAgentInfo()
	formula := ast.QFormula{
		QVars: []ast.QVar{{Quant: ast.Exists, Kind: "A", Name: "a"}},
		Condition: ast.Comparison{
			Op:       ast.CmpEq,
			Operands: []ast.Node{ast.Ref{Name: "id", Of: "a"}, ast.Literal{Value: 1}},
		},
	}

	result, err := EliminateQuantifiers(formula, inf)
	require.NoError(t, err)

	expr, ok := result.(ast.Expr)
	require.True(t, ok)
	assert.Equal(t, ast.OpOr, expr.Op)

	cmp := expr.Operands[1].(ast.Comparison)
	lit, ok := cmp.Operands[0].(ast.Literal)
	require.True(t, ok)
	assert.Equal(t, 1, lit.Value)
}

func TestReplaceExternsSubstitutesKnownNames(t *testing.T) {
	n := ast.Comparison{
		Op:       ast.CmpGe,
		Operands: []ast.Node{ast.RefExt{Name: "N"}, ast.Literal{Value: 0}},
	}
	result := ReplaceExterns(n, map[string]int{"N": 5})
	cmp := result.(ast.Comparison)
	lit, ok := cmp.Operands[0].(ast.Literal)
	require.True(t, ok)
	assert.Equal(t, 5, lit.Value)
}

func TestTranslatePropertyAlwaysEmitsPredicateAndInvariant(t *testing.T) {
	inf := threeAgentInfo()
	prop := info.Property{Name: "p", Modality: info.Always}
	formula := ast.QFormula{
		QVars: []ast.QVar{{Quant: ast.Forall, Kind: "A", Name: "a"}},
		Condition: ast.Comparison{
			Op:       ast.CmpEq,
			Operands: []ast.Node{ast.Ref{Name: "x", Of: "a"}, ast.Literal{Value: 0}},
		},
	}

	out, err := TranslateProperty(inf, nil, prop, formula)
	require.NoError(t, err)
	assert.Contains(t, out, "macro Predicate(")
	assert.Contains(t, out, "nu Inv (")
}
