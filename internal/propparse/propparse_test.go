package propparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labs-lang/sliver/internal/ast"
)

func TestParseSimpleComparison(t *testing.T) {
	n, err := Parse("i.x > 0")
	require.NoError(t, err)
	cmp, ok := n.(ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, ast.CmpGt, cmp.Op)
	ref, ok := cmp.Operands[0].(ast.Ref)
	require.True(t, ok)
	assert.Equal(t, "x", ref.Name)
	assert.Equal(t, "i", ref.Of)
}

func TestParseQuantifierPrefix(t *testing.T) {
	n, err := Parse("forall i in A i.x = 0")
	require.NoError(t, err)
	q, ok := n.(ast.QFormula)
	require.True(t, ok)
	require.Len(t, q.QVars, 1)
	assert.Equal(t, ast.Forall, q.QVars[0].Quant)
	assert.Equal(t, "A", q.QVars[0].Kind)
	assert.Equal(t, "i", q.QVars[0].Name)
}

func TestParseImplicationDesugarsToNotOr(t *testing.T) {
	n, err := Parse("i.x > 0 -> i.y = 1")
	require.NoError(t, err)
	e, ok := n.(ast.Expr)
	require.True(t, ok)
	assert.Equal(t, ast.OpOr, e.Op)
	require.Len(t, e.Operands, 2)
	_, ok = e.Operands[0].(ast.Builtin)
	assert.True(t, ok)
}

func TestParseBuiltinCall(t *testing.T) {
	n, err := Parse("abs(i.x - i.y) < 3")
	require.NoError(t, err)
	cmp, ok := n.(ast.Comparison)
	require.True(t, ok)
	_, ok = cmp.Operands[0].(ast.Builtin)
	assert.True(t, ok)
}

func TestParseExternReference(t *testing.T) {
	n, err := Parse("i.x = _bound")
	require.NoError(t, err)
	cmp := n.(ast.Comparison)
	_, ok := cmp.Operands[1].(ast.RefExt)
	assert.True(t, ok)
}
