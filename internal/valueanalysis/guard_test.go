package valueanalysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/domains"
	"github.com/labs-lang/sliver/internal/eval"
	"github.com/labs-lang/sliver/internal/info"
)

func TestApplyGuardBisectsMaybeRange(t *testing.T) {
	f := domains.StripesFactory{}
	s := eval.State[domains.Stripes]{"x": f.AbstractRange(0, 10)}
	cond := ast.Comparison{
		Op:       ast.CmpLt,
		Operands: []ast.Node{ast.Ref{Name: "x"}, ast.Literal{Value: 5}},
	}

	result, keep, err := applyGuard[domains.Stripes](cond, s, nil, info.Info{}, f, maxBisectDepth)
	require.NoError(t, err)
	require.True(t, keep)
	assert.True(t, result["x"].IsWithin(f.AbstractRange(0, 5)))
}

func TestApplyGuardDropsAlwaysFalse(t *testing.T) {
	f := domains.StripesFactory{}
	s := eval.State[domains.Stripes]{"x": f.Abstract(7)}
	cond := ast.Comparison{
		Op:       ast.CmpLt,
		Operands: []ast.Node{ast.Ref{Name: "x"}, ast.Literal{Value: 5}},
	}

	_, keep, err := applyGuard[domains.Stripes](cond, s, nil, info.Info{}, f, maxBisectDepth)
	require.NoError(t, err)
	assert.False(t, keep)
}

func TestApplyGuardKeepsAlwaysTrueUnchanged(t *testing.T) {
	f := domains.StripesFactory{}
	s := eval.State[domains.Stripes]{"x": f.Abstract(1)}
	cond := ast.Comparison{
		Op:       ast.CmpLt,
		Operands: []ast.Node{ast.Ref{Name: "x"}, ast.Literal{Value: 5}},
	}

	result, keep, err := applyGuard[domains.Stripes](cond, s, nil, info.Info{}, f, maxBisectDepth)
	require.NoError(t, err)
	require.True(t, keep)
	assert.True(t, result["x"].Equal(f.Abstract(1)))
}
