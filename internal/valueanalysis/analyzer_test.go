package valueanalysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/domains"
	"github.com/labs-lang/sliver/internal/eval"
	"github.com/labs-lang/sliver/internal/info"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// incrementUntilThree models `while x < 3 { x := x + 1 }` as a single
// guarded write site.
func incrementUntilThree() []Site {
	assign := &ast.Assign{
		Lhs: []ast.Ref{{Name: "x"}},
		Rhs: []ast.Node{ast.Expr{
			Op:       ast.OpAdd,
			Operands: []ast.Node{ast.Ref{Name: "x"}, ast.Literal{Value: 1}},
		}},
	}
	guard := ast.Comparison{
		Op:       ast.CmpLt,
		Operands: []ast.Node{ast.Ref{Name: "x"}, ast.Literal{Value: 3}},
	}
	return []Site{{Assigns: []*ast.Assign{assign}, Guards: []ast.Node{guard}}}
}

func TestAnalyzeReachesFixpoint(t *testing.T) {
	f := domains.StripesFactory{}
	initial := eval.State[domains.Stripes]{"x": f.Abstract(0)}

	result, err := Analyze[domains.Stripes](
		context.Background(), incrementUntilThree(), initial, nil, info.Info{}, f, DefaultMaxIterations)
	require.NoError(t, err)
	assert.True(t, result.Fixpoint)
	assert.True(t, result.WontChange["id"])

	x := result.Merged["x"]
	assert.True(t, f.Abstract(0).IsWithin(x))
	assert.True(t, f.Abstract(3).IsWithin(x))
	assert.False(t, f.Abstract(4).IsWithin(x))
}

func TestAnalyzeLeavesUnreadVariableCertified(t *testing.T) {
	f := domains.StripesFactory{}
	initial := eval.State[domains.Stripes]{
		"x": f.Abstract(0),
		"y": f.Abstract(42),
	}
	result, err := Analyze[domains.Stripes](
		context.Background(), incrementUntilThree(), initial, nil, info.Info{}, f, DefaultMaxIterations)
	require.NoError(t, err)
	assert.True(t, result.Merged["y"].Equal(f.Abstract(42)))
	assert.True(t, result.WontChange["y"])
}

func TestCollectRecordsGuardContext(t *testing.T) {
	fixture := incrementUntilThree()[0]
	root := ast.Guarded{Cond: fixture.Guards[0], Body: fixture.Assigns[0]}
	sites := Collect(root, nil)
	require.Len(t, sites, 1)
	assert.Len(t, sites[0].Guards, 1)
	assert.Len(t, sites[0].Assigns, 1)
}

func TestDependencyGraphReflexiveClosure(t *testing.T) {
	g, err := BuildDependencyGraph(incrementUntilThree())
	require.NoError(t, err)
	assert.Contains(t, g.DependsOn("x"), "x")
}

func TestAnalyzeBoundedIterationsWithoutFixpoint(t *testing.T) {
	f := domains.StripesFactory{}
	initial := eval.State[domains.Stripes]{"x": f.Abstract(0)}

	result, err := Analyze[domains.Stripes](
		context.Background(), incrementUntilThree(), initial, nil, info.Info{}, f, 1)
	require.NoError(t, err)
	assert.False(t, result.Fixpoint)
}
