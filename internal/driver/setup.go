package driver

import (
	"fmt"
	"strings"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/concretize"
	"github.com/labs-lang/sliver/internal/info"
	"github.com/labs-lang/sliver/internal/propparse"
	"github.com/labs-lang/sliver/internal/rewrite"
)

// BuildProblem declares every runtime cell and scheduler slot the
// concretizer's setup phase needs (spec.md §4.5 "Setup") from the parsed
// info bundle, then adds every assume{} clause as a hard constraint.
// Pick constraints are not declared here: the info bundle this module
// consumes carries no pick metadata (the encoder never surfaces it), so
// DeclarePick has no caller yet (recorded as an open question in
// DESIGN.md).
func BuildProblem(inf info.Info, steps int, fair bool) (*concretize.Problem, error) {
	p := concretize.NewProblem()

	hasStigmergy := false
	for _, k := range inf.Spawn.Kinds {
		for id := k.Lo; id < k.Hi; id++ {
			p.DeclareRuntimeCells(concretize.InterfaceCell, k.Iface, id)
			p.DeclareRuntimeCells(concretize.LstigCell, k.Lstig, id)
		}
		if len(k.Lstig) > 0 {
			hasStigmergy = true
		}
	}
	p.DeclareRuntimeCells(concretize.EnvCell, inf.Env, -1)
	p.DeclareScheduler(steps, inf.Spawn.NumAgents(), fair, hasStigmergy)

	for i, raw := range inf.Assumes {
		cond, err := parseCondition(raw, inf)
		if err != nil {
			return nil, fmt.Errorf("assume[%d] %q: %w", i, raw, err)
		}
		if err := p.AddAssume(cond); err != nil {
			return nil, fmt.Errorf("assume[%d] %q: %w", i, raw, err)
		}
	}
	return p, nil
}

// parseCondition turns a raw check{}/assume{} clause into a quantifier-free,
// extern-substituted AST ready for either concretize.Problem.AddAssume or
// rewrite.EmitCAssertion/TranslateProperty (spec.md §4.4).
func parseCondition(text string, inf info.Info) (ast.Node, error) {
	n, err := propparse.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	eliminated, err := rewrite.EliminateQuantifiers(n, inf)
	if err != nil {
		return nil, fmt.Errorf("eliminating quantifiers: %w", err)
	}
	return rewrite.ReplaceExterns(eliminated, inf.Externs), nil
}

// ConditionText strips a check{} property's leading modality keyword
// (always/eventually/finally/fairly/fairly_inf/between), leaving the
// condition text parseCondition expects (info.Property.Text carries the
// keyword, per internal/encoder's parseProperties).
func ConditionText(p info.Property) string {
	fields := strings.Fields(p.Text)
	if len(fields) > 0 && fields[0] == p.Modality.String() {
		return strings.TrimSpace(strings.TrimPrefix(p.Text, fields[0]))
	}
	return p.Text
}
