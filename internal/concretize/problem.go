package concretize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/info"
)

// CellKind distinguishes the families of nondeterministic quantity the
// setup phase of spec.md §4.5 declares.
type CellKind int

const (
	InterfaceCell CellKind = iota
	LstigCell
	EnvCell
	SchedCell
	PickCell
)

// Cell is one Int variable of the concretization problem: either a flat
// runtime-array slot (interface/lstig/environment), a scheduler slot, or a
// pick-array slot. Label is the name it is addressed by in a rendered
// model and in blocking clauses; v is its Prolog variable name.
type Cell struct {
	Kind  CellKind
	Label string
	v     string
	Lo    int   // inclusive; used when Values is nil
	Hi    int   // exclusive; used when Values is nil
	Values []int // non-nil for an enumerated or literal domain
}

func (c Cell) domainGoal() string {
	if c.Values != nil {
		return fmt.Sprintf("member(%s, %s)", c.v, intList(c.Values))
	}
	return fmt.Sprintf("between(%d, %d, %s)", c.Lo, c.Hi-1, c.v)
}

func (c Cell) cardinality() int {
	if c.Values != nil {
		return len(c.Values)
	}
	return c.Hi - c.Lo
}

func intList(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Problem accumulates the cells and constraints of one concretization
// problem (spec.md §4.5, "Setup"). It is built incrementally by
// DeclareRuntimeCells / DeclareScheduler / DeclarePick / AddAssume and then
// driven through the Uninitialized→Ready→Solving state machine by
// Concretizer (state.go).
type Problem struct {
	cells       []Cell
	byLabel     map[string]int // index into cells
	constraints []string       // raw Prolog goals, already referencing cell vars
	nextVar     int
}

// NewProblem starts an empty problem.
func NewProblem() *Problem {
	return &Problem{byLabel: make(map[string]int)}
}

func (p *Problem) freshVar() string {
	p.nextVar++
	return fmt.Sprintf("V%d", p.nextVar)
}

func (p *Problem) declare(kind CellKind, label string, lo, hi int, values []int) Cell {
	c := Cell{Kind: kind, Label: label, v: p.freshVar(), Lo: lo, Hi: hi, Values: values}
	p.byLabel[label] = len(p.cells)
	p.cells = append(p.cells, c)
	return c
}

// DeclareRuntimeCells declares one Int cell per flat-array slot of vars
// (arrays expanded elementwise), each constrained to its declaration's
// values(id) (spec.md §4.5, setup step 1). agentID is -1 for environment
// cells, which are not per-agent.
func (p *Problem) DeclareRuntimeCells(kind CellKind, vars []info.Variable, agentID int) {
	for _, v := range vars {
		for slot := 0; slot < v.Size; slot++ {
			label := cellLabel(kind, v.Index+slot, agentID)
			lits, isRange, lo, hi := v.Values(agentID)
			if isRange {
				p.declare(kind, label, lo, hi, nil)
			} else {
				p.declare(kind, label, 0, 0, lits)
			}
		}
	}
}

func cellLabel(kind CellKind, index, agentID int) string {
	switch kind {
	case InterfaceCell:
		return fmt.Sprintf("I_%d_%d", agentID, index)
	case LstigCell:
		return fmt.Sprintf("L_%d_%d", agentID, index)
	default:
		return fmt.Sprintf("E_%d", index)
	}
}

// DeclareScheduler declares sched[0..steps) cells ranging over [0,numAgents)
// and, when fair is requested with no stigmergy present, pins them to the
// round-robin sequence sched[i] = (sched[i-1]+1) mod N with sched[0] = 0
// (spec.md §4.5 setup step 2, §3 "sched").
func (p *Problem) DeclareScheduler(steps, numAgents int, fair, hasStigmergy bool) {
	cells := make([]Cell, steps)
	for i := 0; i < steps; i++ {
		cells[i] = p.declare(SchedCell, fmt.Sprintf("sched_%d", i), 0, numAgents, nil)
	}
	if fair && !hasStigmergy && steps > 0 {
		p.constraints = append(p.constraints, fmt.Sprintf("%s =:= 0", cells[0].v))
		for i := 1; i < steps; i++ {
			p.constraints = append(p.constraints,
				fmt.Sprintf("%s =:= (%s + 1) mod %d", cells[i].v, cells[i-1].v, numAgents))
		}
	}
}

// DeclarePick declares the steps×size array for a single Pick(name, size,
// type?) statement, adding distinctness-within-a-step, type-membership, and
// different-from-the-step's-scheduled-agent constraints, each guarded by
// "the scheduled agent's kind actually uses this pick" (spec.md §4.5 setup
// step 3, §3 "Pick rewrite").
func (p *Problem) DeclarePick(name string, size, steps int, typeLo, typeHi int, usedByKind map[string]bool, kinds []info.AgentKind) error {
	for step := 0; step < steps; step++ {
		schedCell, ok := p.byLabel[fmt.Sprintf("sched_%d", step)]
		if !ok {
			return fmt.Errorf("pick %s declared before scheduler for step %d", name, step)
		}
		sched := p.cells[schedCell]

		cells := make([]Cell, size)
		for k := 0; k < size; k++ {
			cells[k] = p.declare(PickCell, fmt.Sprintf("pick_%s_%d_%d", name, step, k), typeLo, typeHi, nil)
		}

		var distinct []string
		for i := 0; i < size; i++ {
			distinct = append(distinct, fmt.Sprintf("%s =\\= %s", cells[i].v, sched.v))
			for j := i + 1; j < size; j++ {
				distinct = append(distinct, fmt.Sprintf("%s =\\= %s", cells[i].v, cells[j].v))
			}
		}
		if len(distinct) == 0 {
			continue
		}
		guard, err := usesPickGuard(sched.v, usedByKind, kinds)
		if err != nil {
			return err
		}
		p.constraints = append(p.constraints,
			fmt.Sprintf("(%s -> (%s) ; true)", guard, strings.Join(distinct, ", ")))
	}
	return nil
}

// usesPickGuard renders "the agent bound to schedVar belongs to a kind
// whose behavior uses this pick" as a disjunction of range-membership
// checks over the kinds that do.
func usesPickGuard(schedVar string, usedByKind map[string]bool, kinds []info.AgentKind) (string, error) {
	var clauses []string
	for _, k := range kinds {
		if usedByKind[k.Name] {
			clauses = append(clauses, fmt.Sprintf("(%s >= %d, %s < %d)", schedVar, k.Lo, schedVar, k.Hi))
		}
	}
	if len(clauses) == 0 {
		return "", fmt.Errorf("no agent kind uses this pick")
	}
	return strings.Join(clauses, " ; "), nil
}

// AddAssume renders a quantifier-free, extern-substituted assume condition
// (already processed by internal/rewrite) as a Prolog arithmetic goal and
// adds it as a hard constraint (spec.md §4.5 setup step 4). Every Ref it
// touches must name a declared cell's Label.
func (p *Problem) AddAssume(cond ast.Node) error {
	goal, err := p.prologExpr(cond)
	if err != nil {
		return err
	}
	p.constraints = append(p.constraints, goal)
	return nil
}

func (p *Problem) prologExpr(n ast.Node) (string, error) {
	switch v := n.(type) {
	case ast.Literal:
		return fmt.Sprintf("%d", v.Value), nil
	case ast.Ref:
		idx, ok := p.byLabel[v.Name]
		if !ok {
			return "", fmt.Errorf("assume references undeclared cell %q", v.Name)
		}
		return p.cells[idx].v, nil
	case ast.Builtin:
		args, err := p.prologExprAll(v.Operands)
		if err != nil {
			return "", err
		}
		switch v.Fn {
		case ast.FnNot:
			return fmt.Sprintf("\\+ (%s)", args[0]), nil
		case ast.FnAbs:
			return fmt.Sprintf("abs(%s)", args[0]), nil
		case ast.FnMin, ast.FnMax:
			return fmt.Sprintf("%s(%s)", v.Fn, strings.Join(args, ", ")), nil
		}
	case ast.Expr:
		return p.prologInfix(prologOpSymbol(v.Op), v.Operands)
	case ast.Comparison:
		return p.prologInfix(prologCmpSymbol(v.Op), v.Operands)
	}
	return "", fmt.Errorf("cannot render node %#v as a Prolog goal", n)
}

func (p *Problem) prologExprAll(nodes []ast.Node) ([]string, error) {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		s, err := p.prologExpr(n)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (p *Problem) prologInfix(op string, operands []ast.Node) (string, error) {
	parts, err := p.prologExprAll(operands)
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")", nil
}

func prologOpSymbol(op ast.Op) string {
	switch op {
	case ast.OpAnd:
		return ","
	case ast.OpOr:
		return ";"
	case ast.OpMod:
		return "mod"
	case ast.OpDiv:
		return "//"
	default:
		return op.String()
	}
}

func prologCmpSymbol(op ast.CmpOp) string {
	switch op {
	case ast.CmpEq:
		return "=:="
	case ast.CmpNe:
		return "=\\="
	case ast.CmpGe:
		return ">="
	case ast.CmpLe:
		return "=<"
	default:
		return op.String()
	}
}

// nondeterministic returns the cells whose declared domain has more than
// one feasible value, in a stable label order (the soft-constraint layer
// only needs one boolean per such cell; spec.md §4.5 "Randomization").
func (p *Problem) nondeterministic() []Cell {
	out := make([]Cell, 0, len(p.cells))
	for _, c := range p.cells {
		if c.cardinality() > 1 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
