package rewrite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/info"
)

// cExpr renders a quantifier-free, extern-substituted expression in C
// syntax using the flat-array addressing of the emitted program
// (`I[tid][idx]`, `Lvalue[tid][idx]`, `E[idx]`; spec.md §4.4, §3).
func cExpr(n ast.Node, inf info.Info) (string, error) {
	switch v := n.(type) {
	case ast.Literal:
		return strconv.Itoa(v.Value), nil
	case ast.Ref:
		if v.Name == "id" {
			return "", fmt.Errorf("bare agent id has no C lvalue outside an assignment")
		}
		name, id, err := splitLabel(v.Name)
		if err != nil {
			// Not a specialized label (e.g. a local/loop variable): emit as-is.
			return v.Name, nil
		}
		vr, err := inf.LookupVar(name)
		if err != nil {
			return "", err
		}
		switch vr.Store {
		case info.Interface:
			return fmt.Sprintf("I[%d][%d]", id, vr.Index), nil
		case info.Lstig:
			return fmt.Sprintf("Lvalue[%d][%d]", id, vr.Index), nil
		default:
			return fmt.Sprintf("E[%d]", vr.Index), nil
		}
	case ast.Builtin:
		args, err := cExprAll(v.Operands, inf)
		if err != nil {
			return "", err
		}
		switch v.Fn {
		case ast.FnNot:
			return fmt.Sprintf("(!%s)", args[0]), nil
		default:
			return fmt.Sprintf("%s(%s)", v.Fn, strings.Join(args, ", ")), nil
		}
	case ast.Expr:
		return cInfix(cOpSymbol(v.Op), v.Operands, inf)
	case ast.Comparison:
		return cInfix(cCmpSymbol(v.Op), v.Operands, inf)
	default:
		return "", fmt.Errorf("cannot render node %#v to C", n)
	}
}

func cExprAll(nodes []ast.Node, inf info.Info) ([]string, error) {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		s, err := cExpr(n, inf)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func cInfix(op string, operands []ast.Node, inf info.Info) (string, error) {
	parts, err := cExprAll(operands, inf)
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")", nil
}

func cOpSymbol(op ast.Op) string {
	switch op {
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	default:
		return op.String()
	}
}

func cCmpSymbol(op ast.CmpOp) string {
	switch op {
	case ast.CmpEq:
		return "=="
	default:
		return op.String()
	}
}

// EmitCAssertion renders the quantifier-free predicate's C text and the
// surrounding assertion pattern for a BMC target (spec.md §4.4,
// "C-embedded emission"). `always` emits a per-step __CPROVER_assert;
// eventually/finally set a monitor flag and fairly/fairly_inf accumulate a
// fairness-witness flag, whose loop wiring is the backend adapter's
// responsibility (the emitted program, not this string, owns the loop).
// Any other modality (between) is rejected with an error.
func EmitCAssertion(modality info.Modality, predicate ast.Node, inf info.Info) (string, error) {
	rendered, err := cExpr(predicate, inf)
	if err != nil {
		return "", err
	}
	switch modality {
	case info.Always:
		return fmt.Sprintf("__CPROVER_assert(%s, \"always\");", rendered), nil
	case info.Eventually, info.Finally:
		return fmt.Sprintf("if (%s) { __labs_property_monitor = 1; }", rendered), nil
	case info.Fairly, info.FairlyInf:
		return fmt.Sprintf("__labs_fair_witness = __labs_fair_witness || (%s);", rendered), nil
	default:
		return "", fmt.Errorf("unsupported modality %v for C emission", modality)
	}
}

// EmitInvariants renders the __invariants() body inlining the value
// analyzer's loop-invariant assumptions for every certified variable
// (spec.md §4.3 "Output").
func EmitInvariants(certified map[string]bool, bounds map[string][2]int, inf info.Info) string {
	var b strings.Builder
	b.WriteString("void __invariants(void) {\n")
	names := make([]string, 0, len(certified))
	for v, ok := range certified {
		if ok && v != "id" {
			names = append(names, v)
		}
	}
	for _, v := range names {
		bnd, ok := bounds[v]
		if !ok {
			continue
		}
		name, id, err := splitLabel(v)
		if err != nil {
			continue
		}
		vr, err := inf.LookupVar(name)
		if err != nil {
			continue
		}
		var lvalue string
		switch vr.Store {
		case info.Interface:
			lvalue = fmt.Sprintf("I[%d][%d]", id, vr.Index)
		case info.Lstig:
			lvalue = fmt.Sprintf("Lvalue[%d][%d]", id, vr.Index)
		default:
			lvalue = fmt.Sprintf("E[%d]", vr.Index)
		}
		fmt.Fprintf(&b, "  __CPROVER_assume(%s >= %d && %s <= %d);\n", lvalue, bnd[0], lvalue, bnd[1])
	}
	b.WriteString("}\n")
	return b.String()
}
