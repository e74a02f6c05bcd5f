package rewrite

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/info"
)

// box and diamond are the two CADP modal-µ-calculus wrapping operators.
func box(s string) string     { return "[" + s + "]" }
func diamond(s string) string { return "<" + s + ">" }

// label maps a store tag to its action prefix in the emitted LNT program
// (spec.md §4.4: ATTR for interface, L for stigmergy, E for environment).
func label(s info.Store) string {
	switch s {
	case info.Interface:
		return "ATTR"
	case info.Lstig:
		return "L"
	default:
		return "E"
	}
}

// splitLabel splits a specialized "name_<id>" label back into its variable
// name and agent id.
func splitLabel(varname string) (name string, id int, err error) {
	i := strings.LastIndex(varname, "_")
	if i < 0 {
		return "", 0, fmt.Errorf("malformed specialized variable label %q", varname)
	}
	name = varname[:i]
	id, err = strconv.Atoi(varname[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed specialized variable label %q: %w", varname, err)
	}
	return name, id, nil
}

// sprintAssign renders the LNT action pattern matching an assignment to the
// specialized variable varname, binding its value to bindsTo.
func sprintAssign(varname string, inf info.Info, bindsTo string) (string, error) {
	name, id, err := splitLabel(varname)
	if err != nil {
		return "", err
	}
	if name == "id" {
		return "", nil
	}
	v, err := inf.LookupVar(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("{%s !%d !%d ?%s:Int ...}", label(v.Store), id, v.Index, bindsTo), nil
}

func preprocess(params []string, prefix string, inf info.Info) (varnames, inits, nuParams []string, err error) {
	sorted := append([]string(nil), params...)
	sort.Strings(sorted)

	names := make(map[string]bool)
	for _, p := range sorted {
		name, _, splitErr := splitLabel(p)
		if splitErr != nil {
			return nil, nil, nil, splitErr
		}
		names[name] = true
	}
	for n := range names {
		varnames = append(varnames, n)
	}
	sort.Strings(varnames)

	prefixed := prefix
	if prefix != "" {
		prefixed = prefix + "_"
	}
	for _, p := range sorted {
		assign, assignErr := sprintAssign(p, inf, prefixed+p)
		if assignErr != nil {
			return nil, nil, nil, assignErr
		}
		inits = append(inits, assign)
		nuParams = append(nuParams, fmt.Sprintf("%s:Int:=%s%s", p, prefixed, p))
	}
	return varnames, inits, nuParams, nil
}

func updateClauses(params []string, inf info.Info, fn string, boxOrDiamond func(string) string) ([]string, error) {
	out := make([]string, 0, len(params))
	for i, p := range params {
		assign, err := sprintAssign(p, inf, "v")
		if err != nil {
			return nil, err
		}
		replaced := append([]string(nil), params...)
		replaced[i] = "v"
		out = append(out, fmt.Sprintf("(%s%s(%s))", boxOrDiamond(assign), fn, strings.Join(replaced, ", ")))
	}
	return out, nil
}

// sprintIrrelevant renders the predicate matching every action that cannot
// affect names: the negation of any ATTR/L/E action touching one of
// names' store indices, conjoined/disjoined with fn via boxOrDiamond.
func sprintIrrelevant(names []string, inf info.Info, fn string, boxOrDiamond func(string) string, notSpurious bool) (string, error) {
	type byStore struct {
		iface, lstig, env []info.Variable
	}
	var grouped byStore
	seenStore := make(map[info.Store]bool)
	for _, n := range names {
		if n == "id" {
			continue
		}
		v, err := inf.LookupVar(n)
		if err != nil {
			return "", err
		}
		seenStore[v.Store] = true
		switch v.Store {
		case info.Interface:
			grouped.iface = append(grouped.iface, v)
		case info.Lstig:
			grouped.lstig = append(grouped.lstig, v)
		case info.Environment:
			grouped.env = append(grouped.env, v)
		}
	}
	if len(seenStore) == 0 {
		return "", nil
	}

	filter := func(vs []info.Variable) string {
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = fmt.Sprintf("(x <> %d)", v.Index)
		}
		return strings.Join(parts, " and ")
	}

	var other []string
	if notSpurious {
		other = append(other, `(not "SPURIOUS")`)
	}
	for _, s := range []info.Store{info.Interface, info.Lstig, info.Environment} {
		if seenStore[s] {
			other = append(other, fmt.Sprintf("(not {%s ...})", label(s)))
		}
	}

	result := fmt.Sprintf("(%s)", strings.Join(other, " and "))
	if len(grouped.iface) > 0 {
		result += fmt.Sprintf(" or {ATTR ?any ?x:Nat ... where (%s)}", filter(grouped.iface))
	}
	if len(grouped.lstig) > 0 {
		result += fmt.Sprintf(" or {L ?any ?x:Nat ... where (%s)}", filter(grouped.lstig))
	}
	if len(grouped.env) > 0 {
		result += fmt.Sprintf(" or {E ?any ?x:Nat ... where (%s)}", filter(grouped.env))
	}
	return fmt.Sprintf("(%s %s)", boxOrDiamond(result), fn), nil
}

func sprintPredicate(params []string, body string) string {
	return fmt.Sprintf("\nmacro Predicate(%s) =\n    %s\nend_macro\n", strings.Join(params, ", "), body)
}

func sprintReach(params []string, inf info.Info) (string, error) {
	varnames, _, nuParams, err := preprocess(params, "args", inf)
	if err != nil {
		return "", err
	}
	macroParams := make([]string, len(params))
	for i, p := range params {
		macroParams[i] = "args_" + p
	}
	irrelevant, err := sprintIrrelevant(varnames, inf, fmt.Sprintf("R(%s)", strings.Join(params, ", ")), diamond, true)
	if err != nil {
		return "", err
	}
	updates, err := updateClauses(params, inf, "R", diamond)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
macro Reach(%s) =
mu R (%s) . (
    Predicate(%s)
    or
    ((<"SPURIOUS"> true) and ([not "SPURIOUS"] false))
    or
    %s
    or
    %s)
end_macro
`, strings.Join(macroParams, ", "), strings.Join(nuParams, ", "), strings.Join(params, ", "), irrelevant, strings.Join(updates, "\n    or\n    ")), nil
}

func sprintFinally(params []string, inf info.Info) (string, error) {
	names, inits, nuParams, err := preprocess(params, "", inf)
	if err != nil {
		return "", err
	}
	irrelevantOnce, err := sprintIrrelevant(names, inf, "", box, false)
	if err != nil {
		return "", err
	}
	irrelevantStar := irrelevantOnce + "*"

	interleaved := make([]string, 0, 2*len(inits))
	for _, init := range inits {
		interleaved = append(interleaved, irrelevantStar, init)
	}

	irrelevant, err := sprintIrrelevant(names, inf, fmt.Sprintf("R(%s)", strings.Join(params, ", ")), box, false)
	if err != nil {
		return "", err
	}
	updates, err := updateClauses(params, inf, "R", box)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
[%s]
mu R (%s) . (
    (Predicate(%s)
    or
    ((<"SPURIOUS"> true) and ([not "SPURIOUS"] false)))
    or
    (%s
    and
    %s))
`, strings.Join(interleaved, " . "), strings.Join(nuParams, ", "), strings.Join(params, ", "), irrelevant, strings.Join(updates, "\n    and\n    ")), nil
}

func sprintInvariant(params []string, inf info.Info, name, shortCircuit string) (string, error) {
	names, inits, nuParams, err := preprocess(params, "init", inf)
	if err != nil {
		return "", err
	}
	irrelevantOnce, err := sprintIrrelevant(names, inf, "", box, false)
	if err != nil {
		return "", err
	}
	irrelevantStar := irrelevantOnce + "*"
	interleaved := make([]string, 0, 2*len(inits))
	for _, init := range inits {
		interleaved = append(interleaved, irrelevantStar, init)
	}

	circuitOpen, circuitClose := "", ""
	circuit := ""
	if shortCircuit != "" {
		circuit = fmt.Sprintf("%s(%s) or ", shortCircuit, strings.Join(params, ", "))
		circuitOpen, circuitClose = "(", ")"
	}

	irrelevant, err := sprintIrrelevant(names, inf, fmt.Sprintf("Inv(%s)", strings.Join(params, ", ")), box, false)
	if err != nil {
		return "", err
	}
	updates, err := updateClauses(params, inf, "Inv", box)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
[%s]
nu Inv (%s) . (
    %s(%s)
    and
    %s%s%s
    and
    %s
%s)
`, strings.Join(interleaved, " . "), strings.Join(nuParams, ", "), name, strings.Join(params, ", "),
		circuit, circuitOpen, irrelevant, strings.Join(updates, "\n    and\n    "), circuitClose), nil
}

// pprintMCL renders a quantifier-free, extern-substituted expression AST in
// CADP's MCL predicate syntax.
func pprintMCL(n ast.Node) string {
	switch v := n.(type) {
	case ast.Literal:
		return strconv.Itoa(v.Value)
	case ast.Ref:
		return v.Name
	case ast.Builtin:
		args := make([]string, len(v.Operands))
		for i, o := range v.Operands {
			args[i] = pprintMCL(o)
		}
		return fmt.Sprintf("%s(%s)", v.Fn, strings.Join(args, ", "))
	case ast.Expr:
		return pprintInfix(opSymbol(v.Op), v.Operands)
	case ast.Comparison:
		return pprintInfix(cmpSymbol(v.Op), v.Operands)
	default:
		return fmt.Sprintf("%v", n)
	}
}

func pprintInfix(op string, operands []ast.Node) string {
	parts := make([]string, len(operands))
	for i, o := range operands {
		parts[i] = pprintMCL(o)
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}

func opSymbol(op ast.Op) string {
	if op == ast.OpMod {
		return "mod"
	}
	return op.String()
}

func cmpSymbol(op ast.CmpOp) string {
	if op == ast.CmpNe {
		return "<>"
	}
	return op.String()
}
