// Package concretize builds and solves the SMT-style concretization problem
// of spec.md §4.5 over a real constraint engine: the initial state, the
// scheduler and the per-step pick arrays become Horn-clause goals, and
// source assumes are rendered as Prolog arithmetic constraints. There is no
// SMT solver in the dependency stack available to this module, so the
// problem is lowered to generate-and-test logic programming instead:
// `between/3` supplies each cell's candidate domain, comparison goals prune
// it, and backtracking plays the role the spec assigns to `check()`.
//
// Adapted from rfielding-turducken's pkg/prolog/engine.go /
// internal/prolog/kernel.go: the same mutex-guarded *prolog.Interpreter,
// Exec-to-load and QueryContext-to-solve shape, trimmed of the CTL/CSP
// predicate library that module has no use for here.
package concretize

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/ichiban/prolog"
)

type engine struct {
	mu sync.Mutex
	p  *prolog.Interpreter
}

func newEngine() *engine {
	return &engine{p: prolog.New(nil, nil)}
}

func (e *engine) assert(clause string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.p.Exec(fmt.Sprintf(":- assertz((%s)).", clause))
}

// solve conjoins goal with a closing `Row = [Label1-Var1, ...]` unification
// spelling out every solved cell, runs the query, and on the first solution
// parses Row back into a label->value map. Binding the whole row through a
// single variable sidesteps needing one struct field per cell, whose count
// varies with the problem; it is the same flattened-term-then-string-parse
// trick the teacher's termToString applies to ichiban/prolog's character
// lists, just aimed at a `-`-pair list instead of a code list.
func (e *engine) solve(ctx context.Context, goal string, row []pair) (map[string]int, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pairs := make([]string, len(row))
	for i, p := range row {
		pairs[i] = fmt.Sprintf("%s-%s", p.label, p.v)
	}
	full := fmt.Sprintf("%s, Row = [%s]", goal, strings.Join(pairs, ", "))

	sols, err := e.p.QueryContext(ctx, full)
	if err != nil {
		return nil, false, err
	}
	defer sols.Close()

	if !sols.Next() {
		return nil, false, sols.Err()
	}
	var result struct{ Row interface{} }
	if err := sols.Scan(&result); err != nil {
		return nil, false, fmt.Errorf("scanning solution: %w", err)
	}
	return parseRow(fmt.Sprintf("%v", result.Row)), true, nil
}

// pair names a solved cell's label alongside its Prolog variable name, so
// solve can spell out the closing Row unification without reaching into
// problem.go's Cell type.
type pair struct {
	label string
	v     string
}

var rowEntryPattern = regexp.MustCompile(`([A-Za-z0-9_]+)-(-?[0-9]+)`)

// parseRow extracts label/value pairs out of the stringified `Label-Value`
// list ichiban/prolog renders for Row, e.g. "[sched_0-2,I_1_0-5]".
func parseRow(rendered string) map[string]int {
	out := make(map[string]int)
	for _, m := range rowEntryPattern.FindAllStringSubmatch(rendered, -1) {
		if n, err := strconv.Atoi(m[2]); err == nil {
			out[m[1]] = n
		}
	}
	return out
}
