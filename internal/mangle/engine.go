// Package mangle wraps the Google Mangle (Datalog) engine as a tiny
// fact-store + stratified-rule evaluator, used by internal/valueanalysis to
// compute the variable dependency graph's transitive closure and feed the
// won't-change certification (spec.md §4.3).
//
// Adapted and trimmed from theRebelliousNerd-codenerd's
// internal/mangle/engine.go: the same AddFact / GetFacts surface, with the
// schema parsed once in New, stripped of the knowledge-graph persistence and file-scoped fact
// bookkeeping our dependency analysis has no use for.
package mangle

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
)

// Engine evaluates a fixed Datalog schema over a growing set of facts,
// re-materializing the fixpoint after every insert.
type Engine struct {
	mu             sync.Mutex
	store          factstore.FactStoreWithRemove
	programInfo    *analysis.ProgramInfo
	queryContext   *mengine.QueryContext
	predicateIndex map[string]ast.PredicateSym
}

// New parses schema (Decl plus rule clauses) and returns a ready-to-use
// Engine over an empty fact store.
func New(schema string) (*Engine, error) {
	unit, err := parse.Unit(bytes.NewReader([]byte(schema)))
	if err != nil {
		return nil, fmt.Errorf("parsing mangle schema: %w", err)
	}

	e := &Engine{store: factstore.NewSimpleInMemoryStore()}
	if err := e.load(unit); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(unit parse.SourceUnit) error {
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return fmt.Errorf("analyzing mangle schema: %w", err)
	}
	e.programInfo = programInfo
	e.predicateIndex = make(map[string]ast.PredicateSym, len(programInfo.Decls))

	predToDecl := make(map[ast.PredicateSym]*ast.Decl, len(programInfo.Decls))
	for sym, decl := range programInfo.Decls {
		e.predicateIndex[sym.Symbol] = sym
		predToDecl[sym] = decl
	}
	predToRules := make(map[ast.PredicateSym][]ast.Clause)
	for _, clause := range programInfo.Rules {
		predToRules[clause.Head.Predicate] = append(predToRules[clause.Head.Predicate], clause)
	}

	e.queryContext = &mengine.QueryContext{
		PredToRules: predToRules,
		PredToDecl:  predToDecl,
		Store:       e.store,
	}
	return nil
}

// AddFact asserts predicate(args...) and re-materializes the fixpoint.
func (e *Engine) AddFact(predicate string, args ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sym, ok := e.predicateIndex[predicate]
	if !ok {
		return fmt.Errorf("predicate %s is not declared", predicate)
	}
	if len(args) != sym.Arity {
		return fmt.Errorf("predicate %s expects %d args, got %d", predicate, sym.Arity, len(args))
	}
	baseArgs := make([]ast.BaseTerm, len(args))
	for i, a := range args {
		baseArgs[i] = ast.String(a)
	}
	e.store.Add(ast.NewAtom(sym.Symbol, baseArgs...))

	_, err := mengine.EvalProgramWithStats(e.programInfo, e.store)
	return err
}

// GetFacts returns every derived (or asserted) tuple for predicate, in
// declaration argument order.
func (e *Engine) GetFacts(predicate string) ([][]string, error) {
	e.mu.Lock()
	sym, ok := e.predicateIndex[predicate]
	e.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("predicate %s is not declared", predicate)
	}

	var rows [][]string
	err := e.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		row := make([]string, len(atom.Args))
		for i, a := range atom.Args {
			row[i] = fmt.Sprint(a)
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Close discards the engine's fact store.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = factstore.NewSimpleInMemoryStore()
}
