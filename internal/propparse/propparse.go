// Package propparse parses a check{} clause's property text into the
// sum-type AST of internal/ast, the step between the encoder's opaque
// info.Property.Text and the quantifier eliminator/emitters of
// internal/rewrite (spec.md §4.4).
//
// The check{} clause's grammar is never parsed by the original
// implementation itself (original_source/sliver/utils/parser.py's CHECK
// rule skips straight to the closing brace; property parsing happens
// downstream, in code retrieval did not include), so this grammar is a
// compact expression/quantifier language built to the same shape as that
// file's EXPR/BEXPR productions: arithmetic and boolean infix operators at
// the same precedence, comparisons, abs/min/max builtins, dotted
// var-of-agent references, and an explicit forall/exists prefix.
//
//	property  := quant* implication
//	quant     := ("forall" | "exists") IDENT "in" KIND
//	implication := or ("->" or)?
//	or        := and ("or" and)*
//	and       := cmp ("and" cmp)*
//	cmp       := arith (("="|"!="|">"|">="|"<"|"<=") arith)?
//	arith     := term (("+"|"-") term)*
//	term      := unary (("*"|"/"|"%") unary)*
//	unary     := "-" unary | "not" unary | atom
//	atom      := INT | "(" implication ")" | BUILTIN "(" implication ("," implication)* ")"
//	           | "_" IDENT | ref
//	ref       := IDENT ("." IDENT)? ("[" implication "]")?
package propparse

import (
	"fmt"

	"github.com/labs-lang/sliver/internal/ast"
)

// Parse builds an AST from a property's condition text (spec.md §6,
// "check{}" clause). Implication "a -> b" desugars to "(not a) or b": the
// AST has no dedicated implication node.
func Parse(text string) (ast.Node, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseQuantPrefix()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("unexpected token %q at position %d", p.peek().text, p.pos)
	}
	return n, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) atEnd() bool { return p.peek().kind == tokEOF }

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(kind tokKind, text string) error {
	t := p.next()
	if t.kind != kind || (text != "" && t.text != text) {
		return fmt.Errorf("expected %q, got %q at position %d", text, t.text, p.pos-1)
	}
	return nil
}

func (p *parser) accept(kind tokKind, text string) bool {
	if t := p.peek(); t.kind == kind && (text == "" || t.text == text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseQuantPrefix() (ast.Node, error) {
	var qvars []ast.QVar
	for p.accept(tokIdent, "forall") || p.accept(tokIdent, "exists") {
		quant := ast.Forall
		if p.toks[p.pos-1].text == "exists" {
			quant = ast.Exists
		}
		name := p.next()
		if name.kind != tokIdent {
			return nil, fmt.Errorf("expected bound variable name after quantifier")
		}
		if err := p.expect(tokIdent, "in"); err != nil {
			return nil, err
		}
		kind := p.next()
		if kind.kind != tokIdent {
			return nil, fmt.Errorf("expected agent kind after 'in'")
		}
		qvars = append(qvars, ast.QVar{Quant: quant, Kind: kind.text, Name: name.text})
	}
	cond, err := p.parseImplication()
	if err != nil {
		return nil, err
	}
	if len(qvars) == 0 {
		return cond, nil
	}
	return ast.QFormula{QVars: qvars, Condition: cond}, nil
}

func (p *parser) parseImplication() (ast.Node, error) {
	lhs, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.accept(tokOp, "->") {
		rhs, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		return ast.Expr{Op: ast.OpOr, Operands: []ast.Node{
			ast.Builtin{Fn: ast.FnNot, Operands: []ast.Node{lhs}}, rhs,
		}}, nil
	}
	return lhs, nil
}

func (p *parser) parseOr() (ast.Node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	operands := []ast.Node{lhs}
	for p.accept(tokIdent, "or") {
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, rhs)
	}
	if len(operands) == 1 {
		return lhs, nil
	}
	return ast.Expr{Op: ast.OpOr, Operands: operands}, nil
}

func (p *parser) parseAnd() (ast.Node, error) {
	lhs, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	operands := []ast.Node{lhs}
	for p.accept(tokIdent, "and") {
		rhs, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		operands = append(operands, rhs)
	}
	if len(operands) == 1 {
		return lhs, nil
	}
	return ast.Expr{Op: ast.OpAnd, Operands: operands}, nil
}

var cmpOps = map[string]ast.CmpOp{
	"=": ast.CmpEq, "!=": ast.CmpNe, ">": ast.CmpGt,
	">=": ast.CmpGe, "<": ast.CmpLt, "<=": ast.CmpLe,
}

func (p *parser) parseCmp() (ast.Node, error) {
	lhs, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind == tokOp {
		if op, ok := cmpOps[t.text]; ok {
			p.next()
			rhs, err := p.parseArith()
			if err != nil {
				return nil, err
			}
			return ast.Comparison{Op: op, Operands: []ast.Node{lhs, rhs}}, nil
		}
	}
	return lhs, nil
}

func (p *parser) parseArith() (ast.Node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind == tokOp && (t.text == "+" || t.text == "-") {
			p.next()
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			op := ast.OpAdd
			if t.text == "-" {
				op = ast.OpSub
			}
			lhs = ast.Expr{Op: op, Operands: []ast.Node{lhs, rhs}}
			continue
		}
		return lhs, nil
	}
}

func (p *parser) parseTerm() (ast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind == tokOp && (t.text == "*" || t.text == "/" || t.text == "%") {
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			op := map[string]ast.Op{"*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod}[t.text]
			lhs = ast.Expr{Op: op, Operands: []ast.Node{lhs, rhs}}
			continue
		}
		return lhs, nil
	}
}

func (p *parser) parseUnary() (ast.Node, error) {
	if p.accept(tokOp, "-") {
		n, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Expr{Op: ast.OpSub, Operands: []ast.Node{ast.Literal{Value: 0}, n}}, nil
	}
	if p.accept(tokIdent, "not") {
		n, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Builtin{Fn: ast.FnNot, Operands: []ast.Node{n}}, nil
	}
	return p.parseAtom()
}

var builtins = map[string]ast.BuiltinFn{"abs": ast.FnAbs, "min": ast.FnMin, "max": ast.FnMax}

func (p *parser) parseAtom() (ast.Node, error) {
	t := p.peek()
	switch {
	case t.kind == tokInt:
		p.next()
		return ast.Literal{Value: t.intVal}, nil
	case t.kind == tokOp && t.text == "(":
		p.next()
		n, err := p.parseImplication()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokOp, ")"); err != nil {
			return nil, err
		}
		return n, nil
	case t.kind == tokExtern:
		p.next()
		return ast.RefExt{Name: t.text}, nil
	case t.kind == tokIdent:
		if fn, ok := builtins[t.text]; ok && p.pos+1 < len(p.toks) && p.toks[p.pos+1].text == "(" {
			p.next()
			p.next()
			var operands []ast.Node
			for {
				n, err := p.parseImplication()
				if err != nil {
					return nil, err
				}
				operands = append(operands, n)
				if !p.accept(tokOp, ",") {
					break
				}
			}
			if err := p.expect(tokOp, ")"); err != nil {
				return nil, err
			}
			return ast.Builtin{Fn: fn, Operands: operands}, nil
		}
		return p.parseRef()
	}
	return nil, fmt.Errorf("unexpected token %q at position %d", t.text, p.pos)
}

func (p *parser) parseRef() (ast.Node, error) {
	first := p.next()
	name, of := first.text, ""
	if p.accept(tokOp, ".") {
		field := p.next()
		if field.kind != tokIdent {
			return nil, fmt.Errorf("expected field name after '.'")
		}
		of, name = first.text, field.text
	}
	var offset ast.Node
	if p.accept(tokOp, "[") {
		n, err := p.parseImplication()
		if err != nil {
			return nil, err
		}
		offset = n
		if err := p.expect(tokOp, "]"); err != nil {
			return nil, err
		}
	}
	return ast.Ref{Name: name, Offset: offset, Of: of}, nil
}
