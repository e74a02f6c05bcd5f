// Package ast defines the tagged-tree nodes of a source-language property or
// expression as a Go sum type: one struct per node kind, all implementing
// Node, rather than the string-keyed attribute bags the original Python
// implementation used (sliver/labsparse). Attribute access becomes type
// assertion / switch instead of dictionary lookup.
package ast

// Node is implemented by every expression/property AST node.
type Node interface {
	node()
}

// Quant is the quantifier kind of a QFormula binder.
type Quant int

const (
	Forall Quant = iota
	Exists
)

func (q Quant) String() string {
	if q == Forall {
		return "forall"
	}
	return "exists"
}

// Literal is an integer constant.
type Literal struct {
	Value int
}

// Ref is a reference to a declared variable, optionally specialized to a
// quantified agent variable via Of (e.g. "x of a").
type Ref struct {
	Name   string
	Offset Node // nil for scalars; an index expression for array cells
	Of     string
}

// RefExt is a reference to an extern constant, eliminated by extern
// substitution before evaluation.
type RefExt struct {
	Name string
}

// BuiltinFn enumerates the builtin unary functions.
type BuiltinFn int

const (
	FnAbs BuiltinFn = iota
	FnMin
	FnMax
	FnNot
)

func (f BuiltinFn) String() string {
	return [...]string{"abs", "min", "max", "not"}[f]
}

// Op enumerates the binary/n-ary arithmetic and logical operators.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpRangeNondet // "nondet-from-range": x .. y
)

func (o Op) String() string {
	return [...]string{"+", "-", "*", "/", "%", "and", "or", "nondet-from-range"}[o]
}

// CmpOp enumerates comparison operators.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpGt
	CmpGe
	CmpLt
	CmpLe
)

func (c CmpOp) String() string {
	return [...]string{"=", "!=", ">", ">=", "<", "<="}[c]
}

// Expr is an n-ary arithmetic or logical expression.
type Expr struct {
	Op       Op
	Operands []Node
}

// Builtin applies a builtin function to its operands.
type Builtin struct {
	Fn       BuiltinFn
	Operands []Node
}

// Comparison is an n-ary chained comparison (folded pairwise by the
// evaluator, as LAbS comparisons are left-associative).
type Comparison struct {
	Op       CmpOp
	Operands []Node
}

// If is a conditional expression.
type If struct {
	Cond Node
	Then Node
	Else Node
}

// QVar is one binder of a quantified formula.
type QVar struct {
	Quant Quant
	Kind  string // agent kind quantified over
	Name  string // bound variable name
}

// QFormula is a first-order formula quantified over agent variables. After
// property rewriting no QFormula nodes remain (quantifier elimination
// invariant, spec.md §3).
type QFormula struct {
	QVars     []QVar
	Condition Node
}

// Pick is a nondeterministic choice of `Size` distinct agent ids, optionally
// restricted to Type, used both as a behavior-expression statement and
// (via PickRef) inside expressions referring to its bound name.
type Pick struct {
	Name  string
	Size  int
	Type  string // "" when untyped
	Where Node   // nil when absent; currently advisory only (spec.md §4.5)
}

// Block is a sequence of assignments evaluated as a single atomic unit by
// the value analyzer (spec.md §4.3).
type Block struct {
	Body []*Assign
}

// AssignKind distinguishes ordinary assignment from a local (block-scoped)
// variable introduction.
type AssignKind int

const (
	AssignOrdinary AssignKind = iota
	AssignLocal
)

// Assign is a (possibly parallel) assignment x1,...,xn := e1,...,en.
type Assign struct {
	Lhs  []Ref
	Rhs  []Node
	Kind AssignKind
}

// CompOp enumerates behavior-expression composition operators.
type CompOp int

const (
	CompSeq CompOp = iota
	CompChoice
	CompPar
)

// Composition composes two or more behavior-expression operands.
type Composition struct {
	Op       CompOp
	Operands []Node
}

// Guarded gates Body on Cond.
type Guarded struct {
	Cond Node
	Body Node
}

// Call invokes a named process definition.
type Call struct {
	Name string
}

func (Literal) node()     {}
func (Ref) node()         {}
func (RefExt) node()      {}
func (Expr) node()        {}
func (Builtin) node()     {}
func (Comparison) node()  {}
func (If) node()          {}
func (QFormula) node()    {}
func (Block) node()       {}
func (*Assign) node()     {}
func (Composition) node() {}
func (Guarded) node()     {}
func (Call) node()        {}
func (Pick) node()        {}
