package ast

// Walk calls visit on node and every node reachable from it (pre-order),
// stopping the recursion into a subtree when visit returns false.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, visit)
	}
}

// Children returns the immediate child nodes of n, in evaluation order.
func Children(n Node) []Node {
	switch v := n.(type) {
	case Ref:
		if v.Offset != nil {
			return []Node{v.Offset}
		}
	case Expr:
		return v.Operands
	case Builtin:
		return v.Operands
	case Comparison:
		return v.Operands
	case If:
		return []Node{v.Cond, v.Then, v.Else}
	case QFormula:
		return []Node{v.Condition}
	case Block:
		out := make([]Node, len(v.Body))
		for i, a := range v.Body {
			out[i] = a
		}
		return out
	case *Assign:
		out := append([]Node(nil), v.Rhs...)
		return out
	case Composition:
		return v.Operands
	case Guarded:
		return []Node{v.Cond, v.Body}
	case Pick:
		if v.Where != nil {
			return []Node{v.Where}
		}
	}
	return nil
}

// Refs collects the name of every Ref node reachable from n (not
// recursing into Offset index expressions' own Ref names duplicated).
func Refs(n Node) []string {
	var names []string
	Walk(n, func(x Node) bool {
		if r, ok := x.(Ref); ok {
			names = append(names, r.Name)
		}
		return true
	})
	return names
}
