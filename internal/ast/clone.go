package ast

// Clone returns a deep copy of the tree rooted at n. The copy shares no
// nodes with the original, so either side can be mutated freely afterward.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	switch n := n.(type) {
	case *Program:
		return &Program{Body: cloneList(n.Body)}
	case *FunctionDef:
		return &FunctionDef{
			Name:       n.Name,
			Params:     append([]string(nil), n.Params...),
			Body:       cloneList(n.Body),
			Decorators: cloneList(n.Decorators),
		}
	case *ClassDef:
		return &ClassDef{
			Name:       n.Name,
			Bases:      cloneList(n.Bases),
			Body:       cloneList(n.Body),
			Decorators: cloneList(n.Decorators),
		}
	case *Assign:
		return &Assign{Targets: cloneList(n.Targets), Value: Clone(n.Value)}
	case *Return:
		return &Return{Value: Clone(n.Value)}
	case *If:
		return &If{Test: Clone(n.Test), Body: cloneList(n.Body), Else: cloneList(n.Else)}
	case *For:
		return &For{Target: Clone(n.Target), Iter: Clone(n.Iter), Body: cloneList(n.Body), Else: cloneList(n.Else)}
	case *While:
		return &While{Test: Clone(n.Test), Body: cloneList(n.Body), Else: cloneList(n.Else)}
	case *BinOp:
		return &BinOp{Left: Clone(n.Left), Op: n.Op, Right: Clone(n.Right)}
	case *UnaryOp:
		return &UnaryOp{Op: n.Op, Operand: Clone(n.Operand)}
	case *Call:
		return &Call{Func: Clone(n.Func), Args: cloneList(n.Args)}
	case *Name:
		return &Name{ID: n.ID, Ctx: n.Ctx}
	case *Attribute:
		return &Attribute{Value: Clone(n.Value), Attr: n.Attr, Ctx: n.Ctx}
	case *Constant:
		return &Constant{Value: n.Value}
	case *Import:
		return &Import{Names: append([]Alias(nil), n.Names...)}
	case *ImportFrom:
		return &ImportFrom{Module: n.Module, Names: append([]Alias(nil), n.Names...), Level: n.Level}
	case *Expr:
		return &Expr{Value: Clone(n.Value)}
	case *Raise:
		return &Raise{Exc: Clone(n.Exc), Cause: Clone(n.Cause)}
	case *Break:
		return &Break{}
	case *Continue:
		return &Continue{}
	case *Pass:
		return &Pass{}
	case *Extension:
		fields := make(map[string]any, len(n.Fields))
		for k, v := range n.Fields {
			fields[k] = v
		}
		return &Extension{Tag: n.Tag, Fields: fields, Kids: cloneList(n.Kids)}
	}
	return n
}

func cloneList(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}
