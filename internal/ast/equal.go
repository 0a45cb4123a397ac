package ast

// Equal reports whether two trees are structurally identical: same kind,
// same scalar fields, and pairwise-equal children at every node.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *Program:
		return equalLists(a.Body, b.(*Program).Body)
	case *FunctionDef:
		o := b.(*FunctionDef)
		return a.Name == o.Name &&
			equalStrings(a.Params, o.Params) &&
			equalLists(a.Body, o.Body) &&
			equalLists(a.Decorators, o.Decorators)
	case *ClassDef:
		o := b.(*ClassDef)
		return a.Name == o.Name &&
			equalLists(a.Bases, o.Bases) &&
			equalLists(a.Body, o.Body) &&
			equalLists(a.Decorators, o.Decorators)
	case *Assign:
		o := b.(*Assign)
		return equalLists(a.Targets, o.Targets) && Equal(a.Value, o.Value)
	case *Return:
		return Equal(a.Value, b.(*Return).Value)
	case *If:
		o := b.(*If)
		return Equal(a.Test, o.Test) && equalLists(a.Body, o.Body) && equalLists(a.Else, o.Else)
	case *For:
		o := b.(*For)
		return Equal(a.Target, o.Target) && Equal(a.Iter, o.Iter) &&
			equalLists(a.Body, o.Body) && equalLists(a.Else, o.Else)
	case *While:
		o := b.(*While)
		return Equal(a.Test, o.Test) && equalLists(a.Body, o.Body) && equalLists(a.Else, o.Else)
	case *BinOp:
		o := b.(*BinOp)
		return a.Op == o.Op && Equal(a.Left, o.Left) && Equal(a.Right, o.Right)
	case *UnaryOp:
		o := b.(*UnaryOp)
		return a.Op == o.Op && Equal(a.Operand, o.Operand)
	case *Call:
		o := b.(*Call)
		return Equal(a.Func, o.Func) && equalLists(a.Args, o.Args)
	case *Name:
		o := b.(*Name)
		return a.ID == o.ID && a.Ctx == o.Ctx
	case *Attribute:
		o := b.(*Attribute)
		return a.Attr == o.Attr && a.Ctx == o.Ctx && Equal(a.Value, o.Value)
	case *Constant:
		return a.Value == b.(*Constant).Value
	case *Import:
		return equalAliases(a.Names, b.(*Import).Names)
	case *ImportFrom:
		o := b.(*ImportFrom)
		return a.Module == o.Module && a.Level == o.Level && equalAliases(a.Names, o.Names)
	case *Expr:
		return Equal(a.Value, b.(*Expr).Value)
	case *Raise:
		o := b.(*Raise)
		return Equal(a.Exc, o.Exc) && Equal(a.Cause, o.Cause)
	case *Break, *Continue, *Pass:
		return true
	case *Extension:
		o := b.(*Extension)
		if a.Tag != o.Tag || len(a.Fields) != len(o.Fields) || !equalLists(a.Kids, o.Kids) {
			return false
		}
		for k, v := range a.Fields {
			if ov, ok := o.Fields[k]; !ok || v != ov {
				return false
			}
		}
		return true
	}
	return false
}

func equalLists(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalAliases(a, b []Alias) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
