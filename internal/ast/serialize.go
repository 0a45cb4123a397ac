package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// MarshalTree encodes the tree as JSON with a stable "kind" tag per node.
// UnmarshalTree on the result reconstructs a structurally equal tree.
func MarshalTree(n Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("cannot marshal nil tree")
	}
	return json.MarshalIndent(nodeToMap(n), "", "  ")
}

// UnmarshalTree decodes a tree produced by MarshalTree. Kinds the core does
// not recognize decode to Extension nodes so downstream traversal stays total.
func UnmarshalTree(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return nodeFromMap(raw)
}

// SaveTree writes the JSON encoding of the tree to path.
func SaveTree(n Node, path string) error {
	data, err := MarshalTree(n)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadTree reads a tree previously written by SaveTree.
func LoadTree(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(data)
}

func nodeToMap(n Node) map[string]any {
	if n == nil {
		return nil
	}
	m := map[string]any{"kind": n.Kind().String()}
	switch n := n.(type) {
	case *Program:
		m["body"] = listToMaps(n.Body)
	case *FunctionDef:
		m["name"] = n.Name
		m["params"] = n.Params
		m["body"] = listToMaps(n.Body)
		m["decorators"] = listToMaps(n.Decorators)
	case *ClassDef:
		m["name"] = n.Name
		m["bases"] = listToMaps(n.Bases)
		m["body"] = listToMaps(n.Body)
		m["decorators"] = listToMaps(n.Decorators)
	case *Assign:
		m["targets"] = listToMaps(n.Targets)
		m["value"] = nodeToMap(n.Value)
	case *Return:
		m["value"] = nodeToMap(n.Value)
	case *If:
		m["test"] = nodeToMap(n.Test)
		m["body"] = listToMaps(n.Body)
		m["orelse"] = listToMaps(n.Else)
	case *For:
		m["target"] = nodeToMap(n.Target)
		m["iter"] = nodeToMap(n.Iter)
		m["body"] = listToMaps(n.Body)
		m["orelse"] = listToMaps(n.Else)
	case *While:
		m["test"] = nodeToMap(n.Test)
		m["body"] = listToMaps(n.Body)
		m["orelse"] = listToMaps(n.Else)
	case *BinOp:
		m["left"] = nodeToMap(n.Left)
		m["op"] = n.Op
		m["right"] = nodeToMap(n.Right)
	case *UnaryOp:
		m["op"] = n.Op
		m["operand"] = nodeToMap(n.Operand)
	case *Call:
		m["func"] = nodeToMap(n.Func)
		m["args"] = listToMaps(n.Args)
	case *Name:
		m["id"] = n.ID
		m["ctx"] = string(n.Ctx)
	case *Attribute:
		m["value"] = nodeToMap(n.Value)
		m["attr"] = n.Attr
		m["ctx"] = string(n.Ctx)
	case *Constant:
		m["value"] = literalToRaw(n.Value)
	case *Import:
		m["names"] = n.Names
	case *ImportFrom:
		m["module"] = n.Module
		m["names"] = n.Names
		m["level"] = n.Level
	case *Expr:
		m["value"] = nodeToMap(n.Value)
	case *Raise:
		m["exc"] = nodeToMap(n.Exc)
		m["cause"] = nodeToMap(n.Cause)
	case *Extension:
		m["kind"] = n.Tag
		m["fields"] = fieldsToRaw(n.Fields)
		m["kids"] = listToMaps(n.Kids)
	}
	return m
}

func listToMaps(nodes []Node) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeToMap(n))
	}
	return out
}

func nodeFromMap(raw map[string]any) (Node, error) {
	tag, _ := raw["kind"].(string)
	if tag == "" {
		return nil, fmt.Errorf("node object missing kind tag")
	}
	switch tag {
	case "Program":
		body, err := listFromRaw(raw["body"])
		if err != nil {
			return nil, err
		}
		return &Program{Body: body}, nil
	case "FunctionDef":
		body, err := listFromRaw(raw["body"])
		if err != nil {
			return nil, err
		}
		decorators, err := listFromRaw(raw["decorators"])
		if err != nil {
			return nil, err
		}
		return &FunctionDef{
			Name:       stringField(raw, "name"),
			Params:     stringsFromRaw(raw["params"]),
			Body:       body,
			Decorators: decorators,
		}, nil
	case "ClassDef":
		bases, err := listFromRaw(raw["bases"])
		if err != nil {
			return nil, err
		}
		body, err := listFromRaw(raw["body"])
		if err != nil {
			return nil, err
		}
		decorators, err := listFromRaw(raw["decorators"])
		if err != nil {
			return nil, err
		}
		return &ClassDef{Name: stringField(raw, "name"), Bases: bases, Body: body, Decorators: decorators}, nil
	case "Assign":
		targets, err := listFromRaw(raw["targets"])
		if err != nil {
			return nil, err
		}
		value, err := childFromRaw(raw["value"])
		if err != nil {
			return nil, err
		}
		return &Assign{Targets: targets, Value: value}, nil
	case "Return":
		value, err := childFromRaw(raw["value"])
		if err != nil {
			return nil, err
		}
		return &Return{Value: value}, nil
	case "If":
		return branchFromRaw(raw, func(test Node, body, orelse []Node) Node {
			return &If{Test: test, Body: body, Else: orelse}
		})
	case "While":
		return branchFromRaw(raw, func(test Node, body, orelse []Node) Node {
			return &While{Test: test, Body: body, Else: orelse}
		})
	case "For":
		target, err := childFromRaw(raw["target"])
		if err != nil {
			return nil, err
		}
		iter, err := childFromRaw(raw["iter"])
		if err != nil {
			return nil, err
		}
		body, err := listFromRaw(raw["body"])
		if err != nil {
			return nil, err
		}
		orelse, err := listFromRaw(raw["orelse"])
		if err != nil {
			return nil, err
		}
		return &For{Target: target, Iter: iter, Body: body, Else: orelse}, nil
	case "BinOp":
		left, err := childFromRaw(raw["left"])
		if err != nil {
			return nil, err
		}
		right, err := childFromRaw(raw["right"])
		if err != nil {
			return nil, err
		}
		return &BinOp{Left: left, Op: stringField(raw, "op"), Right: right}, nil
	case "UnaryOp":
		operand, err := childFromRaw(raw["operand"])
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: stringField(raw, "op"), Operand: operand}, nil
	case "Call":
		fn, err := childFromRaw(raw["func"])
		if err != nil {
			return nil, err
		}
		args, err := listFromRaw(raw["args"])
		if err != nil {
			return nil, err
		}
		return &Call{Func: fn, Args: args}, nil
	case "Name":
		return &Name{ID: stringField(raw, "id"), Ctx: Ctx(stringField(raw, "ctx"))}, nil
	case "Attribute":
		value, err := childFromRaw(raw["value"])
		if err != nil {
			return nil, err
		}
		return &Attribute{Value: value, Attr: stringField(raw, "attr"), Ctx: Ctx(stringField(raw, "ctx"))}, nil
	case "Constant":
		return &Constant{Value: literalFromRaw(raw["value"])}, nil
	case "Import":
		return &Import{Names: aliasesFromRaw(raw["names"])}, nil
	case "ImportFrom":
		return &ImportFrom{
			Module: stringField(raw, "module"),
			Names:  aliasesFromRaw(raw["names"]),
			Level:  intField(raw, "level"),
		}, nil
	case "Expr":
		value, err := childFromRaw(raw["value"])
		if err != nil {
			return nil, err
		}
		return &Expr{Value: value}, nil
	case "Raise":
		exc, err := childFromRaw(raw["exc"])
		if err != nil {
			return nil, err
		}
		cause, err := childFromRaw(raw["cause"])
		if err != nil {
			return nil, err
		}
		return &Raise{Exc: exc, Cause: cause}, nil
	case "Break":
		return &Break{}, nil
	case "Continue":
		return &Continue{}, nil
	case "Pass":
		return &Pass{}, nil
	default:
		// Unknown kind: preserve as an opaque extension node.
		kids, err := listFromRaw(raw["kids"])
		if err != nil {
			return nil, err
		}
		fields, _ := raw["fields"].(map[string]any)
		return &Extension{Tag: tag, Fields: normalizeFields(fields), Kids: kids}, nil
	}
}

func branchFromRaw(raw map[string]any, build func(test Node, body, orelse []Node) Node) (Node, error) {
	test, err := childFromRaw(raw["test"])
	if err != nil {
		return nil, err
	}
	body, err := listFromRaw(raw["body"])
	if err != nil {
		return nil, err
	}
	orelse, err := listFromRaw(raw["orelse"])
	if err != nil {
		return nil, err
	}
	return build(test, body, orelse), nil
}

func childFromRaw(v any) (Node, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected node object, got %T", v)
	}
	return nodeFromMap(m)
}

func listFromRaw(v any) ([]Node, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected node list, got %T", v)
	}
	out := make([]Node, 0, len(items))
	for _, item := range items {
		n, err := childFromRaw(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func stringsFromRaw(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func aliasesFromRaw(v any) []Alias {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Alias, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Alias{Name: stringField(m, "name"), AsName: stringField(m, "asname")})
	}
	return out
}

// literalToRaw prepares a literal for JSON encoding. Floats are written with
// an explicit fraction or exponent so integral floats such as 2.0 do not
// collapse into integer syntax on the wire.
func literalToRaw(v any) any {
	f, ok := v.(float64)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return v
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return json.RawMessage(s)
}

func fieldsToRaw(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = literalToRaw(v)
	}
	return out
}

// literalFromRaw normalizes a JSON literal into the Constant value domain.
// The number's text form decides the type: integer syntax becomes int64 so
// folded arithmetic survives round trips, float syntax stays float64.
func literalFromRaw(v any) any {
	switch v := v.(type) {
	case json.Number:
		if !strings.ContainsAny(v.String(), ".eE") {
			if i, err := v.Int64(); err == nil {
				return i
			}
		}
		f, _ := v.Float64()
		return f
	default:
		return v
	}
}

func normalizeFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = literalFromRaw(v)
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case json.Number:
		i, _ := v.Int64()
		return int(i)
	case float64:
		return int(v)
	}
	return 0
}
