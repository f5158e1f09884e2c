package schemec

import (
	"encoding/json"
	"fmt"
)

// This file gives the CLI front-end something to read, since the lexer
// and parser that would normally produce a Program are external
// collaborators (§2) this module doesn't implement. A serialized AST in
// a small tagged-envelope JSON form stands in as the front end's output
// format; encoding/json is used directly (no third-party JSON library
// appears anywhere in the retrieval pack for this to ground on, so the
// standard library is the correct, not merely convenient, choice here).

type jsonBinding struct {
	Name Symbol          `json:"name"`
	Init json.RawMessage `json:"init"`
}

type jsonDoBinding struct {
	Name Symbol          `json:"name"`
	Init json.RawMessage `json:"init"`
	Step json.RawMessage `json:"step,omitempty"`
}

// jsonNode is the wire envelope every node kind is encoded through: Kind
// picks the variant, Loc carries the shared source location, and the
// remaining fields are populated per kind (unused ones left zero).
type jsonNode struct {
	Kind string         `json:"kind"`
	Loc  SourceLocation `json:"loc"`

	IsFloat bool    `json:"is_float,omitempty"`
	Int     int64   `json:"int,omitempty"`
	Float   float64 `json:"float,omitempty"`
	Bool    bool    `json:"bool,omitempty"`
	Char    rune    `json:"char,omitempty"`
	Str     Symbol  `json:"str,omitempty"`
	Name    Symbol  `json:"name,omitempty"`

	Callee json.RawMessage   `json:"callee,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`

	Cond json.RawMessage `json:"cond,omitempty"`
	Then json.RawMessage `json:"then,omitempty"`
	Else json.RawMessage `json:"else,omitempty"`

	Params []Symbol          `json:"params,omitempty"`
	Body   []json.RawMessage `json:"body,omitempty"`

	Value json.RawMessage `json:"value,omitempty"`

	LetKind  string            `json:"let_kind,omitempty"`
	Bindings []jsonBinding     `json:"bindings,omitempty"`
	DoVars   []jsonDoBinding   `json:"do_vars,omitempty"`
	Exprs    []json.RawMessage `json:"exprs,omitempty"`

	Test   json.RawMessage   `json:"test,omitempty"`
	Result []json.RawMessage `json:"result,omitempty"`

	Datum    json.RawMessage   `json:"datum,omitempty"`
	Elements []json.RawMessage `json:"elements,omitempty"`
}

// EncodeProgram renders p as indented JSON in the jsonNode envelope
// format DecodeProgram reads back.
func EncodeProgram(p *Program) ([]byte, error) {
	items := make([]json.RawMessage, len(p.Items))
	for i, n := range p.Items {
		raw, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		items[i] = raw
	}
	return json.MarshalIndent(struct {
		Items []json.RawMessage `json:"items"`
	}{items}, "", "  ")
}

func encodeNode(n Node) (json.RawMessage, error) {
	if n == nil {
		return json.RawMessage("null"), nil
	}
	jn := jsonNode{Loc: n.Range()}
	var err error
	switch v := n.(type) {
	case *NumberNode:
		jn.Kind, jn.IsFloat, jn.Int, jn.Float = "number", v.IsFloat, v.Int, v.Float
	case *BooleanNode:
		jn.Kind, jn.Bool = "boolean", v.Value
	case *CharacterNode:
		jn.Kind, jn.Char = "character", v.Value
	case *StringNode:
		jn.Kind, jn.Str = "string", v.Value
	case *IdentifierNode:
		jn.Kind, jn.Name = "identifier", v.Name
	case *CallNode:
		jn.Kind = "call"
		if jn.Callee, err = encodeNode(v.Callee); err != nil {
			return nil, err
		}
		if jn.Args, err = encodeNodes(v.Args); err != nil {
			return nil, err
		}
	case *IfNode:
		jn.Kind = "if"
		if jn.Cond, err = encodeNode(v.Cond); err != nil {
			return nil, err
		}
		if jn.Then, err = encodeNode(v.Then); err != nil {
			return nil, err
		}
		if v.Else != nil {
			if jn.Else, err = encodeNode(v.Else); err != nil {
				return nil, err
			}
		}
	case *LambdaNode:
		jn.Kind, jn.Params = "lambda", v.Params
		if jn.Body, err = encodeNodes(v.Body); err != nil {
			return nil, err
		}
	case *DefineNode:
		jn.Kind, jn.Name = "define", v.Name
		if jn.Value, err = encodeNode(v.Value); err != nil {
			return nil, err
		}
	case *SetNode:
		jn.Kind, jn.Name = "set", v.Name
		if jn.Value, err = encodeNode(v.Value); err != nil {
			return nil, err
		}
	case *LetNode:
		jn.Kind, jn.LetKind = "let", v.Kind.String()
		for _, b := range v.Bindings {
			init, err := encodeNode(b.Init)
			if err != nil {
				return nil, err
			}
			jn.Bindings = append(jn.Bindings, jsonBinding{Name: b.Name, Init: init})
		}
		if jn.Body, err = encodeNodes(v.Body); err != nil {
			return nil, err
		}
	case *BeginNode:
		jn.Kind = "begin"
		if jn.Exprs, err = encodeNodes(v.Exprs); err != nil {
			return nil, err
		}
	case *DoNode:
		jn.Kind = "do"
		for _, b := range v.Bindings {
			init, err := encodeNode(b.Init)
			if err != nil {
				return nil, err
			}
			var step json.RawMessage
			if b.Step != nil {
				if step, err = encodeNode(b.Step); err != nil {
					return nil, err
				}
			}
			jn.DoVars = append(jn.DoVars, jsonDoBinding{Name: b.Name, Init: init, Step: step})
		}
		if v.Test != nil {
			if jn.Test, err = encodeNode(v.Test); err != nil {
				return nil, err
			}
		}
		if jn.Result, err = encodeNodes(v.Result); err != nil {
			return nil, err
		}
		if jn.Body, err = encodeNodes(v.Body); err != nil {
			return nil, err
		}
	case *QuoteNode:
		jn.Kind = "quote"
		if v.Datum != nil {
			if jn.Datum, err = encodeNode(v.Datum); err != nil {
				return nil, err
			}
		}
	case *VectorLiteralNode:
		jn.Kind = "vector-literal"
		if jn.Elements, err = encodeNodes(v.Elements); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("schemec: EncodeProgram: unsupported node variant %T", n)
	}
	return json.Marshal(jn)
}

func encodeNodes(nodes []Node) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(nodes))
	for i, n := range nodes {
		raw, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

// DecodeProgram parses the jsonNode envelope format EncodeProgram
// writes back into a live Program.
func DecodeProgram(data []byte) (*Program, error) {
	var wire struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("schemec: DecodeProgram: %w", err)
	}
	items, err := decodeNodes(wire.Items)
	if err != nil {
		return nil, err
	}
	return &Program{Items: items}, nil
}

func decodeNodes(raws []json.RawMessage) ([]Node, error) {
	out := make([]Node, len(raws))
	for i, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func decodeNode(raw json.RawMessage) (Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var jn jsonNode
	if err := json.Unmarshal(raw, &jn); err != nil {
		return nil, fmt.Errorf("schemec: decodeNode: %w", err)
	}

	decodeOne := func(r json.RawMessage) (Node, error) { return decodeNode(r) }
	decodeMany := func(rs []json.RawMessage) ([]Node, error) { return decodeNodes(rs) }

	switch jn.Kind {
	case "number":
		return &NumberNode{Loc: jn.Loc, IsFloat: jn.IsFloat, Int: jn.Int, Float: jn.Float}, nil
	case "boolean":
		return &BooleanNode{Loc: jn.Loc, Value: jn.Bool}, nil
	case "character":
		return &CharacterNode{Loc: jn.Loc, Value: jn.Char}, nil
	case "string":
		return &StringNode{Loc: jn.Loc, Value: jn.Str}, nil
	case "identifier":
		return &IdentifierNode{Loc: jn.Loc, Name: jn.Name}, nil
	case "call":
		callee, err := decodeOne(jn.Callee)
		if err != nil {
			return nil, err
		}
		args, err := decodeMany(jn.Args)
		if err != nil {
			return nil, err
		}
		return &CallNode{Loc: jn.Loc, Callee: callee, Args: args, ArgCount: len(args)}, nil
	case "if":
		cond, err := decodeOne(jn.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeOne(jn.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeOne(jn.Else)
		if err != nil {
			return nil, err
		}
		return &IfNode{Loc: jn.Loc, Cond: cond, Then: then, Else: els}, nil
	case "lambda":
		body, err := decodeMany(jn.Body)
		if err != nil {
			return nil, err
		}
		return &LambdaNode{Loc: jn.Loc, Params: jn.Params, Body: body}, nil
	case "define":
		value, err := decodeOne(jn.Value)
		if err != nil {
			return nil, err
		}
		return &DefineNode{Loc: jn.Loc, Name: jn.Name, Value: value}, nil
	case "set":
		value, err := decodeOne(jn.Value)
		if err != nil {
			return nil, err
		}
		return &SetNode{Loc: jn.Loc, Name: jn.Name, Value: value}, nil
	case "let":
		var kind LetKind
		switch jn.LetKind {
		case "let*":
			kind = LetStar
		case "letrec":
			kind = LetRec
		default:
			kind = LetPlain
		}
		bindings := make([]Binding, len(jn.Bindings))
		for i, b := range jn.Bindings {
			init, err := decodeOne(b.Init)
			if err != nil {
				return nil, err
			}
			bindings[i] = Binding{Name: b.Name, Init: init}
		}
		body, err := decodeMany(jn.Body)
		if err != nil {
			return nil, err
		}
		return &LetNode{Loc: jn.Loc, Kind: kind, Bindings: bindings, Body: body}, nil
	case "begin":
		exprs, err := decodeMany(jn.Exprs)
		if err != nil {
			return nil, err
		}
		return &BeginNode{Loc: jn.Loc, Exprs: exprs}, nil
	case "do":
		bindings := make([]DoBinding, len(jn.DoVars))
		for i, b := range jn.DoVars {
			init, err := decodeOne(b.Init)
			if err != nil {
				return nil, err
			}
			step, err := decodeOne(b.Step)
			if err != nil {
				return nil, err
			}
			bindings[i] = DoBinding{Name: b.Name, Init: init, Step: step}
		}
		test, err := decodeOne(jn.Test)
		if err != nil {
			return nil, err
		}
		result, err := decodeMany(jn.Result)
		if err != nil {
			return nil, err
		}
		body, err := decodeMany(jn.Body)
		if err != nil {
			return nil, err
		}
		return &DoNode{Loc: jn.Loc, Bindings: bindings, Test: test, Result: result, Body: body}, nil
	case "quote":
		datum, err := decodeOne(jn.Datum)
		if err != nil {
			return nil, err
		}
		return &QuoteNode{Loc: jn.Loc, Datum: datum}, nil
	case "vector-literal":
		elements, err := decodeMany(jn.Elements)
		if err != nil {
			return nil, err
		}
		return &VectorLiteralNode{Loc: jn.Loc, Elements: elements}, nil
	default:
		return nil, fmt.Errorf("schemec: decodeNode: unknown node kind %q", jn.Kind)
	}
}
