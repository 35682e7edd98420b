//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package frontend lowers real JavaScript source into the ast package's
// node shapes, using tree-sitter's javascript grammar as the parser.
// It is a collaborator, not part of the optimizer core: package varelim
// never imports it, and everything it produces is just another
// *ast.Node tree.
//
// Constructs the core does not model (classes, arrow functions, template
// literals, destructuring, and anything else not handled below) are
// lowered to ast.KindOpaque, which every pass treats conservatively as
// "has a side effect, never single-def eligible" (spec.md §7). The
// front end may under-approximate by refusing to optimize a construct;
// it must never over-approximate.
package frontend

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/varelim/varelim/ast"
)

// Parse parses src as JavaScript and lowers it to a single ast.KindBlock
// root node holding every top-level statement, in source order. Among
// those statements, top-level function declarations lower to
// ast.KindDefun nodes; everything else lowers per the node-by-node rules
// below, falling back to ast.KindOpaque for anything unrecognized.
func Parse(src []byte) (*ast.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	l := &lowerer{src: src}
	root := tree.RootNode()
	return &ast.Node{Kind: ast.KindBlock, List: l.statementList(root)}, nil
}

// TopLevelFunctions returns every ast.KindDefun/ast.KindFunction node
// directly in root.List, the unit cmd/varelim hands to RunAll one Job
// per function.
func TopLevelFunctions(root *ast.Node) []*ast.Node {
	var fns []*ast.Node
	for _, stmt := range root.List {
		if stmt.Kind == ast.KindDefun || stmt.Kind == ast.KindFunction {
			fns = append(fns, stmt)
		}
	}
	return fns
}

type lowerer struct {
	src []byte
}

func (l *lowerer) pos(n *sitter.Node) ast.Position {
	pt := n.StartPoint()
	return ast.Position{Line: int(pt.Row) + 1, Col: int(pt.Column) + 1}
}

func (l *lowerer) text(n *sitter.Node) string {
	return n.Content(l.src)
}

// statementList lowers every named child of a block-shaped node
// (program or statement_block) to a statement node.
func (l *lowerer) statementList(n *sitter.Node) []*ast.Node {
	out := make([]*ast.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, l.statement(n.NamedChild(i)))
	}
	return out
}

func (l *lowerer) opaque(n *sitter.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindOpaque, Pos: l.pos(n), Literal: l.text(n)}
}

func (l *lowerer) statement(n *sitter.Node) *ast.Node {
	pos := l.pos(n)
	switch n.Type() {
	case "expression_statement":
		if n.NamedChildCount() == 0 {
			return &ast.Node{Kind: ast.KindBlock, Pos: pos}
		}
		return l.expression(n.NamedChild(0))

	case "variable_declaration", "lexical_declaration":
		return l.varDecl(n)

	case "if_statement":
		ifn := &ast.Node{Kind: ast.KindIf, Pos: pos}
		if c := n.ChildByFieldName("condition"); c != nil {
			ifn.Cond = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("consequence"); c != nil {
			ifn.Then = l.statement(c)
		}
		if c := n.ChildByFieldName("alternative"); c != nil {
			ifn.Else = l.statement(c)
		}
		return ifn

	case "switch_statement":
		sw := &ast.Node{Kind: ast.KindSwitch, Pos: pos}
		if c := n.ChildByFieldName("value"); c != nil {
			sw.Cond = l.expression(namedOrSelf(c))
		}
		if body := n.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.NamedChildCount()); i++ {
				caseNode := body.NamedChild(i)
				valueNode := caseNode.ChildByFieldName("value")
				stmts := make([]*ast.Node, 0)
				for j := 0; j < int(caseNode.NamedChildCount()); j++ {
					child := caseNode.NamedChild(j)
					if child == valueNode {
						continue
					}
					stmts = append(stmts, l.statement(child))
				}
				sw.Cases = append(sw.Cases, &ast.Node{Kind: ast.KindBlock, Pos: l.pos(caseNode), List: stmts})
			}
		}
		return sw

	case "try_statement":
		try := &ast.Node{Kind: ast.KindTry, Pos: pos}
		if c := n.ChildByFieldName("body"); c != nil {
			try.TryBlock = l.statement(c)
		}
		if c := n.ChildByFieldName("handler"); c != nil {
			try.CatchBlock = l.statement(c)
		}
		if c := n.ChildByFieldName("finalizer"); c != nil {
			try.Finally = l.statement(c)
		}
		return try

	case "while_statement":
		w := &ast.Node{Kind: ast.KindWhile, Pos: pos}
		if c := n.ChildByFieldName("condition"); c != nil {
			w.Cond = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("body"); c != nil {
			w.Body = l.statement(c)
		}
		return w

	case "do_statement":
		d := &ast.Node{Kind: ast.KindDo, Pos: pos}
		if c := n.ChildByFieldName("body"); c != nil {
			d.Body = l.statement(c)
		}
		if c := n.ChildByFieldName("condition"); c != nil {
			d.Cond = l.expression(namedOrSelf(c))
		}
		return d

	case "for_statement":
		f := &ast.Node{Kind: ast.KindFor, Pos: pos}
		if c := n.ChildByFieldName("initializer"); c != nil {
			f.Init = l.forClause(c)
		}
		if c := n.ChildByFieldName("condition"); c != nil {
			f.Cond = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("increment"); c != nil {
			f.Post = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("body"); c != nil {
			f.Body = l.statement(c)
		}
		return f

	case "for_in_statement":
		fi := &ast.Node{Kind: ast.KindForIn, Pos: pos}
		if c := n.ChildByFieldName("left"); c != nil {
			fi.Left = l.forClause(c)
		}
		if c := n.ChildByFieldName("right"); c != nil {
			fi.Right = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("body"); c != nil {
			fi.Body = l.statement(c)
		}
		return fi

	case "return_statement":
		ret := &ast.Node{Kind: ast.KindReturn, Pos: pos}
		if n.NamedChildCount() > 0 {
			ret.Operand = l.expression(n.NamedChild(0))
		}
		return ret

	case "throw_statement":
		th := &ast.Node{Kind: ast.KindThrow, Pos: pos}
		if n.NamedChildCount() > 0 {
			th.Operand = l.expression(n.NamedChild(0))
		}
		return th

	case "break_statement":
		return &ast.Node{Kind: ast.KindBreak, Pos: pos}
	case "continue_statement":
		return &ast.Node{Kind: ast.KindContinue, Pos: pos}
	case "debugger_statement":
		return &ast.Node{Kind: ast.KindDebugger, Pos: pos}
	case "empty_statement":
		return &ast.Node{Kind: ast.KindBlock, Pos: pos}

	case "labeled_statement":
		label := &ast.Node{Kind: ast.KindLabel, Pos: pos}
		if c := n.ChildByFieldName("label"); c != nil {
			label.Name = l.text(c)
		}
		if c := n.ChildByFieldName("body"); c != nil {
			label.Body = l.statement(c)
		}
		return label

	case "with_statement":
		w := &ast.Node{Kind: ast.KindWith, Pos: pos}
		if c := n.ChildByFieldName("object"); c != nil {
			w.Cond = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("body"); c != nil {
			w.Body = l.statement(c)
		}
		return w

	case "statement_block":
		return &ast.Node{Kind: ast.KindBlock, Pos: pos, List: l.statementList(n)}

	case "function_declaration", "generator_function_declaration":
		return l.funcDecl(n, ast.KindDefun)

	default:
		// class declarations, arrow functions used as statements, and
		// any construct this front end doesn't model.
		return l.opaque(n)
	}
}

// forClause lowers the initializer/left clause of a for/for-in loop,
// which is either a bare expression or a var declaration.
func (l *lowerer) forClause(n *sitter.Node) *ast.Node {
	switch n.Type() {
	case "variable_declaration", "lexical_declaration":
		return l.varDecl(n)
	default:
		return l.expression(namedOrSelf(n))
	}
}

func (l *lowerer) varDecl(n *sitter.Node) *ast.Node {
	v := &ast.Node{Kind: ast.KindVar, Pos: l.pos(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() != "identifier" {
			// destructuring pattern: not modeled, treat the whole
			// declarator as an opaque statement-shaped var so it is
			// never mistaken for a trackable single-def binding.
			v.Bindings = append(v.Bindings, ast.Binding{Name: "", Init: l.opaque(decl)})
			continue
		}
		b := ast.Binding{Name: l.text(nameNode)}
		if val := decl.ChildByFieldName("value"); val != nil {
			b.Init = l.expression(namedOrSelf(val))
		}
		v.Bindings = append(v.Bindings, b)
	}
	if len(v.Bindings) == 0 {
		// An empty declarator list cannot occur in valid JS, but guard
		// the invariant util/passhelper.validate enforces regardless.
		v.Bindings = append(v.Bindings, ast.Binding{Name: "", Init: ast.Undefined()})
	}
	return v
}

func (l *lowerer) funcDecl(n *sitter.Node, kind ast.Kind) *ast.Node {
	fn := &ast.Node{Kind: kind, Pos: l.pos(n)}
	if c := n.ChildByFieldName("name"); c != nil {
		fn.Name = l.text(c)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() == "identifier" {
				fn.Params = append(fn.Params, l.text(p))
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Stmts = l.statementList(body)
	}
	return fn
}

func (l *lowerer) expression(n *sitter.Node) *ast.Node {
	pos := l.pos(n)
	switch n.Type() {
	case "identifier", "undefined":
		return &ast.Node{Kind: ast.KindName, Pos: pos, Ident: l.text(n)}
	case "number":
		return &ast.Node{Kind: ast.KindNum, Pos: pos, Literal: l.text(n)}
	case "string", "template_string":
		return &ast.Node{Kind: ast.KindString, Pos: pos, Literal: l.text(n)}
	case "true", "false", "null":
		// modeled as a name reference to the keyword literal: spec.md
		// treats `name` as side-effect-free regardless of what
		// identifier it holds, and these keywords are never assignable,
		// so nothing downstream ever mistakes one for a local.
		return &ast.Node{Kind: ast.KindName, Pos: pos, Ident: l.text(n)}

	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return l.expression(n.NamedChild(0))
		}
		return l.opaque(n)

	case "binary_expression":
		b := &ast.Node{Kind: ast.KindBinary, Pos: pos}
		if c := n.ChildByFieldName("left"); c != nil {
			b.Left = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("right"); c != nil {
			b.Right = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("operator"); c != nil {
			b.Op = l.text(c)
		}
		return b

	case "assignment_expression":
		a := &ast.Node{Kind: ast.KindAssign, Pos: pos, Op: "="}
		if c := n.ChildByFieldName("left"); c != nil {
			a.Left = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("right"); c != nil {
			a.Right = l.expression(namedOrSelf(c))
		}
		return a

	case "augmented_assignment_expression":
		a := &ast.Node{Kind: ast.KindAssign, Pos: pos}
		if c := n.ChildByFieldName("left"); c != nil {
			a.Left = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("right"); c != nil {
			a.Right = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("operator"); c != nil {
			a.Op = l.text(c)
		}
		return a

	case "update_expression":
		// The grammar gives no named field for operator position; the
		// raw text is "++x"/"--x" (prefix) or "x++"/"x--" (postfix), and
		// the operand is always the node's sole named child.
		txt := l.text(n)
		kind := ast.KindUnaryPost
		op := "++"
		switch {
		case len(txt) >= 2 && txt[:2] == "++":
			kind, op = ast.KindUnaryPre, "++"
		case len(txt) >= 2 && txt[:2] == "--":
			kind, op = ast.KindUnaryPre, "--"
		case len(txt) >= 2 && txt[len(txt)-2:] == "--":
			op = "--"
		}
		u := &ast.Node{Kind: kind, Pos: pos, Op: op}
		if n.NamedChildCount() > 0 {
			u.Operand = l.expression(n.NamedChild(0))
		}
		return u

	case "unary_expression":
		// !x, -x, typeof x, void x: no dedicated node kind models these,
		// and nodeclass's side-effect-free test only inspects a node's
		// own kind, never its children, so lowering to opaque is the
		// only sound choice (never silently treating e.g. `typeof x` as
		// side-effect-free).
		return l.opaque(n)

	case "call_expression":
		call := &ast.Node{Kind: ast.KindCall, Pos: pos}
		if c := n.ChildByFieldName("function"); c != nil {
			call.Callee = l.expression(namedOrSelf(c))
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				call.Args = append(call.Args, l.expression(args.NamedChild(i)))
			}
		}
		return call

	case "new_expression":
		nw := &ast.Node{Kind: ast.KindNew, Pos: pos}
		if c := n.ChildByFieldName("constructor"); c != nil {
			nw.Callee = l.expression(namedOrSelf(c))
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				nw.Args = append(nw.Args, l.expression(args.NamedChild(i)))
			}
		}
		return nw

	case "member_expression":
		dot := &ast.Node{Kind: ast.KindDot, Pos: pos}
		if c := n.ChildByFieldName("object"); c != nil {
			dot.Left = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("property"); c != nil {
			dot.Field = l.text(c)
		}
		return dot

	case "subscript_expression":
		sub := &ast.Node{Kind: ast.KindSub, Pos: pos}
		if c := n.ChildByFieldName("object"); c != nil {
			sub.Left = l.expression(namedOrSelf(c))
		}
		if c := n.ChildByFieldName("index"); c != nil {
			sub.Right = l.expression(namedOrSelf(c))
		}
		return sub

	case "function", "generator_function":
		return l.funcDecl(n, ast.KindFunction)

	default:
		// arrow functions, classes, template literals with
		// substitutions, destructuring patterns, object/array literals,
		// sequence expressions, spread/rest, optional chaining: not
		// modeled. Lowered to an opaque leaf so every pass treats them
		// as having a side effect and never single-def eligible.
		return l.opaque(n)
	}
}

// namedOrSelf returns n's first named child if n wraps a single
// expression under an unnamed field (some grammar productions expose a
// field that points at the wrapping node rather than the inner
// expression directly); otherwise returns n itself.
func namedOrSelf(n *sitter.Node) *sitter.Node {
	if !n.IsNamed() && n.NamedChildCount() == 1 {
		return n.NamedChild(0)
	}
	return n
}
