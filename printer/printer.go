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

// Package printer serializes an *ast.Node tree back to JavaScript-like
// source text. It is deliberately minimal: no line-wrapping, no comment
// preservation, no attempt at matching the original formatting. Its only
// job is to make cmd/varelim's rewritten output and the golden-test
// tool's diffs legible; pretty-printing fidelity is out of scope.
package printer

import (
	"fmt"
	"strings"

	"github.com/varelim/varelim/ast"
)

// Print serializes a single top-level statement list (as produced by
// frontend.Parse, or a function's own body) to source text.
func Print(stmts []*ast.Node) string {
	var s strings.Builder
	for _, stmt := range stmts {
		writeStatement(&s, stmt, 0)
	}
	return s.String()
}

// PrintNode serializes a single statement node, for callers (tests,
// diagnostics) that only have one node rather than a list.
func PrintNode(n *ast.Node) string {
	var s strings.Builder
	writeStatement(&s, n, 0)
	return s.String()
}

func indent(s *strings.Builder, depth int) {
	s.WriteString(strings.Repeat("  ", depth))
}

func writeStatement(s *strings.Builder, n *ast.Node, depth int) {
	if n == nil {
		return
	}
	indent(s, depth)
	switch n.Kind {
	case ast.KindBlock:
		s.WriteString("{\n")
		for _, stmt := range n.List {
			writeStatement(s, stmt, depth+1)
		}
		indent(s, depth)
		s.WriteString("}\n")

	case ast.KindVar:
		s.WriteString("var ")
		for i, b := range n.Bindings {
			if i > 0 {
				s.WriteString(", ")
			}
			s.WriteString(b.Name)
			if b.Init != nil && !ast.IsUndefinedLiteral(b.Init) {
				s.WriteString(" = ")
				s.WriteString(writeExpr(b.Init))
			}
		}
		s.WriteString(";\n")

	case ast.KindAssign, ast.KindUnaryPre, ast.KindUnaryPost, ast.KindCall, ast.KindNew:
		s.WriteString(writeExpr(n))
		s.WriteString(";\n")

	case ast.KindIf:
		s.WriteString("if (")
		s.WriteString(writeExpr(n.Cond))
		s.WriteString(") ")
		writeInlineBlock(s, n.Then, depth)
		if n.Else != nil {
			indent(s, depth)
			s.WriteString("else ")
			writeInlineBlock(s, n.Else, depth)
		}

	case ast.KindSwitch:
		s.WriteString("switch (")
		s.WriteString(writeExpr(n.Cond))
		s.WriteString(") {\n")
		for _, c := range n.Cases {
			writeStatement(s, c, depth+1)
		}
		indent(s, depth)
		s.WriteString("}\n")

	case ast.KindTry:
		s.WriteString("try ")
		writeInlineBlock(s, n.TryBlock, depth)
		if n.CatchBlock != nil {
			indent(s, depth)
			s.WriteString("catch ")
			writeInlineBlock(s, n.CatchBlock, depth)
		}
		if n.Finally != nil {
			indent(s, depth)
			s.WriteString("finally ")
			writeInlineBlock(s, n.Finally, depth)
		}

	case ast.KindWhile:
		s.WriteString("while (")
		s.WriteString(writeExpr(n.Cond))
		s.WriteString(") ")
		writeInlineBlock(s, n.Body, depth)

	case ast.KindDo:
		s.WriteString("do ")
		writeInlineBlock(s, n.Body, depth)
		indent(s, depth)
		s.WriteString("while (")
		s.WriteString(writeExpr(n.Cond))
		s.WriteString(");\n")

	case ast.KindFor:
		s.WriteString("for (")
		s.WriteString(strings.TrimSuffix(strings.TrimSpace(writeExpr(n.Init)), ";"))
		s.WriteString("; ")
		s.WriteString(writeExpr(n.Cond))
		s.WriteString("; ")
		s.WriteString(writeExpr(n.Post))
		s.WriteString(") ")
		writeInlineBlock(s, n.Body, depth)

	case ast.KindForIn:
		s.WriteString("for (")
		s.WriteString(strings.TrimSuffix(strings.TrimSpace(writeExpr(n.Left)), ";"))
		s.WriteString(" in ")
		s.WriteString(writeExpr(n.Right))
		s.WriteString(") ")
		writeInlineBlock(s, n.Body, depth)

	case ast.KindFunction, ast.KindDefun:
		if n.Kind == ast.KindDefun {
			s.WriteString("function ")
			s.WriteString(n.Name)
		} else {
			s.WriteString("function")
		}
		s.WriteString("(")
		s.WriteString(strings.Join(n.Params, ", "))
		s.WriteString(") {\n")
		for _, stmt := range n.Stmts {
			writeStatement(s, stmt, depth+1)
		}
		indent(s, depth)
		s.WriteString("}\n")

	case ast.KindReturn:
		s.WriteString("return")
		if n.Operand != nil {
			s.WriteString(" ")
			s.WriteString(writeExpr(n.Operand))
		}
		s.WriteString(";\n")

	case ast.KindThrow:
		s.WriteString("throw ")
		s.WriteString(writeExpr(n.Operand))
		s.WriteString(";\n")

	case ast.KindBreak:
		s.WriteString("break;\n")
	case ast.KindContinue:
		s.WriteString("continue;\n")
	case ast.KindDebugger:
		s.WriteString("debugger;\n")

	case ast.KindLabel:
		s.WriteString(n.Name)
		s.WriteString(":\n")
		writeStatement(s, n.Body, depth)

	case ast.KindWith:
		s.WriteString("with (")
		s.WriteString(writeExpr(n.Cond))
		s.WriteString(") ")
		writeInlineBlock(s, n.Body, depth)

	case ast.KindOpaque:
		s.WriteString(n.Literal)
		s.WriteString("\n")

	default:
		s.WriteString(writeExpr(n))
		s.WriteString(";\n")
	}
}

// writeInlineBlock writes n as a brace-delimited block without its own
// leading indentation (the caller already wrote "if (...) " etc.).
func writeInlineBlock(s *strings.Builder, n *ast.Node, depth int) {
	if n == nil {
		s.WriteString("{\n")
		indent(s, depth)
		s.WriteString("}\n")
		return
	}
	if n.Kind != ast.KindBlock {
		s.WriteString("{\n")
		writeStatement(s, n, depth+1)
		indent(s, depth)
		s.WriteString("}\n")
		return
	}
	s.WriteString("{\n")
	for _, stmt := range n.List {
		writeStatement(s, stmt, depth+1)
	}
	indent(s, depth)
	s.WriteString("}\n")
}

// writeExpr renders an expression node to source text, mirroring
// util/asthelper's astNodeToString/PrintExpr switch-per-kind shape,
// extended to the node kinds that package does not need to cover
// (assign, unary, call args, new).
func writeExpr(n *ast.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case ast.KindName:
		return n.Ident
	case ast.KindNum, ast.KindString:
		return n.Literal
	case ast.KindBinary:
		return fmt.Sprintf("%s %s %s", writeExpr(n.Left), n.Op, writeExpr(n.Right))
	case ast.KindSub:
		return fmt.Sprintf("%s[%s]", writeExpr(n.Left), writeExpr(n.Right))
	case ast.KindDot:
		return fmt.Sprintf("%s.%s", writeExpr(n.Left), n.Field)
	case ast.KindAssign:
		return fmt.Sprintf("%s %s %s", writeExpr(n.Left), n.Op, writeExpr(n.Right))
	case ast.KindUnaryPre:
		return fmt.Sprintf("%s%s", n.Op, writeExpr(n.Operand))
	case ast.KindUnaryPost:
		return fmt.Sprintf("%s%s", writeExpr(n.Operand), n.Op)
	case ast.KindCall:
		return fmt.Sprintf("%s(%s)", writeExpr(n.Callee), joinArgs(n.Args))
	case ast.KindNew:
		return fmt.Sprintf("new %s(%s)", writeExpr(n.Callee), joinArgs(n.Args))
	case ast.KindVar:
		var b strings.Builder
		writeStatement(&b, n, 0)
		return strings.TrimSuffix(strings.TrimSpace(b.String()), ";")
	case ast.KindOpaque:
		return n.Literal
	default:
		return fmt.Sprintf("<%s>", n.Kind)
	}
}

func joinArgs(args []*ast.Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = writeExpr(a)
	}
	return strings.Join(parts, ", ")
}
