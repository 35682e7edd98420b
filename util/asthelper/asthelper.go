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

// Package asthelper implements the generic AST traversal primitive
// (spec.md §4.1) that every pass in this module is built on, plus a
// handful of expression-printing helpers (package printer has its own
// serializer of the same switch-per-kind shape and does not call them).
package asthelper

import (
	"fmt"
	"strings"

	"github.com/varelim/varelim/ast"
)

// Outcome is the result of a Visitor callback for one node.
type Outcome int

const (
	// Continue means descend into the node's children normally.
	Continue Outcome = iota
	// Stop aborts the whole traversal; it propagates up through every
	// enclosing call to Walk.
	Stop
)

// Visitor is invoked once per visited node, pre-order. A non-nil
// replacement is spliced into the parent slot in place of node and
// short-circuits further descent into that slot (spec.md §4.1, outcome
// (a)); outcome is ignored when replacement is non-nil.
type Visitor func(node *ast.Node) (replacement *ast.Node, outcome Outcome)

// Walk performs a pre-order traversal of n, invoking visit at each
// node, and returns true if the traversal completed normally or false
// if visit signaled Stop somewhere in the tree (spec.md §4.1, outcome
// (b)). A replacement returned by visit is written back into whichever
// field or slice element held the visited node, so Walk mutates n's
// descendants in place; a replacement returned for n itself is not
// visible to the caller.
func Walk(n *ast.Node, visit Visitor) bool {
	return walkSlot(&n, visit)
}

func walkSlot(slot **ast.Node, visit Visitor) bool {
	node := *slot
	if node == nil {
		return true
	}

	replacement, outcome := visit(node)
	if replacement != nil {
		*slot = replacement
		return true
	}
	if outcome == Stop {
		return false
	}

	return walkChildren(*slot, visit)
}

func walkChildren(n *ast.Node, visit Visitor) bool {
	switch n.Kind {
	case ast.KindVar:
		for i := range n.Bindings {
			if !walkSlot(&n.Bindings[i].Init, visit) {
				return false
			}
		}
	case ast.KindName, ast.KindNum, ast.KindString:
		// leaves.
	case ast.KindBinary, ast.KindSub, ast.KindAssign:
		if !walkSlot(&n.Left, visit) {
			return false
		}
		return walkSlot(&n.Right, visit)
	case ast.KindDot:
		// Field is a plain string, not a child node; there is nothing
		// under a dot expression besides its object.
		return walkSlot(&n.Left, visit)
	case ast.KindUnaryPre, ast.KindUnaryPost:
		return walkSlot(&n.Operand, visit)
	case ast.KindCall, ast.KindNew:
		if !walkSlot(&n.Callee, visit) {
			return false
		}
		for i := range n.Args {
			if !walkSlot(&n.Args[i], visit) {
				return false
			}
		}
	case ast.KindIf:
		if !walkSlot(&n.Cond, visit) || !walkSlot(&n.Then, visit) {
			return false
		}
		if n.Else != nil {
			return walkSlot(&n.Else, visit)
		}
	case ast.KindSwitch:
		if !walkSlot(&n.Cond, visit) {
			return false
		}
		for i := range n.Cases {
			if !walkSlot(&n.Cases[i], visit) {
				return false
			}
		}
	case ast.KindTry:
		if !walkSlot(&n.TryBlock, visit) {
			return false
		}
		if n.CatchBlock != nil && !walkSlot(&n.CatchBlock, visit) {
			return false
		}
		if n.Finally != nil {
			return walkSlot(&n.Finally, visit)
		}
	case ast.KindDo, ast.KindWhile:
		return walkSlot(&n.Cond, visit) && walkSlot(&n.Body, visit)
	case ast.KindFor:
		if n.Init != nil && !walkSlot(&n.Init, visit) {
			return false
		}
		if n.Cond != nil && !walkSlot(&n.Cond, visit) {
			return false
		}
		if n.Post != nil && !walkSlot(&n.Post, visit) {
			return false
		}
		return walkSlot(&n.Body, visit)
	case ast.KindForIn:
		// spec.md §4.1: a `var`-headed loop variable is skipped here,
		// because for-in declares its iteration variable with
		// unspecified mutation semantics that would defeat analysis.
		if n.Left != nil && n.Left.Kind != ast.KindVar {
			if !walkSlot(&n.Left, visit) {
				return false
			}
		}
		if !walkSlot(&n.Right, visit) {
			return false
		}
		return walkSlot(&n.Body, visit)
	case ast.KindFunction, ast.KindDefun:
		for i := range n.Stmts {
			if !walkSlot(&n.Stmts[i], visit) {
				return false
			}
		}
	case ast.KindReturn, ast.KindThrow:
		if n.Operand != nil {
			return walkSlot(&n.Operand, visit)
		}
	case ast.KindLabel:
		return walkSlot(&n.Body, visit)
	case ast.KindBlock:
		for i := range n.List {
			if !walkSlot(&n.List[i], visit) {
				return false
			}
		}
	default:
		// KindBreak, KindContinue, KindDebugger, KindWith (its body is
		// opaque to this analysis), KindOpaque, and any unrecognized
		// kind produced by a front end: treated as a leaf, contributing
		// nothing (spec.md §7).
	}
	return true
}

// Names collects, in traversal order, every distinct identifier read as
// a KindName node anywhere under n. It is a thin convenience built on
// Walk, used by the live-range pass to find the names an expression
// subtree reads.
func Names(n *ast.Node) []ast.Name {
	var names []ast.Name
	seen := make(map[ast.Name]bool)
	Walk(n, func(node *ast.Node) (*ast.Node, Outcome) {
		if node.Kind == ast.KindName && !seen[node.Ident] {
			seen[node.Ident] = true
			names = append(names, node.Ident)
		}
		return nil, Continue
	})
	return names
}

// ResolveAssignTarget walks down the left-hand side of an assignment or
// increment/decrement operand through sub/dot-style children until a
// name is reached, per spec.md §4.6's mutation-visitor target
// resolution. It returns "" if no identifier is ultimately reached
// (e.g., the LHS bottoms out in a call result, which this analysis
// cannot track back to a local).
func ResolveAssignTarget(n *ast.Node) ast.Name {
	for n != nil {
		switch n.Kind {
		case ast.KindName:
			return n.Ident
		case ast.KindSub, ast.KindDot:
			n = n.Left
		default:
			return ""
		}
	}
	return ""
}

// astNodeToString renders a side-effect-free value node (spec.md §3's
// class) to source-like text. Full serialization of arbitrary
// statements belongs to package printer; this is only ever called on
// expression subtrees.
func astNodeToString(n *ast.Node) string {
	switch n.Kind {
	case ast.KindName:
		return n.Ident
	case ast.KindNum, ast.KindString:
		return n.Literal
	case ast.KindBinary:
		return fmt.Sprintf("%s %s %s", astNodeToString(n.Left), n.Op, astNodeToString(n.Right))
	case ast.KindSub:
		return fmt.Sprintf("%s[%s]", astNodeToString(n.Left), astNodeToString(n.Right))
	case ast.KindDot:
		return fmt.Sprintf("%s.%s", astNodeToString(n.Left), n.Field)
	default:
		return fmt.Sprintf("<%s>", n.Kind)
	}
}

// PrintExpr converts an AST expression to a string, shortening call
// argument lists (e.g., s.foo(longArg, anotherArg) --> s.foo(...)) when
// isShortenExpr is true.
func PrintExpr(n *ast.Node, isShortenExpr bool) string {
	if n == nil {
		return ""
	}
	if !isShortenExpr {
		return astNodeToString(n)
	}
	var s strings.Builder
	printExprHelper(n, &s)
	return s.String()
}

func printExprHelper(n *ast.Node, s *strings.Builder) {
	// shortenExprLen is the maximum length of an expression to be
	// printed in full. The value is set to 3 to account for the length
	// of the ellipsis ("..."), used to shorten long expressions.
	const shortenExprLen = 3

	fullExpr := func(node *ast.Node) (string, bool) {
		switch node.Kind {
		case ast.KindName:
			if len(node.Ident) <= shortenExprLen {
				return node.Ident, true
			}
		case ast.KindNum, ast.KindString:
			if len(node.Literal) <= shortenExprLen {
				return node.Literal, true
			}
		}
		return "", false
	}

	switch n.Kind {
	case ast.KindName:
		s.WriteString(n.Ident)

	case ast.KindDot:
		printExprHelper(n.Left, s)
		s.WriteString(".")
		s.WriteString(n.Field)

	case ast.KindCall:
		printExprHelper(n.Callee, s)
		s.WriteString("(")
		if len(n.Args) > 0 {
			isShorten := true
			if len(n.Args) == 1 {
				if arg, ok := fullExpr(n.Args[0]); ok {
					s.WriteString(arg)
					isShorten = false
				}
			}
			if isShorten {
				s.WriteString("...")
			}
		}
		s.WriteString(")")

	case ast.KindSub:
		printExprHelper(n.Left, s)
		s.WriteString("[")
		if v, ok := fullExpr(n.Right); ok {
			s.WriteString(v)
		} else {
			s.WriteString("...")
		}
		s.WriteString("]")

	default:
		s.WriteString(astNodeToString(n))
	}
}
