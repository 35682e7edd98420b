//  Copyright (c) 2024 Uber Technologies, Inc.
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

package asthelper

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/varelim/varelim/ast"
)

func name(n ast.Name) *ast.Node { return &ast.Node{Kind: ast.KindName, Ident: n} }
func num(lit string) *ast.Node { return &ast.Node{Kind: ast.KindNum, Literal: lit} }

func TestWalkVisitsEveryNode(t *testing.T) {
	t.Parallel()

	tree := &ast.Node{Kind: ast.KindBinary, Op: "+", Left: name("a"), Right: num("1")}

	var kinds []ast.Kind
	ok := Walk(tree, func(n *ast.Node) (*ast.Node, Outcome) {
		kinds = append(kinds, n.Kind)
		return nil, Continue
	})

	require.True(t, ok)
	require.Equal(t, []ast.Kind{ast.KindBinary, ast.KindName, ast.KindNum}, kinds)
}

func TestWalkReplacementShortCircuitsDescent(t *testing.T) {
	t.Parallel()

	// If descent into the replacement happened, we'd see "b" visited too.
	tree := &ast.Node{Kind: ast.KindBinary, Op: "+", Left: name("a"), Right: num("1")}

	var visited []ast.Name
	Walk(tree, func(n *ast.Node) (*ast.Node, Outcome) {
		if n.Kind == ast.KindName && n.Ident == "a" {
			return name("b"), Continue
		}
		if n.Kind == ast.KindName {
			visited = append(visited, n.Ident)
		}
		return nil, Continue
	})

	require.Equal(t, tree.Left.Ident, "b")
	require.NotContains(t, visited, "b")
}

func TestWalkStopAbortsTraversal(t *testing.T) {
	t.Parallel()

	tree := &ast.Node{Kind: ast.KindBinary, Op: "+", Left: name("a"), Right: num("1")}

	var visited int
	ok := Walk(tree, func(n *ast.Node) (*ast.Node, Outcome) {
		visited++
		if n.Kind == ast.KindName {
			return nil, Stop
		}
		return nil, Continue
	})

	require.False(t, ok)
	require.Equal(t, 2, visited) // binary, then name("a") which stops before num("1")
}

func TestWalkForInSkipsVarHead(t *testing.T) {
	t.Parallel()

	loopVar := &ast.Node{Kind: ast.KindVar, Bindings: []ast.Binding{{Name: "k"}}}
	tree := &ast.Node{
		Kind:  ast.KindForIn,
		Left:  loopVar,
		Right: name("obj"),
		Body:  &ast.Node{Kind: ast.KindBlock},
	}

	var visitedVar bool
	Walk(tree, func(n *ast.Node) (*ast.Node, Outcome) {
		if n == loopVar {
			visitedVar = true
		}
		return nil, Continue
	})

	require.False(t, visitedVar, "for-in's var-headed loop variable must be skipped")
}

func TestNames(t *testing.T) {
	t.Parallel()

	expr := &ast.Node{
		Kind: ast.KindBinary,
		Op:   "+",
		Left: &ast.Node{Kind: ast.KindBinary, Op: "*", Left: name("x"), Right: name("y")},
		Right: name("x"),
	}

	require.Equal(t, []ast.Name{"x", "y"}, Names(expr))
}

func TestResolveAssignTarget(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		description string
		node        *ast.Node
		want        ast.Name
	}{
		{"plain name", name("x"), "x"},
		{"indexed", &ast.Node{Kind: ast.KindSub, Left: name("arr"), Right: num("0")}, "arr"},
		{"dotted", &ast.Node{Kind: ast.KindDot, Left: name("obj"), Field: "field"}, "obj"},
		{"call result has no name", &ast.Node{Kind: ast.KindCall, Callee: name("f")}, ""},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ResolveAssignTarget(tc.node))
		})
	}
}

func TestPrintExprShortensLongCallArgs(t *testing.T) {
	t.Parallel()

	call := &ast.Node{Kind: ast.KindCall, Callee: name("foo"), Args: []*ast.Node{name("longArgumentName")}}
	require.Equal(t, "foo(...)", PrintExpr(call, true))

	shortCall := &ast.Node{Kind: ast.KindCall, Callee: name("foo"), Args: []*ast.Node{name("x")}}
	require.Equal(t, "foo(x)", PrintExpr(shortCall, true))
}
