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

package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/varelim/varelim/ast"
)

func TestParseTopLevelFunction(t *testing.T) {
	t.Parallel()

	src := []byte(`
function add(a, b) {
  var sum = a + b;
  return sum;
}
`)
	root, err := Parse(src)
	require.NoError(t, err)

	fns := TopLevelFunctions(root)
	require.Len(t, fns, 1)

	fn := fns[0]
	require.Equal(t, ast.KindDefun, fn.Kind)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, []ast.Name{"a", "b"}, fn.Params)
	require.Len(t, fn.Stmts, 2)
	require.Equal(t, ast.KindVar, fn.Stmts[0].Kind)
	require.Equal(t, "sum", fn.Stmts[0].Bindings[0].Name)
	require.Equal(t, ast.KindBinary, fn.Stmts[0].Bindings[0].Init.Kind)
	require.Equal(t, ast.KindReturn, fn.Stmts[1].Kind)
}

func TestParseArrowFunctionIsOpaque(t *testing.T) {
	t.Parallel()

	src := []byte(`
function outer() {
  var f = () => 1;
  return f;
}
`)
	root, err := Parse(src)
	require.NoError(t, err)

	fn := TopLevelFunctions(root)[0]
	init := fn.Stmts[0].Bindings[0].Init
	require.Equal(t, ast.KindOpaque, init.Kind, "an arrow function initializer must never be classified as a trackable simple node")
}

func TestParseMemberAndCallExpressions(t *testing.T) {
	t.Parallel()

	src := []byte(`
function f(obj) {
  var v = obj.prop;
  g(v);
}
`)
	root, err := Parse(src)
	require.NoError(t, err)

	fn := TopLevelFunctions(root)[0]
	init := fn.Stmts[0].Bindings[0].Init
	require.Equal(t, ast.KindDot, init.Kind)
	require.Equal(t, "prop", init.Field)
	require.Equal(t, "obj", init.Left.Ident)

	call := fn.Stmts[1]
	require.Equal(t, ast.KindCall, call.Kind)
	require.Equal(t, "g", call.Callee.Ident)
	require.Len(t, call.Args, 1)
	require.Equal(t, "v", call.Args[0].Ident)
}

func TestParseForLoop(t *testing.T) {
	t.Parallel()

	src := []byte(`
function f() {
  for (var i = 0; i < 10; i++) {
    x = i;
  }
}
`)
	root, err := Parse(src)
	require.NoError(t, err)

	fn := TopLevelFunctions(root)[0]
	loop := fn.Stmts[0]
	require.Equal(t, ast.KindFor, loop.Kind)
	require.Equal(t, ast.KindVar, loop.Init.Kind)
	require.Equal(t, ast.KindBinary, loop.Cond.Kind)
	require.Equal(t, ast.KindUnaryPost, loop.Post.Kind)
	require.Equal(t, "++", loop.Post.Op)
}
