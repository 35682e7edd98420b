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

// Package rewrite implements the Rewrite Passes (spec.md §4.8):
// declaration removal, mutual collapse of the eliminated set's
// initializers, and substitution at every remaining use site.
package rewrite

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/util/asthelper"
	"github.com/varelim/varelim/util/orderedmap"
)

// Apply mutates body in place per the three rewrite passes and returns
// the number of variables eliminated (len(eliminable)).
func Apply(body []*ast.Node, eliminable *orderedmap.OrderedMap[ast.Name, *ast.Node]) int {
	count := eliminable.Len()
	if count == 0 {
		return 0
	}

	removeDeclarations(body, eliminable)
	collapse(eliminable)
	substitute(body, eliminable)

	return count
}

// removeDeclarations walks body and, for every `var` statement, drops
// the bindings whose name is in eliminable. A `var` left with no
// bindings is replaced by an empty block (spec.md §4.8's "empty
// top-level sequence").
func removeDeclarations(body []*ast.Node, eliminable *orderedmap.OrderedMap[ast.Name, *ast.Node]) {
	root := &ast.Node{Kind: ast.KindBlock, List: body}
	asthelper.Walk(root, func(n *ast.Node) (*ast.Node, asthelper.Outcome) {
		if n.Kind != ast.KindVar {
			return nil, asthelper.Continue
		}

		kept := n.Bindings[:0:0]
		for _, b := range n.Bindings {
			if !eliminable.Has(b.Name) {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			return &ast.Node{Kind: ast.KindBlock}, asthelper.Continue
		}
		if len(kept) == len(n.Bindings) {
			return n, asthelper.Continue
		}
		return &ast.Node{Kind: ast.KindVar, Pos: n.Pos, Bindings: kept}, asthelper.Continue
	})
}

// collapse replaces, within every eliminable variable's own
// initializer, every `name` reference to another eliminable variable
// with that variable's (already-collapsed, at the time of
// replacement) initializer. It iterates to a fixpoint: per spec.md
// §4.8, the dependency graph among eliminable variables is acyclic (a
// cycle would require a second assignment, which would already have
// made one of them non-single-def), so this always terminates.
func collapse(eliminable *orderedmap.OrderedMap[ast.Name, *ast.Node]) {
	for {
		changed := false
		names := eliminable.Keys()
		for _, v := range names {
			init, _ := eliminable.Load(v)
			// init may itself be a bare `name` reference to another
			// eliminable variable, so it must be walked through a slot
			// substituteNames can overwrite (asthelper.Walk cannot
			// replace the very node passed to it, only its children).
			holder := &ast.Node{Kind: ast.KindBlock, List: []*ast.Node{init}}
			if substituteNames(holder, eliminable) {
				changed = true
				eliminable.Store(v, holder.List[0])
			}
		}
		if !changed {
			return
		}
	}
}

// substitute walks body and replaces every remaining `name` reference
// to an eliminable variable with its (collapsed) initializer.
func substitute(body []*ast.Node, eliminable *orderedmap.OrderedMap[ast.Name, *ast.Node]) {
	substituteNames(&ast.Node{Kind: ast.KindBlock, List: body}, eliminable)
}

// substituteNames walks n, replacing every `name` node whose
// identifier is in eliminable with a clone of the corresponding
// initializer. It reports whether any replacement was made.
func substituteNames(n *ast.Node, eliminable *orderedmap.OrderedMap[ast.Name, *ast.Node]) bool {
	replaced := false
	asthelper.Walk(n, func(node *ast.Node) (*ast.Node, asthelper.Outcome) {
		if node.Kind != ast.KindName {
			return nil, asthelper.Continue
		}
		init, ok := eliminable.Load(node.Ident)
		if !ok {
			return nil, asthelper.Continue
		}
		replaced = true
		return init.Clone(), asthelper.Continue
	})
	return replaced
}
