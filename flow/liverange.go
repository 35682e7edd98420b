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

package flow

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/initializer"
	"github.com/varelim/varelim/nodeclass"
	"github.com/varelim/varelim/stats"
	"github.com/varelim/varelim/util/asthelper"
)

// LiveRangeAnalysis runs the Live-Range Mutation Analysis pass
// (spec.md §4.6) over body and returns deps_mutated_in_live_range.
//
// Unlike every other pass in this module, this one is not built on
// package asthelper's generic Walk: the snapshot-and-intersect
// discipline required at compound control-flow nodes, and the
// empty-live-set rule for loop bodies, both need branch-aware
// recursion that a single linear pre-order callback cannot express.
// It is, in spirit, the same kind of bespoke structural walk spec.md
// §4.6 itself describes as having "two visitor roles" distinct from
// §4.1's primitive.
func LiveRangeAnalysis(body []*ast.Node, st *stats.Table, init *initializer.Table) map[ast.Name]bool {
	a := &analyzer{
		live:    make(map[ast.Name]bool),
		st:      st,
		init:    init,
		mutated: make(map[ast.Name]bool),
	}
	a.walkList(body)
	return a.mutated
}

type analyzer struct {
	live    map[ast.Name]bool
	targets map[ast.Name]bool // non-nil only while inside a loop body; collects assign/unary targets
	st      *stats.Table
	init    *initializer.Table
	mutated map[ast.Name]bool
}

func cloneSet(s map[ast.Name]bool) map[ast.Name]bool {
	out := make(map[ast.Name]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

// intersect keeps in dst only the keys also present in src.
func intersect(dst, src map[ast.Name]bool) {
	for k := range dst {
		if !src[k] {
			delete(dst, k)
		}
	}
}

// ---- Block visitor (spec.md §4.6) ----

func (a *analyzer) walkList(stmts []*ast.Node) {
	for _, stmt := range stmts {
		a.visitStmt(stmt)
	}
}

func (a *analyzer) visitStmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch {
	case n.Kind == ast.KindBlock:
		a.walkList(n.List)
	case nodeclass.IsCompoundControlFlow(n.Kind):
		a.visitCompound(n)
	case n.Kind == ast.KindVar:
		for i := range n.Bindings {
			b := &n.Bindings[i]
			if b.Init != nil {
				a.visitMutation(b.Init)
			}
			if a.st.IsSingleDef[b.Name] {
				a.live[b.Name] = true
			}
		}
	default:
		a.visitMutation(n)
	}
}

// visitBranch walks one branch of a compound node under the
// snapshot-and-intersect discipline: live is reset to base before the
// branch runs, and the post-branch live set is intersected into acc.
func (a *analyzer) visitBranch(base, acc map[ast.Name]bool, child *ast.Node) {
	a.live = cloneSet(base)
	a.visitStmt(child)
	intersect(acc, a.live)
}

func (a *analyzer) visitCompound(n *ast.Node) {
	if nodeclass.IsLoop(n.Kind) {
		a.visitLoop(n)
		return
	}

	base := a.live
	acc := cloneSet(base)

	switch n.Kind {
	case ast.KindIf:
		a.visitBranch(base, acc, n.Cond)
		a.visitBranch(base, acc, n.Then)
		if n.Else != nil {
			a.visitBranch(base, acc, n.Else)
		} else {
			intersect(acc, base) // the implicit "condition false" branch is a no-op
		}
	case ast.KindSwitch:
		a.visitBranch(base, acc, n.Cond)
		for _, c := range n.Cases {
			a.visitBranch(base, acc, c)
		}
		intersect(acc, base) // no case matching is always a feasible path

	case ast.KindTry:
		a.visitBranch(base, acc, n.TryBlock)
		if n.CatchBlock != nil {
			a.visitBranch(base, acc, n.CatchBlock)
		}
		if n.Finally != nil {
			a.visitBranch(base, acc, n.Finally)
		}
	}

	a.live = acc
}

// visitLoop implements spec.md §4.6's loop special case: the body is
// walked from an empty live set, because a loop body may execute zero
// or many times and nothing from the enclosing scope can be proven
// preserved across an iteration.
//
// Because the inner live set starts empty, no outer-scope name can
// literally be found in it and then "leave" it for the outer-set kill
// rule to apply to verbatim. This implementation tracks every name
// resolved as an assign/increment target anywhere in the loop body and,
// on exit, kills in the outer live set those names and every variable
// that depends on one of them: those are exactly the values a
// subsequent iteration could make stale.
func (a *analyzer) visitLoop(n *ast.Node) {
	// A `for` loop's init clause runs exactly once, before the loop is
	// entered, in the current (outer) live context — it is not part of
	// "the body" spec.md §4.6 says to walk from an empty live set.
	if n.Kind == ast.KindFor && n.Init != nil {
		a.visitStmt(n.Init)
	}

	outerLive := a.live
	outerTargets := a.targets

	a.live = make(map[ast.Name]bool)
	a.targets = make(map[ast.Name]bool)

	switch n.Kind {
	case ast.KindDo, ast.KindWhile:
		a.visitMutation(n.Cond)
		a.visitStmt(n.Body)
	case ast.KindFor:
		if n.Cond != nil {
			a.visitMutation(n.Cond)
		}
		if n.Post != nil {
			a.visitMutation(n.Post)
		}
		a.visitStmt(n.Body)
	case ast.KindForIn:
		if n.Left != nil && n.Left.Kind != ast.KindVar {
			a.visitMutation(n.Left)
		}
		a.visitMutation(n.Right)
		a.visitStmt(n.Body)
	}

	for t := range a.targets {
		delete(outerLive, t)
		for v := range a.init.DependsOn[t] {
			delete(outerLive, v)
		}
		if outerTargets != nil {
			outerTargets[t] = true
		}
	}

	a.live = outerLive
	a.targets = outerTargets
}

// ---- Mutation visitor (spec.md §4.6) ----

func (a *analyzer) visitMutation(n *ast.Node) {
	if n == nil {
		return
	}

	used := make(map[ast.Name]bool)
	for _, nm := range asthelper.Names(n) {
		used[nm] = true
	}

	// "For name: if the referenced name is single-def and it is not
	// currently in live, set deps_mutated_in_live_range[name] = true."
	for nm := range used {
		if a.st.IsSingleDef[nm] && !a.live[nm] {
			a.mutated[nm] = true
		}
	}

	a.applyMutationEffects(n, used)
}

// applyMutationEffects applies the assign/unary-prefix/unary-postfix/
// control-flow kill rules at n and at every assign/unary/call-like node
// nested anywhere inside it, not only at n itself. spec.md §4.6 states
// these rules in terms of wherever such a node occurs in the operand
// subtrees of the statement being visited — a top-level `assign` whose
// target expression itself contains an `i++` (e.g. `a[i++] = 5`) must
// kill i's dependents too, and a `binary` node whose operand is a `call`
// (e.g. `1 + helper()`) must still apply the control-flow kill for that
// call. used is the statement-wide used_in_this_statement set computed
// once by visitMutation; "used in this statement" (spec.md §4.6) refers
// to that whole-statement set regardless of which nested node the rule
// fires at.
func (a *analyzer) applyMutationEffects(n *ast.Node, used map[ast.Name]bool) {
	if n == nil {
		return
	}

	switch {
	case n.Kind == ast.KindAssign:
		target := asthelper.ResolveAssignTarget(n.Left)
		a.killDependents(target)
		a.recordTarget(target)
		for v := range a.live {
			if a.init.DependsOnGlobal[v] && !used[v] {
				delete(a.live, v)
			}
		}

	case n.Kind == ast.KindUnaryPre || n.Kind == ast.KindUnaryPost:
		target := asthelper.ResolveAssignTarget(n.Operand)
		a.killDependents(target)
		a.recordTarget(target)

	case nodeclass.IsControlFlow(n.Kind):
		for v := range a.live {
			if !(used[v] && !a.init.DependsOnGlobal[v]) {
				delete(a.live, v)
			}
		}
	}

	for _, child := range mutationChildren(n) {
		a.applyMutationEffects(child, used)
	}
}

// mutationChildren returns the direct expression-level children of n
// that applyMutationEffects must also inspect. It only ever descends
// through expression shapes (binary/sub/dot/assign/unary/call/new and
// return/throw's operand): a compound control-flow node can never be
// nested inside an expression, so those kinds (and the statement kinds
// the block visitor already owns, like `label`) are deliberately not
// expanded here.
func mutationChildren(n *ast.Node) []*ast.Node {
	switch n.Kind {
	case ast.KindBinary, ast.KindAssign, ast.KindSub:
		return []*ast.Node{n.Left, n.Right}
	case ast.KindDot:
		return []*ast.Node{n.Left}
	case ast.KindUnaryPre, ast.KindUnaryPost:
		return []*ast.Node{n.Operand}
	case ast.KindCall, ast.KindNew:
		children := make([]*ast.Node, 0, len(n.Args)+1)
		children = append(children, n.Callee)
		children = append(children, n.Args...)
		return children
	case ast.KindReturn, ast.KindThrow:
		if n.Operand != nil {
			return []*ast.Node{n.Operand}
		}
	}
	return nil
}

func (a *analyzer) killDependents(target ast.Name) {
	if target == "" {
		return
	}
	for v := range a.init.DependsOn[target] {
		delete(a.live, v)
	}
}

func (a *analyzer) recordTarget(target ast.Name) {
	if target == "" || a.targets == nil {
		return
	}
	a.targets[target] = true
}
