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

// Package varelim is the redundant local-variable elimination
// optimizer. Optimize runs the full eight-component pipeline over one
// function body; RunAll fans that out, one goroutine per worker, over
// every function body in a source file.
package varelim

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/config"
	"github.com/varelim/varelim/eligibility"
	"github.com/varelim/varelim/flow"
	"github.com/varelim/varelim/guard"
	"github.com/varelim/varelim/initializer"
	"github.com/varelim/varelim/rewrite"
	"github.com/varelim/varelim/stats"
	"github.com/varelim/varelim/util/asthelper"
	"github.com/varelim/varelim/util/passhelper"
)

// Result is the per-function outcome of Optimize (spec.md §6's
// "output" contract: a count of eliminated variables, or a skipped
// sentinel).
type Result struct {
	// Eliminated is the number of variables removed. Meaningless when
	// Skipped is true.
	Eliminated int
	// Skipped is true when the closure guard rejected the body; the
	// body is then returned untouched.
	Skipped bool
}

// Optimize runs the full pass pipeline over body, in the fixed order
// spec.md §5 mandates: closure guard, basic stats, initializer
// analysis, transitive closure, live-range analysis, eligibility,
// then the three rewrite passes. body is mutated in place.
//
// err is non-nil only when the input AST violates the structural
// contract of spec.md §6 (e.g. a `var` node with no bindings); per
// spec.md §7 this is a caller programming error, scoped to this one
// function body, and never corrupts a body already emitted by a prior
// call.
func Optimize(body []*ast.Node, cfg *config.Config) (result Result, err error) {
	if cfg == nil {
		cfg = config.Default()
	}
	defer passhelper.Recover(&err)

	validate(body)

	if guard.Rejects(body) {
		return Result{Skipped: true}, nil
	}

	st := stats.Compute(body)
	init := initializer.Compute(st)
	flow.Close(init, st.IsLocal)
	mutated := flow.LiveRangeAnalysis(body, st, init)
	eliminable := eligibility.Decide(st, init, mutated, cfg.MaxUses)

	count := rewrite.Apply(body, eliminable)
	return Result{Eliminated: count}, nil
}

// validate enforces the one structural invariant spec.md §3 calls out
// explicitly: "a var statement holds a non-empty ordered list of
// bindings". Every other node shape is accepted as-is; unrecognized
// kinds are opaque leaves per spec.md §7, not validation failures.
func validate(body []*ast.Node) {
	p := passhelper.NewFuncPass(body, nil)
	for _, stmt := range body {
		asthelper.Walk(stmt, func(n *ast.Node) (*ast.Node, asthelper.Outcome) {
			if n.Kind == ast.KindVar && len(n.Bindings) == 0 {
				p.Panic("var statement with no bindings", n.Pos)
			}
			return nil, asthelper.Continue
		})
	}
}
