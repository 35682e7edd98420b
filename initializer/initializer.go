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

// Package initializer implements the Initializer Analysis Pass
// (spec.md §4.4): for every single-def variable it walks the
// initializer subtree once, testing whether it contains only
// side-effect-free node kinds and recording which other names it reads
// directly.
package initializer

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/nodeclass"
	"github.com/varelim/varelim/stats"
	"github.com/varelim/varelim/util/asthelper"
)

// Table holds this pass's two tables, keyed per spec.md §3.
//
// DependsOn is keyed by the dependency, not the dependent: DependsOn[R]
// is the set of single-def variables whose initializer reads R. This
// is the orientation package flow's Transitive Dependency Closure and
// the live-range pass's "who depends on the thing just reassigned"
// lookup both need, and it is exactly the direction spec.md §4.4
// describes ("depends_on[R] gains V").
type Table struct {
	UsesOnlySimpleNodes map[ast.Name]bool
	DependsOn           map[ast.Name]map[ast.Name]bool
	DependsOnGlobal     map[ast.Name]bool
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		UsesOnlySimpleNodes: make(map[ast.Name]bool),
		DependsOn:           make(map[ast.Name]map[ast.Name]bool),
		DependsOnGlobal:     make(map[ast.Name]bool),
	}
}

// Compute runs the Initializer Analysis Pass over every single-def
// variable recorded in st.
func Compute(st *stats.Table) *Table {
	t := NewTable()
	st.InitialValue.Range(func(v ast.Name, init *ast.Node) bool {
		if st.IsSingleDef[v] {
			t.analyze(v, init, st)
		}
		return true
	})
	return t
}

func (t *Table) analyze(v ast.Name, init *ast.Node, st *stats.Table) {
	simple := true
	asthelper.Walk(init, func(n *ast.Node) (*ast.Node, asthelper.Outcome) {
		if !nodeclass.IsSideEffectFree(n.Kind) {
			simple = false
		}
		if n.Kind == ast.KindName && !ast.IsUndefinedLiteral(n) {
			t.addDependency(n.Ident, v)
			if !st.IsLocal[n.Ident] {
				t.DependsOnGlobal[v] = true
			}
		}
		return nil, asthelper.Continue
	})
	t.UsesOnlySimpleNodes[v] = simple
}

func (t *Table) addDependency(dependency, dependent ast.Name) {
	set := t.DependsOn[dependency]
	if set == nil {
		set = make(map[ast.Name]bool)
		t.DependsOn[dependency] = set
	}
	set[dependent] = true
}
