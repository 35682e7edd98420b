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

// Package stats implements the Basic Statistics Pass (spec.md §4.3):
// one traversal over a function body that records, for every name it
// sees, whether it is a declared local, whether it is assigned exactly
// once, its initializer, and its total read count.
package stats

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/util/asthelper"
	"github.com/varelim/varelim/util/orderedmap"
)

// Table holds the per-function tables this pass populates (spec.md §3).
// IsLocal and IsSingleDef answer "was this name ever declared via var"
// and "does it have exactly one assigning occurrence"; InitialValue and
// UseCount are kept as OrderedMaps so that later passes (flow,
// eligibility, rewrite) iterate declared names in first-declaration
// order, which is what makes their output deterministic.
type Table struct {
	IsLocal      map[ast.Name]bool
	IsSingleDef  map[ast.Name]bool
	InitialValue *orderedmap.OrderedMap[ast.Name, *ast.Node]
	UseCount     *orderedmap.OrderedMap[ast.Name, int]

	declaredBefore map[ast.Name]bool
}

// NewTable returns an empty Table, ready for Compute.
func NewTable() *Table {
	return &Table{
		IsLocal:        make(map[ast.Name]bool),
		IsSingleDef:    make(map[ast.Name]bool),
		InitialValue:   orderedmap.New[ast.Name, *ast.Node](),
		UseCount:       orderedmap.New[ast.Name, int](),
		declaredBefore: make(map[ast.Name]bool),
	}
}

// Compute runs the Basic Statistics Pass over body and returns the
// populated Table.
func Compute(body []*ast.Node) *Table {
	t := NewTable()
	for _, stmt := range body {
		asthelper.Walk(stmt, t.visit)
	}
	return t
}

func (t *Table) visit(n *ast.Node) (*ast.Node, asthelper.Outcome) {
	switch n.Kind {
	case ast.KindVar:
		for _, b := range n.Bindings {
			t.declareBinding(b)
		}
	case ast.KindName:
		t.recordRead(n.Ident)
	case ast.KindAssign:
		t.markNonSingleDefTarget(n.Left)
	case ast.KindUnaryPre, ast.KindUnaryPost:
		t.markNonSingleDefTarget(n.Operand)
	}
	return nil, asthelper.Continue
}

func (t *Table) declareBinding(b ast.Binding) {
	init := b.Init
	if init == nil {
		init = ast.Undefined()
	}

	if t.declaredBefore[b.Name] {
		// Two var bindings for the same name disqualify it (spec.md §4.3).
		t.IsSingleDef[b.Name] = false
		t.declaredBefore[b.Name] = true
		return
	}

	t.IsLocal[b.Name] = true
	t.IsSingleDef[b.Name] = true
	t.InitialValue.Store(b.Name, init)
	t.UseCount.Store(b.Name, 0)
	t.declaredBefore[b.Name] = true
}

func (t *Table) recordRead(name ast.Name) {
	if count, ok := t.UseCount.Load(name); ok {
		t.UseCount.Store(name, count+1)
		return
	}
	// A read of a name we never tracked a declaration for: a free
	// variable (parameter or global) whose read precedes any
	// declaration we tracked (spec.md §4.3).
	t.IsSingleDef[name] = false
}

func (t *Table) markNonSingleDefTarget(target *ast.Node) {
	name := asthelper.ResolveAssignTarget(target)
	if name == "" {
		return
	}
	t.IsSingleDef[name] = false
}
