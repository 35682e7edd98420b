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

// Package eligibility implements the Eligibility Decision (spec.md
// §4.7): combining every upstream table into the final eliminable/not
// verdict for each single-def variable.
package eligibility

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/initializer"
	"github.com/varelim/varelim/stats"
	"github.com/varelim/varelim/util/orderedmap"
)

// Decide returns, in first-declaration order, the set of eliminable
// variables together with their (not yet collapsed) initializers.
//
// V is eliminable iff: is_single_def[V]; uses_only_simple_nodes[V];
// and either use_count[V] == 0, or use_count[V] <= maxUses and
// deps_mutated_in_live_range[V] is false. An unused variable is always
// eliminable once it passes the simple-initializer test: there is no
// live range in which mutation could matter.
func Decide(st *stats.Table, init *initializer.Table, mutated map[ast.Name]bool, maxUses int) *orderedmap.OrderedMap[ast.Name, *ast.Node] {
	out := orderedmap.New[ast.Name, *ast.Node]()

	st.InitialValue.Range(func(v ast.Name, value *ast.Node) bool {
		if eligible(v, st, init, mutated, maxUses) {
			out.Store(v, value)
		}
		return true
	})
	return out
}

func eligible(v ast.Name, st *stats.Table, init *initializer.Table, mutated map[ast.Name]bool, maxUses int) bool {
	if !st.IsSingleDef[v] {
		return false
	}
	if !init.UsesOnlySimpleNodes[v] {
		return false
	}

	count, _ := st.UseCount.Load(v)
	if count == 0 {
		return true
	}
	return count <= maxUses && !mutated[v]
}
