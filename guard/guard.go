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

// Package guard implements the Closure Guard (spec.md §4.2): the
// precondition check that decides whether a function body is eligible
// for the rest of the pipeline at all.
package guard

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/util/asthelper"
)

// Rejects reports whether body must be skipped entirely: it contains a
// nested function (`function`, `defun`) or a `with` statement. Nested
// functions capture variables whose use sites this analysis never
// sees, and `with` injects unknown bindings into scope; either could
// invalidate a single-def conclusion reached without seeing it.
func Rejects(body []*ast.Node) bool {
	rejected := false
	for _, stmt := range body {
		if rejected {
			return true
		}
		asthelper.Walk(stmt, func(n *ast.Node) (*ast.Node, asthelper.Outcome) {
			switch n.Kind {
			case ast.KindDefun, ast.KindFunction, ast.KindWith:
				rejected = true
				return nil, asthelper.Stop
			}
			return nil, asthelper.Continue
		})
	}
	return rejected
}
