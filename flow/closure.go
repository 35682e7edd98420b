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

// Package flow implements the two dataflow passes that run between
// initializer analysis and the eligibility decision: Transitive
// Dependency Closure (spec.md §4.5) and Live-Range Mutation Analysis
// (spec.md §4.6).
package flow

import "github.com/varelim/varelim/initializer"

// Close turns init.DependsOn into its transitive closure in place and
// propagates DependsOnGlobal along it, per spec.md §4.5.
//
// init.DependsOn[R] is the set of variables whose initializer reads R
// (see package initializer's doc comment on the orientation). The
// relation "R depends on S" therefore reads as "R appears in
// init.DependsOn[S]". Iterating to a fixpoint: for every S, every R
// that depends on S (R ∈ DependsOn[S]), and every V that depends on R
// (V ∈ DependsOn[R]), V transitively depends on S too, so V is added
// to DependsOn[S]; if S is not local, V also depends on a global.
func Close(init *initializer.Table, isLocal map[string]bool) {
	for {
		changed := false
		for s, rSet := range init.DependsOn {
			for r := range rSet {
				vSet := init.DependsOn[r]
				for v := range vSet {
					if !rSet[v] {
						rSet[v] = true
						changed = true
					}
					if !isLocal[s] && !init.DependsOnGlobal[v] {
						init.DependsOnGlobal[v] = true
						changed = true
					}
				}
			}
		}
		if !changed {
			return
		}
	}
}
