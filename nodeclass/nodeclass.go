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

// Package nodeclass hosts the registry of node-kind classifications
// shared by every pass: which kinds are side-effect-free, which end a
// live range conservatively as control-flow boundaries, and which are
// statement/structural forms. Keeping this in one place, queried by
// every pass instead of re-declared per pass, mirrors how the teacher
// codebase centralizes "trusted signature" style registries instead of
// inlining the check at every call site.
package nodeclass

import "github.com/varelim/varelim/ast"

// SideEffectFree holds the node kinds spec.md §3 deems side-effect-free:
// name, num, string, binary, sub. A node qualifies only by its own kind;
// sub-children are not examined for this predicate (spec.md is explicit
// that `sub`'s object/index sub-children are not re-checked here).
var SideEffectFree = map[ast.Kind]bool{
	ast.KindName:   true,
	ast.KindNum:    true,
	ast.KindString: true,
	ast.KindBinary: true,
	ast.KindSub:    true,
}

// ControlFlow holds the kinds treated as potentially externally
// observable, per spec.md §3: they end live ranges conservatively.
var ControlFlow = map[ast.Kind]bool{
	ast.KindReturn:   true,
	ast.KindBreak:    true,
	ast.KindContinue: true,
	ast.KindNew:      true,
	ast.KindThrow:    true,
	ast.KindCall:     true,
	ast.KindLabel:    true,
	ast.KindDebugger: true,
}

// Structural holds the statement/structural kinds of spec.md §3.
var Structural = map[ast.Kind]bool{
	ast.KindVar:       true,
	ast.KindAssign:    true,
	ast.KindUnaryPre:  true,
	ast.KindUnaryPost: true,
	ast.KindIf:        true,
	ast.KindSwitch:    true,
	ast.KindTry:       true,
	ast.KindDo:        true,
	ast.KindWhile:     true,
	ast.KindFor:       true,
	ast.KindForIn:     true,
	ast.KindFunction:  true,
	ast.KindDefun:     true,
	ast.KindWith:      true,
}

// CompoundControlFlow holds the kinds that Live-Range Mutation Analysis
// (spec.md §4.6) treats as compound control-flow nodes requiring the
// snapshot-and-intersect discipline.
var CompoundControlFlow = map[ast.Kind]bool{
	ast.KindSwitch: true,
	ast.KindIf:     true,
	ast.KindTry:    true,
	ast.KindDo:     true,
	ast.KindWhile:  true,
	ast.KindFor:    true,
	ast.KindForIn:  true,
}

// Loop holds the subset of CompoundControlFlow that are loops, for
// which the body is walked from an empty live set (spec.md §4.6).
var Loop = map[ast.Kind]bool{
	ast.KindDo:    true,
	ast.KindWhile: true,
	ast.KindFor:   true,
	ast.KindForIn: true,
}

// IsSideEffectFree reports whether k is in the side-effect-free class.
func IsSideEffectFree(k ast.Kind) bool { return SideEffectFree[k] }

// IsControlFlow reports whether k is in the control-flow class.
func IsControlFlow(k ast.Kind) bool { return ControlFlow[k] }

// IsStructural reports whether k is in the statement/structural class.
func IsStructural(k ast.Kind) bool { return Structural[k] }

// IsCompoundControlFlow reports whether k requires the snapshot-and-
// intersect discipline in Live-Range Mutation Analysis.
func IsCompoundControlFlow(k ast.Kind) bool { return CompoundControlFlow[k] }

// IsLoop reports whether k is a loop kind, whose body is walked from an
// empty live set.
func IsLoop(k ast.Kind) bool { return Loop[k] }
