//  Copyright (c) 2025 Uber Technologies, Inc.
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

// Package passhelper provides FuncPass, a per-invocation context
// bundling the function body being analyzed and the active
// *config.Config, and a position-annotated panic/recover helper for the
// "structural invalidity is a caller programming error" contract of
// spec.md §7. Within this module, Optimize's structural validation is
// its only user; the analysis passes take their inputs directly.
package passhelper

import (
	"fmt"

	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/config"
)

// FuncPass bundles the per-function state every pass needs: the
// function body (an ordered statement list, per spec.md §6's note that
// implementations should accept the body directly to decouple from the
// enclosing function node) and the configuration in effect for this
// run.
type FuncPass struct {
	Body []*ast.Node
	Conf *config.Config
}

// NewFuncPass constructs a FuncPass for one function body.
func NewFuncPass(body []*ast.Node, conf *config.Config) *FuncPass {
	if conf == nil {
		conf = config.Default()
	}
	return &FuncPass{Body: body, Conf: conf}
}

// invalidAST is the panic value used by Panic, recovered exactly once
// at the top of Optimize and converted into a returned error, per
// spec.md §7: "Structural invalidity... is a programming error in the
// caller... an unexpected condition during analysis is fatal to that
// function's optimization but never corrupts an already-emitted body."
type invalidAST struct {
	msg string
	pos ast.Position
}

func (e *invalidAST) Error() string {
	return fmt.Sprintf("%s (line %d, col %d)", e.msg, e.pos.Line, e.pos.Col)
}

// Panic raises a position-annotated, caller-programming-error panic.
// Recover with Recover at the boundary of one Optimize invocation.
func (p *FuncPass) Panic(msg string, pos ast.Position) {
	panic(&invalidAST{msg: msg, pos: pos})
}

// Recover must be deferred at the top of any function that calls
// FuncPass.Panic (directly or transitively). If the recovered value is
// one raised by Panic, it is written to *errOut and the panic is
// suppressed; any other panic value is re-raised, since it indicates a
// bug in this module rather than a malformed input AST.
func Recover(errOut *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*invalidAST); ok {
		*errOut = e
		return
	}
	panic(r)
}
