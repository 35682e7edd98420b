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

package passhelper

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/config"
)

func TestNewFuncPassDefaultsConfig(t *testing.T) {
	t.Parallel()

	p := NewFuncPass(nil, nil)
	require.Equal(t, config.DefaultMaxUses, p.Conf.MaxUses)
}

func TestPanicRecoveredAsError(t *testing.T) {
	t.Parallel()

	p := NewFuncPass(nil, config.Default())

	run := func() (err error) {
		defer Recover(&err)
		p.Panic("bad shape", ast.Position{Line: 3, Col: 1})
		return nil
	}

	err := run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad shape")
	require.Contains(t, err.Error(), "line 3")
}

func TestUnrelatedPanicPropagates(t *testing.T) {
	t.Parallel()

	run := func() (err error) {
		defer Recover(&err)
		panic("unrelated bug")
	}

	require.Panics(t, func() { _ = run() })
}
