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

package accumulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varelim/varelim"
)

func TestAccumulateTotals(t *testing.T) {
	t.Parallel()

	results := []FileResult{
		{
			File: "a.js",
			Outcomes: []varelim.Outcome{
				{Name: "f1", Result: varelim.Result{Eliminated: 2}},
				{Name: "f2", Result: varelim.Result{Skipped: true}},
			},
		},
		{
			File: "b.js",
			Outcomes: []varelim.Outcome{
				{Name: "g1", Result: varelim.Result{Eliminated: 1}},
				{Name: "g2", Err: errors.New("boom")},
			},
		},
	}

	s := Accumulate(results)

	require.Equal(t, 2, s.Files)
	require.Equal(t, 4, s.Functions)
	require.Equal(t, 1, s.Skipped)
	require.Equal(t, 1, s.Errored)
	require.Equal(t, 3, s.Eliminated)
	require.Len(t, s.PerFile, 2)
	require.Equal(t, "a.js", s.PerFile[0].File)
	require.Equal(t, 2, s.PerFile[0].Eliminated)
	require.Equal(t, 1, s.PerFile[1].Errored)
}

func TestAccumulateEmpty(t *testing.T) {
	t.Parallel()

	s := Accumulate(nil)
	require.Zero(t, s.Files)
	require.Zero(t, s.Functions)
	require.Empty(t, s.PerFile)
}
