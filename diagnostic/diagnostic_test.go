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

package diagnostic

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varelim/varelim"
	"github.com/varelim/varelim/accumulation"
)

func TestReportFunctionUncolored(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, false)

	r.ReportFunction("a.js", "f", varelim.Outcome{Result: varelim.Result{Eliminated: 2}})
	require.Contains(t, buf.String(), "eliminated 2 variable(s): a.js:f")

	buf.Reset()
	r.ReportFunction("a.js", "g", varelim.Outcome{Result: varelim.Result{Skipped: true}})
	require.Contains(t, buf.String(), "skipped: a.js:g")

	buf.Reset()
	r.ReportFunction("a.js", "h", varelim.Outcome{Err: errors.New("bad ast")})
	require.Contains(t, buf.String(), "error: a.js:h: bad ast")
}

func TestReportFunctionColored(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, true)

	r.ReportFunction("a.js", "f", varelim.Outcome{Result: varelim.Result{Eliminated: 1}})
	require.Contains(t, buf.String(), "\x1b[")
}

func TestReportSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, false)

	s := accumulation.Accumulate([]accumulation.FileResult{
		{File: "a.js", Outcomes: []varelim.Outcome{{Result: varelim.Result{Eliminated: 3}}}},
	})
	r.ReportSummary(s)

	out := buf.String()
	require.Contains(t, out, "1 file(s), 1 function(s), 3 eliminated")
	require.Contains(t, out, "a.js: 3/1 eliminated")
}
