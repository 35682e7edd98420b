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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	fixtures, err := LoadFixtures("testdata/fixtures")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(fixtures), 2, "at least the two checked-in fixtures must load")

	for _, f := range fixtures {
		require.NotEmpty(t, f.Input, "%s: input.js must be non-empty", f.Path)
		require.NotEmpty(t, f.Golden, "%s: golden.js must be non-empty", f.Path)
	}
}

func TestRunAgainstCheckedInFixtures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Run(&buf, "testdata/fixtures", false)
	require.NoError(t, err, "checked-in fixtures must match the optimizer's current output:\n%s", buf.String())
}

// TestRunDetectsMismatch writes a fixture whose golden.js is deliberately
// wrong and confirms Run reports it, rather than silently passing.
func TestRunDetectsMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txtar")
	ar := &txtar.Archive{Files: []txtar.File{
		{Name: "input.js", Data: []byte("function f() {\n  var a = 1;\n  return 2;\n}\n")},
		{Name: "golden.js", Data: []byte("this is not what the optimizer would ever print")},
	}}
	require.NoError(t, os.WriteFile(path, txtar.Format(ar), 0o644))

	var buf bytes.Buffer
	err := Run(&buf, dir, false)
	require.Error(t, err, "a deliberately wrong golden.js must be reported as a mismatch")
}

// TestRunUpdateRegeneratesGolden exercises --update end to end: writing a
// fixture with no golden.js, running with update=true to generate one,
// then running again with update=false and expecting a clean match.
// Unlike the checked-in fixtures above (whose golden.js was derived by
// hand-tracing the optimizer), this round-trips through the tool itself,
// so it stays correct even if the optimizer's output text ever changes.
func TestRunUpdateRegeneratesGolden(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.txtar")
	ar := &txtar.Archive{Files: []txtar.File{
		{Name: "input.js", Data: []byte("function h() {\n  var unused = 42;\n  return 7;\n}\n")},
	}}
	require.NoError(t, os.WriteFile(path, txtar.Format(ar), 0o644))

	var buf bytes.Buffer
	require.NoError(t, Run(&buf, dir, true), "generating golden.js for the first time must not error")

	buf.Reset()
	err := Run(&buf, dir, false)
	require.NoError(t, err, "a freshly generated golden.js must match on the next run:\n%s", buf.String())
}
