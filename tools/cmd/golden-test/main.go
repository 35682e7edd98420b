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

// Package main implements a before/after regression harness for
// varelim: each fixture under --fixtures is a txtar archive holding an
// "input.js" file and a "golden.js" file. The tool parses input.js,
// runs the optimizer over it, prints the result, and diffs it against
// golden.js, narrowing the teacher's branch-comparison golden tool
// (tools/cmd/golden-test/main.go, which diffs NilAway's diagnostics
// between two git branches) to a single-branch fixture comparison:
// varelim has no upstream/downstream package graph to diff a branch
// against, only one pipeline's output against a recorded expectation.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"github.com/varelim/varelim"
	"github.com/varelim/varelim/config"
	"github.com/varelim/varelim/frontend"
	"github.com/varelim/varelim/printer"
)

var (
	_fixturesDir = flag.String("fixtures", "testdata/fixtures", "directory of *.txtar fixtures, each with an input.js and golden.js file")
	_update      = flag.Bool("update", false, "overwrite each fixture's golden.js with the optimizer's current output instead of diffing against it")
)

func main() {
	flag.Parse()
	if err := Run(os.Stdout, *_fixturesDir, *_update); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Fixture is one parsed *.txtar golden-test case.
type Fixture struct {
	Path   string
	Input  []byte
	Golden []byte
}

// LoadFixtures reads every *.txtar file in dir into a Fixture.
func LoadFixtures(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fixtures dir %q: %w", dir, err)
	}

	var fixtures []Fixture
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txtar") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		ar, err := txtar.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", path, err)
		}

		f := Fixture{Path: path}
		for _, file := range ar.Files {
			switch file.Name {
			case "input.js":
				f.Input = file.Data
			case "golden.js":
				f.Golden = file.Data
			}
		}
		if f.Input == nil {
			return nil, fmt.Errorf("%q: missing input.js section", path)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// Optimize parses src, runs the optimizer over every top-level function
// and over the top-level statement list itself, and prints the result.
func Optimize(src []byte) (string, error) {
	root, err := frontend.Parse(src)
	if err != nil {
		return "", err
	}
	if _, err := varelim.Optimize(root.List, config.Default()); err != nil {
		return "", err
	}
	for _, fn := range frontend.TopLevelFunctions(root) {
		if _, err := varelim.Optimize(fn.Stmts, config.Default()); err != nil {
			return "", err
		}
	}
	return printer.Print(root.List), nil
}

// Run loads every fixture in dir, optimizes its input, and either
// overwrites its golden.js (update=true) or diffs the output against
// the recorded golden.js, writing a human-readable report to w. It
// returns an error if any fixture's output does not match (update=false).
func Run(w io.Writer, dir string, update bool) error {
	fixtures, err := LoadFixtures(dir)
	if err != nil {
		return err
	}

	var mismatches []string
	for _, f := range fixtures {
		got, err := Optimize(f.Input)
		if err != nil {
			mismatches = append(mismatches, fmt.Sprintf("%s: optimize error: %v", f.Path, err))
			continue
		}

		if update {
			if err := writeGolden(f.Path, got); err != nil {
				return err
			}
			fmt.Fprintf(w, "updated %s\n", f.Path)
			continue
		}

		want := string(f.Golden)
		if got == want {
			fmt.Fprintf(w, "%s %s\n", color.GreenString("ok"), f.Path)
			continue
		}

		diff := cmp.Diff(want, got)
		mismatches = append(mismatches, fmt.Sprintf("%s: output mismatch (-want +got):\n%s", f.Path, diff))
		fmt.Fprintf(w, "%s %s\n", color.RedString("FAIL"), f.Path)
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("%d fixture(s) failed:\n%s", len(mismatches), strings.Join(mismatches, "\n"))
	}
	return nil
}

func writeGolden(fixturePath, got string) error {
	ar, err := txtar.ParseFile(fixturePath)
	if err != nil {
		return err
	}
	for i, file := range ar.Files {
		if file.Name == "golden.js" {
			ar.Files[i].Data = []byte(got)
			return os.WriteFile(fixturePath, txtar.Format(ar), 0o644)
		}
	}
	ar.Files = append(ar.Files, txtar.File{Name: "golden.js", Data: []byte(got)})
	return os.WriteFile(fixturePath, txtar.Format(ar), 0o644)
}
