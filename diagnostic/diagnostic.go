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

// Package diagnostic renders the per-function and per-run summaries
// cmd/varelim writes to stderr, with optional ANSI coloring when the
// output stream is a terminal. It is the direct descendant of the
// teacher's nilaway.go prettyPrintErrorMessage / tools/cmd/golden-test
// coloring, swapped from hand-rolled ANSI escape regexes to
// fatih/color, gated on mattn/go-isatty the same way the teacher's own
// tools submodule gates color output.
package diagnostic

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/varelim/varelim"
	"github.com/varelim/varelim/accumulation"
	"github.com/varelim/varelim/config"
	"github.com/varelim/varelim/util/tokenhelper"
)

// Reporter writes function- and run-level summaries to a single output
// stream, coloring them when Color is true.
type Reporter struct {
	w     io.Writer
	Color bool
}

// NewReporter returns a Reporter writing to w. pretty, when true, enables
// ANSI coloring unconditionally; when false, coloring is still enabled
// if w is a *os.File attached to a terminal (mirroring config.PrettyPrint
// being an explicit override of the automatic terminal detection).
func NewReporter(w io.Writer, pretty bool) *Reporter {
	return &Reporter{w: w, Color: pretty || isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Reporter) colorize(c *color.Color, s string) string {
	if !r.Color {
		return s
	}
	// fatih/color suppresses escapes globally when stdout is not a
	// terminal; r.Color has already made the decision for this stream.
	c.EnableColor()
	return c.Sprint(s)
}

// ReportFunction writes one function's outcome: its name, file, and
// either its eliminated-variable count, a "skipped" note, or an error.
func (r *Reporter) ReportFunction(file, funcName string, out varelim.Outcome) {
	loc := fmt.Sprintf("%s:%s", tokenhelper.PortionAfterSep(file, "/", config.DirLevelsToPrintForTriggers), funcName)
	switch {
	case out.Err != nil:
		fmt.Fprintf(r.w, "%s %s: %v\n", r.colorize(color.New(color.FgRed, color.Bold), "error:"), loc, out.Err)
	case out.Result.Skipped:
		fmt.Fprintf(r.w, "%s %s\n", r.colorize(color.New(color.FgYellow), "skipped:"), loc)
	case out.Result.Eliminated == 0:
		fmt.Fprintf(r.w, "%s %s\n", r.colorize(color.New(color.FgCyan), "unchanged:"), loc)
	default:
		count := r.colorize(color.New(color.FgGreen, color.Bold), fmt.Sprintf("%d", out.Result.Eliminated))
		fmt.Fprintf(r.w, "eliminated %s variable(s): %s\n", count, loc)
	}
}

// ReportSummary writes a whole-run total produced by
// accumulation.Accumulate.
func (r *Reporter) ReportSummary(s accumulation.Summary) {
	header := r.colorize(color.New(color.FgWhite, color.Bold), "varelim summary")
	fmt.Fprintf(r.w, "%s: %d file(s), %d function(s), %d eliminated, %d skipped, %d errored\n",
		header, s.Files, s.Functions, s.Eliminated, s.Skipped, s.Errored)
	for _, fs := range s.PerFile {
		fmt.Fprintf(r.w, "  %s: %d/%d eliminated, %d skipped, %d errored\n",
			fs.File, fs.Eliminated, fs.Functions, fs.Skipped, fs.Errored)
	}
}
