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

// Package accumulation combines the per-function Outcomes RunAll produces
// for every file in a driver run into whole-run totals, the shape
// cmd/varelim's stderr summary reports against.
package accumulation

import "github.com/varelim/varelim"

// FileResult is one source file's RunAll output, named for diagnostics.
type FileResult struct {
	File     string
	Outcomes []varelim.Outcome
}

// Summary is the whole-run total across every file a driver invocation
// processed.
type Summary struct {
	Files      int
	Functions  int
	Skipped    int
	Errored    int
	Eliminated int
	PerFile    []FileSummary
}

// FileSummary is one file's contribution to a Summary.
type FileSummary struct {
	File       string
	Functions  int
	Skipped    int
	Errored    int
	Eliminated int
}

// Accumulate folds every FileResult into a single Summary, in the order
// given (callers typically pass files in the order the driver discovered
// them, so the per-file breakdown reads top-to-bottom the same way the
// input was processed).
func Accumulate(results []FileResult) Summary {
	var s Summary
	s.Files = len(results)
	for _, r := range results {
		fs := FileSummary{File: r.File}
		for _, o := range r.Outcomes {
			fs.Functions++
			switch {
			case o.Err != nil:
				fs.Errored++
			case o.Result.Skipped:
				fs.Skipped++
			default:
				fs.Eliminated += o.Result.Eliminated
			}
		}
		s.Functions += fs.Functions
		s.Skipped += fs.Skipped
		s.Errored += fs.Errored
		s.Eliminated += fs.Eliminated
		s.PerFile = append(s.PerFile, fs)
	}
	return s
}
