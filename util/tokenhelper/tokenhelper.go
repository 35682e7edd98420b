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

// Package tokenhelper hosts helper functions for formatting source positions and file paths in
// diagnostics, shared by package diagnostic and the cmd/varelim driver. It is position-system
// agnostic: it deals in filenames and path strings only, never in the optimizer's own
// ast.Position, which carries line/col but no filename (a function body does not know what file
// it came from; the driver does).
package tokenhelper

import (
	"os"
	"path/filepath"
	"strings"
)

var _cwd = func() string {
	cwd, err := os.Getwd()
	if err != nil {
		panic("failed to get current working directory: " + err.Error())
	}
	return cwd
}()

// RelToCwd returns the relative path of the given filename with respect to the current
// working directory (retrieved during initialization). If no relative path can be computed
// (e.g., filename is relative while the working directory is absolute), it returns the
// filename itself.
func RelToCwd(filename string) string {
	rel, err := filepath.Rel(_cwd, filename)
	if err != nil {
		return filename
	}
	return rel
}

// PortionAfterSep returns the suffix of input containing at most occ occurrences of the
// separator sep, used to truncate a long file path down to its last few directory levels for
// terse diagnostic output (see config.DirLevelsToPrintForTriggers).
func PortionAfterSep(input, sep string, occ int) string {
	splits := strings.Split(input, sep)
	n := len(splits)
	if n <= occ+1 {
		return input
	}
	return strings.Join(splits[n-(1+occ):], sep)
}
