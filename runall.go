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

package varelim

import (
	"context"
	"runtime"
	"sync"

	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/config"
)

// Job is one function body to optimize, named for diagnostics.
type Job struct {
	Name string
	Body []*ast.Node
}

// Outcome is one job's result, carrying its name along for correlating
// back to the input (spec.md §5: "each function body must be owned by
// exactly one worker; analysis tables are not shared").
type Outcome struct {
	Name   string
	Result Result
	Err    error
}

// RunAll optimizes every job concurrently across workers goroutines
// and returns one Outcome per job, in the same order jobs were given
// (not the order they finished in — callers that want to report
// per-function counts in source order can rely on this). workers <= 0
// defaults to runtime.GOMAXPROCS(0), per SPEC_FULL.md §4.10.
//
// Per spec.md §5, each function body is owned by exactly one worker
// for the duration of its Optimize call; there is no shared mutable
// state between jobs beyond the read-only *config.Config.
func RunAll(ctx context.Context, jobs []Job, cfg *config.Config, workers int) []Outcome {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	outcomes := make([]Outcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				outcomes[i] = runOne(ctx, jobs[i], cfg)
			}
		}()
	}

	for i := range jobs {
		select {
		case indices <- i:
		case <-ctx.Done():
			outcomes[i] = Outcome{Name: jobs[i].Name, Err: ctx.Err()}
		}
	}
	close(indices)
	wg.Wait()

	return outcomes
}

func runOne(ctx context.Context, job Job, cfg *config.Config) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Name: job.Name, Err: err}
	}
	result, err := Optimize(job.Body, cfg)
	return Outcome{Name: job.Name, Result: result, Err: err}
}
