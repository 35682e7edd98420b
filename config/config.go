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

// Package config holds the optimizer's only user-configurable knobs
// (spec.md §6: "One tunable constant: MAX_USES"), loadable from a YAML
// file or overlaid with CLI flag values by cmd/varelim.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxUses is spec.md §4.7's MAX_USES constant: a single-def
// variable with more than this many uses is never eliminable unless it
// has zero uses.
const DefaultMaxUses = 3

// Config bundles every user-configurable knob for one optimizer run.
type Config struct {
	// MaxUses overrides DefaultMaxUses (spec.md §4.7 condition 3).
	MaxUses int `yaml:"maxUses"`
	// PrettyPrint enables ANSI-colored diagnostic output (package
	// diagnostic); only meaningful when the output stream is a
	// terminal.
	PrettyPrint bool `yaml:"prettyPrint"`
	// IncludeFiles, if non-empty, restricts diagnostic reporting to
	// files whose path has one of these prefixes.
	IncludeFiles []string `yaml:"includeFiles"`
	// ExcludeFiles excludes diagnostic reporting for files whose path
	// has one of these prefixes; it takes precedence over IncludeFiles.
	ExcludeFiles []string `yaml:"excludeFiles"`
}

// Default returns a Config with every knob at its spec-mandated
// default.
func Default() *Config {
	return &Config{MaxUses: DefaultMaxUses}
}

// Load reads a Config from a YAML file at path. Fields absent from the
// file keep their zero value; callers typically start from Default()
// and overlay onto it with a subsequent merge (see Config.Merge).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays the non-zero fields of other onto a copy of c and
// returns the result; it is used by cmd/varelim to let explicit flags
// take precedence over a loaded YAML config file, which in turn takes
// precedence over Default().
func (c *Config) Merge(other *Config) *Config {
	out := *c
	if other == nil {
		return &out
	}
	if other.MaxUses != 0 {
		out.MaxUses = other.MaxUses
	}
	if other.PrettyPrint {
		out.PrettyPrint = true
	}
	if len(other.IncludeFiles) > 0 {
		out.IncludeFiles = other.IncludeFiles
	}
	if len(other.ExcludeFiles) > 0 {
		out.ExcludeFiles = other.ExcludeFiles
	}
	return &out
}
