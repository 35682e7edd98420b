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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/varelim/varelim/config"
)

// freshCmd returns a standalone cobra.Command with the same --max-uses
// flag as rootCmd, so tests can exercise loadConfig's flag-vs-YAML
// precedence without mutating rootCmd's own persistent flag state.
func freshCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "varelim"}
	cmd.Flags().IntVar(&_maxUses, "max-uses", config.DefaultMaxUses, "")
	return cmd
}

func TestReportableIncludeExclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inside := filepath.Join(dir, "gen.js")

	cfg := &config.Config{}
	require.True(t, reportable(inside, cfg), "no include/exclude list means everything is reportable")

	cfg = &config.Config{IncludeFiles: []string{dir}}
	require.True(t, reportable(inside, cfg))

	cfg = &config.Config{IncludeFiles: []string{filepath.Join(dir, "other")}}
	require.False(t, reportable(inside, cfg), "a file outside every include prefix is not reportable")

	cfg = &config.Config{IncludeFiles: []string{dir}, ExcludeFiles: []string{dir}}
	require.False(t, reportable(inside, cfg), "exclude takes precedence over include")
}

func TestLoadConfigFlagOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "varelim.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("maxUses: 9\n"), 0o644))

	_configPath = cfgPath
	_includeFiles = ""
	_excludeFiles = ""
	defer func() {
		_configPath, _maxUses, _includeFiles, _excludeFiles = "", config.DefaultMaxUses, "", ""
	}()

	cmd := freshCmd()
	require.NoError(t, cmd.Flags().Set("max-uses", "5"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.MaxUses, "an explicitly set --max-uses flag must win over the YAML file's maxUses")
}

func TestLoadConfigFallsBackToYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "varelim.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("maxUses: 9\n"), 0o644))

	_configPath = cfgPath
	defer func() { _configPath, _maxUses = "", config.DefaultMaxUses }()

	cfg, err := loadConfig(freshCmd())
	require.NoError(t, err)
	require.Equal(t, 9, cfg.MaxUses, "without an explicit flag, the YAML file's maxUses applies")
}
