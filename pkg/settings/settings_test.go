// Copyright 2025 walteh LLC
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

package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		content     string
		wantErr     bool
		errContains string
		check       func(t *testing.T, s *Settings, home string)
	}{
		{
			name:     "yaml_settings",
			filename: "settings.yaml",
			content: `
fragment_dir: /custom/fragments
default_template: work
`,
			check: func(t *testing.T, s *Settings, home string) {
				assert.Equal(t, "/custom/fragments", s.FragmentDir, "explicit value should win")
				assert.Equal(t, "work", s.DefaultTemplate, "default template should be read")
				assert.Equal(t, filepath.Join(home, ConfigDirName, "contexts.json"), s.ContextListPath,
					"unset fields should fall back to defaults")
			},
		},
		{
			name:     "hcl_settings",
			filename: "settings.hcl",
			content: `
git_config_path = "/custom/gitconfig"
`,
			check: func(t *testing.T, s *Settings, home string) {
				assert.Equal(t, "/custom/gitconfig", s.GitConfigPath, "HCL value should be read")
				assert.Equal(t, filepath.Join(home, ConfigDirName, "contexts"), s.FragmentDir,
					"unset fields should fall back to defaults")
			},
		},
		{
			name:     "toml_settings",
			filename: "settings.toml",
			content: `
context_list_path = "/custom/contexts.json"
`,
			check: func(t *testing.T, s *Settings, home string) {
				assert.Equal(t, "/custom/contexts.json", s.ContextListPath, "TOML value should be read")
			},
		},
		{
			name:        "unknown_yaml_key_rejected",
			filename:    "settings.yaml",
			content:     "no_such_key: true\n",
			wantErr:     true,
			errContains: "parsing settings",
		},
		{
			name:        "unsupported_extension",
			filename:    "settings.ini",
			content:     "x=1",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			path := filepath.Join(home, tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			s, err := Load(context.Background(), path, home)
			if tt.wantErr {
				require.Error(t, err, "load should fail")
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err, "load should succeed")
			tt.check(t, s, home)
		})
	}
}

func TestLoadWithoutSettingsFile(t *testing.T) {
	home := t.TempDir()

	s, err := Load(context.Background(), "", home)
	require.NoError(t, err, "no settings file should mean defaults")
	assert.Equal(t, Default(home), s, "defaults should be returned")
}

func TestLoadDiscoversSettingsFile(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ConfigDirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"),
		[]byte("default_template: personal\n"), 0o644))

	s, err := Load(context.Background(), "", home)
	require.NoError(t, err)
	assert.Equal(t, "personal", s.DefaultTemplate, "the discovered file should be loaded")
}
