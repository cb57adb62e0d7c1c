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

// Package settings loads the optional tool-level settings file. Settings
// only relocate where gitctx keeps its own files; git identity data lives in
// the context list, not here.
package settings

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/BurntSushi/toml"
)

// ConfigDirName is the directory under the home directory holding all gitctx
// state.
const ConfigDirName = ".gitctx"

// 🔌 Parser is the interface for settings parsers.
type Parser interface {
	// 📝 Parse parses the settings from bytes.
	Parse(ctx context.Context, data []byte) (*Settings, error)

	// 🔍 CanParse checks if this parser can handle the given file.
	CanParse(filename string) bool
}

// 🗺️ parsers is the list of available parsers.
var parsers []Parser

// 📝 Register registers a parser.
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file.
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Settings is the tool-level configuration.
type Settings struct {
	// ContextListPath overrides where the context list JSON lives.
	ContextListPath string `json:"context_list_path,omitempty" yaml:"context_list_path,omitempty" toml:"context_list_path" hcl:"context_list_path,optional"`
	// FragmentDir overrides where per-context fragments are written.
	FragmentDir string `json:"fragment_dir,omitempty" yaml:"fragment_dir,omitempty" toml:"fragment_dir" hcl:"fragment_dir,optional"`
	// GitConfigPath overrides the global git config file to manage.
	GitConfigPath string `json:"git_config_path,omitempty" yaml:"git_config_path,omitempty" toml:"git_config_path" hcl:"git_config_path,optional"`
	// DefaultTemplate is the template used by `create` when none is given.
	DefaultTemplate string `json:"default_template,omitempty" yaml:"default_template,omitempty" toml:"default_template" hcl:"default_template,optional"`
}

// Default returns the settings used when no settings file exists.
func Default(homeDir string) *Settings {
	dir := filepath.Join(homeDir, ConfigDirName)
	return &Settings{
		ContextListPath: filepath.Join(dir, "contexts.json"),
		FragmentDir:     filepath.Join(dir, "contexts"),
		GitConfigPath:   filepath.Join(homeDir, ".gitconfig"),
	}
}

// applyDefaults fills any field the settings file left empty.
func (s *Settings) applyDefaults(homeDir string) {
	def := Default(homeDir)
	if s.ContextListPath == "" {
		s.ContextListPath = def.ContextListPath
	}
	if s.FragmentDir == "" {
		s.FragmentDir = def.FragmentDir
	}
	if s.GitConfigPath == "" {
		s.GitConfigPath = def.GitConfigPath
	}
}

// 🎯 Load loads settings from path. An empty path looks for
// settings.{yaml,yml,hcl,toml} under ~/.gitctx; when nothing is found the
// defaults are returned.
func Load(ctx context.Context, path, homeDir string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		path = findSettingsFile(homeDir)
	}
	if path == "" {
		logger.Debug().Msg("no settings file, using defaults")
		return Default(homeDir), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for settings file: %s", path)
	}

	s, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing settings: %w", err)
	}

	s.applyDefaults(homeDir)
	logger.Debug().Str("path", path).Msg("loaded settings")
	return s, nil
}

// findSettingsFile returns the first settings file present under ~/.gitctx.
func findSettingsFile(homeDir string) string {
	dir := filepath.Join(homeDir, ConfigDirName)
	for _, name := range []string{"settings.yaml", "settings.yml", "settings.hcl", "settings.toml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// 🔧 YAMLParser implements the Parser interface for YAML files.
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Settings, error) {
	var s Settings
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &s, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files.
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Settings, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "settings.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var s Settings
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &s)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &s, nil
}

// 🔧 TOMLParser implements the Parser interface for TOML files.
type TOMLParser struct{}

func init() {
	Register(&TOMLParser{})
}

func (p *TOMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".toml")
}

func (p *TOMLParser) Parse(ctx context.Context, data []byte) (*Settings, error) {
	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}
	return &s, nil
}
