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

// Package identity defines the Context entity: a named bundle of git identity
// settings (user.name, user.email, signing key) plus the path and URL patterns
// that select it. Contexts are immutable-by-replacement: edits produce a new
// value rather than mutating one in place.
package identity

import (
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/pkg/errkind"
)

// Context is a hydrated git identity context. The identity projections
// (UserName, UserEmail, SigningKey, AutoSign) are computed from GitConfig on
// access and are never stored separately, so they cannot drift from their
// source.
type Context struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	PathPatterns []string          `json:"pathPatterns"`
	GitConfig    map[string]string `json:"gitConfig"`
	URLPatterns  []string          `json:"urlPatterns"`

	// LegacyPathPattern carries the old single-pattern field of records
	// written by earlier releases. It is honored only when PathPatterns is
	// empty and is never persisted back.
	LegacyPathPattern string `json:"-"`
}

// Record is the plain persisted projection of a Context: exactly the five
// fields stored in the context list file, plus the legacy single-pattern
// field accepted on read for backwards compatibility.
type Record struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	PathPatterns []string          `json:"pathPatterns"`
	GitConfig    map[string]string `json:"gitConfig"`
	URLPatterns  []string          `json:"urlPatterns"`

	LegacyPathPattern string `json:"pathPattern,omitempty"`
}

// New constructs a Context from user input, sanitizing the name and
// description and defaulting absent collections to empty ones.
func New(name, description string, pathPatterns []string, gitConfig map[string]string, urlPatterns []string) Context {
	if pathPatterns == nil {
		pathPatterns = []string{}
	}
	if urlPatterns == nil {
		urlPatterns = []string{}
	}
	if gitConfig == nil {
		gitConfig = map[string]string{}
	}

	return Context{
		Name:         SanitizeName(name),
		Description:  SanitizeDescription(description),
		PathPatterns: pathPatterns,
		GitConfig:    gitConfig,
		URLPatterns:  urlPatterns,
	}
}

// UserName returns the user.name value from GitConfig.
func (c Context) UserName() string {
	return c.GitConfig["user.name"]
}

// UserEmail returns the user.email value from GitConfig.
func (c Context) UserEmail() string {
	return c.GitConfig["user.email"]
}

// SigningKey returns the user.signingkey value from GitConfig.
func (c Context) SigningKey() string {
	return c.GitConfig["user.signingkey"]
}

// AutoSign reports whether commit.gpgsign is enabled in GitConfig.
func (c Context) AutoSign() bool {
	return strings.EqualFold(c.GitConfig["commit.gpgsign"], "true")
}

// EffectivePathPatterns returns PathPatterns, falling back to the legacy
// single-pattern field when the list is empty. Empty strings are dropped.
func (c Context) EffectivePathPatterns() []string {
	patterns := c.PathPatterns
	if len(patterns) == 0 && c.LegacyPathPattern != "" {
		patterns = []string{c.LegacyPathPattern}
	}

	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// FromRecord hydrates a persisted record into a Context, filling absent
// optional fields with empty defaults. A record without a name is malformed.
func FromRecord(rec Record) (Context, error) {
	if rec.Name == "" {
		return Context{}, errors.Errorf("record has no name: %w", errkind.ErrMalformedData)
	}

	c := Context{
		Name:              rec.Name,
		Description:       rec.Description,
		PathPatterns:      rec.PathPatterns,
		GitConfig:         rec.GitConfig,
		URLPatterns:       rec.URLPatterns,
		LegacyPathPattern: rec.LegacyPathPattern,
	}
	if c.PathPatterns == nil {
		c.PathPatterns = []string{}
	}
	if c.URLPatterns == nil {
		c.URLPatterns = []string{}
	}
	if c.GitConfig == nil {
		c.GitConfig = map[string]string{}
	}

	return c, nil
}

// ToRecord projects the five persisted fields of a Context. The legacy
// single-pattern field is intentionally not written back.
func (c Context) ToRecord() Record {
	return Record{
		Name:         c.Name,
		Description:  c.Description,
		PathPatterns: c.PathPatterns,
		GitConfig:    c.GitConfig,
		URLPatterns:  c.URLPatterns,
	}
}
