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

// Package pattern compiles the glob patterns a context uses to claim
// repositories: filesystem path patterns and remote URL patterns. Path and
// URL globs have different semantics and are compiled by different matchers.
package pattern

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// PathMatcher matches repository paths against a compiled path glob.
//
// Path globs support '**' (any characters, any depth) and '*' (any characters
// except the path separator). The compiled expression is anchored at the
// start of the candidate only, not at the end: a pattern like "/work/**"
// also matches "/work-other" because no separator boundary is enforced after
// the literal prefix. Callers rely on this looseness; do not tighten it here.
type PathMatcher struct {
	pattern string
	re      *regexp.Regexp
}

// Expand replaces a leading '~' in a path pattern with homeDir. Any other
// pattern is returned unchanged.
func Expand(pattern, homeDir string) string {
	if pattern == "~" {
		return homeDir
	}
	if strings.HasPrefix(pattern, "~/") {
		return homeDir + pattern[1:]
	}
	return pattern
}

// CompilePath compiles a path glob into a PathMatcher.
func CompilePath(pattern string) (*PathMatcher, error) {
	var b strings.Builder
	b.WriteString("^")

	for i := 0; i < len(pattern); i++ {
		switch {
		case strings.HasPrefix(pattern[i:], "/**"):
			// The separator joins the optional tail instead of the literal
			// prefix, so "/work/**" accepts "/work-other" as well as
			// "/work/proj".
			b.WriteString("(?:/.*)?")
			i += 2
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i++
		case pattern[i] == '*':
			b.WriteString("[^/]*")
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
		}
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, errors.Errorf("compiling path pattern %q: %w", pattern, err)
	}
	return &PathMatcher{pattern: pattern, re: re}, nil
}

// Pattern returns the original glob the matcher was compiled from.
func (m *PathMatcher) Pattern() string {
	return m.pattern
}

// Match reports whether the candidate path matches.
func (m *PathMatcher) Match(candidate string) bool {
	return m.re.MatchString(candidate)
}

// MatchPath reports whether any of the given path patterns matches the
// candidate, expanding a leading '~' in each pattern against homeDir first.
// A pattern that fails to compile never matches: it is logged and evaluation
// of the remaining patterns continues.
func MatchPath(ctx context.Context, patterns []string, candidate, homeDir string) bool {
	for _, p := range patterns {
		m, err := CompilePath(Expand(p, homeDir))
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("pattern", p).Msg("skipping unusable path pattern")
			continue
		}
		if m.Match(candidate) {
			return true
		}
	}
	return false
}
