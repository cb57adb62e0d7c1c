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

package pattern

import (
	"context"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// reSSHShorthand recognizes scp-like remotes such as git@github.com:owner/repo.
var reSSHShorthand = regexp.MustCompile(`^[^@/\s]+@([^:/\s]+):(.+)$`)

// URLMatcher matches remote URLs against a compiled URL glob. Unlike path
// matchers, URL matchers are anchored at both ends and case-insensitive;
// '*' matches any run of characters and '?' a single character. Pattern and
// candidate are both normalized before matching.
type URLMatcher struct {
	pattern string
	g       glob.Glob
}

// NormalizeURL reduces the many spellings of a git remote to one comparable
// form: the trailing ".git" suffix is dropped, SSH shorthand
// "user@host:owner/repo" becomes "host/owner/repo", "http(s)://" and
// "git://" prefixes are stripped, and the result is lowercased.
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".git")

	if m := reSSHShorthand.FindStringSubmatch(s); m != nil {
		s = m[1] + "/" + m[2]
	}

	for _, prefix := range []string{"https://", "http://", "git://"} {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
			break
		}
	}

	return strings.ToLower(s)
}

// CompileURL normalizes and compiles a URL glob into a URLMatcher.
func CompileURL(pattern string) (*URLMatcher, error) {
	g, err := glob.Compile(NormalizeURL(pattern))
	if err != nil {
		return nil, errors.Errorf("compiling url pattern %q: %w", pattern, err)
	}
	return &URLMatcher{pattern: pattern, g: g}, nil
}

// Pattern returns the original glob the matcher was compiled from.
func (m *URLMatcher) Pattern() string {
	return m.pattern
}

// Match reports whether the candidate URL matches after normalization.
func (m *URLMatcher) Match(candidate string) bool {
	return m.g.Match(NormalizeURL(candidate))
}

// MatchURL reports whether any of the given URL patterns matches the
// candidate. A pattern that fails to compile never matches: it is logged and
// evaluation of the remaining patterns continues.
func MatchURL(ctx context.Context, patterns []string, candidate string) bool {
	for _, p := range patterns {
		m, err := CompileURL(p)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("pattern", p).Msg("skipping unusable url pattern")
			continue
		}
		if m.Match(candidate) {
			return true
		}
	}
	return false
}
