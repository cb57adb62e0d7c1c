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

package identity

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/pkg/errkind"
)

var (
	reName       = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	reNameStrip  = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	reEmail      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	reSigningKey = regexp.MustCompile(`^[0-9A-Fa-f]+$`)

	// Characters with meaning to a shell; patterns containing them are
	// rejected outright rather than escaped.
	shellMetaChars = "$`;|&<>(){}!\"'\\"
)

// ValidationResult accumulates every failing rule for a context so the caller
// can report all problems at once instead of fixing them one by one.
type ValidationResult struct {
	Errors []string
}

// IsValid reports whether no rule failed.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Err returns a single validation error carrying all accumulated messages,
// or nil when the result is valid.
func (r ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return errors.Errorf("%w: %s", errkind.ErrValidation, strings.Join(r.Errors, "; "))
}

// Validate checks every rule category for the context: name format, path
// pattern safety, URL pattern safety, email shape and signing key format.
// Categories are not short-circuited, so the result lists one message per
// failing rule.
func Validate(c Context) ValidationResult {
	var res ValidationResult

	if c.Name == "" {
		res.Errors = append(res.Errors, "name must not be empty")
	} else if !reName.MatchString(c.Name) {
		res.Errors = append(res.Errors, fmt.Sprintf("name %q may only contain letters, digits, '-' and '_'", c.Name))
	}

	for _, p := range c.PathPatterns {
		if msg := checkPattern(p, true); msg != "" {
			res.Errors = append(res.Errors, msg)
		}
	}
	for _, p := range c.URLPatterns {
		if msg := checkPattern(p, false); msg != "" {
			res.Errors = append(res.Errors, msg)
		}
	}

	if email := c.UserEmail(); email != "" && !reEmail.MatchString(email) {
		res.Errors = append(res.Errors, fmt.Sprintf("email %q is not a valid address", email))
	}

	if key := c.SigningKey(); key != "" && !reSigningKey.MatchString(key) {
		res.Errors = append(res.Errors, fmt.Sprintf("signing key %q is not hexadecimal", key))
	}

	return res
}

// checkPattern validates a single glob pattern. Path patterns additionally
// reject '..' traversal segments.
func checkPattern(p string, isPath bool) string {
	if strings.TrimSpace(p) == "" {
		return "pattern must not be empty"
	}
	if strings.ContainsAny(p, shellMetaChars) {
		return fmt.Sprintf("pattern %q contains shell metacharacters", p)
	}
	if isPath {
		for _, seg := range strings.Split(p, "/") {
			if seg == ".." {
				return fmt.Sprintf("path pattern %q contains a '..' segment", p)
			}
		}
	}
	return ""
}

// SanitizeName drops every character not allowed in a context name.
func SanitizeName(name string) string {
	return reNameStrip.ReplaceAllString(strings.TrimSpace(name), "")
}

// SanitizeDescription drops control characters and shell metacharacters from
// a free-text description.
func SanitizeDescription(desc string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(desc) {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(shellMetaChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
