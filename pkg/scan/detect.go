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

// Package scan figures out which context claims a repository: it locates the
// enclosing worktree, reads its origin remote, and tests both against every
// stored context's patterns.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/walteh/gitctx/pkg/identity"
	"github.com/walteh/gitctx/pkg/pattern"
)

// MatchSource indicates which pattern kind selected the context.
type MatchSource string

const (
	SourcePath MatchSource = "path"
	SourceURL  MatchSource = "url"
)

// Match is the result of detecting a context for a repository.
type Match struct {
	Context identity.Context
	Source  MatchSource
}

// FindGitRoot walks up from path to the enclosing git worktree root, or
// returns the empty string when path is not inside one.
func FindGitRoot(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}

	current := abs
	for {
		if info, err := os.Stat(filepath.Join(current, ".git")); err == nil && info.IsDir() {
			return current
		}

		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// RemoteURL reads the origin remote URL out of a repository's .git/config.
// The scan is line-oriented on purpose, consistent with how the managed
// block is rewritten. Returns the empty string when there is no origin
// remote.
func RemoteURL(repoRoot string) string {
	data, err := os.ReadFile(filepath.Join(repoRoot, ".git", "config"))
	if err != nil {
		return ""
	}

	inOrigin := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") {
			inOrigin = trimmed == `[remote "origin"]`
			continue
		}
		if !inOrigin {
			continue
		}

		if key, value, ok := strings.Cut(trimmed, "="); ok && strings.TrimSpace(key) == "url" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Detect tests repoPath and remoteURL against every context in list order:
// path patterns first, then URL patterns. The first context with a matching
// pattern wins. Returns nil when nothing matches.
func Detect(ctx context.Context, contexts []identity.Context, repoPath, remoteURL, homeDir string) *Match {
	for _, c := range contexts {
		if repoPath != "" && pattern.MatchPath(ctx, c.EffectivePathPatterns(), repoPath, homeDir) {
			return &Match{Context: c, Source: SourcePath}
		}
		if remoteURL != "" && pattern.MatchURL(ctx, c.URLPatterns, remoteURL) {
			return &Match{Context: c, Source: SourceURL}
		}
	}
	return nil
}

// DetectHere resolves the worktree containing path and detects its context.
// The second return is the worktree root ("" when path is not in a repo).
func DetectHere(ctx context.Context, contexts []identity.Context, path, homeDir string) (*Match, string) {
	root := FindGitRoot(path)
	if root == "" {
		return nil, ""
	}
	return Detect(ctx, contexts, root, RemoteURL(root), homeDir), root
}
