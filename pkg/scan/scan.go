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

package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/gitctx/pkg/identity"
)

// scanConcurrency bounds how many repositories are inspected at once.
const scanConcurrency = 8

// RepoReport describes one repository found under the scan root.
type RepoReport struct {
	// Path is the repository root, relative to the scan root.
	Path string
	// RemoteURL is the origin remote, if any.
	RemoteURL string
	// Match is the detected context, nil when no context claims the repo.
	Match *Match
}

// Scan walks root for git repositories and reports which context each one
// resolves to, sorted by relative path. Directories below a repository root
// are not descended into. filterGlob, when non-empty, is a doublestar glob
// applied to each repository's relative path; repositories that do not match
// are skipped.
func Scan(ctx context.Context, contexts []identity.Context, root, filterGlob, homeDir string) ([]RepoReport, error) {
	logger := zerolog.Ctx(ctx)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving scan root %s: %w", root, err)
	}

	var repos []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			// SkipDir on a file entry would skip the rest of its parent
			// directory, not just the entry itself.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		if info, err := os.Stat(filepath.Join(path, ".git")); err == nil && info.IsDir() {
			repos = append(repos, path)
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", absRoot, err)
	}

	reports := make([]RepoReport, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)

	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			rel, err := filepath.Rel(absRoot, repo)
			if err != nil {
				rel = repo
			}

			if filterGlob != "" {
				ok, err := doublestar.Match(filterGlob, rel)
				if err != nil {
					return errors.Errorf("matching filter %q: %w", filterGlob, err)
				}
				if !ok {
					return nil
				}
			}

			url := RemoteURL(repo)
			reports[i] = RepoReport{
				Path:      rel,
				RemoteURL: url,
				Match:     Detect(gctx, contexts, repo, url, homeDir),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]RepoReport, 0, len(reports))
	for _, r := range reports {
		if r.Path != "" {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out, nil
}
