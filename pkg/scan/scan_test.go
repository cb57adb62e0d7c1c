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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gitctx/pkg/identity"
)

// makeRepo creates a fake worktree with an optional origin remote.
func makeRepo(t *testing.T, root, rel, originURL string) string {
	t.Helper()
	repo := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	if originURL != "" {
		config := "[core]\n\tbare = false\n[remote \"origin\"]\n\turl = " + originURL + "\n\tfetch = +refs/heads/*:refs/remotes/origin/*\n"
		require.NoError(t, os.WriteFile(filepath.Join(repo, ".git", "config"), []byte(config), 0o644))
	}
	return repo
}

func TestFindGitRoot(t *testing.T) {
	dir := t.TempDir()
	repo := makeRepo(t, dir, "proj", "")
	nested := filepath.Join(repo, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, repo, FindGitRoot(nested), "nested paths should resolve to the worktree root")
	assert.Equal(t, repo, FindGitRoot(repo), "the root itself should resolve")
	assert.Empty(t, FindGitRoot(dir), "a path outside any repo should resolve to nothing")
}

func TestRemoteURL(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads_origin_url", func(t *testing.T) {
		repo := makeRepo(t, dir, "with-origin", "git@github.com:acme/repo.git")
		assert.Equal(t, "git@github.com:acme/repo.git", RemoteURL(repo))
	})

	t.Run("ignores_other_remotes", func(t *testing.T) {
		repo := makeRepo(t, dir, "other-remote", "")
		config := "[remote \"upstream\"]\n\turl = git@github.com:other/repo.git\n"
		require.NoError(t, os.WriteFile(filepath.Join(repo, ".git", "config"), []byte(config), 0o644))
		assert.Empty(t, RemoteURL(repo), "only the origin remote counts")
	})

	t.Run("no_config_file", func(t *testing.T) {
		repo := makeRepo(t, dir, "bare-dir", "")
		assert.Empty(t, RemoteURL(repo))
	})
}

func TestDetect(t *testing.T) {
	ctx := context.Background()
	home := "/home/u"

	pathCtx := identity.New("bypath", "", []string{"~/work/**"}, nil, nil)
	urlCtx := identity.New("byurl", "", nil, nil, []string{"github.com/acme/*"})
	contexts := []identity.Context{pathCtx, urlCtx}

	tests := []struct {
		name       string
		repoPath   string
		remoteURL  string
		wantName   string
		wantSource MatchSource
	}{
		{name: "path_pattern_wins", repoPath: "/home/u/work/proj", remoteURL: "git@github.com:acme/repo.git", wantName: "bypath", wantSource: SourcePath},
		{name: "url_fallback", repoPath: "/srv/elsewhere", remoteURL: "git@github.com:acme/repo.git", wantName: "byurl", wantSource: SourceURL},
		{name: "no_match", repoPath: "/srv/elsewhere", remoteURL: "gitlab.com/other/repo", wantName: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := Detect(ctx, contexts, tt.repoPath, tt.remoteURL, home)
			if tt.wantName == "" {
				assert.Nil(t, match, "nothing should match")
				return
			}
			require.NotNil(t, match, "a context should match")
			assert.Equal(t, tt.wantName, match.Context.Name, "the first matching context wins")
			assert.Equal(t, tt.wantSource, match.Source, "the match source should be reported")
		})
	}
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	makeRepo(t, root, "work/api", "git@github.com:acme/api.git")
	makeRepo(t, root, "work/web", "https://github.com/acme/web.git")
	makeRepo(t, root, "oss/lib", "git@github.com:other/lib.git")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-repo"), 0o755))

	contexts := []identity.Context{
		identity.New("acme", "", nil, nil, []string{"github.com/acme/*"}),
	}

	t.Run("reports_every_repo", func(t *testing.T) {
		reports, err := Scan(ctx, contexts, root, "", "/home/u")
		require.NoError(t, err)
		require.Len(t, reports, 3, "every repository should be reported")

		assert.Equal(t, "oss/lib", reports[0].Path, "reports should be sorted by path")
		assert.Nil(t, reports[0].Match, "unclaimed repos should have no match")

		assert.Equal(t, "work/api", reports[1].Path)
		require.NotNil(t, reports[1].Match)
		assert.Equal(t, "acme", reports[1].Match.Context.Name)
	})

	t.Run("filter_glob_limits_reports", func(t *testing.T) {
		reports, err := Scan(ctx, contexts, root, "work/**", "/home/u")
		require.NoError(t, err)
		require.Len(t, reports, 2, "only repositories under work/ should be reported")
		assert.Equal(t, "work/api", reports[0].Path)
		assert.Equal(t, "work/web", reports[1].Path)
	})
}

func TestScanContinuesPastUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores permission bits")
	}

	ctx := context.Background()
	root := t.TempDir()

	locked := filepath.Join(root, "aaa-locked")
	require.NoError(t, os.MkdirAll(locked, 0o755))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	makeRepo(t, root, "zzz-repo", "")

	reports, err := Scan(ctx, nil, root, "", "/home/u")
	require.NoError(t, err)
	require.Len(t, reports, 1, "repositories after the unreadable directory should still be reported")
	assert.Equal(t, "zzz-repo", reports[0].Path)
}
