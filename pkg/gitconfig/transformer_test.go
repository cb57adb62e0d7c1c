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

package gitconfig

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/gitctx/pkg/identity"
)

func workContext(name string, patterns ...string) identity.Context {
	return identity.New(name, "", patterns, map[string]string{
		"user.name":  "Jane Dev",
		"user.email": "jane@example.com",
	}, nil)
}

func TestStripManagedBlock(t *testing.T) {
	tr := NewLineTransformer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no_managed_block",
			in:   "[core]\n\teditor = vim\n",
			want: "[core]\n\teditor = vim\n",
		},
		{
			name: "stanza_before_section",
			in:   "[includeIf \"gitdir:/a/**\"]\n    path = x\n\n[core]\n    x=1",
			want: "[core]\n    x=1",
		},
		{
			name: "trailing_stanza_dropped_through_blank_lines",
			in:   "[core]\n\tx=1\n\n[includeIf \"gitdir:~/w/**\"]\n\tpath = /f/w.gitconfig\n\n[includeIf \"gitdir:/srv/**\"]\n\tpath = /f/s.gitconfig\n\n",
			want: "[core]\n\tx=1\n",
		},
		{
			name: "non_includeif_include_kept",
			in:   "[include]\n\tpath = ~/extra\n[includeIf \"gitdir:/a/**\"]\n\tpath = x\n",
			want: "[include]\n\tpath = ~/extra",
		},
		{
			name: "section_after_block_readmits_lines",
			in:   "[includeIf \"gitdir:/a/**\"]\n\tpath = x\n\n[alias]\n\tst = status\n\tco = checkout\n",
			want: "[alias]\n\tst = status\n\tco = checkout\n",
		},
		{
			name: "empty_input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.StripManagedBlock(tt.in)
			assert.Equal(t, tt.want, got, "stripped text should match")
			assert.Equal(t, got, tr.StripManagedBlock(got), "stripping should be idempotent")
		})
	}
}

func TestGenerateManagedBlock(t *testing.T) {
	tr := NewLineTransformer()
	ctx := context.Background()

	tests := []struct {
		name     string
		contexts []identity.Context
		baseDir  string
		check    func(t *testing.T, out string)
	}{
		{
			name:     "one_stanza_per_pattern",
			contexts: []identity.Context{workContext("work", "~/work/**", "/srv/work/**")},
			baseDir:  "/home/u/.gitctx/contexts",
			check: func(t *testing.T, out string) {
				want := "[includeIf \"gitdir:~/work/**\"]\n" +
					"\tpath = /home/u/.gitctx/contexts/work.gitconfig\n\n" +
					"[includeIf \"gitdir:/srv/work/**\"]\n" +
					"\tpath = /home/u/.gitctx/contexts/work.gitconfig\n\n"
				assert.Equal(t, want, out, "stanzas should render exactly")
			},
		},
		{
			name: "nameless_and_patternless_contexts_skipped",
			contexts: []identity.Context{
				{Name: "", PathPatterns: []string{"~/x/**"}},
				workContext("nopatterns"),
				workContext("ok", "~/ok/**"),
			},
			baseDir: "/base",
			check: func(t *testing.T, out string) {
				assert.Equal(t, 1, strings.Count(out, "[includeIf"), "only the usable context should emit")
				assert.Contains(t, out, "/base/ok.gitconfig", "the usable context should emit its stanza")
			},
		},
		{
			name: "traversal_name_skipped_without_aborting_siblings",
			contexts: []identity.Context{
				{Name: "../evil", PathPatterns: []string{"~/x/**"}, GitConfig: map[string]string{}},
				workContext("good", "~/g/**"),
			},
			baseDir: "/base",
			check: func(t *testing.T, out string) {
				assert.NotContains(t, out, "evil", "the hostile name should be skipped")
				assert.Contains(t, out, "/base/good.gitconfig", "siblings should still be generated")
			},
		},
		{
			name: "legacy_single_pattern_used_when_list_empty",
			contexts: []identity.Context{
				{Name: "old", LegacyPathPattern: "~/old/**", GitConfig: map[string]string{}},
			},
			baseDir: "/base",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "gitdir:~/old/**", "legacy pattern should be used")
			},
		},
		{
			name:     "no_contexts_no_output",
			contexts: nil,
			baseDir:  "/base",
			check: func(t *testing.T, out string) {
				assert.Empty(t, out, "no contexts should produce no block")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tr.GenerateManagedBlock(ctx, tt.contexts, tt.baseDir))
		})
	}
}

func TestUpdate(t *testing.T) {
	tr := NewLineTransformer()
	ctx := context.Background()

	t.Run("no_contexts_equals_strip", func(t *testing.T) {
		text := "[core]\n\tx=1\n\n[includeIf \"gitdir:/a/**\"]\n\tpath = x\n"
		assert.Equal(t, tr.StripManagedBlock(text), tr.Update(ctx, text, nil, "/base"),
			"update with no contexts should reduce to a plain strip")
	})

	t.Run("strip_reverses_generate", func(t *testing.T) {
		text := "[core]\n\teditor = vim\n[alias]\n\tst = status"
		contexts := []identity.Context{workContext("work", "~/work/**")}

		updated := tr.Update(ctx, text, contexts, "/base")
		assert.Equal(t, text+"\n", tr.StripManagedBlock(updated),
			"stripping an updated file should restore the original text modulo the separator")
	})

	t.Run("replaces_existing_block", func(t *testing.T) {
		contexts := []identity.Context{workContext("work", "~/work/**")}
		once := tr.Update(ctx, "[core]\n\tx=1\n", contexts, "/base")
		twice := tr.Update(ctx, once, contexts, "/base")
		assert.Equal(t, once, twice, "re-updating should not duplicate stanzas")
	})

	t.Run("preserves_unrelated_content_and_order", func(t *testing.T) {
		text := "; a comment\n[core]\n\teditor = vim\n\n[user]\n\tname = Old\n"
		updated := tr.Update(ctx, text, []identity.Context{workContext("w", "~/w/**")}, "/base")

		assert.True(t, strings.HasPrefix(updated, "; a comment\n[core]\n\teditor = vim\n\n[user]\n\tname = Old\n"),
			"unrelated lines should be preserved verbatim, in order")
	})
}
