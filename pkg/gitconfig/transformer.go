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

// Package gitconfig rewrites the run of `[includeIf "gitdir:..."]` stanzas
// this tool owns inside the user's global git config, leaving every other
// byte of the file untouched. The managed block is located structurally by
// scanning for includeIf headers, not by marker comments.
package gitconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/gitctx/pkg/identity"
)

const includeIfPrefix = `[includeIf "gitdir:`

// Transformer rewrites the managed conditional-include block inside global
// git config text. The line-oriented implementation below is deliberately
// minimal; a structured INI rewriter could replace it without changing
// callers.
type Transformer interface {
	// StripManagedBlock removes every managed includeIf stanza from the text,
	// preserving all other lines verbatim. Idempotent.
	StripManagedBlock(text string) string

	// GenerateManagedBlock renders the includeIf stanzas for the given
	// contexts, pointing each at its fragment file under baseDir.
	GenerateManagedBlock(ctx context.Context, contexts []identity.Context, baseDir string) string

	// Update strips the existing managed block and appends a freshly
	// generated one. Callers must read-transform-write the target file as a
	// single unit while holding its lock.
	Update(ctx context.Context, text string, contexts []identity.Context, baseDir string) string
}

// LineTransformer is the line-oriented Transformer implementation.
type LineTransformer struct{}

// NewLineTransformer creates a new LineTransformer.
func NewLineTransformer() *LineTransformer {
	return &LineTransformer{}
}

// StripManagedBlock implements Transformer.StripManagedBlock with a single
// stateful pass. A line whose trimmed form begins an includeIf gitdir header
// opens a dropping state that persists across following lines, blank lines
// included, until a section header that is not an includeIf header re-admits
// lines (that header line itself is kept).
func (t *LineTransformer) StripManagedBlock(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	dropping := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, includeIfPrefix):
			dropping = true
		case dropping && strings.HasPrefix(trimmed, "["):
			dropping = false
			kept = append(kept, line)
		case !dropping:
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

// GenerateManagedBlock implements Transformer.GenerateManagedBlock. For each
// context, in list order, one stanza is emitted per path pattern:
//
//	[includeIf "gitdir:<pattern>"]
//		path = <baseDir>/<name>.gitconfig
//
// Contexts with no name, no usable pattern, or a name whose fragment path
// resolves outside baseDir are skipped; a skip never aborts generation for
// the remaining contexts.
func (t *LineTransformer) GenerateManagedBlock(ctx context.Context, contexts []identity.Context, baseDir string) string {
	logger := zerolog.Ctx(ctx)

	var b strings.Builder
	for _, c := range contexts {
		if c.Name == "" {
			logger.Warn().Msg("skipping context without a name")
			continue
		}

		patterns := c.EffectivePathPatterns()
		if len(patterns) == 0 {
			logger.Debug().Str("context", c.Name).Msg("skipping context without path patterns")
			continue
		}

		fragment := filepath.Join(baseDir, c.Name+".gitconfig")
		if !isWithin(baseDir, fragment) {
			logger.Warn().Str("context", c.Name).Msg("skipping context whose fragment path escapes the base directory")
			continue
		}

		for _, p := range patterns {
			fmt.Fprintf(&b, "[includeIf \"gitdir:%s\"]\n", p)
			fmt.Fprintf(&b, "\tpath = %s\n", fragment)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Update implements Transformer.Update: strip, one blank-line separator,
// then the regenerated block. With no stanzas to emit the result is exactly
// the stripped text.
func (t *LineTransformer) Update(ctx context.Context, text string, contexts []identity.Context, baseDir string) string {
	stripped := t.StripManagedBlock(text)

	block := t.GenerateManagedBlock(ctx, contexts, baseDir)
	if block == "" {
		return stripped
	}

	return strings.TrimRight(stripped, "\n") + "\n\n" + block
}

// isWithin reports whether path resolves to baseDir or a descendant of it.
func isWithin(baseDir, path string) bool {
	base := filepath.Clean(baseDir)
	target := filepath.Clean(path)

	return target == base || strings.HasPrefix(target, base+string(filepath.Separator))
}
