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

// Package store owns the persisted context set: the context list file, the
// per-context fragment directory and the managed block inside the global git
// config. Every mutation ends with one regeneration cycle over the global
// config so the three stay in sync.
package store

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/pkg/errkind"
	"github.com/walteh/gitctx/pkg/fileio"
	"github.com/walteh/gitctx/pkg/gitconfig"
	"github.com/walteh/gitctx/pkg/identity"
)

// Options configures a Store.
type Options struct {
	// ListPath is the context list file (a 2-space indented JSON array).
	ListPath string
	// FragmentDir is the directory holding per-context .gitconfig fragments.
	FragmentDir string
	// GitConfigPath is the user's global git config file.
	GitConfigPath string
	// HomeDir is used as the protected root for export-path checks.
	HomeDir string
	// Coordinator serializes file access. Required.
	Coordinator *fileio.Coordinator
	// Transformer rewrites the managed block. Defaults to the line-oriented
	// implementation.
	Transformer gitconfig.Transformer
}

// Store is the mutation surface for the context set.
type Store struct {
	listPath      string
	fragmentDir   string
	gitConfigPath string
	homeDir       string
	coord         *fileio.Coordinator
	tf            gitconfig.Transformer
}

// New creates a Store from options.
func New(opts Options) (*Store, error) {
	if opts.Coordinator == nil {
		return nil, errors.New("coordinator is required")
	}
	if opts.ListPath == "" || opts.FragmentDir == "" || opts.GitConfigPath == "" {
		return nil, errors.New("list path, fragment dir and git config path are required")
	}

	tf := opts.Transformer
	if tf == nil {
		tf = gitconfig.NewLineTransformer()
	}

	return &Store{
		listPath:      opts.ListPath,
		fragmentDir:   opts.FragmentDir,
		gitConfigPath: opts.GitConfigPath,
		homeDir:       opts.HomeDir,
		coord:         opts.Coordinator,
		tf:            tf,
	}, nil
}

// FragmentDir returns the directory holding per-context fragments.
func (s *Store) FragmentDir() string {
	return s.fragmentDir
}

// Load reads and hydrates the context list. A missing list file yields an
// empty list. A list file with invalid JSON also degrades to empty: nearly
// every command consults the list implicitly, and failing all of them
// outright would be worse than starting over (the import path is stricter).
// Records that do not hydrate are skipped with a warning.
func (s *Store) Load(ctx context.Context) ([]identity.Context, error) {
	logger := zerolog.Ctx(ctx)

	var records []identity.Record
	err := s.coord.WithLock(s.listPath, func() error {
		_, err := s.coord.LoadJSON(s.listPath, &records)
		return err
	})
	if err != nil {
		if errors.Is(err, errkind.ErrMalformedData) {
			logger.Warn().Err(err).Str("path", s.listPath).Msg("context list is malformed, treating it as empty")
			return []identity.Context{}, nil
		}
		return nil, errors.Errorf("loading context list: %w", err)
	}

	contexts := make([]identity.Context, 0, len(records))
	for _, rec := range records {
		c, err := identity.FromRecord(rec)
		if err != nil {
			logger.Warn().Err(err).Msg("skipping context record that cannot be hydrated")
			continue
		}
		contexts = append(contexts, c)
	}

	return contexts, nil
}

// Save persists the context list.
func (s *Store) Save(ctx context.Context, contexts []identity.Context) error {
	records := make([]identity.Record, 0, len(contexts))
	for _, c := range contexts {
		records = append(records, c.ToRecord())
	}

	err := s.coord.WithLock(s.listPath, func() error {
		return s.coord.SaveJSON(s.listPath, records)
	})
	if err != nil {
		return errors.Errorf("saving context list: %w", err)
	}
	return nil
}

// Get returns the named context.
func (s *Store) Get(ctx context.Context, name string) (identity.Context, error) {
	contexts, err := s.Load(ctx)
	if err != nil {
		return identity.Context{}, err
	}

	for _, c := range contexts {
		if c.Name == name {
			return c, nil
		}
	}
	return identity.Context{}, errors.Errorf("context %q: %w", name, errkind.ErrNotFound)
}

// Add validates and persists a new context, writes its fragment, and
// regenerates the managed block. A duplicate name is rejected before any
// file is written.
func (s *Store) Add(ctx context.Context, c identity.Context) error {
	if err := identity.Validate(c).Err(); err != nil {
		return err
	}

	contexts, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range contexts {
		if existing.Name == c.Name {
			return errors.Errorf("context %q already exists: %w", c.Name, errkind.ErrValidation)
		}
	}

	contexts = append(contexts, c)
	if err := s.Save(ctx, contexts); err != nil {
		return err
	}
	return s.apply(ctx, contexts)
}

// Update replaces the context with the same name, rewrites its fragment and
// regenerates the managed block.
func (s *Store) Update(ctx context.Context, c identity.Context) error {
	if err := identity.Validate(c).Err(); err != nil {
		return err
	}

	contexts, err := s.Load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range contexts {
		if contexts[i].Name == c.Name {
			contexts[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		return errors.Errorf("context %q: %w", c.Name, errkind.ErrNotFound)
	}

	if err := s.Save(ctx, contexts); err != nil {
		return err
	}
	return s.apply(ctx, contexts)
}

// Remove deletes a context. The fragment file goes first, then the shortened
// list: a crash in between leaves an orphaned record that the next Apply
// cleans up, never a dangling includeIf pointing at a missing fragment. The
// two steps are not transactional.
func (s *Store) Remove(ctx context.Context, name string) error {
	contexts, err := s.Load(ctx)
	if err != nil {
		return err
	}

	kept := make([]identity.Context, 0, len(contexts))
	found := false
	for _, c := range contexts {
		if c.Name == name {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return errors.Errorf("context %q: %w", name, errkind.ErrNotFound)
	}

	if err := s.coord.DeleteNamedFragment(s.fragmentDir, name); err != nil {
		return errors.Errorf("deleting fragment for %q: %w", name, err)
	}

	if err := s.Save(ctx, kept); err != nil {
		return err
	}
	return s.apply(ctx, kept)
}

// Apply reloads the context set and regenerates fragments and the managed
// block from it.
func (s *Store) Apply(ctx context.Context) error {
	contexts, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.apply(ctx, contexts)
}

// apply writes every context's fragment, then rewrites the managed block in
// the global git config as one read-transform-write unit under the file's
// lock. The prior config is backed up first; backup and rewrite are separate
// steps, not a transaction.
func (s *Store) apply(ctx context.Context, contexts []identity.Context) error {
	logger := zerolog.Ctx(ctx)

	for _, c := range contexts {
		if _, err := s.coord.SaveNamedFragment(s.fragmentDir, c.Name, c.ConfigFragment()); err != nil {
			return errors.Errorf("writing fragment for %q: %w", c.Name, err)
		}
	}

	return s.coord.WithLock(s.gitConfigPath, func() error {
		text, err := s.coord.LoadText(s.gitConfigPath)
		if err != nil {
			return errors.Errorf("reading global git config: %w", err)
		}

		if backup, err := s.coord.Backup(s.gitConfigPath); err != nil {
			return err
		} else if backup != "" {
			logger.Debug().Str("backup", backup).Msg("backed up global git config")
		}

		updated := s.tf.Update(ctx, text, contexts, s.fragmentDir)
		if err := s.coord.SaveText(s.gitConfigPath, updated, fileio.SaveTextOptions{}); err != nil {
			return errors.Errorf("writing global git config: %w", err)
		}
		return nil
	})
}
