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

package store

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/pkg/errkind"
	"github.com/walteh/gitctx/pkg/identity"
)

// ImportFailure records why one item of an import batch was skipped.
type ImportFailure struct {
	Name   string
	Reason error
}

// ImportResult reports the outcome of an import batch. Items already written
// stay written when later items fail; failures are collected, not fatal.
type ImportResult struct {
	Imported []string
	Skipped  []ImportFailure
}

// Export writes the context records to destPath as a JSON array. Writing
// into the home directory or the fragment directory is refused so an export
// cannot clobber the files this tool manages. The check is a substring test
// on the path as given; it is not canonicalized first, so a relative path
// can evade it. Known limitation, kept as-is.
func (s *Store) Export(ctx context.Context, destPath string) error {
	if s.homeDir != "" && strings.Contains(destPath, s.homeDir) {
		return errors.Errorf("refusing to export inside the home directory %s: %w", s.homeDir, errkind.ErrValidation)
	}
	if strings.Contains(destPath, s.fragmentDir) {
		return errors.Errorf("refusing to export inside the managed config directory %s: %w", s.fragmentDir, errkind.ErrValidation)
	}

	contexts, err := s.Load(ctx)
	if err != nil {
		return err
	}

	records := make([]identity.Record, 0, len(contexts))
	for _, c := range contexts {
		records = append(records, c.ToRecord())
	}

	err = s.coord.WithLock(destPath, func() error {
		return s.coord.SaveJSON(destPath, records)
	})
	if err != nil {
		return errors.Errorf("exporting contexts: %w", err)
	}
	return nil
}

// Import reads a JSON array of context records from srcPath and adds each
// one. Unlike the context list file, a missing import file is an error, and
// malformed JSON is surfaced rather than degraded: import is explicit user
// intent, and losing its data silently would be worse than failing loudly.
// A payload that parses but is not an array is reported distinctly from a
// parse failure. Per-item failures (bad record, validation, duplicate name)
// are collected alongside successes; the batch is not rolled back.
func (s *Store) Import(ctx context.Context, srcPath string) (ImportResult, error) {
	logger := zerolog.Ctx(ctx)
	result := ImportResult{}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, errors.Errorf("import file %s: %w", srcPath, errkind.ErrNotFound)
		}
		return result, errors.Errorf("reading import file %s: %w", srcPath, err)
	}

	var records []identity.Record
	if err := json.Unmarshal(data, &records); err != nil {
		if json.Valid(data) {
			return result, errors.Errorf("import file %s is not a JSON array of contexts: %w", srcPath, errkind.ErrMalformedData)
		}
		return result, errors.Errorf("import file %s is not valid JSON: %w: %w", srcPath, errkind.ErrMalformedData, err)
	}

	contexts, err := s.Load(ctx)
	if err != nil {
		return result, err
	}
	existing := make(map[string]bool, len(contexts))
	for _, c := range contexts {
		existing[c.Name] = true
	}

	for _, rec := range records {
		c, err := identity.FromRecord(rec)
		if err != nil {
			result.Skipped = append(result.Skipped, ImportFailure{Name: rec.Name, Reason: err})
			continue
		}
		if err := identity.Validate(c).Err(); err != nil {
			result.Skipped = append(result.Skipped, ImportFailure{Name: c.Name, Reason: err})
			continue
		}
		if existing[c.Name] {
			result.Skipped = append(result.Skipped, ImportFailure{
				Name:   c.Name,
				Reason: errors.Errorf("context %q already exists: %w", c.Name, errkind.ErrValidation),
			})
			continue
		}

		contexts = append(contexts, c)
		existing[c.Name] = true
		result.Imported = append(result.Imported, c.Name)
	}

	if len(result.Imported) > 0 {
		if err := s.Save(ctx, contexts); err != nil {
			return result, err
		}
		if err := s.apply(ctx, contexts); err != nil {
			return result, err
		}
	}

	logger.Debug().
		Int("imported", len(result.Imported)).
		Int("skipped", len(result.Skipped)).
		Msg("import finished")

	return result, nil
}
