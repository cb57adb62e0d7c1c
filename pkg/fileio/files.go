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

package fileio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/pkg/errkind"
)

// SaveTextOptions controls how SaveText writes a file.
type SaveTextOptions struct {
	// OwnerOnly writes the file with owner read/write permissions only.
	OwnerOnly bool
}

// LoadJSON reads a JSON file into out. A missing file is not an error: out is
// left untouched and found is false, so a caller loading the context list can
// degrade to an empty one. Invalid JSON is a malformed-data error.
func (c *Coordinator) LoadJSON(path string, out any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, classify(err, path)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return true, errors.Errorf("parsing %s: %w: %w", path, errkind.ErrMalformedData, err)
	}
	return true, nil
}

// SaveJSON writes v to path as 2-space indented JSON with a trailing newline.
func (c *Coordinator) SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Errorf("encoding %s: %w", path, err)
	}
	return c.SaveText(path, string(data)+"\n", SaveTextOptions{})
}

// LoadText reads a text file. A missing file yields the empty string, not an
// error.
func (c *Coordinator) LoadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", classify(err, path)
	}
	return string(data), nil
}

// SaveText writes content to path in a single write call, creating parent
// directories as needed.
func (c *Coordinator) SaveText(path, content string, opts SaveTextOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return classify(err, path)
	}

	mode := os.FileMode(0o644)
	if opts.OwnerOnly {
		mode = 0o600
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return classify(err, path)
	}
	return nil
}

// Copy copies src to dst, preserving the source file's mode.
func (c *Coordinator) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return classify(err, src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return classify(err, src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return classify(err, dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return classify(err, dst)
	}
	return nil
}

// RemoveIfExists deletes path. An absent file is a no-op, not an error.
func (c *Coordinator) RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return classify(err, path)
	}
	return nil
}

// Exists reports whether path exists.
func (c *Coordinator) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Backup copies path to path + ".backup.<unix millis>" and returns the new
// path. When there is nothing to back up it returns the empty string and no
// error.
func (c *Coordinator) Backup(path string) (string, error) {
	if !c.Exists(path) {
		return "", nil
	}

	backupPath := fmt.Sprintf("%s.backup.%d", path, time.Now().UnixMilli())
	if err := c.Copy(path, backupPath); err != nil {
		return "", errors.Errorf("backing up %s: %w", path, err)
	}
	return backupPath, nil
}

// FragmentPath resolves the fragment file path for a context name under
// baseDir and re-checks that the result stays inside baseDir, even though
// callers should have validated the name already.
func FragmentPath(baseDir, name string) (string, error) {
	path := filepath.Join(baseDir, name+".gitconfig")
	if !isWithin(baseDir, path) {
		return "", errors.Errorf("fragment path for %q: %w", name, errkind.ErrTraversal)
	}
	return path, nil
}

// SaveNamedFragment writes a context's config fragment under baseDir with
// owner-only permissions and returns the fragment path. The write happens
// under the fragment path's lock.
func (c *Coordinator) SaveNamedFragment(baseDir, name, content string) (string, error) {
	path, err := FragmentPath(baseDir, name)
	if err != nil {
		return "", err
	}

	err = c.WithLock(path, func() error {
		return c.SaveText(path, content, SaveTextOptions{OwnerOnly: true})
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// DeleteNamedFragment removes a context's config fragment under the fragment
// path's lock. An absent fragment is a no-op.
func (c *Coordinator) DeleteNamedFragment(baseDir, name string) error {
	path, err := FragmentPath(baseDir, name)
	if err != nil {
		return err
	}
	return c.WithLock(path, func() error {
		return c.RemoveIfExists(path)
	})
}

// classify maps an I/O error onto the shared taxonomy. Permission failures
// carry a remediation hint; anything else is surfaced unmodified.
func classify(err error, path string) error {
	if os.IsPermission(err) {
		return errors.Errorf("%w for %s (try: chmod u+rw %s): %w", errkind.ErrPermission, path, path, err)
	}
	return errors.Errorf("accessing %s: %w", path, err)
}

// isWithin reports whether path resolves to baseDir or a descendant of it.
func isWithin(baseDir, path string) bool {
	base := filepath.Clean(baseDir)
	target := filepath.Clean(path)

	return target == base || strings.HasPrefix(target, base+string(filepath.Separator))
}
