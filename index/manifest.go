// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// currentName is the pointer file naming the live manifest.
	currentName = "CURRENT"

	// manifestVersion is the index format version. Indexes written with a
	// different version are not readable.
	manifestVersion = 1
)

// fileInfo records the identity of one section file so a reader can verify
// it before use.
type fileInfo struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	CRC32 uint32 `json:"crc32"`
}

// manifest is the build descriptor named by CURRENT.
type manifest struct {
	Version    int       `json:"version"`
	ID         uint64    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	EntryCount int       `json:"entry_count"`
	SkipCount  int       `json:"skip_count"`
	Postings   fileInfo  `json:"postings"`
	Entries    fileInfo  `json:"entries"`
}

func manifestName(id uint64) string {
	return fmt.Sprintf("MANIFEST-%06d.json", id)
}

func postingsName(id uint64) string {
	return fmt.Sprintf("postings-%06d.jix", id)
}

func entriesName(id uint64) string {
	return fmt.Sprintf("entries-%06d.jdz", id)
}

// loadManifest reads the live manifest for the index at dir. It returns an
// error wrapping ErrNotFound when no index exists there and an error
// wrapping ErrCorrupt when CURRENT or the manifest it names is unusable.
func loadManifest(dir string) (*manifest, error) {
	content, err := os.ReadFile(filepath.Join(dir, currentName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", currentName, err)
	}

	name := strings.TrimSpace(string(content))
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: %s names invalid manifest %q", ErrCorrupt, currentName, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: reading manifest %s: %v", ErrCorrupt, name, err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding manifest %s: %v", ErrCorrupt, name, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("%w: unsupported index version %d (want %d)", ErrCorrupt, m.Version, manifestVersion)
	}

	return &m, nil
}

// saveManifest publishes m: the manifest file is written under a temporary
// name, renamed into place, and then CURRENT is atomically repointed at it.
// A failure at any step leaves the previous CURRENT in effect.
func saveManifest(dir string, m *manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	name := manifestName(m.ID)
	if err := writeFileAtomic(dir, name, data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := syncDir(dir); err != nil {
		return err
	}

	if err := writeFileAtomic(dir, currentName, []byte(name)); err != nil {
		return fmt.Errorf("writing %s: %w", currentName, err)
	}
	return syncDir(dir)
}

// removeBuild removes the files belonging to one build. Failures are
// ignored; leftover files are unreferenced and harmless.
func removeBuild(dir string, m *manifest) {
	for _, name := range []string{m.Postings.Name, m.Entries.Name, manifestName(m.ID)} {
		if name == "" || name != filepath.Base(name) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// writeFileAtomic writes data to dir/name via a temporary file and rename.
func writeFileAtomic(dir, name string, data []byte) error {
	tmp := filepath.Join(dir, name+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// syncDir persists renames within dir.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("syncing %s: %w", dir, err)
	}
	defer f.Close()
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", dir, err)
	}
	return nil
}
