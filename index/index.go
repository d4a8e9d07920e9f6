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
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"github.com/ianlewis/go-dictzip"

	"github.com/ianlewis/go-jiten/jmdict"
)

var (
	// ErrNotFound indicates that no index exists at the given directory.
	ErrNotFound = errors.New("index not found")

	// ErrCorrupt indicates that the index on disk failed validation and
	// cannot be used. Rebuilding the index is the only remedy.
	ErrCorrupt = errors.New("index corrupt")
)

// Index is an open dictionary index. It supports concurrent searches and
// entry retrieval. Entries are held compressed on disk and read on demand
// so the resident size is dominated by the token dictionaries.
type Index struct {
	dir      string
	manifest *manifest

	kanji   *tokenDict
	reading *tokenDict
	meaning *tokenDict
	offsets []entryOffset

	storeF *os.File
	store  *dictzip.Reader
}

// Open opens the index in dir. It returns ErrNotFound if no index has been
// built there and ErrCorrupt if the index files fail validation.
func Open(dir string) (*Index, error) {
	m, err := loadManifest(dir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, m.Postings.Name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: missing postings file %s", ErrCorrupt, m.Postings.Name)
		}
		return nil, fmt.Errorf("reading postings file: %w", err)
	}
	if int64(len(data)) != m.Postings.Size {
		return nil, fmt.Errorf("%w: postings file %s is %d bytes, manifest says %d",
			ErrCorrupt, m.Postings.Name, len(data), m.Postings.Size)
	}
	if crc := crc32.ChecksumIEEE(data); crc != m.Postings.CRC32 {
		return nil, fmt.Errorf("%w: postings file %s checksum mismatch", ErrCorrupt, m.Postings.Name)
	}

	pd, err := parsePostings(data)
	if err != nil {
		return nil, err
	}
	if int(pd.entryCount) != m.EntryCount {
		return nil, fmt.Errorf("%w: postings hold %d entries, manifest says %d",
			ErrCorrupt, pd.entryCount, m.EntryCount)
	}

	entriesPath := filepath.Join(dir, m.Entries.Name)
	crc, size, err := crcFile(entriesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: missing entry store %s", ErrCorrupt, m.Entries.Name)
		}
		return nil, err
	}
	if size != m.Entries.Size || crc != m.Entries.CRC32 {
		return nil, fmt.Errorf("%w: entry store %s failed validation", ErrCorrupt, m.Entries.Name)
	}

	f, err := os.Open(entriesPath)
	if err != nil {
		return nil, fmt.Errorf("opening entry store: %w", err)
	}
	z, err := dictzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: entry store %s: %v", ErrCorrupt, m.Entries.Name, err)
	}

	return &Index{
		dir:      dir,
		manifest: m,
		kanji:    pd.fields[fieldSlot(FieldKanji)],
		reading:  pd.fields[fieldSlot(FieldReading)],
		meaning:  pd.fields[fieldSlot(FieldMeaning)],
		offsets:  pd.offsets,
		storeF:   f,
		store:    z,
	}, nil
}

// Close closes the index. The index cannot be used after it is closed.
func (ix *Index) Close() error {
	if ix.storeF == nil {
		return nil
	}
	f := ix.storeF
	ix.storeF = nil
	ix.store = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing entry store: %w", err)
	}
	return nil
}

// Entry retrieves the entry with the given ID from the entry store. IDs are
// assigned by the build and reported in search results.
func (ix *Index) Entry(id uint32) (*jmdict.Entry, error) {
	if id == 0 || int(id) > len(ix.offsets) {
		return nil, fmt.Errorf("%w: entry ID %d out of range", ErrCorrupt, id)
	}
	eo := ix.offsets[id-1]

	b := make([]byte, eo.size)
	// NOTE: ReadAt offsets address the uncompressed entry store.
	if _, err := ix.store.ReadAt(b, eo.off); err != nil {
		return nil, fmt.Errorf("reading entry store: %w", err)
	}

	var e jmdict.Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("%w: decoding entry %d: %v", ErrCorrupt, id, err)
	}
	return &e, nil
}

// Stats describe an open index.
type Stats struct {
	// BuildID is the sequence number of the build that produced the index.
	BuildID uint64

	// CreatedAt is the time the index was built.
	CreatedAt time.Time

	// EntryCount is the number of searchable entries.
	EntryCount int

	// SkipCount is the number of malformed entries the build skipped.
	SkipCount int

	// KanjiTokens, ReadingTokens, and MeaningTokens are the token
	// dictionary sizes for each field.
	KanjiTokens   int
	ReadingTokens int
	MeaningTokens int
}

// Stats returns statistics for the open index.
func (ix *Index) Stats() Stats {
	return Stats{
		BuildID:       ix.manifest.ID,
		CreatedAt:     ix.manifest.CreatedAt,
		EntryCount:    ix.manifest.EntryCount,
		SkipCount:     ix.manifest.SkipCount,
		KanjiTokens:   ix.kanji.size(),
		ReadingTokens: ix.reading.size(),
		MeaningTokens: ix.meaning.size(),
	}
}
