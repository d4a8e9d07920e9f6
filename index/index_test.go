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

package index_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-jiten/index"
	"github.com/ianlewis/go-jiten/internal/testutil"
)

// indexFile returns the one file in dir matching pattern.
func indexFile(t *testing.T, dir, pattern string) string {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("glob %s: got %d files, want 1", pattern, len(paths))
	}
	return paths[0]
}

// flipByte inverts the middle byte of the file at path.
func flipByte(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)/2] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestOpen_notFound tests that opening a directory with no index fails with
// ErrNotFound.
func TestOpen_notFound(t *testing.T) {
	t.Parallel()

	if _, err := index.Open(t.TempDir()); !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("Open: got %v, want %v", err, index.ErrNotFound)
	}
}

// TestOpen_corrupt tests that damaged index files fail validation with
// ErrCorrupt.
func TestOpen_corrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(t *testing.T, dir string)
	}{
		{
			name: "missing postings file",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				if err := os.Remove(indexFile(t, dir, "postings-*.jix")); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "truncated postings file",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				path := indexFile(t, dir, "postings-*.jix")
				data, err := os.ReadFile(path)
				if err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, data[:len(data)-1], 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "corrupt postings file",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				flipByte(t, indexFile(t, dir, "postings-*.jix"))
			},
		},
		{
			name: "missing entry store",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				if err := os.Remove(indexFile(t, dir, "entries-*.jdz")); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "corrupt entry store",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				flipByte(t, indexFile(t, dir, "entries-*.jdz"))
			},
		},
		{
			name: "current names invalid path",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				if err := os.WriteFile(filepath.Join(dir, "CURRENT"), []byte("../evil\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "current names missing manifest",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				if err := os.WriteFile(filepath.Join(dir, "CURRENT"), []byte("MANIFEST-000099.json"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "manifest not json",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				if err := os.WriteFile(indexFile(t, dir, "MANIFEST-*.json"), []byte("{"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "unsupported manifest version",
			corrupt: func(t *testing.T, dir string) {
				t.Helper()
				path := indexFile(t, dir, "MANIFEST-*.json")
				data, err := os.ReadFile(path)
				if err != nil {
					t.Fatal(err)
				}
				var m map[string]any
				if err := json.Unmarshal(data, &m); err != nil {
					t.Fatal(err)
				}
				m["version"] = 99
				data, err = json.Marshal(m)
				if err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.BuildIndex(t, searchEntries()[:2])
			test.corrupt(t, dir)

			if _, err := index.Open(dir); !errors.Is(err, index.ErrCorrupt) {
				t.Fatalf("Open: got %v, want %v", err, index.ErrCorrupt)
			}
		})
	}
}

// TestIndex_Entry tests Index.Entry.
func TestIndex_Entry(t *testing.T) {
	t.Parallel()

	entries := searchEntries()
	ix := testutil.OpenIndex(t, entries)

	for _, expected := range entries {
		got, err := ix.Entry(expected.ID)
		if err != nil {
			t.Fatalf("Entry(%d): %v", expected.ID, err)
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Fatalf("Entry(%d) (-want, +got):\n%s", expected.ID, diff)
		}
	}

	if _, err := ix.Entry(0); !errors.Is(err, index.ErrCorrupt) {
		t.Errorf("Entry(0): got %v, want %v", err, index.ErrCorrupt)
	}
	outOfRange := uint32(len(entries) + 1)
	if _, err := ix.Entry(outOfRange); !errors.Is(err, index.ErrCorrupt) {
		t.Errorf("Entry(%d): got %v, want %v", outOfRange, err, index.ErrCorrupt)
	}
}

// TestIndex_Stats tests Index.Stats.
func TestIndex_Stats(t *testing.T) {
	t.Parallel()

	entries := searchEntries()
	ix := testutil.OpenIndex(t, entries)

	stats := ix.Stats()
	if got, want := stats.BuildID, uint64(1); got != want {
		t.Errorf("BuildID: got %d, want %d", got, want)
	}
	if got, want := stats.EntryCount, len(entries); got != want {
		t.Errorf("EntryCount: got %d, want %d", got, want)
	}
	if got, want := stats.SkipCount, 0; got != want {
		t.Errorf("SkipCount: got %d, want %d", got, want)
	}
	if stats.CreatedAt.IsZero() {
		t.Error("CreatedAt: got zero time")
	}
	if stats.KanjiTokens == 0 {
		t.Error("KanjiTokens: got 0")
	}
	if stats.ReadingTokens == 0 {
		t.Error("ReadingTokens: got 0")
	}
	if stats.MeaningTokens == 0 {
		t.Error("MeaningTokens: got 0")
	}
}

// TestIndex_Close tests that Close is idempotent.
func TestIndex_Close(t *testing.T) {
	t.Parallel()

	ix, err := index.Open(testutil.BuildIndex(t, searchEntries()[:1]))
	if err != nil {
		t.Fatal(err)
	}

	if err := ix.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ix.Close(); err != nil {
		t.Fatal(err)
	}
}
