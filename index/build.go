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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ianlewis/go-dictzip"
	"golang.org/x/sync/errgroup"

	"github.com/ianlewis/go-jiten/jmdict"
)

// progressEvery is the number of entries between build progress logs.
const progressEvery = 10000

// EntryScanner is a stream of dictionary entries. *jmdict.Parser implements
// EntryScanner.
//
// Entries must be produced in ascending ID order starting at 1 with no
// gaps. Scanners that skip malformed input may additionally implement
// Skipped() []jmdict.Skip to have skips recorded in the index manifest.
type EntryScanner interface {
	// Scan advances to the next entry.
	Scan() bool

	// Entry returns the current entry.
	Entry() *jmdict.Entry

	// Err returns the error, if any, that stopped the scan.
	Err() error
}

// BuildOptions are options for Build.
type BuildOptions struct {
	// Workers is the number of goroutines used to tokenize entries.
	// Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives build progress logs. Defaults to a logger that
	// discards all output.
	Logger *slog.Logger
}

// DefaultBuildOptions returns the default options used when Build is given
// nil options.
func DefaultBuildOptions() *BuildOptions {
	return &BuildOptions{
		Workers: runtime.GOMAXPROCS(0),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// BuildStats summarize a completed build.
type BuildStats struct {
	// BuildID is the sequence number assigned to the build.
	BuildID uint64

	// Entries is the number of entries indexed.
	Entries int

	// Skipped is the number of malformed entries the source skipped.
	Skipped int

	// Duration is the wall time the build took.
	Duration time.Duration
}

// Build reads all entries from src and builds the index in dir, atomically
// replacing any index already published there. The replacement is a single
// pointer update: until it happens readers see the previous index, and a
// failed build leaves the previous index intact.
//
// Entry tokenization fans out over opts.Workers goroutines. The produced
// index is byte-for-byte identical regardless of worker count.
func Build(ctx context.Context, dir string, src EntryScanner, opts *BuildOptions) (*BuildStats, error) {
	if opts == nil {
		opts = DefaultBuildOptions()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	start := time.Now()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	// The new build takes the ID after the published one so its files never
	// collide with files readers may have open. A missing or corrupt index
	// starts over at 1.
	var prev *manifest
	switch m, err := loadManifest(dir); {
	case err == nil:
		prev = m
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCorrupt):
	default:
		return nil, err
	}
	id := uint64(1)
	if prev != nil {
		id = prev.ID + 1
	}

	logger.Info("building index", "dir", dir, "build_id", id, "workers", workers)

	tables := [fieldCount]map[string]*postings{}
	for i := range tables {
		tables[i] = make(map[string]*postings)
	}

	entriesPath := filepath.Join(dir, entriesName(id))
	postingsPath := filepath.Join(dir, postingsName(id))
	discard := func() {
		os.Remove(entriesPath)
		os.Remove(postingsPath)
	}

	sizes, err := runPipeline(ctx, src, entriesPath, tables, workers, logger)
	if err != nil {
		discard()
		return nil, err
	}

	if err := writePostings(postingsPath, tables, sizes); err != nil {
		discard()
		return nil, err
	}

	pCRC, pSize, err := crcFile(postingsPath)
	if err != nil {
		discard()
		return nil, err
	}
	eCRC, eSize, err := crcFile(entriesPath)
	if err != nil {
		discard()
		return nil, err
	}

	var skipped int
	if sk, ok := src.(interface{ Skipped() []jmdict.Skip }); ok {
		skipped = len(sk.Skipped())
	}

	m := &manifest{
		Version:    manifestVersion,
		ID:         id,
		CreatedAt:  time.Now().UTC(),
		EntryCount: len(sizes),
		SkipCount:  skipped,
		Postings:   fileInfo{Name: postingsName(id), Size: pSize, CRC32: pCRC},
		Entries:    fileInfo{Name: entriesName(id), Size: eSize, CRC32: eCRC},
	}
	if err := saveManifest(dir, m); err != nil {
		discard()
		return nil, err
	}

	// The new index is published. The previous build's files are garbage
	// now; removal is best effort.
	if prev != nil {
		removeBuild(dir, prev)
	}

	stats := &BuildStats{
		BuildID:  id,
		Entries:  len(sizes),
		Skipped:  skipped,
		Duration: time.Since(start),
	}
	logger.Info("index built",
		"build_id", id,
		"entries", stats.Entries,
		"skipped", stats.Skipped,
		"duration", stats.Duration,
	)
	return stats, nil
}

// runPipeline streams entries from src into the entry store and fans their
// tokenization out to workers, merging token tables as results arrive. It
// returns the byte size of each stored entry record in ID order.
func runPipeline(
	ctx context.Context,
	src EntryScanner,
	entriesPath string,
	tables [fieldCount]map[string]*postings,
	workers int,
	logger *slog.Logger,
) ([]uint32, error) {
	f, err := os.Create(entriesPath)
	if err != nil {
		return nil, fmt.Errorf("creating entry store: %w", err)
	}
	defer f.Close()

	z, err := dictzip.NewWriter(f)
	if err != nil {
		return nil, fmt.Errorf("creating entry store: %w", err)
	}

	jobs := make(chan *jmdict.Entry, 256)
	results := make(chan *entryTokens, 256)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			t := newTokenizer()
			for e := range jobs {
				select {
				case results <- t.tokenize(e):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	// Merging is serialized in a single goroutine so the token tables need
	// no locking. Merge order does not matter: the tables are sets keyed by
	// token and entry ID.
	mergeDone := make(chan struct{})
	go func() {
		defer close(mergeDone)
		for et := range results {
			for slot, fieldTokens := range et.fields {
				for token, s := range fieldTokens {
					p := tables[slot][token]
					if p == nil {
						p = &postings{token: token}
						tables[slot][token] = p
					}
					p.add(et.id, s)
				}
			}
		}
	}()

	var sizes []uint32
	var feedErr error
	for src.Scan() {
		e := src.Entry()
		if e.ID != uint32(len(sizes))+1 {
			feedErr = fmt.Errorf("entry ID %d out of order, want %d", e.ID, len(sizes)+1)
			break
		}

		rec, err := json.Marshal(e)
		if err != nil {
			feedErr = fmt.Errorf("encoding entry %d: %w", e.ID, err)
			break
		}
		rec = append(rec, '\n')
		if _, err := z.Write(rec); err != nil {
			feedErr = fmt.Errorf("writing entry store: %w", err)
			break
		}
		sizes = append(sizes, uint32(len(rec)))

		select {
		case jobs <- e:
		case <-gctx.Done():
			feedErr = gctx.Err()
		}
		if feedErr != nil {
			break
		}

		if len(sizes)%progressEvery == 0 {
			logger.Debug("indexing", "entries", len(sizes))
		}
	}

	// jobs is closed unconditionally so the workers always exit and Wait
	// cannot hang on an aborted scan.
	close(jobs)
	workerErr := g.Wait()
	close(results)
	<-mergeDone

	if feedErr == nil {
		if err := src.Err(); err != nil {
			feedErr = fmt.Errorf("reading entries: %w", err)
		}
	}
	if feedErr == nil {
		feedErr = workerErr
	}
	if feedErr != nil {
		return nil, feedErr
	}

	if err := z.Close(); err != nil {
		return nil, fmt.Errorf("closing entry store: %w", err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("syncing entry store: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing entry store: %w", err)
	}
	return sizes, nil
}
