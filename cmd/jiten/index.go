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

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-jiten/index"
	"github.com/ianlewis/go-jiten/jmdict"
)

var indexCommand = &cli.Command{
	Name:      "index",
	Usage:     "Build the search index from a JMdict file",
	ArgsUsage: "[FILE]",
	Description: "Build the search index from a JMdict XML file, plain or gzip\n" +
		"compressed. The new index atomically replaces any existing index once\n" +
		"it is complete.",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "fetch",
			Usage: "download JMdict if the file does not exist",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "tokenize entries with `N` workers",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return exitErr(err)
		}
		logger := newLogger(c)

		path := c.Args().First()
		if path == "" {
			path = cfg.JMdict.Path
		}
		if path == "" {
			path = "JMdict_e.gz"
		}

		if _, err := os.Stat(path); err != nil {
			if !c.Bool("fetch") || !errors.Is(err, os.ErrNotExist) {
				return exitErr(fmt.Errorf("%w: %v", ErrJiten, err))
			}
			logger.Info("downloading JMdict", "url", cfg.JMdict.URL, "path", path)
			if err := fetchJMdict(c.Context, cfg.JMdict.URL, path); err != nil {
				return exitErr(err)
			}
		}

		f, err := os.Open(path)
		if err != nil {
			return exitErr(fmt.Errorf("%w: %v", ErrJiten, err))
		}
		defer f.Close()

		r, err := jmdictReader(f)
		if err != nil {
			return exitErr(err)
		}

		p, err := jmdict.NewParser(r, &jmdict.Options{Logger: logger})
		if err != nil {
			return exitErr(fmt.Errorf("%w: reading %s: %v", ErrJiten, path, err))
		}

		stats, err := index.Build(c.Context, cfg.Index.Path, p, &index.BuildOptions{
			Workers: c.Int("workers"),
			Logger:  logger,
		})
		if err != nil {
			return exitErr(fmt.Errorf("%w: building index: %v", ErrJiten, err))
		}

		fmt.Fprintf(c.App.Writer, "Indexed %d entries (%d skipped) in %s.\n",
			stats.Entries, stats.Skipped, stats.Duration.Round(time.Millisecond))
		return nil
	},
}

// jmdictReader returns a reader for the JMdict file, decompressing it if
// it is gzip compressed.
func jmdictReader(f *os.File) (io.Reader, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrJiten, f.Name(), err)
		}
		return zr, nil
	}
	return br, nil
}

// fetchJMdict downloads url to path. The download goes to a temporary file
// that is renamed into place, so a partial download is never mistaken for
// a complete file.
func fetchJMdict(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: fetching JMdict: %v", ErrJiten, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetching JMdict: %v", ErrJiten, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: fetching JMdict: %s", ErrJiten, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: fetching JMdict: %v", ErrJiten, err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: fetching JMdict: %v", ErrJiten, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: fetching JMdict: %v", ErrJiten, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: fetching JMdict: %v", ErrJiten, err)
	}
	return nil
}
