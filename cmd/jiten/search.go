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
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-jiten/index"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "Search the dictionary",
	ArgsUsage: "QUERY",
	Description: "Search the dictionary for QUERY. Kanji, kana, and romaji queries all\n" +
		"match readings regardless of script. Exact matches rank before prefix\n" +
		"matches, and prefix matches before substring matches.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "field",
			Usage:   "search `FIELD`: kanji, reading, meaning, or any",
			Aliases: []string{"f"},
			Value:   "any",
		},
		&cli.IntFlag{
			Name:    "limit",
			Usage:   "print at most `N` entries (0 for no limit)",
			Aliases: []string{"n"},
			Value:   10,
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit(fmt.Errorf("%w: expected a single query argument", ErrFlagParse), ExitCodeFlagParseError)
		}
		if err := setupColor(c); err != nil {
			return err
		}

		field, err := index.ParseField(c.String("field"))
		if err != nil {
			return exitErr(err)
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return exitErr(err)
		}

		ix, err := index.Open(cfg.Index.Path)
		if err != nil {
			if errors.Is(err, index.ErrNotFound) {
				return cli.Exit(fmt.Errorf("%w: no index at %s; run 'jiten index' first",
					ErrJiten, cfg.Index.Path), ExitCodeNoIndex)
			}
			return exitErr(err)
		}
		defer ix.Close()

		matches, err := ix.Search(c.Args().First(), field)
		if err != nil {
			return exitErr(err)
		}

		limit := c.Int("limit")
		if limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}

		for _, m := range matches {
			e, err := ix.Entry(m.ID)
			if err != nil {
				return exitErr(err)
			}
			printEntry(c.App.Writer, e)
		}
		return nil
	},
}
