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
	"fmt"
	"time"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"

	"github.com/ianlewis/go-jiten/index"
)

var infoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print information about the index",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return exitErr(err)
		}

		ix, err := index.Open(cfg.Index.Path)
		if err != nil {
			return exitErr(err)
		}
		defer ix.Close()

		configPath := c.String("config")
		if configPath == "" {
			configPath = defaultConfigPath()
		}

		stats := ix.Stats()
		w := c.App.Writer
		fmt.Fprintf(w, "Version:  %s\n", version.GetVersionInfo().GitVersion)
		fmt.Fprintf(w, "Config:   %s\n", configPath)
		fmt.Fprintf(w, "Index:    %s\n", cfg.Index.Path)
		fmt.Fprintf(w, "Build:    %d (%s)\n", stats.BuildID, stats.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Entries:  %d\n", stats.EntryCount)
		fmt.Fprintf(w, "Skipped:  %d\n", stats.SkipCount)
		fmt.Fprintln(w)

		tbl := table.New("FIELD", "TOKENS").WithWriter(w)
		tbl.AddRow("kanji", stats.KanjiTokens)
		tbl.AddRow("reading", stats.ReadingTokens)
		tbl.AddRow("meaning", stats.MeaningTokens)
		tbl.Print()

		return nil
	},
}
