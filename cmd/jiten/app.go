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
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-jiten/index"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError

	// ExitCodeNoIndex is the exit code when no index has been built.
	ExitCodeNoIndex

	// ExitCodeCorruptIndex is the exit code when the index fails validation.
	ExitCodeCorruptIndex
)

// ErrJiten is a parent error for all command errors.
var ErrJiten = errors.New("jiten")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrJiten)

var copyrightNames = []string{
	"2025 Ian Lewis",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we don't use commands.
	//
	// This is done because `jiten --help foo` will display a
	// "command foo not found" error instead of the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// exitErr converts err into a cli error with the exit code for its kind.
func exitErr(err error) cli.ExitCoder {
	switch {
	case errors.Is(err, index.ErrNotFound):
		return cli.Exit(err, ExitCodeNoIndex)
	case errors.Is(err, index.ErrCorrupt):
		return cli.Exit(err, ExitCodeCorruptIndex)
	case errors.Is(err, index.ErrInvalidField):
		return cli.Exit(err, ExitCodeFlagParseError)
	default:
		return cli.Exit(err, ExitCodeUnknownError)
	}
}

// newLogger returns a logger for the command writing to the app's error
// writer. The --verbose flag lowers the level to debug.
func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
}

// setupColor applies the --color flag. In auto mode the color package
// detects non-terminal output and the NO_COLOR variable itself.
func setupColor(c *cli.Context) error {
	switch mode := c.String("color"); mode {
	case "auto":
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		return cli.Exit(fmt.Errorf("%w: invalid --color value %q", ErrFlagParse, mode), ExitCodeFlagParseError)
	}
	return nil
}

func newJitenApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Search Japanese-English dictionaries.",
		Description: strings.Join([]string{
			"Japanese-English dictionary search tool built on JMdict.",
			"https://github.com/ianlewis/go-jiten",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "read configuration from `FILE`",
				Aliases: []string{"c"},
			},
			&cli.StringFlag{
				Name:    "index",
				Usage:   "use the index in `DIR`",
				Aliases: []string{"i"},
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "colorize output (auto, always, never)",
				Value: "auto",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "enable verbose log output",
				Aliases: []string{"v"},
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return cli.Exit(fmt.Errorf("%w: %v", ErrFlagParse, err), ExitCodeFlagParseError)
		},
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			indexCommand,
			searchCommand,
			infoCommand,
			printConfigCommand,
		},
	}
}
