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

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
)

// printConfigCommand prints the configuration after resolution, primarily
// for debugging.
var printConfigCommand = &cli.Command{
	Name:  "print-config",
	Usage: "Print the resolved configuration",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "jmdict-path",
			Usage: "override the JMdict `FILE`",
		},
		&cli.StringFlag{
			Name:  "jmdict-url",
			Usage: "override the JMdict `URL`",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return exitErr(err)
		}

		if path := c.String("jmdict-path"); path != "" {
			cfg.JMdict.Path = path
		}
		if url := c.String("jmdict-url"); url != "" {
			cfg.JMdict.URL = url
		}

		if err := toml.NewEncoder(c.App.Writer).Encode(cfg); err != nil {
			return exitErr(fmt.Errorf("%w: encoding config: %v", ErrJiten, err))
		}
		return nil
	},
}
