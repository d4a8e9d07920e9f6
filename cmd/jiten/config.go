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
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/urfave/cli/v2"
)

// defaultJMdictURL is the JMdict distribution file with English glosses.
const defaultJMdictURL = "https://ftp.monash.edu/pub/nihongo/JMdict_e.gz"

// config is the resolved jiten configuration. Values resolve in order:
// command line flags, environment variables, the config file, and built-in
// defaults.
type config struct {
	Index struct {
		// Path is the index directory.
		Path string `toml:"path" env:"JITEN_INDEX"`
	} `toml:"index"`

	JMdict struct {
		// Path is the JMdict XML file, plain or gzip compressed.
		Path string `toml:"path" env:"JITEN_JMDICT"`

		// URL is where the index command downloads JMdict from.
		URL string `toml:"url" env:"JITEN_JMDICT_URL"`
	} `toml:"jmdict"`
}

// loadConfig loads the configuration for a command. A config file named
// with --config must exist. The default config file may be absent, in
// which case only the environment is read.
func loadConfig(c *cli.Context) (*config, error) {
	var cfg config

	path := c.String("config")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%w: reading config %s: %v", ErrJiten, path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("%w: config %s: %v", ErrJiten, path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%w: reading environment: %v", ErrJiten, err)
		}
	}

	if dir := c.String("index"); dir != "" {
		cfg.Index.Path = dir
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = filepath.Join(defaultDataDir(), "index")
	}
	if cfg.JMdict.URL == "" {
		cfg.JMdict.URL = defaultJMdictURL
	}

	return &cfg, nil
}
