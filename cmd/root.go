/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/tarjem/internal/config"
)

var version = "0.1.0"

var (
	v          = viper.New()
	cfg        *config.Config
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tarjem",
	Short: "Translation and spell-check assistant backed by a generative model",
	Long: `tarjem translates text between English, Arabic (Standard and Iraqi dialect),
Kurdish (Sorani, Badini, Kurmanji), French, Spanish, German and Turkish, and
corrects spelling and grammar, by prompting a generative language model.

The API key is kept in memory for the current session only. Supply it with
--api-key or TARJEM_API_KEY, or enter it when prompted.

Use "tarjem translate --help" for translation options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			v.Set("log.level", "debug")
		}
		loaded, err := config.Load(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	pf.String("api-key", "", "API key for the generation service (env TARJEM_API_KEY)")
	pf.String("provider", "gemini", "Generation backend: gemini, openai or ollama")
	pf.String("model", "", "Model name (backend default when empty)")
	pf.String("base-url", "", "Override the backend endpoint")
	pf.Bool("no-verify", false, "Skip the test call that verifies a new API key")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	_ = v.BindPFlag("api_key", pf.Lookup("api-key"))
	_ = v.BindPFlag("provider", pf.Lookup("provider"))
	_ = v.BindPFlag("model", pf.Lookup("model"))
	_ = v.BindPFlag("base_url", pf.Lookup("base-url"))
	_ = v.BindPFlag("no_verify", pf.Lookup("no-verify"))
}
