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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/tarjem/internal/app"
	"github.com/valpere/tarjem/internal/orchestrator"
)

var (
	checkInput  string
	checkOutput string
	checkLang   string
	showDiff    bool
)

var spellcheckCmd = &cobra.Command{
	Use:   "spellcheck [text]",
	Short: "Correct spelling and grammar",
	Long: `Correct spelling and grammar mistakes in text written in the source language.

The corrected text is printed to stdout (or --output). With --diff, the list of
changes is printed to stderr as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args, checkInput)
		if err != nil {
			return err
		}
		if err := checkLanguage(checkLang); err != nil {
			return err
		}

		ctx := context.Background()

		rt, err := buildApp()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.state.Start(ctx); err != nil {
			return err
		}
		if err := authenticate(ctx, rt); err != nil {
			return err
		}

		rt.state.SetSourceLang(checkLang)
		rt.state.SetSourceText(text)

		corrected, err := rt.state.SpellCheck(ctx)
		if err != nil {
			return describeFailure(rt.state.Snapshot().Error, err)
		}

		result := rt.state.Snapshot().SourceText
		if showDiff && corrected {
			for _, c := range orchestrator.Changes(text, result) {
				fmt.Fprintf(os.Stderr, "  %s\n", c)
			}
		}
		if corrected {
			fmt.Fprintln(os.Stderr, app.MsgCorrected)
		} else {
			fmt.Fprintln(os.Stderr, app.MsgAlreadyCorrect)
		}
		return writeOutput(checkOutput, result)
	},
}

func init() {
	rootCmd.AddCommand(spellcheckCmd)

	spellcheckCmd.Flags().StringVarP(&checkInput, "input", "i", "", "Input file to check (\"-\" for stdin)")
	spellcheckCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Output file (stdout when empty)")
	spellcheckCmd.Flags().StringVarP(&checkLang, "source", "s", "en", "Language of the text")
	spellcheckCmd.Flags().BoolVar(&showDiff, "diff", false, "Print the individual corrections")
}
