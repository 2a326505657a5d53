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

	"github.com/valpere/tarjem/internal"
	"github.com/valpere/tarjem/internal/chunker"
	"github.com/valpere/tarjem/internal/detector"
	"github.com/valpere/tarjem/internal/language"
	"github.com/valpere/tarjem/internal/validator"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	splitLong  bool
	validate   bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text between the supported languages",
	Long: `Translate text with the configured generation backend and record the
result in the translation history.

The text is taken from the arguments, from --input, or from stdin.
Use --source auto to detect the source language (English, Arabic, French,
Spanish, German and Turkish can be detected).

A single request is limited to 5000 characters. With --split, longer input is
translated paragraph by paragraph in pieces that fit the limit.

Run "tarjem languages" for the list of language codes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text, err := readInput(args, inputFile)
		if err != nil {
			return err
		}

		ctx := context.Background()

		src := sourceLang
		if src == "auto" {
			src = language.DefaultSource
			if detected, ok := detector.New().DetectCode(text); ok {
				src = detected
				fmt.Fprintf(os.Stderr, "Detected source language: %s\n", language.SourceName(src))
			}
		}
		if err := checkLanguage(src); err != nil {
			return err
		}
		if err := checkLanguage(targetLang); err != nil {
			return err
		}

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

		rt.state.SetSourceLang(src)
		rt.state.SetTargetLang(targetLang)

		pieces := []string{text}
		if splitLong {
			pieces = chunker.Chunk(text, internal.MaxTextLength)
		}

		translated := make([]string, 0, len(pieces))
		for i, piece := range pieces {
			if len(pieces) > 1 {
				fmt.Fprintf(os.Stderr, "Translating part %d/%d\n", i+1, len(pieces))
			}
			rt.state.SetSourceText(piece)
			out, err := rt.state.Translate(ctx)
			if err != nil {
				return describeFailure(rt.state.Snapshot().Error, err)
			}
			translated = append(translated, out)
		}
		result := chunker.Join(translated)

		if validate {
			if err := validator.New().Check(result, targetLang); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}

		if err := writeOutput(outputFile, result); err != nil {
			return err
		}
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Successfully translated %s to %s\n", language.SourceName(src), language.TargetName(targetLang))
		}
		return nil
	},
}

func checkLanguage(code string) error {
	if _, ok := language.Lookup(code); !ok {
		return fmt.Errorf("unknown language code %q; run \"tarjem languages\"", code)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate (\"-\" for stdin)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (stdout when empty)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", language.DefaultSource, "Source language code, or \"auto\"")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", language.DefaultTarget, "Target language code")
	translateCmd.Flags().BoolVar(&splitLong, "split", false, "Translate text longer than the request limit in pieces")
	translateCmd.Flags().BoolVar(&validate, "validate", false, "Warn when the result does not look like the target language")
}
