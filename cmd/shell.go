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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/tarjem/internal/app"
	"github.com/valpere/tarjem/internal/export"
	"github.com/valpere/tarjem/internal/generator"
	"github.com/valpere/tarjem/internal/language"
	"github.com/valpere/tarjem/internal/orchestrator"
)

const shellHelp = `Type text and press Enter to translate it. Commands:
  :src <code>       set the source language
  :tgt <code>       set the target language
  :swap             swap languages and texts
  :check            spell-check the current source text
  :copy             copy the translation to the clipboard
  :history          show or hide the history
  :reuse <id>       load a history entry
  :delete <id>      delete a history entry
  :clear            clear the history
  :export <fmt> <file>  export the history (md, html or json)
  :key              enter a new API key
  :show             show the current state
  :help             show this help
  :quit             leave the shell`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive translation session",
	Long: `Start an interactive session that keeps the language selection, the
current texts and the API key in memory until you quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		return runShell(ctx, rt, os.Stdin, os.Stdout)
	},
}

func runShell(ctx context.Context, rt *appEnv, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, shellHelp)
	printStatus(out, rt.state.Snapshot())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			rt.state.SetSourceText(line)
			_, err := rt.state.Translate(ctx)
			if errors.Is(err, orchestrator.ErrBusy) {
				fmt.Fprintln(out, "A translation is already running.")
			}
			v := rt.state.Snapshot()
			printNotices(out, v)
			if generator.IsTransient(err) {
				fmt.Fprintln(out, retryHint)
			}
			if v.TranslatedText != "" {
				fmt.Fprintln(out, v.TranslatedText)
			}
			continue
		}

		fields := strings.Fields(line)
		if quit := shellCommand(ctx, rt, out, fields[0], fields[1:]); quit {
			return nil
		}
	}
}

// shellCommand runs one ":" command and reports whether the shell should exit.
func shellCommand(ctx context.Context, rt *appEnv, out io.Writer, name string, args []string) bool {
	s := rt.state
	switch name {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(out, shellHelp)
	case ":src", ":tgt":
		if len(args) != 1 || checkLanguage(args[0]) != nil {
			fmt.Fprintln(out, "Usage: "+name+" <code>; run \"tarjem languages\" for codes")
			return false
		}
		if name == ":src" {
			s.SetSourceLang(args[0])
		} else {
			s.SetTargetLang(args[0])
		}
		printStatus(out, s.Snapshot())
	case ":swap":
		s.Swap()
		printStatus(out, s.Snapshot())
	case ":check":
		before := s.Snapshot().SourceText
		corrected, err := s.SpellCheck(ctx)
		v := s.Snapshot()
		printNotices(out, v)
		if generator.IsTransient(err) {
			fmt.Fprintln(out, retryHint)
		}
		if err == nil && corrected {
			fmt.Fprintln(out, orchestrator.InlineDiff(before, v.SourceText))
		}
	case ":copy":
		if err := s.Copy(); err == nil && s.Snapshot().Copied {
			fmt.Fprintln(out, "Copied.")
		}
		printNotices(out, s.Snapshot())
	case ":history":
		v := s.Snapshot()
		if s.ToggleHistory() {
			printHistory(out, v)
		}
	case ":reuse":
		if len(args) != 1 || !s.Reuse(args[0]) {
			fmt.Fprintln(out, "Usage: :reuse <id> (see :history)")
			return false
		}
		printStatus(out, s.Snapshot())
	case ":delete":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: :delete <id>, or :delete @<timestamp>")
			return false
		}
		var err error
		if ts, ok := strings.CutPrefix(args[0], "@"); ok {
			n, perr := strconv.ParseInt(ts, 10, 64)
			if perr != nil {
				fmt.Fprintln(out, "Invalid timestamp:", ts)
				return false
			}
			err = s.DeleteHistoryAt(ctx, n)
		} else {
			err = s.DeleteHistory(ctx, args[0])
		}
		if err != nil {
			fmt.Fprintln(out, "History not saved:", err)
		}
	case ":clear":
		if err := s.ClearHistory(ctx); err != nil {
			fmt.Fprintln(out, "History not saved:", err)
		}
	case ":export":
		if len(args) != 2 {
			fmt.Fprintln(out, "Usage: :export <md|html|json> <file>")
			return false
		}
		format, err := export.ParseFormat(args[0])
		if err == nil {
			err = exportHistory(s.Snapshot().History, format, args[1])
		}
		if err != nil {
			fmt.Fprintln(out, err)
		}
	case ":key":
		key, err := promptSecret("API key: ")
		if err == nil {
			err = s.SaveAPIKey(ctx, key)
		}
		if err != nil {
			if msg := s.Snapshot().KeyError; msg != "" {
				fmt.Fprintln(out, msg)
			} else {
				fmt.Fprintln(out, err)
			}
			return false
		}
		fmt.Fprintln(out, "API key saved for this session.")
	case ":show":
		v := s.Snapshot()
		printStatus(out, v)
		fmt.Fprintf(out, "Source: %s\nTranslation: %s\n", v.SourceText, v.TranslatedText)
	default:
		fmt.Fprintf(out, "Unknown command %s; type :help\n", name)
	}
	return false
}

func printStatus(out io.Writer, v app.View) {
	key := "not set"
	if v.APIKeySet {
		key = "set"
	}
	fmt.Fprintf(out, "[%s → %s] API key %s\n", language.SourceName(v.SourceLang), language.TargetName(v.TargetLang), key)
}

func printNotices(out io.Writer, v app.View) {
	if v.Error != "" {
		fmt.Fprintln(out, "! "+v.Error)
	}
	if v.Success != "" {
		fmt.Fprintln(out, "✓ "+v.Success)
	}
}

func printHistory(out io.Writer, v app.View) {
	if len(v.History) == 0 {
		fmt.Fprintln(out, "History is empty.")
		return
	}
	for _, e := range v.History {
		fmt.Fprintf(out, "%s  %s  %s → %s  %s => %s\n",
			e.ID, e.Time().Format("2006-01-02 15:04"), e.SourceLang, e.TargetLang,
			snippet(e.SourceText, 30), snippet(e.TranslatedText, 30))
	}
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
