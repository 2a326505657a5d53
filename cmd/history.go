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
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/valpere/tarjem/internal/export"
	"github.com/valpere/tarjem/internal/history"
)

var (
	historySearch   string
	historyLimit    int
	deleteTimestamp int64
	exportFormat    string
	exportOutput    string
	clearConfirmed  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the translation history",
	Long: `List, inspect, delete and export past translations.

The history keeps the 50 most recent translations, newest first.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildHistory(context.Background())
		if err != nil {
			return err
		}
		defer rt.Close()

		entries := rt.history.Search(historySearch)
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}

		if len(entries) == 0 {
			fmt.Println("No entries in history.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tSOURCE\tTARGET\tTEXT\tTRANSLATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.Time().Format("2006-01-02 15:04"),
				e.SourceLang, e.TargetLang,
				snippet(e.SourceText, 30), snippet(e.TranslatedText, 30))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one history entry in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildHistory(context.Background())
		if err != nil {
			return err
		}
		defer rt.Close()

		e, ok := rt.history.Get(args[0])
		if !ok {
			return fmt.Errorf("history entry not found: %s", args[0])
		}

		fmt.Printf("ID:        %s\n", e.ID)
		fmt.Printf("Timestamp: %d (%s)\n", e.Timestamp, export.FormatTime(e.Timestamp))
		fmt.Printf("From:      %s (%s)\n", e.SourceLangName, e.SourceLang)
		fmt.Printf("To:        %s (%s)\n", e.TargetLangName, e.TargetLang)
		fmt.Printf("\n%s\n\n%s\n", e.SourceText, e.TranslatedText)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a history entry by ID, or every entry at --timestamp",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		byTimestamp := cmd.Flags().Changed("timestamp")
		if byTimestamp == (len(args) == 1) {
			return fmt.Errorf("give either an entry ID or --timestamp")
		}

		ctx := context.Background()
		rt, err := buildHistory(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		before := rt.history.Len()
		if byTimestamp {
			err = rt.history.RemoveTimestamp(ctx, deleteTimestamp)
		} else {
			err = rt.history.Remove(ctx, args[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("Deleted %d entries\n", before-rt.history.Len())
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearConfirmed {
			return fmt.Errorf("this deletes the whole history; pass --yes to confirm")
		}

		ctx := context.Background()
		rt, err := buildHistory(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		n := rt.history.Len()
		if err := rt.history.Clear(ctx); err != nil {
			return err
		}
		fmt.Printf("Cleared %d entries\n", n)
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history as Markdown, HTML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		rt, err := buildHistory(context.Background())
		if err != nil {
			return err
		}
		defer rt.Close()

		return exportHistory(rt.history.List(), format, exportOutput)
	},
}

func exportHistory(entries []history.Entry, format export.Format, path string) error {
	if path == "" {
		return export.Write(os.Stdout, entries, format)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export.Write(f, entries, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(entries), path)
	return nil
}

// snippet shortens s to at most n runes on a single line.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd, historyExportCmd)

	historyListCmd.Flags().StringVar(&historySearch, "search", "", "Only entries whose text contains this")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show at most this many entries")

	historyDeleteCmd.Flags().Int64Var(&deleteTimestamp, "timestamp", 0, "Delete every entry recorded at this unix-millisecond timestamp")

	historyClearCmd.Flags().BoolVarP(&clearConfirmed, "yes", "y", false, "Confirm clearing the history")

	historyExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format: md, html or json")
	historyExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (stdout when empty)")
}
