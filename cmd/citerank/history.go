// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citerank/internal/history"
	"github.com/pdiddy/citerank/internal/rank"
	"github.com/pdiddy/citerank/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored answers and their citations (save, show, list, search, export, delete)",
	Long: `History keeps the raw citation list of each answer in a local SQLite
database under history.data_dir. Citations are stored in their original
order, so showing a stored answer ranks it again with the same display
numbers. Citation text is indexed with FTS5 for search.`,
}

// --- save subcommand ---

var historySaveCmd = &cobra.Command{
	Use:   "save <id> [file]",
	Short: "Store a citation list under an answer id",
	Long: `Save reads a citation list the same way rank does and stores it under
id. Saving an existing id replaces the previous record.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runHistorySave,
}

func runHistorySave(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	answerFile, _ := cmd.Flags().GetString("answer")

	path := ""
	if len(args) > 1 {
		path = args[1]
	}
	cs, err := readCitations(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	answer, err := readText(answerFile)
	if err != nil {
		return err
	}

	rec := history.Record{
		ID:        args[0],
		Query:     query,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
		Citations: cs,
	}
	if err := saveRecord(cmd, loadConfig().History, rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d citations)\n", rec.ID, len(cs))
	return nil
}

func saveRecord(cmd *cobra.Command, cfg types.HistoryConfig, rec history.Record) error {
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(cmd.Context(), rec)
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Rank and print a stored answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	rk, err := newRanker(cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return notFoundHint(err, args[0])
	}

	out := rk.Rank(rec.Citations)
	w := cmd.OutOrStdout()
	if jsonOutput {
		return rank.FormatJSON(out, w)
	}

	fmt.Fprintf(w, "Answer %s", rec.ID)
	if rec.Query != "" {
		fmt.Fprintf(w, ": %s", rec.Query)
	}
	fmt.Fprintf(w, "\nSaved %s\n\n", rec.CreatedAt.Format(time.RFC3339))
	rk.FormatTable(out, w)
	if rec.Answer != "" {
		writeMarkers(rank.ResolveMarkers(rec.Answer, out.Citations), w)
	}
	return nil
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored answers, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := history.Open(loadConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	sums, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		if sums == nil {
			sums = []history.Summary{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}

	if len(sums) == 0 {
		fmt.Fprintln(w, "No stored answers.")
		return nil
	}
	fmt.Fprintf(w, "%-24s  %-20s  %-9s  %s\n", "ID", "Saved", "Citations", "Query")
	for _, s := range sums {
		fmt.Fprintf(w, "%-24s  %-20s  %-9d  %s\n",
			truncateCell(s.ID, 24), s.CreatedAt.Format("2006-01-02 15:04:05"), s.CitationCount, s.Query)
	}
	return nil
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over stored citation text",
	Long: `Search runs an FTS5 query over the text of every stored citation. Each
hit reports the answer id and the citation's display number in that answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := history.Open(loadConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.Search(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		if hits == nil {
			hits = []history.Hit{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s [%d] %s  %s\n", h.AnswerID, h.Index+1, h.Namespace, h.Snippet)
	}
	fmt.Fprintf(w, "\n%d results\n", len(hits))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export the ranked view of a stored answer as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	cfg := loadConfig()
	rk, err := newRanker(cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	if output == "" || output == "-" {
		return notFoundHint(store.Export(cmd.Context(), args[0], format, rk, cmd.OutOrStdout()), args[0])
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := store.Export(cmd.Context(), args[0], format, rk, f); err != nil {
		f.Close()
		os.Remove(output)
		return notFoundHint(err, args[0])
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", args[0], output)
	return nil
}

// --- delete subcommand ---

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a stored answer and its citations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(loadConfig().History)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return notFoundHint(err, args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

// --- shared helpers ---

// notFoundHint rewrites history.ErrNotFound into a message naming id.
func notFoundHint(err error, id string) error {
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("no stored answer with id %q (see 'citerank history list'): %w", id, err)
	}
	return err
}

func truncateCell(s string, max int) string {
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max-3]) + "..."
}

func init() {
	historySaveCmd.Flags().String("query", "", "query the citations were retrieved for")
	historySaveCmd.Flags().String("answer", "", "generated answer text file stored with the citations")

	historyShowCmd.Flags().Bool("json", false, "output ranked citations as JSON")

	historyListCmd.Flags().Int("limit", 0, "maximum answers to list (0 = history.max_results)")
	historyListCmd.Flags().Bool("json", false, "output as JSON")

	historySearchCmd.Flags().Int("limit", 0, "maximum hits (0 = history.max_results)")
	historySearchCmd.Flags().Bool("json", false, "output hits as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("output", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historySaveCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
