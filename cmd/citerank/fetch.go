// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/citerank/internal/history"
	"github.com/pdiddy/citerank/internal/rank"
	"github.com/pdiddy/citerank/internal/retrieval"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [query]",
	Short: "Retrieve citations for a query and print them ranked",
	Long: `Fetch asks the retrieval service for the citations behind a query,
ranks them and prints the display list. The service endpoint comes from
retrieval.endpoint and the key from .secrets/retrieval-api-key.

Use --save with an answer id to store the raw citation list in the
history database so it can be re-ranked, searched or exported later.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	topK, _ := cmd.Flags().GetInt("top-k")
	namespaces, _ := cmd.Flags().GetStringSlice("namespace")
	saveID, _ := cmd.Flags().GetString("save")
	answerFile, _ := cmd.Flags().GetString("answer")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	rk, err := newRanker(cfg)
	if err != nil {
		return err
	}
	client, err := retrieval.NewClient(cfg.Retrieval, nil, logger)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	cs, err := client.Retrieve(cmd.Context(), retrieval.Request{
		Query:      query,
		TopK:       topK,
		Namespaces: namespaces,
	})
	if err != nil {
		return err
	}

	if saveID != "" {
		answer, err := readText(answerFile)
		if err != nil {
			return err
		}
		if err := saveRecord(cmd, cfg.History, history.Record{
			ID:        saveID,
			Query:     query,
			Answer:    answer,
			CreatedAt: time.Now().UTC(),
			Citations: cs,
		}); err != nil {
			return err
		}
		logger.Info("saved answer", zap.String("id", saveID), zap.Int("citations", len(cs)))
	}

	out := rk.Rank(cs)
	w := cmd.OutOrStdout()
	if jsonOutput {
		return rank.FormatJSON(out, w)
	}
	fmt.Fprintf(w, "Query: %s\n\n", query)
	rk.FormatTable(out, w)
	return nil
}

func init() {
	fetchCmd.Flags().Int("top-k", 0, "citations to request (0 = use retrieval.top_k)")
	fetchCmd.Flags().StringSlice("namespace", nil, "restrict retrieval to these namespaces")
	fetchCmd.Flags().String("save", "", "store the citations in history under this answer id")
	fetchCmd.Flags().String("answer", "", "generated answer text file stored with --save")
	fetchCmd.Flags().Bool("json", false, "output ranked citations as JSON")

	rootCmd.AddCommand(fetchCmd)
}
