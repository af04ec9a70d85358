// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citerank/internal/rank"
	"github.com/pdiddy/citerank/pkg/types"
)

// --- rank command ---

var rankCmd = &cobra.Command{
	Use:   "rank [file]",
	Short: "Filter and order a citation list for display",
	Long: `Rank reads the citation records for one answer (JSON, or YAML when the
file ends in .yaml/.yml; stdin when no file or "-" is given), drops
placeholder, bare QA and duplicate records, and prints the survivors in
display order. Numbers in brackets are the original positions.

Use --answer to check the [n] markers in the generated answer against the
displayed citations, and --sections to group output by source kind.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	bySection, _ := cmd.Flags().GetBool("sections")
	answerFile, _ := cmd.Flags().GetString("answer")

	rk, err := newRanker(loadConfig())
	if err != nil {
		return err
	}

	cs, err := readCitations(argOrEmpty(args), cmd.InOrStdin())
	if err != nil {
		return err
	}
	answer, err := readText(answerFile)
	if err != nil {
		return err
	}

	out := rk.Rank(cs)
	var markers []rank.Marker
	if answer != "" {
		markers = rank.ResolveMarkers(answer, out.Citations)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return writeRankJSON(rk, out, bySection, markers, w)
	}

	if bySection {
		writeSections(rk, out, w)
	} else {
		rk.FormatTable(out, w)
	}
	if answer != "" {
		writeMarkers(markers, w)
	}
	return nil
}

type rankReport struct {
	rank.Output
	Sections []rank.Section `json:"sections,omitempty"`
	Markers  []rank.Marker  `json:"markers,omitempty"`
}

func writeRankJSON(rk *rank.Ranker, out rank.Output, bySection bool, markers []rank.Marker, w io.Writer) error {
	if len(markers) == 0 && !bySection {
		return rank.FormatJSON(out, w)
	}
	rep := rankReport{Output: out, Markers: markers}
	if rep.Citations == nil {
		rep.Citations = []types.RankedCitation{}
	}
	if bySection {
		rep.Sections = rk.Sections(out.Citations)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func writeSections(rk *rank.Ranker, out rank.Output, w io.Writer) {
	sections := rk.Sections(out.Citations)
	if len(sections) == 0 {
		fmt.Fprintln(w, "No citations to display.")
	}
	clf := rk.Classifier()
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", sec.Kind, len(sec.Citations))
		for _, rc := range sec.Citations {
			marker := " "
			if rc.Citation.IsDirect() {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s[%d] %s\n", marker, rc.Number(), clf.Resolve(rc.Citation).Title())
		}
	}
	fmt.Fprintf(w, "\n%d of %d citations\n", out.Summary.Kept, out.Summary.Input)
}

func writeMarkers(markers []rank.Marker, w io.Writer) {
	if len(markers) == 0 {
		fmt.Fprintln(w, "\nNo citation markers found in answer.")
		return
	}
	unresolved := 0
	for _, m := range markers {
		if !m.Resolved() {
			unresolved++
		}
	}
	fmt.Fprintf(w, "\n%d marker(s), %d unresolved\n", len(markers), unresolved)
	for _, m := range markers {
		if !m.Resolved() {
			fmt.Fprintf(w, "  [%d] at offset %d points at no displayed citation\n", m.Number, m.Offset)
		}
	}
}

// --- classify command ---

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Print the source type of each citation without filtering",
	Long: `Classify reads a citation list the same way rank does and prints the
source type, display section and label of every record in original
order. Nothing is dropped, which makes it useful for checking registry
coverage of new namespaces.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

type classification struct {
	Number    int              `json:"number"`
	Type      types.SourceType `json:"type"`
	Section   rank.SectionKind `json:"section"`
	Title     string           `json:"title"`
	Namespace string           `json:"namespace,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	rk, err := newRanker(loadConfig())
	if err != nil {
		return err
	}
	cs, err := readCitations(argOrEmpty(args), cmd.InOrStdin())
	if err != nil {
		return err
	}

	clf := rk.Classifier()
	results := make([]classification, len(cs))
	for i, c := range cs {
		src := clf.Resolve(c)
		results[i] = classification{
			Number:    i + 1,
			Type:      src.Type(),
			Section:   rank.SectionFor(src.Type()),
			Title:     src.Title(),
			Namespace: c.Namespace,
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No citations.")
		return nil
	}
	fmt.Fprintf(w, "%-4s  %-13s  %-10s  %-30s  %s\n", "No.", "Type", "Section", "Namespace", "Title")
	for _, r := range results {
		fmt.Fprintf(w, "[%-2d]  %-13s  %-10s  %-30s  %s\n", r.Number, r.Type, r.Section, r.Namespace, r.Title)
	}
	return nil
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	rankCmd.Flags().Bool("json", false, "output ranked citations as JSON")
	rankCmd.Flags().Bool("sections", false, "group output by display section")
	rankCmd.Flags().String("answer", "", "generated answer text file whose [n] markers are checked")

	classifyCmd.Flags().Bool("json", false, "output classifications as JSON")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(classifyCmd)
}
