package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tanya-konstitusi/internal/engine"
	"tanya-konstitusi/internal/retrieval"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		model   string
		numRank int
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Rank the corpus for a question with a cached model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := retrieval.ParseKind(model)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("num-rank") {
				numRank = a.cfg.NumRank
			}

			m, err := engine.Load(cmd.Context(), a.cfg.CacheDir, kind)
			if err != nil {
				return fmt.Errorf("cannot load %s model (run `qa train` first): %w", kind, err)
			}

			question := strings.Join(args, " ")
			results, err := m.Ask(cmd.Context(), question, numRank)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tINDEX\tSCORE\tRESPONSE")
			for i, r := range results {
				fmt.Fprintf(tw, "%d\t%d\t%.4f\t%s\n", i+1, r.Index, r.Similarity, r.Record.Response)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", retrieval.TFIDF.String(), "Model to ask: tfidf, word2vec or doc2vec")
	cmd.Flags().IntVarP(&numRank, "num-rank", "n", 0, "Number of answers (default $NUM_RANK)")
	return cmd
}
