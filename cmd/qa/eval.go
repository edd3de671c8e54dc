package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tanya-konstitusi/internal/engine"
	"tanya-konstitusi/internal/eval"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		questionsPath string
		numRank       int
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Report MRR and top-1 hits of every cached model",
		Long: `eval asks question i of the set and looks for corpus record i in the
answers. Without --questions the set is the Context column of the cached
corpus, so the report measures self-retrieval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("num-rank") {
				numRank = a.cfg.NumRank
			}

			var questions []string
			if questionsPath != "" {
				var err error
				if questions, err = readQuestions(questionsPath); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tQUESTIONS\tMRR\tTOP1")
			for _, k := range a.cfg.Models {
				m, err := engine.Load(ctx, a.cfg.CacheDir, k)
				if err != nil {
					printWarn(cmd.ErrOrStderr(), k.String(), "not loaded: "+err.Error())
					continue
				}

				qs := questions
				if qs == nil {
					c := m.Corpus()
					qs = make([]string, c.Len())
					for i := range qs {
						qs[i] = c.Record(i).Context
					}
				}

				ranks, err := eval.Ranks(ctx, m, qs, numRank)
				if err != nil {
					return fmt.Errorf("%s: %w", k, err)
				}
				hist := eval.Histogram(ranks)
				fmt.Fprintf(tw, "%s\t%d\t%.4f\t%d\n", k, len(qs), eval.MeanReciprocal(ranks), hist[0])
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&questionsPath, "questions", "q", "", "JSON array of questions; question i is answered by record i")
	cmd.Flags().IntVarP(&numRank, "num-rank", "n", 0, "Answers inspected per question (default $NUM_RANK)")
	return cmd
}

func readQuestions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read questions %s: %w", path, err)
	}
	var questions []string
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("questions %s must be a JSON array of strings: %w", path, err)
	}
	return questions, nil
}
