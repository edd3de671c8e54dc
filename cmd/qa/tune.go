package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tanya-konstitusi/internal/eval"
	"tanya-konstitusi/internal/retrieval"
)

func newTuneCmd(a *app) *cobra.Command {
	var (
		model   string
		param   string
		from    int
		to      int
		workers int
	)

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Sweep one embedding option and count top-1 self-retrievals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := retrieval.ParseKind(model)
			if err != nil {
				return err
			}
			p, err := eval.ParseParam(param)
			if err != nil {
				return err
			}
			c, err := a.loadCorpus()
			if err != nil {
				return err
			}
			base, err := a.loadOptions()
			if err != nil {
				return err
			}

			points, err := eval.Tune(cmd.Context(), eval.Sweep{
				Kind:    kind,
				Param:   p,
				From:    from,
				To:      to,
				Base:    base,
				Workers: workers,
			}, c)
			if err != nil {
				return err
			}

			best := points[0]
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\tCORRECT\n", p)
			for _, pt := range points {
				fmt.Fprintf(tw, "%d\t%d/%d\n", pt.Value, pt.Correct, c.Len())
				if pt.Correct > best.Correct {
					best = pt
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), kind.String(), fmt.Sprintf("best %s=%d (%d correct)", p, best.Value, best.Correct))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&model, "model", "m", retrieval.Doc2Vec.String(), "Model to tune: word2vec or doc2vec")
	f.StringVarP(&param, "param", "p", string(eval.ParamVectorSize), "Option to sweep: vector_size or epochs")
	f.IntVar(&from, "from", 10, "First value of the sweep")
	f.IntVar(&to, "to", 100, "Last value of the sweep")
	f.IntVarP(&workers, "workers", "w", 0, "Parallel trainings (default number of CPUs)")
	return cmd
}
