package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tanya-konstitusi/internal/engine"
)

func newTrainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train every configured model and write its cache bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.loadCorpus()
			if err != nil {
				return err
			}
			opts, err := a.loadOptions()
			if err != nil {
				return err
			}

			start := time.Now()
			if err := engine.TrainAll(cmd.Context(), a.cfg.CacheDir, a.cfg.Models, opts, c); err != nil {
				return fmt.Errorf("training failed: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, k := range a.cfg.Models {
				printOK(out, k.String(), "cached in "+engine.CacheDir(a.cfg.CacheDir, k))
			}
			printOK(out, "", fmt.Sprintf("%d records, %d models in %s",
				c.Len(), len(a.cfg.Models), time.Since(start).Round(time.Millisecond)))
			return nil
		},
	}
}
