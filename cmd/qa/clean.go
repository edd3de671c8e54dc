package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tanya-konstitusi/internal/engine"
)

func newCleanCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every cached model (keeps .gitignore)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "Delete everything in %s? [N/y] ", a.cfg.CacheDir)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					printSkip(out, "", "nothing deleted")
					return nil
				}
			}

			removed, err := engine.Clean(a.cfg.CacheDir)
			if err != nil {
				return err
			}
			printOK(out, "", fmt.Sprintf("removed %d entries from %s", len(removed), a.cfg.CacheDir))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
