package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"prick/internal/demux"
	"prick/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the catalog and configured directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := isTerminal(out)
				fmt.Fprintf(out, "Config:    %s\n", ctx.configPath)
				fmt.Fprintf(out, "Backend:   %s\n", cfg.Scan.Backend)
				fmt.Fprintf(out, "Algorithm: %s\n", cfg.Scan.Algorithm)
				if !demux.FFmpegAvailable && cfg.Scan.Backend != string(demux.BackendIVF) {
					fmt.Fprintln(out, renderStatusLine("Demuxer", statusWarn, "built without libav; only .ivf files can be fingerprinted", colorize))
				}
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit check results as JSON")
	return cmd
}
