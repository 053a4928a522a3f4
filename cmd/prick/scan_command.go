package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"prick/internal/catalog"
	"prick/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "scan PATH...",
		Short: "Fingerprint files and directories into the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				scanner, err := ctx.newScanner(store)
				if err != nil {
					return err
				}

				var bar *scanProgress
				if !jsonOut {
					bar = newScanProgress(cmd.ErrOrStderr(), 0)
				}
				summary, runErr := scanner.Run(cmd.Context(), args, bar.update)
				bar.finish()
				if runErr != nil && !errors.Is(runErr, context.Canceled) {
					return runErr
				}

				if jsonOut {
					if err := writeJSON(cmd, scanJSON(summary)); err != nil {
						return err
					}
				} else {
					printScanSummary(cmd, summary)
				}
				if runErr != nil {
					return runErr
				}
				if summary.Failed > 0 {
					return fmt.Errorf("%d %s failed", summary.Failed, pluralize(summary.Failed, "file", "files"))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the scan summary as JSON")
	return cmd
}

type scanFailureJSON struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type scanSummaryJSON struct {
	scan.Summary
	DurationSeconds float64           `json:"duration_seconds"`
	Failures        []scanFailureJSON `json:"failures,omitempty"`
}

func scanJSON(summary scan.Summary) scanSummaryJSON {
	out := scanSummaryJSON{Summary: summary, DurationSeconds: summary.Duration.Seconds()}
	for _, f := range summary.Failures {
		out.Failures = append(out.Failures, scanFailureJSON{Path: f.Path, Error: f.Err.Error()})
	}
	return out
}

func printScanSummary(cmd *cobra.Command, summary scan.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scan %s\n", summary.ScanID)
	fmt.Fprintf(out, "  Files:   %s\n", groupedInt(int64(summary.Files)))
	fmt.Fprintf(out, "  Hashed:  %s (%s, %s bytes)\n",
		groupedInt(int64(summary.Hashed)), humanBytes(summary.BytesHashed), groupedInt(summary.BytesHashed))
	fmt.Fprintf(out, "  Skipped: %s unchanged\n", groupedInt(int64(summary.Skipped)))
	fmt.Fprintf(out, "  Failed:  %s\n", groupedInt(int64(summary.Failed)))
	fmt.Fprintf(out, "  Elapsed: %s\n", summary.Duration.Round(time.Millisecond))
	for _, f := range summary.Failures {
		fmt.Fprintf(out, "    %s: %v\n", f.Path, f.Err)
	}
}
