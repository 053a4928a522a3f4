package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"prick/internal/catalog"
	"prick/internal/scan"
)

type verifyJSON struct {
	scan.Verification
	Error string `json:"error,omitempty"`
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "verify [PATH...]",
		Short: "Recompute fingerprints and compare them with the catalog",
		Long:  "Recompute fingerprints and compare them with the catalog. Without arguments every catalog entry is verified; directories are expanded like scan does. Exits non-zero when any file changed, vanished or could not be read.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				scanner, err := ctx.newScanner(store)
				if err != nil {
					return err
				}

				paths := make([]string, 0, len(args))
				for _, arg := range args {
					abs, err := filepath.Abs(arg)
					if err != nil {
						return fmt.Errorf("resolve %s: %w", arg, err)
					}
					paths = append(paths, abs)
				}

				results, err := scanner.Verify(cmd.Context(), paths)
				if err != nil {
					return err
				}

				failed := 0
				for _, v := range results {
					if v.Failed() {
						failed++
					}
				}

				if jsonOut {
					out := make([]verifyJSON, 0, len(results))
					for _, v := range results {
						item := verifyJSON{Verification: v}
						if v.Err != nil {
							item.Error = v.Err.Error()
						}
						out = append(out, item)
					}
					if err := writeJSON(cmd, out); err != nil {
						return err
					}
				} else {
					w := cmd.OutOrStdout()
					colorize := isTerminal(w)
					for _, v := range results {
						if quiet && !v.Failed() {
							continue
						}
						fmt.Fprintln(w, renderVerification(v, colorize))
					}
					fmt.Fprintf(w, "%s verified, %s failed\n", groupedInt(int64(len(results))), groupedInt(int64(failed)))
				}

				if failed > 0 {
					return fmt.Errorf("verification failed for %d %s", failed, pluralize(failed, "file", "files"))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print files that failed")
	return cmd
}
