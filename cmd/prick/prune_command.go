package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"prick/internal/catalog"
)

// fileExists treats anything other than a definite not-exist as present so
// transient errors never drop catalog rows.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove catalog entries whose files no longer exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				exists := fileExists
				var removed []string
				if dryRun {
					// Report without deleting.
					exists = func(path string) bool {
						if !fileExists(path) {
							removed = append(removed, path)
						}
						return true
					}
				}
				pruned, err := store.Prune(cmd.Context(), exists)
				if err != nil {
					return err
				}
				if !dryRun {
					removed = pruned
				}

				w := cmd.OutOrStdout()
				verb := "Removed"
				if dryRun {
					verb = "Would remove"
				}
				for _, path := range removed {
					fmt.Fprintf(w, "%s %s\n", verb, path)
				}
				fmt.Fprintf(w, "%s %s %s\n", verb, groupedInt(int64(len(removed))), pluralize(len(removed), "entry", "entries"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only list entries that would be removed")
	return cmd
}
