package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prick/internal/catalog"
	"prick/internal/fingerprint"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		match   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			alg, err := fingerprint.ParseAlgorithm(cfg.Scan.Algorithm)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *catalog.Store) error {
				var entries []catalog.Entry
				if match != "" {
					entries, err = store.ListByFingerprint(cmd.Context(), alg, strings.ToLower(strings.TrimSpace(match)))
				} else {
					entries, err = store.List(cmd.Context())
				}
				if err != nil {
					return err
				}
				if jsonOut {
					if entries == nil {
						entries = []catalog.Entry{}
					}
					return writeJSON(cmd, entries)
				}

				w := cmd.OutOrStdout()
				if len(entries) == 0 {
					if match != "" {
						fmt.Fprintf(w, "No entries with fingerprint %s\n", match)
						return nil
					}
					fmt.Fprintln(w, "Catalog is empty")
					return nil
				}
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Path,
						fmt.Sprint(e.StreamCount),
						humanBytes(e.Size),
						string(e.Algorithm),
						shortHex(e.Fingerprint),
						humanAgo(e.ScannedAt),
					})
				}
				fmt.Fprintln(w, renderTable(tableSpec{
					headers: []string{"Path", "Streams", "Size", "Algorithm", "Fingerprint", "Scanned"},
					rows:    rows,
					aligns:  []columnAlignment{alignLeft, alignRight, alignRight},
					footer: []string{
						fmt.Sprintf("%s %s", groupedInt(int64(stats.Entries)), pluralize(stats.Entries, "entry", "entries")),
						"",
						humanBytes(stats.TotalSize),
						"",
						fmt.Sprintf("%d duplicate %s", stats.DuplicateGroups, pluralize(stats.DuplicateGroups, "group", "groups")),
						"",
					},
				}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit entries as JSON")
	cmd.Flags().StringVarP(&match, "fingerprint", "f", "", "Only list entries with this fingerprint (hex, scan.algorithm)")
	return cmd
}
