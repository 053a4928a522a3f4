package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prick/internal/catalog"
)

type dupeGroupJSON struct {
	catalog.DuplicateGroup
	Sizes []int64 `json:"sizes"`
}

func newDupesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "List catalog entries that share a fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				groups, err := store.Duplicates(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					out := make([]dupeGroupJSON, 0, len(groups))
					for _, g := range groups {
						out = append(out, dupeGroupJSON{DuplicateGroup: g, Sizes: fileSizes(g.Paths)})
					}
					return writeJSON(cmd, out)
				}

				w := cmd.OutOrStdout()
				if len(groups) == 0 {
					fmt.Fprintln(w, "No duplicates found")
					return nil
				}

				var (
					rows   [][]string
					files  int
					wasted int64
				)
				for i, g := range groups {
					sizes := fileSizes(g.Paths)
					for j, path := range g.Paths {
						files++
						if j > 0 {
							wasted += sizes[j]
						}
						rows = append(rows, []string{
							fmt.Sprint(i + 1),
							shortHex(g.Fingerprint),
							path,
							humanBytes(sizes[j]),
						})
					}
				}
				fmt.Fprintln(w, renderTable(tableSpec{
					headers: []string{"#", "Fingerprint", "Path", "Size"},
					rows:    rows,
					aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
					footer: []string{"", "",
						fmt.Sprintf("%s %s in %s %s", groupedInt(int64(files)), pluralize(files, "file", "files"),
							groupedInt(int64(len(groups))), pluralize(len(groups), "group", "groups")),
						humanBytes(wasted) + " redundant"},
					merge: []int{1, 2},
				}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit duplicate groups as JSON")
	return cmd
}

// fileSizes stats each path; missing files report zero.
func fileSizes(paths []string) []int64 {
	sizes := make([]int64, len(paths))
	for i, path := range paths {
		if info, err := os.Stat(path); err == nil {
			sizes[i] = info.Size()
		}
	}
	return sizes
}
