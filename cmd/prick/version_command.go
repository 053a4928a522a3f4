package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prick/internal/fingerprint"
)

// buildVersion is overridden at link time with -ldflags "-X main.buildVersion=...".
var buildVersion = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the prick and fingerprint scheme versions",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "prick %s (fingerprint scheme v%d)\n", buildVersion, fingerprint.Version)
			return nil
		},
	}
}
