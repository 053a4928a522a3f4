package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"prick/internal/demux"
	"prick/internal/fingerprint"
	"prick/internal/scan"
)

type hashOutput struct {
	Path        string             `json:"path"`
	Algorithm   string             `json:"algorithm"`
	Version     int                `json:"version"`
	Fingerprint string             `json:"fingerprint,omitempty"`
	Streams     []string           `json:"streams,omitempty"`
	StreamInfo  []demux.StreamInfo `json:"stream_info,omitempty"`
	BytesHashed int64              `json:"bytes_hashed,omitempty"`
	Packets     int64              `json:"packets,omitempty"`
	Error       string             `json:"error,omitempty"`
}

func newHashCommand(ctx *commandContext) *cobra.Command {
	var (
		showStreams bool
		jsonOut     bool
		algorithm   string
		backend     string
	)

	cmd := &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print content fingerprints for media files",
		Long: "Print the content fingerprint of each file in sha256sum layout. " +
			"The fingerprint covers packet payloads only, so container metadata edits and remuxes do not change it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if algorithm != "" {
				alg, err := fingerprint.ParseAlgorithm(algorithm)
				if err != nil {
					return err
				}
				cfg.Scan.Algorithm = alg.String()
			}
			if backend != "" {
				b, err := demux.ParseBackend(backend)
				if err != nil {
					return err
				}
				cfg.Scan.Backend = string(b)
			}

			scanner, err := ctx.newScanner(nil)
			if err != nil {
				return err
			}
			open, err := sourceFactory(cfg.Scan.Backend)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var bar *fileProgress
			if !jsonOut {
				bar = newFileProgress(cmd.ErrOrStderr())
			}

			var (
				results []hashOutput
				failed  int
			)
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					path = arg
				}
				res, err := scanner.Fingerprint(cmd.Context(), path, bar.update)
				bar.finish()
				if err != nil {
					if cmd.Context().Err() != nil {
						return cmd.Context().Err()
					}
					failed++
					results = append(results, hashOutput{Path: arg, Algorithm: scanner.Algorithm().String(), Version: fingerprint.Version, Error: err.Error()})
					if !jsonOut {
						fmt.Fprintf(cmd.ErrOrStderr(), "prick: %s: %v\n", arg, err)
					}
					continue
				}

				entry := hashOutput{
					Path:        arg,
					Algorithm:   res.Algorithm.String(),
					Version:     fingerprint.Version,
					Fingerprint: res.Hex(),
					BytesHashed: res.BytesHashed,
					Packets:     res.Packets,
				}
				if showStreams || jsonOut {
					entry.Streams = res.StreamHex()
					entry.StreamInfo = describeStreams(open, path)
				}
				results = append(results, entry)

				if jsonOut {
					continue
				}
				fmt.Fprintf(out, "%s  %s\n", entry.Fingerprint, arg)
				if showStreams {
					for i, hex := range entry.Streams {
						if i < len(entry.StreamInfo) {
							si := entry.StreamInfo[i]
							fmt.Fprintf(out, "  stream %d  %s  %s/%s\n", i, hex, si.MediaType, si.Codec)
							continue
						}
						fmt.Fprintf(out, "  stream %d  %s\n", i, hex)
					}
				}
			}

			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d %s could not be fingerprinted", failed, len(args), pluralize(len(args), "file", "files"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStreams, "streams", false, "Also print per-stream digests")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Stream hash to use (sha256 or blake3); overrides scan.algorithm")
	cmd.Flags().StringVar(&backend, "backend", "", "Demuxer to use (auto, ffmpeg or ivf); overrides scan.backend")
	return cmd
}

// describeStreams reopens path to report codec details. Sources that cannot
// describe their streams yield nil.
func describeStreams(open scan.SourceFactory, path string) []demux.StreamInfo {
	src, err := open(path)
	if err != nil {
		return nil
	}
	defer src.Close()
	d, ok := src.(demux.StreamDescriber)
	if !ok {
		return nil
	}
	if _, err := src.Open(path); err != nil {
		return nil
	}
	return d.Streams()
}
