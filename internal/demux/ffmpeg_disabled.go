//go:build nolibav

package demux

import (
	"fmt"

	"prick/internal/fingerprint"
)

// FFmpegAvailable reports whether this build links libavformat.
const FFmpegAvailable = false

// Init is a no-op without libav.
func Init() {}

func newFFmpegSource() (fingerprint.Source, error) {
	return nil, fmt.Errorf("%w: ffmpeg (built with the nolibav tag)", ErrBackendUnavailable)
}
