package demux

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"prick/internal/fingerprint"
)

// Backend names a demultiplexer implementation.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendFFmpeg Backend = "ffmpeg"
	BackendIVF    Backend = "ivf"
)

// ErrBackendUnavailable is returned for a backend this build does not
// include.
var ErrBackendUnavailable = errors.New("demux backend unavailable")

// StreamInfo describes one elementary stream for diagnostics.
type StreamInfo struct {
	Index     int    `json:"index"`
	MediaType string `json:"media_type"`
	Codec     string `json:"codec"`
}

// StreamDescriber is implemented by sources that can describe their streams
// once opened.
type StreamDescriber interface {
	Streams() []StreamInfo
}

// ParseBackend validates a configured backend name.
func ParseBackend(value string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(value))) {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendFFmpeg:
		return BackendFFmpeg, nil
	case BackendIVF:
		return BackendIVF, nil
	default:
		return "", fmt.Errorf("unsupported demux backend %q", value)
	}
}

// NewSource returns a fresh source for path. With BackendAuto, files ending
// in .ivf use the IVF reader and everything else goes through libavformat.
func NewSource(backend Backend, path string) (fingerprint.Source, error) {
	switch backend {
	case BackendFFmpeg:
		return newFFmpegSource()
	case BackendIVF:
		return NewIVF(), nil
	case "", BackendAuto:
		if strings.EqualFold(filepath.Ext(path), ".ivf") {
			return NewIVF(), nil
		}
		return newFFmpegSource()
	default:
		return nil, fmt.Errorf("unsupported demux backend %q", backend)
	}
}

// Factory returns a source constructor bound to backend.
func Factory(backend Backend) func(path string) (fingerprint.Source, error) {
	return func(path string) (fingerprint.Source, error) {
		return NewSource(backend, path)
	}
}
