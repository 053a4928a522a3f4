//go:build !nolibav

package demux

import (
	"errors"
	"fmt"
	"sync"

	"github.com/asticode/go-astiav"

	"prick/internal/fingerprint"
)

var initOnce sync.Once

// Init prepares the libav runtime for the process. Repeated calls are
// no-ops. libav keeps no per-process state that needs explicit teardown.
func Init() {
	initOnce.Do(func() {
		astiav.SetLogLevel(astiav.LogLevelQuiet)
	})
}

// FFmpeg reads packets through libavformat.
type FFmpeg struct {
	fc      *astiav.FormatContext
	pkt     *astiav.Packet
	streams []StreamInfo
}

// FFmpegAvailable reports whether this build links libavformat.
const FFmpegAvailable = true

func newFFmpegSource() (fingerprint.Source, error) {
	return NewFFmpeg(), nil
}

// NewFFmpeg returns an unopened libavformat source.
func NewFFmpeg() *FFmpeg {
	Init()
	return &FFmpeg{}
}

// Open implements fingerprint.Source.
func (f *FFmpeg) Open(path string) (int, error) {
	_ = f.Close()

	fc := astiav.AllocFormatContext()
	if fc == nil {
		return 0, fmt.Errorf("%w: %s: allocate format context", fingerprint.ErrOpen, path)
	}
	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return 0, fmt.Errorf("%w: %s: %w", fingerprint.ErrOpen, path, err)
	}
	f.fc = fc

	if err := fc.FindStreamInfo(nil); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("%w: %s: %w", fingerprint.ErrStreamDiscovery, path, err)
	}
	count := fc.NbStreams()
	if count <= 0 {
		_ = f.Close()
		return 0, fmt.Errorf("%w: %s", fingerprint.ErrEmptyContainer, path)
	}
	f.streams = describeStreams(fc.Streams())
	f.pkt = astiav.AllocPacket()

	// Stream probing may have consumed packets; rewind so the first one is
	// delivered. Unseekable inputs are still positioned at their start.
	_ = f.SeekStart()
	return count, nil
}

// Next implements fingerprint.Source. libav packet memory is copied into a
// Go slice before the packet is unreferenced.
func (f *FFmpeg) Next() (fingerprint.Packet, error) {
	if f.fc == nil || f.pkt == nil {
		return fingerprint.Packet{}, fmt.Errorf("%w: source is not open", fingerprint.ErrRead)
	}
	if err := f.fc.ReadFrame(f.pkt); err != nil {
		if errors.Is(err, astiav.ErrEof) {
			return fingerprint.Packet{}, fingerprint.ErrEndOfStream
		}
		return fingerprint.Packet{}, fmt.Errorf("%w: %w", fingerprint.ErrRead, err)
	}
	defer f.pkt.Unref()
	return fingerprint.Packet{
		StreamIndex: f.pkt.StreamIndex(),
		Payload:     f.pkt.Data(),
	}, nil
}

// SeekStart implements fingerprint.Source.
func (f *FFmpeg) SeekStart() error {
	if f.fc == nil {
		return errors.New("seek: source is not open")
	}
	if err := f.fc.SeekFrame(0, 0, astiav.NewSeekFlags(astiav.SeekFlagByte)); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// Close implements fingerprint.Source.
func (f *FFmpeg) Close() error {
	if f.pkt != nil {
		f.pkt.Free()
		f.pkt = nil
	}
	if f.fc != nil {
		f.fc.CloseInput()
		f.fc.Free()
		f.fc = nil
	}
	f.streams = nil
	return nil
}

// Streams describes the elementary streams of the open container.
func (f *FFmpeg) Streams() []StreamInfo {
	return append([]StreamInfo(nil), f.streams...)
}

func describeStreams(streams []*astiav.Stream) []StreamInfo {
	out := make([]StreamInfo, 0, len(streams))
	for _, s := range streams {
		info := StreamInfo{Index: s.Index()}
		if cp := s.CodecParameters(); cp != nil {
			info.MediaType = cp.MediaType().String()
			info.Codec = cp.CodecID().Name()
		}
		out = append(out, info)
	}
	return out
}
