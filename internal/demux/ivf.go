package demux

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pion/webrtc/v4/pkg/media/ivfreader"

	"prick/internal/fingerprint"
)

// IVF reads VP8/VP9/AV1 frames from IVF files. An IVF file always carries
// exactly one stream.
type IVF struct {
	file   *os.File
	reader *ivfreader.IVFReader
	header *ivfreader.IVFFileHeader
}

// NewIVF returns an unopened IVF source.
func NewIVF() *IVF {
	return &IVF{}
}

// Open implements fingerprint.Source.
func (v *IVF) Open(path string) (int, error) {
	_ = v.Close()

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", fingerprint.ErrOpen, err)
	}
	adviseSequential(file)
	v.file = file
	if err := v.rewind(); err != nil {
		_ = v.Close()
		return 0, fmt.Errorf("%w: %s: %w", fingerprint.ErrOpen, path, err)
	}
	return 1, nil
}

// Next implements fingerprint.Source.
func (v *IVF) Next() (fingerprint.Packet, error) {
	if v.reader == nil {
		return fingerprint.Packet{}, fmt.Errorf("%w: source is not open", fingerprint.ErrRead)
	}
	frame, _, err := v.reader.ParseNextFrame()
	if errors.Is(err, io.EOF) {
		return fingerprint.Packet{}, fingerprint.ErrEndOfStream
	}
	if err != nil {
		return fingerprint.Packet{}, fmt.Errorf("%w: %w", fingerprint.ErrRead, err)
	}
	return fingerprint.Packet{StreamIndex: 0, Payload: frame}, nil
}

// SeekStart implements fingerprint.Source.
func (v *IVF) SeekStart() error {
	if v.file == nil {
		return errors.New("seek: source is not open")
	}
	return v.rewind()
}

// Close implements fingerprint.Source.
func (v *IVF) Close() error {
	v.reader = nil
	v.header = nil
	if v.file == nil {
		return nil
	}
	err := v.file.Close()
	v.file = nil
	return err
}

// Streams describes the single IVF stream.
func (v *IVF) Streams() []StreamInfo {
	if v.header == nil {
		return nil
	}
	return []StreamInfo{{Index: 0, MediaType: "video", Codec: v.header.FourCC}}
}

func (v *IVF) rewind() error {
	if _, err := v.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	reader, header, err := ivfreader.NewWith(v.file)
	if err != nil {
		return err
	}
	v.reader = reader
	v.header = header
	return nil
}
