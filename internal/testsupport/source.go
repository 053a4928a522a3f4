package testsupport

import (
	"fmt"
	"sync"

	"prick/internal/fingerprint"
)

// PacketSource is an in-memory fingerprint.Source. Metadata models
// container-level data that never reaches the packet stream, so two sources
// with different metadata and equal packets must fingerprint identically.
//
// Payloads are copied into a buffer that is reused on every call to Next,
// mirroring demuxers that only lend their packet memory.
type PacketSource struct {
	StreamCount int
	Packets     []fingerprint.Packet
	Metadata    map[string]string

	// OpenErr is returned by Open when set.
	OpenErr error
	// ReadErr is returned by Next after FailAfter packets when set.
	ReadErr   error
	FailAfter int
	// OnNext runs before every packet read.
	OnNext func(pos int)

	OpenCalls  int
	CloseCalls int
	SeekCalls  int
	LastPath   string

	pos    int
	opened bool
	buf    []byte
}

// NewPacketSource returns a source announcing streams streams and yielding
// packets in order.
func NewPacketSource(streams int, packets ...fingerprint.Packet) *PacketSource {
	return &PacketSource{StreamCount: streams, Packets: packets}
}

// Packet is shorthand for a packet with a string payload.
func Packet(stream int, payload string) fingerprint.Packet {
	return fingerprint.Packet{StreamIndex: stream, Payload: []byte(payload)}
}

// Open implements fingerprint.Source.
func (s *PacketSource) Open(path string) (int, error) {
	s.OpenCalls++
	s.LastPath = path
	if s.OpenErr != nil {
		return 0, s.OpenErr
	}
	if s.StreamCount <= 0 {
		return 0, fmt.Errorf("%w: %s", fingerprint.ErrEmptyContainer, path)
	}
	s.opened = true
	s.pos = 0
	return s.StreamCount, nil
}

// Next implements fingerprint.Source.
func (s *PacketSource) Next() (fingerprint.Packet, error) {
	if !s.opened {
		return fingerprint.Packet{}, fmt.Errorf("%w: source is closed", fingerprint.ErrRead)
	}
	if s.OnNext != nil {
		s.OnNext(s.pos)
	}
	if s.ReadErr != nil && s.pos >= s.FailAfter {
		return fingerprint.Packet{}, s.ReadErr
	}
	if s.pos >= len(s.Packets) {
		return fingerprint.Packet{}, fingerprint.ErrEndOfStream
	}
	pkt := s.Packets[s.pos]
	s.pos++
	s.buf = append(s.buf[:0], pkt.Payload...)
	return fingerprint.Packet{StreamIndex: pkt.StreamIndex, Payload: s.buf}, nil
}

// SeekStart implements fingerprint.Source.
func (s *PacketSource) SeekStart() error {
	s.SeekCalls++
	if !s.opened {
		return fmt.Errorf("%w: source is closed", fingerprint.ErrRead)
	}
	s.pos = 0
	return nil
}

// Close implements fingerprint.Source.
func (s *PacketSource) Close() error {
	s.CloseCalls++
	s.opened = false
	return nil
}

// Opened reports whether the source is currently open.
func (s *PacketSource) Opened() bool {
	return s.opened
}

// Library maps file paths to packet layouts and hands out a fresh
// PacketSource for each open, the way a demuxer factory would.
type Library struct {
	mu      sync.Mutex
	streams map[string]*PacketSource
	opened  []string
}

// NewLibrary returns an empty Library.
func NewLibrary() *Library {
	return &Library{streams: make(map[string]*PacketSource)}
}

// Add registers the packet layout served for path.
func (l *Library) Add(path string, streams int, packets ...fingerprint.Packet) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.streams[path] = NewPacketSource(streams, packets...)
}

// Set registers a fully configured template source for path.
func (l *Library) Set(path string, src *PacketSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.streams[path] = src
}

// Factory returns a source constructor. Unknown paths yield a source whose
// Open fails with fingerprint.ErrOpen.
func (l *Library) Factory() func(path string) (fingerprint.Source, error) {
	return func(path string) (fingerprint.Source, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.opened = append(l.opened, path)
		tmpl, ok := l.streams[path]
		if !ok {
			return &PacketSource{OpenErr: fmt.Errorf("%w: %s not registered", fingerprint.ErrOpen, path)}, nil
		}
		return &PacketSource{
			StreamCount: tmpl.StreamCount,
			Packets:     tmpl.Packets,
			Metadata:    tmpl.Metadata,
			OpenErr:     tmpl.OpenErr,
			ReadErr:     tmpl.ReadErr,
			FailAfter:   tmpl.FailAfter,
			OnNext:      tmpl.OnNext,
		}, nil
	}
}

// Opened returns the paths handed to the factory, in call order.
func (l *Library) Opened() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.opened...)
}
