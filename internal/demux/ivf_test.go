package demux

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"prick/internal/fingerprint"
)

func writeIVF(t *testing.T, path string, frames ...[]byte) {
	t.Helper()
	var buf bytes.Buffer
	header := make([]byte, 32)
	copy(header[0:4], "DKIF")
	binary.LittleEndian.PutUint16(header[4:6], 0)
	binary.LittleEndian.PutUint16(header[6:8], 32)
	copy(header[8:12], "VP80")
	binary.LittleEndian.PutUint16(header[12:14], 320)
	binary.LittleEndian.PutUint16(header[14:16], 240)
	binary.LittleEndian.PutUint32(header[16:20], 30)
	binary.LittleEndian.PutUint32(header[20:24], 1)
	binary.LittleEndian.PutUint32(header[24:28], uint32(len(frames)))
	buf.Write(header)
	for i, frame := range frames {
		fh := make([]byte, 12)
		binary.LittleEndian.PutUint32(fh[0:4], uint32(len(frame)))
		binary.LittleEndian.PutUint64(fh[4:12], uint64(i))
		buf.Write(fh)
		buf.Write(frame)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write ivf: %v", err)
	}
}

func TestIVFFingerprintHashesFramePayloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ivf")
	writeIVF(t, path, []byte("frame-one"), []byte("frame-two"), []byte("x"))

	res, err := fingerprint.New(NewIVF()).Compute(context.Background(), path)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := sha256.Sum256([]byte("frame-oneframe-twox"))
	if !bytes.Equal(res.Digest, want[:]) {
		t.Fatalf("fingerprint = %x, want %x", res.Digest, want)
	}
	if res.Packets != 3 {
		t.Fatalf("Packets = %d, want 3", res.Packets)
	}
}

func TestIVFIgnoresHeaderFields(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ivf")
	b := filepath.Join(dir, "b.ivf")
	writeIVF(t, a, []byte("same"), []byte("frames"))
	writeIVF(t, b, []byte("same"), []byte("frames"))

	// Rewrite the dimensions in b's file header.
	raw, err := os.ReadFile(b)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	binary.LittleEndian.PutUint16(raw[12:14], 1920)
	binary.LittleEndian.PutUint16(raw[14:16], 1080)
	if err := os.WriteFile(b, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ra, err := fingerprint.New(NewIVF()).Compute(context.Background(), a)
	if err != nil {
		t.Fatalf("a: %v", err)
	}
	rb, err := fingerprint.New(NewIVF()).Compute(context.Background(), b)
	if err != nil {
		t.Fatalf("b: %v", err)
	}
	if ra.Hex() != rb.Hex() {
		t.Fatalf("header edit changed fingerprint: %s vs %s", ra.Hex(), rb.Hex())
	}
}

func TestIVFOpenMissingFile(t *testing.T) {
	src := NewIVF()
	_, err := src.Open(filepath.Join(t.TempDir(), "missing.ivf"))
	if !errors.Is(err, fingerprint.ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist cause, got %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close on unopened source: %v", err)
	}
}

func TestIVFOpenRejectsNonIVF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.ivf")
	if err := os.WriteFile(path, bytes.Repeat([]byte("not an ivf file "), 4), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewIVF().Open(path); !errors.Is(err, fingerprint.ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
}

func TestIVFTruncatedFrameIsReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.ivf")
	writeIVF(t, path, []byte("complete"), []byte("this frame is cut short"))
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := os.WriteFile(path, raw[:len(raw)-5], 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	engine := fingerprint.New(NewIVF())
	_, err = engine.Compute(context.Background(), path)
	if !errors.Is(err, fingerprint.ErrRead) {
		t.Fatalf("expected ErrRead for truncated file, got %v", err)
	}
	if engine.State() != fingerprint.StateFailed {
		t.Fatalf("state = %s, want failed", engine.State())
	}
}

func TestIVFSeekStartReplaysFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.ivf")
	writeIVF(t, path, []byte("one"), []byte("two"))

	engine := fingerprint.New(NewIVF())
	defer engine.Close()
	first, err := engine.Compute(context.Background(), path)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if err := engine.Rescan(context.Background()); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	second, err := engine.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if first.Hex() != second.Hex() || second.Packets != 2 {
		t.Fatalf("rescan mismatch: %s/%d vs %s/%d", first.Hex(), first.Packets, second.Hex(), second.Packets)
	}
}

func TestIVFStreams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desc.ivf")
	writeIVF(t, path, []byte("f"))
	src := NewIVF()
	count, err := src.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	streams := src.Streams()
	if len(streams) != 1 || streams[0].Codec != "VP80" || streams[0].MediaType != "video" {
		t.Fatalf("unexpected streams: %+v", streams)
	}
}
