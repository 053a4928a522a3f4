package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// placeholder stands in for container bytes. Sources in tests come from a
// Library, so the file only has to exist with the right size and mtime.
var placeholder = []byte("prick-media\x00")

// WriteFile creates path (and its parents) holding size placeholder bytes.
// A size <= 0 writes a single byte. The modification time is pushed past
// any earlier write so catalog skip checks always see the change.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	body := bytes.Repeat(placeholder, int(size)/len(placeholder)+1)[:size]
	var prev time.Time
	if info, err := os.Stat(path); err == nil {
		prev = info.ModTime()
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if !prev.IsZero() {
		Touch(t, path, prev.Add(time.Second))
	}
}

// Touch sets both access and modification time of path.
func Touch(t testing.TB, path string, modTime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}
