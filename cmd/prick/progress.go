package main

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// fileProgress draws one byte-based bar per file for sequential hashing.
// A nil *fileProgress is valid and draws nothing.
type fileProgress struct {
	out  io.Writer
	bar  *progressbar.ProgressBar
	path string
}

func newFileProgress(out io.Writer) *fileProgress {
	if !isTerminal(out) {
		return nil
	}
	return &fileProgress{out: out}
}

func (p *fileProgress) update(path string, hashed, size int64) {
	if p == nil {
		return
	}
	if p.bar == nil || p.path != path {
		p.finish()
		p.path = path
		p.bar = progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetDescription(filepath.Base(path)),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set64(hashed)
}

func (p *fileProgress) finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

// scanProgress aggregates bytes hashed across concurrent workers into one
// open-ended bar.
type scanProgress struct {
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	seen  map[string]int64
	total int64
}

func newScanProgress(out io.Writer, files int) *scanProgress {
	if !isTerminal(out) {
		return nil
	}
	return &scanProgress{
		seen: make(map[string]int64, files),
		bar: progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(out),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetDescription("hashing"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (p *scanProgress) update(path string, hashed, _ int64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total += hashed - p.seen[path]
	p.seen[path] = hashed
	p.bar.Describe(filepath.Base(path))
	_ = p.bar.Set64(p.total)
}

func (p *scanProgress) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}
