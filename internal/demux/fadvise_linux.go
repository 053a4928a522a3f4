//go:build linux

package demux

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the file is read front to back once.
// Failures only cost read-ahead, so they are ignored.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
