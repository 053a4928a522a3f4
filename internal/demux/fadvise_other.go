//go:build !linux

package demux

import "os"

func adviseSequential(*os.File) {}
