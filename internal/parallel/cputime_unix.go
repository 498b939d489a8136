//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package parallel

import (
	"time"

	"golang.org/x/sys/unix"
)

// processCPUTime returns the user+system CPU time consumed by the process.
func processCPUTime() (time.Duration, bool) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, false
	}
	return time.Duration(ru.Utime.Nano() + ru.Stime.Nano()), true
}
