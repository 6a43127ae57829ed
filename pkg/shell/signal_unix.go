//go:build unix

package shell

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

var stopSignals = []os.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGHUP}

func signalName(sig os.Signal) string {
	return unix.SignalName(sig.(syscall.Signal))
}
